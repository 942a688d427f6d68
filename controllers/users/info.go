package users

import (
	"log"
	"net/http"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/engine"
	"github.com/sambdun/ferro-animus/models"
	"github.com/sambdun/ferro-animus/utils"
)

// GET /api/users/info
func InfoHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
		return
	}

	snap, err := database.Engine().Snapshot(uid)
	if err != nil {
		log.Printf("[info] snapshot for user %d failed: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var unlocked int64
	database.DB.Model(&models.Region{}).Where("min_level <= ?", snap.Level).Count(&unlocked)

	var avatarURL interface{}
	if user.Avatar != nil && *user.Avatar != "" {
		if url, err := utils.AvatarSignedURL(*user.Avatar, 3600); err == nil {
			avatarURL = url
		}
	}

	nextAt := interface{}(nil)
	if snap.Level < engine.MaxLevel {
		nextAt = engine.XPForLevel(snap.Level + 1)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "OK",
		Data: map[string]interface{}{
			"user": map[string]interface{}{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
				"is_admin": user.IsAdmin,
				"avatar":   avatarURL,
			},
			"totalXP":          snap.TotalXP,
			"level":            snap.Level,
			"next_level_xp":    nextAt,
			"stats":            snap.Stats,
			"regions_unlocked": unlocked,
		},
	})
}
