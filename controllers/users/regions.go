package users

import (
	"log"
	"net/http"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/engine"
	"github.com/sambdun/ferro-animus/models"
	"github.com/sambdun/ferro-animus/utils"
)

// GET /api/regions
func ListRegionsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var state models.LedgerState
	totalXP := 0
	if err := database.DB.Where("user_id = ?", uid).First(&state).Error; err == nil {
		totalXP = state.TotalXP
	}
	level := engine.LevelForXP(totalXP)

	var regions []models.Region
	if err := database.DB.Order("min_level ASC").Find(&regions).Error; err != nil {
		log.Printf("[regions] list failed: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	out := make([]map[string]interface{}, 0, len(regions))
	for _, region := range regions {
		out = append(out, map[string]interface{}{
			"id":        region.ID,
			"name":      region.Name,
			"min_level": region.MinLevel,
			"lore":      region.Lore,
			"boss":      region.Boss,
			"gear":      region.Gear,
			"unlocked":  level >= region.MinLevel,
		})
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "OK",
		Data:    map[string]interface{}{"level": level, "regions": out},
	})
}
