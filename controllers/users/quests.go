package users

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/models"
	"github.com/sambdun/ferro-animus/utils"

	"github.com/gorilla/mux"
)

type CreateQuestRequest struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
	XP   int    `json:"xp"`
}

var questTags = map[string]bool{"weekly": true, "monthly": true, "boss": true}

// POST /api/quests
func CreateQuestHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var req CreateQuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 120 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Quest name must be 1-120 characters"})
		return
	}
	if req.Tag == "" {
		req.Tag = "weekly"
	}
	if !questTags[req.Tag] {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Tag must be weekly, monthly or boss"})
		return
	}
	if req.XP < 0 || req.XP > 10000 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Quest XP must be between 0 and 10000"})
		return
	}

	quest := models.Quest{
		UserID: uid,
		Name:   req.Name,
		Tag:    req.Tag,
		XP:     req.XP,
		Status: "active",
	}
	if err := database.DB.Create(&quest).Error; err != nil {
		log.Printf("[quests] create failed: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "Quest created", Data: quest})
}

// GET /api/quests
func ListQuestsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var quests []models.Quest
	q := database.DB.Where("user_id = ?", uid)
	if status := r.URL.Query().Get("status"); status == "active" || status == "completed" {
		q = q.Where("status = ?", status)
	}
	if err := q.Order("id DESC").Find(&quests).Error; err != nil {
		log.Printf("[quests] list failed: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "OK", Data: quests})
}

// POST /api/quests/{id}/complete
func CompleteQuestHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	questID, err := pathID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid quest id"})
		return
	}
	res, err := database.Engine().CompleteQuest(uid, questID)
	if err != nil {
		writeEngineError(w, "quests", err)
		return
	}
	writeSnapshot(w, uid, map[string]interface{}{
		"xpAwarded": res.XPAwarded,
		"quest": map[string]interface{}{
			"id":   res.Quest.ID,
			"name": res.Quest.Name,
			"tag":  string(res.Quest.Tag),
		},
	})
}

// DELETE /api/quests/{id}
func DeleteQuestHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	questID, err := pathID(r)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid quest id"})
		return
	}
	res := database.DB.Where("id = ? AND user_id = ?", questID, uid).Delete(&models.Quest{})
	if res.Error != nil {
		log.Printf("[quests] delete failed: %v", res.Error)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Quest not found"})
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Quest deleted"})
}

func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
