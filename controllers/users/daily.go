package users

import (
	"encoding/json"
	"net/http"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/engine"
	"github.com/sambdun/ferro-animus/utils"
)

type DailyQuestRequest struct {
	QuestID string `json:"questId"`
	Status  string `json:"status"`
	Date    string `json:"date"`
}

// POST /api/daily-quests
//
// questId carries the daily-quest category name (calorie, gym, ...); the
// engine runs the per-day toggle protocol and reports the applied delta.
func ToggleDailyHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var req DailyQuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}

	category, err := engine.ParseCategory(req.QuestID)
	if err != nil {
		writeEngineError(w, "daily", err)
		return
	}
	status, err := engine.ParseStatus(req.Status)
	if err != nil {
		writeEngineError(w, "daily", err)
		return
	}
	res, err := database.Engine().ToggleDaily(uid, category, status, req.Date)
	if err != nil {
		writeEngineError(w, "daily", err)
		return
	}
	writeSnapshot(w, uid, map[string]interface{}{
		"xpAwarded": res.XPAwarded,
		"date":      res.Date,
		"status":    string(res.Status),
	})
}
