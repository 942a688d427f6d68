package users

import (
	"encoding/json"
	"net/http"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/utils"
)

type AdjustXPRequest struct {
	XP   int    `json:"xp"`
	Note string `json:"note"`
}

// POST /api/xp
func AdjustXPHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	var req AdjustXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if err := database.Engine().AdjustXP(uid, req.XP, req.Note); err != nil {
		writeEngineError(w, "xp", err)
		return
	}
	writeSnapshot(w, uid, map[string]interface{}{"xpAwarded": req.XP})
}

// POST /api/reset
func ResetHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	if err := database.Engine().Reset(uid); err != nil {
		writeEngineError(w, "reset", err)
		return
	}
	writeSnapshot(w, uid, nil)
}
