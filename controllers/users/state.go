package users

import (
	"log"
	"net/http"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/engine"
	"github.com/sambdun/ferro-animus/utils"
)

// GET /api/state
func StateHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	writeSnapshot(w, uid, nil)
}

// writeSnapshot responds with the recomputed state, optionally merged with
// operation-specific extras (xpAwarded, date, ...).
func writeSnapshot(w http.ResponseWriter, uid uint, extra map[string]interface{}) {
	snap, err := database.Engine().Snapshot(uid)
	if err != nil {
		log.Printf("[state] snapshot for user %d failed: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	data := map[string]interface{}{
		"totalXP": snap.TotalXP,
		"level":   snap.Level,
		"stats":   snap.Stats,
		"log":     snap.Log,
	}
	for k, v := range extra {
		data[k] = v
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "OK", Data: data})
}

// writeEngineError maps engine errors onto HTTP statuses: validation
// failures are 400, unknown resources are 404, everything else is a 500.
func writeEngineError(w http.ResponseWriter, tag string, err error) {
	if engine.IsValidation(err) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}
	if engine.IsNotFound(err) {
		utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: err.Error()})
		return
	}
	log.Printf("[%s] %v", tag, err)
	utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
}
