package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/models"
	"github.com/sambdun/ferro-animus/utils"
)

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutHandler revokes a refresh token and, when an Authorization header is
// present, the access token's jti as well.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid JSON body"})
		return
	}
	if req.RefreshToken == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "refresh_token is required"})
		return
	}

	revokeBearerJTI(r)

	if database.DB == nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	// Row-not-found still reports success to avoid token enumeration.
	_ = database.DB.Model(&models.RefreshToken{}).Where("id = ?", req.RefreshToken).Update("revoked", true).Error
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}

// revokeBearerJTI best-effort revokes the access token named by the
// Authorization header. Parse errors are ignored; the refresh token is the
// credential that matters.
func revokeBearerJTI(r *http.Request) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	_, claims, err := utils.ValidateAccessToken(tokenStr)
	if err != nil {
		return
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return
	}
	var ttl time.Duration
	if expRaw, ok := claims["exp"].(float64); ok {
		ttl = time.Until(time.Unix(int64(expRaw), 0))
	}
	if ttl < 0 {
		ttl = 0
	}
	_ = utils.RevokeJTI(jti, ttl)
}
