package admins

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/engine"
	"github.com/sambdun/ferro-animus/models"
	"github.com/sambdun/ferro-animus/utils"
)

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	TotalXP   int    `json:"total_xp"`
	Level     int    `json:"level"`
	CreatedAt string `json:"created_at"`
}

// GET /api/admin/users
func GetUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB
	query := db.Model(&models.User{})
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []models.User
	query.Order("id ASC").Offset(offset).Limit(limit).Find(&users)

	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	totals := map[uint]int{}
	if len(ids) > 0 {
		var states []models.LedgerState
		db.Where("user_id IN ?", ids).Find(&states)
		for _, st := range states {
			totals[st.UserID] = st.TotalXP
		}
	}

	response := make([]UserResponse, 0, len(users))
	for _, user := range users {
		total := totals[user.ID]
		response = append(response, UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			IsAdmin:   user.IsAdmin,
			TotalXP:   total,
			Level:     engine.LevelForXP(total),
			CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "OK",
		Data:    response,
	})
}
