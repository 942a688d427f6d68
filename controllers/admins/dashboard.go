package admins

import (
	"net/http"
	"time"

	"github.com/sambdun/ferro-animus/database"
	"github.com/sambdun/ferro-animus/models"
	"github.com/sambdun/ferro-animus/utils"
)

type DailyGrowth struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type DashboardStats struct {
	TotalUsers      int64         `json:"total_users"`
	GrowthUsers     []DailyGrowth `json:"growth_users"`
	ActiveQuests    int64         `json:"active_quests"`
	CompletedQuests int64         `json:"completed_quests"`
	BooksReading    int64         `json:"books_reading"`
	BooksCompleted  int64         `json:"books_completed"`
	MarksToday      int64         `json:"marks_today"`
	LedgerEntries   int64         `json:"ledger_entries"`
}

// GET /api/admin/dashboard
func GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	db := database.DB

	stats.GrowthUsers = make([]DailyGrowth, 0, 7)

	db.Model(&models.User{}).Count(&stats.TotalUsers)
	db.Model(&models.Quest{}).Where("status = ?", "active").Count(&stats.ActiveQuests)
	db.Model(&models.Quest{}).Where("status = ?", "completed").Count(&stats.CompletedQuests)
	db.Model(&models.Book{}).Where("status = ?", "reading").Count(&stats.BooksReading)
	db.Model(&models.Book{}).Where("status = ?", "completed").Count(&stats.BooksCompleted)
	db.Model(&models.DailyCompletion{}).
		Where("date = ?", time.Now().Format("2006-01-02")).
		Count(&stats.MarksToday)
	db.Model(&models.LedgerEntry{}).Count(&stats.LedgerEntries)

	// Signups per day for the last 7 days, oldest first.
	for i := 6; i >= 0; i-- {
		day := time.Now().AddDate(0, 0, -i)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		var count int64
		db.Model(&models.User{}).
			Where("created_at >= ? AND created_at < ?", start, start.AddDate(0, 0, 1)).
			Count(&count)
		stats.GrowthUsers = append(stats.GrowthUsers, DailyGrowth{Day: day.Format("Monday"), Count: count})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "OK",
		Data:    stats,
	})
}
