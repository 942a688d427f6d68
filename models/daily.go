package models

import "time"

// DailyCompletion is the per-user, per-category, per-day mark. The unique
// key (user, category, date) makes re-marking an upsert rather than a new row.
type DailyCompletion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_category_date;not null" json:"user_id"`
	Category  string    `gorm:"size:20;uniqueIndex:idx_user_category_date;not null" json:"category"`
	Date      string    `gorm:"size:10;uniqueIndex:idx_user_category_date;not null" json:"date"`
	Status    string    `gorm:"type:enum('completed','failed');not null" json:"status"`
	XP        int       `gorm:"not null" json:"xp"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (DailyCompletion) TableName() string {
	return "daily_completions"
}
