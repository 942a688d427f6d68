package models

import "time"

type Quest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Name        string     `gorm:"size:120;not null" json:"name"`
	Tag         string     `gorm:"type:enum('weekly','monthly','boss');default:'weekly'" json:"tag"`
	XP          int        `gorm:"not null;default:0" json:"xp"`
	Status      string     `gorm:"type:enum('active','completed');default:'active'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (Quest) TableName() string {
	return "quests"
}
