package models

import "time"

// Book tracks reading progress. "At most one reading book" is enforced by
// most-recent selection in queries, not by a hard constraint.
type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Status      string     `gorm:"type:enum('reading','completed');default:'reading'" json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (Book) TableName() string {
	return "books"
}
