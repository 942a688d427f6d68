package models

import "time"

// LedgerState is the singleton per-user running XP total. It is never
// deleted; a reset writes zero back into it.
type LedgerState struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	TotalXP   int       `gorm:"not null;default:0" json:"total_xp"`
	UpdatedAt time.Time `json:"-"`
}

func (LedgerState) TableName() string {
	return "ledger_states"
}

// LedgerEntry is one line of the append-only XP history. Only the 50 most
// recent rows per user are kept live; older rows are evicted on insert.
type LedgerEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	DateLabel string    `gorm:"size:10;not null" json:"date"`
	Note      string    `gorm:"size:200" json:"note"`
	XP        int       `gorm:"not null" json:"xp"`
	CreatedAt time.Time `json:"-"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
