package database

import (
	"errors"
	"time"

	"github.com/sambdun/ferro-animus/engine"
	"github.com/sambdun/ferro-animus/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store adapts GORM to the engine's repository interfaces. WithTx wraps
// each logical mutation (total update + history append + eviction) into a
// single transaction so a crash cannot leave the pair half-applied.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithTx(fn func(engine.Repos) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (s *Store) View() engine.Repos {
	return reposFor(s.db)
}

func reposFor(db *gorm.DB) engine.Repos {
	return engine.Repos{
		Ledger:      ledgerRepo{db},
		Completions: completionRepo{db},
		Quests:      questRepo{db},
		Books:       bookRepo{db},
	}
}

type ledgerRepo struct{ db *gorm.DB }

func (r ledgerRepo) TotalXP(userID uint) (int, error) {
	var state models.LedgerState
	err := r.db.Where("user_id = ?", userID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return state.TotalXP, nil
}

func (r ledgerRepo) SetTotalXP(userID uint, totalXP int) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_xp", "updated_at"}),
	}).Create(&models.LedgerState{UserID: userID, TotalXP: totalXP}).Error
}

func (r ledgerRepo) AppendEntry(userID uint, e engine.Entry) error {
	return r.db.Create(&models.LedgerEntry{
		UserID:    userID,
		DateLabel: e.Date,
		Note:      e.Note,
		XP:        e.XP,
	}).Error
}

func (r ledgerRepo) TrimHistory(userID uint, keep int) error {
	var ids []uint
	err := r.db.Model(&models.LedgerEntry{}).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(keep).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) < keep {
		return nil
	}
	return r.db.
		Where("user_id = ? AND id < ?", userID, ids[len(ids)-1]).
		Delete(&models.LedgerEntry{}).Error
}

func (r ledgerRepo) History(userID uint, limit int) ([]engine.Entry, error) {
	var rows []models.LedgerEntry
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]engine.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, engine.Entry{Date: row.DateLabel, Note: row.Note, XP: row.XP})
	}
	return out, nil
}

func (r ledgerRepo) ClearHistory(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.LedgerEntry{}).Error
}

type completionRepo struct{ db *gorm.DB }

func (r completionRepo) Get(userID uint, c engine.Category, date string) (*engine.Completion, error) {
	var row models.DailyCompletion
	err := r.db.
		Where("user_id = ? AND category = ? AND date = ?", userID, string(c), date).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &engine.Completion{Status: engine.Status(row.Status), XP: row.XP}, nil
}

func (r completionRepo) Upsert(userID uint, c engine.Category, date string, status engine.Status, xp int) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "xp", "updated_at"}),
	}).Create(&models.DailyCompletion{
		UserID:   userID,
		Category: string(c),
		Date:     date,
		Status:   string(status),
		XP:       xp,
	}).Error
}

func (r completionRepo) CompletedCounts(userID uint, from, to string) (map[engine.Category]int, error) {
	var rows []struct {
		Category string
		N        int
	}
	err := r.db.Model(&models.DailyCompletion{}).
		Select("category, COUNT(*) AS n").
		Where("user_id = ? AND status = ? AND date BETWEEN ? AND ?", userID, string(engine.StatusCompleted), from, to).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[engine.Category]int, len(rows))
	for _, row := range rows {
		counts[engine.Category(row.Category)] = row.N
	}
	return counts, nil
}

type questRepo struct{ db *gorm.DB }

func (r questRepo) ActiveByID(userID, questID uint) (*engine.QuestInfo, error) {
	var q models.Quest
	err := r.db.
		Where("id = ? AND user_id = ? AND status = ?", questID, userID, "active").
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &engine.QuestInfo{
		ID:   q.ID,
		Name: q.Name,
		Tag:  engine.QuestTag(q.Tag),
		XP:   q.XP,
	}, nil
}

func (r questRepo) MarkCompleted(userID, questID uint, at time.Time) error {
	return r.db.Model(&models.Quest{}).
		Where("id = ? AND user_id = ?", questID, userID).
		Updates(map[string]interface{}{"status": "completed", "completed_at": at}).Error
}

type bookRepo struct{ db *gorm.DB }

func (r bookRepo) ReadingByID(userID, bookID uint) (*engine.BookInfo, error) {
	var b models.Book
	err := r.db.
		Where("id = ? AND user_id = ? AND status = ?", bookID, userID, "reading").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &engine.BookInfo{ID: b.ID, Title: b.Title, Reading: true}, nil
}

func (r bookRepo) MarkFinished(userID, bookID uint, at time.Time) error {
	return r.db.Model(&models.Book{}).
		Where("id = ? AND user_id = ?", bookID, userID).
		Updates(map[string]interface{}{"status": "completed", "completed_at": at}).Error
}

func (r bookRepo) CompletedCount(userID uint) (int, error) {
	var n int64
	err := r.db.Model(&models.Book{}).
		Where("user_id = ? AND status = ?", userID, "completed").
		Count(&n).Error
	return int(n), err
}

// Engine returns a scoring engine bound to the shared DB handle.
func Engine() *engine.Service {
	return engine.NewService(NewStore(DB))
}
