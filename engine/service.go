package engine

import (
	"fmt"
	"time"
)

// HistoryCap is how many ledger entries are retained per user. Older
// entries are evicted immediately after each insert.
const HistoryCap = 50

// MaxNoteLen is the ledger note column width. Notes built from user text
// (book titles, quest names) are truncated to fit.
const MaxNoteLen = 200

// Entry is one line of the XP ledger.
type Entry struct {
	Date string `json:"date"`
	Note string `json:"note"`
	XP   int    `json:"xp"`
}

// QuestTag classifies a quest by cadence tier.
type QuestTag string

const (
	TagWeekly  QuestTag = "weekly"
	TagMonthly QuestTag = "monthly"
	TagBoss    QuestTag = "boss"
)

func (t QuestTag) IsValid() bool {
	return t == TagWeekly || t == TagMonthly || t == TagBoss
}

// QuestInfo is the engine's view of a quest row.
type QuestInfo struct {
	ID        uint
	Name      string
	Tag       QuestTag
	XP        int
	Completed bool
}

// BookInfo is the engine's view of a book row.
type BookInfo struct {
	ID      uint
	Title   string
	Reading bool
}

// Completion is the stored mark for one (category, date) pair.
type Completion struct {
	Status Status
	XP     int
}

// LedgerRepository owns the running total and the bounded history.
type LedgerRepository interface {
	TotalXP(userID uint) (int, error)
	SetTotalXP(userID uint, totalXP int) error
	AppendEntry(userID uint, e Entry) error
	TrimHistory(userID uint, keep int) error
	History(userID uint, limit int) ([]Entry, error)
	ClearHistory(userID uint) error
}

// CompletionRepository owns the per-day category marks.
type CompletionRepository interface {
	Get(userID uint, c Category, date string) (*Completion, error)
	Upsert(userID uint, c Category, date string, status Status, xp int) error
	// CompletedCounts returns, per category, the number of completed marks
	// with date in [from, to] inclusive.
	CompletedCounts(userID uint, from, to string) (map[Category]int, error)
}

// QuestRepository resolves and transitions quest rows.
type QuestRepository interface {
	// ActiveByID returns the quest only when it exists, belongs to the
	// user and has not been completed yet.
	ActiveByID(userID, questID uint) (*QuestInfo, error)
	MarkCompleted(userID, questID uint, at time.Time) error
}

// BookRepository resolves and transitions book rows.
type BookRepository interface {
	// ReadingByID returns the book only when it exists, belongs to the
	// user and is still being read.
	ReadingByID(userID, bookID uint) (*BookInfo, error)
	MarkFinished(userID, bookID uint, at time.Time) error
	CompletedCount(userID uint) (int, error)
}

// Repos bundles the repositories the engine mutates through. Inside
// WithTx every repository is bound to the same transaction.
type Repos struct {
	Ledger      LedgerRepository
	Completions CompletionRepository
	Quests      QuestRepository
	Books       BookRepository
}

// Store is the persistence collaborator. WithTx runs fn as one atomic
// unit; View exposes non-transactional repositories for reads.
type Store interface {
	WithTx(fn func(Repos) error) error
	View() Repos
}

// Service is the scoring engine: the single path every XP change flows
// through. It depends only on the Store interfaces so tests can substitute
// an in-memory fake.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewServiceAt builds a Service with a fixed clock. Test helper.
func NewServiceAt(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

// Snapshot is the full client-facing state refresh.
type Snapshot struct {
	TotalXP int     `json:"totalXP"`
	Level   int     `json:"level"`
	Stats   Stats   `json:"stats"`
	Log     []Entry `json:"log"`
}

// Snapshot recomputes totals, level, stats and recent history from raw
// rows. Nothing here is cached; stats are always a view.
func (s *Service) Snapshot(userID uint) (*Snapshot, error) {
	r := s.store.View()
	total, err := r.Ledger.TotalXP(userID)
	if err != nil {
		return nil, err
	}
	log, err := r.Ledger.History(userID, HistoryCap)
	if err != nil {
		return nil, err
	}
	now := s.now()
	counts, err := r.Completions.CompletedCounts(userID, windowStart(now), now.Format(DateLayout))
	if err != nil {
		return nil, err
	}
	books, err := r.Books.CompletedCount(userID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = []Entry{}
	}
	return &Snapshot{
		TotalXP: total,
		Level:   LevelForXP(total),
		Stats:   ComputeStats(counts, books),
		Log:     log,
	}, nil
}

// applyDelta is the one place the running total moves. The total clamps at
// zero, but the history entry records the requested delta as-is. Notes are
// truncated to the column width; history is trimmed to the cap right after
// the insert.
func applyDelta(r Repos, userID uint, delta int, date, note string) error {
	if len(note) > MaxNoteLen {
		note = note[:MaxNoteLen]
	}
	total, err := r.Ledger.TotalXP(userID)
	if err != nil {
		return err
	}
	total += delta
	if total < 0 {
		total = 0
	}
	if err := r.Ledger.SetTotalXP(userID, total); err != nil {
		return err
	}
	if err := r.Ledger.AppendEntry(userID, Entry{Date: date, Note: note, XP: delta}); err != nil {
		return err
	}
	return r.Ledger.TrimHistory(userID, HistoryCap)
}

// AdjustXP applies a manual XP delta. Zero deltas are rejected so the
// ledger never fills with no-op entries.
func (s *Service) AdjustXP(userID uint, delta int, note string) error {
	if delta == 0 {
		return ValidationError{Field: "xp", Reason: "xp delta must be non-zero"}
	}
	if len(note) > MaxNoteLen {
		return ValidationError{Field: "note", Reason: "note must be 200 characters or fewer"}
	}
	if note == "" {
		note = "Manual adjustment"
	}
	today := s.now().Format(DateLayout)
	return s.store.WithTx(func(r Repos) error {
		return applyDelta(r, userID, delta, today, note)
	})
}

// Reset zeroes the ledger and clears its history. Daily completions are
// left alone: stats and XP are independent subsystems and stats keep
// reading from the untouched completion rows.
func (s *Service) Reset(userID uint) error {
	return s.store.WithTx(func(r Repos) error {
		if err := r.Ledger.SetTotalXP(userID, 0); err != nil {
			return err
		}
		return r.Ledger.ClearHistory(userID)
	})
}

// ToggleResult reports the outcome of a daily-quest mark.
type ToggleResult struct {
	XPAwarded int
	Date      string
	Status    Status
}

// ToggleDaily runs the per-(category, date) state machine. Re-marking the
// same status is a no-op. Switching status applies the payoff difference
// rather than the raw payoff, so flipping a mark never double-counts.
func (s *Service) ToggleDaily(userID uint, c Category, status Status, dateInput string) (*ToggleResult, error) {
	if !c.IsValid() {
		return nil, ValidationError{Field: "questId", Reason: fmt.Sprintf("unknown daily quest %q", c)}
	}
	if !status.IsValid() {
		return nil, ValidationError{Field: "status", Reason: "invalid status"}
	}
	date, err := NormalizeDate(dateInput, s.now())
	if err != nil {
		return nil, err
	}

	res := &ToggleResult{Date: date, Status: status}
	err = s.store.WithTx(func(r Repos) error {
		prev, err := r.Completions.Get(userID, c, date)
		if err != nil {
			return err
		}
		if prev != nil && prev.Status == status {
			return nil // same mark twice: ledger untouched
		}

		newPayoff := PayoffFor(c, status)
		delta := newPayoff
		if prev != nil {
			delta = newPayoff - PayoffFor(c, prev.Status)
		}
		if err := r.Completions.Upsert(userID, c, date, status, newPayoff); err != nil {
			return err
		}
		if delta == 0 {
			return nil
		}

		note := "Daily: " + c.DisplayName()
		if delta < 0 {
			note = "Penalty: " + c.DisplayName()
		}
		res.XPAwarded = delta
		return applyDelta(r, userID, delta, date, note)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// QuestResult reports a quest completion.
type QuestResult struct {
	Quest     QuestInfo
	XPAwarded int
}

// CompleteQuest transitions an active quest to completed exactly once and
// pays its reward into the ledger. Missing, foreign, and already-completed
// quests all surface as not found.
func (s *Service) CompleteQuest(userID, questID uint) (*QuestResult, error) {
	now := s.now()
	today := now.Format(DateLayout)
	var res *QuestResult
	err := s.store.WithTx(func(r Repos) error {
		q, err := r.Quests.ActiveByID(userID, questID)
		if err != nil {
			return err
		}
		if q == nil {
			return NotFoundError{Resource: "quest", ID: questID}
		}
		if err := r.Quests.MarkCompleted(userID, questID, now); err != nil {
			return err
		}
		res = &QuestResult{Quest: *q, XPAwarded: q.XP}
		if q.XP == 0 {
			return nil
		}
		note := "Quest: " + q.Name
		if q.Tag == TagBoss {
			note = "Boss: " + q.Name
		}
		return applyDelta(r, userID, q.XP, today, note)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// BookResult reports a finished book.
type BookResult struct {
	Book      BookInfo
	XPAwarded int
}

// FinishBook completes a book still being read and awards the fixed bonus.
func (s *Service) FinishBook(userID, bookID uint) (*BookResult, error) {
	now := s.now()
	today := now.Format(DateLayout)
	var res *BookResult
	err := s.store.WithTx(func(r Repos) error {
		b, err := r.Books.ReadingByID(userID, bookID)
		if err != nil {
			return err
		}
		if b == nil {
			return NotFoundError{Resource: "book", ID: bookID}
		}
		if err := r.Books.MarkFinished(userID, bookID, now); err != nil {
			return err
		}
		res = &BookResult{Book: *b, XPAwarded: BookFinishXP}
		return applyDelta(r, userID, BookFinishXP, today, "Book: "+b.Title)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
