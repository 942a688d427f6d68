package engine

import (
	"sort"
	"strings"
	"testing"
	"time"
)

type dayKey struct {
	Category Category
	Date     string
}

// memStore is an in-memory Store. WithTx just runs fn against the live
// maps; the engine's atomicity contract is exercised against the real
// database layer, not here.
type memStore struct {
	totals      map[uint]int
	entries     map[uint][]Entry
	completions map[uint]map[dayKey]Completion
	quests      map[uint]*QuestInfo
	questOwner  map[uint]uint
	books       map[uint]*BookInfo
	bookOwner   map[uint]uint
	booksDone   map[uint]int
}

func newMemStore() *memStore {
	return &memStore{
		totals:      map[uint]int{},
		entries:     map[uint][]Entry{},
		completions: map[uint]map[dayKey]Completion{},
		quests:      map[uint]*QuestInfo{},
		questOwner:  map[uint]uint{},
		books:       map[uint]*BookInfo{},
		bookOwner:   map[uint]uint{},
		booksDone:   map[uint]int{},
	}
}

func (m *memStore) WithTx(fn func(Repos) error) error { return fn(m.repos()) }
func (m *memStore) View() Repos                       { return m.repos() }
func (m *memStore) repos() Repos {
	return Repos{Ledger: m, Completions: m, Quests: m, Books: m}
}

func (m *memStore) TotalXP(uid uint) (int, error)        { return m.totals[uid], nil }
func (m *memStore) SetTotalXP(uid uint, xp int) error    { m.totals[uid] = xp; return nil }
func (m *memStore) AppendEntry(uid uint, e Entry) error {
	m.entries[uid] = append(m.entries[uid], e)
	return nil
}
func (m *memStore) TrimHistory(uid uint, keep int) error {
	if arr := m.entries[uid]; len(arr) > keep {
		m.entries[uid] = arr[len(arr)-keep:]
	}
	return nil
}
func (m *memStore) History(uid uint, limit int) ([]Entry, error) {
	arr := m.entries[uid]
	out := make([]Entry, 0, limit)
	for i := len(arr) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, arr[i])
	}
	return out, nil
}
func (m *memStore) ClearHistory(uid uint) error { m.entries[uid] = nil; return nil }

func (m *memStore) Get(uid uint, c Category, date string) (*Completion, error) {
	if v, ok := m.completions[uid][dayKey{c, date}]; ok {
		cp := v
		return &cp, nil
	}
	return nil, nil
}
func (m *memStore) Upsert(uid uint, c Category, date string, status Status, xp int) error {
	if m.completions[uid] == nil {
		m.completions[uid] = map[dayKey]Completion{}
	}
	m.completions[uid][dayKey{c, date}] = Completion{Status: status, XP: xp}
	return nil
}
func (m *memStore) CompletedCounts(uid uint, from, to string) (map[Category]int, error) {
	counts := map[Category]int{}
	for k, v := range m.completions[uid] {
		if v.Status == StatusCompleted && k.Date >= from && k.Date <= to {
			counts[k.Category]++
		}
	}
	return counts, nil
}

func (m *memStore) ActiveByID(uid, id uint) (*QuestInfo, error) {
	q, ok := m.quests[id]
	if !ok || m.questOwner[id] != uid || q.Completed {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}
func (m *memStore) MarkCompleted(uid, id uint, at time.Time) error {
	m.quests[id].Completed = true
	return nil
}

func (m *memStore) ReadingByID(uid, id uint) (*BookInfo, error) {
	b, ok := m.books[id]
	if !ok || m.bookOwner[id] != uid || !b.Reading {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}
func (m *memStore) MarkFinished(uid, id uint, at time.Time) error {
	m.books[id].Reading = false
	m.booksDone[uid]++
	return nil
}
func (m *memStore) CompletedCount(uid uint) (int, error) { return m.booksDone[uid], nil }

func fixedClock() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newTestService() (*Service, *memStore) {
	st := newMemStore()
	return NewServiceAt(st, fixedClock), st
}

func TestAdjustXPClampsCumulatively(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	// Each step clamps independently, not just the final sum.
	deltas := []int{100, -500, 300, -50}
	want := 0
	for _, d := range deltas {
		if err := svc.AdjustXP(uid, d, "test"); err != nil {
			t.Fatalf("AdjustXP(%d): %v", d, err)
		}
		want += d
		if want < 0 {
			want = 0
		}
		if got := st.totals[uid]; got != want {
			t.Fatalf("total after %d = %d, want %d", d, got, want)
		}
	}
}

func TestAdjustXPRejectsZero(t *testing.T) {
	svc, _ := newTestService()
	err := svc.AdjustXP(1, 0, "")
	if err == nil {
		t.Fatalf("expected error for zero delta")
	}
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLedgerRecordsRequestedDeltaWhenClamped(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	if err := svc.AdjustXP(uid, -250, "sanction"); err != nil {
		t.Fatalf("AdjustXP: %v", err)
	}
	if st.totals[uid] != 0 {
		t.Fatalf("total = %d, want clamp at 0", st.totals[uid])
	}
	log, _ := st.History(uid, HistoryCap)
	if len(log) != 1 || log[0].XP != -250 {
		t.Fatalf("history = %+v, want single entry with requested delta -250", log)
	}
}

func TestHistoryNeverExceedsCap(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	for i := 0; i < HistoryCap+25; i++ {
		if err := svc.AdjustXP(uid, 10, "grind"); err != nil {
			t.Fatalf("AdjustXP #%d: %v", i, err)
		}
		if n := len(st.entries[uid]); n > HistoryCap {
			t.Fatalf("history length %d exceeds cap after insert #%d", n, i)
		}
	}
	if n := len(st.entries[uid]); n != HistoryCap {
		t.Fatalf("final history length = %d, want %d", n, HistoryCap)
	}
}

func TestResetZeroesLedgerOnly(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	if _, err := svc.ToggleDaily(uid, CategoryGym, StatusCompleted, ""); err != nil {
		t.Fatalf("ToggleDaily: %v", err)
	}
	if err := svc.Reset(uid); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if st.totals[uid] != 0 || len(st.entries[uid]) != 0 {
		t.Fatalf("ledger not zeroed: total=%d history=%d", st.totals[uid], len(st.entries[uid]))
	}

	// Completion rows survive a reset; stats keep reading them.
	snap, err := svc.Snapshot(uid)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Stats.Strength == 0 {
		t.Fatalf("expected stats to survive ledger reset, got %+v", snap.Stats)
	}
}

func TestToggleSameStatusIsNoOp(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	first, err := svc.ToggleDaily(uid, CategoryJunkfood, StatusCompleted, "")
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if first.XPAwarded != 0 {
		t.Fatalf("junkfood completed payoff = %d, want 0", first.XPAwarded)
	}
	again, err := svc.ToggleDaily(uid, CategoryJunkfood, StatusCompleted, "")
	if err != nil {
		t.Fatalf("re-mark: %v", err)
	}
	if again.XPAwarded != 0 {
		t.Fatalf("re-mark awarded %d, want 0", again.XPAwarded)
	}
	if n := len(st.entries[uid]); n != 0 {
		t.Fatalf("re-mark wrote %d ledger entries, want 0", n)
	}
}

func TestToggleFlipAppliesDifference(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	r1, err := svc.ToggleDaily(uid, CategoryGym, StatusCompleted, "")
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if r1.XPAwarded != 100 {
		t.Fatalf("completed awarded %d, want 100", r1.XPAwarded)
	}

	r2, err := svc.ToggleDaily(uid, CategoryGym, StatusFailed, "")
	if err != nil {
		t.Fatalf("flip to failed: %v", err)
	}
	if r2.XPAwarded != -100 {
		t.Fatalf("flip awarded %d, want -100 (difference, not raw payoff)", r2.XPAwarded)
	}

	r3, err := svc.ToggleDaily(uid, CategoryGym, StatusCompleted, "")
	if err != nil {
		t.Fatalf("flip back: %v", err)
	}
	if r3.XPAwarded != 100 {
		t.Fatalf("flip back awarded %d, want 100", r3.XPAwarded)
	}

	// completed -> failed -> completed nets to the single completion payoff
	if st.totals[uid] != 100 {
		t.Fatalf("net total = %d, want 100", st.totals[uid])
	}
	sum := 0
	for _, e := range st.entries[uid] {
		sum += e.XP
	}
	if sum != 100 {
		t.Fatalf("ledger entries sum to %d, want 100", sum)
	}
}

func TestTogglePenaltyNote(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	if _, err := svc.ToggleDaily(uid, CategoryAlcohol, StatusFailed, ""); err != nil {
		t.Fatalf("ToggleDaily: %v", err)
	}
	log := st.entries[uid]
	if len(log) != 1 {
		t.Fatalf("expected one entry, got %d", len(log))
	}
	if got := log[0].Note; got != "Penalty: No Alcohol" {
		t.Fatalf("note = %q, want penalty label", got)
	}
}

func TestCompleteQuestOnce(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	st.quests[7] = &QuestInfo{ID: 7, Name: "Run a 10k", Tag: TagWeekly, XP: 500}
	st.questOwner[7] = uid

	res, err := svc.CompleteQuest(uid, 7)
	if err != nil {
		t.Fatalf("CompleteQuest: %v", err)
	}
	if res.XPAwarded != 500 || st.totals[uid] != 500 {
		t.Fatalf("awarded %d total %d, want 500/500", res.XPAwarded, st.totals[uid])
	}

	if _, err := svc.CompleteQuest(uid, 7); !IsNotFound(err) {
		t.Fatalf("second completion: got %v, want not-found", err)
	}
	if _, err := svc.CompleteQuest(2, 7); !IsNotFound(err) {
		t.Fatalf("foreign user completion: got %v, want not-found", err)
	}
}

func TestFinishBookAwardsFixedXP(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	st.books[3] = &BookInfo{ID: 3, Title: "Meditations", Reading: true}
	st.bookOwner[3] = uid

	res, err := svc.FinishBook(uid, 3)
	if err != nil {
		t.Fatalf("FinishBook: %v", err)
	}
	if res.XPAwarded != BookFinishXP || st.totals[uid] != BookFinishXP {
		t.Fatalf("awarded %d total %d, want %d", res.XPAwarded, st.totals[uid], BookFinishXP)
	}
	if _, err := svc.FinishBook(uid, 3); !IsNotFound(err) {
		t.Fatalf("re-finish: got %v, want not-found", err)
	}
}

func TestFinishBookNoteFitsLedgerColumn(t *testing.T) {
	svc, st := newTestService()
	const uid = 1

	// A title at the column limit would push "Book: <title>" past it.
	st.books[4] = &BookInfo{ID: 4, Title: strings.Repeat("x", MaxNoteLen), Reading: true}
	st.bookOwner[4] = uid

	if _, err := svc.FinishBook(uid, 4); err != nil {
		t.Fatalf("FinishBook: %v", err)
	}
	entries := st.entries[uid]
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := len(entries[0].Note); got > MaxNoteLen {
		t.Fatalf("note is %d chars, want at most %d", got, MaxNoteLen)
	}
	if !strings.HasPrefix(entries[0].Note, "Book: ") {
		t.Fatalf("note %q lost its prefix", entries[0].Note)
	}
}

func TestSnapshotStatsFromWindow(t *testing.T) {
	svc, _ := newTestService()
	const uid = 1

	// gym completed on 5 of the last 7 days, nothing else, no books
	now := fixedClock()
	for i := 0; i < 5; i++ {
		date := now.AddDate(0, 0, -i).Format(DateLayout)
		if _, err := svc.ToggleDaily(uid, CategoryGym, StatusCompleted, date); err != nil {
			t.Fatalf("ToggleDaily day -%d: %v", i, err)
		}
	}

	snap, err := svc.Snapshot(uid)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Stats.Strength != 71 {
		t.Fatalf("str = %d, want 71", snap.Stats.Strength)
	}
	if snap.Stats.Endurance != 24 {
		t.Fatalf("end = %d, want 24", snap.Stats.Endurance)
	}
	if snap.Stats.Wisdom != 6 {
		t.Fatalf("wis = %d, want 6", snap.Stats.Wisdom)
	}
	if snap.TotalXP != 500 || snap.Level != 1 {
		t.Fatalf("total=%d level=%d, want 500/1", snap.TotalXP, snap.Level)
	}
}

func TestSnapshotLogNewestFirst(t *testing.T) {
	svc, _ := newTestService()
	const uid = 1

	for _, note := range []string{"first", "second", "third"} {
		if err := svc.AdjustXP(uid, 10, note); err != nil {
			t.Fatalf("AdjustXP: %v", err)
		}
	}
	snap, err := svc.Snapshot(uid)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	notes := make([]string, len(snap.Log))
	for i, e := range snap.Log {
		notes[i] = e.Note
	}
	if !sort.SliceIsSorted(notes, func(i, j int) bool { return notes[i] > notes[j] }) {
		// "third" > "second" > "first" happens to be reverse-alphabetical
		t.Fatalf("log not newest-first: %v", notes)
	}
}
