package engine

import "testing"

func TestComputeStatsGymOnly(t *testing.T) {
	// gym on 5 of 7 days, all else absent, no books
	window := map[Category]int{CategoryGym: 5}
	s := ComputeStats(window, 0)

	if s.Strength != 71 {
		t.Fatalf("str = %d, want round(5/7*100) = 71", s.Strength)
	}
	if s.Endurance != 24 {
		t.Fatalf("end = %d, want round(5/21*100) = 24", s.Endurance)
	}
	if s.Wisdom != 6 {
		t.Fatalf("wis = %d, want round(5/49*60) = 6", s.Wisdom)
	}
	if s.Discipline != 0 || s.Vitality != 0 {
		t.Fatalf("dis/vit = %d/%d, want 0/0", s.Discipline, s.Vitality)
	}
}

func TestComputeStatsClampedAt100(t *testing.T) {
	window := map[Category]int{}
	for _, c := range Categories {
		window[c] = 1000
	}
	s := ComputeStats(window, 1000)
	for name, v := range map[string]int{
		"str": s.Strength, "dis": s.Discipline, "vit": s.Vitality,
		"wis": s.Wisdom, "end": s.Endurance,
	} {
		if v < 0 || v > 100 {
			t.Fatalf("%s = %d, want within [0,100]", name, v)
		}
		if v != 100 {
			t.Fatalf("%s = %d, want saturation at 100", name, v)
		}
	}
}

func TestComputeStatsEmptyWindow(t *testing.T) {
	s := ComputeStats(map[Category]int{}, 0)
	if s != (Stats{}) {
		t.Fatalf("empty window stats = %+v, want all zero", s)
	}
}

func TestWisdomBookBonusCapped(t *testing.T) {
	// Bonus is min(40, books*8); the habit component alone tops out at 60.
	if s := ComputeStats(map[Category]int{}, 3); s.Wisdom != 24 {
		t.Fatalf("wis with 3 books = %d, want 24", s.Wisdom)
	}
	if s := ComputeStats(map[Category]int{}, 50); s.Wisdom != 40 {
		t.Fatalf("wis with 50 books = %d, want capped bonus 40", s.Wisdom)
	}

	full := map[Category]int{}
	for _, c := range Categories {
		full[c] = 7
	}
	if s := ComputeStats(full, 0); s.Wisdom != 60 {
		t.Fatalf("wis with perfect week, no books = %d, want 60", s.Wisdom)
	}
	if s := ComputeStats(full, 5); s.Wisdom != 100 {
		t.Fatalf("wis with perfect week + 5 books = %d, want exactly 100", s.Wisdom)
	}
}
