package engine

import "testing"

func TestLevelForXPBoundaries(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{7299, 1},
		{7300, 2},
		{13299, 2},
		{13300, 3},
		{115299, 19},
		{115300, 20},
		{200000, 20}, // no overflow tiering past the table
	}
	for _, c := range cases {
		if got := LevelForXP(c.xp); got != c.want {
			t.Fatalf("LevelForXP(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 0; xp <= 130000; xp += 100 {
		l := LevelForXP(xp)
		if l < prev {
			t.Fatalf("level regressed at xp=%d: %d -> %d", xp, prev, l)
		}
		prev = l
	}
}

func TestLevelForXPNegative(t *testing.T) {
	if got := LevelForXP(-500); got != 1 {
		t.Fatalf("LevelForXP(-500) = %d, want 1", got)
	}
}

func TestXPForLevelRoundTrip(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		threshold := XPForLevel(level)
		if got := LevelForXP(threshold); got != level {
			t.Fatalf("LevelForXP(XPForLevel(%d)=%d) = %d", level, threshold, got)
		}
	}
	if got := XPForLevel(MaxLevel + 5); got != XPForLevel(MaxLevel) {
		t.Fatalf("XPForLevel past table = %d, want top threshold %d", got, XPForLevel(MaxLevel))
	}
}
