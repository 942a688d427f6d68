package engine

import "math"

// Stats are the five derived scores, each bounded to [0,100]. They are a
// view over raw completion rows, recomputed on demand and never persisted.
type Stats struct {
	Strength   int `json:"str"`
	Discipline int `json:"dis"`
	Vitality   int `json:"vit"`
	Wisdom     int `json:"wis"`
	Endurance  int `json:"end"`
}

// ComputeStats derives the stat block from per-category counts of completed
// marks inside the trailing 7-day window plus the lifetime completed-book
// count. Each stat samples a weighted subset of the categories with equal
// per-day weight (denominator = 7 days x contributing categories). Wisdom
// blends habit consistency (up to 60) with a capped reading bonus (up to 40).
func ComputeStats(window map[Category]int, booksRead int) Stats {
	g := func(c Category) int { return window[c] }

	all := 0
	for _, c := range Categories {
		all += g(c)
	}

	bookBonus := booksRead * 8
	if bookBonus > 40 {
		bookBonus = 40
	}

	return Stats{
		Strength:   clampScore(ratio(g(CategoryGym), 7) * 100),
		Discipline: clampScore(ratio(g(CategoryScroll)+g(CategoryAlcohol)+g(CategoryJunkfood), 21) * 100),
		Vitality:   clampScore(ratio(g(CategoryCalorie)+g(CategoryMacro)+g(CategoryWater), 21) * 100),
		Wisdom:     clampScore(ratio(all, 49)*60 + float64(bookBonus)),
		Endurance:  clampScore(ratio(g(CategoryGym)+g(CategoryCalorie)+g(CategoryWater), 21) * 100),
	}
}

func ratio(n, d int) float64 {
	return float64(n) / float64(d)
}

func clampScore(v float64) int {
	s := int(math.Round(v))
	if s > 100 {
		return 100
	}
	if s < 0 {
		return 0
	}
	return s
}
