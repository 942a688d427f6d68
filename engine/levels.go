package engine

// levelThresholds holds the cumulative XP required to reach each level.
// Index i is the threshold for level i+1. The curve starts with a larger
// first step and then advances in flat 6000 XP increments up to level 20.
var levelThresholds = [20]int{
	0,      // 1
	7300,   // 2
	13300,  // 3
	19300,  // 4
	25300,  // 5
	31300,  // 6
	37300,  // 7
	43300,  // 8
	49300,  // 9
	55300,  // 10
	61300,  // 11
	67300,  // 12
	73300,  // 13
	79300,  // 14
	85300,  // 15
	91300,  // 16
	97300,  // 17
	103300, // 18
	109300, // 19
	115300, // 20
}

// MaxLevel is the top of the threshold table. XP beyond the last
// threshold does not tier further.
const MaxLevel = len(levelThresholds)

// LevelForXP returns the level for a running XP total. It is total and
// monotonic: 0 (or anything negative) maps to level 1, anything at or past
// the top threshold maps to MaxLevel.
func LevelForXP(totalXP int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if totalXP < threshold {
			break
		}
		level = i + 1
	}
	return level
}

// XPForLevel returns the cumulative XP threshold for the given level.
// Levels below 1 report 0; levels past the table report the top threshold.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return levelThresholds[level-1]
}
