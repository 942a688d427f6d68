package models

// Region is static narrative unlock data keyed by a level threshold.
// Rows are seeded at migration time and never mutated by the engine;
// the boss and gear attached to a region are cosmetic unlocks, not quests.
type Region struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:80;not null" json:"name"`
	MinLevel int    `gorm:"not null" json:"min_level"`
	Lore     string `gorm:"size:500" json:"lore"`
	Boss     string `gorm:"size:80" json:"boss"`
	Gear     string `gorm:"size:80" json:"gear"`
}

func (Region) TableName() string {
	return "regions"
}

// SeedRegions is the default region table installed when the table is empty.
var SeedRegions = []Region{
	{Name: "Ashen Foothills", MinLevel: 1, Boss: "The Sluggard", Gear: "Worn Sandals",
		Lore: "Every journey starts at the bottom of a hill someone else calls small."},
	{Name: "Ironroot Forest", MinLevel: 3, Boss: "Warden of Excuses", Gear: "Bark Bracers",
		Lore: "The trees here only bend for those who show up daily."},
	{Name: "Cinder Marches", MinLevel: 6, Boss: "Cinder Glutton", Gear: "Emberweave Cloak",
		Lore: "Cravings burn hottest where the ground is already scorched."},
	{Name: "Stillwater Basin", MinLevel: 9, Boss: "Tide of Torpor", Gear: "Clearwater Helm",
		Lore: "The basin rewards the ones who keep their cup full."},
	{Name: "Howling Reaches", MinLevel: 12, Boss: "The Doomscroller", Gear: "Silent Gauntlets",
		Lore: "The wind up here sounds like a feed that never ends."},
	{Name: "Obsidian Spire", MinLevel: 16, Boss: "Mirror of the Old Self", Gear: "Spirebrand Plate",
		Lore: "At the summit, the only boss left is who you used to be."},
}
