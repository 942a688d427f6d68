package engine

import (
	"fmt"
	"strings"
)

// Category is one of the seven tracked daily habits.
type Category string

const (
	CategoryCalorie  Category = "calorie"
	CategoryMacro    Category = "macro"
	CategoryGym      Category = "gym"
	CategoryWater    Category = "water"
	CategoryScroll   Category = "scroll"
	CategoryJunkfood Category = "junkfood"
	CategoryAlcohol  Category = "alcohol"
)

// Categories lists every tracked category in display order.
var Categories = []Category{
	CategoryCalorie,
	CategoryMacro,
	CategoryGym,
	CategoryWater,
	CategoryScroll,
	CategoryJunkfood,
	CategoryAlcohol,
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryCalorie, CategoryMacro, CategoryGym, CategoryWater,
		CategoryScroll, CategoryJunkfood, CategoryAlcohol:
		return true
	default:
		return false
	}
}

// DisplayName is the human-readable label used in ledger notes.
func (c Category) DisplayName() string {
	switch c {
	case CategoryCalorie:
		return "Calorie Target"
	case CategoryMacro:
		return "Macro Target"
	case CategoryGym:
		return "Gym Session"
	case CategoryWater:
		return "Water Intake"
	case CategoryScroll:
		return "No Doomscrolling"
	case CategoryJunkfood:
		return "No Junk Food"
	case CategoryAlcohol:
		return "No Alcohol"
	default:
		return string(c)
	}
}

func ParseCategory(input string) (Category, error) {
	c := Category(strings.TrimSpace(strings.ToLower(input)))
	if !c.IsValid() {
		return "", ValidationError{Field: "questId", Reason: fmt.Sprintf("unknown daily quest %q", input)}
	}
	return c, nil
}

// Status is the per-day mark for a category.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

func (s Status) IsValid() bool {
	return s == StatusCompleted || s == StatusFailed
}

func ParseStatus(input string) (Status, error) {
	s := Status(strings.TrimSpace(strings.ToLower(input)))
	if !s.IsValid() {
		return "", ValidationError{Field: "status", Reason: fmt.Sprintf("status must be %q or %q", StatusCompleted, StatusFailed)}
	}
	return s, nil
}

// Payoff is the signed XP awarded for each outcome of a category.
type Payoff struct {
	Completed int
	Failed    int
}

// payoffs is the fixed payoff table. Most categories reward completion;
// the two vice categories instead penalize failing to avoid them.
var payoffs = map[Category]Payoff{
	CategoryCalorie:  {Completed: 100, Failed: 0},
	CategoryMacro:    {Completed: 100, Failed: 0},
	CategoryGym:      {Completed: 100, Failed: 0},
	CategoryWater:    {Completed: 100, Failed: 0},
	CategoryScroll:   {Completed: 100, Failed: 0},
	CategoryJunkfood: {Completed: 0, Failed: -100},
	CategoryAlcohol:  {Completed: 0, Failed: -100},
}

// PayoffFor returns the signed XP for marking category c with status s.
func PayoffFor(c Category, s Status) int {
	p := payoffs[c]
	if s == StatusCompleted {
		return p.Completed
	}
	return p.Failed
}

// BookFinishXP is the fixed award for finishing a book.
const BookFinishXP = 200
