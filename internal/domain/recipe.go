package domain

import "time"

// Difficulty grades how hard a recipe is to prepare.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// RecipeCategory groups recipes for browsing.
type RecipeCategory struct {
	ID          int64
	Name        string
	Description string
}

// Recipe is the catalogue aggregate.
type Recipe struct {
	ID           int64
	Name         string
	Description  string
	CategoryID   int64
	CategoryName string
	Difficulty   Difficulty
	PrepTime     int
	CookTime     int
	Servings     int
	ImageURL     *string
	MinRole      Role
	CreatedBy    int64
	CreatorName  string
	Active       bool
	Ingredients  []Ingredient
	Steps        []Step
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ingredient is a line in a recipe's ingredient list.
type Ingredient struct {
	ID       int64
	RecipeID int64
	Position int
	Name     string
	Quantity string
	Unit     string
	Notes    *string
}

// Step is a numbered instruction within a recipe.
type Step struct {
	ID          int64
	RecipeID    int64
	StepNumber  int
	Instruction string
	ImageURL    *string
}
