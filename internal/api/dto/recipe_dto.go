package dto

import (
	"time"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

// IngredientRequest is one ingredient line.
type IngredientRequest struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Unit     string  `json:"unit"`
	Notes    *string `json:"notes"`
}

// StepRequest is one instruction; numbering follows list order.
type StepRequest struct {
	Instruction string  `json:"instruction"`
	ImageURL    *string `json:"image_url"`
}

// CreateRecipeRequest payload.
type CreateRecipeRequest struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	CategoryID      *int64              `json:"category_id"`
	DifficultyLevel string              `json:"difficulty_level"`
	PrepTime        *int                `json:"prep_time"`
	CookTime        *int                `json:"cook_time"`
	Servings        *int                `json:"servings"`
	ImageURL        *string             `json:"image_url"`
	MinRole         *string             `json:"min_role"`
	Ingredients     []IngredientRequest `json:"ingredients"`
	Steps           []StepRequest       `json:"steps"`
}

// UpdateRecipeRequest payload; supplied lists replace the stored ones.
type UpdateRecipeRequest struct {
	Name            *string              `json:"name"`
	Description     *string              `json:"description"`
	CategoryID      *int64               `json:"category_id"`
	DifficultyLevel *string              `json:"difficulty_level"`
	PrepTime        *int                 `json:"prep_time"`
	CookTime        *int                 `json:"cook_time"`
	Servings        *int                 `json:"servings"`
	ImageURL        *string              `json:"image_url"`
	MinRole         *string              `json:"min_role"`
	Ingredients     *[]IngredientRequest `json:"ingredients"`
	Steps           *[]StepRequest       `json:"steps"`
}

// RecipeSummary is a catalogue row.
type RecipeSummary struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	CategoryID      int64             `json:"category_id"`
	CategoryName    string            `json:"category_name"`
	DifficultyLevel domain.Difficulty `json:"difficulty_level"`
	PrepTime        int               `json:"prep_time"`
	CookTime        int               `json:"cook_time"`
	Servings        int               `json:"servings"`
	ImageURL        *string           `json:"image_url"`
	MinRole         domain.Role       `json:"min_role"`
	CreatedBy       int64             `json:"created_by"`
	CreatorName     string            `json:"creator_name"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// RecipeDetail adds the ordered ingredient and step lists.
type RecipeDetail struct {
	RecipeSummary
	Ingredients []IngredientResponse `json:"ingredients"`
	Steps       []StepResponse       `json:"steps"`
}

// IngredientResponse is a stored ingredient line.
type IngredientResponse struct {
	ID       int64   `json:"id"`
	Position int     `json:"position"`
	Name     string  `json:"ingredient_name"`
	Quantity string  `json:"quantity"`
	Unit     string  `json:"unit"`
	Notes    *string `json:"notes"`
}

// StepResponse is a stored step.
type StepResponse struct {
	ID          int64   `json:"id"`
	StepNumber  int     `json:"step_number"`
	Instruction string  `json:"instruction"`
	ImageURL    *string `json:"image_url"`
}

// CategoryResponse is a recipe category.
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RecipeListResponse is a page of recipes.
type RecipeListResponse struct {
	Recipes    []RecipeSummary `json:"recipes"`
	Pagination Pagination      `json:"pagination"`
}

// NewRecipeSummary maps a recipe row.
func NewRecipeSummary(recipe *domain.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:              recipe.ID,
		Name:            recipe.Name,
		Description:     recipe.Description,
		CategoryID:      recipe.CategoryID,
		CategoryName:    recipe.CategoryName,
		DifficultyLevel: recipe.Difficulty,
		PrepTime:        recipe.PrepTime,
		CookTime:        recipe.CookTime,
		Servings:        recipe.Servings,
		ImageURL:        recipe.ImageURL,
		MinRole:         recipe.MinRole,
		CreatedBy:       recipe.CreatedBy,
		CreatorName:     recipe.CreatorName,
		CreatedAt:       recipe.CreatedAt,
		UpdatedAt:       recipe.UpdatedAt,
	}
}

// NewRecipeDetail maps a recipe with its lists.
func NewRecipeDetail(recipe *domain.Recipe) RecipeDetail {
	detail := RecipeDetail{
		RecipeSummary: NewRecipeSummary(recipe),
		Ingredients:   make([]IngredientResponse, 0, len(recipe.Ingredients)),
		Steps:         make([]StepResponse, 0, len(recipe.Steps)),
	}
	for _, ing := range recipe.Ingredients {
		detail.Ingredients = append(detail.Ingredients, IngredientResponse{
			ID: ing.ID, Position: ing.Position, Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit, Notes: ing.Notes,
		})
	}
	for _, step := range recipe.Steps {
		detail.Steps = append(detail.Steps, StepResponse{
			ID: step.ID, StepNumber: step.StepNumber, Instruction: step.Instruction, ImageURL: step.ImageURL,
		})
	}
	return detail
}
