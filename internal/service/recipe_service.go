package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/events"
	"github.com/spec-kit/kitchen-service/internal/policy"
	"github.com/spec-kit/kitchen-service/internal/repository"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

const recipesTable = "recipes"

// RecipeService exposes the role gated recipe catalogue.
type RecipeService struct {
	recipes   repository.RecipeRepository
	audit     AuditRecorder
	paginator Paginator
}

// RecipeDependencies bundles collaborators for the recipe service.
type RecipeDependencies struct {
	RecipeRepo repository.RecipeRepository
	Audit      AuditRecorder
	Paginator  Paginator
}

// NewRecipeService builds the service.
func NewRecipeService(deps RecipeDependencies) *RecipeService {
	return &RecipeService{
		recipes:   deps.RecipeRepo,
		audit:     recorderOrNoop(deps.Audit),
		paginator: deps.Paginator,
	}
}

// IngredientInput is one ingredient line as submitted.
type IngredientInput struct {
	Name     string
	Quantity string
	Unit     string
	Notes    *string
}

// StepInput is one instruction as submitted; its number is its list position.
type StepInput struct {
	Instruction string
	ImageURL    *string
}

// RecipeCreateInput describes a new recipe.
type RecipeCreateInput struct {
	Name        string
	Description string
	CategoryID  *int64
	Difficulty  string
	PrepTime    *int
	CookTime    *int
	Servings    *int
	ImageURL    *string
	MinRole     *string
	Ingredients []IngredientInput
	Steps       []StepInput
}

// RecipeUpdateInput carries a partial recipe change. Supplied lists replace the stored ones.
type RecipeUpdateInput struct {
	Name        *string
	Description *string
	CategoryID  *int64
	Difficulty  *string
	PrepTime    *int
	CookTime    *int
	Servings    *int
	ImageURL    *string
	MinRole     *string
	Ingredients *[]IngredientInput
	Steps       *[]StepInput
}

func (in RecipeUpdateInput) empty() bool {
	return in.Name == nil && in.Description == nil && in.CategoryID == nil && in.Difficulty == nil &&
		in.PrepTime == nil && in.CookTime == nil && in.Servings == nil && in.ImageURL == nil &&
		in.MinRole == nil && in.Ingredients == nil && in.Steps == nil
}

// RecipeFilter narrows catalogue listings.
type RecipeFilter struct {
	CategoryID *int64
	Search     string
	Page       int
	Limit      int
}

// RecipePage is one page of catalogue results.
type RecipePage struct {
	Items []domain.Recipe
	Page  domain.Page
}

// List returns the recipes visible to subject.
func (s *RecipeService) List(ctx context.Context, subject domain.Subject, filter RecipeFilter) (*RecipePage, error) {
	repoFilter := repository.RecipeFilter{
		VisibleRoles: visibleRoles(subject),
		CategoryID:   filter.CategoryID,
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		repoFilter.Search = &search
	}

	page := s.paginator.Normalize(filter.Page, filter.Limit)
	repoFilter.Limit = page.Limit
	repoFilter.Offset = page.Offset()

	total, err := s.recipes.Count(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	items, err := s.recipes.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	page.Total = total
	return &RecipePage{Items: items, Page: page}, nil
}

// GetDetail returns a visible recipe with ordered ingredients and steps.
func (s *RecipeService) GetDetail(ctx context.Context, subject domain.Subject, id int64) (*domain.Recipe, error) {
	recipe, err := s.loadVisible(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	if recipe.Ingredients, err = s.recipes.ListIngredients(ctx, id); err != nil {
		return nil, apperrors.MapError(err)
	}
	if recipe.Steps, err = s.recipes.ListSteps(ctx, id); err != nil {
		return nil, apperrors.MapError(err)
	}
	return recipe, nil
}

// Create stores a recipe with its ingredients and steps atomically.
func (s *RecipeService) Create(ctx context.Context, subject domain.Subject, input RecipeCreateInput) (*domain.Recipe, error) {
	if err := policy.CanMutateRecipe(subject, policy.RecipeCreate).Err(); err != nil {
		return nil, err
	}

	missing := []string{}
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if input.CategoryID == nil {
		missing = append(missing, "category_id")
	}
	if strings.TrimSpace(input.Difficulty) == "" {
		missing = append(missing, "difficulty_level")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	recipe := &domain.Recipe{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		CategoryID:  *input.CategoryID,
		Servings:    1,
		MinRole:     domain.RoleStaff,
		ImageURL:    optionalString(input.ImageURL),
		CreatedBy:   subject.ID,
	}
	var err error
	if recipe.Difficulty, err = parseDifficulty(input.Difficulty); err != nil {
		return nil, err
	}
	if input.MinRole != nil {
		if recipe.MinRole, err = parseMinRole(*input.MinRole); err != nil {
			return nil, err
		}
	}
	if input.PrepTime != nil {
		recipe.PrepTime = *input.PrepTime
	}
	if input.CookTime != nil {
		recipe.CookTime = *input.CookTime
	}
	if input.Servings != nil {
		recipe.Servings = *input.Servings
	}
	if err := validateQuantities(recipe); err != nil {
		return nil, err
	}
	if recipe.Ingredients, err = buildIngredients(input.Ingredients); err != nil {
		return nil, err
	}
	if recipe.Steps, err = buildSteps(input.Steps); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, recipe.CategoryID); err != nil {
		return nil, err
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, events.AuditEntry{
		ActorID:      subject.ID,
		Action:       events.EventRecipeCreated,
		ResourceType: recipesTable,
		ResourceID:   &recipe.ID,
		After:        recipeSnapshot(recipe),
	})
	return recipe, nil
}

// Update changes a recipe in place. Missing, inactive and hidden recipes are reported not found.
func (s *RecipeService) Update(ctx context.Context, subject domain.Subject, id int64, input RecipeUpdateInput) (*domain.Recipe, error) {
	if err := policy.CanMutateRecipe(subject, policy.RecipeUpdate).Err(); err != nil {
		return nil, err
	}
	current, err := s.loadVisible(ctx, subject, id)
	if err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}

	next := *current
	if input.Name != nil {
		if next.Name = strings.TrimSpace(*input.Name); next.Name == "" {
			return nil, apperrors.NewFieldError("name", "name cannot be empty")
		}
	}
	if input.Description != nil {
		if next.Description = strings.TrimSpace(*input.Description); next.Description == "" {
			return nil, apperrors.NewFieldError("description", "description cannot be empty")
		}
	}
	if input.Difficulty != nil {
		if next.Difficulty, err = parseDifficulty(*input.Difficulty); err != nil {
			return nil, err
		}
	}
	if input.MinRole != nil {
		if next.MinRole, err = parseMinRole(*input.MinRole); err != nil {
			return nil, err
		}
	}
	if input.PrepTime != nil {
		next.PrepTime = *input.PrepTime
	}
	if input.CookTime != nil {
		next.CookTime = *input.CookTime
	}
	if input.Servings != nil {
		next.Servings = *input.Servings
	}
	if input.ImageURL != nil {
		next.ImageURL = optionalString(input.ImageURL)
	}
	if err := validateQuantities(&next); err != nil {
		return nil, err
	}
	if input.Ingredients != nil {
		if next.Ingredients, err = buildIngredients(*input.Ingredients); err != nil {
			return nil, err
		}
	}
	if input.Steps != nil {
		if next.Steps, err = buildSteps(*input.Steps); err != nil {
			return nil, err
		}
	}
	if input.CategoryID != nil && *input.CategoryID != current.CategoryID {
		next.CategoryID = *input.CategoryID
		if err := s.ensureCategory(ctx, next.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.recipes.Update(ctx, &next, input.Ingredients != nil, input.Steps != nil); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, events.AuditEntry{
		ActorID:      subject.ID,
		Action:       events.EventRecipeUpdated,
		ResourceType: recipesTable,
		ResourceID:   &next.ID,
		Before:       recipeSnapshot(current),
		After:        recipeSnapshot(&next),
	})
	return s.GetDetail(ctx, subject, id)
}

// Delete deactivates a recipe.
func (s *RecipeService) Delete(ctx context.Context, subject domain.Subject, id int64) error {
	if err := policy.CanMutateRecipe(subject, policy.RecipeDelete).Err(); err != nil {
		return err
	}
	current, err := s.loadVisible(ctx, subject, id)
	if err != nil {
		return err
	}
	if err := s.recipes.Deactivate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("recipe", map[string]any{"recipe_id": id})
		}
		return apperrors.MapError(err)
	}

	s.audit.Record(ctx, events.AuditEntry{
		ActorID:      subject.ID,
		Action:       events.EventRecipeDeleted,
		ResourceType: recipesTable,
		ResourceID:   &id,
		Before:       recipeSnapshot(current),
	})
	return nil
}

// ListCategories returns every recipe category by name.
func (s *RecipeService) ListCategories(ctx context.Context) ([]domain.RecipeCategory, error) {
	categories, err := s.recipes.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

func (s *RecipeService) loadVisible(ctx context.Context, subject domain.Subject, id int64) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !policy.CanViewRecipe(subject, recipe).Allowed {
		return nil, apperrors.NewNotFound("recipe", map[string]any{"recipe_id": id})
	}
	return recipe, nil
}

func (s *RecipeService) ensureCategory(ctx context.Context, categoryID int64) error {
	found, err := s.recipes.CategoryExists(ctx, categoryID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !found {
		return apperrors.NewFieldError("category_id", "category does not exist")
	}
	return nil
}

func visibleRoles(subject domain.Subject) []domain.Role {
	if !subject.Active {
		return []domain.Role{}
	}
	return subject.Role.RolesAtOrBelow()
}

func parseDifficulty(raw string) (domain.Difficulty, error) {
	difficulty := domain.Difficulty(strings.TrimSpace(raw))
	if !difficulty.Valid() {
		return "", apperrors.NewFieldError("difficulty_level", "difficulty_level must be easy, medium or hard")
	}
	return difficulty, nil
}

func parseMinRole(raw string) (domain.Role, error) {
	role, ok := domain.ParseRole(raw)
	if !ok {
		return "", apperrors.NewFieldError("min_role", "min_role is not a known role")
	}
	return role, nil
}

func validateQuantities(recipe *domain.Recipe) error {
	switch {
	case recipe.PrepTime < 0:
		return apperrors.NewFieldError("prep_time", "prep_time cannot be negative")
	case recipe.CookTime < 0:
		return apperrors.NewFieldError("cook_time", "cook_time cannot be negative")
	case recipe.Servings < 1:
		return apperrors.NewFieldError("servings", "servings must be at least 1")
	}
	return nil
}

func buildIngredients(inputs []IngredientInput) ([]domain.Ingredient, error) {
	result := make([]domain.Ingredient, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("ingredient name is required", map[string]any{"field": "ingredients", "index": i})
		}
		result = append(result, domain.Ingredient{
			Position: i + 1,
			Name:     name,
			Quantity: strings.TrimSpace(in.Quantity),
			Unit:     strings.TrimSpace(in.Unit),
			Notes:    optionalString(in.Notes),
		})
	}
	return result, nil
}

func buildSteps(inputs []StepInput) ([]domain.Step, error) {
	result := make([]domain.Step, 0, len(inputs))
	for i, in := range inputs {
		instruction := strings.TrimSpace(in.Instruction)
		if instruction == "" {
			return nil, apperrors.NewValidationError("step instruction is required", map[string]any{"field": "steps", "index": i})
		}
		result = append(result, domain.Step{
			StepNumber:  i + 1,
			Instruction: instruction,
			ImageURL:    optionalString(in.ImageURL),
		})
	}
	return result, nil
}

func recipeSnapshot(recipe *domain.Recipe) map[string]any {
	snapshot := map[string]any{
		"name":             recipe.Name,
		"category_id":      recipe.CategoryID,
		"difficulty_level": recipe.Difficulty,
		"prep_time":        recipe.PrepTime,
		"cook_time":        recipe.CookTime,
		"servings":         recipe.Servings,
		"min_role":         recipe.MinRole,
	}
	if recipe.Ingredients != nil {
		snapshot["ingredients"] = len(recipe.Ingredients)
	}
	if recipe.Steps != nil {
		snapshot["steps"] = len(recipe.Steps)
	}
	return snapshot
}
