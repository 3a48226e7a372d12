package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kitchen-service/internal/api/dto"
	"github.com/spec-kit/kitchen-service/internal/service"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

// RecipesHandler exposes the recipe catalogue.
type RecipesHandler struct {
	recipes *service.RecipeService
}

// NewRecipesHandler constructs handler.
func NewRecipesHandler(recipes *service.RecipeService) *RecipesHandler {
	return &RecipesHandler{recipes: recipes}
}

// List handles GET /api/recipes.
func (h *RecipesHandler) List(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}

	filter := service.RecipeFilter{
		Search: c.Query("search"),
		Page:   parseInt(c.Query("page"), 1),
		Limit:  parseInt(c.Query("limit"), 0),
	}
	if raw := c.Query("category_id"); raw != "" {
		categoryID := int64(parseInt(raw, 0))
		if categoryID <= 0 {
			return apperrors.NewFieldError("category_id", "invalid category")
		}
		filter.CategoryID = &categoryID
	}

	result, err := h.recipes.List(c.UserContext(), subject, filter)
	if err != nil {
		return err
	}
	recipes := make([]dto.RecipeSummary, 0, len(result.Items))
	for i := range result.Items {
		recipes = append(recipes, dto.NewRecipeSummary(&result.Items[i]))
	}
	return respond(c, fiber.StatusOK, dto.RecipeListResponse{Recipes: recipes, Pagination: dto.NewPagination(result.Page)})
}

// Categories handles GET /api/recipes/categories.
func (h *RecipesHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.recipes.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	result := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, dto.CategoryResponse{ID: category.ID, Name: category.Name, Description: category.Description})
	}
	return respond(c, fiber.StatusOK, fiber.Map{"categories": result})
}

// Get handles GET /api/recipes/:id.
func (h *RecipesHandler) Get(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	recipe, err := h.recipes.GetDetail(c.UserContext(), subject, id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"recipe": dto.NewRecipeDetail(recipe)})
}

// Create handles POST /api/recipes.
func (h *RecipesHandler) Create(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	recipe, err := h.recipes.Create(c.UserContext(), subject, service.RecipeCreateInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Difficulty:  req.DifficultyLevel,
		PrepTime:    req.PrepTime,
		CookTime:    req.CookTime,
		Servings:    req.Servings,
		ImageURL:    req.ImageURL,
		MinRole:     req.MinRole,
		Ingredients: ingredientInputs(req.Ingredients),
		Steps:       stepInputs(req.Steps),
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, fiber.Map{"recipe": dto.NewRecipeDetail(recipe)})
}

// Update handles PUT /api/recipes/:id.
func (h *RecipesHandler) Update(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	input := service.RecipeUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Difficulty:  req.DifficultyLevel,
		PrepTime:    req.PrepTime,
		CookTime:    req.CookTime,
		Servings:    req.Servings,
		ImageURL:    req.ImageURL,
		MinRole:     req.MinRole,
	}
	if req.Ingredients != nil {
		ingredients := ingredientInputs(*req.Ingredients)
		input.Ingredients = &ingredients
	}
	if req.Steps != nil {
		steps := stepInputs(*req.Steps)
		input.Steps = &steps
	}

	recipe, err := h.recipes.Update(c.UserContext(), subject, id, input)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"recipe": dto.NewRecipeDetail(recipe)})
}

// Delete handles DELETE /api/recipes/:id. Recipes are soft deleted.
func (h *RecipesHandler) Delete(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.recipes.Delete(c.UserContext(), subject, id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.MessageResponse{Message: "recipe deleted"})
}

func ingredientInputs(reqs []dto.IngredientRequest) []service.IngredientInput {
	inputs := make([]service.IngredientInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, service.IngredientInput{Name: req.Name, Quantity: req.Quantity, Unit: req.Unit, Notes: req.Notes})
	}
	return inputs
}

func stepInputs(reqs []dto.StepRequest) []service.StepInput {
	inputs := make([]service.StepInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, service.StepInput{Instruction: req.Instruction, ImageURL: req.ImageURL})
	}
	return inputs
}
