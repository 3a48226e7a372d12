package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/kitchen-service/internal/config"
	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/events"
	"github.com/spec-kit/kitchen-service/internal/mocks"
	"github.com/spec-kit/kitchen-service/internal/repository"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

func newRecipeService() (*RecipeService, *mocks.RecipeRepository, *mocks.AuditRecorder) {
	repo := new(mocks.RecipeRepository)
	audit := &mocks.AuditRecorder{}
	svc := NewRecipeService(RecipeDependencies{
		RecipeRepo: repo,
		Audit:      audit,
		Paginator:  NewPaginator(config.PaginationConfig{DefaultLimit: 20, MaxLimit: 100}),
	})
	return svc, repo, audit
}

func TestGetDetailHidesRecipesAboveSubjectRole(t *testing.T) {
	svc, repo, _ := newRecipeService()
	ctx := context.Background()
	repo.On("GetByID", mock.Anything, int64(10)).Return(&domain.Recipe{ID: 10, MinRole: domain.RoleChef, Active: true}, nil)

	_, err := svc.GetDetail(ctx, staffSubject, 10)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"), "got %v", err)
	repo.AssertNotCalled(t, "ListIngredients", mock.Anything, mock.Anything)
}

func TestGetDetailReturnsOrderedLists(t *testing.T) {
	svc, repo, _ := newRecipeService()
	ctx := context.Background()
	repo.On("GetByID", mock.Anything, int64(11)).Return(&domain.Recipe{ID: 11, MinRole: domain.RoleStaff, Active: true}, nil)
	repo.On("ListIngredients", mock.Anything, int64(11)).Return([]domain.Ingredient{
		{Position: 1, Name: "flour"}, {Position: 2, Name: "water"},
	}, nil)
	repo.On("ListSteps", mock.Anything, int64(11)).Return([]domain.Step{
		{StepNumber: 1, Instruction: "mix"}, {StepNumber: 2, Instruction: "bake"},
	}, nil)

	recipe, err := svc.GetDetail(ctx, staffSubject, 11)
	require.NoError(t, err)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "flour", recipe.Ingredients[0].Name)
	assert.Equal(t, []int{1, 2}, []int{recipe.Steps[0].StepNumber, recipe.Steps[1].StepNumber})
}

func TestGetDetailMissingAndInactive(t *testing.T) {
	svc, repo, _ := newRecipeService()
	ctx := context.Background()
	repo.On("GetByID", mock.Anything, int64(12)).Return(nil, pgx.ErrNoRows)
	repo.On("GetByID", mock.Anything, int64(13)).Return(&domain.Recipe{ID: 13, MinRole: domain.RoleStaff, Active: false}, nil)

	_, err := svc.GetDetail(ctx, adminSubject, 12)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	_, err = svc.GetDetail(ctx, adminSubject, 13)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestListAppliesVisibilityInQuery(t *testing.T) {
	svc, repo, _ := newRecipeService()
	ctx := context.Background()
	category := int64(2)

	expected := repository.RecipeFilter{
		VisibleRoles: []domain.Role{domain.RoleStaff, domain.RoleChef},
		CategoryID:   &category,
		Search:       ptr("soup"),
		Limit:        10,
		Offset:       10,
	}
	repo.On("Count", mock.Anything, expected).Return(int64(12), nil)
	repo.On("List", mock.Anything, expected).Return([]domain.Recipe{{ID: 1}, {ID: 2}}, nil)

	page, err := svc.List(ctx, chefSubject, RecipeFilter{CategoryID: &category, Search: "  soup ", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, domain.Page{Page: 2, Limit: 10, Total: 12}, page.Page)
	assert.Equal(t, int64(2), page.Page.Pages())
}

func TestCreateRecipe(t *testing.T) {
	svc, repo, audit := newRecipeService()
	ctx := context.Background()
	repo.On("CategoryExists", mock.Anything, int64(3)).Return(true, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Recipe")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Recipe).ID = 77 }).
		Return(nil)

	recipe, err := svc.Create(ctx, chefSubject, RecipeCreateInput{
		Name:        "Tomato soup",
		Description: "Warm and red",
		CategoryID:  ptr(int64(3)),
		Difficulty:  "easy",
		Ingredients: []IngredientInput{{Name: "tomato", Quantity: "4"}, {Name: "salt", Quantity: "1", Unit: "tsp"}},
		Steps:       []StepInput{{Instruction: "chop"}, {Instruction: "simmer"}, {Instruction: "blend"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), recipe.ID)
	assert.Equal(t, domain.RoleStaff, recipe.MinRole)
	assert.Equal(t, 1, recipe.Servings)
	assert.Equal(t, 0, recipe.PrepTime)
	assert.Equal(t, chefSubject.ID, recipe.CreatedBy)
	assert.Equal(t, []int{1, 2}, []int{recipe.Ingredients[0].Position, recipe.Ingredients[1].Position})
	assert.Equal(t, 3, recipe.Steps[2].StepNumber)
	assert.Equal(t, "blend", recipe.Steps[2].Instruction)
	assert.Equal(t, []events.EventType{events.EventRecipeCreated}, audit.Actions())
}

func TestCreateRecipeRejections(t *testing.T) {
	svc, repo, audit := newRecipeService()
	ctx := context.Background()
	repo.On("CategoryExists", mock.Anything, int64(9)).Return(false, nil)

	valid := func() RecipeCreateInput {
		return RecipeCreateInput{Name: "n", Description: "d", CategoryID: ptr(int64(9)), Difficulty: "easy"}
	}

	_, err := svc.Create(ctx, staffSubject, valid())
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	cases := map[string]func(*RecipeCreateInput){
		"missing name":       func(in *RecipeCreateInput) { in.Name = " " },
		"missing category":   func(in *RecipeCreateInput) { in.CategoryID = nil },
		"bad difficulty":     func(in *RecipeCreateInput) { in.Difficulty = "extreme" },
		"bad min role":       func(in *RecipeCreateInput) { in.MinRole = ptr("owner") },
		"negative prep":      func(in *RecipeCreateInput) { in.PrepTime = ptr(-1) },
		"zero servings":      func(in *RecipeCreateInput) { in.Servings = ptr(0) },
		"nameless item":      func(in *RecipeCreateInput) { in.Ingredients = []IngredientInput{{Quantity: "1"}} },
		"empty step":         func(in *RecipeCreateInput) { in.Steps = []StepInput{{Instruction: ""}} },
		"category not found": func(in *RecipeCreateInput) {},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := valid()
			mutate(&input)
			_, err := svc.Create(ctx, chefSubject, input)
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "got %v", err)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, audit.Actions())
}

func TestUpdateRecipeReplacesSuppliedLists(t *testing.T) {
	svc, repo, audit := newRecipeService()
	ctx := context.Background()
	stored := &domain.Recipe{ID: 20, Name: "Old", Description: "d", CategoryID: 1, Difficulty: domain.DifficultyEasy, Servings: 2, MinRole: domain.RoleStaff, Active: true}
	repo.On("GetByID", mock.Anything, int64(20)).Return(stored, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Recipe) bool {
		return r.Name == "New" && len(r.Steps) == 1 && r.Steps[0].StepNumber == 1 && r.Servings == 2
	}), false, true).Return(nil)
	repo.On("ListIngredients", mock.Anything, int64(20)).Return([]domain.Ingredient{}, nil)
	repo.On("ListSteps", mock.Anything, int64(20)).Return([]domain.Step{{StepNumber: 1, Instruction: "stir"}}, nil)

	steps := []StepInput{{Instruction: "stir"}}
	_, err := svc.Update(ctx, chefSubject, 20, RecipeUpdateInput{Name: ptr("New"), Steps: &steps})
	require.NoError(t, err)
	repo.AssertExpectations(t)
	assert.Equal(t, []events.EventType{events.EventRecipeUpdated}, audit.Actions())

	_, err = svc.Update(ctx, staffSubject, 20, RecipeUpdateInput{Name: ptr("Nope")})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = svc.Update(ctx, chefSubject, 20, RecipeUpdateInput{})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestDeleteRecipeIsAdminSoftDelete(t *testing.T) {
	svc, repo, audit := newRecipeService()
	ctx := context.Background()
	repo.On("GetByID", mock.Anything, int64(30)).Return(&domain.Recipe{ID: 30, MinRole: domain.RoleStaff, Active: true}, nil)
	repo.On("GetByID", mock.Anything, int64(31)).Return(nil, pgx.ErrNoRows)
	repo.On("Deactivate", mock.Anything, int64(30)).Return(nil)

	assert.True(t, apperrors.IsCode(svc.Delete(ctx, chefSubject, 30), "FORBIDDEN"))
	assert.True(t, apperrors.IsCode(svc.Delete(ctx, adminSubject, 31), "NOT_FOUND"))
	require.NoError(t, svc.Delete(ctx, adminSubject, 30))
	repo.AssertCalled(t, "Deactivate", mock.Anything, int64(30))
	assert.Equal(t, []events.EventType{events.EventRecipeDeleted}, audit.Actions())
}
