package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/repository"
)

type RecipeRepository struct{ mock.Mock }

func (m *RecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	return m.Called(ctx, recipe).Error(0)
}

func (m *RecipeRepository) Update(ctx context.Context, recipe *domain.Recipe, replaceIngredients, replaceSteps bool) error {
	return m.Called(ctx, recipe, replaceIngredients, replaceSteps).Error(0)
}

func (m *RecipeRepository) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Recipe), args.Error(1)
}

func (m *RecipeRepository) ListIngredients(ctx context.Context, recipeID int64) ([]domain.Ingredient, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ingredient), args.Error(1)
}

func (m *RecipeRepository) ListSteps(ctx context.Context, recipeID int64) ([]domain.Step, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Step), args.Error(1)
}

func (m *RecipeRepository) List(ctx context.Context, filter repository.RecipeFilter) ([]domain.Recipe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Recipe), args.Error(1)
}

func (m *RecipeRepository) Count(ctx context.Context, filter repository.RecipeFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RecipeRepository) ListCategories(ctx context.Context) ([]domain.RecipeCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecipeCategory), args.Error(1)
}

func (m *RecipeRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
