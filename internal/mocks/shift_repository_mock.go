package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/repository"
)

type ShiftRepository struct{ mock.Mock }

func (m *ShiftRepository) Create(ctx context.Context, shift *domain.ShiftAssignment) error {
	return m.Called(ctx, shift).Error(0)
}

func (m *ShiftRepository) Update(ctx context.Context, shift *domain.ShiftAssignment) error {
	return m.Called(ctx, shift).Error(0)
}

func (m *ShiftRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ShiftRepository) GetByID(ctx context.Context, id int64) (*domain.ShiftAssignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftAssignment), args.Error(1)
}

func (m *ShiftRepository) HasConflict(ctx context.Context, key domain.ShiftKey, excludeID int64) (bool, error) {
	args := m.Called(ctx, key, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *ShiftRepository) List(ctx context.Context, filter repository.ShiftFilter) ([]domain.ShiftAssignment, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShiftAssignment), args.Error(1)
}

func (m *ShiftRepository) Count(ctx context.Context, filter repository.ShiftFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ShiftRepository) Stats(ctx context.Context, from, to time.Time) (*domain.ShiftStats, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftStats), args.Error(1)
}
