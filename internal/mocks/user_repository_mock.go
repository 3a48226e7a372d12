package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *UserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepository) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
