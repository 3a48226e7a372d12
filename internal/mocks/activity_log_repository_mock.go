package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

type ActivityLogRepository struct{ mock.Mock }

func (m *ActivityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *ActivityLogRepository) ListByRecord(ctx context.Context, tableName string, recordID int64) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, tableName, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}
