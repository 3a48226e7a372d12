package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/repository"
)

// memoryShifts mimics the slot guarantees of the Postgres repository.
type memoryShifts struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.ShiftAssignment
}

func newMemoryShifts() *memoryShifts {
	return &memoryShifts{rows: map[int64]domain.ShiftAssignment{}}
}

func (m *memoryShifts) taken(key domain.ShiftKey, excludeID int64) bool {
	for id, row := range m.rows {
		if id != excludeID && row.Key().Equal(key) {
			return true
		}
	}
	return false
}

func (m *memoryShifts) Create(_ context.Context, shift *domain.ShiftAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.taken(shift.Key(), 0) {
		return repository.ErrShiftConflict
	}
	m.nextID++
	shift.ID = m.nextID
	shift.CreatedAt = time.Now()
	shift.UpdatedAt = shift.CreatedAt
	m.rows[shift.ID] = *shift
	return nil
}

func (m *memoryShifts) Update(_ context.Context, shift *domain.ShiftAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[shift.ID]; !ok {
		return pgx.ErrNoRows
	}
	if m.taken(shift.Key(), shift.ID) {
		return repository.ErrShiftConflict
	}
	shift.UpdatedAt = time.Now()
	m.rows[shift.ID] = *shift
	return nil
}

func (m *memoryShifts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryShifts) GetByID(_ context.Context, id int64) (*domain.ShiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &row, nil
}

func (m *memoryShifts) HasConflict(_ context.Context, key domain.ShiftKey, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taken(key, excludeID), nil
}

func (m *memoryShifts) matching(filter repository.ShiftFilter) []domain.ShiftAssignment {
	result := []domain.ShiftAssignment{}
	for _, row := range m.rows {
		if filter.UserID != nil && row.UserID != *filter.UserID {
			continue
		}
		if filter.StartDate != nil && row.ShiftDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && row.ShiftDate.After(*filter.EndDate) {
			continue
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.ShiftDate.Equal(b.ShiftDate) {
			if filter.Ascending {
				return a.ShiftDate.Before(b.ShiftDate)
			}
			return a.ShiftDate.After(b.ShiftDate)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
	return result
}

func (m *memoryShifts) List(_ context.Context, filter repository.ShiftFilter) ([]domain.ShiftAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.matching(filter)
	if filter.Limit > 0 {
		if filter.Offset >= len(rows) {
			return []domain.ShiftAssignment{}, nil
		}
		end := filter.Offset + filter.Limit
		if end > len(rows) {
			end = len(rows)
		}
		rows = rows[filter.Offset:end]
	}
	return rows, nil
}

func (m *memoryShifts) Count(_ context.Context, filter repository.ShiftFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matching(filter))), nil
}

func (m *memoryShifts) Stats(_ context.Context, from, to time.Time) (*domain.ShiftStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.matching(repository.ShiftFilter{StartDate: &from, EndDate: &to})
	stats := &domain.ShiftStats{TotalSchedules: int64(len(rows))}
	users := map[int64]struct{}{}
	for _, row := range rows {
		users[row.UserID] = struct{}{}
		switch row.Status {
		case domain.ShiftStatusCompleted:
			stats.CompletedSchedules++
		case domain.ShiftStatusAbsent:
			stats.AbsentSchedules++
		}
	}
	stats.ScheduledUsers = int64(len(users))
	return stats, nil
}

func ptr[T any](v T) *T {
	return &v
}

var (
	adminSubject      = domain.Subject{ID: 1, Role: domain.RoleAdmin, Active: true}
	superAdminSubject = domain.Subject{ID: 2, Role: domain.RoleSuperAdmin, Active: true}
	chefSubject       = domain.Subject{ID: 5, Role: domain.RoleChef, Active: true}
	staffSubject      = domain.Subject{ID: 7, Role: domain.RoleStaff, Active: true}
)
