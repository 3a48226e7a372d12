package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

func newShift(userID, creatorID int64, date time.Time, shiftType domain.ShiftType, start, end string) *domain.ShiftAssignment {
	return &domain.ShiftAssignment{
		UserID:    userID,
		ShiftDate: date,
		ShiftType: shiftType,
		StartTime: start,
		EndTime:   end,
		Status:    domain.ShiftStatusScheduled,
		CreatedBy: creatorID,
	}
}

func TestShiftCreateConcurrentSameSlotBooksOnce(t *testing.T) {
	pool := openTestPool(t)
	admin := seedUser(t, pool, domain.RoleAdmin)
	staff := seedUser(t, pool, domain.RoleStaff)
	repo := NewShiftRepository(pool)
	date := time.Date(2031, 1, 15, 0, 0, 0, 0, time.UTC)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			shift := newShift(staff.ID, admin.ID, date, domain.ShiftMorning, "08:00:00", "12:00:00")
			err := repo.Create(context.Background(), shift)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrShiftConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, others)
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)

	total, err := repo.Count(context.Background(), ShiftFilter{UserID: &staff.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestShiftCreateDifferentTimesSameTypeConflicts(t *testing.T) {
	pool := openTestPool(t)
	admin := seedUser(t, pool, domain.RoleAdmin)
	staff := seedUser(t, pool, domain.RoleStaff)
	repo := NewShiftRepository(pool)
	ctx := context.Background()
	date := time.Date(2031, 2, 1, 0, 0, 0, 0, time.UTC)

	first := newShift(staff.ID, admin.ID, date, domain.ShiftMorning, "08:00", "12:00")
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	second := newShift(staff.ID, admin.ID, date, domain.ShiftMorning, "09:00", "13:00")
	assert.ErrorIs(t, repo.Create(ctx, second), ErrShiftConflict)

	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", stored.StartTime)
	assert.Equal(t, date.Format(domain.ShiftDateLayout), stored.ShiftDate.Format(domain.ShiftDateLayout))
}

func TestShiftUpdateIntoTakenSlotConflicts(t *testing.T) {
	pool := openTestPool(t)
	admin := seedUser(t, pool, domain.RoleAdmin)
	staff := seedUser(t, pool, domain.RoleStaff)
	repo := NewShiftRepository(pool)
	ctx := context.Background()
	date := time.Date(2031, 3, 10, 0, 0, 0, 0, time.UTC)

	morning := newShift(staff.ID, admin.ID, date, domain.ShiftMorning, "08:00:00", "12:00:00")
	evening := newShift(staff.ID, admin.ID, date, domain.ShiftEvening, "18:00:00", "23:00:00")
	require.NoError(t, repo.Create(ctx, morning))
	require.NoError(t, repo.Create(ctx, evening))

	evening.ShiftType = domain.ShiftMorning
	assert.ErrorIs(t, repo.Update(ctx, evening), ErrShiftConflict)

	stored, err := repo.GetByID(ctx, evening.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftEvening, stored.ShiftType)

	// Rewriting a row onto its own slot is not a conflict.
	morning.Status = domain.ShiftStatusConfirmed
	require.NoError(t, repo.Update(ctx, morning))
}

func TestShiftUpdateDeletedRowReturnsNoRows(t *testing.T) {
	pool := openTestPool(t)
	admin := seedUser(t, pool, domain.RoleAdmin)
	staff := seedUser(t, pool, domain.RoleStaff)
	repo := NewShiftRepository(pool)
	ctx := context.Background()

	shift := newShift(staff.ID, admin.ID, time.Date(2031, 4, 2, 0, 0, 0, 0, time.UTC), domain.ShiftAfternoon, "12:00:00", "18:00:00")
	require.NoError(t, repo.Create(ctx, shift))
	require.NoError(t, repo.Delete(ctx, shift.ID))

	shift.Status = domain.ShiftStatusConfirmed
	assert.ErrorIs(t, repo.Update(ctx, shift), pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(ctx, shift.ID), pgx.ErrNoRows)
}

func TestSlotConstraintViolationMapsToConflict(t *testing.T) {
	pool := openTestPool(t)
	admin := seedUser(t, pool, domain.RoleAdmin)
	staff := seedUser(t, pool, domain.RoleStaff)
	repo := NewShiftRepository(pool)
	ctx := context.Background()
	date := time.Date(2031, 5, 20, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newShift(staff.ID, admin.ID, date, domain.ShiftEvening, "18:00:00", "22:00:00")))

	// Bypass the lock and re-check so only the unique constraint stands in the way.
	_, err := pool.Exec(ctx, `
        INSERT INTO schedules (user_id, shift_date, shift_type, start_time, end_time, created_by)
        VALUES ($1, $2, 'evening', '19:00', '23:00', $3)`, staff.ID, date, admin.ID)
	require.Error(t, err)
	name, dup := uniqueConstraint(err)
	assert.True(t, dup)
	assert.Equal(t, "schedules_user_slot_key", name)
	assert.ErrorIs(t, mapShiftError(err), ErrShiftConflict)
}
