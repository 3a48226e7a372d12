package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestShiftWhere(t *testing.T) {
	where, args := shiftWhere(ShiftFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	user := int64(7)
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	where, args = shiftWhere(ShiftFilter{UserID: &user, StartDate: &from, EndDate: &to})
	assert.Equal(t, "WHERE s.user_id=$1 AND s.shift_date >= $2 AND s.shift_date <= $3", where)
	assert.Equal(t, []any{user, from, to}, args)
}

func TestMapShiftErrorTranslatesUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "schedules_user_slot_key"}
	assert.ErrorIs(t, mapShiftError(dup), ErrShiftConflict)
	assert.ErrorIs(t, mapShiftError(ErrShiftConflict), ErrShiftConflict)
	assert.Nil(t, mapShiftError(nil))

	other := errors.New("boom")
	assert.Equal(t, other, mapShiftError(other))
}
