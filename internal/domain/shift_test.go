package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

func TestShiftStatusTransitions(t *testing.T) {
	cases := []struct {
		from domain.ShiftStatus
		to   domain.ShiftStatus
		ok   bool
	}{
		{domain.ShiftStatusScheduled, domain.ShiftStatusConfirmed, true},
		{domain.ShiftStatusScheduled, domain.ShiftStatusAbsent, true},
		{domain.ShiftStatusScheduled, domain.ShiftStatusCompleted, false},
		{domain.ShiftStatusConfirmed, domain.ShiftStatusCompleted, true},
		{domain.ShiftStatusConfirmed, domain.ShiftStatusAbsent, true},
		{domain.ShiftStatusConfirmed, domain.ShiftStatusScheduled, false},
		{domain.ShiftStatusCompleted, domain.ShiftStatusConfirmed, false},
		{domain.ShiftStatusCompleted, domain.ShiftStatusAbsent, false},
		{domain.ShiftStatusAbsent, domain.ShiftStatusScheduled, false},
		{domain.ShiftStatusCompleted, domain.ShiftStatusCompleted, true},
		{domain.ShiftStatusScheduled, domain.ShiftStatus("cancelled"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestShiftTypeValid(t *testing.T) {
	assert.True(t, domain.ShiftMorning.Valid())
	assert.True(t, domain.ShiftEvening.Valid())
	assert.False(t, domain.ShiftType("night").Valid())
}

func TestShiftKeyString(t *testing.T) {
	shift := domain.ShiftAssignment{
		UserID:    7,
		ShiftDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ShiftType: domain.ShiftMorning,
	}
	assert.Equal(t, "shift:7:2024-06-01:morning", shift.Key().String())
}

func TestPagePages(t *testing.T) {
	assert.Equal(t, int64(3), domain.Page{Limit: 20, Total: 45}.Pages())
	assert.Equal(t, int64(0), domain.Page{Limit: 20, Total: 0}.Pages())
	assert.Equal(t, int64(1), domain.Page{Limit: 20, Total: 20}.Pages())
	assert.Equal(t, int64(2), domain.Page{Limit: 20, Total: 21}.Pages())
	assert.Equal(t, 40, domain.Page{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, domain.Page{Page: 0, Limit: 20}.Offset())
	assert.Equal(t, 0, domain.Page{Page: 4, Limit: 0}.Offset())
	assert.Equal(t, math.MaxInt, domain.Page{Page: math.MaxInt, Limit: 20}.Offset())
}
