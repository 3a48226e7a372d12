package domain

import (
	"fmt"
	"time"
)

// ShiftDateLayout is the wire format of a shift date.
const ShiftDateLayout = "2006-01-02"

// ShiftType disambiguates the slots a user can work on one day.
type ShiftType string

const (
	ShiftMorning   ShiftType = "morning"
	ShiftAfternoon ShiftType = "afternoon"
	ShiftEvening   ShiftType = "evening"
)

// Valid reports whether t is a known shift type.
func (t ShiftType) Valid() bool {
	switch t {
	case ShiftMorning, ShiftAfternoon, ShiftEvening:
		return true
	}
	return false
}

// ShiftStatus tracks attendance for a shift assignment.
type ShiftStatus string

const (
	ShiftStatusScheduled ShiftStatus = "scheduled"
	ShiftStatusConfirmed ShiftStatus = "confirmed"
	ShiftStatusCompleted ShiftStatus = "completed"
	ShiftStatusAbsent    ShiftStatus = "absent"
)

// Valid reports whether s is a known status.
func (s ShiftStatus) Valid() bool {
	_, ok := shiftTransitions[s]
	return ok
}

var shiftTransitions = map[ShiftStatus][]ShiftStatus{
	ShiftStatusScheduled: {ShiftStatusConfirmed, ShiftStatusAbsent},
	ShiftStatusConfirmed: {ShiftStatusCompleted, ShiftStatusAbsent},
	ShiftStatusCompleted: {},
	ShiftStatusAbsent:    {},
}

// CanTransition reports whether a shift may move from current to next.
// Re-asserting the current status is allowed.
func (s ShiftStatus) CanTransition(next ShiftStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, candidate := range shiftTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ShiftField names a mutable attribute of a shift assignment.
type ShiftField string

const (
	ShiftFieldUserID    ShiftField = "user_id"
	ShiftFieldShiftDate ShiftField = "shift_date"
	ShiftFieldShiftType ShiftField = "shift_type"
	ShiftFieldStartTime ShiftField = "start_time"
	ShiftFieldEndTime   ShiftField = "end_time"
	ShiftFieldStatus    ShiftField = "status"
	ShiftFieldNotes     ShiftField = "notes"
)

// ShiftAssignment books a user onto a shift slot.
type ShiftAssignment struct {
	ID          int64
	UserID      int64
	UserName    string
	ShiftDate   time.Time
	ShiftType   ShiftType
	StartTime   string
	EndTime     string
	Status      ShiftStatus
	Notes       *string
	CreatedBy   int64
	CreatorName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Key returns the slot identity used for conflict detection.
func (s *ShiftAssignment) Key() ShiftKey {
	return ShiftKey{UserID: s.UserID, ShiftDate: s.ShiftDate, ShiftType: s.ShiftType}
}

// ShiftKey identifies a slot: one user, one day, one shift type.
type ShiftKey struct {
	UserID    int64
	ShiftDate time.Time
	ShiftType ShiftType
}

// String renders the key in a stable form, also used as the advisory lock input.
func (k ShiftKey) String() string {
	return fmt.Sprintf("shift:%d:%s:%s", k.UserID, k.ShiftDate.Format(ShiftDateLayout), k.ShiftType)
}

// ShiftStats aggregates assignments over a date range.
type ShiftStats struct {
	TotalSchedules     int64
	ScheduledUsers     int64
	CompletedSchedules int64
	AbsentSchedules    int64
}

// Equal reports whether both keys name the same slot.
func (k ShiftKey) Equal(other ShiftKey) bool {
	return k.UserID == other.UserID && k.ShiftType == other.ShiftType && k.ShiftDate.Equal(other.ShiftDate)
}
