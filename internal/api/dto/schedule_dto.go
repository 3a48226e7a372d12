package dto

import (
	"time"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

// CreateScheduleRequest payload. Times accept HH:MM or HH:MM:SS.
type CreateScheduleRequest struct {
	UserID    *int64  `json:"user_id"`
	ShiftDate string  `json:"shift_date"`
	ShiftType string  `json:"shift_type"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

// UpdateScheduleRequest payload; absent fields stay unchanged.
type UpdateScheduleRequest struct {
	UserID    *int64  `json:"user_id"`
	ShiftDate *string `json:"shift_date"`
	ShiftType *string `json:"shift_type"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`
}

// ScheduleResponse is one shift assignment.
type ScheduleResponse struct {
	ID          int64              `json:"id"`
	UserID      int64              `json:"user_id"`
	UserName    string             `json:"user_name"`
	ShiftDate   string             `json:"shift_date"`
	ShiftType   domain.ShiftType   `json:"shift_type"`
	StartTime   string             `json:"start_time"`
	EndTime     string             `json:"end_time"`
	Status      domain.ShiftStatus `json:"status"`
	Notes       *string            `json:"notes"`
	CreatedBy   int64              `json:"created_by"`
	CreatorName string             `json:"creator_name"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ScheduleListResponse is a page of assignments.
type ScheduleListResponse struct {
	Schedules  []ScheduleResponse `json:"schedules"`
	Pagination *Pagination        `json:"pagination,omitempty"`
}

// ScheduleStatsResponse aggregates a date window.
type ScheduleStatsResponse struct {
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	TotalSchedules     int64  `json:"total_schedules"`
	ScheduledUsers     int64  `json:"scheduled_users"`
	CompletedSchedules int64  `json:"completed_schedules"`
	AbsentSchedules    int64  `json:"absent_schedules"`
}

// NewScheduleResponse maps an assignment.
func NewScheduleResponse(shift *domain.ShiftAssignment) ScheduleResponse {
	return ScheduleResponse{
		ID:          shift.ID,
		UserID:      shift.UserID,
		UserName:    shift.UserName,
		ShiftDate:   shift.ShiftDate.Format(domain.ShiftDateLayout),
		ShiftType:   shift.ShiftType,
		StartTime:   shift.StartTime,
		EndTime:     shift.EndTime,
		Status:      shift.Status,
		Notes:       shift.Notes,
		CreatedBy:   shift.CreatedBy,
		CreatorName: shift.CreatorName,
		CreatedAt:   shift.CreatedAt,
		UpdatedAt:   shift.UpdatedAt,
	}
}

// NewScheduleList maps assignments.
func NewScheduleList(shifts []domain.ShiftAssignment) []ScheduleResponse {
	result := make([]ScheduleResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, NewScheduleResponse(&shifts[i]))
	}
	return result
}
