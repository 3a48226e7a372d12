package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/events"
	"github.com/spec-kit/kitchen-service/internal/policy"
	"github.com/spec-kit/kitchen-service/internal/repository"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

const schedulesTable = "schedules"

// ScheduleService coordinates shift assignment workflows.
type ScheduleService struct {
	shifts    repository.ShiftRepository
	users     repository.UserRepository
	audit     AuditRecorder
	paginator Paginator
	now       func() time.Time
}

// ScheduleDependencies bundles collaborators for the schedule service.
type ScheduleDependencies struct {
	ShiftRepo repository.ShiftRepository
	UserRepo  repository.UserRepository
	Audit     AuditRecorder
	Paginator Paginator
}

// NewScheduleService builds the service.
func NewScheduleService(deps ScheduleDependencies) *ScheduleService {
	return &ScheduleService{
		shifts:    deps.ShiftRepo,
		users:     deps.UserRepo,
		audit:     recorderOrNoop(deps.Audit),
		paginator: deps.Paginator,
		now:       time.Now,
	}
}

// ScheduleCreateInput describes a new shift assignment.
type ScheduleCreateInput struct {
	UserID    *int64
	ShiftDate string
	ShiftType string
	StartTime string
	EndTime   string
	Status    *string
	Notes     *string
}

// ScheduleUpdateInput carries the fields a caller wants to change. Nil means untouched.
type ScheduleUpdateInput struct {
	UserID    *int64
	ShiftDate *string
	ShiftType *string
	StartTime *string
	EndTime   *string
	Status    *string
	Notes     *string
}

// Fields lists the supplied fields in a stable order.
func (in ScheduleUpdateInput) Fields() []domain.ShiftField {
	fields := []domain.ShiftField{}
	if in.UserID != nil {
		fields = append(fields, domain.ShiftFieldUserID)
	}
	if in.ShiftDate != nil {
		fields = append(fields, domain.ShiftFieldShiftDate)
	}
	if in.ShiftType != nil {
		fields = append(fields, domain.ShiftFieldShiftType)
	}
	if in.StartTime != nil {
		fields = append(fields, domain.ShiftFieldStartTime)
	}
	if in.EndTime != nil {
		fields = append(fields, domain.ShiftFieldEndTime)
	}
	if in.Status != nil {
		fields = append(fields, domain.ShiftFieldStatus)
	}
	if in.Notes != nil {
		fields = append(fields, domain.ShiftFieldNotes)
	}
	return fields
}

// ScheduleFilter narrows schedule listings. Dates are YYYY-MM-DD and inclusive.
type ScheduleFilter struct {
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// SchedulePage is one page of a schedule listing.
type SchedulePage struct {
	Items []domain.ShiftAssignment
	Page  domain.Page
}

// StatsRange is the resolved date window of a stats query.
type StatsRange struct {
	StartDate time.Time
	EndDate   time.Time
}

// Create books a user onto a shift slot.
func (s *ScheduleService) Create(ctx context.Context, subject domain.Subject, input ScheduleCreateInput) (*domain.ShiftAssignment, error) {
	if err := policy.CanCreateSchedule(subject).Err(); err != nil {
		return nil, err
	}

	missing := []string{}
	if input.UserID == nil || *input.UserID <= 0 {
		missing = append(missing, string(domain.ShiftFieldUserID))
	}
	for field, value := range map[domain.ShiftField]string{
		domain.ShiftFieldShiftDate: input.ShiftDate,
		domain.ShiftFieldShiftType: input.ShiftType,
		domain.ShiftFieldStartTime: input.StartTime,
		domain.ShiftFieldEndTime:   input.EndTime,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, string(field))
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": sortedFields(missing)})
	}

	shift := &domain.ShiftAssignment{
		UserID:    *input.UserID,
		Status:    domain.ShiftStatusScheduled,
		Notes:     optionalString(input.Notes),
		CreatedBy: subject.ID,
	}
	var err error
	if shift.ShiftDate, err = parseShiftDate(string(domain.ShiftFieldShiftDate), input.ShiftDate); err != nil {
		return nil, err
	}
	if shift.ShiftType, err = parseShiftType(input.ShiftType); err != nil {
		return nil, err
	}
	if shift.StartTime, err = parseClock(string(domain.ShiftFieldStartTime), input.StartTime); err != nil {
		return nil, err
	}
	if shift.EndTime, err = parseClock(string(domain.ShiftFieldEndTime), input.EndTime); err != nil {
		return nil, err
	}
	if input.Status != nil {
		if shift.Status, err = parseShiftStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	if err := s.ensureAssignable(ctx, shift.UserID); err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, shift.Key(), 0); err != nil {
		return nil, err
	}

	if err := s.shifts.Create(ctx, shift); err != nil {
		if errors.Is(err, repository.ErrShiftConflict) {
			return nil, slotConflict(shift.Key())
		}
		return nil, apperrors.MapError(err)
	}

	created := s.reload(ctx, shift)
	s.audit.Record(ctx, events.AuditEntry{
		ActorID:      subject.ID,
		Action:       events.EventScheduleCreate,
		ResourceType: schedulesTable,
		ResourceID:   &created.ID,
		After:        shiftSnapshot(created),
	})
	return created, nil
}

// Update applies a partial change. Staff may only move the status of their own shifts.
func (s *ScheduleService) Update(ctx context.Context, subject domain.Subject, id int64, input ScheduleUpdateInput) (*domain.ShiftAssignment, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := input.Fields()
	if len(fields) == 0 {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	for _, field := range fields {
		if err := policy.CanMutateScheduleField(subject, current, field).Err(); err != nil {
			return nil, err
		}
	}

	next := *current
	if input.UserID != nil {
		if *input.UserID <= 0 {
			return nil, apperrors.NewFieldError(string(domain.ShiftFieldUserID), "user_id must be positive")
		}
		next.UserID = *input.UserID
	}
	if input.ShiftDate != nil {
		if next.ShiftDate, err = parseShiftDate(string(domain.ShiftFieldShiftDate), *input.ShiftDate); err != nil {
			return nil, err
		}
	}
	if input.ShiftType != nil {
		if next.ShiftType, err = parseShiftType(*input.ShiftType); err != nil {
			return nil, err
		}
	}
	if input.StartTime != nil {
		if next.StartTime, err = parseClock(string(domain.ShiftFieldStartTime), *input.StartTime); err != nil {
			return nil, err
		}
	}
	if input.EndTime != nil {
		if next.EndTime, err = parseClock(string(domain.ShiftFieldEndTime), *input.EndTime); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if next.Status, err = parseShiftStatus(*input.Status); err != nil {
			return nil, err
		}
		if !current.Status.CanTransition(next.Status) {
			return nil, apperrors.NewInvalidTransition(string(current.Status), string(next.Status))
		}
	}
	if input.Notes != nil {
		next.Notes = optionalString(input.Notes)
	}

	if next.UserID != current.UserID {
		if err := s.ensureAssignable(ctx, next.UserID); err != nil {
			return nil, err
		}
	}
	if !next.Key().Equal(current.Key()) {
		if err := s.ensureSlotFree(ctx, next.Key(), id); err != nil {
			return nil, err
		}
	}

	if err := s.shifts.Update(ctx, &next); err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftConflict):
			return nil, slotConflict(next.Key())
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("schedule", map[string]any{"schedule_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	updated := s.reload(ctx, &next)
	s.audit.Record(ctx, events.AuditEntry{
		ActorID:      subject.ID,
		Action:       events.EventScheduleUpdate,
		ResourceType: schedulesTable,
		ResourceID:   &updated.ID,
		Before:       shiftSnapshot(current),
		After:        shiftSnapshot(updated),
	})
	return updated, nil
}

// Delete removes a shift assignment.
func (s *ScheduleService) Delete(ctx context.Context, subject domain.Subject, id int64) error {
	if err := policy.CanDeleteSchedule(subject).Err(); err != nil {
		return err
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.shifts.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("schedule", map[string]any{"schedule_id": id})
		}
		return apperrors.MapError(err)
	}

	s.audit.Record(ctx, events.AuditEntry{
		ActorID:      subject.ID,
		Action:       events.EventScheduleDelete,
		ResourceType: schedulesTable,
		ResourceID:   &id,
		Before:       shiftSnapshot(current),
	})
	return nil
}

// Get returns one assignment. Assignments the subject may not see are reported missing.
func (s *ScheduleService) Get(ctx context.Context, subject domain.Subject, id int64) (*domain.ShiftAssignment, error) {
	shift, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewSchedule(subject, shift).Allowed {
		return nil, apperrors.NewNotFound("schedule", map[string]any{"schedule_id": id})
	}
	return shift, nil
}

// List pages through the assignments visible to subject, newest date first.
func (s *ScheduleService) List(ctx context.Context, subject domain.Subject, filter ScheduleFilter) (*SchedulePage, error) {
	repoFilter, err := dateFilter(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	if !policy.SeesAllSchedules(subject) {
		ownID := subject.ID
		repoFilter.UserID = &ownID
	}

	page := s.paginator.Normalize(filter.Page, filter.Limit)
	repoFilter.Limit = page.Limit
	repoFilter.Offset = page.Offset()

	total, err := s.shifts.Count(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	items, err := s.shifts.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	page.Total = total
	return &SchedulePage{Items: items, Page: page}, nil
}

// ListMine returns the subject's own assignments in calendar order.
func (s *ScheduleService) ListMine(ctx context.Context, subject domain.Subject, startDate, endDate string) ([]domain.ShiftAssignment, error) {
	repoFilter, err := dateFilter(startDate, endDate)
	if err != nil {
		return nil, err
	}
	ownID := subject.ID
	repoFilter.UserID = &ownID
	repoFilter.Ascending = true

	items, err := s.shifts.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Stats aggregates assignments in a window, defaulting to the current month.
func (s *ScheduleService) Stats(ctx context.Context, subject domain.Subject, startDate, endDate string) (*domain.ShiftStats, StatsRange, error) {
	if err := policy.CanViewScheduleStats(subject).Err(); err != nil {
		return nil, StatsRange{}, err
	}

	now := s.now()
	window := StatsRange{
		StartDate: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
	}
	window.EndDate = window.StartDate.AddDate(0, 1, -1)

	var err error
	if strings.TrimSpace(startDate) != "" {
		if window.StartDate, err = parseShiftDate("start_date", startDate); err != nil {
			return nil, StatsRange{}, err
		}
	}
	if strings.TrimSpace(endDate) != "" {
		if window.EndDate, err = parseShiftDate("end_date", endDate); err != nil {
			return nil, StatsRange{}, err
		}
	}

	stats, err := s.shifts.Stats(ctx, window.StartDate, window.EndDate)
	if err != nil {
		return nil, StatsRange{}, apperrors.MapError(err)
	}
	return stats, window, nil
}

func (s *ScheduleService) load(ctx context.Context, id int64) (*domain.ShiftAssignment, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("schedule", map[string]any{"schedule_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return shift, nil
}

// reload fetches joined display names; the written record is returned if that fails.
func (s *ScheduleService) reload(ctx context.Context, shift *domain.ShiftAssignment) *domain.ShiftAssignment {
	fresh, err := s.shifts.GetByID(ctx, shift.ID)
	if err != nil {
		return shift
	}
	return fresh
}

// ensureAssignable requires an existing, active account; deactivated users
// cannot sign in to see or confirm a shift.
func (s *ScheduleService) ensureAssignable(ctx context.Context, userID int64) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewFieldError(string(domain.ShiftFieldUserID), "user does not exist")
		}
		return apperrors.MapError(err)
	}
	if !user.Active {
		return apperrors.NewFieldError(string(domain.ShiftFieldUserID), "user is inactive")
	}
	return nil
}

func (s *ScheduleService) ensureSlotFree(ctx context.Context, key domain.ShiftKey, excludeID int64) error {
	taken, err := s.shifts.HasConflict(ctx, key, excludeID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if taken {
		return slotConflict(key)
	}
	return nil
}

func slotConflict(key domain.ShiftKey) error {
	return apperrors.NewConflict("user already has a shift in this slot", map[string]any{
		"user_id":    key.UserID,
		"shift_date": key.ShiftDate.Format(domain.ShiftDateLayout),
		"shift_type": key.ShiftType,
	})
}

func dateFilter(startDate, endDate string) (repository.ShiftFilter, error) {
	var filter repository.ShiftFilter
	if strings.TrimSpace(startDate) != "" {
		from, err := parseShiftDate("start_date", startDate)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &from
	}
	if strings.TrimSpace(endDate) != "" {
		to, err := parseShiftDate("end_date", endDate)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &to
	}
	return filter, nil
}

func parseShiftDate(field, raw string) (time.Time, error) {
	parsed, err := time.Parse(domain.ShiftDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperrors.NewFieldError(field, field+" must be formatted as YYYY-MM-DD")
	}
	return parsed, nil
}

func parseShiftType(raw string) (domain.ShiftType, error) {
	shiftType := domain.ShiftType(strings.TrimSpace(raw))
	if !shiftType.Valid() {
		return "", apperrors.NewFieldError(string(domain.ShiftFieldShiftType), "shift_type must be morning, afternoon or evening")
	}
	return shiftType, nil
}

func parseShiftStatus(raw string) (domain.ShiftStatus, error) {
	status := domain.ShiftStatus(strings.TrimSpace(raw))
	if !status.Valid() {
		return "", apperrors.NewFieldError(string(domain.ShiftFieldStatus), "status must be scheduled, confirmed, completed or absent")
	}
	return status, nil
}

// parseClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func parseClock(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("15:04:05"), nil
		}
	}
	return "", apperrors.NewFieldError(field, field+" must be formatted as HH:MM")
}

func shiftSnapshot(shift *domain.ShiftAssignment) map[string]any {
	snapshot := map[string]any{
		"user_id":    shift.UserID,
		"shift_date": shift.ShiftDate.Format(domain.ShiftDateLayout),
		"shift_type": shift.ShiftType,
		"start_time": shift.StartTime,
		"end_time":   shift.EndTime,
		"status":     shift.Status,
	}
	if shift.Notes != nil {
		snapshot["notes"] = *shift.Notes
	}
	return snapshot
}
