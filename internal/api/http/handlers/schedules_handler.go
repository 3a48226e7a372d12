package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kitchen-service/internal/api/dto"
	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/service"
)

// SchedulesHandler exposes shift scheduling.
type SchedulesHandler struct {
	schedules *service.ScheduleService
}

// NewSchedulesHandler constructs handler.
func NewSchedulesHandler(schedules *service.ScheduleService) *SchedulesHandler {
	return &SchedulesHandler{schedules: schedules}
}

// List handles GET /api/schedules.
func (h *SchedulesHandler) List(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	result, err := h.schedules.List(c.UserContext(), subject, service.ScheduleFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Page:      parseInt(c.Query("page"), 1),
		Limit:     parseInt(c.Query("limit"), 0),
	})
	if err != nil {
		return err
	}
	pagination := dto.NewPagination(result.Page)
	return respond(c, fiber.StatusOK, dto.ScheduleListResponse{
		Schedules:  dto.NewScheduleList(result.Items),
		Pagination: &pagination,
	})
}

// Mine handles GET /api/schedules/my.
func (h *SchedulesHandler) Mine(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	shifts, err := h.schedules.ListMine(c.UserContext(), subject, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.ScheduleListResponse{Schedules: dto.NewScheduleList(shifts)})
}

// Stats handles GET /api/schedules/stats.
func (h *SchedulesHandler) Stats(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	stats, window, err := h.schedules.Stats(c.UserContext(), subject, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"stats": dto.ScheduleStatsResponse{
		StartDate:          window.StartDate.Format(domain.ShiftDateLayout),
		EndDate:            window.EndDate.Format(domain.ShiftDateLayout),
		TotalSchedules:     stats.TotalSchedules,
		ScheduledUsers:     stats.ScheduledUsers,
		CompletedSchedules: stats.CompletedSchedules,
		AbsentSchedules:    stats.AbsentSchedules,
	}})
}

// Get handles GET /api/schedules/:id.
func (h *SchedulesHandler) Get(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	shift, err := h.schedules.Get(c.UserContext(), subject, id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"schedule": dto.NewScheduleResponse(shift)})
}

// Create handles POST /api/schedules.
func (h *SchedulesHandler) Create(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	shift, err := h.schedules.Create(c.UserContext(), subject, service.ScheduleCreateInput{
		UserID:    req.UserID,
		ShiftDate: req.ShiftDate,
		ShiftType: req.ShiftType,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, fiber.Map{"schedule": dto.NewScheduleResponse(shift)})
}

// Update handles PUT /api/schedules/:id.
func (h *SchedulesHandler) Update(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	shift, err := h.schedules.Update(c.UserContext(), subject, id, service.ScheduleUpdateInput{
		UserID:    req.UserID,
		ShiftDate: req.ShiftDate,
		ShiftType: req.ShiftType,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"schedule": dto.NewScheduleResponse(shift)})
}

// Delete handles DELETE /api/schedules/:id.
func (h *SchedulesHandler) Delete(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.schedules.Delete(c.UserContext(), subject, id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.MessageResponse{Message: "schedule deleted"})
}
