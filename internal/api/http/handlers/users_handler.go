package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/kitchen-service/internal/api/dto"
	"github.com/spec-kit/kitchen-service/internal/service"
)

// UsersHandler exposes account management.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	result, err := h.users.List(c.UserContext(), subject, parseInt(c.Query("page"), 1), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}

	users := make([]dto.UserResponse, 0, len(result.Items))
	for i := range result.Items {
		users = append(users, *dto.NewUserResponse(&result.Items[i]))
	}
	return respond(c, fiber.StatusOK, dto.UserListResponse{Users: users, Pagination: dto.NewPagination(result.Page)})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), subject, id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": dto.NewUserResponse(user)})
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	user, err := h.users.Create(c.UserContext(), subject, service.UserCreateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, fiber.Map{"user": dto.NewUserResponse(user)})
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	user, err := h.users.Update(c.UserContext(), subject, id, service.UserUpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		FullName: req.FullName,
		Phone:    req.Phone,
		Active:   req.IsActive,
	})
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"user": dto.NewUserResponse(user)})
}

// Delete handles DELETE /api/users/:id by deactivating the account.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	subject, err := subjectOf(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.users.Deactivate(c.UserContext(), subject, id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, dto.MessageResponse{Message: "user deactivated"})
}
