package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/kitchen-service/internal/auth"
	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/events"
	"github.com/spec-kit/kitchen-service/internal/policy"
	"github.com/spec-kit/kitchen-service/internal/repository"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

const usersTable = "users"

// UserService manages accounts. Accounts are deactivated, never removed.
type UserService struct {
	users      repository.UserRepository
	audit      AuditRecorder
	paginator  Paginator
	bcryptCost int
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	Audit      AuditRecorder
	Paginator  Paginator
	BcryptCost int
}

// NewUserService builds the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		audit:      recorderOrNoop(deps.Audit),
		paginator:  deps.Paginator,
		bcryptCost: deps.BcryptCost,
	}
}

// UserCreateInput describes a new account.
type UserCreateInput struct {
	Username string
	Email    string
	Password string
	Role     string
	FullName string
	Phone    *string
}

// UserUpdateInput carries a partial account change.
type UserUpdateInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
	FullName *string
	Phone    *string
	Active   *bool
}

func (in UserUpdateInput) empty() bool {
	return in.Username == nil && in.Email == nil && in.Password == nil && in.Role == nil &&
		in.FullName == nil && in.Phone == nil && in.Active == nil
}

// UserPage is one page of accounts.
type UserPage struct {
	Items []domain.User
	Page  domain.Page
}

// List pages through all accounts.
func (s *UserService) List(ctx context.Context, subject domain.Subject, page, limit int) (*UserPage, error) {
	if err := policy.CanListUsers(subject).Err(); err != nil {
		return nil, err
	}
	p := s.paginator.Normalize(page, limit)
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	items, err := s.users.List(ctx, p.Limit, p.Offset())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	p.Total = total
	return &UserPage{Items: items, Page: p}, nil
}

// Get returns one account; callers other than admins may only read their own.
func (s *UserService) Get(ctx context.Context, subject domain.Subject, id int64) (*domain.User, error) {
	if err := policy.CanViewUserRecord(subject, id).Err(); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Create registers a new account.
func (s *UserService) Create(ctx context.Context, subject domain.Subject, input UserCreateInput) (*domain.User, error) {
	if err := policy.CanListUsers(subject).Err(); err != nil {
		return nil, err
	}

	missing := []string{}
	for _, field := range []struct{ name, value string }{
		{"username", input.Username},
		{"email", input.Email},
		{"password", input.Password},
		{"role", input.Role},
		{"full_name", input.FullName},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, apperrors.NewFieldError("role", "role is not a known role")
	}
	if err := policy.CanAssignRole(subject, role).Err(); err != nil {
		return nil, err
	}
	email, err := parseEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	user := &domain.User{
		Username: strings.TrimSpace(input.Username),
		Email:    email,
		Role:     role,
		FullName: strings.TrimSpace(input.FullName),
		Phone:    optionalString(input.Phone),
		Active:   true,
	}
	if err := s.ensureUnique(ctx, user.Username, user.Email, 0); err != nil {
		return nil, err
	}
	if user.PasswordHash, err = auth.HashPassword(input.Password, s.bcryptCost); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("username or email already exists", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, events.AuditEntry{
		ActorID:      subject.ID,
		Action:       events.EventUserCreated,
		ResourceType: usersTable,
		ResourceID:   &user.ID,
		After:        userSnapshot(user),
	})
	return user, nil
}

// Update changes an account. Role and activation changes are admin only.
func (s *UserService) Update(ctx context.Context, subject domain.Subject, id int64, input UserUpdateInput) (*domain.User, error) {
	if err := policy.CanUpdateUserRecord(subject, id).Err(); err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if input.Role != nil {
		role, ok := domain.ParseRole(*input.Role)
		if !ok {
			return nil, apperrors.NewFieldError("role", "role is not a known role")
		}
		if role != current.Role {
			if err := policy.CanAssignRole(subject, role).Err(); err != nil {
				return nil, err
			}
			if err := policy.CanAssignRole(subject, current.Role).Err(); err != nil {
				return nil, err
			}
		}
		next.Role = role
	}
	if input.Active != nil && *input.Active != current.Active {
		if err := policy.CanDeactivateUser(subject, id).Err(); err != nil {
			return nil, err
		}
		next.Active = *input.Active
	}
	if input.Username != nil {
		if next.Username = strings.TrimSpace(*input.Username); next.Username == "" {
			return nil, apperrors.NewFieldError("username", "username cannot be empty")
		}
	}
	if input.Email != nil {
		if next.Email, err = parseEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.FullName != nil {
		if next.FullName = strings.TrimSpace(*input.FullName); next.FullName == "" {
			return nil, apperrors.NewFieldError("full_name", "full_name cannot be empty")
		}
	}
	if input.Phone != nil {
		next.Phone = optionalString(input.Phone)
	}
	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		if next.PasswordHash, err = auth.HashPassword(*input.Password, s.bcryptCost); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}
	if err := s.ensureUnique(ctx, changed(current.Username, next.Username), changed(current.Email, next.Email), id); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, &next); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, apperrors.NewConflict("username or email already exists", nil)
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, events.AuditEntry{
		ActorID:      subject.ID,
		Action:       events.EventUserUpdated,
		ResourceType: usersTable,
		ResourceID:   &next.ID,
		Before:       userSnapshot(current),
		After:        userSnapshot(&next),
	})
	return &next, nil
}

// Deactivate disables an account. Nobody can deactivate themselves.
func (s *UserService) Deactivate(ctx context.Context, subject domain.Subject, id int64) error {
	if err := policy.CanDeactivateUser(subject, id).Err(); err != nil {
		return err
	}
	current, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Deactivate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return apperrors.MapError(err)
	}

	s.audit.Record(ctx, events.AuditEntry{
		ActorID:      subject.ID,
		Action:       events.EventUserDeleted,
		ResourceType: usersTable,
		ResourceID:   &id,
		Before:       userSnapshot(current),
	})
	return nil
}

func (s *UserService) load(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ensureUnique checks the non-empty username and email against other accounts.
func (s *UserService) ensureUnique(ctx context.Context, username, email string, excludeID int64) error {
	if username != "" {
		taken, err := s.users.UsernameExists(ctx, username, excludeID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if taken {
			return apperrors.NewConflict("username already exists", map[string]any{"field": "username"})
		}
	}
	if email != "" {
		taken, err := s.users.EmailExists(ctx, email, excludeID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if taken {
			return apperrors.NewConflict("email already exists", map[string]any{"field": "email"})
		}
	}
	return nil
}

func changed(before, after string) string {
	if before == after {
		return ""
	}
	return after
}

func parseEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", apperrors.NewFieldError("email", "email is not a valid address")
	}
	return strings.ToLower(addr.Address), nil
}

func validatePassword(password string) error {
	if err := auth.ValidatePassword(password); err != nil {
		return apperrors.NewFieldError("password", err.Error())
	}
	return nil
}

func userSnapshot(user *domain.User) map[string]any {
	return map[string]any{
		"username":  user.Username,
		"email":     user.Email,
		"role":      user.Role,
		"full_name": user.FullName,
		"is_active": user.Active,
	}
}
