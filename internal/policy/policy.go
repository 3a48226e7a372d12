// Package policy decides whether a subject may act on a resource.
//
// Every check is a pure function of its arguments. A Decision carries a
// reason for internal logging; callers surface denials through Err, which
// never explains why.
package policy

import (
	"github.com/spec-kit/kitchen-service/internal/domain"
	apperrors "github.com/spec-kit/kitchen-service/pkg/util/errorutil"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns nil when allowed and a permission error otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperrors.NewForbidden()
}

// RecipeAction enumerates catalogue mutations.
type RecipeAction string

const (
	RecipeCreate RecipeAction = "create"
	RecipeUpdate RecipeAction = "update"
	RecipeDelete RecipeAction = "delete"
)

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

func requireRole(subject domain.Subject, required domain.Role) Decision {
	if !subject.Active {
		return deny("subject inactive")
	}
	if !subject.Role.AtLeast(required) {
		return deny("requires role " + string(required))
	}
	return allow()
}

// CanViewRecipe allows when the subject outranks the recipe's min role and the recipe is active.
func CanViewRecipe(subject domain.Subject, recipe *domain.Recipe) Decision {
	if recipe == nil || !recipe.Active {
		return deny("recipe inactive")
	}
	return requireRole(subject, recipe.MinRole)
}

// CanMutateRecipe gates create and update at chef, delete at admin.
func CanMutateRecipe(subject domain.Subject, action RecipeAction) Decision {
	switch action {
	case RecipeCreate, RecipeUpdate:
		return requireRole(subject, domain.RoleChef)
	case RecipeDelete:
		return requireRole(subject, domain.RoleAdmin)
	}
	return deny("unknown recipe action")
}

// CanViewSchedule lets admins see every assignment and others only their own.
func CanViewSchedule(subject domain.Subject, shift *domain.ShiftAssignment) Decision {
	if !subject.Active {
		return deny("subject inactive")
	}
	if subject.Role.AtLeast(domain.RoleAdmin) {
		return allow()
	}
	if shift != nil && shift.UserID == subject.ID {
		return allow()
	}
	return deny("not the assigned user")
}

// SeesAllSchedules reports whether list queries may skip owner scoping.
func SeesAllSchedules(subject domain.Subject) bool {
	return subject.Active && subject.Role.AtLeast(domain.RoleAdmin)
}

func CanCreateSchedule(subject domain.Subject) Decision {
	return requireRole(subject, domain.RoleAdmin)
}

// CanMutateScheduleField allows admins every field; the assigned user may only touch status.
func CanMutateScheduleField(subject domain.Subject, shift *domain.ShiftAssignment, field domain.ShiftField) Decision {
	if !subject.Active {
		return deny("subject inactive")
	}
	if subject.Role.AtLeast(domain.RoleAdmin) {
		return allow()
	}
	if field != domain.ShiftFieldStatus {
		return deny("field " + string(field) + " is admin only")
	}
	if shift == nil || shift.UserID != subject.ID {
		return deny("not the assigned user")
	}
	return allow()
}

func CanDeleteSchedule(subject domain.Subject) Decision {
	return requireRole(subject, domain.RoleAdmin)
}

func CanViewScheduleStats(subject domain.Subject) Decision {
	return requireRole(subject, domain.RoleAdmin)
}

// CanAssignRole gates granting a role to an account. Granting super_admin
// needs an exact super_admin actor; level comparison is not enough.
func CanAssignRole(subject domain.Subject, target domain.Role) Decision {
	if !target.Valid() {
		return deny("unknown role")
	}
	if target == domain.RoleSuperAdmin {
		if !subject.Active || subject.Role != domain.RoleSuperAdmin {
			return deny("only super_admin may assign super_admin")
		}
		return allow()
	}
	return requireRole(subject, domain.RoleAdmin)
}

func CanViewUserRecord(subject domain.Subject, targetUserID int64) Decision {
	if subject.Active && subject.ID == targetUserID {
		return allow()
	}
	return requireRole(subject, domain.RoleAdmin)
}

func CanListUsers(subject domain.Subject) Decision {
	return requireRole(subject, domain.RoleAdmin)
}

func CanUpdateUserRecord(subject domain.Subject, targetUserID int64) Decision {
	return CanViewUserRecord(subject, targetUserID)
}

// CanDeactivateUser never lets a subject remove its own account.
func CanDeactivateUser(subject domain.Subject, targetUserID int64) Decision {
	if subject.ID == targetUserID {
		return deny("cannot delete own account")
	}
	return requireRole(subject, domain.RoleAdmin)
}
