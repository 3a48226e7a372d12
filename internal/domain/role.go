package domain

// Role enumerates the organization roles in ascending order of privilege.
type Role string

const (
	RoleStaff      Role = "staff"
	RoleChef       Role = "chef"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var roleLevels = map[Role]int{
	RoleStaff:      1,
	RoleChef:       2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// Roles lists every known role from lowest to highest level.
func Roles() []Role {
	return []Role{RoleStaff, RoleChef, RoleAdmin, RoleSuperAdmin}
}

// Level returns the rank of the role. Unknown roles rank 0 and fail every gate.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r ranks at or above required.
func (r Role) AtLeast(required Role) bool {
	level := r.Level()
	if level == 0 {
		return false
	}
	return level >= required.Level()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r.Level() > 0
}

// RolesAtOrBelow returns the known roles whose level does not exceed r.
func (r Role) RolesAtOrBelow() []Role {
	level := r.Level()
	result := make([]Role, 0, len(roleLevels))
	for _, candidate := range Roles() {
		if candidate.Level() <= level {
			result = append(result, candidate)
		}
	}
	return result
}

// ParseRole converts raw input to a Role.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	return role, role.Valid()
}
