package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

func TestRoleLevel(t *testing.T) {
	assert.Equal(t, 1, domain.RoleStaff.Level())
	assert.Equal(t, 2, domain.RoleChef.Level())
	assert.Equal(t, 3, domain.RoleAdmin.Level())
	assert.Equal(t, 4, domain.RoleSuperAdmin.Level())
	assert.Equal(t, 0, domain.Role("manager").Level())
	assert.Equal(t, 0, domain.Role("").Level())
}

func TestRoleAtLeast(t *testing.T) {
	for _, have := range domain.Roles() {
		for _, want := range domain.Roles() {
			assert.Equal(t, have.Level() >= want.Level(), have.AtLeast(want), "%s >= %s", have, want)
		}
	}

	assert.False(t, domain.Role("ADMIN").AtLeast(domain.RoleStaff), "role strings are case sensitive")
	assert.False(t, domain.Role("bogus").AtLeast(domain.Role("other")))
	assert.False(t, domain.RoleAdmin.AtLeast(domain.RoleSuperAdmin))
}

func TestRolesAtOrBelow(t *testing.T) {
	assert.Equal(t, []domain.Role{domain.RoleStaff}, domain.RoleStaff.RolesAtOrBelow())
	assert.Equal(t, []domain.Role{domain.RoleStaff, domain.RoleChef, domain.RoleAdmin}, domain.RoleAdmin.RolesAtOrBelow())
	assert.Empty(t, domain.Role("x").RolesAtOrBelow())
}

func TestParseRole(t *testing.T) {
	role, ok := domain.ParseRole("chef")
	assert.True(t, ok)
	assert.Equal(t, domain.RoleChef, role)

	_, ok = domain.ParseRole("owner")
	assert.False(t, ok)
}
