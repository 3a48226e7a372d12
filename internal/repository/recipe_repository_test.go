package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

func TestRecipeWhereAlwaysAppliesVisibility(t *testing.T) {
	where, args := recipeWhere(RecipeFilter{VisibleRoles: domain.RoleChef.RolesAtOrBelow()})
	assert.Equal(t, "r.is_active AND r.min_role = ANY($1)", where)
	assert.Equal(t, []any{[]string{"staff", "chef"}}, args)
}

func TestRecipeWhereCombinesFilters(t *testing.T) {
	category := int64(4)
	search := "  100%_Soup "
	where, args := recipeWhere(RecipeFilter{
		VisibleRoles: []domain.Role{domain.RoleStaff},
		CategoryID:   &category,
		Search:       &search,
	})
	assert.Equal(t, "r.is_active AND r.min_role = ANY($1) AND r.category_id=$2 AND (r.name ILIKE $3 OR r.description ILIKE $3)", where)
	assert.Equal(t, int64(4), args[1])
	assert.Equal(t, `%100\%\_Soup%`, args[2])
}

func TestRecipeWhereIgnoresBlankSearch(t *testing.T) {
	search := "   "
	where, args := recipeWhere(RecipeFilter{VisibleRoles: []domain.Role{domain.RoleStaff}, Search: &search})
	assert.NotContains(t, where, "ILIKE")
	assert.Len(t, args, 1)
}
