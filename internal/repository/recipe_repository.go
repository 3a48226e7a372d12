package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

// RecipeFilter captures catalogue search parameters. VisibleRoles is the set
// of min_role values the caller may see and is always applied.
type RecipeFilter struct {
	VisibleRoles []domain.Role
	CategoryID   *int64
	Search       *string
	Limit        int
	Offset       int
}

// RecipeRepository encapsulates recipe persistence.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *domain.Recipe) error
	Update(ctx context.Context, recipe *domain.Recipe, replaceIngredients, replaceSteps bool) error
	Deactivate(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)
	ListIngredients(ctx context.Context, recipeID int64) ([]domain.Ingredient, error)
	ListSteps(ctx context.Context, recipeID int64) ([]domain.Step, error)
	List(ctx context.Context, filter RecipeFilter) ([]domain.Recipe, error)
	Count(ctx context.Context, filter RecipeFilter) (int64, error)
	ListCategories(ctx context.Context) ([]domain.RecipeCategory, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
}

type recipeRepository struct {
	pool *pgxpool.Pool
}

// NewRecipeRepository instantiates repository.
func NewRecipeRepository(pool *pgxpool.Pool) RecipeRepository {
	return &recipeRepository{pool: pool}
}

const recipeSelect = `
        SELECT r.id, r.name, r.description, r.category_id, COALESCE(c.name, ''), r.difficulty_level,
               r.prep_time, r.cook_time, r.servings, r.image_url, r.min_role, r.created_by,
               COALESCE(u.full_name, ''), r.is_active, r.created_at, r.updated_at
        FROM recipes r
        LEFT JOIN recipe_categories c ON r.category_id = c.id
        LEFT JOIN users u ON r.created_by = u.id`

// Create inserts the recipe with its ingredients and steps in one transaction.
func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	const query = `
        INSERT INTO recipes (name, description, category_id, difficulty_level, prep_time, cook_time,
            servings, image_url, min_role, created_by, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,TRUE)
        RETURNING id, created_at, updated_at`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			recipe.Name,
			recipe.Description,
			recipe.CategoryID,
			recipe.Difficulty,
			recipe.PrepTime,
			recipe.CookTime,
			recipe.Servings,
			recipe.ImageURL,
			recipe.MinRole,
			recipe.CreatedBy,
		).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt); err != nil {
			return err
		}
		recipe.Active = true
		if err := insertIngredients(ctx, tx, recipe.ID, recipe.Ingredients); err != nil {
			return err
		}
		return insertSteps(ctx, tx, recipe.ID, recipe.Steps)
	})
}

// Update rewrites the base row and, when asked, replaces the ingredient and step lists.
func (r *recipeRepository) Update(ctx context.Context, recipe *domain.Recipe, replaceIngredients, replaceSteps bool) error {
	const query = `
        UPDATE recipes SET name=$1, description=$2, category_id=$3, difficulty_level=$4, prep_time=$5,
            cook_time=$6, servings=$7, image_url=$8, min_role=$9, updated_at=NOW()
        WHERE id=$10 AND is_active
        RETURNING updated_at`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, query,
			recipe.Name,
			recipe.Description,
			recipe.CategoryID,
			recipe.Difficulty,
			recipe.PrepTime,
			recipe.CookTime,
			recipe.Servings,
			recipe.ImageURL,
			recipe.MinRole,
			recipe.ID,
		).Scan(&recipe.UpdatedAt); err != nil {
			return err
		}
		if replaceIngredients {
			if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id=$1`, recipe.ID); err != nil {
				return err
			}
			if err := insertIngredients(ctx, tx, recipe.ID, recipe.Ingredients); err != nil {
				return err
			}
		}
		if replaceSteps {
			if _, err := tx.Exec(ctx, `DELETE FROM recipe_steps WHERE recipe_id=$1`, recipe.ID); err != nil {
				return err
			}
			if err := insertSteps(ctx, tx, recipe.ID, recipe.Steps); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *recipeRepository) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE recipes SET is_active=FALSE, updated_at=NOW() WHERE id=$1 AND is_active`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *recipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	return scanRecipe(r.pool.QueryRow(ctx, recipeSelect+` WHERE r.id=$1`, id))
}

func (r *recipeRepository) ListIngredients(ctx context.Context, recipeID int64) ([]domain.Ingredient, error) {
	const query = `
        SELECT id, recipe_id, position, ingredient_name, quantity, unit, notes
        FROM recipe_ingredients WHERE recipe_id=$1 ORDER BY position ASC`
	rows, err := r.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ingredient{}
	for rows.Next() {
		var ing domain.Ingredient
		if err := rows.Scan(&ing.ID, &ing.RecipeID, &ing.Position, &ing.Name, &ing.Quantity, &ing.Unit, &ing.Notes); err != nil {
			return nil, err
		}
		result = append(result, ing)
	}
	return result, rows.Err()
}

func (r *recipeRepository) ListSteps(ctx context.Context, recipeID int64) ([]domain.Step, error) {
	const query = `
        SELECT id, recipe_id, step_number, instruction, image_url
        FROM recipe_steps WHERE recipe_id=$1 ORDER BY step_number ASC`
	rows, err := r.pool.Query(ctx, query, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Step{}
	for rows.Next() {
		var step domain.Step
		if err := rows.Scan(&step.ID, &step.RecipeID, &step.StepNumber, &step.Instruction, &step.ImageURL); err != nil {
			return nil, err
		}
		result = append(result, step)
	}
	return result, rows.Err()
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]domain.Recipe, error) {
	where, args := recipeWhere(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`%s WHERE %s ORDER BY r.created_at DESC, r.id DESC LIMIT %d OFFSET %d`,
		recipeSelect, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Recipe{}
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *recipe)
	}
	return result, rows.Err()
}

func (r *recipeRepository) Count(ctx context.Context, filter RecipeFilter) (int64, error) {
	where, args := recipeWhere(filter)
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM recipes r WHERE `+where, args...).Scan(&total)
	return total, err
}

func (r *recipeRepository) ListCategories(ctx context.Context) ([]domain.RecipeCategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM recipe_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.RecipeCategory{}
	for rows.Next() {
		var category domain.RecipeCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *recipeRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM recipe_categories WHERE id=$1)`, id).Scan(&found)
	return found, err
}

// recipeWhere builds the visibility, category and search predicates for one query pass.
func recipeWhere(filter RecipeFilter) (string, []any) {
	roles := make([]string, 0, len(filter.VisibleRoles))
	for _, role := range filter.VisibleRoles {
		roles = append(roles, string(role))
	}
	args := []any{roles}
	clauses := []string{"r.is_active", "r.min_role = ANY($1)"}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("r.category_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		args = append(args, "%"+escapeLike(strings.TrimSpace(*filter.Search))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(r.name ILIKE %s OR r.description ILIKE %s)", placeholder, placeholder))
	}
	return strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func insertIngredients(ctx context.Context, tx pgx.Tx, recipeID int64, ingredients []domain.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"recipe_ingredients"},
		[]string{"recipe_id", "position", "ingredient_name", "quantity", "unit", "notes"},
		pgx.CopyFromSlice(len(ingredients), func(i int) ([]any, error) {
			ing := ingredients[i]
			return []any{recipeID, ing.Position, ing.Name, ing.Quantity, ing.Unit, ing.Notes}, nil
		}),
	)
	return err
}

func insertSteps(ctx context.Context, tx pgx.Tx, recipeID int64, steps []domain.Step) error {
	if len(steps) == 0 {
		return nil
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"recipe_steps"},
		[]string{"recipe_id", "step_number", "instruction", "image_url"},
		pgx.CopyFromSlice(len(steps), func(i int) ([]any, error) {
			step := steps[i]
			return []any{recipeID, step.StepNumber, step.Instruction, step.ImageURL}, nil
		}),
	)
	return err
}

func scanRecipe(row pgx.Row) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := row.Scan(
		&recipe.ID,
		&recipe.Name,
		&recipe.Description,
		&recipe.CategoryID,
		&recipe.CategoryName,
		&recipe.Difficulty,
		&recipe.PrepTime,
		&recipe.CookTime,
		&recipe.Servings,
		&recipe.ImageURL,
		&recipe.MinRole,
		&recipe.CreatedBy,
		&recipe.CreatorName,
		&recipe.Active,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &recipe, nil
}
