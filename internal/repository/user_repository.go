package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	Deactivate(ctx context.Context, id int64) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, role, full_name, phone, is_active, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, password_hash, role, full_name, phone, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.FullName,
		user.Phone,
		user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if _, dup := uniqueConstraint(err); dup {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET username=$1, email=$2, password_hash=$3, role=$4, full_name=$5, phone=$6,
            is_active=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.FullName,
		user.Phone,
		user.Active,
		user.ID,
	).Scan(&user.UpdatedAt)
	if _, dup := uniqueConstraint(err); dup {
		return ErrDuplicate
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username=$1 OR email=$1 LIMIT 1`
	return scanUser(r.pool.QueryRow(ctx, query, login))
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	return total, err
}

func (r *userRepository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username=$1 AND id<>$2)`, username, excludeID)
}

func (r *userRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email=$1 AND id<>$2)`, email, excludeID)
}

func (r *userRepository) exists(ctx context.Context, query string, value string, excludeID int64) (bool, error) {
	var found bool
	err := r.pool.QueryRow(ctx, query, value, excludeID).Scan(&found)
	return found, err
}

func (r *userRepository) Deactivate(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET is_active=FALSE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FullName,
		&user.Phone,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
