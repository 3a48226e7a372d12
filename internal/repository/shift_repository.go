package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

// ShiftFilter captures schedule listing parameters.
type ShiftFilter struct {
	UserID    *int64
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
	Ascending bool
}

// ShiftRepository persists shift assignments. Create and Update serialize on
// the (user, date, shift type) slot and report ErrShiftConflict when it is taken.
type ShiftRepository interface {
	Create(ctx context.Context, shift *domain.ShiftAssignment) error
	Update(ctx context.Context, shift *domain.ShiftAssignment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.ShiftAssignment, error)
	HasConflict(ctx context.Context, key domain.ShiftKey, excludeID int64) (bool, error)
	List(ctx context.Context, filter ShiftFilter) ([]domain.ShiftAssignment, error)
	Count(ctx context.Context, filter ShiftFilter) (int64, error)
	Stats(ctx context.Context, from, to time.Time) (*domain.ShiftStats, error)
}

type shiftRepository struct {
	pool *pgxpool.Pool
}

// NewShiftRepository instantiates the repository.
func NewShiftRepository(pool *pgxpool.Pool) ShiftRepository {
	return &shiftRepository{pool: pool}
}

const shiftSelect = `
        SELECT s.id, s.user_id, COALESCE(u.full_name, ''), s.shift_date, s.shift_type,
               to_char(s.start_time, 'HH24:MI:SS'), to_char(s.end_time, 'HH24:MI:SS'),
               s.status, s.notes, s.created_by, COALESCE(c.full_name, ''), s.created_at, s.updated_at
        FROM schedules s
        LEFT JOIN users u ON s.user_id = u.id
        LEFT JOIN users c ON s.created_by = c.id`

func (r *shiftRepository) Create(ctx context.Context, shift *domain.ShiftAssignment) error {
	const query = `
        INSERT INTO schedules (user_id, shift_date, shift_type, start_time, end_time, status, notes, created_by)
        VALUES ($1, $2, $3, $4::time, $5::time, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockSlot(ctx, tx, shift.Key()); err != nil {
			return err
		}
		taken, err := hasConflict(ctx, tx, shift.Key(), 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrShiftConflict
		}
		return tx.QueryRow(ctx, query,
			shift.UserID,
			shift.ShiftDate,
			shift.ShiftType,
			shift.StartTime,
			shift.EndTime,
			shift.Status,
			shift.Notes,
			shift.CreatedBy,
		).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)
	})
	return mapShiftError(err)
}

func (r *shiftRepository) Update(ctx context.Context, shift *domain.ShiftAssignment) error {
	const query = `
        UPDATE schedules SET user_id=$1, shift_date=$2, shift_type=$3, start_time=$4::time, end_time=$5::time,
            status=$6, notes=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockSlot(ctx, tx, shift.Key()); err != nil {
			return err
		}
		var id int64
		if err := tx.QueryRow(ctx, `SELECT id FROM schedules WHERE id=$1 FOR UPDATE`, shift.ID).Scan(&id); err != nil {
			return err
		}
		taken, err := hasConflict(ctx, tx, shift.Key(), shift.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrShiftConflict
		}
		return tx.QueryRow(ctx, query,
			shift.UserID,
			shift.ShiftDate,
			shift.ShiftType,
			shift.StartTime,
			shift.EndTime,
			shift.Status,
			shift.Notes,
			shift.ID,
		).Scan(&shift.UpdatedAt)
	})
	return mapShiftError(err)
}

func (r *shiftRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM schedules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *shiftRepository) GetByID(ctx context.Context, id int64) (*domain.ShiftAssignment, error) {
	return scanShift(r.pool.QueryRow(ctx, shiftSelect+` WHERE s.id=$1`, id))
}

func (r *shiftRepository) HasConflict(ctx context.Context, key domain.ShiftKey, excludeID int64) (bool, error) {
	return hasConflict(ctx, r.pool, key, excludeID)
}

func (r *shiftRepository) List(ctx context.Context, filter ShiftFilter) ([]domain.ShiftAssignment, error) {
	where, args := shiftWhere(filter)
	order := "s.shift_date DESC, s.start_time ASC, s.id ASC"
	if filter.Ascending {
		order = "s.shift_date ASC, s.start_time ASC, s.id ASC"
	}
	query := fmt.Sprintf("%s %s ORDER BY %s", shiftSelect, where, order)
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ShiftAssignment{}
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *shift)
	}
	return result, rows.Err()
}

func (r *shiftRepository) Count(ctx context.Context, filter ShiftFilter) (int64, error) {
	where, args := shiftWhere(filter)
	var total int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM schedules s "+where, args...).Scan(&total)
	return total, err
}

func (r *shiftRepository) Stats(ctx context.Context, from, to time.Time) (*domain.ShiftStats, error) {
	const query = `
        SELECT COUNT(*),
               COUNT(DISTINCT user_id),
               COUNT(*) FILTER (WHERE status = 'completed'),
               COUNT(*) FILTER (WHERE status = 'absent')
        FROM schedules
        WHERE shift_date BETWEEN $1 AND $2`

	var stats domain.ShiftStats
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(
		&stats.TotalSchedules,
		&stats.ScheduledUsers,
		&stats.CompletedSchedules,
		&stats.AbsentSchedules,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func shiftWhere(filter ShiftFilter) (string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("s.user_id=$%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		clauses = append(clauses, fmt.Sprintf("s.shift_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		clauses = append(clauses, fmt.Sprintf("s.shift_date <= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// lockSlot serializes writers of one slot for the rest of the transaction.
func lockSlot(ctx context.Context, tx pgx.Tx, key domain.ShiftKey) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key.String())
	return err
}

func hasConflict(ctx context.Context, db dbtx, key domain.ShiftKey, excludeID int64) (bool, error) {
	const query = `
        SELECT EXISTS(
            SELECT 1 FROM schedules
            WHERE user_id=$1 AND shift_date=$2 AND shift_type=$3 AND id<>$4)`
	var taken bool
	err := db.QueryRow(ctx, query, key.UserID, key.ShiftDate, key.ShiftType, excludeID).Scan(&taken)
	return taken, err
}

func mapShiftError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrShiftConflict) {
		return ErrShiftConflict
	}
	if _, dup := uniqueConstraint(err); dup {
		return ErrShiftConflict
	}
	return err
}

func scanShift(row pgx.Row) (*domain.ShiftAssignment, error) {
	var shift domain.ShiftAssignment
	if err := row.Scan(
		&shift.ID,
		&shift.UserID,
		&shift.UserName,
		&shift.ShiftDate,
		&shift.ShiftType,
		&shift.StartTime,
		&shift.EndTime,
		&shift.Status,
		&shift.Notes,
		&shift.CreatedBy,
		&shift.CreatorName,
		&shift.CreatedAt,
		&shift.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &shift, nil
}
