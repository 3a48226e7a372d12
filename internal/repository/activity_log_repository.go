package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/kitchen-service/internal/domain"
)

// ActivityLogRepository stores audit entries.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	ListByRecord(ctx context.Context, tableName string, recordID int64) ([]domain.ActivityLog, error)
}

type activityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository builds repository.
func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	const query = `
        INSERT INTO activity_logs (user_id, action, table_name, record_id, old_values, new_values, ip_address, user_agent)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.Action,
		entry.TableName,
		entry.RecordID,
		jsonOrNil(entry.OldValues),
		jsonOrNil(entry.NewValues),
		entry.IPAddress,
		entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *activityLogRepository) ListByRecord(ctx context.Context, tableName string, recordID int64) ([]domain.ActivityLog, error) {
	const query = `
        SELECT id, user_id, action, table_name, record_id, old_values, new_values, ip_address, user_agent, created_at
        FROM activity_logs WHERE table_name=$1 AND record_id=$2 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, tableName, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ActivityLog{}
	for rows.Next() {
		var entry domain.ActivityLog
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.TableName,
			&entry.RecordID,
			&entry.OldValues,
			&entry.NewValues,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// jsonOrNil keeps absent snapshots as SQL NULL instead of the JSON literal null.
func jsonOrNil(values map[string]any) any {
	if len(values) == 0 {
		return nil
	}
	return values
}
