package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/kitchen-service/internal/domain"
	"github.com/spec-kit/kitchen-service/internal/persistence"
)

// openTestPool connects to TEST_DATABASE_URL and applies the schema.
// Tests using it are skipped when the variable is unset.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()))
	return pool
}

// seedUser inserts an active account with unique credentials and removes it,
// together with its schedules and activity, when the test ends.
func seedUser(t *testing.T, pool *pgxpool.Pool, role domain.Role) *domain.User {
	t.Helper()
	suffix := uuid.NewString()
	user := &domain.User{
		Username:     "it-" + suffix,
		Email:        suffix + "@kitchen.test",
		PasswordHash: "x",
		Role:         role,
		FullName:     "Integration " + string(role),
		Active:       true,
	}
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), user))

	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, `DELETE FROM schedules WHERE user_id=$1 OR created_by=$1`, user.ID)
		_, _ = pool.Exec(ctx, `DELETE FROM activity_logs WHERE user_id=$1`, user.ID)
		_, _ = pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, user.ID)
	})
	return user
}
