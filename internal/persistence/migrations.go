package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const createMigrationsTable = `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            filename   TEXT PRIMARY KEY,
            applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`

type migrationFile struct {
	Name string
	SQL  string
}

// RunMigrations applies the .sql files in dir that are not yet recorded in
// schema_migrations, in lexical order. Each file runs in its own transaction
// under an advisory lock, so concurrent instances apply it once.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, dir string, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := 0
	for _, file := range files {
		start := time.Now()
		ran, err := applyMigration(ctx, pool, file)
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", file.Name, err)
		}
		if !ran {
			logger.Debug("migration already applied", zap.String("file", file.Name))
			continue
		}
		applied++
		logger.Info("migration applied", zap.String("file", file.Name), zap.Duration("took", time.Since(start)))
	}

	logger.Info("migrations up to date", zap.Int("applied", applied), zap.Int("known", len(files)))
	return nil
}

func migrationFiles(dir string) ([]migrationFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	files := make([]migrationFile, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		files = append(files, migrationFile{Name: name, SQL: string(content)})
	}
	return files, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, file migrationFile) (bool, error) {
	ran := false
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('schema_migrations'))`); err != nil {
			return err
		}
		var appliedAt time.Time
		err := tx.QueryRow(ctx, `SELECT applied_at FROM schema_migrations WHERE filename=$1`, file.Name).Scan(&appliedAt)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		if _, err := tx.Exec(ctx, file.SQL); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, file.Name); err != nil {
			return err
		}
		ran = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return ran, nil
}
