package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"quiz-tube/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsTableExistsQuery = `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`
	createMigrationsTableQuery = `CREATE TABLE schema_migrations (
		version    NUMBER(19) NOT NULL,
		applied_at TIMESTAMP WITH TIME ZONE NOT NULL,
		CONSTRAINT pk_schema_migrations PRIMARY KEY (version)
	)`
	currentVersionQuery  = `SELECT NVL(MAX(version), 0) FROM schema_migrations`
	recordMigrationQuery = `INSERT INTO schema_migrations (version, applied_at) VALUES (:1, :2)`
)

// Migrator is the subset of *sqlx.DB used to apply migrations.
type Migrator interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RunMigrations applies the embedded up migrations that are newer than the
// version recorded in schema_migrations. It returns the number applied.
func RunMigrations(ctx context.Context, db Migrator) (int, error) {
	return runMigrations(ctx, db, migrationsFS, "migrations")
}

func runMigrations(ctx context.Context, db Migrator, fsys fs.FS, path string) (int, error) {
	src, err := iofs.New(fsys, path)
	if err != nil {
		return 0, fmt.Errorf("could not open migrations: %w", err)
	}
	defer src.Close()

	current, err := currentVersion(ctx, db)
	if err != nil {
		return 0, err
	}

	version, err := src.First()
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("could not read first migration: %w", err)
	}

	applied := 0
	for {
		if version > current {
			if err := applyMigration(ctx, db, src, version); err != nil {
				return applied, err
			}
			applied++
		}

		next, err := src.Next(version)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return applied, fmt.Errorf("could not read migration after %d: %w", version, err)
		}
		version = next
	}

	logger.Get().Info("Migrations completed", zap.Uint("from_version", current), zap.Int("applied", applied))
	return applied, nil
}

func currentVersion(ctx context.Context, db Migrator) (uint, error) {
	var tables int
	if err := db.GetContext(ctx, &tables, migrationsTableExistsQuery); err != nil {
		return 0, fmt.Errorf("could not check schema_migrations: %w", err)
	}
	if tables == 0 {
		if _, err := db.ExecContext(ctx, createMigrationsTableQuery); err != nil {
			return 0, fmt.Errorf("could not create schema_migrations: %w", err)
		}
		return 0, nil
	}

	var version int64
	if err := db.GetContext(ctx, &version, currentVersionQuery); err != nil {
		return 0, fmt.Errorf("could not read schema version: %w", err)
	}
	return uint(version), nil
}

func applyMigration(ctx context.Context, db Migrator, src source.Driver, version uint) error {
	r, identifier, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}

	for _, stmt := range splitStatements(string(body)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, err)
		}
	}
	if _, err := db.ExecContext(ctx, recordMigrationQuery, int64(version), time.Now().UTC()); err != nil {
		return fmt.Errorf("could not record migration %d: %w", version, err)
	}

	logger.Get().Info("Executed migration", zap.Uint("version", version), zap.String("name", identifier))
	return nil
}

// splitStatements splits a migration file into single statements, since Oracle
// drivers execute one statement per call. Full-line "--" comments are dropped.
func splitStatements(body string) []string {
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(lines, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
