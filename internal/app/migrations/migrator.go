package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/sis/internal/db"
	"github.com/yigit/sis/internal/pkg/logger"
)

//go:embed sql/*.sql
var embedded embed.FS

// Embedded returns the schema migrations shipped with the binary
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}

// Result describes one migration file
type Result struct {
	Version string
	File    string
	Applied bool
}

// Migrator manages database migrations
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// versionOf extracts "001" from "001_init.sql"
func versionOf(filename string) string {
	version, _, _ := strings.Cut(path.Base(filename), "_")
	return strings.TrimSuffix(version, ".sql")
}

// migrateFile applies one file; the statements and the version record share a transaction.
func (m *Migrator) migrateFile(ctx context.Context, fsys fs.FS, name string) (Result, error) {
	version := versionOf(name)
	res := Result{Version: version, File: name}

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return res, err
	}
	if applied {
		logger.Debug().Str("file", name).Msg("Migration already applied, skipping")
		return res, nil
	}

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return res, fmt.Errorf("failed to read migration file %s: %w", name, err)
	}

	err = db.WithTransaction(ctx, m.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("error occurred during SQL migration %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	logger.Info().Str("file", name).Msg("Migration applied")
	res.Applied = true
	return res, nil
}

// Migrate applies every *.sql file at the root of fsys in lexical order.
func (m *Migrator) Migrate(ctx context.Context, fsys fs.FS) ([]Result, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var sqlFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			sqlFiles = append(sqlFiles, e.Name())
		}
	}
	sort.Strings(sqlFiles)

	results := make([]Result, 0, len(sqlFiles))
	for _, file := range sqlFiles {
		res, err := m.migrateFile(ctx, fsys, file)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	return results, nil
}

// MigrateEmbedded applies the embedded schema migrations
func (m *Migrator) MigrateEmbedded(ctx context.Context) ([]Result, error) {
	return m.Migrate(ctx, Embedded())
}
