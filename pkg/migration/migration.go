package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ruixianxue/trading-simulator/pkg/postgresql"
)

// Migration represents a single SQL migration loaded from disk.
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
	DownSQL   string
}

// Config for the migration runner.
type Config struct {
	MigrationDir string
	TableName    string // migration tracking table (default "schema_migrations")
}

// Runner applies and reverts SQL migrations against PostgreSQL.
type Runner struct {
	client       postgresql.PostgreSQLClient
	migrationDir string
	tableName    string
}

// NewRunner creates a new migration runner.
func NewRunner(client postgresql.PostgreSQLClient, config Config) *Runner {
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}
	return &Runner{
		client:       client,
		migrationDir: config.MigrationDir,
		tableName:    config.TableName,
	}
}

// EnsureMigrationTable creates the tracking table if it does not exist.
func (r *Runner) EnsureMigrationTable(ctx context.Context) error {
	_, err := r.client.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
	`, r.tableName))
	return err
}

// AppliedMigrations returns the set of applied migration ids.
func (r *Runner) AppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := r.client.Query(ctx, fmt.Sprintf("SELECT id FROM %s ORDER BY applied_at", r.tableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}

	return applied, rows.Err()
}

// LoadMigrations loads all migration files from the migration directory,
// sorted by filename. Files are paired as <id>.up.sql / <id>.down.sql with
// ids of the form YYYYMMDDHHMMSS_name.
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := filepath.Glob(filepath.Join(r.migrationDir, "*.up.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(upFiles)

	var migrations []Migration
	for _, upFile := range upFiles {
		migration, err := parseMigrationFiles(upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %v", upFile, err)
		}
		migrations = append(migrations, migration)
	}

	return migrations, nil
}

func parseMigrationFiles(upFilePath string) (Migration, error) {
	upContent, err := os.ReadFile(upFilePath)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(filepath.Base(upFilePath), ".up.sql")

	name := id
	timestamp := time.Unix(0, 0)
	if parts := strings.SplitN(id, "_", 2); len(parts) == 2 {
		if ts, err := time.Parse("20060102150405", parts[0]); err == nil {
			timestamp = ts
			name = parts[1]
		}
	}

	var downSQL string
	if downContent, err := os.ReadFile(strings.Replace(upFilePath, ".up.sql", ".down.sql", 1)); err == nil {
		downSQL = strings.TrimSpace(string(downContent))
	}

	return Migration{
		ID:        id,
		Name:      name,
		Timestamp: timestamp,
		UpSQL:     strings.TrimSpace(string(upContent)),
		DownSQL:   downSQL,
	}, nil
}

// MigrateUp applies pending migrations. steps == 0 applies all of them.
func (r *Runner) MigrateUp(ctx context.Context, steps int) error {
	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toApply []Migration
	for _, migration := range migrations {
		if !applied[migration.ID] {
			toApply = append(toApply, migration)
		}
	}
	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	for _, migration := range toApply {
		if migration.UpSQL == "" {
			continue
		}

		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, migration.UpSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx,
				fmt.Sprintf("INSERT INTO %s (id, name) VALUES ($1, $2)", r.tableName),
				migration.ID, migration.Name,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", migration.ID, err)
		}
	}

	return nil
}

// MigrateDown reverts applied migrations, most recent first. steps == 0
// reverts all of them.
func (r *Runner) MigrateDown(ctx context.Context, steps int) error {
	migrations, err := r.LoadMigrations()
	if err != nil {
		return err
	}

	applied, err := r.AppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var toRevert []Migration
	for i := len(migrations) - 1; i >= 0; i-- {
		if applied[migrations[i].ID] {
			toRevert = append(toRevert, migrations[i])
		}
	}
	if steps > 0 && len(toRevert) > steps {
		toRevert = toRevert[:steps]
	}

	for _, migration := range toRevert {
		if migration.DownSQL == "" {
			return fmt.Errorf("migration %s has no down SQL", migration.ID)
		}

		err := postgresql.WithTx(ctx, r.client, func(txCtx context.Context) error {
			if _, err := r.client.Exec(txCtx, migration.DownSQL); err != nil {
				return err
			}
			_, err := r.client.Exec(txCtx,
				fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.tableName),
				migration.ID,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("revert of %s failed: %w", migration.ID, err)
		}
	}

	return nil
}
