package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds every schema migration in version order. New
// migrations are appended, never edited after release.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_occurrences",
		SQL: `
			CREATE TABLE IF NOT EXISTS occurrences (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sample_unit_id TEXT NOT NULL,
				species_code TEXT NOT NULL,
				frequency INTEGER NOT NULL CHECK (frequency >= 0),
				center_lat REAL NOT NULL DEFAULT 0,
				center_lon REAL NOT NULL DEFAULT 0,
				source_file TEXT NOT NULL DEFAULT '',
				source_line INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_occurrences_unit ON occurrences(sample_unit_id);
			CREATE INDEX IF NOT EXISTS idx_occurrences_species ON occurrences(species_code);
		`,
	},
	{
		Version: 2,
		Name:    "create_species",
		SQL: `
			CREATE TABLE IF NOT EXISTS species (
				code TEXT PRIMARY KEY,
				common_name TEXT NOT NULL DEFAULT '',
				scientific_name TEXT NOT NULL DEFAULT ''
			);
		`,
	},
	{
		Version: 3,
		Name:    "create_matrix_runs",
		SQL: `
			CREATE TABLE IF NOT EXISTS matrix_runs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				uuid TEXT UNIQUE NOT NULL,
				min_relative_frequency REAL NOT NULL,
				rows_in INTEGER NOT NULL,
				rows_out INTEGER NOT NULL,
				cols_in INTEGER NOT NULL,
				cols_out INTEGER NOT NULL,
				dropped_species TEXT NOT NULL DEFAULT '[]',
				dropped_samples TEXT NOT NULL DEFAULT '[]',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 4,
		Name:    "create_axis_scores",
		SQL: `
			CREATE TABLE IF NOT EXISTS axis_scores (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id INTEGER NOT NULL REFERENCES matrix_runs(id) ON DELETE CASCADE,
				sample_unit_id TEXT NOT NULL,
				axis TEXT NOT NULL,
				score REAL NOT NULL,
				UNIQUE(run_id, sample_unit_id, axis)
			);
		`,
	},
}

// Migrate applies all pending migrations to the given database
func Migrate(conn *sql.DB) error {
	if err := initMigrationsTable(conn); err != nil {
		return err
	}

	applied, err := appliedVersions(conn)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

// initMigrationsTable creates the migrations tracking table
func initMigrationsTable(conn *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := conn.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedVersions returns the set of migration versions already applied
func appliedVersions(conn *sql.DB) (map[int]bool, error) {
	rows, err := conn.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
