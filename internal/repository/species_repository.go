package repository

import (
	"database/sql"
	"fmt"

	"github.com/ecogrid/ordination-backend-go/internal/models"
)

// SpeciesRepository handles database operations for the species lookup
type SpeciesRepository struct {
	db *sql.DB
}

// NewSpeciesRepository creates a new species repository
func NewSpeciesRepository(db *sql.DB) *SpeciesRepository {
	return &SpeciesRepository{db: db}
}

// Upsert inserts or updates species lookup entries within a transaction
func (r *SpeciesRepository) Upsert(tx *sql.Tx, species []models.Species) error {
	stmt, err := tx.Prepare(`INSERT INTO species (code, common_name, scientific_name)
		VALUES (?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			common_name = excluded.common_name,
			scientific_name = excluded.scientific_name`)
	if err != nil {
		return fmt.Errorf("failed to prepare species upsert: %w", err)
	}
	defer stmt.Close()

	for _, sp := range species {
		if _, err := stmt.Exec(sp.Code, sp.CommonName, sp.ScientificName); err != nil {
			return fmt.Errorf("failed to upsert species %s: %w", sp.Code, err)
		}
	}
	return nil
}

// GetAll retrieves every species lookup entry ordered by code
func (r *SpeciesRepository) GetAll() ([]models.Species, error) {
	rows, err := r.db.Query("SELECT code, common_name, scientific_name FROM species ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	defer rows.Close()

	var out []models.Species
	for rows.Next() {
		var sp models.Species
		if err := rows.Scan(&sp.Code, &sp.CommonName, &sp.ScientificName); err != nil {
			return nil, fmt.Errorf("failed to scan species: %w", err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// GetByCode retrieves a single species by code, or nil when absent
func (r *SpeciesRepository) GetByCode(code string) (*models.Species, error) {
	var sp models.Species
	err := r.db.QueryRow("SELECT code, common_name, scientific_name FROM species WHERE code = ?", code).
		Scan(&sp.Code, &sp.CommonName, &sp.ScientificName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get species %s: %w", code, err)
	}
	return &sp, nil
}
