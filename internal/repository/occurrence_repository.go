package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ecogrid/ordination-backend-go/internal/models"
)

// OccurrenceRepository handles database operations for occurrence records
type OccurrenceRepository struct {
	db *sql.DB
}

// NewOccurrenceRepository creates a new occurrence repository
func NewOccurrenceRepository(db *sql.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

// InsertBatch inserts a batch of occurrence records within a transaction
func (r *OccurrenceRepository) InsertBatch(tx *sql.Tx, records []models.Occurrence) error {
	stmt, err := tx.Prepare(`INSERT INTO occurrences
		(sample_unit_id, species_code, frequency, center_lat, center_lon, source_file, source_line)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare occurrence insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.Exec(rec.SampleUnitID, rec.SpeciesCode, rec.Frequency,
			rec.CenterLat, rec.CenterLon, rec.SourceFile, rec.SourceLine)
		if err != nil {
			return fmt.Errorf("failed to insert occurrence (%s, %s): %w",
				rec.SampleUnitID, rec.SpeciesCode, err)
		}
	}
	return nil
}

// DeleteAll removes every occurrence record (used by replace-mode imports)
func (r *OccurrenceRepository) DeleteAll(tx *sql.Tx) error {
	if _, err := tx.Exec("DELETE FROM occurrences"); err != nil {
		return fmt.Errorf("failed to clear occurrences: %w", err)
	}
	return nil
}

// GetOccurrences retrieves occurrence records with filtering
func (r *OccurrenceRepository) GetOccurrences(filter models.OccurrenceFilter) ([]models.Occurrence, error) {
	query := `SELECT id, sample_unit_id, species_code, frequency,
		center_lat, center_lon, source_file, source_line, created_at
		FROM occurrences`

	var conditions []string
	var args []interface{}

	if filter.SampleUnit != "" {
		conditions = append(conditions, "sample_unit_id = ?")
		args = append(args, filter.SampleUnit)
	}
	if filter.SpeciesCode != "" {
		conditions = append(conditions, "species_code = ?")
		args = append(args, filter.SpeciesCode)
	}
	if filter.MinFrequency > 0 {
		conditions = append(conditions, "frequency >= ?")
		args = append(args, filter.MinFrequency)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// Insertion order keeps matrix rebuilds deterministic
	query += " ORDER BY id"

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query occurrences: %w", err)
	}
	defer rows.Close()

	var out []models.Occurrence
	for rows.Next() {
		var o models.Occurrence
		err := rows.Scan(&o.ID, &o.SampleUnitID, &o.SpeciesCode, &o.Frequency,
			&o.CenterLat, &o.CenterLon, &o.SourceFile, &o.SourceLine, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan occurrence: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetAll retrieves every occurrence record in insertion order
func (r *OccurrenceRepository) GetAll() ([]models.Occurrence, error) {
	return r.GetOccurrences(models.OccurrenceFilter{})
}

// Count returns the number of stored occurrence records
func (r *OccurrenceRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM occurrences").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count occurrences: %w", err)
	}
	return n, nil
}

// GetSamplePoints returns each distinct sample unit with a nonzero
// centroid, averaging coordinates over its records
func (r *OccurrenceRepository) GetSamplePoints() ([]models.SamplePoint, error) {
	query := `SELECT sample_unit_id, AVG(center_lat), AVG(center_lon)
		FROM occurrences
		WHERE center_lat != 0 OR center_lon != 0
		GROUP BY sample_unit_id
		ORDER BY MIN(id)`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sample points: %w", err)
	}
	defer rows.Close()

	var out []models.SamplePoint
	for rows.Next() {
		var p models.SamplePoint
		if err := rows.Scan(&p.SampleUnitID, &p.Lat, &p.Lon); err != nil {
			return nil, fmt.Errorf("failed to scan sample point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
