package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ecogrid/ordination-backend-go/internal/models"
)

// RunRepository handles database operations for matrix runs and their
// ordination axis scores
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Insert stores a matrix run and returns its row id
func (r *RunRepository) Insert(run *models.MatrixRun) (int64, error) {
	dropSpecies, err := json.Marshal(emptyIfNil(run.DroppedSpecies))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal dropped species: %w", err)
	}
	dropSamples, err := json.Marshal(emptyIfNil(run.DroppedSamples))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal dropped samples: %w", err)
	}

	res, err := r.db.Exec(`INSERT INTO matrix_runs
		(uuid, min_relative_frequency, rows_in, rows_out, cols_in, cols_out, dropped_species, dropped_samples)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.UUID, run.MinRelativeFrequency, run.RowsIn, run.RowsOut,
		run.ColsIn, run.ColsOut, string(dropSpecies), string(dropSamples))
	if err != nil {
		return 0, fmt.Errorf("failed to insert matrix run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	run.ID = id
	return id, nil
}

// GetRuns retrieves all matrix runs, newest first
func (r *RunRepository) GetRuns() ([]models.MatrixRun, error) {
	rows, err := r.db.Query(`SELECT id, uuid, min_relative_frequency,
		rows_in, rows_out, cols_in, cols_out, dropped_species, dropped_samples, created_at
		FROM matrix_runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matrix runs: %w", err)
	}
	defer rows.Close()

	var out []models.MatrixRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

// GetRunByID retrieves a single matrix run, or nil when absent
func (r *RunRepository) GetRunByID(id int64) (*models.MatrixRun, error) {
	rows, err := r.db.Query(`SELECT id, uuid, min_relative_frequency,
		rows_in, rows_out, cols_in, cols_out, dropped_species, dropped_samples, created_at
		FROM matrix_runs WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query matrix run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRun(rows)
}

func scanRun(rows *sql.Rows) (*models.MatrixRun, error) {
	var run models.MatrixRun
	var dropSpecies, dropSamples string
	err := rows.Scan(&run.ID, &run.UUID, &run.MinRelativeFrequency,
		&run.RowsIn, &run.RowsOut, &run.ColsIn, &run.ColsOut,
		&dropSpecies, &dropSamples, &run.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan matrix run: %w", err)
	}
	if err := json.Unmarshal([]byte(dropSpecies), &run.DroppedSpecies); err != nil {
		return nil, fmt.Errorf("failed to decode dropped species: %w", err)
	}
	if err := json.Unmarshal([]byte(dropSamples), &run.DroppedSamples); err != nil {
		return nil, fmt.Errorf("failed to decode dropped samples: %w", err)
	}
	return &run, nil
}

// ReplaceScores replaces all axis scores for a run within a transaction
func (r *RunRepository) ReplaceScores(tx *sql.Tx, runID int64, scores []models.AxisScore) error {
	if _, err := tx.Exec("DELETE FROM axis_scores WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to clear axis scores: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO axis_scores (run_id, sample_unit_id, axis, score)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare score insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range scores {
		if _, err := stmt.Exec(runID, s.SampleUnitID, s.Axis, s.Score); err != nil {
			return fmt.Errorf("failed to insert score (%s, %s): %w", s.SampleUnitID, s.Axis, err)
		}
	}
	return nil
}

// GetScores retrieves a run's axis scores keyed by sample unit, plus
// the distinct axis names in alphabetical order
func (r *RunRepository) GetScores(runID int64) (map[string]map[string]float64, []string, error) {
	rows, err := r.db.Query(`SELECT sample_unit_id, axis, score
		FROM axis_scores WHERE run_id = ? ORDER BY axis, sample_unit_id`, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query axis scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[string]map[string]float64)
	var axes []string
	seen := make(map[string]bool)
	for rows.Next() {
		var unit, axis string
		var score float64
		if err := rows.Scan(&unit, &axis, &score); err != nil {
			return nil, nil, fmt.Errorf("failed to scan axis score: %w", err)
		}
		if scores[unit] == nil {
			scores[unit] = make(map[string]float64)
		}
		scores[unit][axis] = score
		if !seen[axis] {
			seen[axis] = true
			axes = append(axes, axis)
		}
	}
	return scores, axes, rows.Err()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
