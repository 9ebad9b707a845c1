package service

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/ecogrid/ordination-backend-go/internal/database"
	"github.com/ecogrid/ordination-backend-go/internal/export"
	"github.com/ecogrid/ordination-backend-go/internal/ingest"
	"github.com/ecogrid/ordination-backend-go/internal/matrix"
	"github.com/ecogrid/ordination-backend-go/internal/models"
	"github.com/ecogrid/ordination-backend-go/internal/repository"
)

// MatrixService builds sample-by-species matrices from the stored
// occurrence table and manages the resulting runs: their summaries,
// uploaded ordination scores, and delimited exports.
type MatrixService struct {
	db          *sql.DB
	occurrences *repository.OccurrenceRepository
	runs        *repository.RunRepository
}

// NewMatrixService creates a new matrix service
func NewMatrixService(db *sql.DB) *MatrixService {
	return &MatrixService{
		db:          db,
		occurrences: repository.NewOccurrenceRepository(db),
		runs:        repository.NewRunRepository(db),
	}
}

// ErrNoOccurrences is returned when a build is requested before any
// occurrence data has been imported.
var ErrNoOccurrences = fmt.Errorf("no occurrence records loaded")

// Build runs the normalization chain over all stored occurrences at
// the given rare-species threshold and records the run.
func (s *MatrixService) Build(minRelativeFrequency float64) (*models.MatrixRun, *matrix.Matrix, error) {
	if minRelativeFrequency < 0 || minRelativeFrequency >= 1 {
		return nil, nil, fmt.Errorf("min_relative_frequency must be in [0, 1), got %g", minRelativeFrequency)
	}

	records, err := s.loadRecords()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, ErrNoOccurrences
	}

	res, err := matrix.Normalize(records, minRelativeFrequency)
	if err != nil {
		return nil, nil, err
	}

	run := &models.MatrixRun{
		UUID:                 uuid.NewString(),
		MinRelativeFrequency: minRelativeFrequency,
		RowsIn:               res.RowsIn,
		RowsOut:              res.RowsOut,
		ColsIn:               res.ColsIn,
		ColsOut:              res.ColsOut,
		DroppedSpecies:       res.DroppedSpecies,
		DroppedSamples:       res.DroppedSamples,
	}
	if _, err := s.runs.Insert(run); err != nil {
		return nil, nil, err
	}
	return run, res.Matrix, nil
}

// GetRuns lists recorded matrix runs, newest first
func (s *MatrixService) GetRuns() ([]models.MatrixRun, error) {
	return s.runs.GetRuns()
}

// GetRun retrieves one matrix run, or nil when absent
func (s *MatrixService) GetRun(id int64) (*models.MatrixRun, error) {
	return s.runs.GetRunByID(id)
}

// Rebuild reproduces a run's final matrix from the stored occurrences
// and the run's recorded threshold. The chain is deterministic, so
// this yields the matrix the run originally produced as long as the
// occurrence table has not been re-imported since.
func (s *MatrixService) Rebuild(run *models.MatrixRun) (*matrix.Matrix, error) {
	records, err := s.loadRecords()
	if err != nil {
		return nil, err
	}
	res, err := matrix.Normalize(records, run.MinRelativeFrequency)
	if err != nil {
		return nil, err
	}
	return res.Matrix, nil
}

// UploadScores parses an axis-score file and attaches its scores to a
// run, replacing any previously uploaded set. Returns the axis names.
func (s *MatrixService) UploadScores(runID int64, r io.Reader, opts ingest.Options) ([]string, error) {
	scoreMap, axes, err := ingest.ReadAxisScores(r, opts)
	if err != nil {
		return nil, err
	}

	var scores []models.AxisScore
	for unit, perUnit := range scoreMap {
		for axis, v := range perUnit {
			scores = append(scores, models.AxisScore{
				RunID:        runID,
				SampleUnitID: unit,
				Axis:         axis,
				Score:        v,
			})
		}
	}

	err = database.TransactionOn(s.db, func(tx *sql.Tx) error {
		return s.runs.ReplaceScores(tx, runID, scores)
	})
	if err != nil {
		return nil, err
	}
	return axes, nil
}

// Export writes a run's final matrix as delimited text, joined with
// the run's axis scores and the sample-unit centroids.
func (s *MatrixService) Export(run *models.MatrixRun, w io.Writer, delimiter rune) error {
	m, err := s.Rebuild(run)
	if err != nil {
		return err
	}

	scores, axes, err := s.runs.GetScores(run.ID)
	if err != nil {
		return err
	}

	points, err := s.occurrences.GetSamplePoints()
	if err != nil {
		return err
	}
	coords := make(map[string][2]float64, len(points))
	for _, p := range points {
		coords[p.SampleUnitID] = [2]float64{p.Lat, p.Lon}
	}

	return export.Write(w, export.Table{
		Matrix:      m,
		Coordinates: coords,
		Axes:        axes,
		Scores:      scores,
		Delimiter:   delimiter,
	})
}

func (s *MatrixService) loadRecords() ([]matrix.Record, error) {
	occ, err := s.occurrences.GetAll()
	if err != nil {
		return nil, err
	}
	records := make([]matrix.Record, len(occ))
	for i, o := range occ {
		records[i] = matrix.Record{
			SampleUnitID: o.SampleUnitID,
			SpeciesCode:  o.SpeciesCode,
			Frequency:    o.Frequency,
		}
	}
	return records, nil
}
