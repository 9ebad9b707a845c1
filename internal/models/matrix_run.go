package models

import "time"

// MatrixRun records one execution of the normalization chain over the
// stored occurrence table: the rare-species threshold used and what
// the filtering removed. The matrix itself is not stored; it is
// rebuilt deterministically from the occurrences and the threshold.
type MatrixRun struct {
	ID   int64  `json:"id" db:"id"`
	UUID string `json:"uuid" db:"uuid"`

	// Rare-species cutoff as a fraction of row count (e.g. 0.005).
	MinRelativeFrequency float64 `json:"min_relative_frequency" db:"min_relative_frequency"`

	RowsIn  int `json:"rows_in" db:"rows_in"`
	RowsOut int `json:"rows_out" db:"rows_out"`
	ColsIn  int `json:"cols_in" db:"cols_in"`
	ColsOut int `json:"cols_out" db:"cols_out"`

	// Species dropped by rare filtering and samples dropped for zero
	// total occurrence, stored as JSON arrays.
	DroppedSpecies []string `json:"dropped_species"`
	DroppedSamples []string `json:"dropped_samples"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AxisScore is one ordination axis score for a sample unit, uploaded
// after the external ordination has been run on a matrix export.
type AxisScore struct {
	ID           int64   `json:"id" db:"id"`
	RunID        int64   `json:"run_id" db:"run_id"`
	SampleUnitID string  `json:"sample_unit_id" db:"sample_unit_id"`
	Axis         string  `json:"axis" db:"axis"` // e.g. DCA1..DCA4
	Score        float64 `json:"score" db:"score"`
}
