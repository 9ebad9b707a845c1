package models

import "time"

// Occurrence represents one long-format survey record: the number of
// recorded observations of a species within a sample unit (a cell of
// the upstream tessellation).
type Occurrence struct {
	ID int64 `json:"id" db:"id"`

	SampleUnitID string `json:"sample_unit_id" db:"sample_unit_id"`
	SpeciesCode  string `json:"species_code" db:"species_code"`
	Frequency    int    `json:"frequency" db:"frequency"`

	// Centroid of the sample unit, carried through from the upstream
	// tessellation for export and spacing diagnostics. Zero when the
	// source file had no coordinate columns.
	CenterLat float64 `json:"center_lat,omitempty" db:"center_lat"`
	CenterLon float64 `json:"center_lon,omitempty" db:"center_lon"`

	// Provenance
	SourceFile string `json:"source_file,omitempty" db:"source_file"`
	SourceLine int    `json:"source_line,omitempty" db:"source_line"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SamplePoint is a distinct sample unit with its centroid, used by the
// spacing summary and the export.
type SamplePoint struct {
	SampleUnitID string  `json:"sample_unit_id" db:"sample_unit_id"`
	Lat          float64 `json:"lat" db:"lat"`
	Lon          float64 `json:"lon" db:"lon"`
}
