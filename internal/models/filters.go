package models

// OccurrenceFilter represents filter parameters for querying occurrences
type OccurrenceFilter struct {
	SampleUnit   string `form:"sampleUnit"`
	SpeciesCode  string `form:"species"`
	MinFrequency int    `form:"minFrequency"`
	Page         int    `form:"page"`
	PageSize     int    `form:"pageSize"`
}

// BuildRequest represents the body of a matrix build request
type BuildRequest struct {
	// Fraction of row count used as the rare-species cutoff, in [0, 1).
	MinRelativeFrequency float64 `json:"min_relative_frequency"`
}
