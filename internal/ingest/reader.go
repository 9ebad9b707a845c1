// Package ingest reads the delimited survey input files: the
// long-format occurrence table, the species lookup, and ordination
// axis-score tables produced by the external ordination run.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ecogrid/ordination-backend-go/internal/models"
)

// Options controls how input files are parsed
type Options struct {
	// Delimiter is the field separator; 0 means comma.
	Delimiter rune

	// SourceName labels validation errors and record provenance.
	SourceName string
}

func (o Options) delimiter() rune {
	if o.Delimiter == 0 {
		return ','
	}
	return o.Delimiter
}

// ValidationError reports a malformed input row. Parsing aborts at the
// first malformed row so a bad file never yields a partial table.
type ValidationError struct {
	Source string
	Line   int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: line %d: %s", e.Source, e.Line, e.Reason)
}

// Occurrence file columns. Header names are matched case-insensitively;
// lat/lon are optional.
const (
	colSampleUnit = "sample_unit_id"
	colSpecies    = "species_code"
	colFrequency  = "frequency"
	colLat        = "lat"
	colLon        = "lon"
)

// ReadOccurrences parses a long-format occurrence file. The first row
// must be a header containing sample_unit_id, species_code and
// frequency columns; lat/lon columns are picked up when present.
func ReadOccurrences(r io.Reader, opts Options) ([]models.Occurrence, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.delimiter()
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", opts.SourceName, err)
	}

	idx := headerIndex(header)
	for _, required := range []string{colSampleUnit, colSpecies, colFrequency} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", opts.SourceName, required)
		}
	}
	_, hasLat := idx[colLat]
	_, hasLon := idx[colLon]

	var out []models.Occurrence
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", opts.SourceName, line, err)
		}

		rec := models.Occurrence{
			SampleUnitID: strings.TrimSpace(row[idx[colSampleUnit]]),
			SpeciesCode:  strings.TrimSpace(row[idx[colSpecies]]),
			SourceFile:   opts.SourceName,
			SourceLine:   line,
		}
		if rec.SampleUnitID == "" {
			return nil, &ValidationError{opts.SourceName, line, "missing sample unit id"}
		}
		if rec.SpeciesCode == "" {
			return nil, &ValidationError{opts.SourceName, line, "missing species code"}
		}

		freq, err := strconv.Atoi(strings.TrimSpace(row[idx[colFrequency]]))
		if err != nil {
			return nil, &ValidationError{opts.SourceName, line,
				fmt.Sprintf("frequency %q is not an integer", row[idx[colFrequency]])}
		}
		if freq < 0 {
			return nil, &ValidationError{opts.SourceName, line,
				fmt.Sprintf("negative frequency %d", freq)}
		}
		rec.Frequency = freq

		if hasLat && hasLon {
			lat, latErr := strconv.ParseFloat(strings.TrimSpace(row[idx[colLat]]), 64)
			lon, lonErr := strconv.ParseFloat(strings.TrimSpace(row[idx[colLon]]), 64)
			if latErr != nil || lonErr != nil {
				return nil, &ValidationError{opts.SourceName, line, "invalid lat/lon"}
			}
			rec.CenterLat = lat
			rec.CenterLon = lon
		}

		out = append(out, rec)
	}

	return out, nil
}

// ReadSpecies parses the species lookup file with columns code,
// common_name, scientific_name.
func ReadSpecies(r io.Reader, opts Options) ([]models.Species, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.delimiter()
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", opts.SourceName, err)
	}
	idx := headerIndex(header)
	if _, ok := idx["code"]; !ok {
		return nil, fmt.Errorf("%s: missing required column %q", opts.SourceName, "code")
	}

	var out []models.Species
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", opts.SourceName, line, err)
		}

		sp := models.Species{Code: strings.TrimSpace(row[idx["code"]])}
		if sp.Code == "" {
			return nil, &ValidationError{opts.SourceName, line, "missing species code"}
		}
		if j, ok := idx["common_name"]; ok && j < len(row) {
			sp.CommonName = strings.TrimSpace(row[j])
		}
		if j, ok := idx["scientific_name"]; ok && j < len(row) {
			sp.ScientificName = strings.TrimSpace(row[j])
		}
		out = append(out, sp)
	}

	return out, nil
}

// ReadAxisScores parses an ordination score table: a sample_unit_id
// column followed by one numeric column per axis (e.g. DCA1..DCA4).
// Returns scores keyed by sample unit, plus the axis names in file
// order.
func ReadAxisScores(r io.Reader, opts Options) (map[string]map[string]float64, []string, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.delimiter()
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to read header: %w", opts.SourceName, err)
	}
	idx := headerIndex(header)
	unitCol, ok := idx[colSampleUnit]
	if !ok {
		return nil, nil, fmt.Errorf("%s: missing required column %q", opts.SourceName, colSampleUnit)
	}

	var axes []string
	axisCols := make(map[string]int)
	for j, name := range header {
		if j == unitCol {
			continue
		}
		name = strings.TrimSpace(name)
		axes = append(axes, name)
		axisCols[name] = j
	}
	if len(axes) == 0 {
		return nil, nil, fmt.Errorf("%s: no axis columns found", opts.SourceName)
	}

	scores := make(map[string]map[string]float64)
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("%s: line %d: %w", opts.SourceName, line, err)
		}

		unit := strings.TrimSpace(row[unitCol])
		if unit == "" {
			return nil, nil, &ValidationError{opts.SourceName, line, "missing sample unit id"}
		}
		perUnit := make(map[string]float64, len(axes))
		for name, j := range axisCols {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
			if err != nil {
				return nil, nil, &ValidationError{opts.SourceName, line,
					fmt.Sprintf("axis %s: %q is not numeric", name, row[j])}
			}
			perUnit[name] = v
		}
		scores[unit] = perUnit
	}

	return scores, axes, nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for j, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = j
	}
	return idx
}
