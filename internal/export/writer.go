// Package export writes the final normalized matrix as delimited text
// for re-import into GIS software, one row per sample unit, with the
// unit's centroid and any ordination axis scores alongside the species
// columns.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ecogrid/ordination-backend-go/internal/matrix"
)

// Table describes one export: the normalized matrix plus the optional
// per-unit centroids and axis scores to join onto it.
type Table struct {
	Matrix *matrix.Matrix

	// Coordinates maps sample unit id to (lat, lon). Units without an
	// entry get empty coordinate fields.
	Coordinates map[string][2]float64

	// Axes names the score columns in output order; Scores maps
	// sample unit id to axis name to score. Units missing a score get
	// an empty field.
	Axes   []string
	Scores map[string]map[string]float64

	// Delimiter is the output separator; 0 means comma.
	Delimiter rune
}

// Write emits the table. Header: sample_unit_id, lat, lon (when
// coordinates are present), axis columns, then one column per species
// in matrix order.
func Write(w io.Writer, t Table) error {
	if t.Matrix == nil {
		return fmt.Errorf("export: nil matrix")
	}

	cw := csv.NewWriter(w)
	if t.Delimiter != 0 {
		cw.Comma = t.Delimiter
	}

	withCoords := len(t.Coordinates) > 0

	header := []string{"sample_unit_id"}
	if withCoords {
		header = append(header, "lat", "lon")
	}
	header = append(header, t.Axes...)
	header = append(header, t.Matrix.Cols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for i, unit := range t.Matrix.RowIDs {
		row := []string{unit}
		if withCoords {
			if ll, ok := t.Coordinates[unit]; ok {
				row = append(row, formatFloat(ll[0]), formatFloat(ll[1]))
			} else {
				row = append(row, "", "")
			}
		}
		for _, axis := range t.Axes {
			if s, ok := t.Scores[unit][axis]; ok {
				row = append(row, formatFloat(s))
			} else {
				row = append(row, "")
			}
		}
		for _, v := range t.Matrix.Values[i] {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export: write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
