// Package matrix builds sample-by-species occurrence matrices from
// long-format survey records and prepares them for ordination:
// pivot, rare-species filtering, row-percentage normalization, and
// removal of degenerate (all-zero) samples.
package matrix

import (
	"fmt"
	"math"
)

// Record is a single long-format occurrence observation: one species
// counted within one sample unit.
type Record struct {
	SampleUnitID string
	SpeciesCode  string
	Frequency    int
}

// Matrix is a dense sample-by-species table. Rows are sample units in
// first-appearance order, columns are species codes in first-appearance
// order. Cells absent from the input are zero.
type Matrix struct {
	RowIDs []string
	Cols   []string
	Values [][]float64

	rowIdx map[string]int
	colIdx map[string]int
}

func newMatrix() *Matrix {
	return &Matrix{
		rowIdx: make(map[string]int),
		colIdx: make(map[string]int),
	}
}

// NumRows returns the number of sample-unit rows.
func (m *Matrix) NumRows() int { return len(m.RowIDs) }

// NumCols returns the number of species columns.
func (m *Matrix) NumCols() int { return len(m.Cols) }

// At returns the cell value for a sample unit and species code.
// Unknown row or column identifiers return 0.
func (m *Matrix) At(sampleUnitID, speciesCode string) float64 {
	i, ok := m.rowIdx[sampleUnitID]
	if !ok {
		return 0
	}
	j, ok := m.colIdx[speciesCode]
	if !ok {
		return 0
	}
	return m.Values[i][j]
}

// Row returns the values of one row in column order, or nil for an
// unknown sample unit.
func (m *Matrix) Row(sampleUnitID string) []float64 {
	i, ok := m.rowIdx[sampleUnitID]
	if !ok {
		return nil
	}
	return m.Values[i]
}

// RowTotal returns the sum of one row across all columns.
func (m *Matrix) RowTotal(i int) float64 {
	var sum float64
	for _, v := range m.Values[i] {
		sum += v
	}
	return sum
}

// ColumnTotal returns the sum of one column across all rows.
func (m *Matrix) ColumnTotal(j int) float64 {
	var sum float64
	for i := range m.Values {
		sum += m.Values[i][j]
	}
	return sum
}

func (m *Matrix) addRow(id string) int {
	if i, ok := m.rowIdx[id]; ok {
		return i
	}
	i := len(m.RowIDs)
	m.rowIdx[id] = i
	m.RowIDs = append(m.RowIDs, id)
	m.Values = append(m.Values, make([]float64, len(m.Cols)))
	return i
}

func (m *Matrix) addCol(code string) int {
	if j, ok := m.colIdx[code]; ok {
		return j
	}
	j := len(m.Cols)
	m.colIdx[code] = j
	m.Cols = append(m.Cols, code)
	for i := range m.Values {
		m.Values[i] = append(m.Values[i], 0)
	}
	return j
}

// Pivot converts long-format occurrence records into a dense
// sample-by-species count matrix. Duplicate (sample unit, species)
// pairs are summed. Records with an empty sample unit id, an empty
// species code, or a negative frequency abort the pivot with an error
// identifying the offending record.
func Pivot(records []Record) (*Matrix, error) {
	m := newMatrix()
	for n, rec := range records {
		if rec.SampleUnitID == "" {
			return nil, fmt.Errorf("record %d: missing sample unit id (species %q)", n+1, rec.SpeciesCode)
		}
		if rec.SpeciesCode == "" {
			return nil, fmt.Errorf("record %d: missing species code (sample unit %q)", n+1, rec.SampleUnitID)
		}
		if rec.Frequency < 0 {
			return nil, fmt.Errorf("record %d: negative frequency %d (sample unit %q, species %q)",
				n+1, rec.Frequency, rec.SampleUnitID, rec.SpeciesCode)
		}
		i := m.addRow(rec.SampleUnitID)
		j := m.addCol(rec.SpeciesCode)
		m.Values[i][j] += float64(rec.Frequency)
	}
	return m, nil
}

// FilterRareColumns drops species columns whose occurrence total falls
// below minRelativeFrequency * number of rows. The cutoff is an
// absolute count scaled by row count, compared with strict less-than,
// so a cutoff of 0 drops nothing. Rows are unchanged.
func (m *Matrix) FilterRareColumns(minRelativeFrequency float64) *Matrix {
	cutoff := minRelativeFrequency * float64(m.NumRows())

	keep := make([]int, 0, m.NumCols())
	for j := range m.Cols {
		if m.ColumnTotal(j) >= cutoff {
			keep = append(keep, j)
		}
	}

	out := newMatrix()
	out.Cols = make([]string, len(keep))
	for k, j := range keep {
		out.Cols[k] = m.Cols[j]
		out.colIdx[m.Cols[j]] = k
	}
	out.RowIDs = make([]string, len(m.RowIDs))
	copy(out.RowIDs, m.RowIDs)
	out.Values = make([][]float64, len(m.RowIDs))
	for i, id := range m.RowIDs {
		out.rowIdx[id] = i
		row := make([]float64, len(keep))
		for k, j := range keep {
			row[k] = m.Values[i][j]
		}
		out.Values[i] = row
	}
	return out
}

// RowPercentages divides every cell by its row total so each row sums
// to 1. Rows with a zero total become NaN across the row; callers are
// expected to remove them with DropUndefinedRows before use.
func (m *Matrix) RowPercentages() *Matrix {
	out := m.clone()
	for i := range out.Values {
		total := out.RowTotal(i)
		for j := range out.Values[i] {
			if total == 0 {
				out.Values[i][j] = math.NaN()
			} else {
				out.Values[i][j] /= total
			}
		}
	}
	return out
}

// DropUndefinedRows removes every row containing a NaN entry. These
// are the samples left with zero total occurrence after rare-species
// filtering, which carry no compositional information.
func (m *Matrix) DropUndefinedRows() *Matrix {
	out := newMatrix()
	out.Cols = make([]string, len(m.Cols))
	copy(out.Cols, m.Cols)
	for j, c := range out.Cols {
		out.colIdx[c] = j
	}
	for i, id := range m.RowIDs {
		defined := true
		for _, v := range m.Values[i] {
			if math.IsNaN(v) {
				defined = false
				break
			}
		}
		if !defined {
			continue
		}
		row := make([]float64, len(m.Values[i]))
		copy(row, m.Values[i])
		out.rowIdx[id] = len(out.RowIDs)
		out.RowIDs = append(out.RowIDs, id)
		out.Values = append(out.Values, row)
	}
	return out
}

func (m *Matrix) clone() *Matrix {
	out := newMatrix()
	out.RowIDs = make([]string, len(m.RowIDs))
	copy(out.RowIDs, m.RowIDs)
	out.Cols = make([]string, len(m.Cols))
	copy(out.Cols, m.Cols)
	for i, id := range out.RowIDs {
		out.rowIdx[id] = i
	}
	for j, c := range out.Cols {
		out.colIdx[c] = j
	}
	out.Values = make([][]float64, len(m.Values))
	for i := range m.Values {
		row := make([]float64, len(m.Values[i]))
		copy(row, m.Values[i])
		out.Values[i] = row
	}
	return out
}
