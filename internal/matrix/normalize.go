package matrix

// Result is the outcome of the full normalization chain, with the
// bookkeeping needed to report what the filtering removed.
type Result struct {
	Matrix *Matrix

	RowsIn  int
	RowsOut int
	ColsIn  int
	ColsOut int

	// Species columns removed by rare-species filtering, in the
	// pivoted matrix's column order.
	DroppedSpecies []string

	// Sample units removed because their total occurrence fell to
	// zero after filtering, in row order.
	DroppedSamples []string
}

// Normalize runs the full chain on long-format records:
// pivot, rare-column filtering at minRelativeFrequency, row-percentage
// normalization, and removal of zero-total rows.
func Normalize(records []Record, minRelativeFrequency float64) (*Result, error) {
	pivoted, err := Pivot(records)
	if err != nil {
		return nil, err
	}

	filtered := pivoted.FilterRareColumns(minRelativeFrequency)
	final := filtered.RowPercentages().DropUndefinedRows()

	res := &Result{
		Matrix:  final,
		RowsIn:  pivoted.NumRows(),
		RowsOut: final.NumRows(),
		ColsIn:  pivoted.NumCols(),
		ColsOut: final.NumCols(),
	}

	kept := make(map[string]bool, len(filtered.Cols))
	for _, c := range filtered.Cols {
		kept[c] = true
	}
	for _, c := range pivoted.Cols {
		if !kept[c] {
			res.DroppedSpecies = append(res.DroppedSpecies, c)
		}
	}

	retained := make(map[string]bool, len(final.RowIDs))
	for _, id := range final.RowIDs {
		retained[id] = true
	}
	for _, id := range pivoted.RowIDs {
		if !retained[id] {
			res.DroppedSamples = append(res.DroppedSamples, id)
		}
	}

	return res, nil
}
