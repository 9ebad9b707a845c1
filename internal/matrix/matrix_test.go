package matrix

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivotDimensions(t *testing.T) {
	records := []Record{
		{"H001", "ACRU", 3},
		{"H001", "QUAL", 1},
		{"H002", "ACRU", 7},
		{"H003", "PIST", 2},
	}

	m, err := Pivot(records)
	require.NoError(t, err)

	assert.Equal(t, 3, m.NumRows(), "rows = distinct sample units")
	assert.Equal(t, 3, m.NumCols(), "cols = distinct species codes")
	assert.Equal(t, []string{"H001", "H002", "H003"}, m.RowIDs)
	assert.Equal(t, []string{"ACRU", "QUAL", "PIST"}, m.Cols)

	// Absent pairs are dense zeros
	assert.Equal(t, 0.0, m.At("H002", "QUAL"))
	assert.Equal(t, 0.0, m.At("H003", "ACRU"))
	assert.Equal(t, 7.0, m.At("H002", "ACRU"))
}

func TestPivotSumsDuplicatePairs(t *testing.T) {
	m, err := Pivot([]Record{
		{"H001", "ACRU", 3},
		{"H001", "ACRU", 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, m.At("H001", "ACRU"))
}

func TestPivotValidation(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		wantErr string
	}{
		{"missing sample unit", []Record{{"", "ACRU", 1}}, "missing sample unit id"},
		{"missing species code", []Record{{"H001", "", 1}}, "missing species code"},
		{"negative frequency", []Record{{"H001", "ACRU", -2}}, "negative frequency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Pivot(tt.records)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "record 1", "error should identify the offending record")
		})
	}
}

func TestPivotSpecExample(t *testing.T) {
	// records = [(A,SU,10), (A,JP,0), (B,SU,0), (B,JP,5)]
	m, err := Pivot([]Record{
		{"A", "SU", 10},
		{"A", "JP", 0},
		{"B", "SU", 0},
		{"B", "JP", 5},
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, m.At("A", "SU"))
	assert.Equal(t, 0.0, m.At("A", "JP"))
	assert.Equal(t, 0.0, m.At("B", "SU"))
	assert.Equal(t, 5.0, m.At("B", "JP"))

	p := m.RowPercentages().DropUndefinedRows()
	assert.Equal(t, 2, p.NumRows(), "no rows dropped")
	assert.Equal(t, 1.0, p.At("A", "SU"))
	assert.Equal(t, 0.0, p.At("A", "JP"))
	assert.Equal(t, 0.0, p.At("B", "SU"))
	assert.Equal(t, 1.0, p.At("B", "JP"))
}

func TestFilterRareColumnsCutoff(t *testing.T) {
	// 1000 rows at threshold 0.005: cutoff 5. A column totaling 4 is
	// dropped, a column totaling 5 is retained.
	var records []Record
	for i := 0; i < 1000; i++ {
		records = append(records, Record{fmt.Sprintf("H%04d", i), "COMMON", 1})
	}
	for i := 0; i < 4; i++ {
		records = append(records, Record{fmt.Sprintf("H%04d", i), "RARE4", 1})
	}
	for i := 0; i < 5; i++ {
		records = append(records, Record{fmt.Sprintf("H%04d", i), "KEPT5", 1})
	}

	m, err := Pivot(records)
	require.NoError(t, err)
	require.Equal(t, 1000, m.NumRows())

	f := m.FilterRareColumns(0.005)
	assert.Equal(t, []string{"COMMON", "KEPT5"}, f.Cols)
	assert.Equal(t, 1000, f.NumRows(), "row set unchanged")
}

func TestFilterRareColumnsZeroCutoffDropsNothing(t *testing.T) {
	m, err := Pivot([]Record{
		{"A", "X", 0},
		{"A", "Y", 1},
	})
	require.NoError(t, err)

	f := m.FilterRareColumns(0)
	assert.Equal(t, []string{"X", "Y"}, f.Cols, "cutoff 0 keeps even all-zero columns")
}

func TestFilterRareColumnsMonotonic(t *testing.T) {
	var records []Record
	for i := 0; i < 50; i++ {
		records = append(records, Record{fmt.Sprintf("H%02d", i), "A", 2})
	}
	for i := 0; i < 10; i++ {
		records = append(records, Record{fmt.Sprintf("H%02d", i), "B", 1})
	}
	records = append(records, Record{"H00", "C", 1})

	m, err := Pivot(records)
	require.NoError(t, err)

	prev := m.FilterRareColumns(0).NumCols()
	for _, thr := range []float64{0.01, 0.05, 0.1, 0.5, 0.9} {
		n := m.FilterRareColumns(thr).NumCols()
		assert.LessOrEqual(t, n, prev, "raising the threshold must never retain more columns")
		prev = n
	}
}

func TestRowPercentagesSumToOne(t *testing.T) {
	m, err := Pivot([]Record{
		{"H001", "ACRU", 3},
		{"H001", "QUAL", 1},
		{"H002", "ACRU", 7},
		{"H002", "PIST", 14},
	})
	require.NoError(t, err)

	p := m.RowPercentages().DropUndefinedRows()
	for i := range p.RowIDs {
		assert.InDelta(t, 1.0, p.RowTotal(i), 1e-9)
	}
	assert.InDelta(t, 0.75, p.At("H001", "ACRU"), 1e-9)
	assert.InDelta(t, 1.0/3.0, p.At("H002", "ACRU"), 1e-9)
}

func TestRowPercentagesIdempotent(t *testing.T) {
	m, err := Pivot([]Record{
		{"H001", "ACRU", 3},
		{"H001", "QUAL", 1},
		{"H002", "PIST", 5},
	})
	require.NoError(t, err)

	once := m.RowPercentages()
	twice := once.RowPercentages()
	for i := range once.RowIDs {
		for j := range once.Cols {
			assert.InDelta(t, once.Values[i][j], twice.Values[i][j], 1e-12)
		}
	}
}

func TestDropUndefinedRowsRemovesZeroTotalSamples(t *testing.T) {
	m, err := Pivot([]Record{
		{"A", "SU", 10},
		{"B", "JP", 5},
		{"C", "SU", 0},
		{"C", "JP", 0},
	})
	require.NoError(t, err)

	p := m.RowPercentages().DropUndefinedRows()
	assert.Equal(t, []string{"A", "B"}, p.RowIDs)
	assert.Nil(t, p.Row("C"), "all-zero sample must not survive normalization")
}

func TestNormalizeBookkeeping(t *testing.T) {
	// 10 rows; threshold 0.35 gives cutoff 3.5. RARE totals 1 and is
	// dropped; H09 only held RARE and ends up with a zero row.
	var records []Record
	for i := 0; i < 9; i++ {
		records = append(records, Record{fmt.Sprintf("H%02d", i), "ACRU", 2})
	}
	records = append(records, Record{"H09", "RARE", 1})

	res, err := Normalize(records, 0.35)
	require.NoError(t, err)

	assert.Equal(t, 10, res.RowsIn)
	assert.Equal(t, 9, res.RowsOut)
	assert.Equal(t, 2, res.ColsIn)
	assert.Equal(t, 1, res.ColsOut)
	assert.Equal(t, []string{"RARE"}, res.DroppedSpecies)
	assert.Equal(t, []string{"H09"}, res.DroppedSamples)

	for i := range res.Matrix.RowIDs {
		assert.InDelta(t, 1.0, res.Matrix.RowTotal(i), 1e-9)
	}
}

func TestNormalizePropagatesValidationError(t *testing.T) {
	_, err := Normalize([]Record{{"H001", "", 1}}, 0.005)
	require.Error(t, err)
}
