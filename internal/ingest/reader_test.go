package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOccurrences(t *testing.T) {
	in := strings.NewReader(
		"sample_unit_id,species_code,frequency,lat,lon\n" +
			"H001,ACRU,12,44.95,-93.10\n" +
			"H001,QUAL,3,44.95,-93.10\n" +
			"H002,ACRU,0,44.96,-93.11\n")

	recs, err := ReadOccurrences(in, Options{SourceName: "plots.csv"})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "H001", recs[0].SampleUnitID)
	assert.Equal(t, "ACRU", recs[0].SpeciesCode)
	assert.Equal(t, 12, recs[0].Frequency)
	assert.Equal(t, 44.95, recs[0].CenterLat)
	assert.Equal(t, -93.10, recs[0].CenterLon)
	assert.Equal(t, "plots.csv", recs[0].SourceFile)
	assert.Equal(t, 2, recs[0].SourceLine)
	assert.Equal(t, 0, recs[2].Frequency, "zero counts are valid")
}

func TestReadOccurrencesTabDelimited(t *testing.T) {
	in := strings.NewReader("sample_unit_id\tspecies_code\tfrequency\nH001\tACRU\t5\n")
	recs, err := ReadOccurrences(in, Options{Delimiter: '\t', SourceName: "plots.tsv"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 5, recs[0].Frequency)
	assert.Equal(t, 0.0, recs[0].CenterLat, "no coordinate columns")
}

func TestReadOccurrencesValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing id", "sample_unit_id,species_code,frequency\n,ACRU,1\n", "missing sample unit id"},
		{"missing code", "sample_unit_id,species_code,frequency\nH001,,1\n", "missing species code"},
		{"negative frequency", "sample_unit_id,species_code,frequency\nH001,ACRU,-1\n", "negative frequency"},
		{"non-integer frequency", "sample_unit_id,species_code,frequency\nH001,ACRU,many\n", "not an integer"},
		{"missing column", "sample_unit_id,species_code\nH001,ACRU\n", `missing required column "frequency"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOccurrences(strings.NewReader(tt.body), Options{SourceName: "bad.csv"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "bad.csv")
		})
	}
}

func TestReadOccurrencesErrorNamesLine(t *testing.T) {
	in := strings.NewReader("sample_unit_id,species_code,frequency\nH001,ACRU,1\nH002,,2\n")
	_, err := ReadOccurrences(in, Options{SourceName: "plots.csv"})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 3, verr.Line)
}

func TestReadSpecies(t *testing.T) {
	in := strings.NewReader(
		"code,common_name,scientific_name\n" +
			"ACRU,red maple,Acer rubrum\n" +
			"QUAL,white oak,Quercus alba\n")

	sp, err := ReadSpecies(in, Options{SourceName: "species.csv"})
	require.NoError(t, err)
	require.Len(t, sp, 2)
	assert.Equal(t, "ACRU", sp[0].Code)
	assert.Equal(t, "red maple", sp[0].CommonName)
	assert.Equal(t, "Quercus alba", sp[1].ScientificName)
}

func TestReadAxisScores(t *testing.T) {
	in := strings.NewReader(
		"sample_unit_id,DCA1,DCA2\n" +
			"H001,1.25,-0.4\n" +
			"H002,0.75,0.1\n")

	scores, axes, err := ReadAxisScores(in, Options{SourceName: "scores.csv"})
	require.NoError(t, err)
	assert.Equal(t, []string{"DCA1", "DCA2"}, axes)
	require.Len(t, scores, 2)
	assert.Equal(t, 1.25, scores["H001"]["DCA1"])
	assert.Equal(t, 0.1, scores["H002"]["DCA2"])
}

func TestReadAxisScoresRejectsNonNumeric(t *testing.T) {
	in := strings.NewReader("sample_unit_id,DCA1\nH001,abc\n")
	_, _, err := ReadAxisScores(in, Options{SourceName: "scores.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not numeric")
}
