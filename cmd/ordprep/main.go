// ordprep runs the full ordination-prep pipeline as a one-shot batch:
// read an occurrence file, build the normalized sample-by-species
// matrix, optionally join ordination axis scores, and write the
// delimited table for re-import into GIS software.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ecogrid/ordination-backend-go/internal/export"
	"github.com/ecogrid/ordination-backend-go/internal/ingest"
	"github.com/ecogrid/ordination-backend-go/internal/matrix"
)

type runFlags struct {
	occurrencesPath string
	speciesPath     string
	scoresPath      string
	outPath         string
	threshold       float64
	tab             bool
}

func main() {
	root := &cobra.Command{
		Use:   "ordprep",
		Short: "Prepare species occurrence tables for ordination",
	}
	root.AddCommand(runCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and export a normalized sample-by-species matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runPipeline(flags)
		},
	}

	cmd.Flags().StringVar(&flags.occurrencesPath, "occurrences", "", "Occurrence CSV (sample_unit_id, species_code, frequency[, lat, lon])")
	cmd.Flags().StringVar(&flags.speciesPath, "species", "", "Species lookup CSV (code, common_name, scientific_name)")
	cmd.Flags().StringVar(&flags.scoresPath, "scores", "", "Ordination axis score CSV to join onto the export")
	cmd.Flags().StringVar(&flags.outPath, "out", "", "Output path (default stdout)")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", 0.005, "Rare-species cutoff as a fraction of row count, in [0, 1)")
	cmd.Flags().BoolVar(&flags.tab, "tab", false, "Write tab-separated output")
	cmd.MarkFlagRequired("occurrences")

	return cmd
}

func runPipeline(flags *runFlags) error {
	if flags.threshold < 0 || flags.threshold >= 1 {
		return fmt.Errorf("threshold must be in [0, 1), got %g", flags.threshold)
	}

	records, coords, err := readOccurrenceFile(flags.occurrencesPath)
	if err != nil {
		return err
	}

	res, err := matrix.Normalize(records, flags.threshold)
	if err != nil {
		return err
	}

	log.Printf("pivot: %d sample units x %d species", res.RowsIn, res.ColsIn)
	log.Printf("filter (threshold %g): kept %d of %d species", flags.threshold, res.ColsOut, res.ColsIn)
	for _, code := range res.DroppedSpecies {
		log.Printf("  dropped rare species %s", code)
	}
	if len(res.DroppedSamples) > 0 {
		log.Printf("dropped %d sample unit(s) with zero total occurrence: %v",
			len(res.DroppedSamples), res.DroppedSamples)
	}

	if flags.speciesPath != "" {
		if err := logSpeciesNames(flags.speciesPath, res.Matrix.Cols); err != nil {
			return err
		}
	}

	table := export.Table{
		Matrix:      res.Matrix,
		Coordinates: coords,
	}
	if flags.tab {
		table.Delimiter = '\t'
	}

	if flags.scoresPath != "" {
		scores, axes, err := readScoresFile(flags.scoresPath)
		if err != nil {
			return err
		}
		table.Scores = scores
		table.Axes = axes
	}

	out := io.Writer(os.Stdout)
	if flags.outPath != "" {
		f, err := os.Create(flags.outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := export.Write(out, table); err != nil {
		return err
	}
	log.Printf("wrote %d rows x %d species columns", res.RowsOut, res.ColsOut)
	return nil
}

func readOccurrenceFile(path string) ([]matrix.Record, map[string][2]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open occurrence file: %w", err)
	}
	defer f.Close()

	occ, err := ingest.ReadOccurrences(f, fileOptions(path))
	if err != nil {
		return nil, nil, err
	}

	records := make([]matrix.Record, len(occ))
	coords := make(map[string][2]float64)
	for i, o := range occ {
		records[i] = matrix.Record{
			SampleUnitID: o.SampleUnitID,
			SpeciesCode:  o.SpeciesCode,
			Frequency:    o.Frequency,
		}
		if o.CenterLat != 0 || o.CenterLon != 0 {
			coords[o.SampleUnitID] = [2]float64{o.CenterLat, o.CenterLon}
		}
	}
	return records, coords, nil
}

func readScoresFile(path string) (map[string]map[string]float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open scores file: %w", err)
	}
	defer f.Close()
	return ingest.ReadAxisScores(f, fileOptions(path))
}

// logSpeciesNames reports the retained species with their lookup names
func logSpeciesNames(path string, codes []string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open species file: %w", err)
	}
	defer f.Close()

	species, err := ingest.ReadSpecies(f, fileOptions(path))
	if err != nil {
		return err
	}

	byCode := make(map[string]string, len(species))
	for _, sp := range species {
		byCode[sp.Code] = sp.CommonName
	}
	for _, code := range codes {
		if name, ok := byCode[code]; ok {
			log.Printf("  retained %s (%s)", code, name)
		} else {
			log.Printf("  retained %s", code)
		}
	}
	return nil
}

func fileOptions(path string) ingest.Options {
	opts := ingest.Options{SourceName: filepath.Base(path)}
	if filepath.Ext(path) == ".tsv" {
		opts.Delimiter = '\t'
	}
	return opts
}
