package service

import (
	"database/sql"
	"io"

	"github.com/ecogrid/ordination-backend-go/internal/database"
	"github.com/ecogrid/ordination-backend-go/internal/ingest"
	"github.com/ecogrid/ordination-backend-go/internal/models"
	"github.com/ecogrid/ordination-backend-go/internal/repository"
)

// SurveyService handles ingest and querying of the raw survey tables:
// occurrence records and the species lookup.
type SurveyService struct {
	db          *sql.DB
	occurrences *repository.OccurrenceRepository
	species     *repository.SpeciesRepository
}

// NewSurveyService creates a new survey service
func NewSurveyService(db *sql.DB) *SurveyService {
	return &SurveyService{
		db:          db,
		occurrences: repository.NewOccurrenceRepository(db),
		species:     repository.NewSpeciesRepository(db),
	}
}

// ImportOccurrences parses and stores an occurrence file. With replace
// set, existing occurrence records are cleared first; the whole import
// is transactional, so a malformed row leaves the stored table
// untouched. Returns the number of records imported.
func (s *SurveyService) ImportOccurrences(r io.Reader, opts ingest.Options, replace bool) (int, error) {
	records, err := ingest.ReadOccurrences(r, opts)
	if err != nil {
		return 0, err
	}

	err = database.TransactionOn(s.db, func(tx *sql.Tx) error {
		if replace {
			if err := s.occurrences.DeleteAll(tx); err != nil {
				return err
			}
		}
		return s.occurrences.InsertBatch(tx, records)
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// ImportSpecies parses and upserts a species lookup file. Returns the
// number of entries imported.
func (s *SurveyService) ImportSpecies(r io.Reader, opts ingest.Options) (int, error) {
	species, err := ingest.ReadSpecies(r, opts)
	if err != nil {
		return 0, err
	}

	err = database.TransactionOn(s.db, func(tx *sql.Tx) error {
		return s.species.Upsert(tx, species)
	})
	if err != nil {
		return 0, err
	}
	return len(species), nil
}

// GetOccurrences retrieves occurrence records with filtering
func (s *SurveyService) GetOccurrences(filter models.OccurrenceFilter) ([]models.Occurrence, error) {
	return s.occurrences.GetOccurrences(filter)
}

// GetSpecies retrieves the full species lookup
func (s *SurveyService) GetSpecies() ([]models.Species, error) {
	return s.species.GetAll()
}

// GetSpeciesByCode retrieves one species lookup entry, or nil
func (s *SurveyService) GetSpeciesByCode(code string) (*models.Species, error) {
	return s.species.GetByCode(code)
}
