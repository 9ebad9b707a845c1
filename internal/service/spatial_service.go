package service

import (
	"database/sql"

	"github.com/ecogrid/ordination-backend-go/internal/repository"
	"github.com/ecogrid/ordination-backend-go/internal/spatial"
)

// SpatialService summarizes the spatial arrangement of sample units.
type SpatialService struct {
	occurrences *repository.OccurrenceRepository
}

// NewSpatialService creates a new spatial service
func NewSpatialService(db *sql.DB) *SpatialService {
	return &SpatialService{occurrences: repository.NewOccurrenceRepository(db)}
}

// Summary computes the spacing summary over all sample units that
// carry centroid coordinates.
func (s *SpatialService) Summary() (spatial.SpacingSummary, error) {
	points, err := s.occurrences.GetSamplePoints()
	if err != nil {
		return spatial.SpacingSummary{}, err
	}

	pts := make([]spatial.Point, len(points))
	for i, p := range points {
		pts[i] = spatial.Point{Lat: p.Lat, Lon: p.Lon}
	}
	return spatial.Summarize(pts), nil
}
