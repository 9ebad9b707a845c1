package spatial

import (
	"math"

	"github.com/ecogrid/ordination-backend-go/internal/stats"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// RadiusOfGyration calculates the spatial dispersion of a set of
// points around their centroid, in meters
func RadiusOfGyration(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}

	center := Centroid(points)

	var sumSquaredDist float64
	for _, p := range points {
		dist := HaversineDistance(center.Lat, center.Lon, p.Lat, p.Lon)
		sumSquaredDist += dist * dist
	}

	return math.Sqrt(sumSquaredDist / float64(len(points)))
}

// NearestNeighborDistances returns, for each point, the distance in
// meters to its closest other point. Needs at least two points.
func NearestNeighborDistances(points []Point) []float64 {
	if len(points) < 2 {
		return nil
	}

	out := make([]float64, len(points))
	for i, p := range points {
		nearest := math.Inf(1)
		for j, q := range points {
			if i == j {
				continue
			}
			if d := HaversineDistance(p.Lat, p.Lon, q.Lat, q.Lon); d < nearest {
				nearest = d
			}
		}
		out[i] = nearest
	}
	return out
}

// SpacingSummary describes the spatial arrangement of sample-unit
// centers: where they sit, how dispersed they are, and how far apart
// neighbouring units are. The neighbour statistics give a starting
// point for the search-radius settings of downstream interpolation.
type SpacingSummary struct {
	Count            int     `json:"count"`
	Centroid         Point   `json:"centroid"`
	RadiusOfGyration float64 `json:"radius_of_gyration_m"`

	NearestNeighborMeanM   float64 `json:"nearest_neighbor_mean_m"`
	NearestNeighborMedianM float64 `json:"nearest_neighbor_median_m"`
	NearestNeighborMinM    float64 `json:"nearest_neighbor_min_m"`
	NearestNeighborMaxM    float64 `json:"nearest_neighbor_max_m"`
	NearestNeighborP95M    float64 `json:"nearest_neighbor_p95_m"`
}

// Summarize computes the spacing summary for a set of sample-unit
// centers.
func Summarize(points []Point) SpacingSummary {
	s := SpacingSummary{
		Count:            len(points),
		Centroid:         Centroid(points),
		RadiusOfGyration: RadiusOfGyration(points),
	}

	nn := NearestNeighborDistances(points)
	if len(nn) > 0 {
		s.NearestNeighborMeanM = stats.Mean(nn)
		s.NearestNeighborMedianM = stats.Median(nn)
		s.NearestNeighborMinM = stats.Min(nn)
		s.NearestNeighborMaxM = stats.Max(nn)
		s.NearestNeighborP95M = stats.Percentile(nn, 95)
	}

	return s
}
