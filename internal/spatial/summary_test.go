package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude is roughly 111 km
	d := HaversineDistance(44.0, -93.0, 45.0, -93.0)
	assert.InDelta(t, 111195, d, 500)

	assert.InDelta(t, 0, HaversineDistance(44.5, -93.0, 44.5, -93.0), 1e-6)
}

func TestCentroid(t *testing.T) {
	c := Centroid([]Point{{44, -93}, {46, -95}})
	assert.InDelta(t, 45.0, c.Lat, 1e-9)
	assert.InDelta(t, -94.0, c.Lon, 1e-9)

	assert.Equal(t, Point{}, Centroid(nil))
}

func TestNearestNeighborDistances(t *testing.T) {
	// Three points on a meridian: 0.01 degrees apart, then a gap
	points := []Point{
		{44.00, -93.0},
		{44.01, -93.0},
		{44.10, -93.0},
	}
	nn := NearestNeighborDistances(points)
	assert.Len(t, nn, 3)

	step := HaversineDistance(44.00, -93.0, 44.01, -93.0)
	assert.InDelta(t, step, nn[0], 1.0)
	assert.InDelta(t, step, nn[1], 1.0)
	assert.Greater(t, nn[2], step*5)

	assert.Nil(t, NearestNeighborDistances(points[:1]))
}

func TestSummarize(t *testing.T) {
	points := []Point{
		{44.00, -93.00},
		{44.01, -93.00},
		{44.00, -93.01},
		{44.01, -93.01},
	}
	s := Summarize(points)

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 44.005, s.Centroid.Lat, 1e-9)
	assert.Greater(t, s.RadiusOfGyration, 0.0)
	assert.Greater(t, s.NearestNeighborMeanM, 0.0)
	assert.LessOrEqual(t, s.NearestNeighborMinM, s.NearestNeighborMedianM)
	assert.LessOrEqual(t, s.NearestNeighborMedianM, s.NearestNeighborMaxM)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Equal(t, 0.0, s.NearestNeighborMeanM)
}
