package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	p := Point{Lat: 55.75, Lng: 37.61}
	assert.Equal(t, 0.0, DistanceKm(p, p))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	points := []Point{
		{0, 0},
		{55.7558, 37.6173},
		{-33.8688, 151.2093},
		{40.7128, -74.0060},
		{89.9, 179.9},
		{-89.9, -179.9},
	}
	for _, a := range points {
		for _, b := range points {
			ab := DistanceKm(a, b)
			ba := DistanceKm(b, a)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.InDelta(t, ab, ba, 1e-9)
		}
	}
}

func TestDistanceKm_KnownValues(t *testing.T) {
	// один градус по экватору
	assert.InDelta(t, KmPerDegree, DistanceKm(Point{0, 0}, Point{0, 1}), 1e-6)
	// Москва - Санкт-Петербург ~ 634 км
	assert.InDelta(t, 634, DistanceKm(Point{55.7558, 37.6173}, Point{59.9343, 30.3351}), 5)
	// антиподы
	assert.InDelta(t, EarthRadiusKm*3.141592653589793, DistanceKm(Point{0, 0}, Point{0, 180}), 1e-6)
}

func TestDegreesToKm(t *testing.T) {
	assert.InDelta(t, 0.1112, DegreesToKm(0.001), 1e-4)
}

func TestInBox(t *testing.T) {
	c := Point{10, 20}
	assert.True(t, InBox(c, Point{10.01, 19.99}, 0.01))
	assert.True(t, InBox(c, c, 0))
	assert.False(t, InBox(c, Point{10.02, 20}, 0.01))
	assert.False(t, InBox(c, Point{10, 20.011}, 0.01))
}
