package spatial

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371008.8

// HaversineDistance calculates the great-circle distance between two points
// in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// LineStringLength sums the great-circle distances along a GeoJSON
// LineString coordinate list ([lon, lat] pairs). Malformed pairs are
// skipped; fewer than two valid points yields zero.
func LineStringLength(coords [][]float64) float64 {
	var total float64
	var prev []float64
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		if prev != nil {
			total += HaversineDistance(prev[1], prev[0], c[1], c[0])
		}
		prev = c
	}
	return total
}
