package listings

import "math"

// BoundingBox is an axis-aligned latitude/longitude rectangle used as a
// coarse pre-filter for radius searches. Callers must accept false
// positives near the corners; it is not an exact circle.
type BoundingBox struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// Approximate miles per degree of latitude.
const milesPerDegree = 69.0

// BoundsFor converts a radius search into a rectangular coordinate range.
// Near the poles cos(latitude) approaches zero; the longitude delta is
// clamped to the whole-world span instead of dividing by zero.
func BoundsFor(geo GeoFilter) BoundingBox {
	latDelta := geo.Radius / milesPerDegree

	lonDelta := 180.0
	if cosLat := math.Cos(geo.Latitude * math.Pi / 180); math.Abs(cosLat) > 1e-9 {
		lonDelta = geo.Radius / (milesPerDegree * math.Abs(cosLat))
		if lonDelta > 180 {
			lonDelta = 180
		}
	}

	return BoundingBox{
		LatMin: clamp(geo.Latitude-latDelta, -90, 90),
		LatMax: clamp(geo.Latitude+latDelta, -90, 90),
		LonMin: clamp(geo.Longitude-lonDelta, -180, 180),
		LonMax: clamp(geo.Longitude+lonDelta, -180, 180),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
