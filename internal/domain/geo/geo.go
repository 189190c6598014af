// Package geo provides WGS84 coordinates and great-circle distance math
// for the proximity ranking of listings.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean radius of Earth used for Haversine distance.
const EarthRadiusMeters = 6_371_000.0

// Coordinate is a validated WGS84 point. The zero value is the null island
// origin; use New to construct a validated coordinate.
type Coordinate struct {
	lat float64
	lon float64
}

// New validates and creates a coordinate.
// Latitude must be in [-90, 90], longitude in [-180, 180].
func New(lat, lon float64) (Coordinate, error) {
	if lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("latitude must be between -90 and 90, got %v", lat)
	}
	if lon < -180 || lon > 180 {
		return Coordinate{}, fmt.Errorf("longitude must be between -180 and 180, got %v", lon)
	}
	return Coordinate{lat: lat, lon: lon}, nil
}

// Lat returns the latitude in degrees.
func (c Coordinate) Lat() float64 { return c.lat }

// Lon returns the longitude in degrees.
func (c Coordinate) Lon() float64 { return c.lon }

// Haversine returns the great-circle distance in meters between two points.
func Haversine(a, b Coordinate) float64 {
	lat1r := a.lat * math.Pi / 180
	lat2r := b.lat * math.Pi / 180
	dLat := (b.lat - a.lat) * math.Pi / 180
	dLon := (b.lon - a.lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// BoundingBox is a latitude/longitude window around a center point. It is a
// cheap pre-filter for distance ordering: points outside the box are farther
// than halfSide meters from the center. Final ordering always uses Haversine.
type BoundingBox struct {
	minLat, maxLat float64
	minLon, maxLon float64
}

// NewBoundingBox creates a box spanning halfSide meters in each cardinal
// direction from center. Near the poles the longitude window degenerates to
// the full circle.
func NewBoundingBox(center Coordinate, halfSide float64) BoundingBox {
	dLat := halfSide / EarthRadiusMeters * 180 / math.Pi

	cosLat := math.Cos(center.lat * math.Pi / 180)
	dLon := 180.0
	if cosLat > 1e-9 {
		dLon = halfSide / (EarthRadiusMeters * cosLat) * 180 / math.Pi
	}

	return BoundingBox{
		minLat: center.lat - dLat,
		maxLat: center.lat + dLat,
		minLon: center.lon - dLon,
		maxLon: center.lon + dLon,
	}
}

// Contains reports whether the point falls inside the box.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.lat >= b.minLat && c.lat <= b.maxLat &&
		c.lon >= b.minLon && c.lon <= b.maxLon
}
