// Package geo holds the coordinate validation and great-circle math used by
// listing discovery.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"rebook/internal/apperrors"
)

// EarthRadiusMeters matches the radius MongoDB uses for spherical $geoNear queries.
const EarthRadiusMeters = 6378100.0

// MaxDiscoveryRadiusMeters bounds distance-ranked discovery.
const MaxDiscoveryRadiusMeters = 500000.0

// Point is a longitude/latitude pair in degrees.
type Point struct {
	Lng float64
	Lat float64
}

// Validate reports ErrInvalidQuery for coordinates outside [-180,180]x[-90,90].
func (p Point) Validate() error {
	if math.IsNaN(p.Lng) || math.IsNaN(p.Lat) || math.IsInf(p.Lng, 0) || math.IsInf(p.Lat, 0) {
		return fmt.Errorf("geo: non-finite coordinates: %w", apperrors.ErrInvalidQuery)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("geo: longitude %v out of range: %w", p.Lng, apperrors.ErrInvalidQuery)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("geo: latitude %v out of range: %w", p.Lat, apperrors.ErrInvalidQuery)
	}
	return nil
}

// ParsePoint parses raw lat/lng strings. Both empty means no point (nil, nil);
// exactly one empty, a non-numeric value or an out-of-range value is ErrInvalidQuery.
func ParsePoint(latStr, lngStr string) (*Point, error) {
	latStr = strings.TrimSpace(latStr)
	lngStr = strings.TrimSpace(lngStr)

	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, fmt.Errorf("geo: both lat and lng are required: %w", apperrors.ErrInvalidQuery)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("geo: lat %q is not a number: %w", latStr, apperrors.ErrInvalidQuery)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, fmt.Errorf("geo: lng %q is not a number: %w", lngStr, apperrors.ErrInvalidQuery)
	}

	p := Point{Lng: lng, Lat: lat}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Distance returns the haversine great-circle distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// clamp rounding error so Asin never sees h slightly above 1 for antipodal points
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
