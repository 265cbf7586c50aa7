// Package geo measures great-circle distances and checks them against a geofence.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by HaversineKm.
const EarthRadiusKm = 6371.0

var ErrInvalidCoordinate = errors.New("invalid coordinate")

type Point struct {
	Lat float64
	Lng float64
}

func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinate, p.Lat)
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinate, p.Lng)
	}
	return nil
}

// HaversineKm returns the great-circle distance between a and b in kilometres.
func HaversineKm(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)

	// Rounding can push h marginally outside [0, 1] for antipodal points.
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// Result is the outcome of a geofence check. DistanceKm is reported even when the point is rejected.
type Result struct {
	Accepted   bool
	DistanceKm float64
}

// Validate accepts reported when its distance to reference does not exceed maxDistanceKm.
// The boundary itself is inside the fence.
func Validate(reported, reference Point, maxDistanceKm float64) (Result, error) {
	if err := reported.Validate(); err != nil {
		return Result{}, err
	}
	if err := reference.Validate(); err != nil {
		return Result{}, err
	}
	if math.IsNaN(maxDistanceKm) || maxDistanceKm < 0 {
		return Result{}, fmt.Errorf("%w: max distance %v must be non-negative", ErrInvalidCoordinate, maxDistanceKm)
	}

	d := HaversineKm(reported, reference)
	return Result{Accepted: d <= maxDistanceKm, DistanceKm: d}, nil
}
