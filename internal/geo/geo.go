package geo

import (
	"math"

	"fuelroute-service/internal/domain"
)

const earthRadiusMiles = 3958.8

// Default cruising speed assumed when estimating travel time from distance.
const DefaultSpeedMph = 45.0

// Miles returns the great-circle (haversine) distance in miles between two
// points. Pure and symmetric; Miles(a, a) == 0.
func Miles(a, b domain.Location) float64 {
	lat1r := a.Lat * math.Pi / 180
	lat2r := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

// BaseTravelMinutes estimates uncongested travel time in fractional minutes
// for a distance at the given speed. Non-positive speeds fall back to
// DefaultSpeedMph.
func BaseTravelMinutes(miles, speedMph float64) float64 {
	if speedMph <= 0 {
		speedMph = DefaultSpeedMph
	}
	return miles / speedMph * 60
}
