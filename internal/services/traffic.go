package services

import (
	"math"
	"time"

	"fuelroute-service/internal/domain"
)

// A condition applies to a leg when either leg endpoint falls within this
// distance of the condition segment's bounding box.
const trafficToleranceMiles = 1.0

const milesPerDegreeLat = 69.09

// EffectiveMultiplier resolves the travel-time multiplier for a leg departing
// at the given instant. Expired and non-overlapping conditions are ignored;
// among the matches the maximum factor wins (conservative ETA estimation,
// never an average). With no match the multiplier is 1.0.
func EffectiveMultiplier(leg domain.Leg, at time.Time, conditions []domain.TrafficCondition) float64 {
	multiplier := 1.0
	for _, c := range conditions {
		if c.Expired(at) || c.TrafficFactor <= 0 {
			continue
		}
		if !conditionOverlapsLeg(c, leg) {
			continue
		}
		if c.TrafficFactor > multiplier {
			multiplier = c.TrafficFactor
		}
	}
	return multiplier
}

// conditionOverlapsLeg checks whether either endpoint of the leg lies within
// the condition segment's bounding box expanded by the tolerance radius.
func conditionOverlapsLeg(c domain.TrafficCondition, leg domain.Leg) bool {
	minLat := math.Min(c.Start.Lat, c.End.Lat)
	maxLat := math.Max(c.Start.Lat, c.End.Lat)
	minLon := math.Min(c.Start.Lon, c.End.Lon)
	maxLon := math.Max(c.Start.Lon, c.End.Lon)

	latPad := trafficToleranceMiles / milesPerDegreeLat

	// Longitude degrees shrink with latitude; pad relative to the segment's
	// mid-latitude, guarding against the poles.
	cosLat := math.Cos((minLat + maxLat) / 2 * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonPad := trafficToleranceMiles / (milesPerDegreeLat * cosLat)

	inside := func(p domain.Location) bool {
		return p.Lat >= minLat-latPad && p.Lat <= maxLat+latPad &&
			p.Lon >= minLon-lonPad && p.Lon <= maxLon+lonPad
	}

	return inside(leg.From) || inside(leg.To)
}
