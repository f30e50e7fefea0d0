package domain

import "time"

// Congestion severity reported with a traffic condition.
type TrafficLevel string

const (
	TrafficLight    TrafficLevel = "light"
	TrafficModerate TrafficLevel = "moderate"
	TrafficHeavy    TrafficLevel = "heavy"
	TrafficSevere   TrafficLevel = "severe"
)

// A time-bounded congestion report for a road segment. TrafficFactor is a
// travel-time multiplier (1.0 = normal). Conditions are consumed as input by
// the optimizer; acquisition and refresh happen elsewhere.
type TrafficCondition struct {
	ID                       int
	Start                    Location
	End                      Location
	NormalTravelTimeMinutes  int
	CurrentTravelTimeMinutes int
	TrafficFactor            float64
	Level                    TrafficLevel
	Source                   string
	DataTimestamp            time.Time
	ExpiresAt                time.Time
}

// Expired reports whether the condition is stale at the given instant.
// A condition applies only while now < ExpiresAt.
func (c TrafficCondition) Expired(at time.Time) bool {
	return !at.Before(c.ExpiresAt)
}
