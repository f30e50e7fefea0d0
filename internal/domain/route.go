package domain

import (
	"fmt"
	"time"
)

// How a route should be optimized.
type OptimizationCriterion string

const (
	OptimizeDistance OptimizationCriterion = "distance"
	OptimizeTime     OptimizationCriterion = "time"
	OptimizePrice    OptimizationCriterion = "price"
)

// ParseCriterion converts the free-text criterion from the API into the
// closed enumeration. Unrecognized values are rejected, never defaulted.
func ParseCriterion(s string) (OptimizationCriterion, error) {
	switch OptimizationCriterion(s) {
	case OptimizeDistance, OptimizeTime, OptimizePrice:
		return OptimizationCriterion(s), nil
	}
	return "", fmt.Errorf("unrecognized optimization criterion %q: %w", s, ErrInvalidRouteRequest)
}

// A single planned visit within an optimized route. StopOrder is 1-based and
// gapless across a plan's stops.
type RouteStop struct {
	StationID            int
	StopOrder            int
	DistanceFromPrevious float64
	TravelTimeMinutes    float64
	ArriveAt             time.Time
	FuelType             FuelType
	EstimatedFuelGallons float64
	EstimatedFuelCost    float64
}

// The optimizer's output: an ordered stop sequence with aggregate metrics.
// A RoutePlan is immutable planning data; persisting it as a Route record is
// the storage layer's concern.
type RoutePlan struct {
	Criterion            OptimizationCriterion
	Start                Location
	End                  *Location
	DepartAt             time.Time
	Stops                []RouteStop
	TotalDistanceMiles   float64
	TotalDurationMinutes float64
	EstimatedFuelCost    float64
}

// A persisted route as stored by the routes repository.
type Route struct {
	ID                       int
	UserID                   int
	Name                     string
	Status                   RouteStatus
	OptimizationCriteria     OptimizationCriterion
	StartLocation            Location
	EndLocation              *Location
	TotalDistanceMiles       float64
	EstimatedDurationMinutes int
	EstimatedFuelCost        float64
	CreatedAt                time.Time
	CompletedAt              *time.Time
	Stops                    []RouteStop
}
