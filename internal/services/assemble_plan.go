package services

import (
	"math"

	"fuelroute-service/internal/domain"
)

// assemblePlan converts a walked ordering into the externally consumed route
// summary: 1-based gapless stop order, per-stop leg metrics and fuel
// purchase estimates, plus aggregate totals.
func (p *planner) assemblePlan(res walkResult) *domain.RoutePlan {
	stops := make([]domain.RouteStop, 0, len(res.stops))
	for i, v := range res.stops {
		stops = append(stops, domain.RouteStop{
			StationID:            p.req.Stations[v.station].ID,
			StopOrder:            i + 1,
			DistanceFromPrevious: round2(v.miles),
			TravelTimeMinutes:    v.travelMin,
			ArriveAt:             v.arrive,
			FuelType:             v.fuelType,
			EstimatedFuelGallons: v.gallons,
			EstimatedFuelCost:    round2(v.dollars),
		})
	}

	return &domain.RoutePlan{
		Criterion:            p.req.Criterion,
		Start:                p.req.Start,
		End:                  p.req.End,
		DepartAt:             p.depart,
		Stops:                stops,
		TotalDistanceMiles:   res.miles,
		TotalDurationMinutes: res.minutes,
		EstimatedFuelCost:    round2(res.fuelCost),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
