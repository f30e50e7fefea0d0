package services

import (
	"context"
	"fmt"
	"slices"

	"fuelroute-service/internal/domain"
	"fuelroute-service/internal/geo"
	"fuelroute-service/internal/ports"
)

// Nearby-station lookup parameters. Optional filters are nil when unused.
type NearbySearchRequest struct {
	Center      domain.Location
	RadiusMiles float64
	FuelType    *domain.FuelType
	MaxPrice    *float64
	MinRating   *float64
}

// A station together with its straight-line distance from the search center.
type StationMatch struct {
	Station       *domain.Station
	DistanceMiles float64
}

// SearchNearbyStations returns active stations within the radius, filtered by
// fuel availability, price cap, and minimum rating, ordered nearest first.
func SearchNearbyStations(
	ctx context.Context,
	req NearbySearchRequest,
	repo ports.StationRepository,
) ([]StationMatch, error) {
	if err := req.Center.Validate(); err != nil {
		return nil, fmt.Errorf("search stations: center: %w", err)
	}
	if req.RadiusMiles < 0.1 || req.RadiusMiles > 50 {
		return nil, fmt.Errorf("search stations: radius %v outside [0.1, 50]: %w",
			req.RadiusMiles, domain.ErrInvalidRouteRequest)
	}
	if req.FuelType != nil && !req.FuelType.Valid() {
		return nil, fmt.Errorf("search stations: unknown fuel type %q: %w",
			*req.FuelType, domain.ErrInvalidRouteRequest)
	}

	stations, err := repo.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("search stations: list stations: %w", err)
	}

	matches := make([]StationMatch, 0, len(stations))
	for _, s := range stations {
		d := geo.Miles(req.Center, s.Location)
		if d > req.RadiusMiles {
			continue
		}
		if req.FuelType != nil {
			price, sells := s.Prices[*req.FuelType]
			if !sells {
				continue
			}
			if req.MaxPrice != nil && price.PricePerGallon > *req.MaxPrice {
				continue
			}
		}
		if req.MinRating != nil {
			if s.AverageRating == nil || *s.AverageRating < *req.MinRating {
				continue
			}
		}
		matches = append(matches, StationMatch{Station: s, DistanceMiles: d})
	}

	slices.SortFunc(matches, func(a, b StationMatch) int {
		if a.DistanceMiles < b.DistanceMiles {
			return -1
		}
		if a.DistanceMiles > b.DistanceMiles {
			return 1
		}
		return a.Station.ID - b.Station.ID
	})

	return matches, nil
}
