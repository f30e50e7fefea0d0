package ports

import (
	"context"

	"fuelroute-service/internal/domain"
)

// Port: boundary for retrieving and updating station data.
type StationRepository interface {
	// Return all active stations with their current fuel prices.
	ListStations(ctx context.Context) ([]*domain.Station, error)
	// Return the stations with the given IDs, current prices attached.
	// Missing or inactive IDs are an error.
	GetStationsByIDs(ctx context.Context, ids []int) ([]*domain.Station, error)
	// Record a reported price, superseding the previous current price for
	// the same station and fuel type.
	ReportPrice(ctx context.Context, stationID int, price domain.FuelPrice) error
}

// Port: boundary for station ratings.
type RatingRepository interface {
	// Store a rating and refresh the station's rating aggregate.
	CreateRating(ctx context.Context, rating *domain.StationRating) error
}
