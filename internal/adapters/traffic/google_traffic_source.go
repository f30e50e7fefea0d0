package traffic

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"googlemaps.github.io/maps"

	"fuelroute-service/internal/domain"
)

// Traffic source backed by the Google Distance Matrix API. Each consecutive
// corridor pair becomes one condition whose factor is the ratio of
// duration-in-traffic to free-flow duration.
type GoogleTrafficSource struct {
	client *maps.Client
	ttl    time.Duration
}

func NewGoogleTrafficSource(client *maps.Client, ttl time.Duration) *GoogleTrafficSource {
	return &GoogleTrafficSource{client: client, ttl: ttl}
}

func (s *GoogleTrafficSource) ActiveConditions(ctx context.Context, corridor []domain.Location, at time.Time) ([]domain.TrafficCondition, error) {
	if len(corridor) < 2 {
		return nil, nil
	}

	origins := make([]string, 0, len(corridor)-1)
	destinations := make([]string, 0, len(corridor)-1)
	for i := 0; i < len(corridor)-1; i++ {
		origins = append(origins, formatLatLng(corridor[i]))
		destinations = append(destinations, formatLatLng(corridor[i+1]))
	}

	departure := at
	if departure.Before(time.Now()) {
		// The API rejects departure times in the past.
		departure = time.Now()
	}

	resp, err := s.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:       origins,
		Destinations:  destinations,
		DepartureTime: strconv.FormatInt(departure.Unix(), 10),
		TrafficModel:  maps.TrafficModelBestGuess,
		Units:         maps.UnitsImperial,
	})
	if err != nil {
		return nil, fmt.Errorf("google traffic: distance matrix: %w", err)
	}

	var conditions []domain.TrafficCondition
	for i, row := range resp.Rows {
		if i >= len(row.Elements) {
			continue
		}
		// The matrix is all origins x all destinations; only the diagonal
		// corresponds to an actual corridor leg.
		elem := row.Elements[i]
		if elem.Status != "OK" || elem.Duration <= 0 {
			continue
		}

		inTraffic := elem.DurationInTraffic
		if inTraffic <= 0 {
			inTraffic = elem.Duration
		}
		factor := float64(inTraffic) / float64(elem.Duration)
		if factor < 1.0 {
			factor = 1.0
		}

		conditions = append(conditions, domain.TrafficCondition{
			Start:                    corridor[i],
			End:                      corridor[i+1],
			NormalTravelTimeMinutes:  int(elem.Duration.Minutes() + 0.5),
			CurrentTravelTimeMinutes: int(inTraffic.Minutes() + 0.5),
			TrafficFactor:            factor,
			Level:                    levelForFactor(factor),
			Source:                   "google_maps",
			DataTimestamp:            at,
			ExpiresAt:                at.Add(s.ttl),
		})
	}

	return conditions, nil
}

func formatLatLng(loc domain.Location) string {
	return fmt.Sprintf("%f,%f", loc.Lat, loc.Lon)
}

func levelForFactor(factor float64) domain.TrafficLevel {
	switch {
	case factor < 1.15:
		return domain.TrafficLight
	case factor < 1.4:
		return domain.TrafficModerate
	case factor < 1.8:
		return domain.TrafficHeavy
	default:
		return domain.TrafficSevere
	}
}
