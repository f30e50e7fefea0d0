package ports

import (
	"context"
	"time"

	"fuelroute-service/internal/domain"
)

// Port: boundary for obtaining traffic condition records. The optimizer only
// consumes conditions; where they come from (database rows, an external
// traffic API) is an adapter concern.
type TrafficSource interface {
	// Return conditions applicable around the given route corridor that are
	// not expired at the given instant. Implementations may ignore the
	// corridor and return every active condition.
	ActiveConditions(ctx context.Context, corridor []domain.Location, at time.Time) ([]domain.TrafficCondition, error)
}
