package ports

import (
	"context"

	"fuelroute-service/internal/domain"
)

// Port: cache for optimized route plans keyed by request fingerprint.
// A miss is (nil, nil); cache failures should degrade to recomputation.
type PlanCache interface {
	Get(ctx context.Context, key string) (*domain.RoutePlan, error)
	Put(ctx context.Context, key string, plan *domain.RoutePlan) error
}
