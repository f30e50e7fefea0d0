package ports

import (
	"context"

	"fuelroute-service/internal/domain"
)

// Port: boundary for persisting optimized routes and their stops.
type RouteRepository interface {
	// Persist a plan as a draft route and return the stored record.
	SaveRoute(ctx context.Context, userID int, name string, plan *domain.RoutePlan) (*domain.Route, error)
	// Load a route with its stops.
	GetRoute(ctx context.Context, id int) (*domain.Route, error)
	// Update a route's lifecycle status.
	UpdateRouteStatus(ctx context.Context, id int, status domain.RouteStatus) error
}
