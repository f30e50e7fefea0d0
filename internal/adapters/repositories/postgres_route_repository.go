package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"fuelroute-service/internal/domain"
)

// Postgres-backed route repository. A saved plan becomes one routes row plus
// one route_stops row per stop, written transactionally.
type PostgresRouteRepository struct {
	db *sql.DB
}

func NewPostgresRouteRepository(db *sql.DB) *PostgresRouteRepository {
	return &PostgresRouteRepository{db: db}
}

func (r *PostgresRouteRepository) SaveRoute(ctx context.Context, userID int, name string, plan *domain.RoutePlan) (*domain.Route, error) {
	if plan == nil {
		return nil, fmt.Errorf("save route: plan is nil")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("save route: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var endLat, endLon *float64
	if plan.End != nil {
		endLat, endLon = &plan.End.Lat, &plan.End.Lon
	}

	route := &domain.Route{
		UserID:                   userID,
		Name:                     name,
		Status:                   domain.RouteDraft,
		OptimizationCriteria:     plan.Criterion,
		StartLocation:            plan.Start,
		EndLocation:              plan.End,
		TotalDistanceMiles:       plan.TotalDistanceMiles,
		EstimatedDurationMinutes: int(math.Round(plan.TotalDurationMinutes)),
		EstimatedFuelCost:        plan.EstimatedFuelCost,
		Stops:                    plan.Stops,
	}

	err = tx.QueryRowContext(ctx, `
	INSERT INTO routes
		(user_id, name, status, optimization_criteria,
		 start_latitude, start_longitude, end_latitude, end_longitude,
		 total_distance_miles, estimated_duration_minutes, estimated_fuel_cost)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id, created_at;
	`,
		userID, name, string(route.Status), string(plan.Criterion),
		plan.Start.Lat, plan.Start.Lon, endLat, endLon,
		plan.TotalDistanceMiles, route.EstimatedDurationMinutes, plan.EstimatedFuelCost,
	).Scan(&route.ID, &route.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("save route: insert route: %w", err)
	}

	stopStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_stops
		(route_id, station_id, stop_order, distance_from_previous,
		 travel_time_minutes, arrival_time, fuel_type,
		 estimated_fuel_gallons, estimated_fuel_cost)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`)
	if err != nil {
		return nil, fmt.Errorf("save route: prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	for _, stop := range plan.Stops {
		if _, err := stopStmt.ExecContext(ctx,
			route.ID, stop.StationID, stop.StopOrder, stop.DistanceFromPrevious,
			stop.TravelTimeMinutes, stop.ArriveAt, string(stop.FuelType),
			stop.EstimatedFuelGallons, stop.EstimatedFuelCost,
		); err != nil {
			return nil, fmt.Errorf("save route: insert stop order=%d: %w", stop.StopOrder, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("save route: commit tx: %w", err)
	}

	return route, nil
}

func (r *PostgresRouteRepository) GetRoute(ctx context.Context, id int) (*domain.Route, error) {
	var (
		route          domain.Route
		status         string
		criteria       string
		endLat, endLon sql.NullFloat64
		completedAt    sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
	SELECT id, user_id, name, status, optimization_criteria,
	       start_latitude, start_longitude, end_latitude, end_longitude,
	       total_distance_miles, estimated_duration_minutes, estimated_fuel_cost,
	       created_at, completed_at
	FROM routes
	WHERE id = $1;
	`, id).Scan(
		&route.ID, &route.UserID, &route.Name, &status, &criteria,
		&route.StartLocation.Lat, &route.StartLocation.Lon, &endLat, &endLon,
		&route.TotalDistanceMiles, &route.EstimatedDurationMinutes, &route.EstimatedFuelCost,
		&route.CreatedAt, &completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get route %d: %w", id, domain.ErrRouteNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get route %d: %w", id, err)
	}

	route.Status = domain.RouteStatus(status)
	route.OptimizationCriteria = domain.OptimizationCriterion(criteria)
	if endLat.Valid && endLon.Valid {
		route.EndLocation = &domain.Location{Lat: endLat.Float64, Lon: endLon.Float64}
	}
	if completedAt.Valid {
		t := completedAt.Time
		route.CompletedAt = &t
	}

	rows, err := r.db.QueryContext(ctx, `
	SELECT station_id, stop_order, distance_from_previous, travel_time_minutes,
	       arrival_time, fuel_type, estimated_fuel_gallons, estimated_fuel_cost
	FROM route_stops
	WHERE route_id = $1
	ORDER BY stop_order;
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get route %d: query stops: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			stop     domain.RouteStop
			fuelType string
		)
		if err := rows.Scan(
			&stop.StationID, &stop.StopOrder, &stop.DistanceFromPrevious, &stop.TravelTimeMinutes,
			&stop.ArriveAt, &fuelType, &stop.EstimatedFuelGallons, &stop.EstimatedFuelCost,
		); err != nil {
			return nil, fmt.Errorf("get route %d: scan stop: %w", id, err)
		}
		stop.FuelType = domain.FuelType(fuelType)
		route.Stops = append(route.Stops, stop)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get route %d: stop rows: %w", id, err)
	}

	return &route, nil
}

func (r *PostgresRouteRepository) UpdateRouteStatus(ctx context.Context, id int, status domain.RouteStatus) error {
	var completedAt *time.Time
	if status == domain.RouteCompleted {
		now := time.Now()
		completedAt = &now
	}

	res, err := r.db.ExecContext(ctx, `
	UPDATE routes
	SET status = $1,
	    completed_at = COALESCE($2, completed_at)
	WHERE id = $3;
	`, string(status), completedAt, id)
	if err != nil {
		return fmt.Errorf("update route %d status: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update route %d status: rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("update route %d status: %w", id, domain.ErrRouteNotFound)
	}

	return nil
}
