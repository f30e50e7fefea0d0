package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fuelroute-service/internal/domain"
)

// Postgres-backed traffic source. Returns every stored condition that has
// not expired; corridor filtering is left to the overlap check inside the
// optimizer, which already discards conditions far from any leg.
type PostgresTrafficRepository struct {
	db *sql.DB
}

func NewPostgresTrafficRepository(db *sql.DB) *PostgresTrafficRepository {
	return &PostgresTrafficRepository{db: db}
}

func (r *PostgresTrafficRepository) ActiveConditions(ctx context.Context, _ []domain.Location, at time.Time) ([]domain.TrafficCondition, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, start_latitude, start_longitude, end_latitude, end_longitude,
	       normal_travel_time_minutes, current_travel_time_minutes,
	       traffic_factor, traffic_level, source, data_timestamp, expires_at
	FROM traffic_conditions
	WHERE expires_at > $1
	ORDER BY id;
	`, at)
	if err != nil {
		return nil, fmt.Errorf("active traffic conditions: query: %w", err)
	}
	defer rows.Close()

	var conditions []domain.TrafficCondition
	for rows.Next() {
		var (
			c     domain.TrafficCondition
			level string
		)
		if err := rows.Scan(
			&c.ID, &c.Start.Lat, &c.Start.Lon, &c.End.Lat, &c.End.Lon,
			&c.NormalTravelTimeMinutes, &c.CurrentTravelTimeMinutes,
			&c.TrafficFactor, &level, &c.Source, &c.DataTimestamp, &c.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("active traffic conditions: scan: %w", err)
		}
		c.Level = domain.TrafficLevel(level)
		conditions = append(conditions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("active traffic conditions: rows: %w", err)
	}

	return conditions, nil
}

// RecordConditions stores freshly fetched conditions, typically forwarded
// from an external traffic API so later requests can reuse them.
func (r *PostgresTrafficRepository) RecordConditions(ctx context.Context, conditions []domain.TrafficCondition) error {
	if len(conditions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record traffic conditions: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO traffic_conditions
		(start_latitude, start_longitude, end_latitude, end_longitude,
		 normal_travel_time_minutes, current_travel_time_minutes,
		 traffic_factor, traffic_level, source, data_timestamp, expires_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`)
	if err != nil {
		return fmt.Errorf("record traffic conditions: prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range conditions {
		if _, err := stmt.ExecContext(ctx,
			c.Start.Lat, c.Start.Lon, c.End.Lat, c.End.Lon,
			c.NormalTravelTimeMinutes, c.CurrentTravelTimeMinutes,
			c.TrafficFactor, string(c.Level), c.Source, c.DataTimestamp, c.ExpiresAt,
		); err != nil {
			return fmt.Errorf("record traffic conditions: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record traffic conditions: commit tx: %w", err)
	}

	return nil
}
