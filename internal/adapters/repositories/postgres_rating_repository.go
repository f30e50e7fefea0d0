package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"fuelroute-service/internal/domain"
)

// Postgres-backed rating repository. Writing a rating and refreshing the
// station's aggregate happen in one transaction so average_rating and
// total_ratings never drift from the rating rows.
type PostgresRatingRepository struct {
	db *sql.DB
}

func NewPostgresRatingRepository(db *sql.DB) *PostgresRatingRepository {
	return &PostgresRatingRepository{db: db}
}

func (r *PostgresRatingRepository) CreateRating(ctx context.Context, rating *domain.StationRating) error {
	if rating == nil {
		return fmt.Errorf("create rating: rating is nil")
	}
	if rating.Rating < 1 || rating.Rating > 5 {
		return fmt.Errorf("create rating: rating must be between 1 and 5, got %d", rating.Rating)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create rating: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM gas_stations WHERE id = $1 AND is_active);`,
		rating.StationID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("create rating: check station: %w", err)
	}
	if !exists {
		return fmt.Errorf("create rating: station %d: %w", rating.StationID, domain.ErrStationNotFound)
	}

	err = tx.QueryRowContext(ctx, `
	INSERT INTO station_ratings
		(station_id, user_id, rating, review, fuel_quality, service_quality, cleanliness, price_rating)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at;
	`,
		rating.StationID, rating.UserID, rating.Rating, rating.Review,
		rating.FuelQuality, rating.ServiceQuality, rating.Cleanliness, rating.PriceRating,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		return fmt.Errorf("create rating: insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE gas_stations
	SET average_rating = agg.avg_rating,
	    total_ratings = agg.total
	FROM (
		SELECT AVG(rating)::DOUBLE PRECISION AS avg_rating, COUNT(*) AS total
		FROM station_ratings
		WHERE station_id = $1
	) AS agg
	WHERE id = $1;
	`, rating.StationID); err != nil {
		return fmt.Errorf("create rating: refresh aggregate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create rating: commit tx: %w", err)
	}

	return nil
}
