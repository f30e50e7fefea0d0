package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fuelroute-service/internal/domain"
)

// Postgres-backed station repository. Current prices are stored as rows in
// fuel_prices with is_current=true and merged onto stations at read time.
type PostgresStationRepository struct {
	db *sql.DB
}

func NewPostgresStationRepository(db *sql.DB) *PostgresStationRepository {
	return &PostgresStationRepository{db: db}
}

func (r *PostgresStationRepository) ListStations(ctx context.Context) ([]*domain.Station, error) {
	const query = `
	SELECT id, name, brand, address, city, state, zip_code,
	       latitude, longitude,
	       has_car_wash, has_convenience_store, has_restrooms,
	       average_rating, total_ratings, is_active
	FROM gas_stations
	WHERE is_active
	ORDER BY id;
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: query: %w", err)
	}
	defer rows.Close()

	var stations []*domain.Station
	byID := make(map[int]*domain.Station)
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("list stations: %w", err)
		}
		stations = append(stations, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: rows: %w", err)
	}

	if err := r.attachCurrentPrices(ctx, byID, nil); err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}

	return stations, nil
}

func (r *PostgresStationRepository) GetStationsByIDs(ctx context.Context, ids []int) ([]*domain.Station, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
	SELECT id, name, brand, address, city, state, zip_code,
	       latitude, longitude,
	       has_car_wash, has_convenience_store, has_restrooms,
	       average_rating, total_ratings, is_active
	FROM gas_stations
	WHERE is_active AND id IN (%s)
	ORDER BY id;
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get stations by ids: query: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]*domain.Station)
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("get stations by ids: %w", err)
		}
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get stations by ids: rows: %w", err)
	}

	// Every requested ID must resolve to an active station.
	stations := make([]*domain.Station, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("get stations by ids: station %d: %w", id, domain.ErrStationNotFound)
		}
		stations = append(stations, s)
	}

	if err := r.attachCurrentPrices(ctx, byID, ids); err != nil {
		return nil, fmt.Errorf("get stations by ids: %w", err)
	}

	return stations, nil
}

func (r *PostgresStationRepository) ReportPrice(ctx context.Context, stationID int, price domain.FuelPrice) error {
	if !price.FuelType.Valid() {
		return fmt.Errorf("report price: invalid fuel type %q", price.FuelType)
	}
	if price.PricePerGallon <= 0 {
		return fmt.Errorf("report price: price per gallon must be positive, got %v", price.PricePerGallon)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("report price: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM gas_stations WHERE id = $1 AND is_active);`,
		stationID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("report price: check station: %w", err)
	}
	if !exists {
		return fmt.Errorf("report price: station %d: %w", stationID, domain.ErrStationNotFound)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE fuel_prices SET is_current = FALSE WHERE station_id = $1 AND fuel_type = $2 AND is_current;`,
		stationID, string(price.FuelType),
	); err != nil {
		return fmt.Errorf("report price: supersede previous: %w", err)
	}

	priceDate := price.PriceDate
	if priceDate.IsZero() {
		priceDate = time.Now()
	}
	source := price.Source
	if source == "" {
		source = "user_reported"
	}

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO fuel_prices (station_id, fuel_type, price_per_gallon, price_date, source, verified)
	VALUES ($1, $2, $3, $4, $5, $6);
	`, stationID, string(price.FuelType), price.PricePerGallon, priceDate, source, price.Verified); err != nil {
		return fmt.Errorf("report price: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("report price: commit tx: %w", err)
	}

	return nil
}

// attachCurrentPrices loads the is_current price rows for the stations in
// byID and fills in their Prices maps. A nil ids slice loads prices for all
// active stations.
func (r *PostgresStationRepository) attachCurrentPrices(ctx context.Context, byID map[int]*domain.Station, ids []int) error {
	query := `
	SELECT station_id, fuel_type, price_per_gallon, price_date, source, verified
	FROM fuel_prices
	WHERE is_current
	`
	var args []any
	if ids != nil {
		placeholders := make([]string, len(ids))
		args = make([]any, len(ids))
		for i, id := range ids {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = id
		}
		query += fmt.Sprintf(" AND station_id IN (%s)", strings.Join(placeholders, ", "))
	}
	query += ";"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("attach prices: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			stationID int
			fuelType  string
			price     domain.FuelPrice
		)
		if err := rows.Scan(&stationID, &fuelType, &price.PricePerGallon, &price.PriceDate, &price.Source, &price.Verified); err != nil {
			return fmt.Errorf("attach prices: scan: %w", err)
		}
		price.FuelType = domain.FuelType(fuelType)

		s, ok := byID[stationID]
		if !ok {
			continue
		}
		if s.Prices == nil {
			s.Prices = make(map[domain.FuelType]domain.FuelPrice)
		}
		s.Prices[price.FuelType] = price
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("attach prices: rows: %w", err)
	}

	return nil
}

func scanStation(rows *sql.Rows) (*domain.Station, error) {
	var (
		s         domain.Station
		avgRating sql.NullFloat64
	)
	if err := rows.Scan(
		&s.ID, &s.Name, &s.Brand, &s.Address, &s.City, &s.State, &s.ZipCode,
		&s.Location.Lat, &s.Location.Lon,
		&s.HasCarWash, &s.HasConvenienceStore, &s.HasRestrooms,
		&avgRating, &s.TotalRatings, &s.IsActive,
	); err != nil {
		return nil, fmt.Errorf("scan station: %w", err)
	}
	if avgRating.Valid {
		v := avgRating.Float64
		s.AverageRating = &v
	}
	s.Prices = make(map[domain.FuelType]domain.FuelPrice)
	return &s, nil
}
