package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the Postgres schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS gas_stations (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT 'independent',
			address TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			zip_code TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			has_car_wash BOOLEAN NOT NULL DEFAULT FALSE,
			has_convenience_store BOOLEAN NOT NULL DEFAULT FALSE,
			has_restrooms BOOLEAN NOT NULL DEFAULT FALSE,
			average_rating DOUBLE PRECISION,
			total_ratings INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS fuel_prices (
			id BIGSERIAL PRIMARY KEY,
			station_id BIGINT NOT NULL REFERENCES gas_stations(id),
			fuel_type TEXT NOT NULL,
			price_per_gallon DOUBLE PRECISION NOT NULL,
			price_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			is_current BOOLEAN NOT NULL DEFAULT TRUE,
			source TEXT NOT NULL DEFAULT 'user_reported',
			verified BOOLEAN NOT NULL DEFAULT FALSE
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_fuel_prices_current
		ON fuel_prices(station_id, fuel_type) WHERE is_current;
		`,
		`
		CREATE TABLE IF NOT EXISTS station_ratings (
			id BIGSERIAL PRIMARY KEY,
			station_id BIGINT NOT NULL REFERENCES gas_stations(id),
			user_id BIGINT NOT NULL,
			rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			review TEXT,
			fuel_quality INTEGER,
			service_quality INTEGER,
			cleanliness INTEGER,
			price_rating INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS routes (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			optimization_criteria TEXT NOT NULL,
			start_latitude DOUBLE PRECISION NOT NULL,
			start_longitude DOUBLE PRECISION NOT NULL,
			end_latitude DOUBLE PRECISION,
			end_longitude DOUBLE PRECISION,
			total_distance_miles DOUBLE PRECISION NOT NULL,
			estimated_duration_minutes INTEGER NOT NULL,
			estimated_fuel_cost DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS route_stops (
			id BIGSERIAL PRIMARY KEY,
			route_id BIGINT NOT NULL REFERENCES routes(id) ON DELETE CASCADE,
			station_id BIGINT NOT NULL REFERENCES gas_stations(id),
			stop_order INTEGER NOT NULL CHECK (stop_order >= 1),
			distance_from_previous DOUBLE PRECISION NOT NULL,
			travel_time_minutes DOUBLE PRECISION NOT NULL,
			arrival_time TIMESTAMPTZ NOT NULL,
			fuel_type TEXT NOT NULL DEFAULT '',
			estimated_fuel_gallons DOUBLE PRECISION NOT NULL DEFAULT 0,
			estimated_fuel_cost DOUBLE PRECISION NOT NULL DEFAULT 0
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS traffic_conditions (
			id BIGSERIAL PRIMARY KEY,
			start_latitude DOUBLE PRECISION NOT NULL,
			start_longitude DOUBLE PRECISION NOT NULL,
			end_latitude DOUBLE PRECISION NOT NULL,
			end_longitude DOUBLE PRECISION NOT NULL,
			normal_travel_time_minutes INTEGER NOT NULL,
			current_travel_time_minutes INTEGER NOT NULL,
			traffic_factor DOUBLE PRECISION NOT NULL,
			traffic_level TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT 'api',
			data_timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_traffic_conditions_expires
		ON traffic_conditions(expires_at);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StationSeed struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Brand   string  `json:"brand"`
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	ZipCode string  `json:"zip_code"`
	Lat     float64 `json:"latitude"`
	Lon     float64 `json:"longitude"`
	Prices  []struct {
		FuelType       string  `json:"fuel_type"`
		PricePerGallon float64 `json:"price_per_gallon"`
	} `json:"prices"`
}

type TrafficSeed struct {
	StartLat                 float64 `json:"start_latitude"`
	StartLon                 float64 `json:"start_longitude"`
	EndLat                   float64 `json:"end_latitude"`
	EndLon                   float64 `json:"end_longitude"`
	NormalTravelTimeMinutes  int     `json:"normal_travel_time_minutes"`
	CurrentTravelTimeMinutes int     `json:"current_travel_time_minutes"`
	TrafficFactor            float64 `json:"traffic_factor"`
	TrafficLevel             string  `json:"traffic_level"`
	TTLMinutes               int     `json:"ttl_minutes"`
}

type SeedFile struct {
	Stations []StationSeed `json:"stations"`
	Traffic  []TrafficSeed `json:"traffic_conditions"`
}

// Populate the database with station, price, and traffic data from a JSON file.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed stations: read %q: %w", jsonPath, err)
	}

	var file SeedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("seed stations: parse json: %w", err)
	}
	data := file.Stations

	for i, s := range data {
		if s.ID <= 0 {
			return fmt.Errorf("seed stations: invalid id at index %d: %d", i+1, s.ID)
		}
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("seed stations: item at index %d: name cannot be empty", i+1)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stationStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO gas_stations (id, name, brand, address, city, state, zip_code, latitude, longitude)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		brand = EXCLUDED.brand,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude;
	`)
	if err != nil {
		return fmt.Errorf("seed stations: prepare station insert: %w", err)
	}
	defer stationStmt.Close()

	priceStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO fuel_prices (station_id, fuel_type, price_per_gallon, price_date, source)
	VALUES ($1, $2, $3, $4, 'seed');
	`)
	if err != nil {
		return fmt.Errorf("seed stations: prepare price insert: %w", err)
	}
	defer priceStmt.Close()

	now := time.Now()
	for _, s := range data {
		if _, err := stationStmt.ExecContext(ctx,
			s.ID, s.Name, s.Brand, s.Address, s.City, s.State, s.ZipCode, s.Lat, s.Lon,
		); err != nil {
			return fmt.Errorf("seed stations: insert station id=%d: %w", s.ID, err)
		}
		for _, p := range s.Prices {
			if _, err := priceStmt.ExecContext(ctx, s.ID, p.FuelType, p.PricePerGallon, now); err != nil {
				return fmt.Errorf("seed stations: insert price station=%d type=%q: %w", s.ID, p.FuelType, err)
			}
		}
	}

	for i, t := range file.Traffic {
		ttl := t.TTLMinutes
		if ttl <= 0 {
			ttl = 60
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO traffic_conditions
			(start_latitude, start_longitude, end_latitude, end_longitude,
			 normal_travel_time_minutes, current_travel_time_minutes,
			 traffic_factor, traffic_level, source, data_timestamp, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'seed', $9, $10);
		`,
			t.StartLat, t.StartLon, t.EndLat, t.EndLon,
			t.NormalTravelTimeMinutes, t.CurrentTravelTimeMinutes,
			t.TrafficFactor, t.TrafficLevel, now, now.Add(time.Duration(ttl)*time.Minute),
		); err != nil {
			return fmt.Errorf("seed stations: insert traffic condition #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return nil
}
