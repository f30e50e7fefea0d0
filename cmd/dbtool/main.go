package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	"fuelroute-service/internal/adapters/repositories"
	"fuelroute-service/internal/config"
	"fuelroute-service/internal/platform/db"
)

// dbtool initializes the schema and optionally seeds station data.
// Run it once before the first server start, or after schema changes.
func main() {
	seed := flag.Bool("seed", true, "seed station data after initializing the schema")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	if err := initAndSeed(ctx, database, cfg.SeedPath, *seed); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, database *sql.DB, seedPath string, seed bool) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, database); err != nil {
		return err
	}
	log.Println("Schema ready.")

	if !seed {
		return nil
	}

	log.Println("Seeding stations...")
	if err := repositories.SeedFromJSON(ctx, database, seedPath); err != nil {
		return err
	}
	log.Println("Seeding complete.")

	return nil
}
