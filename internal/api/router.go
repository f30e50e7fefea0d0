package api

import (
	"net/http"

	"go.uber.org/zap"

	"fuelroute-service/internal/api/handlers"
	"fuelroute-service/internal/ports"
	"fuelroute-service/internal/services"
)

// Dependencies carries everything the HTTP layer needs. Traffic and
// PlanCache may be nil; the route handler degrades without them.
type Dependencies struct {
	Stations  ports.StationRepository
	Ratings   ports.RatingRepository
	Routes    ports.RouteRepository
	Traffic   ports.TrafficSource
	PlanCache ports.PlanCache
	Optimize  services.OptimizeConfig
	Log       *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	stationHandler := &handlers.StationHandler{Repo: deps.Stations, Log: deps.Log}
	priceHandler := &handlers.PriceHandler{Repo: deps.Stations, Log: deps.Log}
	ratingHandler := &handlers.RatingHandler{Repo: deps.Ratings, Log: deps.Log}
	routeHandler := &handlers.RouteHandler{
		Stations: deps.Stations,
		Routes:   deps.Routes,
		Traffic:  deps.Traffic,
		Cache:    deps.PlanCache,
		Config:   deps.Optimize,
		Log:      deps.Log,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stations", stationHandler.List)
	mux.HandleFunc("/stations/search", stationHandler.Search)
	mux.HandleFunc("/prices", priceHandler.Report)
	mux.HandleFunc("/ratings", ratingHandler.Create)
	mux.HandleFunc("/routes", routeHandler.Optimize)
	mux.HandleFunc("/routes/status", routeHandler.UpdateStatus)

	return requestIDMiddleware(loggingMiddleware(deps.Log, mux))
}
