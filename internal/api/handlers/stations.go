package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"fuelroute-service/internal/api/dto"
	"fuelroute-service/internal/domain"
	"fuelroute-service/internal/ports"
	"fuelroute-service/internal/services"
)

// StationHandler exposes station listing and nearby search endpoints.
type StationHandler struct {
	Repo ports.StationRepository
	Log  *zap.Logger
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	stations, err := h.Repo.ListStations(r.Context())
	if err != nil {
		h.Log.Error("list stations failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStationsResponse{
		Stations: make([]dto.StationResponse, 0, len(stations)),
	}
	for _, s := range stations {
		res.Stations = append(res.Stations, stationToDTO(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Search handles GET /stations/search. Filters arrive as query parameters:
// lat, lon, radius (miles), fuel_type, max_price, min_rating.
func (h *StationHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lat is required and must be a number")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lon is required and must be a number")
		return
	}

	radius := 5.0
	if raw := q.Get("radius"); raw != "" {
		radius, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "radius must be a number")
			return
		}
	}

	req := services.NearbySearchRequest{
		Center:      domain.Location{Lat: lat, Lon: lon},
		RadiusMiles: radius,
	}

	if raw := strings.TrimSpace(q.Get("fuel_type")); raw != "" {
		ft := domain.FuelType(raw)
		req.FuelType = &ft
	}
	if raw := q.Get("max_price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "max_price must be a number")
			return
		}
		req.MaxPrice = &maxPrice
	}
	if raw := q.Get("min_rating"); raw != "" {
		minRating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "min_rating must be a number")
			return
		}
		req.MinRating = &minRating
	}

	matches, err := services.SearchNearbyStations(r.Context(), req, h.Repo)
	if err != nil {
		if isBadRequest(err) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("station search failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.SearchStationsResponse{
		Stations: make([]dto.StationMatchResponse, 0, len(matches)),
	}
	for _, m := range matches {
		res.Stations = append(res.Stations, dto.StationMatchResponse{
			StationResponse: stationToDTO(m.Station),
			DistanceMiles:   m.DistanceMiles,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func stationToDTO(s *domain.Station) dto.StationResponse {
	prices := make([]dto.FuelPriceResponse, 0, len(s.Prices))
	for _, p := range s.Prices {
		prices = append(prices, dto.FuelPriceResponse{
			FuelType:       string(p.FuelType),
			PricePerGallon: p.PricePerGallon,
			PriceDate:      p.PriceDate,
			Verified:       p.Verified,
		})
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].FuelType < prices[j].FuelType })

	return dto.StationResponse{
		StationID:     s.ID,
		Name:          s.Name,
		Brand:         s.Brand,
		Address:       s.Address,
		City:          s.City,
		State:         s.State,
		Latitude:      s.Location.Lat,
		Longitude:     s.Location.Lon,
		AverageRating: s.AverageRating,
		TotalRatings:  s.TotalRatings,
		Prices:        prices,
	}
}
