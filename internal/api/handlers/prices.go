package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"fuelroute-service/internal/api/dto"
	"fuelroute-service/internal/domain"
	"fuelroute-service/internal/ports"
)

// PriceHandler accepts user-reported fuel prices.
type PriceHandler struct {
	Repo ports.StationRepository
	Log  *zap.Logger
}

func (h *PriceHandler) Report(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ReportPriceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.StationID <= 0 {
		writeError(w, r, http.StatusBadRequest, "station_id is required")
		return
	}
	ft := domain.FuelType(req.FuelType)
	if !ft.Valid() {
		writeError(w, r, http.StatusBadRequest, "unknown fuel_type")
		return
	}
	if req.PricePerGallon <= 0 {
		writeError(w, r, http.StatusBadRequest, "price_per_gallon must be positive")
		return
	}

	price := domain.FuelPrice{
		FuelType:       ft,
		PricePerGallon: req.PricePerGallon,
		PriceDate:      time.Now(),
		Source:         "user_reported",
	}
	if err := h.Repo.ReportPrice(r.Context(), req.StationID, price); err != nil {
		h.Log.Error("report price failed",
			zap.Int("station_id", req.StationID),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]string{"status": "recorded"})
}
