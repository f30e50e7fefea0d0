package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"fuelroute-service/internal/api/dto"
	"fuelroute-service/internal/domain"
	"fuelroute-service/internal/ports"
)

// RatingHandler accepts station ratings.
type RatingHandler struct {
	Repo ports.RatingRepository
	Log  *zap.Logger
}

func (h *RatingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CreateRatingRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.StationID <= 0 {
		writeError(w, r, http.StatusBadRequest, "station_id is required")
		return
	}
	if req.UserID <= 0 {
		writeError(w, r, http.StatusBadRequest, "user_id is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, r, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	for _, score := range []*int{req.FuelQuality, req.ServiceQuality, req.Cleanliness, req.PriceRating} {
		if score != nil && (*score < 1 || *score > 5) {
			writeError(w, r, http.StatusBadRequest, "category scores must be between 1 and 5")
			return
		}
	}

	rating := &domain.StationRating{
		StationID:      req.StationID,
		UserID:         req.UserID,
		Rating:         req.Rating,
		Review:         req.Review,
		FuelQuality:    req.FuelQuality,
		ServiceQuality: req.ServiceQuality,
		Cleanliness:    req.Cleanliness,
		PriceRating:    req.PriceRating,
	}
	if err := h.Repo.CreateRating(r.Context(), rating); err != nil {
		h.Log.Error("create rating failed",
			zap.Int("station_id", req.StationID),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, dto.CreateRatingResponse{
		RatingID:  rating.ID,
		StationID: rating.StationID,
		CreatedAt: rating.CreatedAt,
	})
}
