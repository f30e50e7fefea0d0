package dto

import "time"

type FuelPriceResponse struct {
	FuelType       string    `json:"fuel_type"`
	PricePerGallon float64   `json:"price_per_gallon"`
	PriceDate      time.Time `json:"price_date"`
	Verified       bool      `json:"verified"`
}

type StationResponse struct {
	StationID     int                 `json:"station_id"`
	Name          string              `json:"name"`
	Brand         string              `json:"brand"`
	Address       string              `json:"address"`
	City          string              `json:"city"`
	State         string              `json:"state"`
	Latitude      float64             `json:"latitude"`
	Longitude     float64             `json:"longitude"`
	AverageRating *float64            `json:"average_rating,omitempty"`
	TotalRatings  int                 `json:"total_ratings"`
	Prices        []FuelPriceResponse `json:"prices"`
}

type ListStationsResponse struct {
	Stations []StationResponse `json:"stations"`
}

type StationMatchResponse struct {
	StationResponse
	DistanceMiles float64 `json:"distance_miles"`
}

type SearchStationsResponse struct {
	Stations []StationMatchResponse `json:"stations"`
}

type ReportPriceRequest struct {
	StationID      int     `json:"station_id"`
	FuelType       string  `json:"fuel_type"`
	PricePerGallon float64 `json:"price_per_gallon"`
}

type CreateRatingRequest struct {
	StationID      int     `json:"station_id"`
	UserID         int     `json:"user_id"`
	Rating         int     `json:"rating"`
	Review         *string `json:"review"`
	FuelQuality    *int    `json:"fuel_quality"`
	ServiceQuality *int    `json:"service_quality"`
	Cleanliness    *int    `json:"cleanliness"`
	PriceRating    *int    `json:"price_rating"`
}

type CreateRatingResponse struct {
	RatingID  int       `json:"rating_id"`
	StationID int       `json:"station_id"`
	CreatedAt time.Time `json:"created_at"`
}
