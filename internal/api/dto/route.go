package dto

import "time"

type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type VehicleDTO struct {
	MPG                 float64 `json:"mpg"`
	TankCapacityGallons float64 `json:"tank_capacity_gallons"`
	FuelLevelGallons    float64 `json:"fuel_level_gallons"`
}

// SaveDTO attaches persistence intent to an optimization request; when
// present the computed plan is also stored as a draft route.
type SaveDTO struct {
	UserID int    `json:"user_id"`
	Name   string `json:"name"`
}

type OptimizeRouteRequest struct {
	Start      LocationDTO  `json:"start"`
	End        *LocationDTO `json:"end"`
	StationIDs []int        `json:"station_ids"`
	Criterion  string       `json:"criterion"`
	FuelTypes  []string     `json:"fuel_types"`
	Vehicle    *VehicleDTO  `json:"vehicle"`
	DepartAt   *time.Time   `json:"depart_at"`
	Save       *SaveDTO     `json:"save"`
}

type RouteStopResponse struct {
	StationID            int       `json:"station_id"`
	StopOrder            int       `json:"stop_order"`
	DistanceFromPrevious float64   `json:"distance_from_previous"`
	TravelTimeMinutes    float64   `json:"travel_time_minutes"`
	ArriveAt             time.Time `json:"arrive_at"`
	FuelType             string    `json:"fuel_type,omitempty"`
	EstimatedFuelGallons float64   `json:"estimated_fuel_gallons"`
	EstimatedFuelCost    float64   `json:"estimated_fuel_cost"`
}

type RoutePlanResponse struct {
	Criterion            string              `json:"criterion"`
	Start                LocationDTO         `json:"start"`
	End                  *LocationDTO        `json:"end,omitempty"`
	DepartAt             time.Time           `json:"depart_at"`
	Stops                []RouteStopResponse `json:"stops"`
	TotalDistanceMiles   float64             `json:"total_distance_miles"`
	TotalDurationMinutes float64             `json:"total_duration_minutes"`
	EstimatedFuelCost    float64             `json:"estimated_fuel_cost"`
	RouteID              *int                `json:"route_id,omitempty"`
	Cached               bool                `json:"cached"`
}

type UpdateRouteStatusRequest struct {
	RouteID int    `json:"route_id"`
	Event   string `json:"event"`
}

type UpdateRouteStatusResponse struct {
	RouteID int    `json:"route_id"`
	Status  string `json:"status"`
}
