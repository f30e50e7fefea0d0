package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"fuelroute-service/internal/api/dto"
	"fuelroute-service/internal/domain"
	"fuelroute-service/internal/services"
)

type stubStationRepo struct {
	stations map[int]*domain.Station
}

func (s *stubStationRepo) ListStations(_ context.Context) ([]*domain.Station, error) {
	out := make([]*domain.Station, 0, len(s.stations))
	for _, st := range s.stations {
		out = append(out, st)
	}
	return out, nil
}

func (s *stubStationRepo) GetStationsByIDs(_ context.Context, ids []int) ([]*domain.Station, error) {
	out := make([]*domain.Station, 0, len(ids))
	for _, id := range ids {
		st, ok := s.stations[id]
		if !ok {
			return nil, fmt.Errorf("get stations by ids: station %d: %w", id, domain.ErrStationNotFound)
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *stubStationRepo) ReportPrice(_ context.Context, _ int, _ domain.FuelPrice) error {
	return nil
}

type stubRouteRepo struct {
	saved  *domain.Route
	routes map[int]*domain.Route
	status map[int]domain.RouteStatus
}

func (s *stubRouteRepo) SaveRoute(_ context.Context, userID int, name string, plan *domain.RoutePlan) (*domain.Route, error) {
	s.saved = &domain.Route{ID: 42, UserID: userID, Name: name, Status: domain.RouteDraft, Stops: plan.Stops}
	return s.saved, nil
}

func (s *stubRouteRepo) GetRoute(_ context.Context, id int) (*domain.Route, error) {
	r, ok := s.routes[id]
	if !ok {
		return nil, domain.ErrRouteNotFound
	}
	return r, nil
}

func (s *stubRouteRepo) UpdateRouteStatus(_ context.Context, id int, status domain.RouteStatus) error {
	if s.status == nil {
		s.status = make(map[int]domain.RouteStatus)
	}
	s.status[id] = status
	return nil
}

func testStations() map[int]*domain.Station {
	return map[int]*domain.Station{
		1: {
			ID:       1,
			Name:     "QuikFuel Central",
			Location: domain.Location{Lat: 33.46, Lon: -112.07},
			IsActive: true,
			Prices: map[domain.FuelType]domain.FuelPrice{
				domain.FuelRegular: {FuelType: domain.FuelRegular, PricePerGallon: 3.25},
			},
		},
		2: {
			ID:       2,
			Name:     "RoadStar North",
			Location: domain.Location{Lat: 33.55, Lon: -112.07},
			IsActive: true,
			Prices: map[domain.FuelType]domain.FuelPrice{
				domain.FuelRegular: {FuelType: domain.FuelRegular, PricePerGallon: 3.10},
			},
		},
	}
}

func newRouteHandler(stations map[int]*domain.Station, routes *stubRouteRepo) *RouteHandler {
	return &RouteHandler{
		Stations: &stubStationRepo{stations: stations},
		Routes:   routes,
		Config:   services.OptimizeConfig{},
		Log:      zap.NewNop(),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestOptimizeReturnsOrderedStops(t *testing.T) {
	h := newRouteHandler(testStations(), &stubRouteRepo{})

	body := `{
		"start": {"latitude": 33.45, "longitude": -112.07},
		"end": {"latitude": 33.60, "longitude": -112.07},
		"station_ids": [1, 2],
		"criterion": "distance"
	}`
	rec := postJSON(t, h.Optimize, "/routes", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.RoutePlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Stops) != 2 {
		t.Fatalf("stops = %d, want 2", len(res.Stops))
	}
	// Both stations sit on the direct line north, so the nearer one comes first.
	if res.Stops[0].StationID != 1 || res.Stops[1].StationID != 2 {
		t.Errorf("stop order = [%d, %d], want [1, 2]", res.Stops[0].StationID, res.Stops[1].StationID)
	}
	if res.Stops[0].StopOrder != 1 || res.Stops[1].StopOrder != 2 {
		t.Errorf("stop_order values = [%d, %d], want [1, 2]", res.Stops[0].StopOrder, res.Stops[1].StopOrder)
	}
	if res.TotalDistanceMiles <= 0 {
		t.Errorf("total distance = %v, want > 0", res.TotalDistanceMiles)
	}
	if res.Cached {
		t.Error("plan reported as cached with no cache configured")
	}
}

func TestOptimizeSavePersistsRoute(t *testing.T) {
	routes := &stubRouteRepo{}
	h := newRouteHandler(testStations(), routes)

	body := `{
		"start": {"latitude": 33.45, "longitude": -112.07},
		"station_ids": [1],
		"criterion": "distance",
		"save": {"user_id": 7, "name": "morning run"}
	}`
	rec := postJSON(t, h.Optimize, "/routes", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.RoutePlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.RouteID == nil || *res.RouteID != 42 {
		t.Fatalf("route_id = %v, want 42", res.RouteID)
	}
	if routes.saved == nil || routes.saved.Name != "morning run" || routes.saved.UserID != 7 {
		t.Errorf("saved route = %+v", routes.saved)
	}
}

func TestOptimizeRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{
			name: "unknown criterion",
			body: `{"start": {"latitude": 0, "longitude": 0}, "station_ids": [1], "criterion": "vibes"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "unknown field",
			body: `{"start": {"latitude": 0, "longitude": 0}, "criterion": "distance", "bogus": true}`,
			want: http.StatusBadRequest,
		},
		{
			name: "unknown station id",
			body: `{"start": {"latitude": 0, "longitude": 0}, "station_ids": [99], "criterion": "distance"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "no stations and no end",
			body: `{"start": {"latitude": 0, "longitude": 0}, "criterion": "distance"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "out of range latitude",
			body: `{"start": {"latitude": 91, "longitude": 0}, "station_ids": [1], "criterion": "distance"}`,
			want: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newRouteHandler(testStations(), &stubRouteRepo{})
			rec := postJSON(t, h.Optimize, "/routes", tc.body)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d, body = %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestOptimizeInfeasibleVehicleIs422(t *testing.T) {
	h := newRouteHandler(testStations(), &stubRouteRepo{})

	// ~0.1 gallon at 10 mpg covers one mile; station 2 is several miles out.
	body := `{
		"start": {"latitude": 33.45, "longitude": -112.07},
		"station_ids": [2],
		"criterion": "distance",
		"vehicle": {"mpg": 10, "tank_capacity_gallons": 15, "fuel_level_gallons": 0.1}
	}`
	rec := postJSON(t, h.Optimize, "/routes", body)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateStatusAppliesLifecycleEvent(t *testing.T) {
	routes := &stubRouteRepo{
		routes: map[int]*domain.Route{
			5: {ID: 5, Status: domain.RouteDraft},
		},
	}
	h := newRouteHandler(testStations(), routes)

	rec := postJSON(t, h.UpdateStatus, "/routes/status", `{"route_id": 5, "event": "activate"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.UpdateRouteStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Status != string(domain.RouteActive) {
		t.Errorf("status = %q, want %q", res.Status, domain.RouteActive)
	}
	if routes.status[5] != domain.RouteActive {
		t.Errorf("persisted status = %q, want %q", routes.status[5], domain.RouteActive)
	}
}

func TestUpdateStatusInvalidTransitionIs409(t *testing.T) {
	routes := &stubRouteRepo{
		routes: map[int]*domain.Route{
			5: {ID: 5, Status: domain.RouteDraft},
		},
	}
	h := newRouteHandler(testStations(), routes)

	// A draft route cannot complete without activating first.
	rec := postJSON(t, h.UpdateStatus, "/routes/status", `{"route_id": 5, "event": "complete"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409, body = %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateStatusUnknownRouteIs404(t *testing.T) {
	h := newRouteHandler(testStations(), &stubRouteRepo{routes: map[int]*domain.Route{}})

	rec := postJSON(t, h.UpdateStatus, "/routes/status", `{"route_id": 999, "event": "activate"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body = %s", rec.Code, rec.Body.String())
	}
}

func TestOptimizeMethodNotAllowed(t *testing.T) {
	h := newRouteHandler(testStations(), &stubRouteRepo{})

	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	rec := httptest.NewRecorder()
	h.Optimize(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("Allow = %q, want POST", allow)
	}
}

func TestOptimizeHonorsDepartureTime(t *testing.T) {
	h := newRouteHandler(testStations(), &stubRouteRepo{})

	depart := time.Date(2026, 6, 1, 7, 30, 0, 0, time.UTC)
	body := `{
		"start": {"latitude": 33.45, "longitude": -112.07},
		"station_ids": [1],
		"criterion": "time",
		"depart_at": "2026-06-01T07:30:00Z"
	}`
	rec := postJSON(t, h.Optimize, "/routes", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.RoutePlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.DepartAt.Equal(depart) {
		t.Errorf("depart_at = %v, want %v", res.DepartAt, depart)
	}
	if len(res.Stops) != 1 || !res.Stops[0].ArriveAt.After(depart) {
		t.Errorf("arrival %v should follow departure %v", res.Stops[0].ArriveAt, depart)
	}
}
