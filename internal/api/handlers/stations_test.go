package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"fuelroute-service/internal/api/dto"
)

func TestStationSearchFiltersAndSorts(t *testing.T) {
	h := &StationHandler{Repo: &stubStationRepo{stations: testStations()}, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodGet, "/stations/search?lat=33.45&lon=-112.07&radius=10", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.SearchStationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Stations) != 2 {
		t.Fatalf("stations = %d, want 2", len(res.Stations))
	}
	if res.Stations[0].StationID != 1 {
		t.Errorf("nearest station = %d, want 1", res.Stations[0].StationID)
	}
	if res.Stations[0].DistanceMiles >= res.Stations[1].DistanceMiles {
		t.Errorf("results not sorted by distance: %v then %v",
			res.Stations[0].DistanceMiles, res.Stations[1].DistanceMiles)
	}
}

func TestStationSearchMaxPriceFilter(t *testing.T) {
	h := &StationHandler{Repo: &stubStationRepo{stations: testStations()}, Log: zap.NewNop()}

	// Only station 2 sells regular at or under $3.15.
	req := httptest.NewRequest(http.MethodGet,
		"/stations/search?lat=33.45&lon=-112.07&radius=20&fuel_type=regular&max_price=3.15", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.SearchStationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Stations) != 1 || res.Stations[0].StationID != 2 {
		t.Fatalf("stations = %+v, want only station 2", res.Stations)
	}
}

func TestStationSearchRejectsBadParams(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"missing lat", "lon=-112.07"},
		{"non-numeric radius", "lat=33.45&lon=-112.07&radius=wide"},
		{"oversized radius", "lat=33.45&lon=-112.07&radius=500"},
		{"unknown fuel type", "lat=33.45&lon=-112.07&fuel_type=plutonium"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &StationHandler{Repo: &stubStationRepo{stations: testStations()}, Log: zap.NewNop()}
			req := httptest.NewRequest(http.MethodGet, "/stations/search?"+tc.query, nil)
			rec := httptest.NewRecorder()
			h.Search(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400, body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListStationsIncludesPrices(t *testing.T) {
	h := &StationHandler{Repo: &stubStationRepo{stations: testStations()}, Log: zap.NewNop()}

	req := httptest.NewRequest(http.MethodGet, "/stations", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res dto.ListStationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Stations) != 2 {
		t.Fatalf("stations = %d, want 2", len(res.Stations))
	}
	for _, s := range res.Stations {
		if len(s.Prices) == 0 {
			t.Errorf("station %d has no prices in response", s.StationID)
		}
	}
}
