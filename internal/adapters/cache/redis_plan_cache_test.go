package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"fuelroute-service/internal/domain"
)

func newTestCache(t *testing.T) (*RedisPlanCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisPlanCache(client, time.Minute), mr
}

func samplePlan() *domain.RoutePlan {
	return &domain.RoutePlan{
		Criterion: domain.OptimizeDistance,
		Start:     domain.Location{Lat: 33.45, Lon: -112.07},
		DepartAt:  time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC),
		Stops: []domain.RouteStop{
			{
				StationID:            4,
				StopOrder:            1,
				DistanceFromPrevious: 12.5,
				TravelTimeMinutes:    16.7,
				FuelType:             domain.FuelRegular,
				EstimatedFuelGallons: 9.3,
				EstimatedFuelCost:    31.15,
			},
		},
		TotalDistanceMiles:   12.5,
		TotalDurationMinutes: 16.7,
		EstimatedFuelCost:    31.15,
	}
}

func TestRedisPlanCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	want := samplePlan()
	if err := c.Put(ctx, "abc123", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := c.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected cached plan, got nil")
	}
	if got.Criterion != want.Criterion {
		t.Errorf("criterion = %q, want %q", got.Criterion, want.Criterion)
	}
	if len(got.Stops) != 1 || got.Stops[0].StationID != 4 {
		t.Errorf("stops = %+v, want single stop at station 4", got.Stops)
	}
	if got.TotalDistanceMiles != want.TotalDistanceMiles {
		t.Errorf("total distance = %v, want %v", got.TotalDistanceMiles, want.TotalDistanceMiles)
	}
}

func TestRedisPlanCacheMissIsNilNil(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), "never-stored")
	if err != nil {
		t.Fatalf("Get on miss: %v", err)
	}
	if got != nil {
		t.Fatalf("Get on miss = %+v, want nil", got)
	}
}

func TestRedisPlanCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "short-lived", samplePlan()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "short-lived")
	if err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if got != nil {
		t.Fatalf("Get after expiry = %+v, want nil", got)
	}
}

func TestRedisPlanCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)

	mr.Set(planKeyPrefix+"bad", "{not json")

	got, err := c.Get(context.Background(), "bad")
	if err != nil {
		t.Fatalf("Get on corrupt entry: %v", err)
	}
	if got != nil {
		t.Fatalf("Get on corrupt entry = %+v, want nil", got)
	}
}

func TestRequestFingerprintDeterministic(t *testing.T) {
	type req struct {
		Criterion string  `json:"criterion"`
		Lat       float64 `json:"lat"`
	}

	a, err := RequestFingerprint(req{Criterion: "price", Lat: 33.45})
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	b, err := RequestFingerprint(req{Criterion: "price", Lat: 33.45})
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if a != b {
		t.Errorf("identical requests fingerprint differently: %q vs %q", a, b)
	}

	other, err := RequestFingerprint(req{Criterion: "time", Lat: 33.45})
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	if a == other {
		t.Error("different requests share a fingerprint")
	}
}
