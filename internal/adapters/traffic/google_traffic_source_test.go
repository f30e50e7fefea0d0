package traffic

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"fuelroute-service/internal/domain"
)

func TestLevelForFactor(t *testing.T) {
	cases := []struct {
		factor float64
		want   domain.TrafficLevel
	}{
		{1.0, domain.TrafficLight},
		{1.14, domain.TrafficLight},
		{1.15, domain.TrafficModerate},
		{1.39, domain.TrafficModerate},
		{1.4, domain.TrafficHeavy},
		{1.79, domain.TrafficHeavy},
		{1.8, domain.TrafficSevere},
		{3.2, domain.TrafficSevere},
	}
	for _, tc := range cases {
		if got := levelForFactor(tc.factor); got != tc.want {
			t.Errorf("levelForFactor(%v) = %q, want %q", tc.factor, got, tc.want)
		}
	}
}

func TestFormatLatLng(t *testing.T) {
	got := formatLatLng(domain.Location{Lat: 33.45, Lon: -112.07})
	want := "33.450000,-112.070000"
	if got != want {
		t.Errorf("formatLatLng = %q, want %q", got, want)
	}
}

type stubSource struct {
	conditions []domain.TrafficCondition
	err        error
}

func (s *stubSource) ActiveConditions(_ context.Context, _ []domain.Location, _ time.Time) ([]domain.TrafficCondition, error) {
	return s.conditions, s.err
}

type stubRecorder struct {
	recorded []domain.TrafficCondition
	err      error
}

func (r *stubRecorder) RecordConditions(_ context.Context, conditions []domain.TrafficCondition) error {
	r.recorded = append(r.recorded, conditions...)
	return r.err
}

func TestRecordingSourcePersistsFetchedConditions(t *testing.T) {
	fetched := []domain.TrafficCondition{
		{TrafficFactor: 1.5, Level: domain.TrafficHeavy, Source: "google_maps"},
	}
	recorder := &stubRecorder{}
	s := NewRecordingTrafficSource(&stubSource{conditions: fetched}, recorder, zap.NewNop())

	got, err := s.ActiveConditions(context.Background(), nil, time.Now())
	if err != nil {
		t.Fatalf("ActiveConditions: %v", err)
	}
	if len(got) != 1 || got[0].TrafficFactor != 1.5 {
		t.Fatalf("conditions = %+v, want the upstream condition", got)
	}
	if len(recorder.recorded) != 1 || recorder.recorded[0].Source != "google_maps" {
		t.Errorf("recorded = %+v, want the fetched condition stored", recorder.recorded)
	}
}

func TestRecordingSourceRecorderFailureIsBestEffort(t *testing.T) {
	fetched := []domain.TrafficCondition{{TrafficFactor: 1.2, Level: domain.TrafficModerate}}
	recorder := &stubRecorder{err: errors.New("db down")}
	s := NewRecordingTrafficSource(&stubSource{conditions: fetched}, recorder, zap.NewNop())

	got, err := s.ActiveConditions(context.Background(), nil, time.Now())
	if err != nil {
		t.Fatalf("ActiveConditions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("conditions = %+v, want upstream result despite recorder failure", got)
	}
}

func TestRecordingSourceUpstreamErrorSkipsRecording(t *testing.T) {
	recorder := &stubRecorder{}
	s := NewRecordingTrafficSource(&stubSource{err: errors.New("quota exceeded")}, recorder, zap.NewNop())

	if _, err := s.ActiveConditions(context.Background(), nil, time.Now()); err == nil {
		t.Fatal("expected upstream error")
	}
	if len(recorder.recorded) != 0 {
		t.Errorf("recorded = %+v, want nothing on upstream failure", recorder.recorded)
	}
}
