package traffic

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fuelroute-service/internal/domain"
	"fuelroute-service/internal/ports"
)

// ConditionRecorder persists fetched traffic conditions.
type ConditionRecorder interface {
	RecordConditions(ctx context.Context, conditions []domain.TrafficCondition) error
}

// RecordingTrafficSource forwards lookups to an upstream source and stores
// whatever it returns, so conditions fetched from an external API remain
// available to later requests until they expire. Recording is best-effort:
// a storage failure never fails the lookup.
type RecordingTrafficSource struct {
	upstream ports.TrafficSource
	recorder ConditionRecorder
	log      *zap.Logger
}

func NewRecordingTrafficSource(upstream ports.TrafficSource, recorder ConditionRecorder, log *zap.Logger) *RecordingTrafficSource {
	return &RecordingTrafficSource{upstream: upstream, recorder: recorder, log: log}
}

func (s *RecordingTrafficSource) ActiveConditions(ctx context.Context, corridor []domain.Location, at time.Time) ([]domain.TrafficCondition, error) {
	conditions, err := s.upstream.ActiveConditions(ctx, corridor, at)
	if err != nil {
		return nil, err
	}

	if len(conditions) > 0 {
		if err := s.recorder.RecordConditions(ctx, conditions); err != nil {
			s.log.Warn("record traffic conditions failed", zap.Error(err))
		}
	}

	return conditions, nil
}
