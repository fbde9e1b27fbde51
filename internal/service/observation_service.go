package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/trafficlab/speeds-backend-go/internal/models"
	"github.com/trafficlab/speeds-backend-go/internal/repository"
)

// ObservationService handles observation ingest. Accepted observations are
// durable and readable immediately; they are never mutated afterwards.
type ObservationService struct {
	segments        *repository.SegmentRepository
	observations    *repository.ObservationRepository
	defaultProvider string
}

// NewObservationService creates a new observation service
func NewObservationService(segments *repository.SegmentRepository, observations *repository.ObservationRepository, defaultProvider string) *ObservationService {
	return &ObservationService{
		segments:        segments,
		observations:    observations,
		defaultProvider: defaultProvider,
	}
}

func validateObservationInput(input models.ObservationInput) error {
	if input.ObservedAt.IsZero() {
		return fmt.Errorf("%w: observed_at is required", models.ErrValidation)
	}
	for _, m := range []struct {
		name  string
		value *float64
	}{
		{"speed_kmh", input.SpeedKmh},
		{"duration_s", input.DurationS},
		{"distance_m", input.DistanceM},
	} {
		if m.value != nil && *m.value < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", models.ErrValidation, m.name, *m.value)
		}
	}
	return nil
}

// Record validates and appends one observation. The referential check runs
// before the insert so an unknown segment never touches the store; the
// foreign key on the table is the backstop. Duplicate (segment, observed_at,
// provider) combinations are legal and stored as separate rows.
func (s *ObservationService) Record(ctx context.Context, input models.ObservationInput) (*models.SpeedObservation, error) {
	if err := validateObservationInput(input); err != nil {
		return nil, err
	}

	exists, err := s.segments.Exists(ctx, input.SegmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: segment %d", models.ErrUnknownSegment, input.SegmentID)
	}

	provider := input.Provider
	if provider == "" {
		provider = s.defaultProvider
	}

	obs := &models.SpeedObservation{
		SegmentID:  input.SegmentID,
		ObservedAt: input.ObservedAt.UTC(),
		SpeedKmh:   input.SpeedKmh,
		DurationS:  input.DurationS,
		DistanceM:  input.DistanceM,
		Provider:   provider,
		Raw:        input.Raw,
	}

	if _, err := s.observations.Insert(ctx, obs); err != nil {
		return nil, err
	}
	return obs, nil
}

// RecordBatch appends a batch of observations with per-item atomicity:
// each item is accepted or rejected on its own and a rejection never rolls
// back items already accepted.
func (s *ObservationService) RecordBatch(ctx context.Context, inputs []models.ObservationInput) (*models.BatchResult, error) {
	result := &models.BatchResult{
		BatchID: uuid.New().String(),
		Items:   make([]models.BatchItemResult, 0, len(inputs)),
	}

	for i, input := range inputs {
		obs, err := s.Record(ctx, input)
		if err != nil {
			result.Rejected++
			result.Items = append(result.Items, models.BatchItemResult{
				Index:  i,
				Reason: err.Error(),
			})
			continue
		}
		result.Accepted++
		result.Items = append(result.Items, models.BatchItemResult{
			Index:    i,
			ObsID:    obs.ID,
			Accepted: true,
		})
	}

	return result, nil
}

// Query returns a segment's observations within a time range, oldest first.
func (s *ObservationService) Query(ctx context.Context, segmentID int64, filter models.ObservationFilter) ([]models.SpeedObservation, error) {
	exists, err := s.segments.Exists(ctx, segmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: segment %d", models.ErrNotFound, segmentID)
	}
	return s.observations.Query(ctx, segmentID, filter)
}
