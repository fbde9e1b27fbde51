package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trafficlab/speeds-backend-go/internal/models"
	"github.com/trafficlab/speeds-backend-go/internal/repository"
	"github.com/trafficlab/speeds-backend-go/internal/spatial"
)

// SegmentService owns the road segment registry: creation, metadata
// updates, lookups and GeoJSON network import. Segment ids are assigned on
// creation and immutable; segments are never deleted.
type SegmentService struct {
	repo *repository.SegmentRepository
}

// NewSegmentService creates a new segment service
func NewSegmentService(repo *repository.SegmentRepository) *SegmentService {
	return &SegmentService{repo: repo}
}

func validateSegmentInput(input models.SegmentInput) error {
	if input.LengthM != nil && *input.LengthM < 0 {
		return fmt.Errorf("%w: length_m must be non-negative, got %v", models.ErrValidation, *input.LengthM)
	}
	return nil
}

// Create registers a new segment and returns it with its fresh id.
func (s *SegmentService) Create(ctx context.Context, input models.SegmentInput) (*models.Segment, error) {
	if err := validateSegmentInput(input); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, input)
}

// Get retrieves a segment by id.
func (s *SegmentService) Get(ctx context.Context, id int64) (*models.Segment, error) {
	segment, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, fmt.Errorf("%w: segment %d", models.ErrNotFound, id)
	}
	return segment, nil
}

// List retrieves all segments ordered by id.
func (s *SegmentService) List(ctx context.Context) ([]models.Segment, error) {
	return s.repo.List(ctx)
}

// Update overwrites a segment's metadata. The id never changes.
func (s *SegmentService) Update(ctx context.Context, id int64, input models.SegmentInput) (*models.Segment, error) {
	if err := validateSegmentInput(input); err != nil {
		return nil, err
	}
	segment, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}
	if segment == nil {
		return nil, fmt.Errorf("%w: segment %d", models.ErrNotFound, id)
	}
	return segment, nil
}

// ImportGeoJSON registers one segment per LineString feature of a road
// network FeatureCollection. Feature name and ref come from the GeoJSON
// properties; length is computed from the coordinates when the feature
// does not carry one. Non-LineString features are skipped, not fatal.
func (s *SegmentService) ImportGeoJSON(ctx context.Context, fc models.FeatureCollection, source string) ([]models.ImportResult, error) {
	results := make([]models.ImportResult, 0, len(fc.Features))

	for i, feature := range fc.Features {
		if feature.Geometry.Type != "LineString" {
			results = append(results, models.ImportResult{
				Index:   i,
				Skipped: true,
				Reason:  fmt.Sprintf("unsupported geometry type %q", feature.Geometry.Type),
			})
			continue
		}

		coords, err := feature.Geometry.LineCoordinates()
		if err != nil {
			results = append(results, models.ImportResult{
				Index:   i,
				Skipped: true,
				Reason:  fmt.Sprintf("malformed LineString coordinates: %v", err),
			})
			continue
		}
		if len(coords) < 2 {
			results = append(results, models.ImportResult{
				Index:   i,
				Skipped: true,
				Reason:  "degenerate LineString",
			})
			continue
		}

		geometry, err := json.Marshal(feature.Geometry)
		if err != nil {
			results = append(results, models.ImportResult{
				Index:   i,
				Skipped: true,
				Reason:  fmt.Sprintf("geometry encoding: %v", err),
			})
			continue
		}

		length := spatial.LineStringLength(coords)
		input := models.SegmentInput{
			Name:     feature.Property("name"),
			Source:   source,
			RefCode:  feature.Property("ref"),
			LengthM:  &length,
			Geometry: string(geometry),
		}

		segment, err := s.repo.Create(ctx, input)
		if err != nil {
			return results, fmt.Errorf("import feature %d: %w", i, err)
		}
		results = append(results, models.ImportResult{Index: i, SegmentID: segment.ID})
	}

	return results, nil
}
