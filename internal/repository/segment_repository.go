package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/trafficlab/speeds-backend-go/internal/models"
)

// SegmentRepository handles database operations for the segment registry.
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new segment repository
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

const segmentColumns = `segment_id, name, source, ref_code, length_m, geometry, created_at, updated_at`

func scanSegment(row interface{ Scan(...interface{}) error }) (*models.Segment, error) {
	var s models.Segment
	var lengthM sql.NullFloat64
	var createdAt, updatedAt int64
	err := row.Scan(&s.ID, &s.Name, &s.Source, &s.RefCode, &lengthM, &s.Geometry, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if lengthM.Valid {
		s.LengthM = &lengthM.Float64
	}
	s.CreatedAt = time.UnixMilli(createdAt).UTC()
	s.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &s, nil
}

// Create inserts a new segment and returns it with its assigned id.
func (r *SegmentRepository) Create(ctx context.Context, input models.SegmentInput) (*models.Segment, error) {
	now := time.Now().UnixMilli()

	var lengthM interface{}
	if input.LengthM != nil {
		lengthM = *input.LengthM
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO segments (name, source, ref_code, length_m, geometry, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		input.Name, input.Source, input.RefCode, lengthM, input.Geometry, now, now)
	if err != nil {
		return nil, fmt.Errorf("%w: insert segment: %v", models.ErrStoreUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("%w: segment insert id: %v", models.ErrStoreUnavailable, err)
	}

	return &models.Segment{
		ID:        id,
		Name:      input.Name,
		Source:    input.Source,
		RefCode:   input.RefCode,
		LengthM:   input.LengthM,
		Geometry:  input.Geometry,
		CreatedAt: time.UnixMilli(now).UTC(),
		UpdatedAt: time.UnixMilli(now).UTC(),
	}, nil
}

// ByID retrieves a single segment by id, returning nil when absent.
func (r *SegmentRepository) ByID(ctx context.Context, id int64) (*models.Segment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+segmentColumns+` FROM segments WHERE segment_id = ?`, id)

	s, err := scanSegment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get segment: %v", models.ErrStoreUnavailable, err)
	}
	return s, nil
}

// List retrieves all segments in stable id order.
func (r *SegmentRepository) List(ctx context.Context) ([]models.Segment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+segmentColumns+` FROM segments ORDER BY segment_id`)
	if err != nil {
		return nil, fmt.Errorf("%w: list segments: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var segments []models.Segment
	for rows.Next() {
		s, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan segment: %v", models.ErrStoreUnavailable, err)
		}
		segments = append(segments, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list segments: %v", models.ErrStoreUnavailable, err)
	}
	return segments, nil
}

// Update overwrites the mutable metadata of a segment. The id itself is
// immutable and rows are never deleted.
func (r *SegmentRepository) Update(ctx context.Context, id int64, input models.SegmentInput) (*models.Segment, error) {
	var lengthM interface{}
	if input.LengthM != nil {
		lengthM = *input.LengthM
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE segments SET name = ?, source = ?, ref_code = ?, length_m = ?, geometry = ?, updated_at = ?
		 WHERE segment_id = ?`,
		input.Name, input.Source, input.RefCode, lengthM, input.Geometry, time.Now().UnixMilli(), id)
	if err != nil {
		return nil, fmt.Errorf("%w: update segment: %v", models.ErrStoreUnavailable, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: update segment: %v", models.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return nil, nil
	}
	return r.ByID(ctx, id)
}

// Exists reports whether a segment id is registered.
func (r *SegmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM segments WHERE segment_id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: segment exists: %v", models.ErrStoreUnavailable, err)
	}
	return true, nil
}
