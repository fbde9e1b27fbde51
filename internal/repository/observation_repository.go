package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/trafficlab/speeds-backend-go/internal/models"
)

// ObservationRepository handles database operations for the append-only
// speed observation log. There are no update or delete operations: rows
// are immutable once written and the table is the audit trail.
type ObservationRepository struct {
	db *sql.DB
}

// NewObservationRepository creates a new observation repository
func NewObservationRepository(db *sql.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

const observationColumns = `obs_id, segment_id, observed_at, speed_kmh, duration_s, distance_m, provider, raw, created_at`

func scanObservation(row interface{ Scan(...interface{}) error }) (*models.SpeedObservation, error) {
	var o models.SpeedObservation
	var observedAt, createdAt int64
	var speed, duration, distance sql.NullFloat64
	err := row.Scan(&o.ID, &o.SegmentID, &observedAt, &speed, &duration, &distance, &o.Provider, &o.Raw, &createdAt)
	if err != nil {
		return nil, err
	}
	if speed.Valid {
		o.SpeedKmh = &speed.Float64
	}
	if duration.Valid {
		o.DurationS = &duration.Float64
	}
	if distance.Valid {
		o.DistanceM = &distance.Float64
	}
	o.ObservedAt = time.UnixMilli(observedAt).UTC()
	o.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &o, nil
}

func nullable(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// Insert appends one observation and returns its assigned obs_id.
// AUTOINCREMENT guarantees strictly increasing ids in insertion order.
func (r *ObservationRepository) Insert(ctx context.Context, o *models.SpeedObservation) (int64, error) {
	now := time.Now().UnixMilli()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO speed_observations (segment_id, observed_at, speed_kmh, duration_s, distance_m, provider, raw, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.SegmentID, o.ObservedAt.UnixMilli(),
		nullable(o.SpeedKmh), nullable(o.DurationS), nullable(o.DistanceM),
		o.Provider, o.Raw, now)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return 0, fmt.Errorf("%w: segment %d", models.ErrUnknownSegment, o.SegmentID)
		}
		return 0, fmt.Errorf("%w: insert observation: %v", models.ErrStoreUnavailable, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: observation insert id: %v", models.ErrStoreUnavailable, err)
	}

	o.ID = id
	o.CreatedAt = time.UnixMilli(now).UTC()
	return id, nil
}

// Query returns the observations for a segment within a time range, ordered
// by observed_at ascending with obs_id as the secondary key. Re-querying
// the same stored state yields the same result.
func (r *ObservationRepository) Query(ctx context.Context, segmentID int64, filter models.ObservationFilter) ([]models.SpeedObservation, error) {
	query := `SELECT ` + observationColumns + ` FROM speed_observations WHERE segment_id = ?`
	args := []interface{}{segmentID}

	if !filter.From.IsZero() {
		query += " AND observed_at >= ?"
		args = append(args, filter.From.UnixMilli())
	}
	if !filter.To.IsZero() {
		query += " AND observed_at <= ?"
		args = append(args, filter.To.UnixMilli())
	}
	query += " ORDER BY observed_at ASC, obs_id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query observations: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var observations []models.SpeedObservation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan observation: %v", models.ErrStoreUnavailable, err)
		}
		observations = append(observations, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: query observations: %v", models.ErrStoreUnavailable, err)
	}
	return observations, nil
}

// LatestPerSegment performs the max-per-segment sweep in a single query.
// Ties on observed_at resolve to the highest obs_id, so repeated sweeps
// over the same stored state always pick the same row.
func (r *ObservationRepository) LatestPerSegment(ctx context.Context) ([]models.SpeedObservation, error) {
	query := `
		SELECT ` + observationColumns + ` FROM (
			SELECT *, ROW_NUMBER() OVER (
				PARTITION BY segment_id
				ORDER BY observed_at DESC, obs_id DESC
			) AS rn
			FROM speed_observations
		) WHERE rn = 1
		ORDER BY segment_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: latest per segment: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var observations []models.SpeedObservation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan observation: %v", models.ErrStoreUnavailable, err)
		}
		observations = append(observations, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: latest per segment: %v", models.ErrStoreUnavailable, err)
	}
	return observations, nil
}

// Count returns the total number of stored observations.
func (r *ObservationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM speed_observations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count observations: %v", models.ErrStoreUnavailable, err)
	}
	return count, nil
}
