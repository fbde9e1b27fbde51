package models

import "time"

// SpeedObservation is a single timestamped measurement for a segment from a
// given provider. Observations are append-only: once stored they are never
// mutated or deleted, so the table doubles as the audit trail.
type SpeedObservation struct {
	ID         int64     `json:"obs_id" db:"obs_id"`
	SegmentID  int64     `json:"segment_id" db:"segment_id"`
	ObservedAt time.Time `json:"observed_at" db:"observed_at"` // measurement time, not insertion time

	SpeedKmh  *float64 `json:"speed_kmh,omitempty" db:"speed_kmh"`
	DurationS *float64 `json:"duration_s,omitempty" db:"duration_s"`
	DistanceM *float64 `json:"distance_m,omitempty" db:"distance_m"`

	Provider string `json:"provider" db:"provider"`
	Raw      string `json:"raw,omitempty" db:"raw"` // opaque audit payload, never parsed

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ObservationInput is the provider payload consumed by the ingest endpoints.
type ObservationInput struct {
	SegmentID  int64     `json:"segment_id"`
	ObservedAt time.Time `json:"observed_at"`
	SpeedKmh   *float64  `json:"speed_kmh"`
	DurationS  *float64  `json:"duration_s"`
	DistanceM  *float64  `json:"distance_m"`
	Provider   string    `json:"provider"`
	Raw        string    `json:"raw"`
}

// ObservationFilter bounds a time-range query. Zero times leave the
// corresponding side of the range open.
type ObservationFilter struct {
	From time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To   time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// BatchItemResult reports the outcome for one item of a batch ingest.
// Items are accepted or rejected independently; a rejected item never
// aborts observations already accepted in the same batch.
type BatchItemResult struct {
	Index    int    `json:"index"`
	ObsID    int64  `json:"obs_id,omitempty"`
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// BatchResult is the response for a batch ingest request.
type BatchResult struct {
	BatchID  string            `json:"batch_id"`
	Accepted int               `json:"accepted"`
	Rejected int               `json:"rejected"`
	Items    []BatchItemResult `json:"items"`
}
