package models

import (
	"encoding/json"
	"time"
)

// Segment represents a stretch of road with static metadata. Segments are
// created by an administrative/import process, mutated only to update
// metadata, and never deleted once observations reference them.
type Segment struct {
	ID       int64    `json:"segment_id" db:"segment_id"`
	Name     string   `json:"name,omitempty" db:"name"`
	Source   string   `json:"source,omitempty" db:"source"`     // provenance tag, e.g. map provider name
	RefCode  string   `json:"ref_code,omitempty" db:"ref_code"` // external correlation identifier
	LengthM  *float64 `json:"length_m,omitempty" db:"length_m"` // meters, nil when unknown
	Geometry string   `json:"geometry,omitempty" db:"geometry"` // serialized shape, opaque to this service

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SegmentInput carries the mutable fields for creating or updating a segment.
type SegmentInput struct {
	Name     string   `json:"name"`
	Source   string   `json:"source"`
	RefCode  string   `json:"ref_code"`
	LengthM  *float64 `json:"length_m"`
	Geometry string   `json:"geometry"`
}

// GeoJSON network import types. Only LineString features register segments;
// the coordinate lists are kept verbatim as the segment geometry.

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature keeps properties loosely typed: real-world GeoJSON carries
// numeric, boolean and null property values alongside strings.
type Feature struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   Geometry               `json:"geometry"`
}

// Geometry defers coordinate decoding: the nesting of the coordinates
// array depends on the geometry type (a Point is a flat pair, a
// LineString a list of pairs), so coordinates only parse after the type
// check — a mismatched feature skips instead of failing the collection.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// LineCoordinates decodes the coordinates as a LineString point list
// ([lon, lat] pairs).
func (g Geometry) LineCoordinates() ([][]float64, error) {
	var coords [][]float64
	if err := json.Unmarshal(g.Coordinates, &coords); err != nil {
		return nil, err
	}
	return coords, nil
}

// Property returns a string property value, or "" when the key is absent
// or holds a non-string value.
func (f Feature) Property(key string) string {
	if v, ok := f.Properties[key].(string); ok {
		return v
	}
	return ""
}

// ImportResult reports the outcome for a single feature of a GeoJSON import.
type ImportResult struct {
	Index     int    `json:"index"`
	SegmentID int64  `json:"segment_id,omitempty"`
	Skipped   bool   `json:"skipped,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
