package models

import "time"

// LatestSpeed is the most recent observation for a segment as of the last
// successful materializer refresh. It is fully derived from the observation
// log and disposable: dropping and rebuilding it loses nothing.
type LatestSpeed struct {
	SpeedObservation
	Color string `json:"color"` // display band for the speed value
}

// NetworkStats summarizes the materialized snapshot across the whole network.
type NetworkStats struct {
	SnapshotID       string    `json:"snapshot_id"`
	RefreshedAt      time.Time `json:"refreshed_at"`
	SegmentsWithData int       `json:"segments_with_data"`
	MeanSpeedKmh     *float64  `json:"mean_speed_kmh,omitempty"`
	Below15Kmh       int       `json:"below_15_kmh"`
	Below10Kmh       int       `json:"below_10_kmh"`
}

// Speed band colors, from free-flow green down to congested red.
const (
	ColorFreeFlow  = "#2E7D32" // >= 45 km/h
	ColorModerate  = "#F9A825" // >= 30 km/h
	ColorSlow      = "#EF6C00" // >= 15 km/h
	ColorCongested = "#C62828" // < 15 km/h
	ColorUnknown   = "#888888" // no speed value
)

// SpeedColor grades a speed value into its display band.
func SpeedColor(kmh *float64) string {
	if kmh == nil {
		return ColorUnknown
	}
	switch v := *kmh; {
	case v >= 45:
		return ColorFreeFlow
	case v >= 30:
		return ColorModerate
	case v >= 15:
		return ColorSlow
	default:
		return ColorCongested
	}
}
