package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trafficlab/speeds-backend-go/internal/models"
	"github.com/trafficlab/speeds-backend-go/internal/repository"
)

// LatestService materializes the latest observation per segment.
//
// Staleness is an explicit operational contract: readers see the snapshot
// published by the last successful Refresh, not the live store. How stale
// that is depends entirely on how often Refresh runs — either the
// background loop (REFRESH_INTERVAL) or the manual refresh endpoint.
//
// A refresh that races a concurrent insert may or may not include it
// (eventual, not transactional, consistency). Nothing is ever lost either
// way: the append-only observation log is the source of truth and the next
// refresh picks the insert up.
type LatestService struct {
	observations *repository.ObservationRepository

	mu   sync.RWMutex
	snap *snapshot // nil until the first successful refresh
}

// snapshot is an immutable published view. Refresh builds a fresh one off
// to the side and swaps it in atomically, so readers never see a partially
// updated mapping and a cancelled refresh leaves the previous snapshot
// intact.
type snapshot struct {
	id          string
	refreshedAt time.Time
	bySegment   map[int64]models.LatestSpeed
}

// NewLatestService creates a new latest-value service
func NewLatestService(observations *repository.ObservationRepository) *LatestService {
	return &LatestService{observations: observations}
}

// Refresh recomputes the full latest-per-segment mapping from the
// observation log. Ties on observed_at resolve to the highest obs_id
// (the later insert wins), so repeated refreshes over unchanged data are
// idempotent. Safe to call concurrently with ingestion and with readers.
func (s *LatestService) Refresh(ctx context.Context) error {
	started := time.Now()

	rows, err := s.observations.LatestPerSegment(ctx)
	if err != nil {
		return fmt.Errorf("refresh latest view: %w", err)
	}
	if err := ctx.Err(); err != nil {
		// Cancelled after the sweep: keep the previous snapshot.
		return err
	}

	bySegment := make(map[int64]models.LatestSpeed, len(rows))
	for _, o := range rows {
		bySegment[o.SegmentID] = models.LatestSpeed{
			SpeedObservation: o,
			Color:            models.SpeedColor(o.SpeedKmh),
		}
	}

	next := &snapshot{
		id:          uuid.New().String(),
		refreshedAt: time.Now().UTC(),
		bySegment:   bySegment,
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	log.Printf("Latest view refreshed: %d segments in %v (snapshot %s)",
		len(bySegment), time.Since(started), next.id)
	return nil
}

func (s *LatestService) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// GetLatest returns the materialized latest observation for a segment, as
// of the last successful Refresh. Before the first refresh, and for
// segments with no observations at refresh time, the result is a not-found.
func (s *LatestService) GetLatest(segmentID int64) (*models.LatestSpeed, error) {
	snap := s.current()
	if snap == nil {
		return nil, fmt.Errorf("%w: latest view not materialized yet", models.ErrNotFound)
	}
	latest, ok := snap.bySegment[segmentID]
	if !ok {
		return nil, fmt.Errorf("%w: no observations materialized for segment %d", models.ErrNotFound, segmentID)
	}
	return &latest, nil
}

// GetAllLatest returns the full materialized mapping. The returned map is
// a copy; the published snapshot itself is never mutated.
func (s *LatestService) GetAllLatest() map[int64]models.LatestSpeed {
	snap := s.current()
	if snap == nil {
		return map[int64]models.LatestSpeed{}
	}
	out := make(map[int64]models.LatestSpeed, len(snap.bySegment))
	for id, latest := range snap.bySegment {
		out[id] = latest
	}
	return out
}

// Stats summarizes the current snapshot: segments with data, mean speed,
// and congestion counts below 15 and 10 km/h.
func (s *LatestService) Stats() (*models.NetworkStats, error) {
	snap := s.current()
	if snap == nil {
		return nil, fmt.Errorf("%w: latest view not materialized yet", models.ErrNotFound)
	}

	stats := &models.NetworkStats{
		SnapshotID:  snap.id,
		RefreshedAt: snap.refreshedAt,
	}

	var sum float64
	var n int
	for _, latest := range snap.bySegment {
		if latest.SpeedKmh == nil {
			continue
		}
		v := *latest.SpeedKmh
		sum += v
		n++
		if v < 15 {
			stats.Below15Kmh++
		}
		if v < 10 {
			stats.Below10Kmh++
		}
	}
	stats.SegmentsWithData = n
	if n > 0 {
		mean := sum / float64(n)
		stats.MeanSpeedKmh = &mean
	}
	return stats, nil
}

// RunPeriodic refreshes immediately and then on every tick until the
// context is cancelled. Failed refreshes are logged and retried on the
// next tick; the previous snapshot stays live in between.
func (s *LatestService) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
		log.Printf("Initial latest-view refresh failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Latest-view refresh failed: %v", err)
			}
		}
	}
}
