package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlab/speeds-backend-go/internal/database/dbtest"
	"github.com/trafficlab/speeds-backend-go/internal/models"
)

func f64(v float64) *float64 { return &v }

func TestObservationRepository(t *testing.T) {
	db := dbtest.New(t)
	segments := NewSegmentRepository(db)
	repo := NewObservationRepository(db)
	ctx := context.Background()

	segment, err := segments.Create(ctx, models.SegmentInput{Name: "Av. Test", Source: "osm"})
	require.NoError(t, err)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Insert", func(t *testing.T) {
		obs := &models.SpeedObservation{
			SegmentID:  segment.ID,
			ObservedAt: base,
			SpeedKmh:   f64(42.5),
			DurationS:  f64(30),
			DistanceM:  f64(354),
			Provider:   "google-routes",
			Raw:        `{"status":"OK"}`,
		}
		id, err := repo.Insert(ctx, obs)
		require.NoError(t, err)
		assert.NotZero(t, id)
		assert.Equal(t, id, obs.ID)
	})

	t.Run("InsertMonotonicIDs", func(t *testing.T) {
		var prev int64
		for i := 0; i < 5; i++ {
			obs := &models.SpeedObservation{
				SegmentID:  segment.ID,
				ObservedAt: base.Add(time.Duration(i) * time.Minute),
				Provider:   "test",
			}
			id, err := repo.Insert(ctx, obs)
			require.NoError(t, err)
			assert.Greater(t, id, prev)
			prev = id
		}
	})

	t.Run("InsertUnknownSegment", func(t *testing.T) {
		before, err := repo.Count(ctx)
		require.NoError(t, err)

		obs := &models.SpeedObservation{
			SegmentID:  99999,
			ObservedAt: base,
			Provider:   "test",
		}
		_, err = repo.Insert(ctx, obs)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrUnknownSegment)

		after, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after, "failed insert must not mutate the store")
	})

	t.Run("QueryOrderedAscending", func(t *testing.T) {
		other, err := segments.Create(ctx, models.SegmentInput{Name: "ordered"})
		require.NoError(t, err)

		// Insert out of chronological order.
		for _, offset := range []time.Duration{20 * time.Minute, 5 * time.Minute, 10 * time.Minute} {
			_, err := repo.Insert(ctx, &models.SpeedObservation{
				SegmentID:  other.ID,
				ObservedAt: base.Add(offset),
				Provider:   "test",
			})
			require.NoError(t, err)
		}

		observations, err := repo.Query(ctx, other.ID, models.ObservationFilter{})
		require.NoError(t, err)
		require.Len(t, observations, 3)
		for i := 1; i < len(observations); i++ {
			assert.True(t, !observations[i].ObservedAt.Before(observations[i-1].ObservedAt))
		}
	})

	t.Run("QueryTimeRange", func(t *testing.T) {
		ranged, err := segments.Create(ctx, models.SegmentInput{Name: "ranged"})
		require.NoError(t, err)

		for i := 0; i < 6; i++ {
			_, err := repo.Insert(ctx, &models.SpeedObservation{
				SegmentID:  ranged.ID,
				ObservedAt: base.Add(time.Duration(i) * time.Hour),
				Provider:   "test",
			})
			require.NoError(t, err)
		}

		observations, err := repo.Query(ctx, ranged.ID, models.ObservationFilter{
			From: base.Add(1 * time.Hour),
			To:   base.Add(3 * time.Hour),
		})
		require.NoError(t, err)
		assert.Len(t, observations, 3)
		assert.Equal(t, base.Add(1*time.Hour), observations[0].ObservedAt)
		assert.Equal(t, base.Add(3*time.Hour), observations[len(observations)-1].ObservedAt)
	})

	t.Run("QueryRestartable", func(t *testing.T) {
		first, err := repo.Query(ctx, segment.ID, models.ObservationFilter{})
		require.NoError(t, err)
		second, err := repo.Query(ctx, segment.ID, models.ObservationFilter{})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("LatestPerSegment", func(t *testing.T) {
		db := dbtest.New(t)
		segments := NewSegmentRepository(db)
		repo := NewObservationRepository(db)

		a, err := segments.Create(ctx, models.SegmentInput{Name: "a"})
		require.NoError(t, err)
		b, err := segments.Create(ctx, models.SegmentInput{Name: "b"})
		require.NoError(t, err)
		empty, err := segments.Create(ctx, models.SegmentInput{Name: "no data"})
		require.NoError(t, err)

		for i, speed := range []float64{40, 35, 50} {
			_, err := repo.Insert(ctx, &models.SpeedObservation{
				SegmentID:  a.ID,
				ObservedAt: base.Add(time.Duration(i) * 5 * time.Minute),
				SpeedKmh:   f64(speed),
				Provider:   "test",
			})
			require.NoError(t, err)
		}
		_, err = repo.Insert(ctx, &models.SpeedObservation{
			SegmentID:  b.ID,
			ObservedAt: base,
			SpeedKmh:   f64(12),
			Provider:   "test",
		})
		require.NoError(t, err)

		latest, err := repo.LatestPerSegment(ctx)
		require.NoError(t, err)
		require.Len(t, latest, 2)

		byID := make(map[int64]models.SpeedObservation)
		for _, o := range latest {
			byID[o.SegmentID] = o
		}
		require.Contains(t, byID, a.ID)
		require.Contains(t, byID, b.ID)
		assert.NotContains(t, byID, empty.ID)
		assert.Equal(t, base.Add(10*time.Minute), byID[a.ID].ObservedAt)
		assert.Equal(t, 50.0, *byID[a.ID].SpeedKmh)
	})

	t.Run("LatestPerSegmentTieBreak", func(t *testing.T) {
		db := dbtest.New(t)
		segments := NewSegmentRepository(db)
		repo := NewObservationRepository(db)

		seg, err := segments.Create(ctx, models.SegmentInput{Name: "tied"})
		require.NoError(t, err)

		// Same observed_at from two providers; the later insert must win.
		_, err = repo.Insert(ctx, &models.SpeedObservation{
			SegmentID: seg.ID, ObservedAt: base, SpeedKmh: f64(30), Provider: "A",
		})
		require.NoError(t, err)
		second := &models.SpeedObservation{
			SegmentID: seg.ID, ObservedAt: base, SpeedKmh: f64(25), Provider: "B",
		}
		_, err = repo.Insert(ctx, second)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			latest, err := repo.LatestPerSegment(ctx)
			require.NoError(t, err)
			require.Len(t, latest, 1)
			assert.Equal(t, second.ID, latest[0].ID)
			assert.Equal(t, "B", latest[0].Provider)
		}
	})
}
