package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlab/speeds-backend-go/internal/database/dbtest"
	"github.com/trafficlab/speeds-backend-go/internal/models"
)

func TestSegmentRepository(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSegmentRepository(db)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		length := 350.5
		segment, err := repo.Create(ctx, models.SegmentInput{
			Name:    "Av. Principal",
			Source:  "osm",
			RefCode: "way/1234",
			LengthM: &length,
		})
		require.NoError(t, err)
		assert.NotZero(t, segment.ID)
		assert.Equal(t, "Av. Principal", segment.Name)
		require.NotNil(t, segment.LengthM)
		assert.Equal(t, 350.5, *segment.LengthM)
	})

	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) {
		first, err := repo.Create(ctx, models.SegmentInput{Name: "a"})
		require.NoError(t, err)
		second, err := repo.Create(ctx, models.SegmentInput{Name: "b"})
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("ByID", func(t *testing.T) {
		created, err := repo.Create(ctx, models.SegmentInput{Name: "Calle 2", Source: "osm"})
		require.NoError(t, err)

		segment, err := repo.ByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, segment)
		assert.Equal(t, created.ID, segment.ID)
		assert.Equal(t, "Calle 2", segment.Name)
		assert.Nil(t, segment.LengthM)
	})

	t.Run("ByIDNotFound", func(t *testing.T) {
		segment, err := repo.ByID(ctx, 99999)
		require.NoError(t, err)
		assert.Nil(t, segment)
	})

	t.Run("ListOrderedByID", func(t *testing.T) {
		segments, err := repo.List(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, segments)
		for i := 1; i < len(segments); i++ {
			assert.Greater(t, segments[i].ID, segments[i-1].ID)
		}
	})

	t.Run("Update", func(t *testing.T) {
		created, err := repo.Create(ctx, models.SegmentInput{Name: "old name"})
		require.NoError(t, err)

		length := 120.0
		updated, err := repo.Update(ctx, created.ID, models.SegmentInput{
			Name:    "new name",
			Source:  "manual",
			LengthM: &length,
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "new name", updated.Name)
		require.NotNil(t, updated.LengthM)
		assert.Equal(t, 120.0, *updated.LengthM)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		updated, err := repo.Update(ctx, 99999, models.SegmentInput{Name: "x"})
		require.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("Exists", func(t *testing.T) {
		created, err := repo.Create(ctx, models.SegmentInput{Name: "exists"})
		require.NoError(t, err)

		exists, err := repo.Exists(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.Exists(ctx, 99999)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
