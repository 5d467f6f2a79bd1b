// Package persistencetest holds the behavior every persistence backend must share.
package persistencetest

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SampleRecord returns a two-node wave graph stored under id.
func SampleRecord(id string) *models.GraphRecord {
	return &models.GraphRecord{
		ID:   id,
		Name: "Wave " + id,
		Document: models.SerializedGraph{
			Nodes: []models.SerializedNode{
				{
					ID:         "wave_1",
					Type:       "wave_start",
					Properties: map[string]any{"wave_number": 3.0, "enemy_count": 5.0},
					Outputs: []models.SerializedPort{
						{Name: "wave_data", Type: models.PortKindData, IsOutput: true},
						{Name: "on_start", Type: models.PortKindFlow, IsOutput: true},
					},
				},
				{ID: "spawn_1", Type: "enemy_spawn", Properties: map[string]any{}},
			},
			Connections: []models.Connection{
				{ID: "conn_1", FromNodeID: "wave_1", FromPort: "on_start", ToNodeID: "spawn_1", ToPort: "trigger"},
			},
		},
	}
}

// RunGraphRepositorySuite exercises p through the GraphRepository contract.
// p must start empty.
func RunGraphRepositorySuite(ctx context.Context, t *testing.T, p persistence.Persistence) {
	t.Helper()

	t.Run("health check", func(t *testing.T) {
		require.NoError(t, p.HealthCheck(ctx))
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := p.GetByID(ctx, "missing")
		require.ErrorIs(t, err, persistence.ErrGraphNotFound)
	})

	t.Run("save and get", func(t *testing.T) {
		record := SampleRecord("level-1")
		require.NoError(t, p.Save(ctx, record))

		assert.False(t, record.CreatedAt.IsZero())
		assert.False(t, record.UpdatedAt.IsZero())

		loaded, err := p.GetByID(ctx, "level-1")
		require.NoError(t, err)

		assert.Equal(t, record.Name, loaded.Name)
		assert.Equal(t, record.Document, loaded.Document)
		assert.WithinDuration(t, record.CreatedAt, loaded.CreatedAt, time.Millisecond)
	})

	t.Run("save keeps created at", func(t *testing.T) {
		first, err := p.GetByID(ctx, "level-1")
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		updated := SampleRecord("level-1")
		updated.Name = "Renamed"
		require.NoError(t, p.Save(ctx, updated))

		loaded, err := p.GetByID(ctx, "level-1")
		require.NoError(t, err)

		assert.Equal(t, "Renamed", loaded.Name)
		assert.WithinDuration(t, first.CreatedAt, loaded.CreatedAt, time.Millisecond)
		assert.True(t, loaded.UpdatedAt.After(first.UpdatedAt))
	})

	t.Run("list newest first", func(t *testing.T) {
		time.Sleep(5 * time.Millisecond)
		require.NoError(t, p.Save(ctx, SampleRecord("level-2")))

		records, err := p.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "level-2", records[0].ID)
		assert.Equal(t, "level-1", records[1].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, p.Delete(ctx, "level-1"))
		require.ErrorIs(t, p.Delete(ctx, "level-1"), persistence.ErrGraphNotFound)

		_, err := p.GetByID(ctx, "level-1")
		require.ErrorIs(t, err, persistence.ErrGraphNotFound)

		records, err := p.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "level-2", records[0].ID)
	})
}

// Logger discards everything; backends under test still need one.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
