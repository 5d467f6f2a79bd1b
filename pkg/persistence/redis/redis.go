// Package redis provides Redis persistence for graph documents. Each graph is
// a JSON string under nodegraph:graph:<id>; a sorted set scored by creation
// time indexes them for listing.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/persistence"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "nodegraph:graph:"
	indexKey  = "nodegraph:graphs"
)

// Persistence implements the persistence layer on a Redis server.
type Persistence struct {
	client redis.UniversalClient
	logger *slog.Logger
}

// NewPersistence connects using a redis:// or rediss:// URL.
func NewPersistence(ctx context.Context, logger *slog.Logger, redisURL string) (*Persistence, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return NewPersistenceWithClient(ctx, logger, redis.NewClient(options))
}

// NewPersistenceWithClient wraps an existing client, which is closed by Close.
func NewPersistenceWithClient(ctx context.Context, logger *slog.Logger, client redis.UniversalClient) (*Persistence, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Persistence{client: client, logger: logger}, nil
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}

	return nil
}

func (p *Persistence) GetByID(ctx context.Context, id string) (*models.GraphRecord, error) {
	data, err := p.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, persistence.NewGraphError("GetByID", id, persistence.ErrGraphNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get graph %s: %w", id, err)
	}

	return decode(id, data)
}

// Save runs as an optimistic transaction on the graph key, so a concurrent
// save cannot reset created_at.
func (p *Persistence) Save(ctx context.Context, record *models.GraphRecord) error {
	if err := persistence.ValidateGraphID(record.ID); err != nil {
		return persistence.NewGraphError("Save", record.ID, err)
	}

	key := keyPrefix + record.ID

	err := p.client.Watch(ctx, func(tx *redis.Tx) error {
		now := time.Now().UTC()

		existing, err := tx.Get(ctx, key).Bytes()

		switch {
		case err == nil:
			previous, err := decode(record.ID, existing)
			if err != nil {
				return err
			}

			record.CreatedAt = previous.CreatedAt
		case errors.Is(err, redis.Nil):
			if record.CreatedAt.IsZero() {
				record.CreatedAt = now
			}
		default:
			return err
		}

		record.UpdatedAt = now

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal graph %s: %w", record.ID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, indexKey, redis.Z{
				Score:  float64(record.CreatedAt.UnixMicro()),
				Member: record.ID,
			})

			return nil
		})

		return err
	}, key)
	if err != nil {
		return fmt.Errorf("failed to save graph %s: %w", record.ID, err)
	}

	return nil
}

func (p *Persistence) List(ctx context.Context) ([]*models.GraphRecord, error) {
	ids, err := p.client.ZRevRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	records := make([]*models.GraphRecord, 0, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}

	values, err := p.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load graphs: %w", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			p.logger.Warn("graph indexed but missing", "graph_id", ids[i])

			continue
		}

		record, err := decode(ids[i], []byte(raw))
		if err != nil {
			p.logger.Warn("skipping unreadable graph", "graph_id", ids[i], "error", err)

			continue
		}

		records = append(records, record)
	}

	return records, nil
}

func (p *Persistence) Delete(ctx context.Context, id string) error {
	var deleted *redis.IntCmd

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, keyPrefix+id)
		pipe.ZRem(ctx, indexKey, id)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete graph %s: %w", id, err)
	}

	if deleted.Val() == 0 {
		return persistence.NewGraphError("Delete", id, persistence.ErrGraphNotFound)
	}

	return nil
}

func decode(id string, data []byte) (*models.GraphRecord, error) {
	var record models.GraphRecord

	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode graph %s: %w", id, err)
	}

	return &record, nil
}
