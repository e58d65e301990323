package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/domain"
	apperrors "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/errors"
)

// SnapshotRepository implements repository.SnapshotRepository using Redis.
// The snapshot is a JSON array of line items, the same shape the storefront
// keeps under its localStorage "cart" key.
type SnapshotRepository struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSnapshotRepository creates a Redis-backed snapshot repository writing to
// the given slot key. A zero TTL means the snapshot never expires.
func NewSnapshotRepository(client *redis.Client, key string, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Load reads the line collection from the slot.
func (r *SnapshotRepository) Load(ctx context.Context) ([]domain.LineItem, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart snapshot", r.key)
		}
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}

	var lines []domain.LineItem
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return lines, nil
}

// Save overwrites the slot with the given line collection.
func (r *SnapshotRepository) Save(ctx context.Context, lines []domain.LineItem) error {
	if lines == nil {
		lines = []domain.LineItem{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}

	return nil
}

// Delete removes the slot.
func (r *SnapshotRepository) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del snapshot: %w", err)
	}
	return nil
}
