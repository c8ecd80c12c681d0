package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// RecordCacheTTL is the time-to-live for cached records.
	RecordCacheTTL = 24 * time.Hour

	recordCacheKeyPrefix = "record"
)

// CachedRecord is the read model stored in Redis as a hash.
// ID is canonical UUID text; ParentID is empty for root records.
type CachedRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordCache reads and writes record cache entries.
// Key format: "record:{id}"
type RecordCache struct {
	client *RedisClient
}

// NewRecordCache creates a new RecordCache backed by the given RedisClient.
func NewRecordCache(r *RedisClient) *RecordCache {
	return &RecordCache{client: r}
}

// Get retrieves a cached record. Returns redis.Nil when the key does not
// exist or has expired.
func (c *RecordCache) Get(ctx context.Context, id string) (*CachedRecord, error) {
	vals, err := c.client.Client().HGetAll(ctx, key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}

	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	return &CachedRecord{
		ID:        vals["id"],
		Name:      vals["name"],
		ParentID:  vals["parent_id"],
		CreatedAt: createdAt,
	}, nil
}

// Set writes a cached record with RecordCacheTTL in one pipeline.
func (c *RecordCache) Set(ctx context.Context, rec *CachedRecord) error {
	k := key(rec.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, k)
	pipe.HSet(ctx, k,
		"id", rec.ID,
		"name", rec.Name,
		"parent_id", rec.ParentID,
		"created_at", rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, k, RecordCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached record.
func (c *RecordCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Client().Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

func key(id string) string {
	return recordCacheKeyPrefix + ":" + id
}
