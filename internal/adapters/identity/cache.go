package identity

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// NameRecord is a cached display name and when it was fetched.
type NameRecord struct {
	Name      string
	UpdatedAt time.Time
}

// NameCache stores resolved names. Records are never expired by the cache
// itself; staleness is judged by the resolver so old names can serve as a
// fallback.
type NameCache interface {
	Lookup(ctx context.Context, uuid string) (NameRecord, bool, error)
	Store(ctx context.Context, uuid string, rec NameRecord) error
}

// MemoryNameCache is a process-local NameCache.
type MemoryNameCache struct {
	mu      sync.RWMutex
	records map[string]NameRecord
}

// NewMemoryNameCache creates an empty cache.
func NewMemoryNameCache() *MemoryNameCache {
	return &MemoryNameCache{records: make(map[string]NameRecord)}
}

// Lookup returns the record for uuid.
func (c *MemoryNameCache) Lookup(_ context.Context, uuid string) (NameRecord, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.records[uuid]
	return rec, ok, nil
}

// Store saves rec for uuid.
func (c *MemoryNameCache) Store(_ context.Context, uuid string, rec NameRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[uuid] = rec
	return nil
}

const (
	redisKeyPrefix = "academy:username:"
	fieldName      = "username"
	fieldUpdatedAt = "updated_at"
)

// RedisNameCache keeps names in Redis hashes, one per player.
type RedisNameCache struct {
	client redis.UniversalClient
}

// NewRedisNameCache wraps client.
func NewRedisNameCache(client redis.UniversalClient) *RedisNameCache {
	return &RedisNameCache{client: client}
}

// Lookup reads the hash for uuid. A missing or unparsable hash is a miss.
func (c *RedisNameCache) Lookup(ctx context.Context, uuid string) (NameRecord, bool, error) {
	vals, err := c.client.HGetAll(ctx, redisKeyPrefix+uuid).Result()
	if errors.Is(err, redis.Nil) {
		return NameRecord{}, false, nil
	}
	if err != nil {
		return NameRecord{}, false, err
	}
	name, ok := vals[fieldName]
	if !ok {
		return NameRecord{}, false, nil
	}
	rec := NameRecord{Name: name}
	if ts, err := strconv.ParseInt(vals[fieldUpdatedAt], 10, 64); err == nil {
		rec.UpdatedAt = time.Unix(ts, 0).UTC()
	}
	return rec, true, nil
}

// Store writes the hash for uuid.
func (c *RedisNameCache) Store(ctx context.Context, uuid string, rec NameRecord) error {
	return c.client.HSet(ctx, redisKeyPrefix+uuid,
		fieldName, rec.Name,
		fieldUpdatedAt, strconv.FormatInt(rec.UpdatedAt.Unix(), 10),
	).Err()
}

// Ping checks connectivity.
func (c *RedisNameCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
