package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// entry is one cached snapshot with its own expiry
type entry struct {
	value     any
	expiresAt time.Time
}

// SnapshotCache holds store snapshots across requests. Each key has an
// explicit expiry; Invalidate drops everything and bumps the generation so a
// load that started before the invalidation cannot write its result back.
// The shared tier gets the same guarantee from a version counter: loads read
// and write the keys of the version current when they started, and
// Invalidate increments it, so a late write lands on a key nobody reads.
//
// Cached values are shared by concurrent readers and must be treated as
// read-only.
type SnapshotCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	generation uint64

	// kv is the optional shared tier; nil keeps snapshots in-process only
	kv     KVStore
	now    func() time.Time
	logger *zap.Logger
}

// NewSnapshotCache creates a snapshot cache. kv may be nil.
func NewSnapshotCache(kv KVStore, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[string]entry),
		kv:      kv,
		now:     time.Now,
		logger:  logger,
	}
}

func (c *SnapshotCache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Generation increases by one on every invalidation
func (c *SnapshotCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// storeIfCurrent stores value unless an invalidation happened since gen was read
func (c *SnapshotCache) storeIfCurrent(key string, value any, ttl time.Duration, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return false
	}
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	return true
}

// InvalidateLocal drops every in-process entry
func (c *SnapshotCache) InvalidateLocal() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	c.logger.Debug("Invalidated local snapshot cache", zap.Uint64("generation", gen))
}

// Invalidate drops in-process entries and retires the shared-tier snapshots
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	c.InvalidateLocal()

	if c.kv == nil {
		return nil
	}
	version, err := c.kv.Incr(ctx, SnapshotVersionKey)
	if err != nil {
		return fmt.Errorf("failed to bump shared snapshot version: %w", err)
	}

	retired := make([]string, 0, len(snapshotKeys))
	for _, key := range snapshotKeys {
		retired = append(retired, SharedSnapshotKey(key, version-1))
	}
	if err := c.kv.Del(ctx, retired...); err != nil {
		// readers moved to the new version, the ttl expires these
		c.logger.Warn("Failed to delete retired shared snapshots",
			zap.Int64("version", version-1),
			zap.Error(err),
		)
	}
	return nil
}

// sharedVersion reads the shared snapshot version. A missing counter is
// version 0. ok is false when the shared tier must be skipped.
func (c *SnapshotCache) sharedVersion(ctx context.Context) (int64, bool) {
	if c.kv == nil {
		return 0, false
	}
	raw, err := c.kv.Get(ctx, SnapshotVersionKey)
	if errors.Is(err, ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		c.logger.Warn("Failed to read shared snapshot version", zap.Error(err))
		return 0, false
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.logger.Warn("Ignoring unparsable shared snapshot version",
			zap.String("value", raw),
			zap.Error(err),
		)
		return 0, false
	}
	return version, true
}

// load returns the cached snapshot for key or fetches it. Fetch errors are
// returned and never cached.
func load[T any](ctx context.Context, c *SnapshotCache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := c.get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	gen := c.Generation()

	version, shared := c.sharedVersion(ctx)
	sharedKey := SharedSnapshotKey(key, version)
	if shared {
		if value, ok := loadShared[T](ctx, c, key, sharedKey, gen, ttl); ok {
			return value, nil
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if c.storeIfCurrent(key, value, ttl, gen) && shared {
		c.storeShared(ctx, sharedKey, value, ttl)
	}

	return value, nil
}

// loadShared reads sharedKey from the shared tier and promotes it to the
// local tier under key
func loadShared[T any](ctx context.Context, c *SnapshotCache, key, sharedKey string, gen uint64, ttl time.Duration) (T, bool) {
	var value T

	raw, err := c.kv.Get(ctx, sharedKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("Failed to read shared snapshot",
				zap.String("key", sharedKey),
				zap.Error(err),
			)
		}
		return value, false
	}

	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		c.logger.Warn("Discarding undecodable shared snapshot",
			zap.String("key", sharedKey),
			zap.Error(err),
		)
		return value, false
	}

	c.storeIfCurrent(key, value, ttl, gen)
	return value, true
}

func (c *SnapshotCache) storeShared(ctx context.Context, key string, value any, ttl time.Duration) {
	jsonData, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.kv.Set(ctx, key, string(jsonData), ttl); err != nil {
		c.logger.Warn("Failed to write shared snapshot", zap.String("key", key), zap.Error(err))
		return
	}

	c.logger.Debug("Updated shared snapshot",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)
}
