package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"
)

// Snapshot keys. In the shared tier each is suffixed with the value of
// SnapshotVersionKey, see SharedSnapshotKey.
const (
	RulesSnapshotKey    = "product-tabs:snapshot:rules"
	SettingsSnapshotKey = "product-tabs:snapshot:settings"
	SnapshotVersionKey  = "product-tabs:snapshot:version"
)

var snapshotKeys = []string{RulesSnapshotKey, SettingsSnapshotKey}

// SharedSnapshotKey is the shared-tier key of snapshot key at version
func SharedSnapshotKey(key string, version int64) string {
	return fmt.Sprintf("%s:v%d", key, version)
}

// RuleSource supplies the active rule set ordered by priority
type RuleSource interface {
	ListActiveRules(ctx context.Context) ([]models.Rule, error)
}

// SettingsSource supplies per-tab override settings
type SettingsSource interface {
	ListTabSettings(ctx context.Context) ([]models.TabSetting, error)
}

// CachedRuleStore serves ListActiveRules from the snapshot cache
type CachedRuleStore struct {
	source RuleSource
	cache  *SnapshotCache
	ttl    time.Duration
}

// NewCachedRuleStore wraps source with a cache entry that lives for ttl
func NewCachedRuleStore(source RuleSource, cache *SnapshotCache, ttl time.Duration) *CachedRuleStore {
	return &CachedRuleStore{source: source, cache: cache, ttl: ttl}
}

func (s *CachedRuleStore) ListActiveRules(ctx context.Context) ([]models.Rule, error) {
	return load(ctx, s.cache, RulesSnapshotKey, s.ttl, s.source.ListActiveRules)
}

// CachedSettingsStore serves ListTabSettings from the snapshot cache
type CachedSettingsStore struct {
	source SettingsSource
	cache  *SnapshotCache
	ttl    time.Duration
}

// NewCachedSettingsStore wraps source with a cache entry that lives for ttl
func NewCachedSettingsStore(source SettingsSource, cache *SnapshotCache, ttl time.Duration) *CachedSettingsStore {
	return &CachedSettingsStore{source: source, cache: cache, ttl: ttl}
}

func (s *CachedSettingsStore) ListTabSettings(ctx context.Context) ([]models.TabSetting, error) {
	return load(ctx, s.cache, SettingsSnapshotKey, s.ttl, s.source.ListTabSettings)
}

// Invalidator is implemented by anything that can drop cached snapshots
type Invalidator interface {
	Invalidate(ctx context.Context) error
}
