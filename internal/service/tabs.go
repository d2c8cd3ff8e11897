package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/analytics"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/cache"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/database"
	rediscommon "github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/redis"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/composer"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/condition"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/config"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/consumer"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/httpapi"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/placeholder"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// TabService wires the composition engine to its stores, caches and HTTP surface
type TabService struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client

	settingsRepo *repository.TabSettingsRepository
	snapshots    *cache.SnapshotCache
	composer     *composer.Composer
	recorder     *analytics.Recorder
	publisher    *consumer.InvalidationPublisher
	consumer     *consumer.InvalidationConsumer
	server       *http.Server
}

// NewTabService connects to PostgreSQL and Redis and builds the service
func NewTabService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*TabService, error) {
	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := rediscommon.Connect(ctx, &cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	svc, err := newTabService(cfg, logger, db, redisClient)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}
	return svc, nil
}

func newTabService(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) (*TabService, error) {
	ruleRepo := repository.NewRuleRepository(db, logger)
	settingsRepo := repository.NewTabSettingsRepository(db, logger)

	var kv cache.KVStore
	if cfg.Tabs.SharedCache {
		kv = cache.NewRedisKVStore(redisClient)
	}
	snapshots := cache.NewSnapshotCache(kv, logger)

	tabComposer, err := composer.NewComposer(
		cache.NewCachedRuleStore(ruleRepo, snapshots, cfg.Tabs.RulesCacheTTL),
		cache.NewCachedSettingsStore(settingsRepo, snapshots, cfg.Tabs.SettingsCacheTTL),
		condition.NewEvaluator(logger),
		placeholder.NewExpander(cfg.Tabs.PriceLocale),
		models.DefaultBuiltInTabs(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create composer: %w", err)
	}

	sink, err := newAnalyticsSink(cfg, db)
	if err != nil {
		return nil, err
	}

	svc := &TabService{
		config:       cfg,
		logger:       logger,
		db:           db,
		redisClient:  redisClient,
		settingsRepo: settingsRepo,
		snapshots:    snapshots,
		composer:     tabComposer,
		recorder:     analytics.NewRecorder(sink, logger, cfg.Analytics.Timeout, 1024),
		publisher: consumer.NewInvalidationPublisher(
			redisClient,
			cfg.Tabs.InvalidationStream,
			cfg.Tabs.InstanceID,
			logger,
		),
		consumer: consumer.NewInvalidationConsumer(
			redisClient,
			snapshots,
			logger,
			cfg.Tabs.InvalidationStream,
			cfg.Tabs.ConsumerGroup,
			cfg.Tabs.InstanceID,
		),
	}

	router := httpapi.NewRouter(logger)
	router.RegisterTabRoutes(httpapi.NewTabsHandler(tabComposer, svc.recorder, svc, logger))
	router.RegisterHealthRoutes()
	svc.server = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return svc, nil
}

func newAnalyticsSink(cfg *config.Config, db *sql.DB) (analytics.Sink, error) {
	switch cfg.Analytics.Sink {
	case "postgres", "":
		return analytics.NewPostgresSink(repository.NewAnalyticsRepository(db)), nil
	case "http":
		if cfg.Analytics.Endpoint == "" {
			return nil, fmt.Errorf("ANALYTICS_ENDPOINT is required for the http analytics sink")
		}
		return analytics.NewHTTPSink(cfg.Analytics.Endpoint, cfg.Analytics.Timeout), nil
	case "none":
		return analytics.NopSink{}, nil
	default:
		return nil, fmt.Errorf("unsupported analytics sink: %s", cfg.Analytics.Sink)
	}
}

// Compose returns the visible tabs for req in display order
func (s *TabService) Compose(ctx context.Context, req *composer.Request) []models.OrderedTab {
	return s.composer.Compose(ctx, req)
}

// RenderContent renders a rule tab that survived the last Compose on req
func (s *TabService) RenderContent(req *composer.Request, tabID string) string {
	return s.composer.RenderContent(req, tabID)
}

// RecordView queues a tab view for the analytics sink
func (s *TabService) RecordView(ctx context.Context, tabID string, productID int64) {
	s.recorder.RecordView(ctx, tabID, productID)
}

// InvalidateCaches drops the rule and settings snapshots here and tells the
// other instances to do the same. Call it after a rule or setting write commits.
func (s *TabService) InvalidateCaches(ctx context.Context) error {
	if err := s.snapshots.Invalidate(ctx); err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, "invalidate_caches"); err != nil {
		return err
	}
	return nil
}

// SeedBuiltIns inserts settings for built-in tabs that have none and
// invalidates the settings snapshots when it inserted any
func (s *TabService) SeedBuiltIns(ctx context.Context) (int, error) {
	inserted, err := s.settingsRepo.SeedBuiltInTabs(ctx, models.DefaultBuiltInTabs())
	if err != nil || inserted == 0 {
		return inserted, err
	}
	if err := s.InvalidateCaches(ctx); err != nil {
		return inserted, fmt.Errorf("failed to invalidate caches after seeding: %w", err)
	}
	return inserted, nil
}

// Start runs the background workers and the HTTP server until ctx is done
func (s *TabService) Start(ctx context.Context) error {
	s.logger.Info("Starting product tab service",
		zap.String("addr", s.config.HTTP.Addr),
		zap.String("instance_id", s.config.Tabs.InstanceID),
		zap.Bool("shared_cache", s.config.Tabs.SharedCache),
		zap.String("analytics_sink", s.config.Analytics.Sink),
	)

	if s.config.Tabs.SeedBuiltIns {
		if _, err := s.SeedBuiltIns(ctx); err != nil {
			// composition works without seeded rows, unconfigured built-ins still show
			s.logger.Error("Failed to seed built-in tabs", zap.Error(err))
		}
	}

	s.recorder.Start(ctx)

	go func() {
		if err := s.consumer.Start(ctx); err != nil {
			s.logger.Error("Invalidation consumer stopped", zap.Error(err))
		}
	}()

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errChan:
		return fmt.Errorf("http server failed: %w", err)
	}
}

// Stop shuts down the HTTP server and closes connections
func (s *TabService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping product tab service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down http server: %w", err))
	}

	// flush queued views while the database is still open
	s.recorder.Close()

	if err := s.redisClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}

	return errors.Join(errs...)
}
