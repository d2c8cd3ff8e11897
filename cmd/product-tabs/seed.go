package main

import (
	"context"
	"fmt"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/database"
	rediscommon "github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/redis"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-builtins",
		Short: "Insert default settings for built-in tabs",
		Long: `Insert a tab setting row for every built-in tab that has none.

Existing rows are left untouched, so running it again is safe. When rows are
inserted the cached settings snapshots are invalidated on every instance.`,
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()

	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	redisClient, err := rediscommon.Connect(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	repo := repository.NewTabSettingsRepository(db, log)
	inserted, err := seedBuiltIns(ctx, repo, redisClient, cfg.Tabs.InvalidationStream, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d built-in tab setting(s)\n", inserted)
	return nil
}

func seedBuiltIns(ctx context.Context, repo *repository.TabSettingsRepository, redisClient *redis.Client, stream string, log *zap.Logger) (int, error) {
	inserted, err := repo.SeedBuiltInTabs(ctx, models.DefaultBuiltInTabs())
	if err != nil {
		return 0, err
	}
	if inserted == 0 {
		return 0, nil
	}

	if err := broadcastInvalidation(ctx, redisClient, stream, "seed_builtins", log); err != nil {
		return inserted, fmt.Errorf("seeded %d built-in tab setting(s) but failed to invalidate caches: %w", inserted, err)
	}
	return inserted, nil
}
