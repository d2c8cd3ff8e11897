package main

import (
	"context"
	"fmt"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/cache"
	rediscommon "github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/redis"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/consumer"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func invalidateCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop cached rule and settings snapshots on every instance",
		Long: `Delete the shared snapshots and publish a cache invalidation event.

Run it after editing product_tab_rules or product_tab_settings directly.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvalidate(cmd, reason)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "manual", "Reason recorded on the invalidation event")
	return cmd
}

func runInvalidate(cmd *cobra.Command, reason string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()

	redisClient, err := rediscommon.Connect(ctx, &cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if err := broadcastInvalidation(ctx, redisClient, cfg.Tabs.InvalidationStream, reason, log); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "cache invalidation published")
	return nil
}

// broadcastInvalidation retires the shared snapshots and tells every running
// instance to drop its local ones
func broadcastInvalidation(ctx context.Context, redisClient *redis.Client, stream, reason string, log *zap.Logger) error {
	snapshots := cache.NewSnapshotCache(cache.NewRedisKVStore(redisClient), log)
	if err := snapshots.Invalidate(ctx); err != nil {
		return err
	}

	// a unique origin so no running instance mistakes the event for its own
	origin := "cli-" + uuid.NewString()
	publisher := consumer.NewInvalidationPublisher(redisClient, stream, origin, log)
	return publisher.Publish(ctx, reason)
}
