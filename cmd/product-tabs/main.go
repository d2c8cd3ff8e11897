// product-tabs composes the ordered product page tabs from tab rules,
// built-in tabs and tab settings.
//
// Usage:
//
//	product-tabs serve
//	product-tabs seed-builtins
//	product-tabs invalidate --reason "rule 12 saved"
//	product-tabs migrate migrations/001_create_product_tabs.sql
package main

import (
	"fmt"
	"os"

	logpkg "github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/logger"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const serviceName = "product-tabs"

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          serviceName,
		Short:        "Product tab composition service",
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(invalidateCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by all commands
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logpkg.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
