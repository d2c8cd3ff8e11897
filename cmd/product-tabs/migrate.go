package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/common/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [migration_file.sql...]",
		Short: "Apply SQL migration files",
		Long: `Apply SQL migration files in the given order.

Statements are split on ";" and executed one by one. With no arguments
migrations/001_create_product_tabs.sql is applied.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"migrations/001_create_product_tabs.sql"}
	}

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

	for _, file := range args {
		sqlContent, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file: %w", err)
		}

		applied := 0
		for _, stmt := range splitStatements(string(sqlContent)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply %s statement %d: %w", file, applied+1, err)
			}
			applied++
		}

		log.Info("Applied migration", zap.String("file", file), zap.Int("statements", applied))
	}
	return nil
}

// splitStatements splits on ";" and drops empty and comment-only chunks
func splitStatements(content string) []string {
	var statements []string
	for _, chunk := range strings.Split(content, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			statements = append(statements, strings.TrimSpace(strings.Join(lines, "\n")))
		}
	}
	return statements
}
