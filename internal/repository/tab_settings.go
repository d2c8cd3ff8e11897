package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"

	"go.uber.org/zap"
)

// TabSettingsRepository reads and seeds per-tab override settings
type TabSettingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTabSettingsRepository creates a new tab settings repository
func NewTabSettingsRepository(db *sql.DB, logger *zap.Logger) *TabSettingsRepository {
	return &TabSettingsRepository{
		db:     db,
		logger: logger,
	}
}

// ListTabSettings returns every tab setting in declared order (sort_order, then tab_id)
func (r *TabSettingsRepository) ListTabSettings(ctx context.Context) ([]models.TabSetting, error) {
	query := `
		SELECT
			tab_id,
			tab_kind,
			custom_title,
			is_enabled,
			sort_order,
			mobile_hidden
		FROM product_tab_settings
		ORDER BY sort_order ASC, tab_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tab settings: %w", err)
	}
	defer rows.Close()

	var settings []models.TabSetting
	for rows.Next() {
		var s models.TabSetting
		var kind string
		var customTitle sql.NullString

		if err := rows.Scan(
			&s.TabID,
			&kind,
			&customTitle,
			&s.Enabled,
			&s.SortOrder,
			&s.MobileHidden,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tab setting: %w", err)
		}

		s.Kind = models.TabKind(kind)
		if customTitle.Valid && customTitle.String != "" {
			title := customTitle.String
			s.CustomTitle = &title
		}

		settings = append(settings, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tab settings: %w", err)
	}

	return settings, nil
}

// SeedBuiltInTabs inserts a default setting for every built-in tab that has
// none yet. Existing rows are left untouched so operator changes survive
// re-seeding. Returns the number of rows inserted.
func (r *TabSettingsRepository) SeedBuiltInTabs(ctx context.Context, tabs []models.BuiltInTab) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO product_tab_settings (tab_id, tab_kind, custom_title, is_enabled, sort_order, mobile_hidden)
		VALUES ($1, $2, NULL, TRUE, $3, FALSE)
		ON CONFLICT (tab_id) DO NOTHING
	`

	inserted := 0
	for _, tab := range tabs {
		res, err := tx.ExecContext(ctx, query, tab.ID, string(models.TabKindBuiltIn), tab.Priority)
		if err != nil {
			return 0, fmt.Errorf("failed to seed tab %s: %w", tab.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}

	r.logger.Info("Seeded built-in tab settings",
		zap.Int("tab_count", len(tabs)),
		zap.Int("inserted", inserted),
	)

	return inserted, nil
}
