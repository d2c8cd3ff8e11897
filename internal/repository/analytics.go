package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// AnalyticsRepository keeps a daily view counter per tab and product
type AnalyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// IncrementView adds one view for today's row
func (r *AnalyticsRepository) IncrementView(ctx context.Context, tabID string, productID int64) error {
	query := `
		INSERT INTO product_tab_views (tab_id, product_id, view_date, views)
		VALUES ($1, $2, CURRENT_DATE, 1)
		ON CONFLICT (tab_id, product_id, view_date)
		DO UPDATE SET views = product_tab_views.views + 1
	`

	if _, err := r.db.ExecContext(ctx, query, tabID, productID); err != nil {
		return fmt.Errorf("failed to record tab view: %w", err)
	}
	return nil
}
