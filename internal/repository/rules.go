package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"

	"go.uber.org/zap"
)

// RuleRepository reads tab rules from PostgreSQL
type RuleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRuleRepository creates a new rule repository
func NewRuleRepository(db *sql.DB, logger *zap.Logger) *RuleRepository {
	return &RuleRepository{
		db:     db,
		logger: logger,
	}
}

// ListActiveRules returns active rules ordered by priority, newest first on ties.
// conditions is returned raw; parsing happens at evaluation time so a bad
// payload only affects its own rule.
func (r *RuleRepository) ListActiveRules(ctx context.Context) ([]models.Rule, error) {
	query := `
		SELECT
			id,
			name,
			tab_title,
			content,
			content_kind,
			conditions,
			role_condition,
			allowed_roles,
			priority,
			mobile_hidden,
			created_at
		FROM product_tab_rules
		WHERE is_active = TRUE
		ORDER BY priority ASC, created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active rules: %w", err)
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		var rule models.Rule
		var contentKind, roleCondition sql.NullString
		var conditions, allowedRoles []byte

		if err := rows.Scan(
			&rule.ID,
			&rule.Name,
			&rule.TabTitle,
			&rule.Content,
			&contentKind,
			&conditions,
			&roleCondition,
			&allowedRoles,
			&rule.Priority,
			&rule.MobileHidden,
			&rule.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}

		rule.Active = true
		rule.ContentKind = models.ContentKindRichText
		if contentKind.Valid && contentKind.String != "" {
			rule.ContentKind = models.ContentKind(contentKind.String)
		}
		rule.RoleCondition = models.RoleConditionAll
		if roleCondition.Valid && roleCondition.String != "" {
			rule.RoleCondition = models.RoleCondition(roleCondition.String)
		}
		if len(conditions) > 0 {
			rule.Conditions = append([]byte(nil), conditions...)
		}

		roles, err := ConvertRoleListToStrings(allowedRoles)
		if err != nil {
			// a broken role list must not hide the rest of the rule set
			r.logger.Warn("Invalid allowed_roles on rule",
				zap.Int64("rule_id", rule.ID),
				zap.Error(err),
			)
		}
		rule.AllowedRoles = roles

		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}

	return rules, nil
}
