// Package composer builds the ordered tab list for a product page from tab
// rules, the built-in tabs and per-tab settings.
package composer

import (
	"context"
	"fmt"
	"sort"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/condition"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/placeholder"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/rolegate"

	"go.uber.org/zap"
)

// RuleStore supplies the active rule snapshot
type RuleStore interface {
	ListActiveRules(ctx context.Context) ([]models.Rule, error)
}

// SettingsStore supplies the tab settings snapshot
type SettingsStore interface {
	ListTabSettings(ctx context.Context) ([]models.TabSetting, error)
}

// Composer merges rule tabs with built-in tabs. It never writes to its
// stores and is safe for concurrent use; per-request state lives in Request.
type Composer struct {
	rules     RuleStore
	settings  SettingsStore
	evaluator *condition.Evaluator
	expander  *placeholder.Expander
	builtIns  []models.BuiltInTab
	logger    *zap.Logger
}

// NewComposer creates a new composer. A nil builtIns uses DefaultBuiltInTabs.
func NewComposer(
	rules RuleStore,
	settings SettingsStore,
	evaluator *condition.Evaluator,
	expander *placeholder.Expander,
	builtIns []models.BuiltInTab,
	logger *zap.Logger,
) (*Composer, error) {
	if builtIns == nil {
		builtIns = models.DefaultBuiltInTabs()
	}

	seen := make(map[string]struct{}, len(builtIns))
	for _, tab := range builtIns {
		if tab.ID == "" {
			return nil, fmt.Errorf("built-in tab with empty id")
		}
		if models.IsRuleTabID(tab.ID) {
			return nil, fmt.Errorf("built-in tab id %q collides with rule tab prefix %q", tab.ID, models.RuleTabPrefix)
		}
		if _, dup := seen[tab.ID]; dup {
			return nil, fmt.Errorf("duplicate built-in tab id %q", tab.ID)
		}
		seen[tab.ID] = struct{}{}
	}

	return &Composer{
		rules:     rules,
		settings:  settings,
		evaluator: evaluator,
		expander:  expander,
		builtIns:  append([]models.BuiltInTab(nil), builtIns...),
		logger:    logger,
	}, nil
}

// candidate is a tab on its way through composition
type candidate struct {
	tab  models.OrderedTab
	rule *models.Rule // nil for built-ins

	// position of the matching setting in the settings snapshot, -1 if unconfigured
	settingIndex int
}

// Compose returns the visible tabs for req in display order. It never fails:
// a missing product yields no tabs and a store failure yields the built-in
// tabs only.
func (c *Composer) Compose(ctx context.Context, req *Request) []models.OrderedTab {
	if req == nil || req.Product == nil {
		return []models.OrderedTab{}
	}
	req.reset()

	rules, rulesOK := c.loadRules(ctx, req)
	settings, settingsOK := c.loadSettings(ctx, req)

	var candidates []candidate
	if rulesOK && settingsOK {
		candidates = c.ruleCandidates(req, rules)
	}
	for _, b := range c.builtIns {
		candidates = append(candidates, candidate{
			tab: models.OrderedTab{
				TabID:      b.ID,
				Title:      b.Title,
				Priority:   b.Priority,
				ContentRef: b.ID,
				Source:     models.TabKindBuiltIn,
			},
			settingIndex: -1,
		})
	}

	if settingsOK {
		candidates = applySettings(candidates, settings, req.Device.IsMobile)
	}

	ordered := orderCandidates(candidates)

	tabs := make([]models.OrderedTab, 0, len(ordered))
	for _, cand := range ordered {
		tab := cand.tab
		if cand.rule != nil {
			tab.Title = c.expander.Expand(cand.rule.TabTitle, req.Product)
			if tab.Title == "" {
				tab.Title = cand.rule.Name
			}
			req.survivors[tab.TabID] = cand.rule
		}
		tabs = append(tabs, tab)
	}

	c.logger.Debug("Composed product tabs",
		zap.Int64("product_id", req.Product.ID),
		zap.Int("tab_count", len(tabs)),
		zap.Bool("rules_ok", rulesOK),
		zap.Bool("settings_ok", settingsOK),
	)

	return tabs
}

// RenderContent expands the content template of a rule tab that survived the
// last Compose on req. Any other tab id renders as "".
func (c *Composer) RenderContent(req *Request, tabID string) string {
	if req == nil || req.Product == nil {
		return ""
	}
	rule, ok := req.survivors[tabID]
	if !ok {
		return ""
	}
	return c.expander.Expand(rule.Content, req.Product)
}

func (c *Composer) loadRules(ctx context.Context, req *Request) ([]models.Rule, bool) {
	if req.rulesLoaded {
		return req.rules, req.rulesOK
	}
	req.rulesLoaded = true

	rules, err := c.rules.ListActiveRules(ctx)
	if err != nil {
		c.logger.Warn("Failed to load tab rules, composing built-in tabs only",
			zap.Int64("product_id", req.Product.ID),
			zap.Error(err),
		)
		return nil, false
	}

	// the snapshot is shared, sort a copy
	sorted := make([]models.Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	req.rules, req.rulesOK = sorted, true
	return req.rules, true
}

func (c *Composer) loadSettings(ctx context.Context, req *Request) ([]models.TabSetting, bool) {
	if req.settingsLoaded {
		return req.settings, req.settingsOK
	}
	req.settingsLoaded = true

	settings, err := c.settings.ListTabSettings(ctx)
	if err != nil {
		c.logger.Warn("Failed to load tab settings, composing built-in tabs only",
			zap.Int64("product_id", req.Product.ID),
			zap.Error(err),
		)
		return nil, false
	}

	req.settings, req.settingsOK = settings, true
	return settings, true
}

func (c *Composer) ruleCandidates(req *Request, rules []models.Rule) []candidate {
	candidates := make([]candidate, 0, len(rules))
	for i := range rules {
		rule := &rules[i]
		if !rule.Active {
			continue
		}
		if req.Device.IsMobile && rule.MobileHidden {
			continue
		}
		if !rolegate.AllowedFor(rule, req.Requester) {
			continue
		}
		if !c.conditionMet(req, rule) {
			continue
		}

		candidates = append(candidates, candidate{
			tab: models.OrderedTab{
				TabID:       rule.TabID(),
				Priority:    rule.Priority,
				ContentRef:  rule.TabID(),
				Source:      models.TabKindRule,
				ContentKind: rule.ContentKind,
			},
			rule:         rule,
			settingIndex: -1,
		})
	}
	return candidates
}

func (c *Composer) conditionMet(req *Request, rule *models.Rule) bool {
	if result, ok := req.cachedCondition(rule.ID); ok {
		return result
	}
	result := c.evaluator.EvaluateRaw(req.Product, rule.Conditions,
		zap.Int64("rule_id", rule.ID),
		zap.Int64("product_id", req.Product.ID),
	)
	req.storeCondition(rule.ID, result)
	return result
}

// applySettings drops disabled and mobile-hidden tabs and applies title and
// priority overrides. The first setting for a tab id wins.
func applySettings(candidates []candidate, settings []models.TabSetting, isMobile bool) []candidate {
	index := make(map[string]int, len(settings))
	for i, s := range settings {
		if _, exists := index[s.TabID]; !exists {
			index[s.TabID] = i
		}
	}

	kept := candidates[:0]
	for _, cand := range candidates {
		i, configured := index[cand.tab.TabID]
		if !configured {
			kept = append(kept, cand)
			continue
		}

		s := settings[i]
		if !s.Enabled {
			continue
		}
		if isMobile && s.MobileHidden {
			continue
		}
		if cand.rule == nil && s.CustomTitle != nil && *s.CustomTitle != "" {
			cand.tab.Title = *s.CustomTitle
		}
		cand.tab.Priority = s.SortOrder
		cand.settingIndex = i
		kept = append(kept, cand)
	}
	return kept
}

// orderCandidates places configured tabs in settings order followed by
// unconfigured ones in source order, then stable-sorts by priority.
func orderCandidates(candidates []candidate) []candidate {
	ordered := make([]candidate, 0, len(candidates))
	var unconfigured []candidate
	for _, cand := range candidates {
		if cand.settingIndex >= 0 {
			ordered = append(ordered, cand)
		} else {
			unconfigured = append(unconfigured, cand)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].settingIndex < ordered[j].settingIndex
	})
	ordered = append(ordered, unconfigured...)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].tab.Priority < ordered[j].tab.Priority
	})
	return ordered
}
