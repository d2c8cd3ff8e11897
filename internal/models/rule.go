package models

import (
	"fmt"
	"time"
)

// RoleCondition restricts who can see a rule's tab
type RoleCondition string

const (
	RoleConditionAll               RoleCondition = "all"
	RoleConditionAuthenticatedOnly RoleCondition = "authenticated_only"
	RoleConditionSpecificRoles     RoleCondition = "specific_roles"
)

// ContentKind tells the rendering layer how to treat expanded content
type ContentKind string

const (
	ContentKindRichText  ContentKind = "rich_text"
	ContentKindPlainText ContentKind = "plain_text"
)

// RuleTabPrefix prefixes every rule-derived tab id
const RuleTabPrefix = "rule-"

// Rule is a stored tab rule
type Rule struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	TabTitle      string        `json:"tab_title"`
	Content       string        `json:"content"`
	ContentKind   ContentKind   `json:"content_kind"`
	Conditions    []byte        `json:"conditions"` // raw stored payload, parsed at evaluation time
	RoleCondition RoleCondition `json:"role_condition"`
	AllowedRoles  []string      `json:"allowed_roles"`
	Priority      int           `json:"priority"` // 1-100, lower shows first
	Active        bool          `json:"active"`
	MobileHidden  bool          `json:"mobile_hidden"`
	CreatedAt     time.Time     `json:"created_at"`
}

// TabID returns the deterministic tab id for the rule
func (r *Rule) TabID() string {
	return RuleTabID(r.ID)
}

// RuleTabID formats a rule id as a tab id
func RuleTabID(ruleID int64) string {
	return fmt.Sprintf("%s%d", RuleTabPrefix, ruleID)
}
