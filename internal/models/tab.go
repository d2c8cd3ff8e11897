package models

import "strings"

// TabKind is the source of a tab
type TabKind string

const (
	TabKindBuiltIn TabKind = "built_in"
	TabKindRule    TabKind = "rule"
)

// TabSetting overrides visibility, order and title of one tab
type TabSetting struct {
	TabID        string  `json:"tab_id"`
	Kind         TabKind `json:"kind"`
	CustomTitle  *string `json:"custom_title,omitempty"`
	Enabled      bool    `json:"enabled"`
	SortOrder    int     `json:"sort_order"`
	MobileHidden bool    `json:"mobile_hidden"`
}

// BuiltInTab is one of the fixed tabs every product page has
type BuiltInTab struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Priority int    `json:"priority"`
}

// Built-in tab ids
const (
	BuiltInDescription           = "description"
	BuiltInAdditionalInformation = "additional_information"
	BuiltInReviews               = "reviews"
)

// DefaultBuiltInTabs returns the built-in tabs in their default order
func DefaultBuiltInTabs() []BuiltInTab {
	return []BuiltInTab{
		{ID: BuiltInDescription, Title: "Description", Priority: 10},
		{ID: BuiltInAdditionalInformation, Title: "Additional information", Priority: 20},
		{ID: BuiltInReviews, Title: "Reviews", Priority: 30},
	}
}

// IsRuleTabID reports whether id has the rule tab prefix
func IsRuleTabID(id string) bool {
	return strings.HasPrefix(id, RuleTabPrefix)
}

// OrderedTab is one entry of a composition result
type OrderedTab struct {
	TabID       string      `json:"tab_id"`
	Title       string      `json:"title"`
	Priority    int         `json:"priority"`
	ContentRef  string      `json:"content_ref"`
	Source      TabKind     `json:"source"`
	ContentKind ContentKind `json:"content_kind,omitempty"`
}
