package repository

import (
	"encoding/json"
	"fmt"
)

// ConvertRoleListToStrings converts product_tab_rules.allowed_roles (JSONB) to role names.
// Accepted formats: ["editor", "customer"] or [{"role": "editor"}, ...]
func ConvertRoleListToStrings(roleListJSON []byte) ([]string, error) {
	if len(roleListJSON) == 0 || string(roleListJSON) == "null" || string(roleListJSON) == "[]" {
		return nil, nil
	}

	var roleList interface{}
	if err := json.Unmarshal(roleListJSON, &roleList); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allowed_roles: %w", err)
	}

	var roles []string

	switch v := roleList.(type) {
	case []interface{}:
		for _, item := range v {
			switch itemVal := item.(type) {
			case string:
				roles = append(roles, itemVal)
			case map[string]interface{}:
				if role, ok := itemVal["role"].(string); ok {
					roles = append(roles, role)
				}
			}
		}
	default:
		return nil, fmt.Errorf("unexpected allowed_roles format: %T", v)
	}

	return roles, nil
}
