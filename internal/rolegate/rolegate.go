// Package rolegate decides whether a requester may see a rule's tab.
package rolegate

import (
	"strings"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"
)

// Allowed evaluates a rule's role requirement against the requester.
//   - all: always allowed
//   - authenticated_only: allowed iff the requester is authenticated
//   - specific_roles: requires authentication and at least one shared role
//
// Unrecognised conditions are treated as all.
func Allowed(condition models.RoleCondition, allowedRoles, requesterRoles []string, authenticated bool) bool {
	switch condition {
	case models.RoleConditionAuthenticatedOnly:
		return authenticated
	case models.RoleConditionSpecificRoles:
		if !authenticated {
			return false
		}
		return intersects(allowedRoles, requesterRoles)
	default:
		return true
	}
}

// AllowedFor is Allowed with the rule and requester unpacked.
func AllowedFor(rule *models.Rule, requester models.RequesterContext) bool {
	return Allowed(rule.RoleCondition, rule.AllowedRoles, requester.Roles, requester.Authenticated)
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, role := range a {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	for _, role := range b {
		if _, ok := set[strings.ToLower(strings.TrimSpace(role))]; ok {
			return true
		}
	}
	return false
}
