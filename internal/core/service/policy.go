package service

import (
	"fmt"
	"ratebot/internal/core/domain"
	"slices"
)

// PolicyTable is a static access policy keyed by command keyword. Commands without an entry are unrestricted.
type PolicyTable map[string]domain.AccessRule

const (
	adminOnlyReason = "You do not have permission to run %s."
	allowListReason = "You are not on the access list for %s."
)

func (p PolicyTable) CheckAccess(command string, userID int64) error {
	rule, ok := p[command]
	if !ok {
		return nil
	}

	switch rule.Kind {
	case domain.AdminOnly:
		return fmt.Errorf(adminOnlyReason, command)
	case domain.AllowList:
		if slices.Contains(rule.Users, userID) {
			return nil
		}
		return fmt.Errorf(allowListReason, command)
	default:
		return nil
	}
}
