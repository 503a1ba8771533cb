package service

import (
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"

	"github.com/rs/zerolog/log"
)

type Authorizer interface {
	Authorize(command string, userID int64) error
}

// CommandAuthorizer gates every request on the command keyword. The administrator always passes; everyone
// else is checked against the access policy, which is loaded once at startup.
type CommandAuthorizer struct {
	adminID int64
	policy  port.AccessPolicy
}

func NewAuthorizer(adminID int64, policy port.AccessPolicy) *CommandAuthorizer {
	return &CommandAuthorizer{
		adminID: adminID,
		policy:  policy,
	}
}

func (a *CommandAuthorizer) Authorize(command string, userID int64) error {
	if userID == a.adminID {
		return nil
	}

	if a.policy == nil {
		return nil
	}

	if err := a.policy.CheckAccess(command, userID); err != nil {
		log.Info().Str("command", command).Int64("userId", userID).Err(err).Msg("access denied")
		return &domain.AuthorizationError{Command: command, Reason: err.Error()}
	}

	return nil
}
