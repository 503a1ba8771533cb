package domain

import "errors"

var (
	ErrSendingReplyFailed     = errors.New("failed to send reply")
	ErrEmptyPrompt            = errors.New("empty prompt")
	ErrCommandNotFound        = errors.New("command not found")
	ErrRegistryNotInitialized = errors.New("can't fetch command, registry not initialized")
	ErrUserNotFound           = errors.New("user not found")
	ErrMissingConfig          = errors.New("missing configuration")
)

// AuthorizationError reports that a user may not run a command. Reason is shown to the user.
type AuthorizationError struct {
	Command string
	Reason  string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}
