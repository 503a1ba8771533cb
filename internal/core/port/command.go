package port

import (
	"context"
	"ratebot/internal/core/domain"
)

type Command interface {
	// Execute runs the command for a message and returns the reply text. An empty reply sends nothing.
	Execute(ctx context.Context, message *domain.Message) string
	// GetCommand retrieves the command keyword associated with a specific command handler.
	GetCommand() string
}

type CommandRegistry interface {
	// Create resolves the keyword of a message text to its single handler instance, constructing it on first use.
	Create(text string) (Command, error)
	// ListCommands returns every registered keyword in lexicographic order.
	ListCommands() []string
	// Describe returns the one-line description registered for a keyword.
	Describe(command string) string
}

// AccessPolicy decides whether a user may run a command. A non-nil error carries the denial reason.
type AccessPolicy interface {
	CheckAccess(command string, userID int64) error
}
