package command

import (
	"context"
	"ratebot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// Shutdown asks the polling loop to stop. Access is enforced by the authorization gate only.
type Shutdown struct {
	command string
}

func NewShutdown(command string) *Shutdown {
	return &Shutdown{command: command}
}

func (s *Shutdown) GetCommand() string {
	return s.command
}

func (s *Shutdown) Execute(_ context.Context, message *domain.Message) string {
	log.Warn().Int64("userId", message.UserID).Str("command", s.GetCommand()).Msg("shutdown requested")

	return domain.ShutdownReply
}
