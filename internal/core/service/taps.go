package service

import (
	"context"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Tap observes every inbound message before authorization. Taps never fail the request.
type Tap interface {
	Observe(ctx context.Context, message *domain.Message)
}

type LoggingTap struct{}

func (LoggingTap) Observe(_ context.Context, message *domain.Message) {
	log.Info().
		Str("traceId", message.TraceID).
		Int64("userId", message.UserID).
		Int64("chatId", message.ChatID).
		Str("text", message.Text).
		Msg("received message")
}

// UserTap records the sender in the user store.
type UserTap struct {
	users port.UserStore
}

func NewUserTap(users port.UserStore) *UserTap {
	return &UserTap{users: users}
}

func (t *UserTap) Observe(ctx context.Context, message *domain.Message) {
	if message.UserID == 0 {
		return
	}

	name := message.Username
	if name == "" {
		name = "unknown"
	}

	if err := t.users.AddOrUpdateUser(ctx, message.UserID, name); err != nil {
		log.Warn().Err(err).Int64("userId", message.UserID).Msg("failed to record user")
	}
}
