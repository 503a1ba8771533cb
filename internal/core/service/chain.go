package service

import (
	"context"
	"ratebot/internal/core/domain"
	"strings"

	"github.com/rs/zerolog/log"
)

// Filter inspects a request before dispatch. Returning handled=true short-circuits the chain and the
// verdict becomes the reply.
type Filter interface {
	Handle(ctx context.Context, message *domain.Message) (verdict string, handled bool)
}

// Chain runs filters in order until one hands down a verdict. An exhausted chain has no verdict.
type Chain []Filter

func (c Chain) Handle(ctx context.Context, message *domain.Message) (string, bool) {
	for _, f := range c {
		if verdict, ok := f.Handle(ctx, message); ok {
			return verdict, true
		}
	}

	return "", false
}

const BlockedMessage = "Message blocked due to bad language!"

// ContentFilter blocks messages containing any forbidden substring. Matching is case-sensitive and
// ignores word boundaries.
type ContentFilter struct {
	forbidden []string
}

func NewContentFilter(forbidden []string) *ContentFilter {
	words := make([]string, 0, len(forbidden))
	for _, w := range forbidden {
		if w != "" {
			words = append(words, w)
		}
	}

	return &ContentFilter{forbidden: words}
}

func (f *ContentFilter) Handle(_ context.Context, message *domain.Message) (string, bool) {
	for _, w := range f.forbidden {
		if strings.Contains(message.Text, w) {
			log.Info().
				Str("traceId", message.TraceID).
				Int64("userId", message.UserID).
				Msg("message blocked by content filter")
			return BlockedMessage, true
		}
	}

	return "", false
}

// LoggingFilter records every request that made it past the filters in front of it.
type LoggingFilter struct{}

func (LoggingFilter) Handle(_ context.Context, message *domain.Message) (string, bool) {
	log.Info().
		Str("traceId", message.TraceID).
		Int64("userId", message.UserID).
		Int64("chatId", message.ChatID).
		Str("text", message.Text).
		Msg("request entered chain")

	return "", false
}
