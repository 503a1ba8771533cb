package port

import (
	"context"
	"ratebot/internal/core/domain"
)

type UpdateFetcher interface {
	// FetchLatest returns the most recent platform update, or nil when there is none.
	FetchLatest(ctx context.Context) (*domain.Update, error)
}

type TextSender interface {
	// SendMessage delivers text to a chat.
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Broadcaster interface {
	// Broadcast sends text to every known user and returns the number of successful deliveries.
	Broadcast(ctx context.Context, text string) (int, error)
}
