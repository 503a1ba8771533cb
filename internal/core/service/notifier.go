package service

import (
	"context"
	"fmt"
	"ratebot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Notifier delivers messages to individual users or to everyone in the user store. In private chats the
// chat id equals the user id.
type Notifier struct {
	sender port.TextSender
	users  port.UserStore
}

func NewNotifier(sender port.TextSender, users port.UserStore) *Notifier {
	return &Notifier{sender: sender, users: users}
}

func (n *Notifier) SendToUser(ctx context.Context, userID int64, text string) error {
	if err := n.sender.SendMessage(ctx, userID, text); err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("failed to send notification")
		return fmt.Errorf("failed to notify user %d: %w", userID, err)
	}

	log.Info().Int64("userId", userID).Msg("notification sent")
	return nil
}

func (n *Notifier) Broadcast(ctx context.Context, text string) (int, error) {
	ids, err := n.users.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	if len(ids) == 0 {
		log.Warn().Msg("broadcast skipped, no users")
		return 0, nil
	}

	log.Info().Int("users", len(ids)).Msg("starting broadcast")

	sent := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if err := n.SendToUser(ctx, id, text); err == nil {
			sent++
		}
	}

	log.Info().Int("sent", sent).Int("users", len(ids)).Msg("broadcast finished")
	return sent, nil
}
