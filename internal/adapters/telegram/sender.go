package telegram

import (
	"context"
	"fmt"
	"ratebot/internal/core/domain"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const TelegramMessageLimit = 4096

//go:generate mockery --name BotAPI

type BotAPI interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type Sender struct {
	bot BotAPI
}

func NewSender(bot BotAPI) *Sender {
	return &Sender{bot: bot}
}

// SendMessage posts text to the chat, splitting it into several messages when it exceeds the Telegram limit.
func (s *Sender) SendMessage(ctx context.Context, chatID int64, text string) error {
	for i, chunk := range splitMessage(text, TelegramMessageLimit) {
		_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   chunk,
		})
		if err != nil {
			log.Error().Err(err).Int64("chatId", chatID).Int("chunk", i).Msg("failed to send message")
			return fmt.Errorf("%w: chat %d: %w", domain.ErrSendingReplyFailed, chatID, err)
		}
	}

	return nil
}

// splitMessage cuts text into pieces of at most limit bytes without breaking a UTF-8 sequence.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		if cut == 0 {
			cut = limit
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}

	return chunks
}
