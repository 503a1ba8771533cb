package service

import (
	"context"
	"errors"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const FarewellMessage = "Bot is shutting down…"

type MessageHandler interface {
	Handle(ctx context.Context, message *domain.Message) (string, error)
}

type PollerParams struct {
	Fetcher      port.UpdateFetcher
	Sender       port.TextSender
	Handler      MessageHandler
	Interval     time.Duration
	SendRetries  int
	RetryBackoff time.Duration
}

// Poller drives the bot: it repeatedly fetches the latest update and processes each new one to completion
// before fetching again. It is not safe for concurrent use.
type Poller struct {
	fetcher      port.UpdateFetcher
	sender       port.TextSender
	handler      MessageHandler
	interval     time.Duration
	sendRetries  int
	retryBackoff time.Duration

	lastUpdateID int64
	hasLast      bool
}

func NewPoller(p PollerParams) *Poller {
	retries := p.SendRetries
	if retries < 1 {
		retries = 1
	}

	return &Poller{
		fetcher:      p.Fetcher,
		sender:       p.Sender,
		handler:      p.Handler,
		interval:     p.Interval,
		sendRetries:  retries,
		retryBackoff: p.RetryBackoff,
	}
}

// Run polls until ctx is cancelled or a shutdown reply is produced. The update that is pending when Run
// starts is treated as already handled.
func (p *Poller) Run(ctx context.Context) {
	log.Info().Dur("interval", p.interval).Msg("polling for updates")

	p.prime(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("polling stopped")
			return
		case <-time.After(p.interval):
		}

		if p.Poll(ctx) {
			log.Info().Msg("shutdown requested, polling stopped")
			return
		}
	}
}

func (p *Poller) prime(ctx context.Context) {
	update, err := p.fetcher.FetchLatest(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch initial update")
		return
	}
	if update == nil {
		return
	}

	p.lastUpdateID = update.ID
	p.hasLast = true
	log.Debug().Int64("updateId", update.ID).Msg("skipping pending update")
}

// Poll runs a single iteration and reports whether the bot should stop.
func (p *Poller) Poll(ctx context.Context) bool {
	update, err := p.fetcher.FetchLatest(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch update")
		return false
	}
	if update == nil {
		return false
	}
	if p.hasLast && update.ID == p.lastUpdateID {
		return false
	}

	defer func() {
		p.lastUpdateID = update.ID
		p.hasLast = true
	}()

	if update.Message == nil || update.Message.Text == "" {
		log.Debug().Int64("updateId", update.ID).Msg("skipping update without text")
		return false
	}

	message := update.Message
	if id, err := uuid.NewV4(); err == nil {
		message.TraceID = id.String()
	}

	l := log.With().
		Str("traceId", message.TraceID).
		Int64("updateId", update.ID).
		Int64("chatId", message.ChatID).
		Int64("userId", message.UserID).
		Logger()

	reply, err := p.handler.Handle(ctx, message)

	var authErr *domain.AuthorizationError
	switch {
	case errors.As(err, &authErr):
		reply = authErr.Reason
	case err != nil:
		l.Error().Err(err).Msg("failed to handle message")
		return false
	}

	if reply == domain.ShutdownReply {
		p.send(ctx, message.ChatID, FarewellMessage)
		return true
	}

	if reply == "" {
		l.Debug().Msg("no reply")
		return false
	}

	p.send(ctx, message.ChatID, reply)
	return false
}

func (p *Poller) send(ctx context.Context, chatID int64, text string) {
	for attempt := 1; ; attempt++ {
		err := p.sender.SendMessage(ctx, chatID, text)
		if err == nil {
			return
		}

		if attempt >= p.sendRetries {
			log.Error().Err(err).Int64("chatId", chatID).Int("attempts", attempt).Msg("failed to send reply")
			return
		}

		log.Warn().Err(err).Int64("chatId", chatID).Int("attempt", attempt).Msg("send failed, retrying")

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * p.retryBackoff):
		}
	}
}
