package service

import (
	"context"
	"errors"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

const UnknownCommandReply = "Unknown command. Type /help."

type PipelineParams struct {
	Taps       []Tap
	Authorizer Authorizer
	Chain      Chain
	Registry   port.CommandRegistry
	Timeout    time.Duration
}

// Pipeline runs a message through the fixed stage order: taps, authorization, filter chain, command lookup
// and execution.
type Pipeline struct {
	taps       []Tap
	authorizer Authorizer
	chain      Chain
	registry   port.CommandRegistry
	timeout    time.Duration
}

func NewPipeline(p PipelineParams) *Pipeline {
	return &Pipeline{
		taps:       p.Taps,
		authorizer: p.Authorizer,
		chain:      p.Chain,
		registry:   p.Registry,
		timeout:    p.Timeout,
	}
}

// Handle returns the reply for a message. A *domain.AuthorizationError is returned when the sender may not
// run the command; the filter chain and the command are not reached in that case.
func (p *Pipeline) Handle(ctx context.Context, message *domain.Message) (string, error) {
	for _, tap := range p.taps {
		tap.Observe(ctx, message)
	}

	command := domain.ParseCommand(message.Text)
	l := log.With().
		Str("traceId", message.TraceID).
		Str("command", command).
		Logger()

	if p.authorizer != nil {
		if err := p.authorizer.Authorize(command, message.UserID); err != nil {
			return "", err
		}
	}

	if verdict, ok := p.chain.Handle(ctx, message); ok {
		return verdict, nil
	}

	handler, err := p.registry.Create(message.Text)
	if errors.Is(err, domain.ErrCommandNotFound) || errors.Is(err, domain.ErrRegistryNotInitialized) {
		l.Debug().Msg("no handler for command")
		return UnknownCommandReply, nil
	}
	if err != nil {
		return "", err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	l.Debug().Msg("dispatching command")
	return handler.Execute(ctx, message), nil
}
