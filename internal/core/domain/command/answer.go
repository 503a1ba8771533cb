package command

import (
	"context"
	"fmt"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"

	"github.com/rs/zerolog/log"
)

// GeneratorFactory builds the text generator when the answer handler is constructed.
type GeneratorFactory func() (port.TextGenerator, error)

// Answer forwards a free-form question to a language model.
type Answer struct {
	generator port.TextGenerator
	command   string
	initErr   error
}

func NewAnswer(factory GeneratorFactory, command string) *Answer {
	a := &Answer{command: command}

	generator, err := factory()
	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("failed initializing text generator")
		a.initErr = err
		return a
	}

	a.generator = generator
	return a
}

func (a *Answer) GetCommand() string {
	return a.command
}

func (a *Answer) Execute(ctx context.Context, message *domain.Message) string {
	l := log.With().
		Int64("chatId", message.ChatID).
		Str("command", a.GetCommand()).
		Logger()

	if a.initErr != nil {
		return fmt.Sprintf(initErrorTemplate, a.initErr)
	}

	question := domain.ParseCommandArgs(message.Text)
	if question == "" {
		return fmt.Sprintf("Usage: %s <question>", a.command)
	}

	l.Info().Msg("handling request")

	response, err := a.generator.GenerateFromPrompt(ctx, []domain.Prompt{{Author: domain.User, Prompt: question}})
	if err != nil {
		l.Warn().Err(err).Msg("failed to generate answer")
		return fmt.Sprintf("Could not get an answer. Reason: %v", err)
	}

	l.Debug().
		Str("model", response.Metadata.Model).
		Int("totalTokens", response.Metadata.TotalTokens).
		Msg("answer generated")

	return response.Response
}
