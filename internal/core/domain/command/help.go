package command

import (
	"context"
	"fmt"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
)

type Help struct {
	registry port.CommandRegistry
	command  string
}

func NewHelp(registry port.CommandRegistry, command string) *Help {
	return &Help{registry: registry, command: command}
}

func (h *Help) GetCommand() string {
	return h.command
}

const (
	helpHeader         = "Hello! I am a bot. Available commands:\n"
	missingDescription = "No description."
)

func (h *Help) Execute(_ context.Context, message *domain.Message) string {
	log.Debug().Int64("chatId", message.ChatID).Str("command", h.GetCommand()).Msg("handling request")

	sb := &strings.Builder{}
	sb.WriteString(helpHeader)

	for _, command := range h.registry.ListCommands() {
		description := strings.Join(strings.Fields(h.registry.Describe(command)), " ")
		if description == "" {
			description = missingDescription
		}
		fmt.Fprintf(sb, "%s - %s\n", command, description)
	}

	return sb.String()
}
