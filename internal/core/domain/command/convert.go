package command

import (
	"context"
	"fmt"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var convertPattern = regexp.MustCompile(`(?i)(\d+\.?\d*)\s+([A-Z]{3})\s+to\s+([A-Z]{3})`)

// Convert converts an arbitrary amount between two currencies: "<amount> <FROM> to <TO>".
type Convert struct {
	provider port.CurrencyProvider
	catalog  *Catalog
	command  string
	initErr  error
}

func NewConvert(p CurrencyParams) *Convert {
	c := &Convert{command: p.Command}

	provider, err := p.Provider()
	if err != nil {
		log.Error().Err(err).Str("command", p.Command).Msg("failed initializing currency provider")
		c.initErr = err
		return c
	}

	c.provider = provider
	c.catalog = NewCatalog(provider, p.Snapshot)

	return c
}

func (c *Convert) GetCommand() string {
	return c.command
}

func (c *Convert) usage() string {
	return fmt.Sprintf("Invalid command format. Use: `%[1]s <amount> <FROM> to <TO>`\n"+
		"For example: `%[1]s 10 USD to EUR`", c.command)
}

func (c *Convert) Execute(ctx context.Context, message *domain.Message) string {
	l := log.With().
		Int64("chatId", message.ChatID).
		Str("command", c.GetCommand()).
		Logger()

	if c.initErr != nil {
		return fmt.Sprintf(initErrorTemplate, c.initErr)
	}

	match := convertPattern.FindStringSubmatch(domain.ParseCommandArgs(message.Text))
	if match == nil {
		return c.usage()
	}

	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return c.usage()
	}
	from := strings.ToUpper(match[2])
	to := strings.ToUpper(match[3])

	l.Info().Float64("amount", amount).Str("from", from).Str("to", to).Msg("handling request")

	if !c.catalog.IsValid(ctx, from) {
		return fmt.Sprintf("Unknown source currency code: %s", from)
	}
	if !c.catalog.IsValid(ctx, to) {
		return fmt.Sprintf("Unknown target currency code: %s", to)
	}

	conversion, err := c.provider.Convert(ctx, from, to, amount)
	if err != nil || !conversion.Success {
		l.Warn().Err(err).Str("info", conversion.ErrorInfo).Msg("conversion failed")
		return fmt.Sprintf("Could not convert. Reason: %s", failureReason(conversion, err))
	}

	if conversion.Result == nil {
		return fmt.Sprintf("Could not get a conversion result for %s -> %s.", from, to)
	}

	return fmt.Sprintf("%.2f %s = %.2f %s", amount, from, *conversion.Result, to)
}
