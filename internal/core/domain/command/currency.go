package command

import (
	"context"
	"fmt"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
)

// ProviderFactory builds the rate provider when a currency handler is constructed.
type ProviderFactory func() (port.CurrencyProvider, error)

type CurrencyParams struct {
	Provider ProviderFactory
	Snapshot port.CurrencySnapshot
	Target   string
	Command  string
}

// Currency reports the rate of one unit of a currency against a fixed target currency.
type Currency struct {
	provider port.CurrencyProvider
	catalog  *Catalog
	target   string
	command  string
	initErr  error
}

const (
	defaultCurrency = "USD"
	defaultTarget   = "UAH"
)

func NewCurrency(p CurrencyParams) *Currency {
	c := &Currency{target: p.Target, command: p.Command}
	if c.target == "" {
		c.target = defaultTarget
	}

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

func (c *Currency) GetCommand() string {
	return c.command
}

const (
	initErrorTemplate       = "Command initialization error: %v"
	unknownCurrencyTemplate = "Could not find a currency with code '%s'. " +
		"Please use a standard three-letter code (e.g. USD, EUR)."
)

func (c *Currency) Execute(ctx context.Context, message *domain.Message) string {
	l := log.With().
		Int64("chatId", message.ChatID).
		Str("command", c.GetCommand()).
		Logger()

	if c.initErr != nil {
		return fmt.Sprintf(initErrorTemplate, c.initErr)
	}

	code := defaultCurrency
	if args := strings.Fields(domain.ParseCommandArgs(message.Text)); len(args) > 0 {
		code = strings.ToUpper(args[0])
	}

	l.Info().Str("code", code).Msg("handling request")

	if !c.catalog.IsValid(ctx, code) {
		return fmt.Sprintf(unknownCurrencyTemplate, code)
	}

	conversion, err := c.provider.Convert(ctx, code, c.target, 1.0)
	if err != nil || !conversion.Success {
		l.Warn().Err(err).Str("info", conversion.ErrorInfo).Msg("conversion failed")
		return fmt.Sprintf("Could not get the rate for %s. Reason: %s", code, failureReason(conversion, err))
	}

	if conversion.Result == nil {
		return fmt.Sprintf("Could not get a conversion result for %s.", code)
	}

	return fmt.Sprintf("1 %s = %.2f %s", code, *conversion.Result, c.target)
}

const networkErrorReason = "network error, please try again later"

// failureReason never includes transport error text; it is logged instead.
func failureReason(conversion domain.Conversion, err error) string {
	if err != nil {
		return networkErrorReason
	}
	if conversion.ErrorInfo != "" {
		return conversion.ErrorInfo
	}

	return "unknown error"
}
