package port

import (
	"context"
	"ratebot/internal/core/domain"
)

type CurrencyProvider interface {
	// ListCurrencies returns the supported currency codes mapped to their names.
	ListCurrencies(ctx context.Context) (map[string]string, error)
	// Convert converts amount from one currency to another. Transport failures are returned as errors,
	// API-level failures as an unsuccessful Conversion.
	Convert(ctx context.Context, from, to string, amount float64) (domain.Conversion, error)
}

// CurrencySnapshot persists the known currency list between restarts.
type CurrencySnapshot interface {
	Load() (map[string]string, error)
	Save(currencies map[string]string) error
}
