package command

import (
	"context"
	"ratebot/internal/core/port"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Catalog caches the set of known currency codes. It is seeded from the local snapshot and refreshed from
// the provider whenever it is empty.
type Catalog struct {
	provider port.CurrencyProvider
	snapshot port.CurrencySnapshot

	mu    sync.Mutex
	codes map[string]string
}

func NewCatalog(provider port.CurrencyProvider, snapshot port.CurrencySnapshot) *Catalog {
	c := &Catalog{provider: provider, snapshot: snapshot, codes: map[string]string{}}

	if snapshot == nil {
		return c
	}

	codes, err := snapshot.Load()
	if err != nil {
		log.Warn().Err(err).Msg("could not load currency snapshot, starting empty")
		return c
	}
	if codes != nil {
		c.codes = codes
	}

	return c
}

func (c *Catalog) IsValid(ctx context.Context, code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.codes) == 0 {
		c.refresh(ctx)
	}

	_, ok := c.codes[strings.ToUpper(code)]
	return ok
}

func (c *Catalog) refresh(ctx context.Context) {
	log.Info().Msg("refreshing currency list from provider")

	codes, err := c.provider.ListCurrencies(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh currency list")
		return
	}

	c.codes = codes

	if c.snapshot == nil {
		return
	}
	if err := c.snapshot.Save(codes); err != nil {
		log.Warn().Err(err).Msg("failed to save currency snapshot")
	}
}
