package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTTL    = 10 * time.Minute
	keyPrefix     = "ratebot:"
	currencyKey   = keyPrefix + "currencies"
	conversionKey = keyPrefix + "rate:%s:%s:%s"
)

type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RateCache wraps a currency provider and keeps the currency list and successful conversions in Redis.
// Cache failures fall through to the provider.
type RateCache struct {
	provider port.CurrencyProvider
	client   RedisClient
	ttl      time.Duration
}

func NewRateCache(provider port.CurrencyProvider, client RedisClient, ttl time.Duration) *RateCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RateCache{provider: provider, client: client, ttl: ttl}
}

func (c *RateCache) ListCurrencies(ctx context.Context) (map[string]string, error) {
	var currencies map[string]string
	if c.get(ctx, currencyKey, &currencies) && len(currencies) > 0 {
		return currencies, nil
	}

	currencies, err := c.provider.ListCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	c.set(ctx, currencyKey, currencies)
	return currencies, nil
}

func (c *RateCache) Convert(ctx context.Context, from, to string, amount float64) (domain.Conversion, error) {
	key := fmt.Sprintf(conversionKey, from, to, strconv.FormatFloat(amount, 'f', -1, 64))

	var result float64
	if c.get(ctx, key, &result) {
		return domain.Conversion{Success: true, Result: &result}, nil
	}

	conversion, err := c.provider.Convert(ctx, from, to, amount)
	if err != nil {
		return conversion, err
	}

	if conversion.Success && conversion.Result != nil {
		c.set(ctx, key, *conversion.Result)
	}

	return conversion, nil
}

func (c *RateCache) get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return false
	}

	log.Debug().Str("key", key).Msg("cache hit")
	return true
}

func (c *RateCache) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("could not encode cache entry")
		return
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
