package main

import (
	"context"
	"os"
	"os/signal"
	"ratebot/internal/adapters/cache"
	"ratebot/internal/adapters/currency"
	"ratebot/internal/adapters/file"
	"ratebot/internal/adapters/generator"
	"ratebot/internal/adapters/store"
	"ratebot/internal/adapters/system"
	"ratebot/internal/adapters/telegram"
	"ratebot/internal/config"
	"ratebot/internal/core/domain/command"
	"ratebot/internal/core/port"
	"ratebot/internal/core/service"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/go-redis/redis/v8"
	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Info().Msg("starting ratebot...")

	log.Info().Msg("reading config...")
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	var logLevel zerolog.Level

	switch cfg.Bot.LogLevel {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []bot.Option{}
	if cfg.Telegram.APIURL != "" {
		opts = append(opts, bot.WithServerURL(cfg.Telegram.APIURL))
	}

	b, err := bot.New(cfg.Telegram.BotToken, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	sender := telegram.NewSender(b)
	receiver := telegram.NewReceiver(cfg.Telegram.BotToken).WithBaseURL(cfg.Telegram.APIURL)

	users, closeUsers := newUserStore(ctx, cfg)
	defer closeUsers()

	notifier := service.NewNotifier(sender, users)
	snapshot := file.NewSnapshotStore(cfg.Currency.SnapshotPath)
	providers := newProviderFactory(cfg)

	registry := &command.Registry{}

	registry.Register("/help", "Show this list of commands.", func() port.Command {
		return command.NewHelp(registry, "/help")
	})
	registry.Register(config.ShutdownCommand, "Stop the bot (administrator only).", func() port.Command {
		return command.NewShutdown(config.ShutdownCommand)
	})
	registry.Register("/currency", "Rate of a currency against "+cfg.Currency.Target+", e.g. /currency EUR.",
		func() port.Command {
			return command.NewCurrency(command.CurrencyParams{
				Provider: providers,
				Snapshot: snapshot,
				Target:   cfg.Currency.Target,
				Command:  "/currency",
			})
		})
	registry.Register("/currency1", "Convert an amount, e.g. /currency1 10 USD to EUR.", func() port.Command {
		return command.NewConvert(command.CurrencyParams{
			Provider: providers,
			Snapshot: snapshot,
			Command:  "/currency1",
		})
	})
	registry.Register(config.DevCommand, "Developer diagnostics.", func() port.Command {
		return command.NewDev(command.DevParams{
			AdminIDs:    cfg.Bot.AdminIDs,
			Users:       users,
			Broadcaster: notifier,
			Host:        system.NewHost(),
			Command:     config.DevCommand,
		})
	})
	registry.Register("/answer", "Ask the language model a question.", func() port.Command {
		return command.NewAnswer(func() (port.TextGenerator, error) {
			return generator.NewOpenRouter(cfg.OpenRouter.APIKey, cfg.Chat.SystemPrompt, cfg.OpenRouter.Model)
		}, "/answer")
	})

	pipeline := service.NewPipeline(service.PipelineParams{
		Taps:       []service.Tap{service.LoggingTap{}, service.NewUserTap(users)},
		Authorizer: service.NewAuthorizer(cfg.Bot.AdminID, service.PolicyTable(cfg.Access)),
		Chain:      service.Chain{service.NewContentFilter(cfg.Bot.ForbiddenWords), service.LoggingFilter{}},
		Registry:   registry,
		Timeout:    cfg.Bot.HandlerTimeout,
	})

	poller := service.NewPoller(service.PollerParams{
		Fetcher:      receiver,
		Sender:       sender,
		Handler:      pipeline,
		Interval:     cfg.Bot.PollInterval,
		SendRetries:  cfg.Bot.SendRetries,
		RetryBackoff: time.Second,
	})

	log.Info().Msg("bot polling")
	poller.Run(ctx)
	log.Info().Msg("bot stopped")
}

func newUserStore(ctx context.Context, cfg config.Config) (port.UserStore, func()) {
	switch cfg.Users.Backend {
	case "postgres":
		pg, err := store.NewPostgres(ctx, cfg.Database.URL)
		if err != nil {
			log.Panic().Err(err).Msg("failed initializing postgres user store")
		}
		return pg, func() {
			if err := pg.Close(); err != nil {
				log.Warn().Err(err).Msg("failed closing postgres")
			}
		}
	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.Firestore.Project)
		if err != nil {
			log.Panic().Err(err).Msg("failed initializing firestore client")
		}
		return store.NewFirestore(client), func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("failed closing firestore")
			}
		}
	default:
		log.Info().Msg("using in-memory user store")
		return store.NewMemory(), func() {}
	}
}

// newProviderFactory wraps the currency API client in the Redis cache when an address is configured.
func newProviderFactory(cfg config.Config) command.ProviderFactory {
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	return func() (port.CurrencyProvider, error) {
		client, err := currency.NewClient(cfg.Currency.APIURL, cfg.Currency.APIKey, currency.DefaultTimeout)
		if err != nil {
			return nil, err
		}

		if rdb == nil {
			return client, nil
		}

		return cache.NewRateCache(client, rdb, cfg.Currency.CacheTTL), nil
	}
}
