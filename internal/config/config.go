package config

import (
	"errors"
	"fmt"
	"ratebot/internal/core/domain"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

const (
	ShutdownCommand = "/shutdown"
	DevCommand      = "/dev"

	accessAdmin = "admin"
	accessAll   = "all"
)

type Config struct {
	Telegram   TelegramConfig
	Bot        BotConfig
	Access     map[string]domain.AccessRule
	Currency   CurrencyConfig
	Redis      RedisConfig
	Database   DatabaseConfig
	Users      UsersConfig
	Firestore  FirestoreConfig
	OpenRouter OpenRouterConfig
	Chat       ChatConfig
}

type TelegramConfig struct {
	BotToken string
	APIURL   string
}

type BotConfig struct {
	AdminID        int64
	AdminIDs       []int64
	LogLevel       string
	PollInterval   time.Duration
	HandlerTimeout time.Duration
	SendRetries    int
	ForbiddenWords []string
}

type CurrencyConfig struct {
	APIURL       string
	APIKey       string
	SnapshotPath string
	Target       string
	CacheTTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	URL string
}

type UsersConfig struct {
	Backend string
}

type FirestoreConfig struct {
	Project string
}

type OpenRouterConfig struct {
	APIKey string
	Model  string
}

type ChatConfig struct {
	SystemPrompt string
}

// legacyEnv lists the plain environment names older deployments use, next to the derived names such as
// TELEGRAM_BOT_TOKEN.
var legacyEnv = map[string][]string{
	"telegram.bot_token": {"TOKEN"},
	"bot.admin_id":       {"ADMIN_ID"},
	"bot.admin_ids":      {"ADMIN_IDS"},
	"currency.api_url":   {"CURRENCY_API_URL"},
	"currency.api_key":   {"CURRENCY_API_KEY"},
	"database.url":       {"DATABASE_URL"},
	"openrouter.api_key": {"OPENROUTER_API_KEY"},
	"firestore.project":  {"FIRESTORE_PROJECT_ID"},
	"bot.log_level":      {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.api_url", "")
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("bot.poll_interval", "1.5s")
	v.SetDefault("bot.handler_timeout", "10s")
	v.SetDefault("bot.send_retries", 3)
	v.SetDefault("bot.forbidden_words", []string{"badword"})
	v.SetDefault("currency.snapshot_path", "currency.json")
	v.SetDefault("currency.target", "UAH")
	v.SetDefault("currency.cache_ttl", "10m")
	v.SetDefault("redis.db", 0)
	v.SetDefault("users.backend", "none")
	v.SetDefault("keyring.account", "bot_token")
}

// Load reads .env, the optional config.toml in dir and the environment, in increasing precedence.
func Load(dir string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}
		log.Info().Msg("no config file found, using environment only")
	}

	return FromViper(v)
}

// FromViper builds the configuration from an already populated viper instance and validates it.
func FromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range legacyEnv {
		names := append([]string{key, envName(key)}, envs...)
		if err := v.BindEnv(names...); err != nil {
			return Config{}, fmt.Errorf("failed binding env for %s: %w", key, err)
		}
	}

	cfg := Config{
		Telegram: TelegramConfig{
			BotToken: strings.TrimSpace(v.GetString("telegram.bot_token")),
			APIURL:   v.GetString("telegram.api_url"),
		},
		Bot: BotConfig{
			AdminID:        v.GetInt64("bot.admin_id"),
			LogLevel:       v.GetString("bot.log_level"),
			PollInterval:   v.GetDuration("bot.poll_interval"),
			HandlerTimeout: v.GetDuration("bot.handler_timeout"),
			SendRetries:    v.GetInt("bot.send_retries"),
			ForbiddenWords: v.GetStringSlice("bot.forbidden_words"),
		},
		Currency: CurrencyConfig{
			APIURL:       v.GetString("currency.api_url"),
			APIKey:       v.GetString("currency.api_key"),
			SnapshotPath: v.GetString("currency.snapshot_path"),
			Target:       strings.ToUpper(v.GetString("currency.target")),
			CacheTTL:     v.GetDuration("currency.cache_ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Database:  DatabaseConfig{URL: v.GetString("database.url")},
		Users:     UsersConfig{Backend: strings.ToLower(v.GetString("users.backend"))},
		Firestore: FirestoreConfig{Project: v.GetString("firestore.project")},
		OpenRouter: OpenRouterConfig{
			APIKey: v.GetString("openrouter.api_key"),
			Model:  v.GetString("openrouter.model"),
		},
		Chat: ChatConfig{SystemPrompt: v.GetString("chat.system_prompt")},
	}

	adminIDs, err := parseIDs(v.GetStringSlice("bot.admin_ids"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid bot.admin_ids: %w", err)
	}
	if len(adminIDs) == 0 && cfg.Bot.AdminID != 0 {
		adminIDs = []int64{cfg.Bot.AdminID}
	}
	cfg.Bot.AdminIDs = adminIDs

	access, err := parseAccess(v.GetStringMap("access"))
	if err != nil {
		return Config{}, err
	}
	if _, ok := access[DevCommand]; !ok {
		access[DevCommand] = domain.AccessRule{Kind: domain.AllowList, Users: adminIDs}
	}
	access[ShutdownCommand] = domain.AccessRule{Kind: domain.AdminOnly}
	cfg.Access = access

	if cfg.Telegram.BotToken == "" {
		cfg.Telegram.BotToken = tokenFromKeyring(v.GetString("keyring.service"), v.GetString("keyring.account"))
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("%w: telegram.bot_token", domain.ErrMissingConfig)
	}
	if c.Bot.AdminID == 0 {
		return fmt.Errorf("%w: bot.admin_id", domain.ErrMissingConfig)
	}
	if c.Bot.PollInterval <= 0 {
		return fmt.Errorf("bot.poll_interval must be positive, got %s", c.Bot.PollInterval)
	}

	switch c.Users.Backend {
	case "none", "memory":
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("%w: database.url", domain.ErrMissingConfig)
		}
	case "firestore":
		if c.Firestore.Project == "" {
			return fmt.Errorf("%w: firestore.project", domain.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("unknown users.backend %q", c.Users.Backend)
	}

	return nil
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func tokenFromKeyring(service, account string) string {
	if service == "" {
		return ""
	}

	token, err := keyring.Get(service, account)
	if err != nil {
		log.Warn().Err(err).Str("service", service).Msg("could not read bot token from keyring")
		return ""
	}

	log.Info().Str("service", service).Msg("using bot token from keyring")
	return strings.TrimSpace(token)
}

// parseIDs accepts list entries as well as comma separated strings.
func parseIDs(raw []string) ([]int64, error) {
	var ids []int64
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid user id %q: %w", part, err)
			}
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func parseAccess(raw map[string]any) (map[string]domain.AccessRule, error) {
	access := make(map[string]domain.AccessRule, len(raw))

	for command, value := range raw {
		rule, err := parseRule(value)
		if err != nil {
			return nil, fmt.Errorf("invalid access rule for %s: %w", command, err)
		}
		access[command] = rule
	}

	return access, nil
}

func parseRule(value any) (domain.AccessRule, error) {
	switch v := value.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case accessAdmin:
			return domain.AccessRule{Kind: domain.AdminOnly}, nil
		case accessAll:
			return domain.AccessRule{Kind: domain.Unrestricted}, nil
		default:
			ids, err := parseIDs([]string{v})
			if err != nil {
				return domain.AccessRule{}, err
			}
			return domain.AccessRule{Kind: domain.AllowList, Users: ids}, nil
		}
	case []any:
		entries := make([]string, 0, len(v))
		for _, e := range v {
			entries = append(entries, fmt.Sprint(e))
		}
		ids, err := parseIDs(entries)
		if err != nil {
			return domain.AccessRule{}, err
		}
		return domain.AccessRule{Kind: domain.AllowList, Users: ids}, nil
	case []int64:
		return domain.AccessRule{Kind: domain.AllowList, Users: v}, nil
	default:
		return domain.AccessRule{}, fmt.Errorf("unsupported value %v", value)
	}
}
