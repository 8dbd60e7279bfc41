package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"autopost/internal/model"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	PacingBatch   = "batch"
	PacingLimiter = "limiter"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Port string

	Feeds []model.FeedSource

	LLMProvider     string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	LLMTimeout      time.Duration

	MediumClientID     string
	MediumClientSecret string
	MediumCallback     string
	MediumUserID       string
	MediumAPIURL       string
	MediumAuthorizeURL string
	MediumTags         []string
	MediumAccessToken  string
	PublishTimeout     time.Duration

	FeedTimeout time.Duration

	Pacing     string
	PaceEvery  int
	PaceDelay  time.Duration
	RetryCount int
	RetryDelay time.Duration

	SessionStore  string
	SessionTTL    time.Duration
	SessionSecret string
	RedisURL      string

	FrontendURL string
}

// Load reads configuration from the environment. Callers load .env first.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		Feeds: splitFeeds(os.Getenv("BLOGS")),

		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     os.Getenv("OPENAI_MODEL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  os.Getenv("ANTHROPIC_MODEL"),
		LLMTimeout:      getDurationEnv("LLM_TIMEOUT", 2*time.Minute),

		MediumClientID:     os.Getenv("MEDIUM_CLIENT_ID"),
		MediumClientSecret: os.Getenv("MEDIUM_CLIENT_SECRET"),
		MediumCallback:     os.Getenv("MEDIUM_CALLBACK"),
		MediumUserID:       os.Getenv("MEDIUM_USER_ID"),
		MediumAPIURL:       getEnv("MEDIUM_API_URL", "https://api.medium.com/v1"),
		MediumAuthorizeURL: getEnv("MEDIUM_AUTHORIZE_URL", "https://medium.com/m/oauth/authorize"),
		MediumTags:         splitList(getEnv("MEDIUM_TAGS", "crypto,blockchain,web3")),
		MediumAccessToken:  os.Getenv("MEDIUM_ACCESS_TOKEN"),
		PublishTimeout:     getDurationEnv("PUBLISH_TIMEOUT", 30*time.Second),

		FeedTimeout: getDurationEnv("FEED_TIMEOUT", 30*time.Second),

		Pacing:     strings.ToLower(getEnv("PACING", PacingBatch)),
		PaceEvery:  getIntEnv("PACE_EVERY", 10),
		PaceDelay:  getDurationEnv("PACE_DELAY", 40*time.Second),
		RetryCount: getIntEnv("RETRY_ATTEMPTS", 1),
		RetryDelay: getDurationEnv("RETRY_DELAY", 5*time.Second),

		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
		SessionTTL:    getDurationEnv("SESSION_TTL", 24*time.Hour),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		RedisURL:      os.Getenv("REDIS_URL"),

		FrontendURL: os.Getenv("FRONTEND_URL"),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	var errs []error

	if len(c.Feeds) == 0 {
		errs = append(errs, errors.New("BLOGS is required"))
	}

	switch c.LLMProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required"))
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}

	if c.MediumUserID == "" {
		errs = append(errs, errors.New("MEDIUM_USER_ID is required"))
	}

	switch c.Pacing {
	case PacingBatch, PacingLimiter:
	default:
		errs = append(errs, fmt.Errorf("unknown PACING %q", c.Pacing))
	}
	if c.PaceEvery < 1 {
		errs = append(errs, errors.New("PACE_EVERY must be > 0"))
	}

	switch c.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when SESSION_STORE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore))
	}

	return errors.Join(errs...)
}

// ValidateOAuth checks the settings only the HTTP server needs.
func (c *Config) ValidateOAuth() error {
	var errs []error
	if c.MediumClientID == "" {
		errs = append(errs, errors.New("MEDIUM_CLIENT_ID is required"))
	}
	if c.MediumClientSecret == "" {
		errs = append(errs, errors.New("MEDIUM_CLIENT_SECRET is required"))
	}
	if c.MediumCallback == "" {
		errs = append(errs, errors.New("MEDIUM_CALLBACK is required"))
	}
	return errors.Join(errs...)
}

func splitFeeds(raw string) []model.FeedSource {
	var feeds []model.FeedSource
	for _, u := range splitList(raw) {
		feeds = append(feeds, model.FeedSource(u))
	}
	return feeds
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
