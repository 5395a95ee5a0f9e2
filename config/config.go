// Package config loads the service configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	Cache          CacheConfig          `yaml:"cache"`
	Storage        StorageConfig        `yaml:"storage"`
	Limits         LimitsConfig         `yaml:"limits"`
	Log            LogConfig            `yaml:"log"`
	Recommendation RecommendationConfig `yaml:"recommendation"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RateLimitConfig allows Requests per Interval for each client IP.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Interval time.Duration `yaml:"interval"`
}

type CacheConfig struct {
	Backend    string        `yaml:"backend"` // "memory" or "redis"
	RedisAddr  string        `yaml:"redis_addr"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"` // memory backend only; 0 is unbounded
	Breaker    BreakerConfig `yaml:"breaker"`
}

// BreakerConfig controls the circuit breaker in front of Redis.
type BreakerConfig struct {
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
	OpenTimeout         time.Duration `yaml:"open_timeout"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // "memory" or "sqlite"
	Path    string `yaml:"path"`
}

// LimitsConfig bounds the monetary inputs accepted by the API.
type LimitsConfig struct {
	MaxAnnualSalary       float64 `yaml:"max_annual_salary"`
	MaxMonthlyAmount      float64 `yaml:"max_monthly_amount"`
	MaxSavedPerUserListed int     `yaml:"max_saved_per_user_listed"`
}

// RecommendationConfig holds the assumptions behind match recommendations and
// the optional advisor model.
type RecommendationConfig struct {
	TaxBracket    float64            `yaml:"tax_bracket"`
	ExchangeRates map[string]float64 `yaml:"exchange_rates"` // USD per unit
	Advisor       AdvisorConfig      `yaml:"advisor"`
}

// AdvisorConfig points at an OpenAI-compatible chat completions endpoint. The
// API key only comes from MATCH_ADVISOR_API_KEY; without it the advisor is off.
type AdvisorConfig struct {
	APIKey      string        `yaml:"-"`
	APIURL      string        `yaml:"api_url"`
	Model       string        `yaml:"model"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Requests: 30,
			Interval: time.Minute,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			RedisAddr:  "localhost:6379",
			TTL:        24 * time.Hour,
			MaxEntries: 10_000,
			Breaker: BreakerConfig{
				ConsecutiveFailures: 5,
				OpenTimeout:         30 * time.Second,
			},
		},
		Storage: StorageConfig{
			Backend: "memory",
			Path:    "match.db",
		},
		Limits: LimitsConfig{
			MaxAnnualSalary:       100_000_000,
			MaxMonthlyAmount:      10_000_000,
			MaxSavedPerUserListed: 100,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Recommendation: RecommendationConfig{
			TaxBracket:    0.22,
			ExchangeRates: map[string]float64{"INR": 0.012},
			Advisor: AdvisorConfig{
				APIURL:      "https://api.openai.com/v1/chat/completions",
				Model:       "gpt-4o-mini",
				Timeout:     60 * time.Second,
				MaxTokens:   3000,
				Temperature: 0.3,
			},
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("MATCH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MATCH_REDIS_ADDR"); v != "" {
		cfg.Cache.Backend = "redis"
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("MATCH_DB_PATH"); v != "" {
		cfg.Storage.Backend = "sqlite"
		cfg.Storage.Path = v
	}
	if v := os.Getenv("MATCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MATCH_ADVISOR_API_KEY"); v != "" {
		cfg.Recommendation.Advisor.APIKey = v
	}
	if v := os.Getenv("MATCH_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing MATCH_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit.Requests = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.RateLimit.Requests < 0 {
		return errors.New("rate_limit.requests must not be negative")
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Interval <= 0 {
		return errors.New("rate_limit.interval must be positive")
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache.max_entries must not be negative")
	}
	switch c.Storage.Backend {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Limits.MaxAnnualSalary <= 0 || c.Limits.MaxMonthlyAmount <= 0 {
		return errors.New("limits must be positive")
	}
	if c.Recommendation.TaxBracket < 0 || c.Recommendation.TaxBracket >= 1 {
		return errors.New("recommendation.tax_bracket must be in [0, 1)")
	}
	for currency, rate := range c.Recommendation.ExchangeRates {
		if rate <= 0 {
			return fmt.Errorf("recommendation.exchange_rates.%s must be positive", currency)
		}
	}
	if c.Recommendation.Advisor.APIKey != "" && c.Recommendation.Advisor.APIURL == "" {
		return errors.New("recommendation.advisor.api_url is required when the advisor is enabled")
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
