// Package config consolidates the client identifier, page size and host
// along with collector settings, read from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ModePublic = "public"
	ModeAPI    = "api"
	ModeMock   = "mock"

	// MaxPageSize is Reddit's server-side cap on the listing limit.
	MaxPageSize = 100
)

type Config struct {
	// ClientIdentifier is sent as the User-Agent header
	ClientIdentifier string
	PageSize         int
	Host             string

	Mode            string
	RequestInterval time.Duration
	Timeout         time.Duration

	ClientID     string
	ClientSecret string
	Username     string
	Password     string

	LogLevel slog.Level
	Port     string
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		ClientIdentifier: "reddit-stats/1.0",
		PageSize:         MaxPageSize,
		Host:             "www.reddit.com",
		Mode:             ModePublic,
		RequestInterval:  2 * time.Second,
		Timeout:          10 * time.Second,
		LogLevel:         slog.LevelInfo,
		Port:             "8080",
	}
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	if v := get("REDDIT_USER_AGENT"); v != "" {
		cfg.ClientIdentifier = v
	}
	if v := get("REDDIT_HOST"); v != "" {
		cfg.Host = v
	}
	if v := get("COLLECTOR_MODE"); v != "" {
		cfg.Mode = strings.ToLower(v)
	}
	if v := get("PORT"); v != "" {
		cfg.Port = v
	}
	if v := get("REDDIT_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("REDDIT_PAGE_SIZE: %w", err)
		}
		cfg.PageSize = n
	}
	if v := get("REDDIT_REQUEST_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("REDDIT_REQUEST_INTERVAL: %w", err)
		}
		cfg.RequestInterval = d
	}
	if v := get("REDDIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("REDDIT_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := get("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	cfg.ClientID = get("REDDIT_CLIENT_ID")
	cfg.ClientSecret = get("REDDIT_CLIENT_SECRET")
	cfg.Username = get("REDDIT_USERNAME")
	cfg.Password = get("REDDIT_PASSWORD")

	return cfg, cfg.Validate()
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if c.ClientIdentifier == "" {
		errs = append(errs, errors.New("client identifier (REDDIT_USER_AGENT) is required"))
	}
	if c.PageSize < 1 || c.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("page size must be between 1 and %d (got %d)", MaxPageSize, c.PageSize))
	}
	if c.Host == "" {
		errs = append(errs, errors.New("host is required"))
	}
	if c.RequestInterval < 0 {
		errs = append(errs, fmt.Errorf("request interval must not be negative (got %s)", c.RequestInterval))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive (got %s)", c.Timeout))
	}

	switch c.Mode {
	case ModePublic, ModeMock:
	case ModeAPI:
		if c.ClientID == "" || c.ClientSecret == "" || c.Username == "" || c.Password == "" {
			errs = append(errs, errors.New("api mode requires REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME and REDDIT_PASSWORD"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", c.Mode))
	}

	return errors.Join(errs...)
}

// BaseURL returns Host with a scheme. A Host that already carries one is
// used unchanged.
func (c Config) BaseURL() string {
	if strings.HasPrefix(c.Host, "http://") || strings.HasPrefix(c.Host, "https://") {
		return strings.TrimRight(c.Host, "/")
	}
	return "https://" + strings.TrimRight(c.Host, "/")
}
