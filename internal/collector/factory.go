package collector

import (
	"fmt"

	"github.com/qepting91/reddit-stats/internal/config"
	"github.com/qepting91/reddit-stats/internal/domain"
)

// New selects the correct implementation based on cfg.Mode
func New(cfg config.Config) (domain.Fetcher, error) {
	switch cfg.Mode {
	case config.ModeAPI:
		return NewAPIClient(
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Username,
			cfg.Password,
			cfg.ClientIdentifier,
			cfg.RequestInterval,
		)
	case config.ModePublic:
		return NewPublicClient(cfg.BaseURL(), cfg.ClientIdentifier, cfg.RequestInterval, cfg.Timeout)
	case config.ModeMock:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown COLLECTOR_MODE: %s (use 'api', 'public', or 'mock')", cfg.Mode)
	}
}
