// Package providers initializes and registers all concrete data providers
// with the global provider registry.
package providers

import (
	"github.com/seenimoa/edgarscope/internal/config"
	engine "github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/internal/provider"
	"github.com/seenimoa/edgarscope/internal/providers/edgar"
)

// RegisterAll creates and registers all available providers with the
// global registry, configured from cfg.
func RegisterAll(cfg *config.Config) error {
	return RegisterAllTo(provider.Global(), cfg)
}

// RegisterAllTo registers all available providers to the given registry.
func RegisterAllTo(reg *provider.Registry, cfg *config.Config) error {
	opts := []engine.Option{
		engine.WithUserAgent(cfg.EDGAR.UserAgent),
		engine.WithFetchTimeout(cfg.EDGAR.FetchTimeout()),
		engine.WithConcurrency(cfg.EDGAR.FetchConcurrency),
	}
	if cfg.EDGAR.BaseURL != "" {
		opts = append(opts, engine.WithBaseURL(cfg.EDGAR.BaseURL))
	}
	if cfg.EDGAR.RateLimit > 0 {
		opts = append(opts, engine.WithRateLimit(cfg.EDGAR.RateLimit))
	}

	settings := edgar.Settings{
		CacheTTL:  cfg.EDGAR.CacheTTL(),
		RateLimit: cfg.EDGAR.RateLimit,
	}
	return reg.Register(edgar.NewWithSettings(settings, opts...))
}
