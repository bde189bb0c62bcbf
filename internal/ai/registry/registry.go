// Package registry assembles the ordered AI provider chain from configuration.
package registry

import (
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/openpaws/openpaws/internal/ai"
	"github.com/openpaws/openpaws/internal/ai/anthropic"
	"github.com/openpaws/openpaws/internal/ai/openaicompat"
	"github.com/openpaws/openpaws/internal/config"
)

const (
	OpenClawModel         = "openrouter/minimax/minimax-m2.5"
	OpenClawFallbackModel = "openclaw/default"
	OpenAIModel           = "gpt-4o"
)

// Build returns the provider for one chain entry.
func Build(name string, cfg config.AIConfig, httpClient *http.Client) (ai.Provider, error) {
	switch name {
	case ai.ProviderOpenClaw:
		return openaicompat.NewProviderWithClient(openaicompat.Config{
			Name:          ai.ProviderOpenClaw,
			BaseURL:       cfg.OpenClawURL + "/v1",
			APIKey:        cfg.OpenClawKey,
			Model:         OpenClawModel,
			FallbackModel: OpenClawFallbackModel,
			Enabled:       cfg.OpenClawURL != "",
		}, httpClient), nil
	case ai.ProviderOpenAI:
		return openaicompat.NewProviderWithClient(openaicompat.Config{
			Name:    ai.ProviderOpenAI,
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIKey,
			Model:   OpenAIModel,
			Enabled: cfg.OpenAIKey != "",
		}, httpClient), nil
	case ai.ProviderAnthropic:
		return anthropic.NewProviderWithClient(cfg.AnthropicKey, cfg.AnthropicBaseURL, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", name)
	}
}

// BuildChain builds every provider named in cfg.Providers, in order.
// Unconfigured providers stay in the chain so the router can report them.
func BuildChain(cfg config.AIConfig, httpClient *http.Client) ([]ai.Provider, error) {
	names := lo.Uniq(cfg.Providers)
	if len(names) == 0 {
		names = config.DefaultProviderOrder
	}
	chain := make([]ai.Provider, 0, len(names))
	for _, name := range names {
		p, err := Build(name, cfg, httpClient)
		if err != nil {
			return nil, err
		}
		chain = append(chain, p)
	}
	return chain, nil
}

// ConfiguredNames lists the providers in chain that have credentials.
func ConfiguredNames(chain []ai.Provider) []string {
	return lo.FilterMap(chain, func(p ai.Provider, _ int) (string, bool) {
		return p.Name(), p.Configured()
	})
}
