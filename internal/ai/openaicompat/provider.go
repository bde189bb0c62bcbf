// Package openaicompat adapts OpenAI-compatible chat completion APIs, both
// the openclaw gateway and OpenAI itself, to the ai.Provider interface.
package openaicompat

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/openpaws/openpaws/internal/ai"
	"github.com/openpaws/openpaws/internal/util"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// Config describes one OpenAI-compatible backend.
type Config struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	// FallbackModel is reported when the response carries no model.
	FallbackModel string
	// Enabled is decided by the caller since the gateway is keyed on its URL
	// while OpenAI is keyed on its API key.
	Enabled bool
}

// Provider issues chat completions through the openai-go SDK.
type Provider struct {
	name          string
	model         string
	fallbackModel string
	enabled       bool
	client        openai.Client
}

func NewProvider(cfg Config) *Provider {
	return NewProviderWithClient(cfg, nil)
}

func NewProviderWithClient(cfg Config, httpClient *http.Client) *Provider {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithBaseURL(baseURL + "/"),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Provider{
		name:          strings.ToLower(strings.TrimSpace(cfg.Name)),
		model:         cfg.Model,
		fallbackModel: cfg.FallbackModel,
		enabled:       cfg.Enabled,
		client:        openai.NewClient(opts...),
	}
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) Configured() bool {
	return p != nil && p.enabled && p.name != ""
}

func (p *Provider) Complete(ctx context.Context, messages []ai.Message, opts ai.Options) (*ai.Response, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("%s not configured", p.name)
	}
	opts = opts.WithDefaults()

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       p.model,
		Messages:    toParams(messages),
		MaxTokens:   openai.Int(int64(opts.MaxTokens)),
		Temperature: openai.Float(*opts.Temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %s", util.TruncateLog(err.Error(), util.ErrorBodyMaxLen))
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no completion choices", p.name)
	}

	model := completion.Model
	if model == "" {
		model = p.fallbackModel
	}
	return &ai.Response{
		Content:  completion.Choices[0].Message.Content,
		Provider: p.name,
		Model:    model,
		Usage: ai.Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}, nil
}

func toParams(messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case ai.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case ai.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
