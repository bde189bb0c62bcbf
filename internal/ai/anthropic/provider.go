// Package anthropic adapts the Anthropic Messages API to ai.Provider.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/openpaws/openpaws/internal/ai"
	"github.com/openpaws/openpaws/internal/util"
)

const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-sonnet-4-5-20250929"
)

// Provider issues messages through the anthropic-sdk-go client.
type Provider struct {
	apiKey string
	model  string
	client anthropic.Client
}

func NewProvider(apiKey string) *Provider {
	return NewProviderWithClient(apiKey, "", nil)
}

// NewProviderWithClient targets baseURL, or DefaultBaseURL when it is empty.
func NewProviderWithClient(apiKey, baseURL string, httpClient *http.Client) *Provider {
	apiKey = strings.TrimSpace(apiKey)
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL + "/"),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Provider{
		apiKey: apiKey,
		model:  DefaultModel,
		client: anthropic.NewClient(opts...),
	}
}

func (p *Provider) Name() string { return ai.ProviderAnthropic }

func (p *Provider) Configured() bool { return p != nil && p.apiKey != "" }

// splitSystem moves the first system turn into the dedicated parameter.
// Any further system turns are dropped since the API takes a single one.
func splitSystem(messages []ai.Message) ([]anthropic.TextBlockParam, []anthropic.MessageParam) {
	var system []anthropic.TextBlockParam
	chat := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case ai.RoleSystem:
			if system == nil {
				system = []anthropic.TextBlockParam{{Text: m.Content}}
			}
		case ai.RoleAssistant:
			chat = append(chat, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			chat = append(chat, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return system, chat
}

func (p *Provider) Complete(ctx context.Context, messages []ai.Message, opts ai.Options) (*ai.Response, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("anthropic not configured")
	}
	opts = opts.WithDefaults()

	system, chat := splitSystem(messages)
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(*opts.Temperature),
		System:      system,
		Messages:    chat,
	})
	if err != nil {
		return nil, fmt.Errorf("messages: %s", util.TruncateLog(err.Error(), util.ErrorBodyMaxLen))
	}

	content := ""
	for _, block := range msg.Content {
		if block.Type == "text" {
			content = block.Text
			break
		}
	}
	return &ai.Response{
		Content:  content,
		Provider: ai.ProviderAnthropic,
		Model:    string(msg.Model),
		Usage: ai.Usage{
			PromptTokens:     int(msg.Usage.InputTokens),
			CompletionTokens: int(msg.Usage.OutputTokens),
			TotalTokens:      int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}, nil
}
