package registry

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpaws/openpaws/internal/ai"
	"github.com/openpaws/openpaws/internal/config"
)

func names(chain []ai.Provider) []string {
	out := make([]string, 0, len(chain))
	for _, p := range chain {
		out = append(out, p.Name())
	}
	return out
}

func TestBuildChain_DefaultOrder(t *testing.T) {
	chain, err := BuildChain(config.AIConfig{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"openclaw", "openai", "anthropic"}, names(chain))
	assert.Empty(t, ConfiguredNames(chain))
}

func TestBuildChain_ConfiguredRules(t *testing.T) {
	chain, err := BuildChain(config.AIConfig{
		Providers:    []string{"openclaw", "openai", "anthropic", "openai"},
		OpenClawURL:  "http://gateway.local",
		OpenClawKey:  "",
		AnthropicKey: "ak",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"openclaw", "openai", "anthropic"}, names(chain))
	// openclaw is keyed on its URL alone; openai has no key.
	assert.Equal(t, []string{"openclaw", "anthropic"}, ConfiguredNames(chain))
}

func TestBuildChain_CustomSubset(t *testing.T) {
	chain, err := BuildChain(config.AIConfig{Providers: []string{"anthropic"}, AnthropicKey: "ak"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"anthropic"}, names(chain))
}

func TestBuild_Unknown(t *testing.T) {
	_, err := Build("gemini", config.AIConfig{}, nil)
	assert.Error(t, err)
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestBuild_UsesConfiguredBaseURLs(t *testing.T) {
	var urls []string
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		urls = append(urls, r.URL.String())
		body := `{"type":"message","role":"assistant","model":"m","content":[{"type":"text","text":"ok"}],"usage":{"input_tokens":1,"output_tokens":1}}`
		if strings.HasSuffix(r.URL.Path, "/chat/completions") {
			body = `{"id":"c","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	})}
	cfg := config.AIConfig{
		OpenAIKey:        "sk",
		OpenAIBaseURL:    "https://openai.internal/v1",
		AnthropicKey:     "ak",
		AnthropicBaseURL: "https://anthropic.internal",
	}

	for _, name := range []string{ai.ProviderOpenAI, ai.ProviderAnthropic} {
		p, err := Build(name, cfg, client)
		require.NoError(t, err)
		_, err = p.Complete(context.Background(), []ai.Message{ai.User("hi")}, ai.Options{})
		require.NoError(t, err, name)
	}
	assert.Equal(t, []string{
		"https://openai.internal/v1/chat/completions",
		"https://anthropic.internal/v1/messages",
	}, urls)
}
