package openaicompat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpaws/openpaws/internal/ai"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

const completionBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": %q,
	"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Fresh post"}}],
	"usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20}
}`

func TestComplete_GatewayRequestShape(t *testing.T) {
	var captured struct {
		url   string
		auth  string
		body  map[string]any
		calls int
	}

	client := &http.Client{
		Timeout: time.Second,
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			captured.calls++
			captured.url = r.URL.String()
			captured.auth = r.Header.Get("Authorization")
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &captured.body)
			return jsonResponse(http.StatusOK, strings.Replace(completionBody, "%q", `""`, 1)), nil
		}),
	}

	p := NewProviderWithClient(Config{
		Name:          "openclaw",
		BaseURL:       "http://gateway.local/v1",
		APIKey:        "gw-key",
		Model:         "openrouter/minimax/minimax-m2.5",
		FallbackModel: "openclaw/default",
		Enabled:       true,
	}, client)

	resp, err := p.Complete(context.Background(), []ai.Message{
		ai.System("be brief"),
		ai.User("write a post"),
		ai.Assistant("draft"),
	}, ai.Options{MaxTokens: 1024, Temperature: ai.Float(0.8)})
	require.NoError(t, err)

	assert.Equal(t, 1, captured.calls)
	assert.Equal(t, "http://gateway.local/v1/chat/completions", captured.url)
	assert.Equal(t, "Bearer gw-key", captured.auth)
	assert.Equal(t, "openrouter/minimax/minimax-m2.5", captured.body["model"])
	assert.EqualValues(t, 1024, captured.body["max_tokens"])
	assert.EqualValues(t, 0.8, captured.body["temperature"])

	msgs, ok := captured.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[2].(map[string]any)["role"])

	assert.Equal(t, "Fresh post", resp.Content)
	assert.Equal(t, "openclaw", resp.Provider)
	assert.Equal(t, "openclaw/default", resp.Model)
	assert.Equal(t, ai.Usage{PromptTokens: 12, CompletionTokens: 8, TotalTokens: 20}, resp.Usage)
}

func TestComplete_ReportsResponseModel(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, strings.Replace(completionBody, "%q", `"gpt-4o-2024-08-06"`, 1)), nil
	})}
	p := NewProviderWithClient(Config{Name: "openai", APIKey: "sk", Model: "gpt-4o", Enabled: true}, client)

	resp, err := p.Complete(context.Background(), []ai.Message{ai.User("hi")}, ai.Options{})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-2024-08-06", resp.Model)
}

func TestComplete_UpstreamErrorIsNotRetried(t *testing.T) {
	calls := 0
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(http.StatusTooManyRequests, `{"error":{"message":"rate limited","type":"rate_limit"}}`), nil
	})}
	p := NewProviderWithClient(Config{Name: "openai", APIKey: "sk", Model: "gpt-4o", Enabled: true}, client)

	_, err := p.Complete(context.Background(), []ai.Message{ai.User("hi")}, ai.Options{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, err.Error(), "429")
}

func TestComplete_NoChoices(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"id":"x","object":"chat.completion","model":"gpt-4o","choices":[]}`), nil
	})}
	p := NewProviderWithClient(Config{Name: "openai", APIKey: "sk", Model: "gpt-4o", Enabled: true}, client)

	_, err := p.Complete(context.Background(), []ai.Message{ai.User("hi")}, ai.Options{})
	assert.ErrorContains(t, err, "no completion choices")
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewProvider(Config{Name: "openai", APIKey: "sk"}).Configured())
	assert.True(t, NewProvider(Config{Name: "openai", APIKey: "sk", Enabled: true}).Configured())

	_, err := NewProvider(Config{Name: "openclaw"}).Complete(context.Background(), nil, ai.Options{})
	assert.ErrorContains(t, err, "not configured")
}
