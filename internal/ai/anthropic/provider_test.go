package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpaws/openpaws/internal/ai"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type textBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sentRequest struct {
	Model       string      `json:"model"`
	MaxTokens   int         `json:"max_tokens"`
	Temperature float64     `json:"temperature"`
	System      []textBlock `json:"system"`
	Messages    []struct {
		Role    string      `json:"role"`
		Content []textBlock `json:"content"`
	} `json:"messages"`
}

func TestComplete_SplitsSystemTurn(t *testing.T) {
	var gotReq sentRequest
	var gotHeaders http.Header
	var gotURL string

	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotHeaders = r.Header.Clone()
		gotURL = r.URL.String()
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotReq))
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body: io.NopCloser(strings.NewReader(`{
				"id": "msg_01",
				"type": "message",
				"role": "assistant",
				"model": "claude-sonnet-4-5-20250929",
				"content": [{"type": "thinking", "thinking": "hmm", "signature": "sig"}, {"type": "text", "text": "Post body"}],
				"stop_reason": "end_turn",
				"usage": {"input_tokens": 30, "output_tokens": 12}
			}`)),
		}, nil
	})}

	p := NewProviderWithClient("ak-test", "https://anthropic.local/", client)
	resp, err := p.Complete(context.Background(), []ai.Message{
		ai.System("You are a brand writer"),
		ai.User("Write"),
		ai.Assistant("Draft"),
		ai.User("Shorter"),
	}, ai.Options{MaxTokens: 512, Temperature: ai.Float(0.5)})
	require.NoError(t, err)

	assert.Equal(t, "https://anthropic.local/v1/messages", gotURL)
	assert.Equal(t, "ak-test", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	assert.Equal(t, []textBlock{{Type: "text", Text: "You are a brand writer"}}, gotReq.System)
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.Equal(t, 512, gotReq.MaxTokens)
	assert.Equal(t, 0.5, gotReq.Temperature)
	require.Len(t, gotReq.Messages, 3)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "assistant", gotReq.Messages[1].Role)
	assert.Equal(t, []textBlock{{Type: "text", Text: "Shorter"}}, gotReq.Messages[2].Content)

	assert.Equal(t, "Post body", resp.Content)
	assert.Equal(t, ai.ProviderAnthropic, resp.Provider)
	assert.Equal(t, DefaultModel, resp.Model)
	assert.Equal(t, ai.Usage{PromptTokens: 30, CompletionTokens: 12, TotalTokens: 42}, resp.Usage)
}

func TestComplete_NonSuccessStatus(t *testing.T) {
	calls := 0
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)),
		}, nil
	})}

	_, err := NewProviderWithClient("ak", "", client).Complete(context.Background(), []ai.Message{ai.User("hi")}, ai.Options{})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "failures are left to the router")
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "overloaded_error")
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewProvider("  ").Configured())
	assert.True(t, NewProvider("ak").Configured())
	assert.Equal(t, "anthropic", NewProvider("ak").Name())
}

func TestComplete_ExplicitZeroTemperature(t *testing.T) {
	var gotReq map[string]any
	client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotReq))
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"type":"message","role":"assistant","model":"m","content":[{"type":"text","text":"ok"}],"usage":{"input_tokens":1,"output_tokens":1}}`)),
		}, nil
	})}

	_, err := NewProviderWithClient("ak", "", client).Complete(context.Background(), []ai.Message{ai.User("hi")}, ai.Options{Temperature: ai.Float(0)})
	require.NoError(t, err)
	require.Contains(t, gotReq, "temperature")
	assert.EqualValues(t, 0, gotReq["temperature"])
	assert.NotContains(t, gotReq, "system")
}

func TestSplitSystem_NoSystemTurn(t *testing.T) {
	system, chat := splitSystem([]ai.Message{ai.User("hi")})
	assert.Empty(t, system)
	assert.Len(t, chat, 1)
}
