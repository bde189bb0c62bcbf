// Package ai routes chat completions across an ordered chain of providers.
package ai

import "context"

// Role is the author of a chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// System, User and Assistant build messages of the matching role.
func System(content string) Message    { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message      { return Message{Role: RoleUser, Content: content} }
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

const (
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.7
)

// Options tune a completion. Unset fields select the defaults.
type Options struct {
	MaxTokens int
	// Temperature is a pointer so that an explicit 0 is honored.
	Temperature *float64
}

// Float returns a pointer to v, for Options.Temperature.
func Float(v float64) *float64 { return &v }

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.Temperature == nil {
		o.Temperature = Float(DefaultTemperature)
	}
	return o
}

// Usage counts tokens of one completion.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Response is a normalized completion.
type Response struct {
	Content    string `json:"content"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	Usage      Usage  `json:"usage"`
	DurationMs int64  `json:"durationMs"`
}

// CostUSD is the estimated spend of r.
func (r *Response) CostUSD() float64 {
	return EstimateCostUSD(r.Provider, r.Usage.PromptTokens, r.Usage.CompletionTokens)
}

// Provider is one backend in the chain.
type Provider interface {
	Name() string
	// Configured reports whether credentials are present. Unconfigured
	// providers are skipped without a network call.
	Configured() bool
	Complete(ctx context.Context, messages []Message, opts Options) (*Response, error)
}

// Completer is satisfied by Router and by anything that can stand in for it.
type Completer interface {
	Generate(ctx context.Context, messages []Message, opts Options) (*Response, error)
}
