package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/openpaws/openpaws/internal/metrics"
)

// DefaultAttemptTimeout bounds a single provider attempt.
const DefaultAttemptTimeout = 60 * time.Second

// Router tries providers strictly in order and returns the first success.
type Router struct {
	providers      []Provider
	attemptTimeout time.Duration
	metrics        *metrics.Metrics
	now            func() time.Time
}

// RouterOption customizes a Router.
type RouterOption func(*Router)

// WithAttemptTimeout sets the per-provider deadline.
func WithAttemptTimeout(d time.Duration) RouterOption {
	return func(r *Router) {
		if d > 0 {
			r.attemptTimeout = d
		}
	}
}

// WithMetrics records attempts on m.
func WithMetrics(m *metrics.Metrics) RouterOption {
	return func(r *Router) { r.metrics = m }
}

// NewRouter builds a router over providers in failover order.
func NewRouter(providers []Provider, opts ...RouterOption) *Router {
	r := &Router{
		providers:      append([]Provider(nil), providers...),
		attemptTimeout: DefaultAttemptTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns the chain in order.
func (r *Router) Providers() []Provider {
	return append([]Provider(nil), r.providers...)
}

// Generate runs messages through the chain. No provider is retried and
// providers are never raced.
func (r *Router) Generate(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	opts = opts.WithDefaults()
	logger := zerolog.Ctx(ctx)
	failures := make([]string, 0, len(r.providers))

	for _, p := range r.providers {
		name := p.Name()
		if !p.Configured() {
			failures = append(failures, fmt.Sprintf("%s: not configured", name))
			r.metrics.ObserveAttempt(name, metrics.OutcomeNotConfigured, 0)
			continue
		}

		start := r.now()
		resp, err := r.attempt(ctx, p, messages, opts)
		elapsed := r.now().Sub(start)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", name, err.Error()))
			r.metrics.ObserveAttempt(name, metrics.OutcomeFailure, elapsed)
			logger.Warn().Err(err).Str("provider", name).Dur("elapsed", elapsed).Msg("AI provider failed, trying next")
			continue
		}

		resp.Provider = name
		resp.DurationMs = elapsed.Milliseconds()
		r.metrics.ObserveAttempt(name, metrics.OutcomeSuccess, elapsed)
		r.metrics.ObserveUsage(name, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.CostUSD())
		logger.Debug().
			Str("provider", name).
			Str("model", resp.Model).
			Int("total_tokens", resp.Usage.TotalTokens).
			Int64("duration_ms", resp.DurationMs).
			Msg("AI completion succeeded")
		return resp, nil
	}

	r.metrics.ObserveExhausted()
	return nil, &ExhaustedError{Failures: failures}
}

func (r *Router) attempt(ctx context.Context, p Provider, messages []Message, opts Options) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	resp, err := p.Complete(attemptCtx, messages, opts)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("empty response")
	}
	return resp, nil
}
