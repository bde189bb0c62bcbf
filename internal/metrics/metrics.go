// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "openpaws"

// Attempt outcomes recorded by the AI router.
const (
	OutcomeSuccess       = "success"
	OutcomeFailure       = "failure"
	OutcomeNotConfigured = "not_configured"
)

type Metrics struct {
	AIAttempts       *prometheus.CounterVec
	AIAttemptSeconds *prometheus.HistogramVec
	AICostUSD        *prometheus.CounterVec
	AITokens         *prometheus.CounterVec
	AIExhausted      prometheus.Counter
	OAuthConnects    *prometheus.CounterVec
	OAuthCallbacks   *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AIAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_attempts_total",
			Help:      "AI provider attempts by outcome",
		}, []string{"provider", "outcome"}),
		AIAttemptSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_attempt_duration_seconds",
			Help:      "Duration of AI provider attempts",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"provider"}),
		AICostUSD: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_cost_usd_total",
			Help:      "Estimated AI spend in USD",
		}, []string{"provider"}),
		AITokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_tokens_total",
			Help:      "Tokens consumed by successful AI calls",
		}, []string{"provider", "kind"}),
		AIExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_chain_exhausted_total",
			Help:      "Requests where every AI provider failed",
		}),
		OAuthConnects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oauth_connects_total",
			Help:      "Authorization redirects issued per platform",
		}, []string{"platform"}),
		OAuthCallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oauth_callbacks_total",
			Help:      "OAuth callbacks handled per platform and outcome",
		}, []string{"platform", "outcome"}),
	}
	reg.MustRegister(
		m.AIAttempts, m.AIAttemptSeconds, m.AICostUSD, m.AITokens, m.AIExhausted,
		m.OAuthConnects, m.OAuthCallbacks,
	)
	return m
}

// ObserveAttempt records one provider attempt. Safe on a nil receiver.
func (m *Metrics) ObserveAttempt(provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.AIAttempts.WithLabelValues(provider, outcome).Inc()
	if outcome != OutcomeNotConfigured {
		m.AIAttemptSeconds.WithLabelValues(provider).Observe(d.Seconds())
	}
}

// ObserveUsage records tokens and estimated cost of a successful call.
func (m *Metrics) ObserveUsage(provider string, promptTokens, completionTokens int, costUSD float64) {
	if m == nil {
		return
	}
	m.AITokens.WithLabelValues(provider, "prompt").Add(float64(promptTokens))
	m.AITokens.WithLabelValues(provider, "completion").Add(float64(completionTokens))
	m.AICostUSD.WithLabelValues(provider).Add(costUSD)
}

// ObserveExhausted counts a request that failed on every provider.
func (m *Metrics) ObserveExhausted() {
	if m == nil {
		return
	}
	m.AIExhausted.Inc()
}

// ObserveConnect counts an authorization redirect.
func (m *Metrics) ObserveConnect(platform string) {
	if m == nil {
		return
	}
	m.OAuthConnects.WithLabelValues(platform).Inc()
}

// ObserveCallback counts a callback outcome such as "success" or "csrf".
func (m *Metrics) ObserveCallback(platform, outcome string) {
	if m == nil {
		return
	}
	m.OAuthCallbacks.WithLabelValues(platform, outcome).Inc()
}
