// Package oauth connects social platform accounts through the OAuth2
// authorization-code flow, with PKCE where the platform requires it.
package oauth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/openpaws/openpaws/internal/metrics"
	"github.com/openpaws/openpaws/internal/platforms"
)

// DefaultTimeout bounds every outbound call made during a callback.
const DefaultTimeout = 15 * time.Second

// Connector builds authorization URLs and completes callbacks. It holds no
// per-flow state; the flow lives in cookies.
type Connector struct {
	appURL        string
	secureCookies bool
	httpClient    *http.Client
	metrics       *metrics.Metrics
	now           func() time.Time
}

// Option configures a Connector.
type Option func(*Connector)

// WithHTTPClient sets the client used for token and profile requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Connector) { c.httpClient = client }
}

// WithSecureCookies marks flow cookies Secure. Enable in production.
func WithSecureCookies(secure bool) Option {
	return func(c *Connector) { c.secureCookies = secure }
}

// WithMetrics records connect and callback outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Connector) { c.metrics = m }
}

// NewConnector returns a Connector whose callbacks land under appURL.
func NewConnector(appURL string, opts ...Option) *Connector {
	c := &Connector{
		appURL:     strings.TrimRight(appURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RedirectURI is the callback URL registered with every platform.
func (c *Connector) RedirectURI(p platforms.Platform) string {
	return fmt.Sprintf("%s/connect/%s/callback", c.appURL, p)
}

// Authorization is a freshly started flow.
type Authorization struct {
	URL      string
	State    string
	Verifier string // empty unless the platform requires PKCE
}

// Authorize builds the consent URL for p with a new state and, for PKCE
// platforms, a new verifier.
func (c *Connector) Authorize(p platforms.Platform, redirectURI string) (*Authorization, error) {
	cfg := platforms.Get(p)
	st := strategyFor(p)
	clientID, _ := platforms.Credentials(p)

	state, err := newState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	oc := &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: st.authStyle,
		},
	}

	opts := append([]oauth2.AuthCodeOption(nil), st.authOptions...)
	auth := &Authorization{State: state}
	if cfg.RequiresPKCE {
		auth.Verifier = oauth2.GenerateVerifier()
		opts = append(opts, oauth2.S256ChallengeOption(auth.Verifier))
	}

	authURL := oc.AuthCodeURL(state, opts...)
	if name := cfg.ClientIDParamName(); name != "client_id" {
		if authURL, err = renameQueryParam(authURL, "client_id", name); err != nil {
			return nil, err
		}
	}
	auth.URL = authURL
	return auth, nil
}

// HandleConnect starts the flow for the {platform} path parameter.
func (c *Connector) HandleConnect(w http.ResponseWriter, r *http.Request) {
	p, ok := platforms.Parse(chi.URLParam(r, "platform"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid platform")
		return
	}
	if !platforms.IsConfigured(p) {
		writeError(w, http.StatusBadRequest, "Platform not configured. Set OAuth credentials in .env")
		return
	}

	auth, err := c.Authorize(p, c.RedirectURI(p))
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("platform", string(p)).Msg("Failed to start authorization")
		writeError(w, http.StatusInternalServerError, "Failed to start authorization")
		return
	}

	c.setCookie(w, stateCookieName(p), auth.State, flowCookieMaxAge, true)
	if auth.Verifier != "" {
		c.setCookie(w, pkceCookieName(p), auth.Verifier, flowCookieMaxAge, true)
	}
	c.metrics.ObserveConnect(string(p))

	zerolog.Ctx(r.Context()).Info().Str("platform", string(p)).Msg("Redirecting to platform consent page")
	http.Redirect(w, r, auth.URL, http.StatusFound)
}

// ConfigStatus tells the dashboard whether a platform can be connected and,
// when it cannot, how to set it up. It never carries secrets.
type ConfigStatus struct {
	Configured         bool     `json:"configured"`
	Platform           string   `json:"platform"`
	EnvVars            []string `json:"envVars,omitempty"`
	DeveloperPortalURL string   `json:"developerPortalUrl,omitempty"`
	SetupInstructions  []string `json:"setupInstructions,omitempty"`
}

// Status reports the configuration state of p.
func Status(p platforms.Platform) ConfigStatus {
	cfg := platforms.Get(p)
	status := ConfigStatus{
		Configured: platforms.IsConfigured(p),
		Platform:   cfg.DisplayName,
	}
	if !status.Configured {
		status.EnvVars = []string{cfg.ClientIDEnv, cfg.ClientSecretEnv}
		status.DeveloperPortalURL = cfg.DeveloperPortalURL
		status.SetupInstructions = cfg.SetupInstructions
	}
	return status
}

// HandleConfig serves the configuration probe for {platform}.
func (c *Connector) HandleConfig(w http.ResponseWriter, r *http.Request) {
	p, ok := platforms.Parse(chi.URLParam(r, "platform"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid platform")
		return
	}
	writeJSON(w, http.StatusOK, Status(p))
}

func renameQueryParam(rawURL, from, to string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse authorization url: %w", err)
	}
	q := u.Query()
	q.Set(to, q.Get(from))
	q.Del(from)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
