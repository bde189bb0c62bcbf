package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/openpaws/openpaws/internal/metrics"
	"github.com/openpaws/openpaws/internal/platforms"
	"github.com/openpaws/openpaws/internal/util"
)

const (
	msgMissingParams = "Missing authorization code or state"
	msgInvalidState  = "Invalid state parameter (CSRF check failed)"
)

// HandleCallback completes the flow for {platform}. Apart from an invalid
// platform, every outcome is delivered to the opener through the page.
func (c *Connector) HandleCallback(w http.ResponseWriter, r *http.Request) {
	p, ok := platforms.Parse(chi.URLParam(r, "platform"))
	if !ok || !platforms.IsConfigured(p) {
		writeError(w, http.StatusBadRequest, "Invalid platform")
		return
	}
	logger := zerolog.Ctx(r.Context()).With().Str("platform", string(p)).Logger()

	q := r.URL.Query()
	if denied := q.Get("error"); denied != "" {
		logger.Info().Str("reason", denied).Msg("Authorization denied by user")
		c.fail(w, p, "Authorization denied: "+denied)
		return
	}

	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		c.fail(w, p, msgMissingParams)
		return
	}

	if !statesMatch(cookieValue(r, stateCookieName(p)), state) {
		logger.Warn().Msg("OAuth state mismatch")
		c.fail(w, p, msgInvalidState)
		return
	}
	c.clearCookie(w, stateCookieName(p))

	var verifier string
	if platforms.Get(p).RequiresPKCE {
		verifier = cookieValue(r, pkceCookieName(p))
		c.clearCookie(w, pkceCookieName(p))
	}

	acct, err := c.Complete(r.Context(), p, code, c.RedirectURI(p), verifier)
	if err != nil {
		logger.Error().Err(err).Msg("OAuth callback failed")
		c.fail(w, p, err.Error())
		return
	}

	raw, err := json.Marshal(acct)
	if err == nil {
		c.setCookie(w, accountCookieName(p), url.PathEscape(string(raw)), accountCookieMaxAge, false)
	}
	c.metrics.ObserveCallback(string(p), metrics.OutcomeSuccess)
	logger.Info().Str("account_id", acct.ID).Msg("Account connected")
	deliver(w, c.appURL, p, acct, "")
}

// Complete exchanges code for tokens, loads the profile and builds the
// account record. Returned errors never contain the client secret or the
// access token.
func (c *Connector) Complete(ctx context.Context, p platforms.Platform, code, redirectURI, verifier string) (*ConnectedAccount, error) {
	_, clientSecret := platforms.Credentials(p)

	tok, err := c.Exchange(ctx, p, code, redirectURI, verifier)
	if err != nil {
		return nil, redactErr(err, clientSecret)
	}
	prof, err := c.FetchProfile(ctx, p, tok.AccessToken)
	if err != nil {
		return nil, redactErr(fmt.Errorf("fetch profile: %w", err), clientSecret, tok.AccessToken)
	}
	if prof.ID == "" {
		return nil, errNoProfileID
	}
	return newAccount(p, prof, tok, c.now()), nil
}

func (c *Connector) fail(w http.ResponseWriter, p platforms.Platform, msg string) {
	c.metrics.ObserveCallback(string(p), metrics.OutcomeFailure)
	deliver(w, c.appURL, p, nil, msg)
}

// redactedError keeps the chain for errors.As while hiding secrets in the
// message.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redactErr(err error, secrets ...string) error {
	return &redactedError{msg: util.Redact(err.Error(), secrets...), err: err}
}
