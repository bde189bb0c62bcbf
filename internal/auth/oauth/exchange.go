package oauth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/openpaws/openpaws/internal/platforms"
	"github.com/openpaws/openpaws/internal/util"
)

// maxUpstreamBody caps how much of a token or profile response is read.
const maxUpstreamBody = 1 << 20

var (
	errNoAccessToken = errors.New("token exchange returned no access token")
	errNoProfileID   = errors.New("profile response has no user id")
)

// UpstreamError is a non-2xx answer from a platform endpoint.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %d %s", e.Op, e.Status, e.Body)
}

// Exchange trades an authorization code for tokens at the platform's token
// endpoint. verifier is sent as code_verifier when non-empty.
func (c *Connector) Exchange(ctx context.Context, p platforms.Platform, code, redirectURI, verifier string) (*Token, error) {
	cfg := platforms.Get(p)
	st := strategyFor(p)
	clientID, clientSecret := platforms.Credentials(p)

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	if verifier != "" {
		form.Set("code_verifier", verifier)
	}

	st.formCredentials(cfg, form, clientID, clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	st.authorize(req, clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Op: "token exchange", Status: resp.StatusCode, Body: util.TruncateBody(body)}
	}

	tok, err := st.decodeToken(body)
	if err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, errNoAccessToken
	}
	return tok, nil
}
