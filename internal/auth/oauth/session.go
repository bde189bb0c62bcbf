package oauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/openpaws/openpaws/internal/platforms"
)

const (
	flowCookieMaxAge    = 600
	accountCookieMaxAge = 60
	stateBytes          = 32
)

func stateCookieName(p platforms.Platform) string   { return "oauth_state_" + string(p) }
func pkceCookieName(p platforms.Platform) string    { return "oauth_pkce_" + string(p) }
func accountCookieName(p platforms.Platform) string { return "oauth_account_" + string(p) }

// newState returns a hex encoded random CSRF token.
func newState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// statesMatch compares in constant time. Empty values never match.
func statesMatch(stored, received string) bool {
	if stored == "" || received == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(received)) == 1
}

func (c *Connector) setCookie(w http.ResponseWriter, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   c.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *Connector) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
