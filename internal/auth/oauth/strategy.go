package oauth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/openpaws/openpaws/internal/platforms"
)

// strategy captures everything that differs between platforms once the
// registry entry is known: where the client credentials travel, extra
// authorization parameters, how the token payload is shaped and how the
// profile is fetched.
type strategy struct {
	authStyle   oauth2.AuthStyle
	authOptions []oauth2.AuthCodeOption
	decodeToken func([]byte) (*Token, error)
	profile     profileFetcher
}

var strategies = map[platforms.Platform]strategy{
	platforms.Instagram: {authStyle: oauth2.AuthStyleInParams, decodeToken: decodeFlatToken, profile: fetchInstagramProfile},
	platforms.Facebook:  {authStyle: oauth2.AuthStyleInParams, decodeToken: decodeFlatToken, profile: fetchFacebookProfile},
	platforms.Twitter:   {authStyle: oauth2.AuthStyleInHeader, decodeToken: decodeFlatToken, profile: fetchTwitterProfile},
	platforms.LinkedIn:  {authStyle: oauth2.AuthStyleInParams, decodeToken: decodeFlatToken, profile: fetchLinkedInProfile},
	platforms.YouTube: {
		authStyle:   oauth2.AuthStyleInParams,
		authOptions: []oauth2.AuthCodeOption{oauth2.AccessTypeOffline, oauth2.ApprovalForce},
		decodeToken: decodeFlatToken,
		profile:     fetchYouTubeProfile,
	},
	platforms.TikTok: {authStyle: oauth2.AuthStyleInParams, decodeToken: decodeNestedToken, profile: fetchTikTokProfile},
}

func strategyFor(p platforms.Platform) strategy {
	return strategies[p]
}

// formCredentials adds body credentials for platforms that expect them.
func (s strategy) formCredentials(cfg platforms.Config, form url.Values, clientID, clientSecret string) {
	if s.authStyle == oauth2.AuthStyleInHeader {
		return
	}
	form.Set(cfg.ClientIDParamName(), clientID)
	form.Set("client_secret", clientSecret)
}

// authorize adds header credentials for platforms that expect them.
func (s strategy) authorize(req *http.Request, clientID, clientSecret string) {
	if s.authStyle == oauth2.AuthStyleInHeader {
		req.SetBasicAuth(clientID, clientSecret)
	}
}

// Token is the normalized result of an authorization-code exchange.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type tokenPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    flexibleInt  `json:"expires_in"`
	Data         *tokenFields `json:"data"`
}

type tokenFields struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    flexibleInt `json:"expires_in"`
}

func decodeFlatToken(body []byte) (*Token, error) {
	var p tokenPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &Token{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, ExpiresIn: int64(p.ExpiresIn)}, nil
}

// decodeNestedToken reads the top-level fields and falls back to the ones
// wrapped in "data" when the top level is empty.
func decodeNestedToken(body []byte) (*Token, error) {
	var p tokenPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	tok := &Token{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken, ExpiresIn: int64(p.ExpiresIn)}
	if p.Data == nil {
		return tok, nil
	}
	if tok.AccessToken == "" {
		tok.AccessToken = p.Data.AccessToken
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = p.Data.RefreshToken
	}
	if tok.ExpiresIn == 0 {
		tok.ExpiresIn = int64(p.Data.ExpiresIn)
	}
	return tok, nil
}

// flexibleInt accepts expires_in as a JSON number or a numeric string.
type flexibleInt int64

func (f *flexibleInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexibleInt(n)
	return nil
}
