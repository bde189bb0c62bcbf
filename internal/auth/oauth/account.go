package oauth

import (
	"time"

	"github.com/openpaws/openpaws/internal/platforms"
)

// ConnectedAccount is the record handed to the dashboard after a successful
// connection. The connector never stores it.
type ConnectedAccount struct {
	ID                string             `json:"id"`
	Platform          platforms.Platform `json:"platform"`
	PlatformAccountID string             `json:"platform_account_id"`
	AccountName       string             `json:"account_name"`
	AccountUsername   string             `json:"account_username"`
	AvatarURL         string             `json:"avatar_url"`
	AccessToken       string             `json:"access_token"`
	RefreshToken      string             `json:"refresh_token,omitempty"`
	TokenExpiresAt    string             `json:"token_expires_at,omitempty"`
	IsActive          bool               `json:"is_active"`
}

func newAccount(p platforms.Platform, prof *Profile, tok *Token, now time.Time) *ConnectedAccount {
	acct := &ConnectedAccount{
		ID:                string(p) + "_" + prof.ID,
		Platform:          p,
		PlatformAccountID: prof.ID,
		AccountName:       prof.Name,
		AccountUsername:   prof.Username,
		AvatarURL:         prof.AvatarURL,
		AccessToken:       tok.AccessToken,
		RefreshToken:      tok.RefreshToken,
		IsActive:          true,
	}
	if tok.ExpiresIn > 0 {
		acct.TokenExpiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second).UTC().Format(time.RFC3339)
	}
	return acct
}
