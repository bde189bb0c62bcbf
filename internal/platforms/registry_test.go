package platforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubEnv(t *testing.T, env map[string]string) {
	t.Helper()
	orig := getenv
	getenv = func(key string) string { return env[key] }
	t.Cleanup(func() { getenv = orig })
}

func TestParse(t *testing.T) {
	p, ok := Parse("Twitter")
	require.True(t, ok)
	assert.Equal(t, Twitter, p)

	_, ok = Parse("myspace")
	assert.False(t, ok)

	_, ok = Parse("")
	assert.False(t, ok)
}

func TestAllIsStableAndComplete(t *testing.T) {
	all := All()
	assert.Equal(t, []Platform{Instagram, Facebook, Twitter, LinkedIn, YouTube, TikTok}, all)

	all[0] = "mutated"
	assert.Equal(t, Instagram, All()[0])
}

func TestGet_PlatformExtras(t *testing.T) {
	tw := Get(Twitter)
	assert.True(t, tw.RequiresPKCE)
	assert.Equal(t, "client_id", tw.ClientIDParamName())
	assert.Equal(t, "https://api.twitter.com/2/oauth2/token", tw.TokenURL)

	tt := Get(TikTok)
	assert.False(t, tt.RequiresPKCE)
	assert.Equal(t, "client_key", tt.ClientIDParamName())
	assert.Equal(t, "TIKTOK_CLIENT_KEY", tt.ClientIDEnv)

	for _, p := range All() {
		cfg := Get(p)
		assert.Equal(t, p, cfg.Platform)
		assert.NotEmpty(t, cfg.Scopes, p)
		assert.NotEmpty(t, cfg.SetupInstructions, p)
	}
}

func TestGet_ReturnsCopies(t *testing.T) {
	cfg := Get(LinkedIn)
	cfg.Scopes[0] = "changed"
	assert.Equal(t, "openid", Get(LinkedIn).Scopes[0])
}

func TestIsConfigured(t *testing.T) {
	stubEnv(t, map[string]string{
		"TWITTER_CLIENT_ID":     "id",
		"TWITTER_CLIENT_SECRET": "secret",
		"LINKEDIN_CLIENT_ID":    "id-only",
	})

	assert.True(t, IsConfigured(Twitter))
	assert.False(t, IsConfigured(LinkedIn))
	assert.False(t, IsConfigured(TikTok))
	assert.False(t, IsConfigured("unknown"))

	id, secret := Credentials(Twitter)
	assert.Equal(t, "id", id)
	assert.Equal(t, "secret", secret)
}

func TestCharLimit(t *testing.T) {
	assert.Equal(t, 280, CharLimit(Twitter))
	assert.Equal(t, 63206, CharLimit(Facebook))
	assert.Equal(t, DefaultCharLimit, CharLimit("threads"))
	assert.Equal(t, "Twitter / X", DisplayName(Twitter))
	assert.Equal(t, "threads", DisplayName("threads"))
}
