package oauth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpaws/openpaws/internal/platforms"
)

func TestFetchProfile_Mappers(t *testing.T) {
	tests := []struct {
		platform platforms.Platform
		host     string
		body     string
		want     Profile
	}{
		{
			platform: platforms.Instagram,
			host:     "graph.instagram.com",
			body:     `{"id":"178","username":"paws.bakery","profile_picture_url":"https://cdn/ig.jpg"}`,
			want:     Profile{ID: "178", Name: "paws.bakery", Username: "paws.bakery", AvatarURL: "https://cdn/ig.jpg"},
		},
		{
			platform: platforms.Facebook,
			host:     "graph.facebook.com",
			body:     `{"id":"1001","name":"Paws Bakery","picture":{"data":{"url":"https://cdn/fb.jpg"}}}`,
			want:     Profile{ID: "1001", Name: "Paws Bakery", Username: "Paws Bakery", AvatarURL: "https://cdn/fb.jpg"},
		},
		{
			platform: platforms.Twitter,
			host:     "api.twitter.com",
			body:     `{"data":{"id":"42","name":"Paws","username":"paws","profile_image_url":"https://cdn/tw.png"}}`,
			want:     Profile{ID: "42", Name: "Paws", Username: "paws", AvatarURL: "https://cdn/tw.png"},
		},
		{
			platform: platforms.LinkedIn,
			host:     "api.linkedin.com",
			body:     `{"sub":"li-7","name":"Ada Paws","picture":"https://cdn/li.jpg"}`,
			want:     Profile{ID: "li-7", Name: "Ada Paws", Username: "Ada Paws", AvatarURL: "https://cdn/li.jpg"},
		},
		{
			platform: platforms.YouTube,
			host:     "www.googleapis.com",
			body:     `{"items":[{"id":"UC1","snippet":{"title":"Paws TV","thumbnails":{"default":{"url":"https://cdn/yt.jpg"}}}}]}`,
			want:     Profile{ID: "UC1", Name: "Paws TV", Username: "Paws TV", AvatarURL: "https://cdn/yt.jpg"},
		},
		{
			platform: platforms.TikTok,
			host:     "open.tiktokapis.com",
			body:     `{"data":{"user":{"open_id":"oid","display_name":"Paws","avatar_url":"https://cdn/tt.jpg"}},"error":{"code":"ok"}}`,
			want:     Profile{ID: "oid", Name: "Paws", Username: "Paws", AvatarURL: "https://cdn/tt.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			var gotAuth, gotHost string
			c := newTestConnector(t, func(r *http.Request) (*http.Response, error) {
				gotAuth = r.Header.Get("Authorization")
				gotHost = r.URL.Host
				return jsonResponse(http.StatusOK, tt.body), nil
			})

			got, err := c.FetchProfile(context.Background(), tt.platform, "tok-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
			assert.Equal(t, tt.host, gotHost)
			assert.Equal(t, "Bearer tok-1", gotAuth)
		})
	}
}

func TestFetchProfile_GraphAPIPassesTokenInQuery(t *testing.T) {
	var query string
	c := newTestConnector(t, func(r *http.Request) (*http.Response, error) {
		query = r.URL.RawQuery
		return jsonResponse(http.StatusOK, `{"id":"1"}`), nil
	})

	_, err := c.FetchProfile(context.Background(), platforms.Facebook, "fb-token")
	require.NoError(t, err)
	assert.Contains(t, query, "access_token=fb-token")
	assert.Contains(t, query, "fields=id%2Cname%2Cpicture.type%28large%29")
}

func TestFetchProfile_YouTubeCustomURLAndEmpty(t *testing.T) {
	body := `{"items":[{"id":"UC2","snippet":{"title":"Paws TV","customUrl":"@pawstv"}}]}`
	c := newTestConnector(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, body), nil
	})
	got, err := c.FetchProfile(context.Background(), platforms.YouTube, "t")
	require.NoError(t, err)
	assert.Equal(t, "@pawstv", got.Username)

	body = `{"items":[]}`
	got, err = c.FetchProfile(context.Background(), platforms.YouTube, "t")
	require.NoError(t, err)
	assert.Equal(t, Profile{}, *got)
}

func TestFetchProfile_Non2xxIsUpstreamError(t *testing.T) {
	c := newTestConnector(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, `upstream down`), nil
	})

	_, err := c.FetchProfile(context.Background(), platforms.TikTok, "t")
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadGateway, upErr.Status)
	assert.Equal(t, "profile fetch failed: 502 upstream down", err.Error())
}

func TestNewAccount(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	prof := &Profile{ID: "9", Name: "N", Username: "u", AvatarURL: "a"}

	acct := newAccount(platforms.LinkedIn, prof, &Token{AccessToken: "at", ExpiresIn: 60}, now)
	assert.Equal(t, "linkedin_9", acct.ID)
	assert.Equal(t, "2026-01-02T03:05:05Z", acct.TokenExpiresAt)
	assert.True(t, acct.IsActive)

	acct = newAccount(platforms.LinkedIn, prof, &Token{AccessToken: "at"}, now)
	assert.Empty(t, acct.TokenExpiresAt)
	assert.Empty(t, acct.RefreshToken)
}
