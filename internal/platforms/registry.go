// Package platforms holds the static OAuth configuration of every supported
// social platform.
package platforms

import (
	"os"
	"strings"
)

// Platform identifies a supported social network.
type Platform string

const (
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	LinkedIn  Platform = "linkedin"
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
)

// Config describes how to run the OAuth flow against one platform.
type Config struct {
	Platform           Platform
	DisplayName        string
	AuthURL            string
	TokenURL           string
	Scopes             []string
	ClientIDEnv        string
	ClientSecretEnv    string
	RequiresPKCE       bool
	ClientIDParam      string // empty means "client_id"
	DeveloperPortalURL string
	SetupInstructions  []string
}

// order is the stable listing order used by All.
var order = []Platform{Instagram, Facebook, Twitter, LinkedIn, YouTube, TikTok}

var configs = map[Platform]Config{
	Instagram: {
		Platform:           Instagram,
		DisplayName:        "Instagram",
		AuthURL:            "https://api.instagram.com/oauth/authorize",
		TokenURL:           "https://api.instagram.com/oauth/access_token",
		Scopes:             []string{"instagram_basic", "instagram_content_publish", "instagram_manage_insights", "pages_show_list"},
		ClientIDEnv:        "INSTAGRAM_CLIENT_ID",
		ClientSecretEnv:    "INSTAGRAM_CLIENT_SECRET",
		DeveloperPortalURL: "https://developers.facebook.com/apps",
		SetupInstructions: []string{
			"Go to Meta for Developers and create a new app (type: Business)",
			`Add the "Instagram Graph API" product`,
			"Under Instagram > Basic Display, add your OAuth redirect URI",
			"Copy the Instagram App ID and App Secret into your .env",
		},
	},
	Facebook: {
		Platform:           Facebook,
		DisplayName:        "Facebook",
		AuthURL:            "https://www.facebook.com/v19.0/dialog/oauth",
		TokenURL:           "https://graph.facebook.com/v19.0/oauth/access_token",
		Scopes:             []string{"pages_manage_posts", "pages_read_engagement", "pages_show_list", "publish_video"},
		ClientIDEnv:        "FACEBOOK_CLIENT_ID",
		ClientSecretEnv:    "FACEBOOK_CLIENT_SECRET",
		DeveloperPortalURL: "https://developers.facebook.com/apps",
		SetupInstructions: []string{
			"Go to Meta for Developers and create a new app (type: Business)",
			`Add the "Facebook Login" product`,
			"Under Facebook Login > Settings, add your OAuth redirect URI",
			"Copy the App ID and App Secret from Settings > Basic into your .env",
		},
	},
	Twitter: {
		Platform:           Twitter,
		DisplayName:        "Twitter / X",
		AuthURL:            "https://twitter.com/i/oauth2/authorize",
		TokenURL:           "https://api.twitter.com/2/oauth2/token",
		Scopes:             []string{"tweet.read", "tweet.write", "users.read", "offline.access"},
		ClientIDEnv:        "TWITTER_CLIENT_ID",
		ClientSecretEnv:    "TWITTER_CLIENT_SECRET",
		RequiresPKCE:       true,
		DeveloperPortalURL: "https://developer.twitter.com/en/portal/dashboard",
		SetupInstructions: []string{
			"Go to the Twitter Developer Portal and create a new project/app",
			`Under "User authentication settings", enable OAuth 2.0`,
			`Set the type to "Web App" and add your OAuth redirect URI`,
			"Copy the Client ID and Client Secret into your .env",
		},
	},
	LinkedIn: {
		Platform:           LinkedIn,
		DisplayName:        "LinkedIn",
		AuthURL:            "https://www.linkedin.com/oauth/v2/authorization",
		TokenURL:           "https://www.linkedin.com/oauth/v2/accessToken",
		Scopes:             []string{"openid", "profile", "w_member_social"},
		ClientIDEnv:        "LINKEDIN_CLIENT_ID",
		ClientSecretEnv:    "LINKEDIN_CLIENT_SECRET",
		DeveloperPortalURL: "https://www.linkedin.com/developers/apps",
		SetupInstructions: []string{
			"Go to LinkedIn Developers and create a new app",
			`Under Auth tab, add your OAuth redirect URI to "Authorized redirect URLs"`,
			`Request access to "Share on LinkedIn" and "Sign In with LinkedIn using OpenID Connect"`,
			"Copy the Client ID and Client Secret into your .env",
		},
	},
	YouTube: {
		Platform:    YouTube,
		DisplayName: "YouTube",
		AuthURL:     "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:    "https://oauth2.googleapis.com/token",
		Scopes: []string{
			"https://www.googleapis.com/auth/youtube.upload",
			"https://www.googleapis.com/auth/youtube.readonly",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		ClientIDEnv:        "YOUTUBE_CLIENT_ID",
		ClientSecretEnv:    "YOUTUBE_CLIENT_SECRET",
		DeveloperPortalURL: "https://console.cloud.google.com/apis/credentials",
		SetupInstructions: []string{
			"Go to Google Cloud Console and create/select a project",
			`Enable the "YouTube Data API v3" under APIs & Services > Library`,
			"Create OAuth 2.0 credentials under APIs & Services > Credentials",
			`Add your OAuth redirect URI to "Authorized redirect URIs"`,
			"Copy the Client ID and Client Secret into your .env",
		},
	},
	TikTok: {
		Platform:           TikTok,
		DisplayName:        "TikTok",
		AuthURL:            "https://www.tiktok.com/v2/auth/authorize/",
		TokenURL:           "https://open.tiktokapis.com/v2/oauth/token/",
		Scopes:             []string{"user.info.basic", "video.publish", "video.list"},
		ClientIDEnv:        "TIKTOK_CLIENT_KEY",
		ClientSecretEnv:    "TIKTOK_CLIENT_SECRET",
		ClientIDParam:      "client_key",
		DeveloperPortalURL: "https://developers.tiktok.com/apps",
		SetupInstructions: []string{
			"Go to TikTok for Developers and create a new app",
			`Under "Login Kit", add your OAuth redirect URI`,
			"Request the scopes: user.info.basic, video.publish, video.list",
			"Copy the Client Key and Client Secret into your .env",
		},
	},
}

// Parse validates an identifier taken from a request path.
func Parse(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	_, ok := configs[p]
	return p, ok
}

// All returns every supported platform in a stable order.
func All() []Platform {
	return append([]Platform(nil), order...)
}

// Get returns the configuration for p. Callers must validate p with Parse
// first; an unknown platform yields the zero Config.
func Get(p Platform) Config {
	cfg := configs[p]
	cfg.Scopes = append([]string(nil), cfg.Scopes...)
	cfg.SetupInstructions = append([]string(nil), cfg.SetupInstructions...)
	return cfg
}

// IsConfigured reports whether both OAuth credentials for p are present.
func IsConfigured(p Platform) bool {
	cfg, ok := configs[p]
	if !ok {
		return false
	}
	return getenv(cfg.ClientIDEnv) != "" && getenv(cfg.ClientSecretEnv) != ""
}

// Credentials returns the client id and secret for p from the environment.
func Credentials(p Platform) (clientID, clientSecret string) {
	cfg := configs[p]
	return getenv(cfg.ClientIDEnv), getenv(cfg.ClientSecretEnv)
}

// ClientIDParamName returns the authorization parameter carrying the client id.
func (c Config) ClientIDParamName() string {
	if c.ClientIDParam == "" {
		return "client_id"
	}
	return c.ClientIDParam
}

var getenv = func(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
