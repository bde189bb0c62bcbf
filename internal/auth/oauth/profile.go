package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/g8rswimmer/go-twitter/v2"
	"golang.org/x/oauth2"

	"github.com/openpaws/openpaws/internal/platforms"
	"github.com/openpaws/openpaws/internal/util"
)

const (
	instagramMeURL = "https://graph.instagram.com/me"
	facebookMeURL  = "https://graph.facebook.com/me"
	twitterAPIHost = "https://api.twitter.com"
	linkedInMeURL  = "https://api.linkedin.com/v2/userinfo"
	youTubeMeURL   = "https://www.googleapis.com/youtube/v3/channels?part=snippet&mine=true"
	tikTokMeURL    = "https://open.tiktokapis.com/v2/user/info/?fields=open_id,display_name,avatar_url,username"
)

// Profile is the platform user normalized to one shape. Missing fields are
// empty strings.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl"`
}

// profileFetcher loads the authenticated user. client already carries the
// access token as a bearer credential.
type profileFetcher func(ctx context.Context, client *http.Client, accessToken string) (*Profile, error)

// FetchProfile loads and normalizes the profile behind accessToken.
func (c *Connector) FetchProfile(ctx context.Context, p platforms.Platform, accessToken string) (*Profile, error) {
	st := strategyFor(p)
	if st.profile == nil {
		return nil, fmt.Errorf("no profile mapper for %s", p)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	return st.profile(ctx, client, accessToken)
}

func fetchInstagramProfile(ctx context.Context, client *http.Client, accessToken string) (*Profile, error) {
	var body struct {
		ID                string `json:"id"`
		Username          string `json:"username"`
		Name              string `json:"name"`
		ProfilePictureURL string `json:"profile_picture_url"`
	}
	q := url.Values{"fields": {"id,username,name,profile_picture_url"}, "access_token": {accessToken}}
	if err := getJSON(ctx, client, instagramMeURL+"?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	name := body.Name
	if name == "" {
		name = body.Username
	}
	return &Profile{ID: body.ID, Name: name, Username: body.Username, AvatarURL: body.ProfilePictureURL}, nil
}

func fetchFacebookProfile(ctx context.Context, client *http.Client, accessToken string) (*Profile, error) {
	var body struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	q := url.Values{"fields": {"id,name,picture.type(large)"}, "access_token": {accessToken}}
	if err := getJSON(ctx, client, facebookMeURL+"?"+q.Encode(), &body); err != nil {
		return nil, err
	}
	return &Profile{ID: body.ID, Name: body.Name, Username: body.Name, AvatarURL: body.Picture.Data.URL}, nil
}

// bearerAuthorizer satisfies twitter.Authorizer.
type bearerAuthorizer string

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+string(a))
}

func fetchTwitterProfile(ctx context.Context, client *http.Client, accessToken string) (*Profile, error) {
	cli := &twitter.Client{
		Authorizer: bearerAuthorizer(accessToken),
		Client:     client,
		Host:       twitterAPIHost,
	}
	resp, err := cli.AuthUserLookup(ctx, twitter.UserLookupOpts{
		UserFields: []twitter.UserField{
			twitter.UserFieldProfileImageURL,
			twitter.UserFieldName,
			twitter.UserFieldUserName,
		},
	})
	if err != nil {
		var er *twitter.ErrorResponse
		if errors.As(err, &er) {
			return nil, &UpstreamError{Op: "profile fetch", Status: er.StatusCode, Body: util.TruncateLog(er.Title+" "+er.Detail, util.ErrorBodyMaxLen)}
		}
		return nil, fmt.Errorf("twitter user lookup: %w", err)
	}
	if resp == nil || resp.Raw == nil || len(resp.Raw.Users) == 0 || resp.Raw.Users[0] == nil {
		return &Profile{}, nil
	}
	u := resp.Raw.Users[0]
	return &Profile{ID: u.ID, Name: u.Name, Username: u.UserName, AvatarURL: u.ProfileImageURL}, nil
}

func fetchLinkedInProfile(ctx context.Context, client *http.Client, _ string) (*Profile, error) {
	var body struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, client, linkedInMeURL, &body); err != nil {
		return nil, err
	}
	return &Profile{ID: body.Sub, Name: body.Name, Username: body.Name, AvatarURL: body.Picture}, nil
}

func fetchYouTubeProfile(ctx context.Context, client *http.Client, _ string) (*Profile, error) {
	var body struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title      string `json:"title"`
				CustomURL  string `json:"customUrl"`
				Thumbnails struct {
					Default struct {
						URL string `json:"url"`
					} `json:"default"`
				} `json:"thumbnails"`
			} `json:"snippet"`
		} `json:"items"`
	}
	if err := getJSON(ctx, client, youTubeMeURL, &body); err != nil {
		return nil, err
	}
	if len(body.Items) == 0 {
		return &Profile{}, nil
	}
	ch := body.Items[0]
	username := ch.Snippet.CustomURL
	if username == "" {
		username = ch.Snippet.Title
	}
	return &Profile{ID: ch.ID, Name: ch.Snippet.Title, Username: username, AvatarURL: ch.Snippet.Thumbnails.Default.URL}, nil
}

func fetchTikTokProfile(ctx context.Context, client *http.Client, _ string) (*Profile, error) {
	var body struct {
		Data struct {
			User struct {
				OpenID      string `json:"open_id"`
				DisplayName string `json:"display_name"`
				AvatarURL   string `json:"avatar_url"`
				Username    string `json:"username"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := getJSON(ctx, client, tikTokMeURL, &body); err != nil {
		return nil, err
	}
	u := body.Data.User
	username := u.Username
	if username == "" {
		username = u.DisplayName
	}
	return &Profile{ID: u.OpenID, Name: u.DisplayName, Username: username, AvatarURL: u.AvatarURL}, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("profile fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		return fmt.Errorf("read profile response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{Op: "profile fetch", Status: resp.StatusCode, Body: util.TruncateBody(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode profile response: %w", err)
	}
	return nil
}
