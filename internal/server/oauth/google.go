// Package oauth implements the Google authorization-code exchange used for
// delegated sign-in.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultUserInfoURL is Google's v2 profile endpoint.
const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	errMissingToken   = errors.New("missing access token")
	errProfileRequest = errors.New("profile request failed")
	errProfileFields  = errors.New("profile lacks id or email")
)

// Config describes the OAuth client. Empty endpoint URLs use Google's.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenURL     string
	UserInfoURL  string
}

// GoogleProvider exchanges authorization codes for Google profiles.
type GoogleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleProvider builds a provider from c. httpClient may be nil.
func NewGoogleProvider(c Config, httpClient *http.Client) *GoogleProvider {
	endpoint := google.Endpoint
	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
		endpoint.AuthStyle = oauth2.AuthStyleInParams
	}

	userInfo := c.UserInfoURL
	if userInfo == "" {
		userInfo = DefaultUserInfoURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfo,
		httpClient:  httpClient,
	}
}

// Exchange trades code for an access token and fetches the profile with it.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*models.ProviderProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, errMissingToken
	}

	return p.fetchProfile(ctx, tok)
}

func (p *GoogleProvider) fetchProfile(ctx context.Context, tok *oauth2.Token) (*models.ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", errProfileRequest, resp.StatusCode)
	}

	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.ID == "" || payload.Email == "" {
		return nil, errProfileFields
	}

	return &models.ProviderProfile{
		ProviderID: payload.ID,
		Email:      payload.Email,
		Name:       payload.Name,
		Picture:    payload.Picture,
	}, nil
}
