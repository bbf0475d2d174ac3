// package auth implements the OAuth credential lifecycle for the Spotify Web API.
//
// Two grant flows are multiplexed: service-to-service client credentials for
// anonymous catalog search, and user-delegated authorization code with refresh
// for playlist mutation.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/musicai/internal/models"
	"github.com/desertthunder/musicai/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// spotifyScopes is the fixed scope set requested during user authorization.
var spotifyScopes = []string{
	"user-read-private",
	"user-read-email",
	"playlist-modify-public",
	"playlist-modify-private",
	"playlist-read-private",
	"playlist-read-collaborative",
}

// ServiceCredential is the service-level access credential obtained via the
// client credentials grant. Replaced wholesale on refresh, never mutated.
type ServiceCredential struct {
	AccessToken string
	ExpiresAt   time.Time
}

// tokenResponse is the JSON body returned by the token endpoint for all grants.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	RefreshToken string `json:"refresh_token"`
}

// Acquirer performs OAuth token exchanges against the Spotify accounts service.
//
// Each operation is an isolated form-encoded POST authenticated with HTTP
// Basic client credentials.
type Acquirer struct {
	config     *oauth2.Config
	httpClient *http.Client
	tokenURL   string
	now        func() time.Time
}

// NewAcquirer creates an Acquirer for the given application credentials.
func NewAcquirer(clientID, clientSecret, redirectURI string) (*Acquirer, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if redirectURI == "" {
		redirectURI = "http://127.0.0.1:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &Acquirer{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokenURL:   spotifyTokenURL,
		now:        time.Now,
	}, nil
}

// AuthorizationURL builds the user-facing authorization URL for the
// authorization code grant. Pure function of the acquirer's configuration and
// the state parameter; no network call.
func (a *Acquirer) AuthorizationURL(state string) string {
	return a.config.AuthCodeURL(state)
}

// ClientCredentials acquires a service-level credential via the client
// credentials grant.
func (a *Acquirer) ClientCredentials(ctx context.Context) (ServiceCredential, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	token, err := a.exchange(ctx, form)
	if err != nil {
		return ServiceCredential{}, err
	}

	return ServiceCredential{
		AccessToken: token.AccessToken,
		ExpiresAt:   a.now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}, nil
}

// ExchangeCode exchanges an authorization code for a user credential.
//
// An empty code fails before any network call.
func (a *Acquirer) ExchangeCode(ctx context.Context, code string) (models.UserCredential, error) {
	if code == "" {
		return models.UserCredential{}, fmt.Errorf("%w: authorization code is empty", shared.ErrInvalidAuthCode)
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", a.config.RedirectURL)

	token, err := a.exchange(ctx, form)
	if err != nil {
		return models.UserCredential{}, err
	}

	return a.userCredential(token, ""), nil
}

// Refresh exchanges a refresh token for a fresh user credential.
//
// Spotify does not always rotate refresh tokens; when the response omits one,
// the input refresh token is carried over.
func (a *Acquirer) Refresh(ctx context.Context, refreshToken string) (models.UserCredential, error) {
	if refreshToken == "" {
		return models.UserCredential{}, fmt.Errorf("%w: refresh token is empty", shared.ErrInvalidRefreshToken)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	token, err := a.exchange(ctx, form)
	if err != nil {
		return models.UserCredential{}, err
	}

	return a.userCredential(token, refreshToken), nil
}

// exchange posts a form-encoded grant request to the token endpoint.
func (a *Acquirer) exchange(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}

	req.SetBasicAuth(a.config.ClientID, a.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAuthExchange, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: failed to decode token response: %v", shared.ErrAuthExchange, err)
	}

	return &token, nil
}

// userCredential converts a token response into a [models.UserCredential],
// falling back to the previous refresh token when none was issued.
func (a *Acquirer) userCredential(token *tokenResponse, previousRefresh string) models.UserCredential {
	refresh := token.RefreshToken
	if refresh == "" {
		refresh = previousRefresh
	}

	issuedAt := a.now()
	return models.UserCredential{
		AccessToken:  token.AccessToken,
		RefreshToken: refresh,
		TokenType:    token.TokenType,
		ExpiresIn:    token.ExpiresIn,
		ExpiresAt:    issuedAt.Add(time.Duration(token.ExpiresIn) * time.Second),
		Scope:        token.Scope,
	}
}
