package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"farhold/quarterdeck/internal/constants"
	"farhold/quarterdeck/internal/models/dtos"
)

// DiscordProvider drives the OAuth2 authorization-code flow against Discord.
type DiscordProvider struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Client       *http.Client
}

// NewDiscordProvider creates a provider configured from the environment.
func NewDiscordProvider() *DiscordProvider {
	baseURL := os.Getenv("DISCORD_API_BASE_URL")
	if baseURL == "" {
		baseURL = "https://discord.com/api" // Default
	}

	return &DiscordProvider{
		BaseURL:      baseURL,
		ClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		ClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		RedirectURI:  os.Getenv("DISCORD_REDIRECT_URI"),
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetProviderType returns the provider type identifier
func (p *DiscordProvider) GetProviderType() string {
	return "discord_oauth2"
}

// Configured reports whether the OAuth credentials are present.
func (p *DiscordProvider) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != "" && p.RedirectURI != ""
}

// AuthorizeURL builds the consent page URL carrying the CSRF state value.
func (p *DiscordProvider) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", p.ClientID)
	params.Set("redirect_uri", p.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "identify email")
	params.Set("state", state)
	return fmt.Sprintf("%s/oauth2/authorize?%s", strings.TrimSuffix(p.BaseURL, "/"), params.Encode())
}

// ExchangeCode trades the authorization code for an access token.
func (p *DiscordProvider) ExchangeCode(ctx context.Context, code string) (*dtos.DiscordTokenResponse, error) {
	if !p.Configured() {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "Discord OAuth credentials are not configured",
		}
	}
	if code == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Authorization code cannot be empty",
		}
	}

	form := url.Values{}
	form.Set("client_id", p.ClientID)
	form.Set("client_secret", p.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.RedirectURI)

	endpoint := strings.TrimSuffix(p.BaseURL, "/") + "/oauth2/token"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: fmt.Sprintf("Token exchange failed with HTTP %d", resp.StatusCode),
			Details: string(bodyBytes),
		}
	}

	var token dtos.DiscordTokenResponse
	if err := json.Unmarshal(bodyBytes, &token); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Failed to decode token response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}
	if token.AccessToken == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: "Token exchange returned no access token",
			Details: string(bodyBytes),
		}
	}

	return &token, nil
}

// FetchUser loads the authenticated user's profile.
func (p *DiscordProvider) FetchUser(ctx context.Context, accessToken string) (*dtos.DiscordUser, error) {
	if accessToken == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Access token cannot be empty",
		}
	}

	endpoint := strings.TrimSuffix(p.BaseURL, "/") + "/users/@me"
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeUpstreamError,
			Message: fmt.Sprintf("User fetch failed with HTTP %d", resp.StatusCode),
			Details: string(bodyBytes),
		}
	}

	var user dtos.DiscordUser
	if err := json.Unmarshal(bodyBytes, &user); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "Failed to decode user response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}
	if user.ID == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "User response missing id",
			Details: string(bodyBytes),
		}
	}

	return &user, nil
}
