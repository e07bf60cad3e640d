package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/opsdash/mcsync/internal/config"
	"github.com/opsdash/mcsync/internal/models"
)

const (
	tokenScope   = "https://graph.microsoft.com/.default"
	messagesPath = "/v1.0/admin/serviceAnnouncement/messages"
)

// Client is an authenticated handle to the message center feed. It is
// scoped to one run: Connect, fetch, Disconnect.
type Client struct {
	httpClient  *http.Client
	apiBaseURL  string
	top         int
	orderBy     string
	accessToken string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type messagesResponse struct {
	Value []models.Message `json:"value"`
}

// Connect performs a client-credentials token request and returns an
// authenticated client, or an error when the identity platform rejects the
// credentials.
func Connect(ctx context.Context, cfg config.GraphConfig) (*Client, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)
	form.Set("scope", tokenScope)

	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", cfg.TokenBaseURL, cfg.TenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity platform returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("identity platform returned an empty access token")
	}

	return &Client{
		httpClient:  httpClient,
		apiBaseURL:  cfg.APIBaseURL,
		top:         cfg.Top,
		orderBy:     cfg.OrderBy,
		accessToken: token.AccessToken,
	}, nil
}

// FetchMessages retrieves the message center announcements, newest first,
// capped at the configured page size.
func (c *Client) FetchMessages(ctx context.Context) ([]models.Message, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("client is not connected")
	}

	query := url.Values{}
	query.Set("$top", strconv.Itoa(c.top))
	query.Set("$orderby", c.orderBy)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+messagesPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("message center API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var payload messagesResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return payload.Value, nil
}

// Disconnect releases the handle. The token is bearer-only, so there is
// nothing remote to tear down; the client just becomes unusable.
func (c *Client) Disconnect() error {
	c.accessToken = ""
	return nil
}
