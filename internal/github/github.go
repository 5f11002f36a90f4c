// Package github wraps the subset of the GitHub REST API and OAuth flow
// used by the application: code exchange, profile reads, user search, and
// the authenticated user's following list.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/peerhub/peerhub/internal/config"
	"github.com/peerhub/peerhub/internal/logger"
)

const defaultAPIBaseURL = "https://api.github.com"

var (
	// ErrNotFound is returned when the requested GitHub user does not exist.
	ErrNotFound = errors.New("github user not found")

	// ErrUnauthorized is returned when the supplied access token is missing,
	// expired, or revoked.
	ErrUnauthorized = errors.New("github token is invalid or revoked")

	// ErrAPIFailure is returned for any other non-2xx GitHub API response.
	ErrAPIFailure = errors.New("github api request failed")
)

// Profile is a GitHub user profile as returned by /user and /users/{username}.
type Profile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
	Type      string `json:"type"`
	Email     string `json:"email"`
}

// SearchUser is one hit of /search/users or one entry of /users/{u}/following.
type SearchUser struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	Type      string `json:"type"`
}

type searchResponse struct {
	Items []SearchUser `json:"items"`
}

// Client talks to the GitHub REST API and runs the OAuth authorization-code
// flow. Safe for concurrent use; all state is read-only after construction.
type Client struct {
	client *resty.Client
	oauth  *oauth2.Config
	logger *logger.Logger
}

// New constructs a GitHub client from the OAuth application credentials.
func New(cfg config.GitHub, logger *logger.Logger) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(defaultAPIBaseURL).
			SetTimeout(15 * time.Second).
			SetHeader("Accept", "application/vnd.github+json"),
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     githuboauth.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		logger: logger,
	}
}

// SetBaseURL overrides the REST API base URL. Used in tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.client.SetBaseURL(strings.TrimRight(baseURL, "/"))
}

// AuthCodeURL returns the GitHub authorize URL the browser should be sent to.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// ExchangeCode trades an OAuth authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: code exchange: %w", ErrAPIFailure, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token in exchange response", ErrAPIFailure)
	}

	return token.AccessToken, nil
}

// GetAuthenticatedUser fetches the profile of the token's owner (GET /user).
func (c *Client) GetAuthenticatedUser(ctx context.Context, accessToken string) (Profile, error) {
	resp, err := c.authedRequest(ctx, accessToken).Get("/user")
	if err != nil {
		return Profile{}, fmt.Errorf("%w: get authenticated user: %w", ErrAPIFailure, err)
	}
	if err = mapAPIError(resp); err != nil {
		return Profile{}, err
	}

	var profile Profile
	if err = json.Unmarshal(resp.Body(), &profile); err != nil {
		return Profile{}, fmt.Errorf("%w: decode user response: %w", ErrAPIFailure, err)
	}

	return profile, nil
}

// GetUser fetches the profile of the given username (GET /users/{username}).
func (c *Client) GetUser(ctx context.Context, accessToken, username string) (Profile, error) {
	resp, err := c.authedRequest(ctx, accessToken).Get("/users/" + url.PathEscape(username))
	if err != nil {
		return Profile{}, fmt.Errorf("%w: get user %q: %w", ErrAPIFailure, username, err)
	}
	if err = mapAPIError(resp); err != nil {
		return Profile{}, err
	}

	var profile Profile
	if err = json.Unmarshal(resp.Body(), &profile); err != nil {
		return Profile{}, fmt.Errorf("%w: decode user response: %w", ErrAPIFailure, err)
	}

	return profile, nil
}

// SearchUsers searches GitHub users matching the query. The "type:user"
// qualifier is appended so organizations and bots are excluded server-side.
func (c *Client) SearchUsers(ctx context.Context, accessToken, query string) ([]SearchUser, error) {
	resp, err := c.authedRequest(ctx, accessToken).
		SetQueryParam("q", query+" type:user").
		SetQueryParam("per_page", "10").
		Get("/search/users")
	if err != nil {
		return nil, fmt.Errorf("%w: search users: %w", ErrAPIFailure, err)
	}
	if err = mapAPIError(resp); err != nil {
		return nil, err
	}

	var result searchResponse
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %w", ErrAPIFailure, err)
	}

	return result.Items, nil
}

// GetFollowing lists up to perPage users the given username follows.
func (c *Client) GetFollowing(ctx context.Context, accessToken, username string, perPage int) ([]SearchUser, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}

	resp, err := c.authedRequest(ctx, accessToken).
		SetQueryParam("per_page", strconv.Itoa(perPage)).
		Get("/users/" + url.PathEscape(username) + "/following")
	if err != nil {
		return nil, fmt.Errorf("%w: get following of %q: %w", ErrAPIFailure, username, err)
	}
	if err = mapAPIError(resp); err != nil {
		return nil, err
	}

	var following []SearchUser
	if err = json.Unmarshal(resp.Body(), &following); err != nil {
		return nil, fmt.Errorf("%w: decode following response: %w", ErrAPIFailure, err)
	}

	return following, nil
}

func (c *Client) authedRequest(ctx context.Context, accessToken string) *resty.Request {
	req := c.client.R().SetContext(ctx)
	if accessToken != "" {
		req.SetHeader("Authorization", "Bearer "+accessToken)
	}
	return req
}

func mapAPIError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	switch code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		body := strings.TrimSpace(string(resp.Body()))
		if body == "" {
			body = http.StatusText(code)
		}
		return fmt.Errorf("%w: http %d: %s", ErrAPIFailure, code, body)
	}
}
