// Package identity resolves Firebase ID tokens into user identities through the
// Identity Toolkit REST API.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sowmensarker/ambika/internal/config"
	"github.com/sowmensarker/ambika/internal/domain/models"
)

// ErrInvalidToken is returned when the provider rejects the token.
var ErrInvalidToken = errors.New("invalid identity token")

// Client looks up the account behind an ID token.
type Client struct {
	httpClient *resty.Client
	apiKey     string
}

// NewClient builds an identity client from configuration.
func NewClient(cfg config.IdentityConfig) *Client {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &Client{httpClient: restyClient, apiKey: cfg.APIKey}
}

type lookupResponse struct {
	Users []struct {
		LocalID       string `json:"localId"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"emailVerified"`
		DisplayName   string `json:"displayName"`
		PhotoURL      string `json:"photoUrl"`
	} `json:"users"`
}

type lookupError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Lookup returns the identity owning idToken.
func (c *Client) Lookup(ctx context.Context, idToken string) (models.Identity, error) {
	if idToken == "" {
		return models.Identity{}, ErrInvalidToken
	}

	result := new(lookupResponse)
	apiErr := new(lookupError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(map[string]string{"idToken": idToken}).
		SetResult(result).
		SetError(apiErr).
		Post("/v1/accounts:lookup")
	if err != nil {
		return models.Identity{}, fmt.Errorf("lookup account: %w", err)
	}

	if resp.IsError() {
		if resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusUnauthorized {
			return models.Identity{}, fmt.Errorf("%w: %s", ErrInvalidToken, apiErr.Error.Message)
		}
		return models.Identity{}, fmt.Errorf("identity api error: code=%d, message=%s", resp.StatusCode(), apiErr.Error.Message)
	}

	if len(result.Users) == 0 {
		return models.Identity{}, ErrInvalidToken
	}

	u := result.Users[0]
	return models.Identity{
		UID:           u.LocalID,
		DisplayName:   u.DisplayName,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		PhotoURL:      u.PhotoURL,
	}, nil
}
