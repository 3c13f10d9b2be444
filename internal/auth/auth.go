// Package auth proxies the backend's Google login, logout and session check.
// The backend session lives in a cookie held by the workspace's transport;
// this package never sees a password or stores a user token.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/model"
)

// ErrUnauthenticated is returned when the backend does not recognise the
// session.
var ErrUnauthenticated = errors.New("not signed in")

const (
	googlePath = "/v1/auth/google"
	logoutPath = "/v1/auth/logout"
	mePath     = "/v1/auth/me"
)

// Client talks to the backend auth endpoints.
type Client struct {
	transport apiclient.Transport
}

func NewClient(t apiclient.Transport) *Client {
	return &Client{transport: t}
}

// LoginWithGoogle exchanges a Google access token for a backend session.
func (c *Client) LoginWithGoogle(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return fmt.Errorf("login: %w: empty access token", ErrUnauthenticated)
	}
	if _, err := c.transport.Do(ctx, http.MethodPost, googlePath, map[string]string{"access_token": accessToken}); err != nil {
		return fmt.Errorf("login: %w", classify(err))
	}
	return nil
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.transport.Do(ctx, http.MethodPost, logoutPath, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Me returns the signed-in user.  The response is treated as opaque apart
// from the user id, which may sit at the top level or under data.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	raw, err := c.transport.Do(ctx, http.MethodGet, mePath, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("session check: %w", classify(err))
	}
	var resp struct {
		Data *model.User `json:"data"`
		model.User
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return model.User{}, fmt.Errorf("session check: %w: %v", apiclient.ErrMalformedResponse, err)
		}
	}
	if resp.Data != nil {
		return *resp.Data, nil
	}
	return resp.User, nil
}

// classify marks 401/403 answers as ErrUnauthenticated while keeping the
// backend error reachable for its message.
func classify(err error) error {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		return errors.Join(ErrUnauthenticated, err)
	}
	return err
}
