package client

import (
	"context"
	"net/http"
)

// Tokens is the pair returned by login and refresh.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login exchanges credentials for tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*Tokens, error) {
	body := map[string]string{"email": email, "password": password}
	var resp Tokens
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh exchanges a refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp Tokens
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
