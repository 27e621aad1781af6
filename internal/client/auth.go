package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/model"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*model.AuthSession, error) {
	var sess model.AuthSession
	err := c.do(ctx, request{op: "sign up", method: http.MethodPost, path: "/auth/signup",
		body: credentials{Email: email, Password: password}}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, c.setSession(&sess)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*model.AuthSession, error) {
	var sess model.AuthSession
	err := c.do(ctx, request{op: "sign in", method: http.MethodPost, path: "/auth/token",
		query: url.Values{"grant_type": {"password"}},
		body:  credentials{Email: email, Password: password}}, &sess)
	if err != nil {
		return nil, err
	}
	return &sess, c.setSession(&sess)
}

// SignOut ends the session on the service. The local session is dropped
// even when the call fails.
func (c *Client) SignOut(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, request{op: "sign out", method: http.MethodPost, path: "/auth/logout"}, nil)
	if clearErr := c.setSession(nil); clearErr != nil && err == nil {
		err = clearErr
	}
	if apperr.Is(err, apperr.KindAuth) {
		return nil
	}
	return err
}

// GetSession asks the service whether the held token is still good. It
// returns nil, nil when there is no token or the service rejects it.
func (c *Client) GetSession(ctx context.Context) (*model.AuthSession, error) {
	if c.Token() == "" {
		return nil, nil
	}
	var sess model.AuthSession
	err := c.do(ctx, request{op: "get session", method: http.MethodGet, path: "/auth/session"}, &sess)
	if apperr.Is(err, apperr.KindAuth) {
		return nil, c.setSession(nil)
	}
	if err != nil {
		return nil, err
	}
	if sess.AccessToken == "" {
		sess.AccessToken = c.Token()
	}
	return &sess, c.setSession(&sess)
}
