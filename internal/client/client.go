// Package client talks to the basket service over HTTP. It satisfies the
// Remote interface the app stores use and keeps the signed-in session on
// disk so the terminal client survives restarts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/basket/internal/apperr"
	"github.com/dukerupert/basket/internal/model"
	"github.com/dukerupert/basket/internal/telemetry"
)

// Config holds the service location and credentials.
type Config struct {
	BaseURL string
	APIKey  string
	// SessionFile persists the session between runs. Empty keeps it in
	// memory only.
	SessionFile string
	// HTTPClient defaults to a traced client with a 15 second timeout.
	HTTPClient *http.Client
}

type Client struct {
	cfg        Config
	httpClient *http.Client

	mu      sync.RWMutex
	session *model.AuthSession
}

// New creates a client and restores any session saved in cfg.SessionFile.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = telemetry.NewHTTPClient(nil)
		cfg.HTTPClient.Timeout = 15 * time.Second
	}

	c := &Client{cfg: cfg, httpClient: cfg.HTTPClient}
	if err := c.loadSession(); err != nil {
		return nil, err
	}
	return c, nil
}

// Token returns the access token of the held session, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

func (c *Client) loadSession() error {
	if c.cfg.SessionFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.cfg.SessionFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	var sess model.AuthSession
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt file is treated as signed out.
		return nil
	}
	c.session = &sess
	return nil
}

// setSession replaces the held session and mirrors it to disk. nil clears
// both.
func (c *Client) setSession(sess *model.AuthSession) error {
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()

	if c.cfg.SessionFile == "" {
		return nil
	}
	if sess == nil {
		if err := os.Remove(c.cfg.SessionFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove session: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.cfg.SessionFile), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(c.cfg.SessionFile, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// errorBody mirrors the service's JSON error responses.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// request describes one call. body is JSON-encoded unless raw is set.
type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        any
	raw         io.Reader
	contentType string
}

// do sends req and decodes a successful response into out, if set.
func (c *Client) do(ctx context.Context, req request, out any) error {
	u := c.cfg.BaseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	body := req.raw
	contentType := req.contentType
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return apperr.Remote(req.op, fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return apperr.Remote(req.op, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("apikey", c.cfg.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperr.Remote(req.op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(req.op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Remote(req.op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// decodeError turns an error response back into an *apperr.Error of the
// same kind the service reported.
func decodeError(op string, resp *http.Response) error {
	var eb errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &eb); err != nil || eb.Error == "" {
		eb.Error = strings.TrimSpace(string(data))
		if eb.Error == "" {
			eb.Error = resp.Status
		}
	}

	kind := apperr.Kind(eb.Kind)
	switch kind {
	case apperr.KindAuth, apperr.KindNotFound, apperr.KindValidation, apperr.KindRemote:
	default:
		kind = kindForStatus(resp.StatusCode)
	}
	return &apperr.Error{Kind: kind, Op: op, Msg: eb.Error}
}

func kindForStatus(status int) apperr.Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.KindAuth
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return apperr.KindValidation
	}
	return apperr.KindRemote
}

func id(s string) string { return url.PathEscape(s) }
