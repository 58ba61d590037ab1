package controlid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultUserLimit = 10000
	defaultLogLimit  = 2000
	defaultTimeout   = 60 * time.Second
)

// Config holds the device connection settings
type Config struct {
	BaseURL  string
	Login    string
	Password string
	Timeout  time.Duration
	// TimeOffset is added to device epochs, which some firmwares store as local time
	TimeOffset time.Duration
	UserLimit  int
	LogLimit   int
}

// Client talks to a Control iD access terminal over its JSON API.
// It logs in lazily and keeps the session until the device rejects it.
type Client struct {
	baseURL    string
	login      string
	password   string
	timeOffset time.Duration
	userLimit  int
	logLimit   int
	httpClient *http.Client

	mu      sync.Mutex
	session string
}

// NewClient creates a device client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userLimit := cfg.UserLimit
	if userLimit <= 0 {
		userLimit = defaultUserLimit
	}
	logLimit := cfg.LogLimit
	if logLimit <= 0 {
		logLimit = defaultLogLimit
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		login:      cfg.Login,
		password:   cfg.Password,
		timeOffset: cfg.TimeOffset,
		userLimit:  userLimit,
		logLimit:   logLimit,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError represents a non-2xx answer from the device
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("control id API error [%d] %s: %s", e.StatusCode, e.Endpoint, e.Body)
}

// ErrLoginRejected is returned when the device answers a login without a session
var ErrLoginRejected = errors.New("control id login rejected")

// Login opens a new session
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginLocked(ctx)
}

func (c *Client) loginLocked(ctx context.Context) error {
	body := map[string]string{"login": c.login, "password": c.password}

	var resp struct {
		Session string `json:"session"`
	}
	if err := c.post(ctx, "login.fcgi", "", body, &resp); err != nil {
		return fmt.Errorf("failed to login: %w", err)
	}
	if resp.Session == "" {
		return ErrLoginRejected
	}

	c.session = resp.Session
	slog.Debug("Control iD session opened", "base_url", c.baseURL)
	return nil
}

// call posts to a session endpoint. A 401 drops the session and retries once
// with a fresh login.
func (c *Client) call(ctx context.Context, endpoint string, body, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == "" {
		if err := c.loginLocked(ctx); err != nil {
			return err
		}
	}

	err := c.post(ctx, endpoint, c.session, body, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		c.session = ""
		if err := c.loginLocked(ctx); err != nil {
			return err
		}
		err = c.post(ctx, endpoint, c.session, body, out)
	}
	return err
}

func (c *Client) post(ctx context.Context, endpoint, session string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	target := c.baseURL + "/" + endpoint
	if session != "" {
		target += "?session=" + url.QueryEscape(session)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return &APIError{StatusCode: res.StatusCode, Endpoint: endpoint, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
