// Package rtdb implements tree.Store against the Firebase Realtime Database REST API, using
// server-sent event streams for subscriptions.
package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/LuminationDev/leadme-classroom/src/leadme/gateway/tree"
	"github.com/LuminationDev/leadme-classroom/src/leadme/internal/errors"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/zap"
)

const (
	_defaultRequestTimeout = 10 * time.Second

	// Error templates
	_errRequest = "%s %q: %w"
	_errStatus  = "%s %q: unexpected status %d: %s"
)

// Config configures the REST client.
type Config struct {
	URL            string        `yaml:"url"`
	AuthToken      string        `yaml:"authToken"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// Client is a tree.Store backed by a Realtime Database instance.
type Client struct {
	base    *url.URL
	token   string
	timeout time.Duration
	http    *http.Client
	logger  *zap.SugaredLogger
	stats   tally.Scope

	mu      sync.Mutex
	streams map[string]*stream
	nextID  int
}

var _ tree.Store = (*Client)(nil)

// New creates a client for the database at cfg.URL. A nil httpClient uses http.DefaultClient.
func New(cfg Config, httpClient *http.Client, logger *zap.SugaredLogger, stats tally.Scope) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("missing database url")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = _defaultRequestTimeout
	}

	return &Client{
		base:    base,
		token:   cfg.AuthToken,
		timeout: timeout,
		http:    httpClient,
		logger:  logger,
		stats:   stats,
		streams: make(map[string]*stream),
	}, nil
}

// Get reads the value at path.
func (c *Client) Get(ctx context.Context, path string) (tree.Snapshot, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return tree.Snapshot{}, err
	}
	segs := tree.Split(path)
	key := ""
	if len(segs) > 0 {
		key = segs[len(segs)-1]
	}
	return tree.Snapshot{Key: key, Value: body}, nil
}

// Set replaces the value at path.
func (c *Client) Set(ctx context.Context, path string, value any) error {
	_, err := c.do(ctx, http.MethodPut, path, value)
	return err
}

// Update writes each key of values below path in one request.
func (c *Client) Update(ctx context.Context, path string, values map[string]any) error {
	_, err := c.do(ctx, http.MethodPatch, path, values)
	return err
}

// Push appends value under a server-generated key.
func (c *Client) Push(ctx context.Context, path string, value any) (string, error) {
	body, err := c.do(ctx, http.MethodPost, path, value)
	if err != nil {
		return "", err
	}
	var res struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decoding push response: %w", err)
	}
	return res.Name, nil
}

// Remove deletes the node at path.
func (c *Client) Remove(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

// OnDisconnect is only available to persistent socket clients.
func (c *Client) OnDisconnect(ctx context.Context, path string, value any) error {
	return tree.ErrUnsupported
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = u.Path + "/" + tree.Join(path) + ".json"
	if c.token != "" {
		q := u.Query()
		q.Set("auth", c.token)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, value any) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if value != nil || method == http.MethodPut {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf(_errRequest, method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, fmt.Errorf(_errRequest, method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.stats.Counter("requests").Inc(1)
	resp, err := c.http.Do(req)
	if err != nil {
		c.stats.Counter("request_errors").Inc(1)
		return nil, fmt.Errorf(_errRequest, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.stats.Counter("request_errors").Inc(1)
		return nil, fmt.Errorf(_errRequest, method, path, err)
	}
	if err := statusError(method, path, resp.StatusCode, raw); err != nil {
		c.stats.Counter("request_errors").Inc(1)
		return nil, err
	}
	return raw, nil
}

// statusError converts a non-2xx response into an error, mapping credential failures to
// errors.AuthError.
func statusError(method, path string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	var res struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(body, &res)
	detail := res.Error
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf(_errRequest, method, path, &errors.AuthError{Code: authCode(detail), Detail: detail})
	}
	return fmt.Errorf(_errStatus, method, path, status, detail)
}

func authCode(detail string) string {
	d := strings.ToLower(detail)
	switch {
	case strings.Contains(d, "expired"):
		return "auth/id-token-expired"
	case strings.Contains(d, "revoked"):
		return "auth/id-token-revoked"
	case strings.Contains(d, "parse auth token"), strings.Contains(d, "invalid"):
		return "auth/invalid-id-token"
	case strings.Contains(d, "permission denied"):
		return "auth/permission-denied"
	}
	return "auth/unknown"
}
