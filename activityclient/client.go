// Package activityclient provides a client for the remote activities API.
//
// The API exposes three endpoints:
//
//	GET    /activities
//	POST   /activities/{name}/signup?email={email}
//	DELETE /activities/{name}/unregister?email={email}
//
// Example usage:
//
//	client, err := activityclient.New("http://localhost:8000")
//	catalog, err := client.ListActivities(ctx)
//	msg, err := client.Signup(ctx, "Chess Club", "a@b.com")
package activityclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Client talks to the activities API.
type Client struct {
	Host   string
	Logger *slog.Logger
	client *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.Logger = logger
	}
}

// WithTimeout sets the overall HTTP timeout. Zero leaves the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = timeout
	}
}

// New creates a Client for the API rooted at host. The host must include the scheme
// and may include a path prefix.
func New(host string, opts ...Option) (*Client, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid host URL %q: %w", host, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("host URL must include scheme and host: %q", host)
	}

	c := &Client{
		Host:   strings.TrimRight(host, "/"),
		Logger: slog.Default(),
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListActivities fetches the full catalog. Activities keep the key order of the
// server's JSON object.
func (c *Client) ListActivities(ctx context.Context) (Catalog, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.Host+"/activities")
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		var resp messageResponse
		_ = json.Unmarshal(body, &resp)
		return nil, &APIError{StatusCode: status, Detail: resp.detail()}
	}
	catalog, err := decodeCatalog(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return catalog, nil
}

// Signup registers email for the named activity and returns the server's message.
func (c *Client) Signup(ctx context.Context, name ActivityName, email string) (string, error) {
	return c.mutate(ctx, http.MethodPost, c.buildURL(name, "signup", email))
}

// Unregister removes email from the named activity and returns the server's message.
func (c *Client) Unregister(ctx context.Context, name ActivityName, email string) (string, error) {
	return c.mutate(ctx, http.MethodDelete, c.buildURL(name, "unregister", email))
}

// buildURL returns {host}/activities/{name}/{action}?email={email} with both values
// percent-encoded.
func (c *Client) buildURL(name ActivityName, action, email string) string {
	query := url.Values{"email": []string{email}}
	return fmt.Sprintf("%s/activities/%s/%s?%s", c.Host, url.PathEscape(string(name)), action, query.Encode())
}

func (c *Client) mutate(ctx context.Context, method, target string) (string, error) {
	status, body, err := c.do(ctx, method, target)
	if err != nil {
		return "", err
	}

	var resp messageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: decoding response (status %d): %w", ErrTransport, status, err)
	}
	if !isSuccess(status) {
		return "", &APIError{StatusCode: status, Detail: resp.detail()}
	}
	return resp.Message, nil
}

// do performs a request and returns the status code and body. Any failure here is
// a transport failure.
func (c *Client) do(ctx context.Context, method, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: creating request: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.Logger.Debug("activities API request failed", "method", method, "url", target, "error", err)
		// the query carries the participant's email
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = stripQuery(urlErr.URL)
		}
		return 0, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
	}

	c.Logger.Debug("activities API request",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return resp.StatusCode, body, nil
}

func decodeCatalog(body []byte) (Catalog, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("catalog is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("catalog must be a JSON object, got %s", root.Type)
	}

	catalog := make(Catalog, 0)
	var decodeErr error
	root.ForEach(func(key, value gjson.Result) bool {
		var details ActivityDetails
		if err := json.Unmarshal([]byte(value.Raw), &details); err != nil {
			decodeErr = fmt.Errorf("decoding activity %q: %w", key.String(), err)
			return false
		}
		if details.Participants == nil {
			details.Participants = []string{}
		}
		catalog = append(catalog, Activity{Name: ActivityName(key.String()), Details: details})
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return catalog, nil
}

func stripQuery(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

func isSuccess(status int) bool {
	return status/100 == 2
}
