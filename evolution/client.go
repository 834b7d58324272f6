package evolution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/CSCSoftware/evolution-mcp/config"
	"github.com/CSCSoftware/evolution-mcp/metrics"
)

// HTTPClient abstracts HTTP calls for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	HTTPClient HTTPClient
	Logger     *slog.Logger
}

// Client talks to one instance of an Evolution API gateway.
type Client struct {
	baseURL  string
	apiKey   string
	instance string
	http     HTTPClient
	logger   *slog.Logger
}

// APIError is returned when the gateway answers with a non-2xx status.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("evolution api %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// NewClient creates a gateway client. Requests are not retried.
func NewClient(cfg config.EvolutionConfig, opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		instance: cfg.Instance,
		http:     opts.HTTPClient,
		logger:   opts.Logger,
	}
}

// Instance returns the instance name requests are scoped to.
func (c *Client) Instance() string {
	return c.instance
}

// instancePath builds "<prefix>/<instance>[/<segment>...]" with escaped segments.
func (c *Client) instancePath(prefix string, segments ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('/')
	b.WriteString(url.PathEscape(c.instance))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// do sends a JSON request and decodes the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(method, "error").Inc()
		c.logger.Error("evolution api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	metrics.GatewayRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	if err != nil {
		c.logger.Error("evolution api response read failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
		c.logger.Error("evolution api error", "method", method, "path", path, "status", resp.StatusCode, "body", apiErr.Body)
		return apiErr
	}

	c.logger.Debug("evolution api response", "method", method, "path", path, "status", resp.StatusCode)

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// raw is do for endpoints whose response shape is not modelled.
func (c *Client) raw(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeList accepts both a bare JSON array and {"data": [...]}.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}
	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return wrapped.Data, nil
}
