package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/avatarctic/clinic-console/configs"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

const maxBodyBytes = 4 << 20

// mismatchMarkers flag a 403 as a cross-clinic rejection rather than a plain permission error.
var mismatchMarkers = []string{"cabinet", "tenant"}

// Client talks to the clinic REST backend on behalf of one workspace at a time. The backend picks
// the clinic schema from the Host header, so every call is addressed to the workspace hostname.
type Client struct {
	http       *http.Client
	scheme     string
	port       string
	prefix     string
	healthHost string
	logger     *logrus.Logger
}

// NewClient builds a backend client from configuration.
func NewClient(cfg *configs.BackendConfig, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	dialer := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		Proxy:               nil,
		DialContext:         dialer.DialContext,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
	}
	if cfg.DialAddr != "" {
		addr := cfg.DialAddr
		transport.DialContext = func(ctx context.Context, network, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		}
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return &Client{
		http:       &http.Client{Timeout: timeout, Transport: transport},
		scheme:     scheme,
		port:       cfg.Port,
		prefix:     "/" + strings.Trim(cfg.PathPrefix, "/"),
		healthHost: cfg.HealthHost,
		logger:     logger,
	}
}

// Origin returns the base URL used for host, e.g. http://clinic1.localhost:8000/api.
func (c *Client) Origin(host string) string {
	if c.port != "" {
		host = net.JoinHostPort(host, c.port)
	}
	prefix := c.prefix
	if prefix == "/" {
		prefix = ""
	}
	return c.scheme + "://" + host + prefix
}

// Ping reports whether the backend answers at all; any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Origin(c.healthHost)+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrBackendUnreachable, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return resp.Body.Close()
}

// do sends one request and returns the body of a 2xx answer.
func (c *Client) do(ctx context.Context, scope ports.RequestScope, method, path string, query url.Values, body any) ([]byte, error) {
	target := c.Origin(scope.Hostname()) + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := scope.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		backendRequestsTotal.WithLabelValues(method, "error").Inc()
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"method": method, "path": path, "host": scope.Hostname()}).WithError(err).Warn("backend: request failed")
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ports.ErrBackendUnreachable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	backendRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"method":   method,
			"path":     path,
			"host":     scope.Hostname(),
			"status":   resp.StatusCode,
			"duration": time.Since(start).String(),
		}).Debug("backend: response")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", ports.ErrBackendUnreachable, method, path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	detail := errorDetail(raw)
	if resp.StatusCode == http.StatusForbidden && IsTenantMismatch(detail) {
		tenantMismatchTotal.Inc()
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"host": scope.Hostname(), "path": path, "detail": detail}).Error("backend: tenant mismatch, forcing logout")
		}
		scope.ForceLogout(context.WithoutCancel(ctx), detail)
		return nil, fmt.Errorf("%w: %s", ports.ErrTenantMismatch, detail)
	}
	return nil, &ports.BackendError{Status: resp.StatusCode, Detail: detail}
}

// IsTenantMismatch reports whether a 403 detail message names the clinic or tenant.
func IsTenantMismatch(detail string) bool {
	lower := strings.ToLower(detail)
	for _, m := range mismatchMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// errorDetail extracts a readable message from an error body: the "detail" field, then the first
// non-field error, then the raw body.
func errorDetail(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return truncate(strings.TrimSpace(string(raw)))
	}
	if d := gjson.GetBytes(raw, "detail"); d.Exists() {
		return d.String()
	}
	if d := gjson.GetBytes(raw, "non_field_errors.0"); d.Exists() {
		return d.String()
	}
	return truncate(strings.TrimSpace(string(raw)))
}

func truncate(s string) string {
	const limit = 512
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

func decode[T any](raw []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode backend response: %w", err)
	}
	return &v, nil
}

// decodeList accepts both a bare array and a paginated {count, results} envelope.
func decodeList[T any](raw []byte) ([]T, int, error) {
	parsed := gjson.ParseBytes(raw)
	items := raw
	count := -1
	if !parsed.IsArray() {
		results := parsed.Get("results")
		if !results.Exists() {
			return []T{}, 0, nil
		}
		items = []byte(results.Raw)
		if c := parsed.Get("count"); c.Exists() {
			count = int(c.Int())
		}
	}
	var out []T
	if err := json.Unmarshal(items, &out); err != nil {
		return nil, 0, fmt.Errorf("failed to decode backend list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	if count < 0 {
		count = len(out)
	}
	return out, count, nil
}

func idPath(base string, id int64) string {
	return base + strconv.FormatInt(id, 10) + "/"
}
