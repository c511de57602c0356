package billomat

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client talks to one Billomat account. It is immutable after New and can be
// shared between goroutines as long as the configured Doer can.
type Client struct {
	billomatID   string
	apiKey       string
	baseURL      string
	apiKeyHeader string
	appID        string
	appSecret    string
	userAgent    string
	timeout      time.Duration
	http         Doer
	logger       *slog.Logger
	metrics      *metrics
}

// Config is the immutable connection configuration.
type Config struct {
	BillomatID      string        `yaml:"billomat_id" json:"billomat_id"`
	APIKey          string        `yaml:"api_key" json:"api_key"`
	AppID           string        `yaml:"app_id,omitempty" json:"app_id,omitempty"`
	AppSecret       string        `yaml:"app_secret,omitempty" json:"app_secret,omitempty"`
	BaseURLTemplate string        `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// ErrMissingCredentials is returned when the Billomat ID or API key is empty.
var ErrMissingCredentials = errors.New("billomat: billomat id and api key are required")

// Validate checks that the required credentials are present and that the
// app credential pair is either complete or absent.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BillomatID) == "" || strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingCredentials
	}
	if (c.AppID == "") != (c.AppSecret == "") {
		return errors.New("billomat: app id and app secret must be set together")
	}
	return nil
}

// BaseURL returns the account's API root, always ending in "/".
func (c Config) BaseURL() string {
	tmpl := c.BaseURLTemplate
	if tmpl == "" {
		tmpl = DefaultBaseURLTemplate
	}
	return expandBaseURL(tmpl, c.BillomatID)
}

func expandBaseURL(tmpl, id string) string {
	u := tmpl
	if strings.Contains(tmpl, "%s") {
		u = fmt.Sprintf(tmpl, id)
	}
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// NewFromConfig builds a client from cfg. Options are applied after cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := []Option{WithAppCredentials(cfg.AppID, cfg.AppSecret)}
	if cfg.BaseURLTemplate != "" {
		base = append(base, WithBaseURLTemplate(cfg.BaseURLTemplate))
	}
	if cfg.Timeout > 0 {
		base = append(base, WithTimeout(cfg.Timeout))
	}
	return New(cfg.BillomatID, cfg.APIKey, append(base, opts...)...)
}

// New creates a client for the account identified by billomatID.
func New(billomatID, apiKey string, opts ...Option) (*Client, error) {
	if err := (Config{BillomatID: billomatID, APIKey: apiKey}).Validate(); err != nil {
		return nil, err
	}

	cfg := clientConfig{
		baseURLTemplate: DefaultBaseURLTemplate,
		apiKeyHeader:    DefaultAPIKeyHeader,
		timeout:         DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = defaultHTTPClient()
	}

	c := &Client{
		billomatID:   billomatID,
		apiKey:       apiKey,
		baseURL:      expandBaseURL(cfg.baseURLTemplate, billomatID),
		apiKeyHeader: cfg.apiKeyHeader,
		appID:        cfg.appID,
		appSecret:    cfg.appSecret,
		userAgent:    cfg.userAgent,
		timeout:      cfg.timeout,
		http:         cfg.httpClient,
		logger:       cfg.logger,
	}
	if cfg.registerer != nil {
		m, err := newMetrics(cfg.registerer)
		if err != nil {
			return nil, fmt.Errorf("billomat: register metrics: %w", err)
		}
		c.metrics = m
	}
	return c, nil
}

func defaultHTTPClient() *http.Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	return &http.Client{Transport: transport}
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string { return c.baseURL }

// BillomatID returns the account identifier the client was built for.
func (c *Client) BillomatID() string { return c.billomatID }

// response is a fully read HTTP response.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// send performs one HTTP exchange. Non-2xx statuses are returned as ordinary
// responses; only transport failures produce an error.
func (c *Client) send(ctx context.Context, method, path string, query Query, body any) (*response, error) {
	reqURL := c.baseURL + strings.TrimLeft(path, "/")
	if qs := query.Encode(); qs != "" {
		reqURL += "?" + qs
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(c.apiKeyHeader, c.apiKey)
	if c.appID != "" && c.appSecret != "" {
		req.Header.Set("X-AppId", c.appID)
		req.Header.Set("X-AppSecret", c.appSecret)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(method, path, 0, time.Since(start))
		if c.logger != nil {
			c.logger.DebugContext(ctx, "request failed", "method", method, "path", path, "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	elapsed := time.Since(start)
	c.metrics.observe(method, path, resp.StatusCode, elapsed)
	if c.logger != nil {
		c.logger.DebugContext(ctx, "request complete", "method", method, "path", path, "status", resp.StatusCode, "duration", elapsed)
	}

	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: respBody}, nil
}
