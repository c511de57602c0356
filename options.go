package billomat

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultBaseURLTemplate is interpolated with the Billomat ID.
	DefaultBaseURLTemplate = "https://%s.billomat.net/api/"
	// DefaultTimeout applies to every request unless overridden.
	DefaultTimeout = 10 * time.Second
	// DefaultAPIKeyHeader carries the API key on every request.
	DefaultAPIKeyHeader = "X-BillomatApiKey"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// clientConfig holds everything New needs besides the credentials.
type clientConfig struct {
	httpClient      Doer
	baseURLTemplate string
	apiKeyHeader    string
	appID           string
	appSecret       string
	timeout         time.Duration
	userAgent       string
	logger          *slog.Logger
	registerer      prometheus.Registerer
}

// Option configures the client.
type Option func(*clientConfig)

// WithHTTPClient sets the transport used to send requests.
func WithHTTPClient(doer Doer) Option {
	return func(c *clientConfig) {
		c.httpClient = doer
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithAppCredentials sets the X-AppId / X-AppSecret pair. Both must be
// non-empty for the headers to be sent.
func WithAppCredentials(appID, appSecret string) Option {
	return func(c *clientConfig) {
		c.appID = appID
		c.appSecret = appSecret
	}
}

// WithBaseURLTemplate overrides the base URL. The template receives the
// Billomat ID through a single %s verb; a template without one is used as is.
func WithBaseURLTemplate(tmpl string) Option {
	return func(c *clientConfig) {
		c.baseURLTemplate = tmpl
	}
}

// WithAPIKeyHeader overrides the header name that carries the API key.
func WithAPIKeyHeader(name string) Option {
	return func(c *clientConfig) {
		c.apiKeyHeader = name
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithLogger enables debug logging of each request.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics registers request counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.registerer = reg
	}
}
