package fixdesk

import (
	"time"

	"golang.org/x/time/rate"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

// clientConfig holds the configuration for a Client.
type clientConfig struct {
	host    string
	port    int
	site    string
	actor   string
	timeout time.Duration
	limiter *rate.Limiter
}

// defaultConfig returns the default client configuration.
func defaultConfig() *clientConfig {
	return &clientConfig{
		host:    "localhost",
		port:    7480,
		actor:   "anonymous",
		timeout: 30 * time.Second,
	}
}

// WithHost sets the server host.
func WithHost(host string) ClientOption {
	return func(c *clientConfig) {
		c.host = host
	}
}

// WithPort sets the server port.
func WithPort(port int) ClientOption {
	return func(c *clientConfig) {
		c.port = port
	}
}

// WithSite sets the site every request is scoped to.
func WithSite(site string) ClientOption {
	return func(c *clientConfig) {
		c.site = site
	}
}

// WithActor sets the name recorded in the audit log for changes.
func WithActor(actor string) ClientOption {
	return func(c *clientConfig) {
		c.actor = actor
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRateLimit caps outgoing requests to rps per second with the given burst.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *clientConfig) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// ListOptions selects a page of a paginated endpoint.
type ListOptions struct {
	Page    int
	PerPage int
}

func (o ListOptions) apply(q queryValues) {
	if o.Page > 0 {
		q.setInt("page", o.Page)
	}
	if o.PerPage > 0 {
		q.setInt("per_page", o.PerPage)
	}
}
