package fixdesk

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// Client is an HTTP client for the Fixdesk server API.
type Client struct {
	baseURL string
	actor   string
	site    string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Fixdesk API client.
//
// Required options:
//   - WithSite: sets the site every call is scoped to
//
// Optional options:
//   - WithHost: sets the server host (default: localhost)
//   - WithPort: sets the server port (default: 7480)
//   - WithActor: sets the audit actor (default: anonymous)
//   - WithTimeout: sets the HTTP client timeout (default: 30s)
//   - WithRateLimit: throttles outgoing requests
//
// Example:
//
//	client, err := fixdesk.NewClient(
//	    fixdesk.WithSite("plant-a"),
//	    fixdesk.WithActor("alice@desk"),
//	)
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if strings.TrimSpace(cfg.site) == "" {
		return nil, fmt.Errorf("site is required: use WithSite option")
	}
	if cfg.actor == "" {
		return nil, fmt.Errorf("actor cannot be empty")
	}

	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", cfg.host, cfg.port),
		actor:   cfg.actor,
		site:    cfg.site,
		http: &http.Client{
			Timeout: cfg.timeout,
		},
		limiter: cfg.limiter,
	}, nil
}

// Site returns the site this client is scoped to.
func (c *Client) Site() string {
	return c.site
}

// Actor returns the identity sent with every request.
func (c *Client) Actor() string {
	return c.actor
}

// Health checks if the server is healthy.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrServerUnhealthy
	}

	return nil
}

// ServerStatus is the report served by the health endpoint.
type ServerStatus struct {
	Status          string `json:"status"`
	Sites           int    `json:"sites"`
	LiveSubscribers int    `json:"live_subscribers"`
	Handoff         string `json:"handoff"`
}

// Status fetches the server's health report.
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	var status ServerStatus
	if err := c.do(ctx, http.MethodGet, "/v1/health", nil, http.StatusOK, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListSites returns the names of all sites that have a database.
func (c *Client) ListSites(ctx context.Context) ([]string, error) {
	var sites []string
	if err := c.do(ctx, http.MethodGet, "/v1/sites", nil, http.StatusOK, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}
