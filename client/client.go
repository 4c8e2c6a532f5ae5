// Package client talks to an actordir server over HTTP. The load test and
// seed commands are built on it.
package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cvhariharan/actordir/models"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

type CreateUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Summary     string `json:"summary,omitempty"`
}

type Client struct {
	base *url.URL
	r    *resty.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse target %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("target %q must be an absolute URL", baseURL)
	}
	r := resty.New().
		SetBaseURL(u.String()).
		SetTimeout(timeout)
	return &Client{base: u, r: r}, nil
}

// Host is the target's host[:port], the domain its actors live under when
// the server runs with the default configuration.
func (c *Client) Host() string {
	return c.base.Host
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*models.Actor, error) {
	var actor models.Actor
	resp, err := c.r.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&actor).
		Post("/api/users")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return &actor, nil
}

func (c *Client) WebFinger(ctx context.Context, username, domain string) (*models.WebFingerResp, error) {
	var doc models.WebFingerResp
	resp, err := c.r.R().
		SetContext(ctx).
		SetQueryParam("resource", "acct:"+username+"@"+domain).
		SetResult(&doc).
		ForceContentType("application/json").
		Get("/.well-known/webfinger")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return &doc, nil
}

func (c *Client) Actor(ctx context.Context, username string) (*models.Actor, error) {
	var actor models.Actor
	resp, err := c.r.R().
		SetContext(ctx).
		SetHeader("Accept", models.ActivityJSON).
		SetResult(&actor).
		ForceContentType("application/json").
		Get("/users/" + url.PathEscape(username))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return &actor, nil
}

func (c *Client) Metrics(ctx context.Context) (*models.MetricsSnapshot, error) {
	var snap models.MetricsSnapshot
	resp, err := c.r.R().
		SetContext(ctx).
		SetResult(&snap).
		Get("/metrics")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.String()}
	}
	return &snap, nil
}

// Probe issues a GET for path and reports the round-trip time.
func (c *Client) Probe(ctx context.Context, path string) (time.Duration, int, error) {
	start := time.Now()
	resp, err := c.r.R().SetContext(ctx).Get(path)
	elapsed := time.Since(start)
	if err != nil {
		return elapsed, 0, err
	}
	return elapsed, resp.StatusCode(), nil
}
