// Package actuator is a small client for the Spring Boot Actuator HTTP API:
// the health document, individual metrics and the metric catalog.
package actuator

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/rileyhilliard/actop/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBody caps how much of a response is read. Actuator documents are small;
// anything larger is not an actuator.
const maxBody = 4 << 20

// Client talks to one actuator base URL. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
}

// NewClient returns a client for baseURL (e.g. http://localhost:8080/actuator).
// timeout bounds each request; zero leaves requests bounded only by ctx.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: timeout},
		userAgent: "actop",
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (c *Client) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

// SetUserAgent sets the User-Agent header sent with every request.
func (c *Client) SetUserAgent(ua string) {
	c.userAgent = ua
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health fetches {base}/health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.get(ctx, "health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Metric fetches {base}/metrics/{name}, narrowed by tags. Each tag is sent
// as a separate tag=key:value parameter.
func (c *Client) Metric(ctx context.Context, name string, tags ...Tag) (*Metric, error) {
	var query url.Values
	if len(tags) > 0 {
		query = url.Values{}
		for _, t := range tags {
			query.Add("tag", t.String())
		}
	}

	var m Metric
	if err := c.get(ctx, "metrics/"+url.PathEscape(name), query, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Catalog fetches {base}/metrics.
func (c *Client) Catalog(ctx context.Context) (*Catalog, error) {
	var cat Catalog
	if err := c.get(ctx, "metrics", nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// IsUnreachable reports whether err means the request never got an HTTP
// response: refused connection, DNS failure, timeout. An error status is a
// response and does not count.
func IsUnreachable(err error) bool {
	var uerr *url.Error
	return stderrors.As(err, &uerr)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + "/" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrHTTP,
			fmt.Sprintf("Couldn't build request for %s", path),
			"Check base_url in your .actop.yaml")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrHTTP,
			fmt.Sprintf("GET %s failed", path),
			"Check that the application is running and the management port is reachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return errors.New(errors.ErrHTTP,
			fmt.Sprintf("GET %s returned status %d", path, resp.StatusCode),
			"Make sure the endpoint is exposed (management.endpoints.web.exposure.include)")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrHTTP,
			fmt.Sprintf("Reading %s response failed", path), "")
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.WrapWithCode(err, errors.ErrDecode,
			fmt.Sprintf("%s returned something that isn't actuator JSON", path),
			"Point base_url at the actuator root, e.g. http://localhost:8080/actuator")
	}
	return nil
}
