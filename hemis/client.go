package hemis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Resource paths under the HEMIS data API
const (
	StudentInfoPath    = "student-info"
	StudentSubjectPath = "student-subject-list"
	SubjectExamPath    = "subject-exam-list"
)

// Client talks to the HEMIS REST API. Requests are issued one at a time and
// spaced at least Delay apart.
type Client struct {
	baseURL   string
	token     string
	pageLimit int
	http      *http.Client
	limiter   *rate.Limiter
	cache     StudentCache
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithStudentCache puts cache in front of student-info lookups
func WithStudentCache(cache StudentCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithPageLimit sets the page size sent as "limit"
func WithPageLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.pageLimit = limit
		}
	}
}

// NewClient creates a client for baseURL authenticated with token.
// delay is the minimum gap between two requests; zero disables throttling.
func NewClient(baseURL, token string, delay time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		pageLimit: DefaultPageLimit,
		http:      http.DefaultClient,
		limiter:   newLimiter(delay),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// StatusError is returned for any non-200 response
type StatusError struct {
	Resource   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Resource, e.StatusCode)
}

// getJSON performs a throttled GET on resource and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, resource string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	endpoint := c.baseURL + "/" + resource
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("error building %s request: %w", resource, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error requesting %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Resource: resource, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding %s response: %w", resource, err)
	}
	return nil
}
