// Package jdapi talks to the job-description listing endpoint.
package jdapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"job-board/internal/model"
)

const (
	// DefaultEndpoint is the public sample listing service.
	DefaultEndpoint = "https://api.weekday.technology/adhoc/getSampleJdJSON"

	DefaultUserAgent = "job-board"

	// maxErrorBody caps how much of a failed response is kept in the error.
	maxErrorBody = 512
)

// Client fetches pages of job records. The zero timeout leaves the transport
// default in place; one call is one attempt.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
	validate   *validator.Validate
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout bounds each request. Zero keeps the transport default. It sets
// the timeout on a copy of the current client, keeping its transport.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMinInterval spaces consecutive requests at least d apart.
func WithMinInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = strings.TrimSpace(ua)
		}
	}
}

// NewClient creates a client for endpoint, falling back to DefaultEndpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		validate:   validator.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

type pageRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type pageResponse struct {
	JDList     *[]model.Job `json:"jdList"`
	TotalCount int          `json:"totalCount"`
}

// FetchPage requests page (1-based) of pageSize records. Every failure comes
// back as a *FetchError.
func (c *Client) FetchPage(ctx context.Context, page, pageSize int) (model.Page, error) {
	if page < 1 {
		return model.Page{}, &FetchError{Page: page, Err: fmt.Errorf("page must be >= 1")}
	}
	if pageSize < 1 {
		return model.Page{}, &FetchError{Page: page, Err: fmt.Errorf("page size must be >= 1")}
	}

	requestID := uuid.NewString()
	started := time.Now()

	out, err := c.fetch(ctx, requestID, page, pageSize)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn().
				Err(err).
				Str("request_id", requestID).
				Int("page", page).
				Dur("elapsed", time.Since(started)).
				Msg("Job page fetch failed")
		}
		return model.Page{}, &FetchError{Page: page, Err: err}
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("request_id", requestID).
			Int("page", page).
			Int("jobs", len(out.Jobs)).
			Int("total_count", out.TotalCount).
			Dur("elapsed", time.Since(started)).
			Msg("Job page fetched")
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, requestID string, page, pageSize int) (model.Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.Page{}, fmt.Errorf("wait for request slot: %w", err)
	}

	body, err := json.Marshal(pageRequest{Limit: pageSize, Offset: (page - 1) * pageSize})
	if err != nil {
		return model.Page{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Page{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Page{}, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return model.Page{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var payload pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.Page{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.JDList == nil {
		return model.Page{}, fmt.Errorf("decode response: missing jdList")
	}

	jobs := make([]model.Job, 0, len(*payload.JDList))
	for i, job := range *payload.JDList {
		if err := c.validate.Struct(job); err != nil {
			if c.logger != nil {
				c.logger.Warn().
					Err(err).
					Str("request_id", requestID).
					Int("page", page).
					Int("index", i).
					Msg("Dropping job record without identity")
			}
			continue
		}
		jobs = append(jobs, job)
	}
	return model.Page{Jobs: jobs, Received: len(*payload.JDList), TotalCount: payload.TotalCount}, nil
}
