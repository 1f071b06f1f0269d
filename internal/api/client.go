// Package api is the HTTP client for the release archive backend.
//
// Every call takes a context; the caller owns deadlines. The client only
// decodes envelopes. Per-record normalization happens in package normalize.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/merge"
	"github.com/abelbrown/releasebase/internal/normalize"
	"github.com/abelbrown/releasebase/internal/stats"
)

const (
	// DefaultPerPage is the single bulk page size requested per tab.
	DefaultPerPage = 1000
	// DefaultPeopleLimit is the number of person facets requested.
	DefaultPeopleLimit = 50

	maxBodyBytes = 64 << 20
	userAgent    = "releasebase/1.0"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: %s returned status %d", e.Path, e.Code)
	}
	return fmt.Sprintf("api: %s returned status %d: %s", e.Path, e.Code, e.Body)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRate limits outgoing requests to rps with the given burst.
// rps <= 0 disables limiting.
func WithRate(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// Client talks to one backend.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a Client for baseURL. An empty baseURL means same-origin
// relative paths, which only makes sense behind a proxy; callers normally
// pass the configured API URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 4),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Stats fetches GET /api/stats.
func (c *Client) Stats(ctx context.Context) (stats.Response, error) {
	var r stats.Response
	if err := c.getJSON(ctx, "/api/stats", nil, &r); err != nil {
		return stats.Response{}, err
	}
	return r, nil
}

type rawPerson struct {
	ID       normalize.FlexString `json:"id"`
	Name     string               `json:"name"`
	DocCount int                  `json:"doc_count"`
}

// People fetches the image person facets, most documents first.
// A body that is not a JSON array yields an empty list.
func (c *Client) People(ctx context.Context, limit int) ([]catalog.PersonFacet, error) {
	if limit <= 0 {
		limit = DefaultPeopleLimit
	}
	q := url.Values{}
	q.Set("type", string(catalog.TypeImage))
	q.Set("limit", strconv.Itoa(limit))

	var body json.RawMessage
	if err := c.getJSON(ctx, "/api/people", q, &body); err != nil {
		return nil, err
	}

	var raw []rawPerson
	if err := json.Unmarshal(body, &raw); err != nil {
		return []catalog.PersonFacet{}, nil
	}

	people := make([]catalog.PersonFacet, 0, len(raw))
	for _, p := range raw {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		people = append(people, catalog.PersonFacet{ID: string(p.ID), Name: p.Name, DocCount: p.DocCount})
	}
	return people, nil
}

// DocumentsRequest is one bulk documents query.
type DocumentsRequest struct {
	Type       catalog.Type
	Flightlogs *bool
	Page       int
	PerPage    int
}

// RequestFor builds the bulk request for tab.
func RequestFor(tab catalog.Tab) DocumentsRequest {
	req := DocumentsRequest{Type: tab.FetchType(), Page: 1, PerPage: DefaultPerPage}
	if v, ok := tab.FlightlogsFlag(); ok {
		req.Flightlogs = &v
	}
	return req
}

// Values encodes the request as query parameters.
func (r DocumentsRequest) Values() url.Values {
	q := url.Values{}
	if r.Type != "" {
		q.Set("type", string(r.Type))
	}
	page := r.Page
	if page < 1 {
		page = 1
	}
	perPage := r.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	if r.Flightlogs != nil {
		q.Set("flightlogs", strconv.FormatBool(*r.Flightlogs))
	}
	return q
}

type documentsEnvelope struct {
	Results []json.RawMessage `json:"results"`
	Total   int               `json:"total"`
}

// Documents fetches one bulk page and returns the raw records undecoded, so
// a malformed record can be skipped without losing the rest.
func (c *Client) Documents(ctx context.Context, req DocumentsRequest) ([]json.RawMessage, error) {
	var env documentsEnvelope
	if err := c.getJSON(ctx, "/api/documents", req.Values(), &env); err != nil {
		return nil, err
	}
	if env.Results == nil {
		return []json.RawMessage{}, nil
	}
	return env.Results, nil
}

// Document fetches a single record with full detail.
func (c *Client) Document(ctx context.Context, id string) (json.RawMessage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("api: empty document id")
	}
	var body json.RawMessage
	if err := c.getJSON(ctx, "/api/documents/"+url.PathEscape(id), nil, &body); err != nil {
		return nil, err
	}
	return body, nil
}

// Manifest fetches the static curated listing.
func (c *Client) Manifest(ctx context.Context) (merge.Manifest, error) {
	var m merge.Manifest
	if err := c.getJSON(ctx, "/curated/manifest.json", nil, &m); err != nil {
		return merge.Manifest{}, err
	}
	return m, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("api: rate limiter wait failed: %w", err)
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("api: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("api: %s cancelled: %w", path, ctx.Err())
		}
		return fmt.Errorf("api: %s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("api: %s cancelled: %w", path, ctx.Err())
		}
		return fmt.Errorf("api: failed to read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Path: path, Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: failed to decode %s: %w", path, err)
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// IsTimeout reports whether err came from an exceeded deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
