package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// DefaultUserAgent is sent when the caller does not provide one
const DefaultUserAgent = "linkrisk/1.0"

// maxBodySize caps how much of a response body is buffered
const maxBodySize = 1 << 20 // 1MB

// Client wraps http.Client and provides traced requests with buffered bodies
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// TimingInfo holds performance timing information for a request
type TimingInfo struct {
	RequestStart time.Time
	GotFirstByte time.Time
	RequestDone  time.Time
}

// Elapsed returns the wall time between request start and completion
func (t *TimingInfo) Elapsed() time.Duration {
	if t == nil || t.RequestStart.IsZero() {
		return 0
	}
	end := t.RequestDone
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(t.RequestStart)
}

// TTFB returns the time to first response byte, zero if unknown
func (t *TimingInfo) TTFB() time.Duration {
	if t == nil || t.RequestStart.IsZero() || t.GotFirstByte.IsZero() {
		return 0
	}
	return t.GotFirstByte.Sub(t.RequestStart)
}

// Response holds the HTTP response along with timing information
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Timings    *TimingInfo
}

// NewClient creates a new HTTP client with its own pooled transport
// timeout bounds the whole exchange, including reading the body
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Transport: NewTransport(),
			Timeout:   timeout,
			// Feeds answer directly, a redirect means a misconfigured endpoint
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: userAgent,
	}
}

// Do performs an HTTP request with tracing enabled
// The response body is read (up to 1MB) and closed before returning
func (c *Client) Do(ctx context.Context, req *http.Request) (*Response, error) {
	timings := &TimingInfo{
		RequestStart: time.Now(),
	}

	trace := &httptrace.ClientTrace{
		GotFirstResponseByte: func() {
			timings.GotFirstByte = time.Now()
		},
	}

	req = req.WithContext(httptrace.WithClientTrace(ctx, trace))
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	timings.RequestDone = time.Now()

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Timings:    timings,
	}, nil
}
