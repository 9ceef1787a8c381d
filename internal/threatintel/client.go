package threatintel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegrjumin/linkrisk/internal/httpclient"
	"github.com/olegrjumin/linkrisk/internal/lookup"
)

// Defaults for the URLhaus feed
const (
	DefaultEndpoint = "https://urlhaus-api.abuse.ch/v1/url/"
	DefaultSource   = "abuse.ch URLhaus"
	DefaultTimeout  = 3 * time.Second
)

// Options configures the threat feed client
type Options struct {
	Enabled   bool
	Endpoint  string
	AuthKey   string
	Source    string
	Timeout   time.Duration
	UserAgent string
}

// Client queries a URLhaus compatible reputation feed
type Client struct {
	enabled    bool
	endpoint   string
	authKey    string
	source     string
	timeout    time.Duration
	httpClient *httpclient.Client
}

// Result is the outcome of one lookup. It never outlives the analysis that requested it.
// Err is lookup.KindNone when the feed answered; otherwise Found is false.
type Result struct {
	Found   bool
	Source  string
	Detail  string
	Err     lookup.Kind
	Message string
	Elapsed time.Duration
	TTFB    time.Duration // time to first response byte, zero when no response arrived
}

// Available reports whether the feed produced a usable answer
func (r Result) Available() bool {
	return r.Err == "" || r.Err == lookup.KindNone
}

// urlhausResponse is the subset of the URLhaus url endpoint response we use
type urlhausResponse struct {
	QueryStatus string   `json:"query_status"`
	URLStatus   string   `json:"url_status"`
	Threat      string   `json:"threat"`
	Tags        []string `json:"tags"`
}

// New creates a new threat feed client
func New(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		enabled:    opts.Enabled,
		endpoint:   opts.Endpoint,
		authKey:    opts.AuthKey,
		source:     opts.Source,
		timeout:    opts.Timeout,
		httpClient: httpclient.NewClient(opts.Timeout, opts.UserAgent),
	}
}

// Source returns the feed name reported in results
func (c *Client) Source() string {
	return c.source
}

// Lookup performs a single bounded lookup for targetURL.
// Failures are absorbed into the returned Result, there are no retries.
func (c *Client) Lookup(ctx context.Context, targetURL string) Result {
	start := time.Now()

	found, detail, timings, err := c.query(ctx, targetURL)
	result := Result{
		Found:   found,
		Source:  c.source,
		Detail:  detail,
		Err:     lookup.KindNone,
		Elapsed: time.Since(start),
	}
	if timings != nil {
		result.Elapsed = timings.Elapsed()
		result.TTFB = timings.TTFB()
	}
	if err != nil {
		result.Found = false
		result.Detail = ""
		result.Err, result.Message = lookup.Classify(err)
	}
	return result
}

func (c *Client) query(ctx context.Context, targetURL string) (bool, string, *httpclient.TimingInfo, error) {
	if !c.enabled {
		return false, "", nil, lookup.ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("url", targetURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, "", nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.authKey != "" {
		req.Header.Set("Auth-Key", c.authKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return false, "", nil, fmt.Errorf("failed to call threat feed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, "", resp.Timings, &lookup.StatusError{Code: resp.StatusCode}
	}

	var body urlhausResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return false, "", resp.Timings, &lookup.MalformedError{Reason: "decode body", Err: err}
	}

	switch body.QueryStatus {
	case "ok":
		return true, describe(body), resp.Timings, nil
	case "no_results":
		return false, "", resp.Timings, nil
	case "":
		return false, "", resp.Timings, &lookup.MalformedError{Reason: "missing query_status"}
	default:
		return false, "", resp.Timings, &lookup.MalformedError{Reason: "query_status " + body.QueryStatus}
	}
}

// describe builds the detail string for a listed URL, e.g. "malware_download (online)"
func describe(body urlhausResponse) string {
	threat := body.Threat
	if threat == "" {
		threat = "malware"
	}
	if body.URLStatus != "" {
		return fmt.Sprintf("%s (%s)", threat, body.URLStatus)
	}
	return threat
}
