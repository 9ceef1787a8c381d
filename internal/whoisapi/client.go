package whoisapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/olegrjumin/linkrisk/internal/lookup"
)

// DefaultTimeout bounds a single WHOIS exchange
const DefaultTimeout = 3 * time.Second

// createdLayouts are the creation date formats seen across registries
var createdLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"2006/01/02",
}

// Result holds registration evidence for one registrable domain
type Result struct {
	Domain    string
	CreatedAt time.Time
	Registrar string
	Err       lookup.Kind
	Message   string
	Elapsed   time.Duration
}

// Available reports whether a creation date was obtained
func (r Result) Available() bool {
	return (r.Err == "" || r.Err == lookup.KindNone) && !r.CreatedAt.IsZero()
}

// AgeDays returns the registration age in whole days relative to now
func (r Result) AgeDays(now time.Time) int {
	if r.CreatedAt.IsZero() {
		return 0
	}
	return int(now.Sub(r.CreatedAt).Hours() / 24)
}

// Client performs WHOIS lookups
type Client struct {
	enabled bool
	timeout time.Duration
	query   func(domain string) (string, error)
}

// New creates a new WHOIS client
func New(enabled bool, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	wc := whois.NewClient().SetTimeout(timeout)
	return &Client{
		enabled: enabled,
		timeout: timeout,
		query: func(domain string) (string, error) {
			return wc.Whois(domain)
		},
	}
}

// Lookup queries WHOIS for domain, which should already be the registrable domain.
// The whois library has no context support, so the query runs in its own goroutine and is
// abandoned when ctx or the client timeout expires.
func (c *Client) Lookup(ctx context.Context, domain string) Result {
	start := time.Now()
	result := Result{Domain: domain, Err: lookup.KindNone}

	if !c.enabled {
		result.Err, result.Message = lookup.Classify(lookup.ErrDisabled)
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type answer struct {
		raw string
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		raw, err := c.query(domain)
		ch <- answer{raw: raw, err: err}
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case a := <-ch:
		if a.err != nil {
			err = fmt.Errorf("whois query failed: %w", a.err)
		} else {
			result.CreatedAt, result.Registrar, err = parse(a.raw)
		}
	}

	result.Elapsed = time.Since(start)
	if err != nil {
		if errors.Is(err, whoisparser.ErrNotFoundDomain) {
			result.Err, result.Message = lookup.KindNotFound, "no registration record"
		} else {
			result.Err, result.Message = lookup.Classify(err)
		}
	}
	return result
}

func parse(raw string) (time.Time, string, error) {
	info, err := whoisparser.Parse(raw)
	if err != nil {
		if errors.Is(err, whoisparser.ErrNotFoundDomain) {
			return time.Time{}, "", err
		}
		return time.Time{}, "", &lookup.MalformedError{Reason: "parse whois", Err: err}
	}
	if info.Domain == nil {
		return time.Time{}, "", &lookup.MalformedError{Reason: "no domain section"}
	}

	var registrar string
	if info.Registrar != nil {
		registrar = info.Registrar.Name
	}

	createdStr := strings.TrimSpace(info.Domain.CreatedDate)
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, createdStr); err == nil {
			return t.UTC(), registrar, nil
		}
	}
	return time.Time{}, registrar, &lookup.MalformedError{Reason: "unparseable creation date " + createdStr}
}
