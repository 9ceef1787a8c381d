package checker

import (
	"errors"
	"fmt"
)

// ErrEmptyBattery is returned when a battery is built without checks
var ErrEmptyBattery = errors.New("battery has no checks")

// Battery is an ordered registry of independent checks
type Battery struct {
	checks []Check
}

// NewBattery creates a battery from checks, in the given order.
// Check names must be unique and weights non-negative.
func NewBattery(checks ...Check) (*Battery, error) {
	if len(checks) == 0 {
		return nil, ErrEmptyBattery
	}
	seen := make(map[string]bool, len(checks))
	for _, c := range checks {
		if seen[c.Name()] {
			return nil, fmt.Errorf("duplicate check %q", c.Name())
		}
		if c.Weight() < 0 {
			return nil, fmt.Errorf("check %q has negative weight %d", c.Name(), c.Weight())
		}
		seen[c.Name()] = true
	}
	return &Battery{checks: append([]Check(nil), checks...)}, nil
}

// DefaultBattery builds the standard check set from settings
func DefaultBattery(s Settings) (*Battery, error) {
	w := s.Weights
	checks := []Check{
		NewProtocolCheck(w.Protocol),
		NewIPHostCheck(w.IPHost),
		NewKeywordCheck(w.Keywords, s.SuspiciousKeywords, trustedDomains(s)),
		NewBrandCheck(w.Brand, s.Brands),
		NewSubdomainCheck(w.Subdomains, s.MaxHostLabels),
		NewTLDCheck(w.TLD, s.SuspiciousTLDs),
		NewDomainLengthCheck(w.DomainLength, s.MinDomainLength, s.MaxDomainLength),
		NewSpecialCharsCheck(w.SpecialChars),
		NewURLLengthCheck(w.URLLength, s.MaxURLLength),
		NewThreatFeedCheck(w.ThreatFeed),
	}
	if s.DomainAge {
		checks = append(checks, NewDomainAgeCheck(w.DomainAge, s.MinAgeDays))
	}
	return NewBattery(checks...)
}

// trustedDomains merges the explicit trust list with every brand's official domains
func trustedDomains(s Settings) []string {
	out := append([]string(nil), s.TrustedDomains...)
	for _, domains := range s.Brands {
		out = append(out, domains...)
	}
	return out
}

// Checks returns the registered checks in order
func (b *Battery) Checks() []Check {
	return append([]Check(nil), b.checks...)
}

// Requires reports whether any registered check depends on lookup l
func (b *Battery) Requires(l Lookup) bool {
	for _, c := range b.checks {
		if r, ok := c.(Remote); ok && r.Requires() == l {
			return true
		}
	}
	return false
}

// Run evaluates every check in order
func (b *Battery) Run(u *NormalizedURL, ev Evidence) []Result {
	return b.Start(u).Finish(ev)
}

// Pending holds local check results while remote lookups are in flight
type Pending struct {
	battery *Battery
	url     *NormalizedURL
	results []Result
	done    []bool
}

// Start evaluates all checks that need no remote evidence
func (b *Battery) Start(u *NormalizedURL) *Pending {
	p := &Pending{
		battery: b,
		url:     u,
		results: make([]Result, len(b.checks)),
		done:    make([]bool, len(b.checks)),
	}
	for i, c := range b.checks {
		if _, remote := c.(Remote); remote {
			continue
		}
		p.results[i] = c.Evaluate(u, Evidence{})
		p.done[i] = true
	}
	return p
}

// Local returns the results of the checks evaluated by Start, in registry order
func (p *Pending) Local() []Result {
	var out []Result
	for i, r := range p.results {
		if p.done[i] {
			out = append(out, r)
		}
	}
	return out
}

// Finish evaluates the remaining checks with ev and returns all results in registry order
func (p *Pending) Finish(ev Evidence) []Result {
	out := make([]Result, len(p.results))
	for i, c := range p.battery.checks {
		if p.done[i] {
			out[i] = p.results[i]
			continue
		}
		out[i] = c.Evaluate(p.url, ev)
	}
	return out
}
