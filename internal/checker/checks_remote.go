package checker

import "fmt"

// ThreatFeedCheck reflects the threat-intelligence lookup
type ThreatFeedCheck struct{ base }

// NewThreatFeedCheck creates the global threat database check
func NewThreatFeedCheck(weight int) *ThreatFeedCheck {
	return &ThreatFeedCheck{base{NameThreatFeed, weight}}
}

// Requires implements Remote
func (c *ThreatFeedCheck) Requires() Lookup { return LookupThreatFeed }

// Evaluate implements Check. An unavailable lookup is a warning, never a failure.
func (c *ThreatFeedCheck) Evaluate(_ *NormalizedURL, ev Evidence) Result {
	t := ev.Threat
	if t == nil {
		return c.warn("Threat lookup was not performed")
	}
	if !t.Available() {
		return c.warn(fmt.Sprintf("Threat lookup unavailable (%s)", t.Err))
	}
	if t.Found {
		if t.Detail != "" {
			return c.fail(fmt.Sprintf("URL listed in %s malicious database: %s", t.Source, t.Detail))
		}
		return c.fail(fmt.Sprintf("URL listed in %s malicious database", t.Source))
	}
	return c.pass(fmt.Sprintf("URL not found in %s malicious database", t.Source))
}

// DomainAgeCheck fails for recently registered domains
type DomainAgeCheck struct {
	base
	minDays int
}

// NewDomainAgeCheck creates the domain age check
func NewDomainAgeCheck(weight, minDays int) *DomainAgeCheck {
	return &DomainAgeCheck{base: base{NameDomainAge, weight}, minDays: minDays}
}

// Requires implements Remote
func (c *DomainAgeCheck) Requires() Lookup { return LookupRegistration }

// Evaluate implements Check
func (c *DomainAgeCheck) Evaluate(u *NormalizedURL, ev Evidence) Result {
	if u.IsIP() {
		return c.warn(notApplicableToIP)
	}
	r := ev.Registration
	if r == nil {
		return c.warn("Registration lookup was not performed")
	}
	if !r.Available() {
		return c.warn(fmt.Sprintf("Registration lookup unavailable (%s)", r.Err))
	}
	days := r.AgeDays(ev.now())
	desc := fmt.Sprintf("Domain was registered %d days ago", days)
	if r.Registrar != "" {
		desc += " via " + r.Registrar
	}
	if days < c.minDays {
		return c.fail(desc)
	}
	return c.pass(desc)
}
