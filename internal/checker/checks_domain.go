package checker

import (
	"fmt"
	"sort"
	"strings"
)

const notApplicableToIP = "Check does not apply to IP address hosts"

// BrandCheck fails when the host names a known brand but is not one of its official domains
type BrandCheck struct {
	base
	brands map[string]map[string]bool
	tokens []string
}

// NewBrandCheck creates the brand impersonation check
func NewBrandCheck(weight int, brands map[string][]string) *BrandCheck {
	c := &BrandCheck{
		base:   base{NameBrand, weight},
		brands: make(map[string]map[string]bool, len(brands)),
	}
	for token, domains := range brands {
		token = strings.ToLower(token)
		official := make(map[string]bool, len(domains))
		for _, d := range domains {
			official[strings.ToLower(d)] = true
		}
		c.brands[token] = official
		c.tokens = append(c.tokens, token)
	}
	// map iteration order is random, keep descriptions stable
	sort.Strings(c.tokens)
	return c
}

// Evaluate implements Check
func (c *BrandCheck) Evaluate(u *NormalizedURL, _ Evidence) Result {
	if u.IsIP() {
		return c.warn(notApplicableToIP)
	}

	hostTokens := make(map[string]bool)
	for _, t := range strings.FieldsFunc(u.Host, func(r rune) bool { return r == '.' || r == '-' || r == '_' }) {
		hostTokens[t] = true
	}

	domain := u.RegistrableDomain()
	var owner string
	for _, token := range c.tokens {
		if !hostTokens[token] {
			continue
		}
		if !c.brands[token][domain] {
			return c.fail(fmt.Sprintf("Host mentions %s but %s is not an official %s domain", token, domain, token))
		}
		owner = token
	}

	if owner != "" {
		return c.pass(fmt.Sprintf("Host belongs to %s", owner))
	}
	return c.pass("No brand names impersonated")
}

// SubdomainCheck fails when the host has more labels than allowed
type SubdomainCheck struct {
	base
	maxLabels int
}

// NewSubdomainCheck creates the subdomain count check
func NewSubdomainCheck(weight, maxLabels int) *SubdomainCheck {
	return &SubdomainCheck{base: base{NameSubdomains, weight}, maxLabels: maxLabels}
}

// Evaluate implements Check
func (c *SubdomainCheck) Evaluate(u *NormalizedURL, _ Evidence) Result {
	if u.IsIP() {
		return c.warn(notApplicableToIP)
	}
	if n := len(u.Labels()); n > c.maxLabels {
		return c.fail(fmt.Sprintf("Multiple subdomains (%d labels) may indicate suspicious hosting", n))
	}
	return c.pass("Normal subdomain structure")
}

// TLDCheck fails when the top-level domain or public suffix is on the high-abuse list
type TLDCheck struct {
	base
	suspicious map[string]bool
}

// NewTLDCheck creates the suspicious TLD check
func NewTLDCheck(weight int, tlds []string) *TLDCheck {
	c := &TLDCheck{base: base{NameTLD, weight}, suspicious: make(map[string]bool, len(tlds))}
	for _, t := range tlds {
		c.suspicious[strings.TrimPrefix(strings.ToLower(t), ".")] = true
	}
	return c
}

// Evaluate implements Check
func (c *TLDCheck) Evaluate(u *NormalizedURL, _ Evidence) Result {
	if u.IsIP() {
		return c.warn(notApplicableToIP)
	}
	tld := u.TLD()
	if tld == "" {
		return c.warn("Host has no top-level domain")
	}
	if c.suspicious[tld] {
		return c.fail(fmt.Sprintf("Top-level domain .%s is frequently abused", tld))
	}
	if suffix := u.PublicSuffix(); suffix != tld && c.suspicious[suffix] {
		return c.fail(fmt.Sprintf("Public suffix .%s is frequently abused", suffix))
	}
	return c.pass(fmt.Sprintf("Top-level domain .%s is not on the high-abuse list", tld))
}

// DomainLengthCheck fails when the host is unusually short or long
type DomainLengthCheck struct {
	base
	minLen, maxLen int
}

// NewDomainLengthCheck creates the domain length check
func NewDomainLengthCheck(weight, minLen, maxLen int) *DomainLengthCheck {
	return &DomainLengthCheck{base: base{NameDomainLength, weight}, minLen: minLen, maxLen: maxLen}
}

// Evaluate implements Check
func (c *DomainLengthCheck) Evaluate(u *NormalizedURL, _ Evidence) Result {
	if u.IsIP() {
		return c.warn(notApplicableToIP)
	}
	switch n := len(u.Host); {
	case n < c.minLen:
		return c.fail("Very short domain names are uncommon")
	case n > c.maxLen:
		return c.fail("Very long domain names may be suspicious")
	}
	return c.pass("Domain length appears normal")
}
