package checker

import (
	"fmt"
	"net/url"
	"strings"
)

// ProtocolCheck passes when the URL uses https
type ProtocolCheck struct{ base }

// NewProtocolCheck creates the SSL/TLS encryption check
func NewProtocolCheck(weight int) *ProtocolCheck {
	return &ProtocolCheck{base{NameProtocol, weight}}
}

// Evaluate implements Check
func (c *ProtocolCheck) Evaluate(u *NormalizedURL, _ Evidence) Result {
	if u.Scheme == SchemeHTTPS {
		return c.pass("URL uses secure HTTPS protocol")
	}
	return c.fail("URL uses unencrypted HTTP protocol")
}

// IPHostCheck fails when the host is an IP literal
type IPHostCheck struct{ base }

// NewIPHostCheck creates the IP address domain check
func NewIPHostCheck(weight int) *IPHostCheck {
	return &IPHostCheck{base{NameIPHost, weight}}
}

// Evaluate implements Check
func (c *IPHostCheck) Evaluate(u *NormalizedURL, _ Evidence) Result {
	if !u.IsIP() {
		return c.pass("Uses standard domain name")
	}
	if u.IP().String() != u.Host {
		return c.fail(fmt.Sprintf("Host is an obfuscated IP address (%s); direct IP addresses are often used in phishing", u.IP()))
	}
	return c.fail("Direct IP addresses are often used in phishing")
}

// SpecialCharsCheck fails on punycode labels, underscores and embedded user info
type SpecialCharsCheck struct{ base }

// NewSpecialCharsCheck creates the special characters check
func NewSpecialCharsCheck(weight int) *SpecialCharsCheck {
	return &SpecialCharsCheck{base{NameSpecialChars, weight}}
}

// Evaluate implements Check
func (c *SpecialCharsCheck) Evaluate(u *NormalizedURL, _ Evidence) Result {
	if u.User != "" {
		return c.fail("URL embeds user info before the host, a common trick to disguise the real destination")
	}
	if u.IsIP() {
		return c.pass("No suspicious characters in host")
	}
	for _, label := range u.Labels() {
		if strings.HasPrefix(label, "xn--") {
			return c.fail("Domain uses internationalized characters that can imitate other domains")
		}
	}
	if strings.Contains(u.Host, "_") {
		return c.fail("Domain contains suspicious special characters")
	}
	return c.pass("No suspicious characters in domain")
}

// URLLengthCheck fails when the canonical URL is longer than a limit
type URLLengthCheck struct {
	base
	maxLen int
}

// NewURLLengthCheck creates the URL length check
func NewURLLengthCheck(weight, maxLen int) *URLLengthCheck {
	return &URLLengthCheck{base: base{NameURLLength, weight}, maxLen: maxLen}
}

// Evaluate implements Check
func (c *URLLengthCheck) Evaluate(u *NormalizedURL, _ Evidence) Result {
	if n := len(u.String()); n > c.maxLen {
		return c.fail(fmt.Sprintf("Very long URLs may contain hidden parameters (%d characters)", n))
	}
	return c.pass("URL length is reasonable")
}

// KeywordCheck fails when phishing keywords appear in the host, path or query of an untrusted domain
type KeywordCheck struct {
	base
	keywords []string
	trusted  map[string]bool
}

// NewKeywordCheck creates the suspicious keyword check
func NewKeywordCheck(weight int, keywords, trusted []string) *KeywordCheck {
	c := &KeywordCheck{
		base:    base{NameKeywords, weight},
		trusted: make(map[string]bool, len(trusted)),
	}
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			c.keywords = append(c.keywords, k)
		}
	}
	for _, d := range trusted {
		c.trusted[strings.ToLower(d)] = true
	}
	return c
}

// Evaluate implements Check
func (c *KeywordCheck) Evaluate(u *NormalizedURL, _ Evidence) Result {
	query, err := url.QueryUnescape(u.RawQuery)
	if err != nil {
		query = u.RawQuery
	}
	haystack := u.Host + " " + strings.ToLower(u.Path) + " " + strings.ToLower(query)
	var found []string
	for _, k := range c.keywords {
		if strings.Contains(haystack, k) {
			found = append(found, k)
		}
	}

	if len(found) == 0 {
		return c.pass("No common phishing keywords detected")
	}

	domain := u.RegistrableDomain()
	if !u.IsIP() && c.trusted[domain] {
		return c.pass(fmt.Sprintf("Keywords appear on trusted domain %s", domain))
	}

	noun := "keyword"
	if len(found) > 1 {
		noun = "keywords"
	}
	return c.fail(fmt.Sprintf("Found %d common phishing %s (%s)", len(found), noun, strings.Join(found, ", ")))
}
