package checker

import (
	"net"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// Scheme constants
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// maxHostLength is the DNS limit for a full host name
const maxHostLength = 253

// NormalizedURL is the canonical, parsed form of an analyzed URL
type NormalizedURL struct {
	Scheme   string            // "http" or "https"
	Host     string            // lower-case ASCII host, IPv6 without brackets
	Port     int               // 0 when absent or equal to the scheme default
	Path     string            // escaped path, may be empty
	Query    map[string]string // first value of each query parameter
	RawQuery string            // encoded query, kept for the canonical string
	User     string            // user name when the URL embeds user info
	Raw      string            // original input

	ip netip.Addr
}

// Normalize parses raw into a NormalizedURL.
// A missing scheme defaults to https. Only http and https are accepted.
func Normalize(raw string) (*NormalizedURL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, invalid(raw, "empty URL")
	}
	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return nil, invalid(raw, "URL contains whitespace or control characters")
	}

	s = withScheme(s)
	if s == "" {
		return nil, invalid(raw, "unsupported or malformed scheme")
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return nil, invalid(raw, "cannot parse URL")
	}
	if parsed.Opaque != "" {
		return nil, invalid(raw, "cannot parse URL")
	}

	host, err := normalizeHost(parsed.Hostname())
	if err != nil {
		return nil, invalid(raw, err.Error())
	}

	n := &NormalizedURL{
		Scheme:   strings.ToLower(parsed.Scheme),
		Host:     host,
		Path:     parsed.EscapedPath(),
		Query:    firstValues(parsed.Query()),
		RawQuery: parsed.RawQuery,
		Raw:      raw,
	}
	if addr, ok := parseIP(host); ok {
		n.ip = addr
	}

	if p := parsed.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return nil, invalid(raw, "invalid port")
		}
		if !isDefaultPort(n.Scheme, port) {
			n.Port = port
		}
	}

	if parsed.User != nil {
		n.User = parsed.User.Username()
		if n.User == "" {
			n.User = "-"
		}
	}

	return n, nil
}

// withScheme lower-cases a known scheme or prepends https://.
// Returns "" when the input names any other scheme or a malformed http one
// (e.g. "http:/example.com", "mailto:a@example.com").
func withScheme(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "https://"):
		return SchemeHTTPS + s[len("https"):]
	case strings.HasPrefix(lower, "http://"):
		return SchemeHTTP + s[len("http"):]
	case strings.HasPrefix(s, "//"):
		return SchemeHTTPS + ":" + s
	}
	// "example.com:8443/x" looks like a scheme but is host:port
	if i := schemeEnd(s); i > 0 && !hasPortPrefix(s[i+1:]) {
		return ""
	}
	return SchemeHTTPS + "://" + s
}

// schemeEnd returns the index of the colon closing a leading URI scheme, or -1
func schemeEnd(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		case i > 0 && c == ':':
			return i
		default:
			return -1
		}
	}
	return -1
}

// hasPortPrefix reports whether s starts with a port number ending at /, ?, # or the end
func hasPortPrefix(s string) bool {
	end := strings.IndexAny(s, "/?#")
	if end < 0 {
		end = len(s)
	}
	if end == 0 {
		return false
	}
	for i := 0; i < end; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func normalizeHost(h string) (string, error) {
	h = strings.TrimSuffix(strings.ToLower(h), ".")
	if h == "" {
		return "", errString("missing host")
	}

	if addr, err := netip.ParseAddr(h); err == nil {
		if addr.Zone() != "" {
			return "", errString("IPv6 zone identifiers are not allowed")
		}
		return addr.Unmap().String(), nil
	}

	if !isASCII(h) {
		ascii, err := idna.Lookup.ToASCII(h)
		if err != nil {
			return "", errString("host contains invalid characters")
		}
		h = ascii
	}

	if len(h) > maxHostLength {
		return "", errString("host name too long")
	}
	for _, label := range strings.Split(h, ".") {
		if !validLabel(label) {
			return "", errString("host contains invalid characters")
		}
	}
	return h, nil
}

func validLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isDefaultPort(scheme string, port int) bool {
	return (scheme == SchemeHTTPS && port == 443) || (scheme == SchemeHTTP && port == 80)
}

func firstValues(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			out[k] = vals[0]
		} else {
			out[k] = ""
		}
	}
	return out
}

// parseIP recognizes IP literals, including the shorthand IPv4 forms browsers
// still resolve: 3232235777, 0xC0A80101, 127.1, 0x7f.0.0.1, 0300.0250.0.1.
func parseIP(host string) (netip.Addr, bool) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr, true
	}
	return parseLooseIPv4(host)
}

// parseLooseIPv4 accepts 1 to 4 dot-separated numbers, each decimal, 0x hex or
// 0-prefixed octal. Every part but the last is one byte; the last fills the rest.
func parseLooseIPv4(host string) (netip.Addr, bool) {
	parts := strings.Split(host, ".")
	if len(parts) > 4 {
		return netip.Addr{}, false
	}

	var n uint64
	for i, p := range parts {
		v, ok := parseIPv4Part(p)
		if !ok {
			return netip.Addr{}, false
		}
		if i < len(parts)-1 {
			if v > 0xff {
				return netip.Addr{}, false
			}
			n = n<<8 | v
			continue
		}
		bits := 8 * uint(5-len(parts))
		if v >= 1<<bits {
			return netip.Addr{}, false
		}
		n = n<<bits | v
	}
	return netip.AddrFrom4([4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}), true
}

func parseIPv4Part(p string) (uint64, bool) {
	base := 10
	switch {
	case p == "":
		return 0, false
	case strings.HasPrefix(p, "0x"):
		p, base = p[2:], 16
		if p == "" {
			return 0, true
		}
	case len(p) > 1 && p[0] == '0':
		p, base = p[1:], 8
	}
	v, err := strconv.ParseUint(p, base, 32)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsIP reports whether the host is an IP literal rather than a domain name
func (u *NormalizedURL) IsIP() bool {
	return u.ip.IsValid()
}

// IP returns the host address when the host is an IP literal
func (u *NormalizedURL) IP() netip.Addr {
	return u.ip
}

// Labels returns the dot-separated host labels
func (u *NormalizedURL) Labels() []string {
	return strings.Split(u.Host, ".")
}

// RegistrableDomain returns eTLD+1 (e.g. "example.co.uk"), or the host itself
// when it has none (single-label hosts, bare public suffixes, IP literals)
func (u *NormalizedURL) RegistrableDomain() string {
	if u.IsIP() {
		return u.Host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(u.Host)
	if err != nil {
		return u.Host
	}
	return d
}

// PublicSuffix returns the public suffix of the host (e.g. "co.uk"), "" for IP hosts
func (u *NormalizedURL) PublicSuffix() string {
	if u.IsIP() {
		return ""
	}
	suffix, _ := publicsuffix.PublicSuffix(u.Host)
	return suffix
}

// TLD returns the last host label, "" for IP and single-label hosts
func (u *NormalizedURL) TLD() string {
	if u.IsIP() {
		return ""
	}
	i := strings.LastIndexByte(u.Host, '.')
	if i < 0 {
		return ""
	}
	return u.Host[i+1:]
}

// String returns the canonical URL. Normalizing it again yields an equal value.
func (u *NormalizedURL) String() string {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != "" {
		b.WriteString(url.User(u.User).String())
		b.WriteByte('@')
	}
	host := u.Host
	if u.ip.Is6() {
		host = "[" + host + "]"
	}
	if u.Port != 0 {
		host = net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(u.Port))
	}
	b.WriteString(host)
	b.WriteString(u.Path)
	if u.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(u.RawQuery)
	}
	return b.String()
}

type errString string

func (e errString) Error() string { return string(e) }
