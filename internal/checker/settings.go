package checker

// Check names
const (
	NameProtocol     = "SSL/TLS Encryption"
	NameIPHost       = "IP Address Domain"
	NameKeywords     = "Suspicious Keywords"
	NameBrand        = "Brand Impersonation"
	NameSubdomains   = "Subdomain Count"
	NameTLD          = "Suspicious TLD"
	NameDomainLength = "Domain Length"
	NameSpecialChars = "Special Characters"
	NameURLLength    = "URL Length"
	NameThreatFeed   = "Global Threat Database"
	NameDomainAge    = "Domain Age"
)

// Weights holds the scoring weight of every check
type Weights struct {
	Protocol     int `yaml:"protocol" validate:"gte=0"`
	IPHost       int `yaml:"ip_host" validate:"gte=0"`
	Keywords     int `yaml:"keywords" validate:"gte=0"`
	Brand        int `yaml:"brand" validate:"gte=0"`
	Subdomains   int `yaml:"subdomains" validate:"gte=0"`
	TLD          int `yaml:"tld" validate:"gte=0"`
	DomainLength int `yaml:"domain_length" validate:"gte=0"`
	SpecialChars int `yaml:"special_chars" validate:"gte=0"`
	URLLength    int `yaml:"url_length" validate:"gte=0"`
	ThreatFeed   int `yaml:"threat_feed" validate:"gte=0"`
	DomainAge    int `yaml:"domain_age" validate:"gte=0"`
}

// Sum returns the total of all weights
func (w Weights) Sum() int {
	return w.Protocol + w.IPHost + w.Keywords + w.Brand + w.Subdomains + w.TLD +
		w.DomainLength + w.SpecialChars + w.URLLength + w.ThreatFeed + w.DomainAge
}

// Settings configures the check battery
type Settings struct {
	Weights            Weights
	MaxHostLabels      int
	MaxURLLength       int
	MinDomainLength    int
	MaxDomainLength    int
	SuspiciousTLDs     []string
	SuspiciousKeywords []string
	TrustedDomains     []string
	Brands             map[string][]string // brand token -> official registrable domains
	DomainAge          bool
	MinAgeDays         int
}

// DefaultWeights returns the default weights: high 30, medium 15-20, low 5-10
func DefaultWeights() Weights {
	return Weights{
		Protocol:     30,
		IPHost:       30,
		Keywords:     20,
		Brand:        20,
		Subdomains:   5,
		TLD:          15,
		DomainLength: 5,
		SpecialChars: 10,
		URLLength:    5,
		ThreatFeed:   30,
		DomainAge:    10,
	}
}

// DefaultSettings returns Settings with sensible defaults
func DefaultSettings() Settings {
	return Settings{
		Weights:         DefaultWeights(),
		MaxHostLabels:   4,
		MaxURLLength:    100,
		MinDomainLength: 4,
		MaxDomainLength: 50,
		SuspiciousTLDs: []string{
			"tk", "ml", "ga", "cf", "gq", "xyz", "top", "zip", "mov", "click",
			"country", "kim", "work", "loan", "men", "buzz", "rest", "fit", "cam", "icu",
		},
		SuspiciousKeywords: []string{
			"verify", "confirm", "update", "login", "urgent", "click", "secure", "validate",
			"signin", "account", "banking", "unlock",
		},
		TrustedDomains: []string{
			"github.com", "linkedin.com", "wikipedia.org",
		},
		Brands: map[string][]string{
			"paypal":     {"paypal.com", "paypal.me", "paypalobjects.com"},
			"apple":      {"apple.com", "icloud.com"},
			"icloud":     {"icloud.com", "apple.com"},
			"google":     {"google.com", "googleusercontent.com", "youtube.com", "gmail.com"},
			"microsoft":  {"microsoft.com", "live.com", "office.com", "microsoftonline.com"},
			"office365":  {"office.com", "microsoft.com"},
			"amazon":     {"amazon.com", "amazon.co.uk", "amazon.de", "amazonaws.com"},
			"facebook":   {"facebook.com", "fb.com"},
			"instagram":  {"instagram.com"},
			"netflix":    {"netflix.com"},
			"chase":      {"chase.com"},
			"wellsfargo": {"wellsfargo.com"},
		},
		DomainAge:  false,
		MinAgeDays: 30,
	}
}
