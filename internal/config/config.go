package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/olegrjumin/linkrisk/internal/checker"
	"github.com/olegrjumin/linkrisk/internal/logging"
	"github.com/olegrjumin/linkrisk/internal/service"
	"github.com/olegrjumin/linkrisk/internal/threatintel"
	"github.com/olegrjumin/linkrisk/internal/whoisapi"
)

// AppName is used for the config directory and default file names
const AppName = "linkrisk"

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	ThreatFeed ThreatFeedConfig `yaml:"threat_feed"`
	Whois      WhoisConfig      `yaml:"whois"`
	Checks     ChecksConfig     `yaml:"checks"`
	Verdict    VerdictConfig    `yaml:"verdict"`

	// Source is the YAML file the configuration was read from, empty for none
	Source string `yaml:"-"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	AnalysisTimeout time.Duration `yaml:"analysis_timeout" validate:"gt=0"`
}

// LogConfig configures logging output
type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=console json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
}

// ThreatFeedConfig configures the URLhaus compatible threat feed
type ThreatFeedConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Endpoint  string        `yaml:"endpoint" validate:"required_if=Enabled true,omitempty,url"`
	AuthKey   string        `yaml:"auth_key"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	UserAgent string        `yaml:"user_agent"`
	Source    string        `yaml:"source"`
}

// WhoisConfig configures the optional domain age check
type WhoisConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
	MinAgeDays int           `yaml:"min_age_days" validate:"gte=0"`
}

// ChecksConfig configures the heuristic checks
type ChecksConfig struct {
	Weights            checker.Weights     `yaml:"weights"`
	MaxHostLabels      int                 `yaml:"max_host_labels" validate:"gte=1"`
	MaxURLLength       int                 `yaml:"max_url_length" validate:"gte=1"`
	MinDomainLength    int                 `yaml:"min_domain_length" validate:"gte=0"`
	MaxDomainLength    int                 `yaml:"max_domain_length" validate:"gtefield=MinDomainLength"`
	SuspiciousTLDs     []string            `yaml:"suspicious_tlds" validate:"dive,required"`
	SuspiciousKeywords []string            `yaml:"suspicious_keywords" validate:"dive,required"`
	TrustedDomains     []string            `yaml:"trusted_domains" validate:"dive,required"`
	Brands             map[string][]string `yaml:"brands" validate:"dive,keys,required,endkeys,min=1,dive,required"`
}

// VerdictConfig holds the verdict band thresholds
type VerdictConfig struct {
	SafeMin  int `yaml:"safe_min" validate:"gte=0,lte=100,gtfield=RiskyMin"`
	RiskyMin int `yaml:"risky_min" validate:"gte=0,lte=100"`
}

// Default returns the built-in configuration
func Default() *Config {
	s := checker.DefaultSettings()
	th := service.DefaultThresholds()
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			AnalysisTimeout: service.DefaultTimeout,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     logging.FormatConsole,
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
		ThreatFeed: ThreatFeedConfig{
			Enabled:  true,
			Endpoint: threatintel.DefaultEndpoint,
			Timeout:  threatintel.DefaultTimeout,
			Source:   threatintel.DefaultSource,
		},
		Whois: WhoisConfig{
			Enabled:    false,
			Timeout:    whoisapi.DefaultTimeout,
			MinAgeDays: s.MinAgeDays,
		},
		Checks: ChecksConfig{
			Weights:            s.Weights,
			MaxHostLabels:      s.MaxHostLabels,
			MaxURLLength:       s.MaxURLLength,
			MinDomainLength:    s.MinDomainLength,
			MaxDomainLength:    s.MaxDomainLength,
			SuspiciousTLDs:     s.SuspiciousTLDs,
			SuspiciousKeywords: s.SuspiciousKeywords,
			TrustedDomains:     s.TrustedDomains,
			Brands:             s.Brands,
		},
		Verdict: VerdictConfig{
			SafeMin:  th.SafeMin,
			RiskyMin: th.RiskyMin,
		},
	}
}

// ConfigDir returns the per-user config directory, e.g. ~/.config/linkrisk on Linux
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// CheckSettings converts the checks section into checker settings
func (c *Config) CheckSettings() checker.Settings {
	return checker.Settings{
		Weights:            c.Checks.Weights,
		MaxHostLabels:      c.Checks.MaxHostLabels,
		MaxURLLength:       c.Checks.MaxURLLength,
		MinDomainLength:    c.Checks.MinDomainLength,
		MaxDomainLength:    c.Checks.MaxDomainLength,
		SuspiciousTLDs:     c.Checks.SuspiciousTLDs,
		SuspiciousKeywords: c.Checks.SuspiciousKeywords,
		TrustedDomains:     c.Checks.TrustedDomains,
		Brands:             c.Checks.Brands,
		DomainAge:          c.Whois.Enabled,
		MinAgeDays:         c.Whois.MinAgeDays,
	}
}

// ThreatFeedOptions converts the threat_feed section into client options
func (c *Config) ThreatFeedOptions() threatintel.Options {
	return threatintel.Options{
		Enabled:   c.ThreatFeed.Enabled,
		Endpoint:  c.ThreatFeed.Endpoint,
		AuthKey:   c.ThreatFeed.AuthKey,
		Source:    c.ThreatFeed.Source,
		Timeout:   c.ThreatFeed.Timeout,
		UserAgent: c.ThreatFeed.UserAgent,
	}
}

// ServiceOptions converts the verdict section and analysis timeout into service options
func (c *Config) ServiceOptions() service.Options {
	return service.Options{
		Thresholds: service.Thresholds{SafeMin: c.Verdict.SafeMin, RiskyMin: c.Verdict.RiskyMin},
		Timeout:    c.Server.AnalysisTimeout,
	}
}

// LoggingOptions converts the log section into logger options
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}
