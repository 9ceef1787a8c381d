package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegrjumin/linkrisk/internal/checker"
	"github.com/olegrjumin/linkrisk/internal/threatintel"
)

// testLoader isolates a Loader from the process environment and the user's files
func testLoader(t *testing.T, env map[string]string) Loader {
	t.Helper()
	dir := t.TempDir()
	return Loader{
		EnvFile:   filepath.Join(dir, ".env"),
		WorkDir:   dir,
		ConfigDir: filepath.Join(dir, "xdg"),
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.ThreatFeed.Enabled)
	assert.Equal(t, threatintel.DefaultEndpoint, cfg.ThreatFeed.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.ThreatFeed.Timeout)
	assert.False(t, cfg.Whois.Enabled)
	assert.Equal(t, 80, cfg.Verdict.SafeMin)
	assert.Equal(t, 40, cfg.Verdict.RiskyMin)
	assert.Equal(t, checker.DefaultWeights(), cfg.Checks.Weights)
	assert.NoError(t, cfg.Validate())
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := testLoader(t, nil).Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.Source)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestLoadYAMLFile(t *testing.T) {
	l := testLoader(t, nil)
	writeFile(t, filepath.Join(l.WorkDir, DefaultConfigFile), `
server:
  port: 9090
  shutdown_timeout: 5s
log:
  level: debug
  format: json
threat_feed:
  timeout: 1500ms
  auth_key: secret
checks:
  weights:
    tld: 25
  max_url_length: 120
  suspicious_tlds: [tk, zip]
  brands:
    acme: [acme.com]
verdict:
  safe_min: 85
  risky_min: 50
`)

	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(l.WorkDir, DefaultConfigFile), cfg.Source)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 1500*time.Millisecond, cfg.ThreatFeed.Timeout)
	assert.Equal(t, "secret", cfg.ThreatFeed.AuthKey)
	assert.Equal(t, 25, cfg.Checks.Weights.TLD)
	assert.Equal(t, 30, cfg.Checks.Weights.Protocol, "unset weights keep their defaults")
	assert.Equal(t, 120, cfg.Checks.MaxURLLength)
	assert.Equal(t, []string{"tk", "zip"}, cfg.Checks.SuspiciousTLDs)
	assert.Equal(t, map[string][]string{"acme": {"acme.com"}}, cfg.Checks.Brands)
	assert.Equal(t, 85, cfg.Verdict.SafeMin)

	opts := cfg.ServiceOptions()
	assert.Equal(t, 85, opts.Thresholds.SafeMin)
	assert.Equal(t, 50, opts.Thresholds.RiskyMin)
}

func TestLoadUserConfigDir(t *testing.T) {
	l := testLoader(t, nil)
	path := filepath.Join(l.ConfigDir, UserConfigFile)
	writeFile(t, path, "server:\n  port: 7000\n")

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoadWorkDirWinsOverUserDir(t *testing.T) {
	l := testLoader(t, nil)
	writeFile(t, filepath.Join(l.ConfigDir, UserConfigFile), "server:\n  port: 7000\n")
	writeFile(t, filepath.Join(l.WorkDir, DefaultConfigFile), "server:\n  port: 7001\n")

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestLoadExplicitPath(t *testing.T) {
	l := testLoader(t, nil)
	l.Path = filepath.Join(l.WorkDir, "custom.yaml")
	writeFile(t, l.Path, "server:\n  port: 6000\n")

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 6000, cfg.Server.Port)

	l.Path = filepath.Join(l.WorkDir, "missing.yaml")
	_, err = l.Load()
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "from-env.yaml")
	writeFile(t, path, "server:\n  port: 6500\n")

	cfg, err := testLoader(t, map[string]string{ConfigPathEnv: path}).Load()
	require.NoError(t, err)
	assert.Equal(t, 6500, cfg.Server.Port)
}

func TestLoadEnvOverrides(t *testing.T) {
	l := testLoader(t, map[string]string{
		"PORT":                  "9999",
		"LOG_LEVEL":             "WARN",
		"LOG_FORMAT":            "json",
		"URLHAUS_API_URL":       "http://feed.local/v1/url/",
		"URLHAUS_AUTH_KEY":      "key",
		"THREAT_LOOKUP_TIMEOUT": "750",
		"THREAT_FEED_ENABLED":   "false",
		"WHOIS_ENABLED":         "true",
		"WHOIS_TIMEOUT":         "2000",
	})
	writeFile(t, filepath.Join(l.WorkDir, DefaultConfigFile), "server:\n  port: 7000\n")

	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "http://feed.local/v1/url/", cfg.ThreatFeed.Endpoint)
	assert.Equal(t, 750*time.Millisecond, cfg.ThreatFeed.Timeout)
	assert.False(t, cfg.ThreatFeed.Enabled)
	assert.True(t, cfg.Whois.Enabled)
	assert.Equal(t, 2*time.Second, cfg.Whois.Timeout)

	opts := cfg.ThreatFeedOptions()
	assert.Equal(t, "key", opts.AuthKey)
	assert.False(t, opts.Enabled)
	assert.True(t, cfg.CheckSettings().DomainAge)
}

func TestLoadDotEnv(t *testing.T) {
	l := testLoader(t, map[string]string{"PORT": "9001"})
	writeFile(t, l.EnvFile, "PORT=9000\nLOG_FORMAT=json\n")

	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Server.Port, ".env never overrides the real environment")
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadBadEnvValues(t *testing.T) {
	_, err := testLoader(t, map[string]string{
		"PORT":                  "eighty",
		"THREAT_FEED_ENABLED":   "maybe",
		"THREAT_LOOKUP_TIMEOUT": "3s",
	}).Load()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Problems, 3)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadUnknownYAMLKey(t *testing.T) {
	l := testLoader(t, nil)
	writeFile(t, filepath.Join(l.WorkDir, DefaultConfigFile), "server:\n  prot: 1\n")

	_, err := l.Load()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		problem string
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"feed timeout", func(c *Config) { c.ThreatFeed.Timeout = 0 }, "threat_feed.timeout"},
		{"feed endpoint", func(c *Config) { c.ThreatFeed.Endpoint = "not a url" }, "threat_feed.endpoint"},
		{"missing endpoint", func(c *Config) { c.ThreatFeed.Endpoint = "" }, "threat_feed.endpoint"},
		{"negative weight", func(c *Config) { c.Checks.Weights.TLD = -1 }, "checks.weights.tld"},
		{"all weights zero", func(c *Config) { c.Checks.Weights = checker.Weights{} }, "checks.weights"},
		{"domain length bounds", func(c *Config) { c.Checks.MaxDomainLength = 2 }, "checks.max_domain_length"},
		{"empty keyword", func(c *Config) { c.Checks.SuspiciousKeywords = []string{"login", ""} }, "checks.suspicious_keywords"},
		{"brand without domains", func(c *Config) { c.Checks.Brands = map[string][]string{"acme": {}} }, "checks.brands"},
		{"thresholds order", func(c *Config) { c.Verdict.SafeMin = 40 }, "verdict.safe_min"},
		{"threshold range", func(c *Config) { c.Verdict.SafeMin = 120 }, "verdict.safe_min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestValidateFeedDisabledWithoutEndpoint(t *testing.T) {
	cfg := Default()
	cfg.ThreatFeed.Enabled = false
	cfg.ThreatFeed.Endpoint = ""
	assert.NoError(t, cfg.Validate())
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := &ConfigurationError{Source: "linkrisk.yaml", Problems: []string{"a", "b"}}
	assert.Equal(t, "invalid configuration (linkrisk.yaml): a; b", err.Error())
}

func TestCheckSettingsBuildBattery(t *testing.T) {
	cfg := Default()
	cfg.Whois.Enabled = true

	battery, err := checker.DefaultBattery(cfg.CheckSettings())
	require.NoError(t, err)
	assert.True(t, battery.Requires(checker.LookupRegistration))
	assert.Len(t, battery.Checks(), 11)
}
