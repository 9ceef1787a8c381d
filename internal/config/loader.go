package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// File names searched when no config path is given
const (
	DefaultConfigFile = AppName + ".yaml"
	UserConfigFile    = "config.yaml"
	DefaultEnvFile    = ".env"
	ConfigPathEnv     = "LINKRISK_CONFIG"
)

// Loader reads configuration from defaults, a YAML file, a .env file and the environment,
// in increasing order of precedence.
type Loader struct {
	Path      string                         // explicit config file; must exist when set
	EnvFile   string                         // .env file, DefaultEnvFile when empty
	WorkDir   string                         // directory searched for DefaultConfigFile, cwd when empty
	ConfigDir string                         // per-user config directory, ConfigDir() when empty
	LookupEnv func(key string) (string, bool) // os.LookupEnv when nil
}

// Load reads the configuration using the default search locations
func Load(path string) (*Config, error) {
	return Loader{Path: path}.Load()
}

// Load builds, overrides and validates the configuration
func (l Loader) Load() (*Config, error) {
	env, err := l.environment()
	if err != nil {
		return nil, err
	}

	cfg := Default()

	path, err := l.findConfigFile(env)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := readFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.Source = path
	}

	if problems := applyEnv(cfg, env); len(problems) > 0 {
		return nil, &ConfigurationError{Source: "environment", Problems: problems}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// environment returns a lookup over the process environment falling back to the .env file.
// Values from .env never override real environment variables.
func (l Loader) environment() (func(string) (string, bool), error) {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	envFile := l.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	dotenv, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
		dotenv = nil
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// findConfigFile searches for the configuration file in the following order:
// 1. the explicit Path
// 2. the file named by LINKRISK_CONFIG
// 3. linkrisk.yaml in the working directory
// 4. config.yaml in the per-user config directory
//
// Explicitly named files must exist. Returns "" when no file is found.
func (l Loader) findConfigFile(env func(string) (string, bool)) (string, error) {
	explicit := l.Path
	if explicit == "" {
		explicit, _ = env(ConfigPathEnv)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		return explicit, nil
	}

	workDir := l.WorkDir
	if workDir == "" {
		if cwd, err := os.Getwd(); err == nil {
			workDir = cwd
		}
	}
	configDir := l.ConfigDir
	if configDir == "" {
		configDir = ConfigDir()
	}

	candidates := []string{
		filepath.Join(workDir, DefaultConfigFile),
		filepath.Join(configDir, UserConfigFile),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", nil
}

// readFile decodes YAML from path over the values already in cfg.
// Unknown keys are rejected. A brands mapping in the file replaces the built-in one.
func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	brands := cfg.Checks.Brands
	cfg.Checks.Brands = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigurationError{Source: path, Problems: []string{err.Error()}}
	}

	if cfg.Checks.Brands == nil {
		cfg.Checks.Brands = brands
	}
	return nil
}

// applyEnv overrides cfg with environment variables and returns parse problems
func applyEnv(cfg *Config, env func(string) (string, bool)) []string {
	var problems []string

	str := func(key string, dst *string) {
		if v, ok := env(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		v, ok := env(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %q is not an integer", key, v))
			return
		}
		*dst = n
	}
	boolean := func(key string, dst *bool) {
		v, ok := env(key)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %q is not a boolean", key, v))
			return
		}
		*dst = b
	}
	// durations are given in milliseconds
	millis := func(key string, dst *time.Duration) {
		v, ok := env(key)
		if !ok || v == "" {
			return
		}
		ms, err := strconv.Atoi(v)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %q is not a number of milliseconds", key, v))
			return
		}
		*dst = time.Duration(ms) * time.Millisecond
	}

	integer("PORT", &cfg.Server.Port)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("LOG_FILE", &cfg.Log.File)
	str("URLHAUS_API_URL", &cfg.ThreatFeed.Endpoint)
	str("URLHAUS_AUTH_KEY", &cfg.ThreatFeed.AuthKey)
	millis("THREAT_LOOKUP_TIMEOUT", &cfg.ThreatFeed.Timeout)
	boolean("THREAT_FEED_ENABLED", &cfg.ThreatFeed.Enabled)
	boolean("WHOIS_ENABLED", &cfg.Whois.Enabled)
	millis("WHOIS_TIMEOUT", &cfg.Whois.Timeout)

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)
	return problems
}
