package config

import (
	"errors"
	"strings"
)

// ErrInvalidConfig is matched by every ConfigurationError
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrConfigNotFound is returned when an explicitly named config file does not exist
var ErrConfigNotFound = errors.New("configuration file not found")

// ConfigurationError lists every problem found while loading or validating the configuration
type ConfigurationError struct {
	Source   string
	Problems []string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString(ErrInvalidConfig.Error())
	if e.Source != "" {
		b.WriteString(" (")
		b.WriteString(e.Source)
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(strings.Join(e.Problems, "; "))
	return b.String()
}

// Unwrap lets errors.Is match ErrInvalidConfig
func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfig }
