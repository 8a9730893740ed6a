// Package config loads command line configuration.
//
// Settings are resolved in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Environment Variables   │  ← TIMELINE_*
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tsabi/o-spreadsheet-sub001/internal/logging"
)

// Document domains.
const (
	DomainText = "text"
	DomainJSON = "json"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "TIMELINE_"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the command line settings.
type Config struct {
	Domain      string        `env:"DOMAIN" envDefault:"text"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"text"`
	Rules       string        `env:"RULES"`
	RuleTimeout time.Duration `env:"RULE_TIMEOUT" envDefault:"1s"`
}

// ParseEnv populates target from TIMELINE_ environment variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment, then args, and validates the result.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// RegisterFlags binds flags to c, using its current values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Domain, "domain", c.Domain, "document domain: text or json")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
	fs.StringVar(&c.Rules, "rules", c.Rules, "path to a Lua rules script")
	fs.DurationVar(&c.RuleTimeout, "rule-timeout", c.RuleTimeout, "deadline for each Lua rule call")
}

// Validate checks the settings.
func (c Config) Validate() error {
	switch c.Domain {
	case DomainText, DomainJSON:
	default:
		return fmt.Errorf("%w: domain %q", ErrInvalid, c.Domain)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.LogFormat)
	}
	if c.RuleTimeout < 0 {
		return fmt.Errorf("%w: negative rule timeout %s", ErrInvalid, c.RuleTimeout)
	}
	return nil
}

// Logging returns the logger configuration for these settings.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	// Unknown levels are rejected by Validate.
	cfg.Level, _ = logging.ParseLevel(c.LogLevel)
	cfg.Format = c.LogFormat
	return cfg
}
