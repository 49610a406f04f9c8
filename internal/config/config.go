package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
// The refresh interval is fixed and not configurable.
type Config struct {
	Listen   string `yaml:"listen"`
	DBPath   string `yaml:"database"`
	BasePath string `yaml:"base_path"`

	// SourceURL is the base URL both metrics endpoints live under.
	SourceURL string `yaml:"source_url"`
	// Per-source overrides of SourceURL.
	SourceAURL string `yaml:"source_a_url"`
	SourceBURL string `yaml:"source_b_url"`
	// FetchTimeout bounds a single fetch; 0 means no timeout.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Parsed from command line (not YAML)
	ConfigPath string `yaml:"-"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:     "127.0.0.1:9924",
		DBPath:     "compliancemon.db",
		BasePath:   "/",
		SourceURL:  "http://127.0.0.1:8000",
		LogLevel:   "info",
		LogFormat:  "text",
		ConfigPath: "config.yaml",
	}
}

// Load reads configuration with priority: defaults < config file < env vars.
// A missing file is not an error; flags are applied afterwards with ApplyFlags.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		cfg.ConfigPath = path
	}

	data, err := os.ReadFile(cfg.ConfigPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfg.ConfigPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", cfg.ConfigPath, err)
	}

	applyEnv(cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COMPLIANCEMON_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("COMPLIANCEMON_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("COMPLIANCEMON_BASE_PATH"); v != "" {
		cfg.BasePath = v
	}
	if v := os.Getenv("COMPLIANCEMON_SOURCE_URL"); v != "" {
		cfg.SourceURL = v
	}
	if v := os.Getenv("COMPLIANCEMON_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Flags holds the command-line overrides bound by BindFlags.
type Flags struct {
	Listen     string
	DBPath     string
	BasePath   string
	SourceURL  string
	SourceAURL string
	SourceBURL string
	LogLevel   string
	LogFormat  string
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *pflag.FlagSet, f *Flags) {
	d := DefaultConfig()
	fs.StringVar(&f.Listen, "listen", d.Listen, "HTTP listen address (host:port)")
	fs.StringVar(&f.DBPath, "db", d.DBPath, "SQLite database path")
	fs.StringVar(&f.BasePath, "base-path", d.BasePath, "Base URL path for reverse proxy")
	fs.StringVar(&f.SourceURL, "source-url", d.SourceURL, "Base URL of both metrics endpoints")
	fs.StringVar(&f.SourceAURL, "source-a-url", "", "Base URL of the operations dashboard endpoint")
	fs.StringVar(&f.SourceBURL, "source-b-url", "", "Base URL of the GDPR statistics endpoint")
	fs.StringVar(&f.LogLevel, "log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFormat, "log-format", d.LogFormat, "Log format (text, json)")
}

// ApplyFlags overrides cfg with the flags the user actually set.
func (cfg *Config) ApplyFlags(fs *pflag.FlagSet, f *Flags) {
	set := func(name string, dst *string, v string) {
		if fl := fs.Lookup(name); fl != nil && fl.Changed {
			*dst = v
		}
	}
	set("listen", &cfg.Listen, f.Listen)
	set("db", &cfg.DBPath, f.DBPath)
	set("base-path", &cfg.BasePath, f.BasePath)
	set("source-url", &cfg.SourceURL, f.SourceURL)
	set("source-a-url", &cfg.SourceAURL, f.SourceAURL)
	set("source-b-url", &cfg.SourceBURL, f.SourceBURL)
	set("log-level", &cfg.LogLevel, f.LogLevel)
	set("log-format", &cfg.LogFormat, f.LogFormat)
	cfg.normalize()
}

// SourceABase returns the base URL for the operations dashboard endpoint.
func (cfg *Config) SourceABase() string {
	if cfg.SourceAURL != "" {
		return cfg.SourceAURL
	}
	return cfg.SourceURL
}

// SourceBBase returns the base URL for the GDPR statistics endpoint.
func (cfg *Config) SourceBBase() string {
	if cfg.SourceBURL != "" {
		return cfg.SourceBURL
	}
	return cfg.SourceURL
}

// Validate checks that both source base URLs are usable.
func (cfg *Config) Validate() error {
	for _, u := range []string{cfg.SourceABase(), cfg.SourceBBase()} {
		parsed, err := url.Parse(u)
		if err != nil {
			return fmt.Errorf("source url %q: %w", u, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("source url %q: scheme must be http or https", u)
		}
		if parsed.Host == "" {
			return fmt.Errorf("source url %q: missing host", u)
		}
	}
	if cfg.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout must not be negative")
	}
	return nil
}

func (cfg *Config) normalize() {
	cfg.BasePath = normalizeBasePath(cfg.BasePath)
	cfg.SourceURL = strings.TrimRight(strings.TrimSpace(cfg.SourceURL), "/")
	cfg.SourceAURL = strings.TrimRight(strings.TrimSpace(cfg.SourceAURL), "/")
	cfg.SourceBURL = strings.TrimRight(strings.TrimSpace(cfg.SourceBURL), "/")
}

// normalizeBasePath ensures the base path starts with "/" and has no trailing "/".
// Returns "/" for empty or root paths.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(p, "/")
	return p
}
