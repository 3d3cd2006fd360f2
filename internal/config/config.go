// Package config provides configuration types, defaults, and persistence for cqlhl.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/cqlhl/internal/cachemanager"
	"github.com/zjrosen/cqlhl/internal/cql"
	"github.com/zjrosen/cqlhl/internal/i18n"
	"github.com/zjrosen/cqlhl/internal/log"
	"github.com/zjrosen/cqlhl/internal/schema"
	"github.com/zjrosen/cqlhl/internal/tracing"
)

// Output formats of the highlight command.
const (
	FormatHTML = "html"
	FormatANSI = "ansi"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all settings read from the config file and flags.
type Config struct {
	// Corpus selects the schema used to recognize attributes and structures.
	Corpus string `mapstructure:"corpus"`

	// SchemaDir holds <corpus>.yaml schema files. Empty serves only the
	// built-in default corpus.
	SchemaDir string `mapstructure:"schema_dir"`

	// Supertype is one of "conc", "pquery" or "wlist".
	Supertype string `mapstructure:"supertype"`

	WrapLongQuery bool   `mapstructure:"wrap_long_query"`
	Locale        string `mapstructure:"locale"`

	// Format is "html" or "ansi".
	Format string `mapstructure:"format"`

	Cache   CacheConfig    `mapstructure:"cache"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// CacheConfig controls the schema cache.
type CacheConfig struct {
	// TTL of a loaded schema. Zero disables caching.
	TTL time.Duration `mapstructure:"ttl"`

	// Watch invalidates cached schemas when files in SchemaDir change.
	Watch bool `mapstructure:"watch"`
}

// DefaultTracesFilePath returns ~/.config/cqlhl/traces/traces.jsonl, or an
// empty string when the home directory is unknown.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "cqlhl", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tr := tracing.DefaultConfig()
	tr.FilePath = DefaultTracesFilePath()
	return Config{
		Corpus:    schema.DefaultCorpus,
		Supertype: string(cql.SupertypeConc),
		Locale:    i18n.FallbackLocale,
		Format:    FormatHTML,
		Cache: CacheConfig{
			TTL: cachemanager.DefaultExpiration,
		},
		Tracing: tr,
	}
}

// Validate checks c for errors. Empty values fall back to defaults and are
// accepted.
func (c Config) Validate() error {
	if c.Supertype != "" {
		if _, err := cql.ParseSupertype(c.Supertype); err != nil {
			return fmt.Errorf("%w: supertype must be \"conc\", \"pquery\", or \"wlist\", got %q", ErrInvalidConfig, c.Supertype)
		}
	}
	switch c.Format {
	case "", FormatHTML, FormatANSI:
	default:
		return fmt.Errorf("%w: format must be \"html\" or \"ansi\", got %q", ErrInvalidConfig, c.Format)
	}
	if c.Locale != "" {
		if _, err := i18n.Load(c.Locale); err != nil {
			return fmt.Errorf("%w: locale: %w", ErrInvalidConfig, err)
		}
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: cache.ttl must not be negative, got %v", ErrInvalidConfig, c.Cache.TTL)
	}
	if c.Cache.Watch && c.SchemaDir == "" {
		return fmt.Errorf("%w: cache.watch requires schema_dir", ErrInvalidConfig)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("%w: tracing.sample_rate must be between 0.0 and 1.0, got %v", ErrInvalidConfig, t.SampleRate)
	}

	switch t.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("%w: tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", ErrInvalidConfig, t.Exporter)
	}

	if !t.Enabled {
		return nil
	}
	if t.Exporter == tracing.ExporterFile && t.FilePath == "" {
		return fmt.Errorf("%w: tracing.file_path is required when exporter is \"file\"", ErrInvalidConfig)
	}
	if t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("%w: tracing.otlp_endpoint is required when exporter is \"otlp\"", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# cqlhl configuration

# Corpus whose schema marks known attributes and structures.
# The built-in "default" corpus knows word, lemma, tag and lc.
corpus: default

# Directory with <corpus>.yaml schema files
# schema_dir: /path/to/schemas

# Query supertype: conc, pquery or wlist
supertype: conc

# Insert line breaks into long queries
wrap_long_query: false

# Message language (en, cs)
locale: en

# Output of the highlight command: html or ansi
format: html

cache:
  ttl: 10m      # How long a loaded schema is reused, 0 disables caching
  watch: false  # Reload schemas when files in schema_dir change

# Tracing writes one span per highlighted query.
# tracing:
#   enabled: true
#   exporter: file      # none, file, stdout or otlp
#   file_path: ~/.config/cqlhl/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
