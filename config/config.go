// Package config loads the settings a validation run is given: column
// mapping, record path, provider defaults, worker count and message language.
// Nothing here is read by the validator implicitly; Config.Options turns it
// into ilrskema.Options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/ilrskema"
	"github.com/reoring/ilrskema/i18n"
)

// Format represents the configuration file format
type Format int

const (
	FormatAuto Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// Provider identifies the submitting organisation. It is carried for the
// generation step and never used by validation.
type Provider struct {
	UKPRN string `yaml:"ukprn" toml:"ukprn" json:"ukprn"`
	Name  string `yaml:"name" toml:"name" json:"name"`
}

// Config is one validation run's settings.
type Config struct {
	Schema     string            `yaml:"schema" toml:"schema" json:"schema"`
	RecordPath string            `yaml:"recordPath" toml:"recordPath" json:"recordPath"`
	Mapping    map[string]string `yaml:"mapping" toml:"mapping" json:"mapping"`
	Provider   Provider          `yaml:"provider" toml:"provider" json:"provider"`
	Workers    int               `yaml:"workers" toml:"workers" json:"workers"`
	Language   string            `yaml:"language" toml:"language" json:"language"`
}

var (
	ErrEmptyPath     = errors.New("config file path cannot be empty")
	ErrInvalidConfig = errors.New("invalid config")
)

// Load reads a config file, picking the format from its extension.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data, detectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if cfg.Schema != "" && !filepath.IsAbs(cfg.Schema) {
		cfg.Schema = filepath.Join(filepath.Dir(path), cfg.Schema)
	}
	return cfg, nil
}

// Parse decodes data in the given format (FormatAuto means YAML) and
// validates the result.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	var err error
	switch format {
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &cfg)
		if err == nil {
			if undec := md.Undecoded(); len(undec) > 0 {
				err = fmt.Errorf("unknown key %s", undec[0])
			}
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later in surprising ways.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers must not be negative (got %d)", ErrInvalidConfig, c.Workers))
	}
	switch c.Language {
	case "", "en", "ja":
	default:
		errs = append(errs, fmt.Errorf("%w: unsupported language %q", ErrInvalidConfig, c.Language))
	}
	if c.Provider.UKPRN != "" && !isUKPRN(c.Provider.UKPRN) {
		errs = append(errs, fmt.Errorf("%w: provider UKPRN %q must be 8 digits starting with 1", ErrInvalidConfig, c.Provider.UKPRN))
	}
	for col, path := range c.Mapping {
		if strings.TrimSpace(col) == "" || strings.TrimSpace(path) == "" {
			errs = append(errs, fmt.Errorf("%w: mapping entries need a column and a path", ErrInvalidConfig))
			break
		}
	}
	return errors.Join(errs...)
}

// Translator returns the message catalogue for Language.
func (c *Config) Translator() i18n.Translator { return i18n.New(c.Language) }

// Options builds validator options from the config. rowRules are appended
// as given.
func (c *Config) Options(logger *slog.Logger, rowRules ...ilrskema.RowRule) ilrskema.Options {
	mapping := make(map[string]string, len(c.Mapping))
	for k, v := range c.Mapping {
		mapping[k] = v
	}
	return ilrskema.Options{
		Mapping:    mapping,
		RecordPath: c.RecordPath,
		Translator: c.Translator(),
		Logger:     logger,
		Workers:    c.Workers,
		RowRules:   rowRules,
	}
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

func isUKPRN(s string) bool {
	if len(s) != 8 || s[0] != '1' {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
