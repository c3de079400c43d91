// Package config loads lexis runtime configuration from TOML or YAML files.
//
// TOML is the primary format. A file that fails to decode as a whole is
// recovered section by section: sections that decode keep their values and
// the rest fall back to defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/wizenheimer/lexis"
	"github.com/wizenheimer/lexis/similarity"
)

// ErrUnknownMode is returned for a CLI mode other than search or autocomplete.
var ErrUnknownMode = errors.New("unknown cli mode")

// CLI modes.
const (
	ModeSearch       = "search"
	ModeAutocomplete = "autocomplete"
)

// Config is the top-level runtime configuration of the lexis command.
type Config struct {
	Index   IndexConfig   `toml:"index" yaml:"index"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	CLI     CLIConfig     `toml:"cli" yaml:"cli"`
}

// IndexConfig holds the index options plus the name of the similarity
// backend, since a Similarity value cannot be written in a file.
type IndexConfig struct {
	lexis.Options `yaml:",inline"`

	// SimilarityKind selects a similarity.Kind. Empty disables fuzzy matching.
	SimilarityKind similarity.Kind `toml:"similarity" yaml:"similarity"`
}

// ServerConfig bounds what the IPC server accepts.
type ServerConfig struct {
	MaxQueryLength int `toml:"max_query_length" yaml:"maxQueryLength"`
	MaxTextLength  int `toml:"max_text_length" yaml:"maxTextLength"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Addr    string `toml:"addr" yaml:"addr"`
}

// CLIConfig holds the defaults of the interactive mode.
type CLIConfig struct {
	Mode  string `toml:"mode" yaml:"mode"`
	Limit int    `toml:"limit" yaml:"limit"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Index: IndexConfig{Options: *lexis.DefaultOptions()},
		Server: ServerConfig{
			MaxQueryLength: 256,
			MaxTextLength:  4096,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9464",
		},
		CLI: CLIConfig{
			Mode:  ModeAutocomplete,
			Limit: 10,
		},
	}
}

// Load reads the configuration at path. An empty path or a missing file
// yields the defaults. Files ending in .yaml or .yml are read as YAML,
// everything else as TOML. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Warnf("Config file %s not found, using defaults", path)
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if isYAML(path) {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return nil, fmt.Errorf("parsing config file %s: %w", path, err)
				}
			} else {
				cfg = decodeTOML(path, data)
			}
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// decodeTOML decodes each known section on its own so one bad value only
// costs its section.
func decodeTOML(path string, data []byte) *Config {
	cfg := DefaultConfig()

	var sections map[string]toml.Primitive
	md, err := toml.Decode(string(data), &sections)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", path, err)
		return cfg
	}

	decode := func(name string, target any) bool {
		prim, ok := sections[name]
		if !ok {
			return false
		}
		if err := md.PrimitiveDecode(prim, target); err != nil {
			log.Warnf("Invalid [%s] section in %s: %v. Using its defaults.", name, path, err)
			return false
		}
		return true
	}

	index := cfg.Index
	if decode("index", &index) {
		if err := index.Validate(); err != nil {
			log.Warnf("Invalid [index] section in %s: %v. Using its defaults.", path, err)
		} else {
			cfg.Index = index
		}
	}

	server := cfg.Server
	if decode("server", &server) {
		cfg.Server = server
	}

	metrics := cfg.Metrics
	if decode("metrics", &metrics) {
		cfg.Metrics = metrics
	}

	cli := cfg.CLI
	if decode("cli", &cli) {
		cfg.CLI = cli
	}

	for _, key := range md.Undecoded() {
		log.Warnf("Unknown config key %q in %s", key.String(), path)
	}
	return cfg
}

// applyEnvOverrides lets LEXIS_* variables override file values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEXIS_SIMILARITY"); v != "" {
		cfg.Index.SimilarityKind = similarity.Kind(v)
	}
	if v := os.Getenv("LEXIS_FUZZY_MINIMUM_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Index.FuzzyMinimumScore = f
		}
	}
	if v := os.Getenv("LEXIS_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("LEXIS_CLI_MODE"); v != "" {
		cfg.CLI.Mode = v
	}
}

// IndexOptions resolves the index section into options ready for NewIndex.
func (c *Config) IndexOptions() (*lexis.Options, error) {
	opts := c.Index.Options
	opts.ExcludeKeywords = append([]string(nil), c.Index.ExcludeKeywords...)
	if c.Index.SimilarityKind != "" {
		sim, err := similarity.New(c.Index.SimilarityKind)
		if err != nil {
			return nil, fmt.Errorf("index similarity: %w", err)
		}
		opts.Similarity = sim
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate reports configuration the command cannot run with.
func (c *Config) Validate() error {
	if _, err := c.IndexOptions(); err != nil {
		return err
	}
	if c.CLI.Mode != ModeSearch && c.CLI.Mode != ModeAutocomplete {
		return fmt.Errorf("%w %q", ErrUnknownMode, c.CLI.Mode)
	}
	return nil
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
