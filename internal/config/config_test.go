package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wizenheimer/lexis"
	"github.com/wizenheimer/lexis/similarity"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.toml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) error = %v", path, err)
		}
		if cfg.CLI.Mode != ModeAutocomplete || cfg.Server.MaxQueryLength != 256 {
			t.Errorf("Load(%q) = %+v, want defaults", path, cfg)
		}
		if cfg.Index.MaximumSearchResults != lexis.DefaultOptions().MaximumSearchResults {
			t.Errorf("index defaults not applied: %+v", cfg.Index)
		}
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "lexis.toml", `
[index]
case_sensitive = true
maximum_search_results = 10
conjunction = "or"
exclude_keywords = ["the", "a"]
similarity = "jaro_winkler"
fuzzy_minimum_score = 0.8

[server]
max_query_length = 64

[metrics]
enabled = true
addr = ":9000"

[cli]
mode = "search"
limit = 3
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Index.CaseSensitive || cfg.Index.MaximumSearchResults != 10 || cfg.Index.Conjunction != lexis.Or {
		t.Errorf("index section = %+v", cfg.Index.Options)
	}
	if len(cfg.Index.ExcludeKeywords) != 2 {
		t.Errorf("ExcludeKeywords = %v", cfg.Index.ExcludeKeywords)
	}
	if cfg.Index.SimilarityKind != similarity.JaroWinkler {
		t.Errorf("SimilarityKind = %q", cfg.Index.SimilarityKind)
	}
	// unset keys keep their defaults
	if cfg.Index.MaximumAutocompleteResults != lexis.DefaultOptions().MaximumAutocompleteResults {
		t.Errorf("MaximumAutocompleteResults = %d, want default", cfg.Index.MaximumAutocompleteResults)
	}
	if cfg.Server.MaxQueryLength != 64 || cfg.Server.MaxTextLength != 4096 {
		t.Errorf("server section = %+v", cfg.Server)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != ":9000" {
		t.Errorf("metrics section = %+v", cfg.Metrics)
	}
	if cfg.CLI.Mode != ModeSearch || cfg.CLI.Limit != 3 {
		t.Errorf("cli section = %+v", cfg.CLI)
	}

	opts, err := cfg.IndexOptions()
	if err != nil {
		t.Fatalf("IndexOptions() error = %v", err)
	}
	if opts.Similarity == nil {
		t.Error("similarity not resolved")
	}
}

func TestLoadTOMLPartialRecovery(t *testing.T) {
	path := writeFile(t, "lexis.toml", `
[index]
maximum_search_results = "lots"

[cli]
limit = 7
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Index.MaximumSearchResults != lexis.DefaultOptions().MaximumSearchResults {
		t.Errorf("bad index section not reset: %d", cfg.Index.MaximumSearchResults)
	}
	if cfg.CLI.Limit != 7 {
		t.Errorf("valid cli section lost: %+v", cfg.CLI)
	}
}

func TestLoadTOMLInvalidIndexOptions(t *testing.T) {
	path := writeFile(t, "lexis.toml", `
[index]
minimum_keyword_length = 10
maximum_keyword_length = 2
`)
	cfg, _ := Load(path)
	if cfg.Index.MinimumKeywordLength != lexis.DefaultOptions().MinimumKeywordLength {
		t.Errorf("invalid index section kept: %+v", cfg.Index.Options)
	}
}

func TestLoadTOMLSyntaxError(t *testing.T) {
	path := writeFile(t, "lexis.toml", "[index\nmaximum_search_results = 3")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Index.MaximumSearchResults != lexis.DefaultOptions().MaximumSearchResults {
		t.Errorf("syntax error should fall back to defaults, got %d", cfg.Index.MaximumSearchResults)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "lexis.yaml", `
index:
  maximumSearchResults: 12
  searchKind: live
  similarity: levenshtein
metrics:
  enabled: true
cli:
  mode: search
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Index.MaximumSearchResults != 12 || cfg.Index.SearchKind != lexis.LiveSearch {
		t.Errorf("index section = %+v", cfg.Index.Options)
	}
	if cfg.Index.SimilarityKind != similarity.Levenshtein {
		t.Errorf("SimilarityKind = %q", cfg.Index.SimilarityKind)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != ":9464" {
		t.Errorf("metrics section = %+v", cfg.Metrics)
	}
	if cfg.CLI.Mode != ModeSearch || cfg.CLI.Limit != 10 {
		t.Errorf("cli section = %+v", cfg.CLI)
	}
}

func TestLoadYAMLError(t *testing.T) {
	path := writeFile(t, "lexis.yml", "index: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEXIS_SIMILARITY", "bigram")
	t.Setenv("LEXIS_FUZZY_MINIMUM_SCORE", "0.6")
	t.Setenv("LEXIS_METRICS_ADDR", ":9100")
	t.Setenv("LEXIS_CLI_MODE", "search")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Index.SimilarityKind != similarity.Bigram || cfg.Index.FuzzyMinimumScore != 0.6 {
		t.Errorf("index overrides = %q %v", cfg.Index.SimilarityKind, cfg.Index.FuzzyMinimumScore)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != ":9100" {
		t.Errorf("metrics overrides = %+v", cfg.Metrics)
	}
	if cfg.CLI.Mode != ModeSearch {
		t.Errorf("cli override = %q", cfg.CLI.Mode)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"defaults", func(c *Config) {}, nil},
		{"unknown similarity", func(c *Config) { c.Index.SimilarityKind = "soundex" }, similarity.ErrUnknownKind},
		{"invalid options", func(c *Config) { c.Index.MaximumSearchResults = 0 }, lexis.ErrInvalidOptions},
		{"unknown mode", func(c *Config) { c.CLI.Mode = "browse" }, ErrUnknownMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIndexOptionsCopiesExcludeKeywords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Index.ExcludeKeywords = []string{"the"}
	opts, err := cfg.IndexOptions()
	if err != nil {
		t.Fatalf("IndexOptions() error = %v", err)
	}
	opts.ExcludeKeywords[0] = "a"
	if cfg.Index.ExcludeKeywords[0] != "the" {
		t.Error("IndexOptions shares the exclude list with the config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "lexis.toml")
	cfg := DefaultConfig()
	cfg.CLI.Limit = 42
	cfg.Index.SimilarityKind = similarity.Jaro

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.CLI.Limit != 42 || loaded.Index.SimilarityKind != similarity.Jaro {
		t.Errorf("round trip = %+v", loaded)
	}
}
