package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wizenheimer/lexis"
	"github.com/wizenheimer/lexis/internal/config"
	"github.com/wizenheimer/lexis/internal/logger"
)

func cityIndex(t *testing.T) *lexis.Index[string] {
	t.Helper()
	opts := lexis.DefaultOptions()
	opts.MaximumStringLength = 0
	opts.Logger = logger.Discard()
	idx, err := lexis.NewIndex[string](opts)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	idx.Insert("nyc", lexis.Text("new york city"))
	idx.Insert("nola", lexis.Text("new orleans"))
	return idx
}

func runInput(t *testing.T, mode, input string) string {
	t.Helper()
	var out bytes.Buffer
	h := NewInputHandler(cityIndex(t), mode, 5, strings.NewReader(input), &out)
	if err := h.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return out.String()
}

func TestInputAutocomplete(t *testing.T) {
	out := runInput(t, config.ModeAutocomplete, "new y\n")
	if !strings.Contains(out, "Found 1 completions") || !strings.Contains(out, "new york") {
		t.Errorf("output missing completion:\n%s", out)
	}
	if !strings.Contains(out, "[nyc]") {
		t.Errorf("output missing keys:\n%s", out)
	}
}

func TestInputSearch(t *testing.T) {
	out := runInput(t, config.ModeSearch, "new\n")
	if !strings.Contains(out, "Found 2 results") {
		t.Errorf("output missing results:\n%s", out)
	}
	if !strings.Contains(out, "nola") || !strings.Contains(out, "nyc") {
		t.Errorf("output missing keys:\n%s", out)
	}
}

func TestInputCommands(t *testing.T) {
	out := runInput(t, config.ModeAutocomplete, ":search\nyork\n:stats\n:bogus\n\n")
	if !strings.Contains(out, "Found 1 results") {
		t.Errorf("mode switch not applied:\n%s", out)
	}
	if !strings.Contains(out, "keywords=4") {
		t.Errorf("stats missing:\n%s", out)
	}
	if !strings.Contains(out, "unknown command :bogus") {
		t.Errorf("unknown command not reported:\n%s", out)
	}
}

func TestInputNoMatches(t *testing.T) {
	out := runInput(t, config.ModeSearch, "paris\n")
	if !strings.Contains(out, `No results for "paris"`) {
		t.Errorf("empty result not reported:\n%s", out)
	}
}

func TestFormatKeys(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{nil, "[]"},
		{[]string{"a", "b"}, "[a b]"},
		{[]string{"a", "b", "c", "d", "e", "f", "g"}, "[a b c d e +2]"},
	}
	for _, tt := range tests {
		if got := formatKeys(tt.keys); got != tt.want {
			t.Errorf("formatKeys(%v) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}
