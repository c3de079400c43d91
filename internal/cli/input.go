// Package cli runs lexis queries typed on a terminal, for testing and debugging
// an index interactively.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/wizenheimer/lexis"
	"github.com/wizenheimer/lexis/internal/config"
)

var (
	keywordStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	keyStyle = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#797593", Dark: "#908caa"})
)

// InputHandler reads one query per line and prints search results or
// completions for it. Lines starting with ':' are commands:
//
//	:search        switch to search mode
//	:autocomplete  switch to autocomplete mode
//	:stats         print index statistics
type InputHandler struct {
	index  *lexis.Index[string]
	mode   string
	limit  int
	reader io.Reader
	logger *log.Logger
}

// NewInputHandler creates a handler reading from r and printing to w.
func NewInputHandler(index *lexis.Index[string], mode string, limit int, r io.Reader, w io.Writer) *InputHandler {
	return &InputHandler{
		index:  index,
		mode:   mode,
		limit:  limit,
		reader: r,
		logger: log.NewWithOptions(w, log.Options{ReportTimestamp: false}),
	}
}

// Start runs the prompt loop until the input ends.
func (h *InputHandler) Start() error {
	h.logger.Print("lexis CLI", "mode", h.mode, "keys", h.index.Len())
	h.logger.Print("type a query and press Enter (Ctrl+D to exit):")

	scanner := bufio.NewScanner(h.reader)
	for {
		h.logger.Print("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput runs one command or query.
func (h *InputHandler) handleInput(line string) {
	if cmd, ok := strings.CutPrefix(strings.TrimSpace(line), ":"); ok {
		h.handleCommand(cmd)
		return
	}

	start := time.Now()
	var err error
	if h.mode == config.ModeSearch {
		err = h.search(line)
	} else {
		err = h.autocomplete(line)
	}
	if err != nil {
		h.logger.Errorf("%v", err)
		return
	}
	log.Debugf("Took [ %v ] for %q", time.Since(start), line)
}

func (h *InputHandler) handleCommand(cmd string) {
	switch cmd {
	case config.ModeSearch, config.ModeAutocomplete:
		h.mode = cmd
		h.logger.Print("switched", "mode", cmd)
	case "stats":
		stats := h.index.Stats()
		h.logger.Print("index",
			"keys", stats.Keys,
			"keywords", stats.Keywords,
			"postings", stats.Postings,
			"saturated", stats.SaturatedKeywords)
	default:
		h.logger.Errorf("unknown command :%s", cmd)
	}
}

func (h *InputHandler) search(query string) error {
	results, err := h.index.NewSearch().WithQuery(query).WithK(h.limit).Execute()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		h.logger.Warnf("No results for %q", query)
		return nil
	}
	h.logger.Printf("Found %d results for %q:", len(results), query)
	for i, r := range results {
		h.logger.Printf("%2d. %s (score: %g)", i+1, keywordStyle.Render(r.Key), r.Score)
	}
	return nil
}

func (h *InputHandler) autocomplete(query string) error {
	completions, err := h.index.NewAutocomplete().WithQuery(query).WithK(h.limit).Execute()
	if err != nil {
		return err
	}
	if len(completions) == 0 {
		h.logger.Warnf("No completions for %q", query)
		return nil
	}
	h.logger.Printf("Found %d completions for %q:", len(completions), query)
	for i, c := range completions {
		h.logger.Printf("%2d. %-30s %s", i+1, keywordStyle.Render(c.Text), keyStyle.Render(formatKeys(c.Keys)))
	}
	return nil
}

func formatKeys(keys []string) string {
	const shown = 5
	if len(keys) <= shown {
		return fmt.Sprintf("[%s]", strings.Join(keys, " "))
	}
	return fmt.Sprintf("[%s +%d]", strings.Join(keys[:shown], " "), len(keys)-shown)
}
