/*
Command lexis serves keyword search and autocomplete over a set of records.

Records are read from a file of tab separated lines, the key first and the
text second:

	nyc	New York City
	nola	New Orleans

# Usage

Serve the msgpack IPC protocol on stdin/stdout:

	lexis -data records.tsv

Expose prometheus metrics while serving:

	lexis -data records.tsv -metrics :9464

Query the records interactively:

	lexis -data records.tsv -c -mode search

# Configuration

Index options, server limits and CLI defaults live in a TOML (or YAML) file:

	[index]
	maximum_search_results = 50
	conjunction = "or"
	similarity = "jaro_winkler"
	fuzzy_minimum_score = 0.8

	[cli]
	mode = "autocomplete"
	limit = 10

Write the defaults to a file with -init-config. LEXIS_* environment variables
override file values.
*/
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/wizenheimer/lexis"
	"github.com/wizenheimer/lexis/internal/cli"
	"github.com/wizenheimer/lexis/internal/config"
	"github.com/wizenheimer/lexis/internal/logger"
	"github.com/wizenheimer/lexis/internal/metrics"
	"github.com/wizenheimer/lexis/internal/server"
)

const (
	Version = "0.3.0"
	AppName = "lexis"
)

// sigHandler exits on SIGINT or SIGTERM. The IPC loop blocks on stdin, so
// waiting for it to notice a cancelled context would hang.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a TOML or YAML config file")
	initConfig := flag.Bool("init-config", false, "Write the default config to -config and exit")
	dataPath := flag.String("data", "", "File of key<TAB>text records to index at startup")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive CLI instead of the IPC server")
	mode := flag.String("mode", "", "CLI mode: search or autocomplete (default from config)")
	limit := flag.Int("limit", 0, "Number of results the CLI shows (default from config)")
	metricsAddr := flag.String("metrics", "", "Address of the prometheus endpoint, e.g. :9464")

	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *initConfig {
		if *configPath == "" {
			log.Fatal("-init-config needs -config")
		}
		if err := config.Save(config.DefaultConfig(), *configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		log.Printf("Wrote default config to %s", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *mode != "" {
		cfg.CLI.Mode = *mode
	}
	if *limit > 0 {
		cfg.CLI.Limit = *limit
	}
	if *metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	opts, err := cfg.IndexOptions()
	if err != nil {
		log.Fatalf("Invalid index options: %v", err)
	}
	opts.Logger = logger.Default(AppName)
	idx, err := lexis.NewIndex[string](opts)
	if err != nil {
		log.Fatalf("Failed to create index: %v", err)
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		if *dataPath != "" {
			n, err := loadRecords(*dataPath, func(key, text string) { idx.Insert(key, lexis.Text(text)) })
			if err != nil {
				log.Fatalf("Failed to load records: %v", err)
			}
			log.Debug("Loaded records", "count", n, "keywords", idx.KeywordCount())
		}
		handler := cli.NewInputHandler(idx, cfg.CLI.Mode, cfg.CLI.Limit, os.Stdin, os.Stderr)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if err := serve(context.Background(), cfg, idx, *dataPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// serve runs the IPC server and, when enabled, the metrics endpoint until the
// input closes or ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, idx *lexis.Index[string], dataPath string) error {
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}
	srv := server.NewServer(idx, cfg.Server, m, os.Stdin, os.Stdout)

	if dataPath != "" {
		n, err := loadRecords(dataPath, srv.Load)
		if err != nil {
			return fmt.Errorf("loading records: %w", err)
		}
		log.Debug("Loaded records", "count", n, "keywords", idx.KeywordCount())
	}

	showStartupInfo(idx)

	g, gctx := errgroup.WithContext(ctx)
	serverCtx, cancelServer := context.WithCancel(gctx)
	defer cancelServer()

	g.Go(func() error {
		// the metrics listener stops with the server
		defer cancelServer()
		return srv.Start(serverCtx)
	})
	if m != nil {
		g.Go(func() error {
			log.Debugf("metrics on %s/metrics", cfg.Metrics.Addr)
			return m.Serve(serverCtx, cfg.Metrics.Addr)
		})
	}

	return g.Wait()
}

// loadRecords reads key<TAB>text lines from path and hands each record to add.
// Blank lines and lines starting with # are skipped.
func loadRecords(path string, add func(key, text string)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return readRecords(f, add)
}

func readRecords(r io.Reader, add func(key, text string)) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n, line := 0, 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, value, ok := strings.Cut(text, "\t")
		if !ok || key == "" {
			return n, fmt.Errorf("line %d: %w", line, errMalformedRecord)
		}
		add(key, value)
		n++
	}
	return n, scanner.Err()
}

var errMalformedRecord = errors.New("want key<TAB>text")

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ lexis ] keyword search and autocomplete")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
}

// showStartupInfo prints basic info about the index, regardless of log level.
func showStartupInfo(idx *lexis.Index[string]) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Info("index", "keys", idx.Len(), "keywords", idx.KeywordCount())
	log.Info("status: ready")
}
