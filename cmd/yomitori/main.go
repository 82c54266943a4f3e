// Package main is the Yomitori CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hyperjump/yomitori/internal/cli"
	"github.com/hyperjump/yomitori/internal/config"
	"github.com/hyperjump/yomitori/internal/export"
	"github.com/hyperjump/yomitori/internal/invoice"
	"github.com/hyperjump/yomitori/internal/models"
	"github.com/hyperjump/yomitori/internal/pipeline"
	"github.com/hyperjump/yomitori/internal/server"
	"github.com/hyperjump/yomitori/internal/storage"
	"github.com/hyperjump/yomitori/internal/watcher"
	"github.com/hyperjump/yomitori/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/yomitori/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "yomitori serve" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "analyze":
		runAnalyze()
	case "serve":
		runServe()
	case "dataset":
		runDataset()
	case "report":
		runReport()
	case "version", "--version", "-v":
		fmt.Printf("yomitori version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// outputFormatFromFlag maps the -output flag value to a cli.OutputFormat.
func outputFormatFromFlag(v string) (cli.OutputFormat, error) {
	switch v {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", v)
	}
}

// storeParams maps the store section of the config to connection parameters.
// The target table is deliberately not part of the connection; callers name
// it per operation.
func storeParams(cfg *config.Config) storage.Params {
	return storage.Params{
		Driver:   cfg.Store.Driver,
		Path:     cfg.Store.Path,
		Host:     cfg.Store.Host,
		Port:     cfg.Store.Port,
		User:     cfg.Store.User,
		Password: cfg.Store.Password,
		Database: cfg.Store.Database,
	}
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	exportDir := fs.String("export-dir", "", "write text, summary, and table artifacts to this directory")
	xlsx := fs.Bool("xlsx", false, "also write the table as XLSX when exporting")
	persist := fs.Bool("persist", false, "save the extracted dataset to the store (overrides config)")
	maxSentences := fs.Int("max-sentences", 0, "maximum summary sentences, 3-10 (0 = use config)")
	topKeywords := fs.Int("top-keywords", 0, "number of ranked keywords, 5-20 (0 = use config)")
	debug := fs.Bool("debug", false, "enable debug logging (pipeline stages, store writes)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: yomitori analyze [flags] <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	format, err := outputFormatFromFlag(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *maxSentences != 0 {
		cfg.Analysis.MaxSummarySentences = *maxSentences
	}
	if *topKeywords != 0 {
		cfg.Analysis.TopKeywordCount = *topKeywords
	}
	if *persist {
		cfg.Analysis.PersistToStore = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// A store that cannot be reached downgrades the run: the analysis still
	// happens, the save is reported as a warning on the result.
	components, err := initializeComponents(cfg, logger, debugMode, cfg.Analysis.PersistToStore)
	if err != nil {
		logger.Warn("store unavailable, continuing without persistence", zap.Error(err))
		components, err = initializeComponents(cfg, logger, debugMode, false)
		if err != nil {
			logger.Fatal("Failed to initialize components", zap.Error(err))
		}
	}
	defer components.Close()

	result, err := components.Pipeline.AnalyzeFile(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *exportDir != "" {
		if err := exportArtifacts(export.NewWriter(*exportDir), result, *xlsx); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	}

	if err := cli.WriteAnalysisResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// exportArtifacts writes the text, summary, and CSV artifacts, plus the XLSX
// workbook when asked for. Empty stages write nothing.
func exportArtifacts(writer *export.Writer, result *models.AnalysisResult, xlsx bool) error {
	write := func(fn func(*models.AnalysisResult) (string, error)) error {
		path, err := fn(result)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	if result.Text != "" {
		if err := write(writer.WriteText); err != nil {
			return err
		}
	}
	if len(result.Summary) > 0 {
		if err := write(writer.WriteSummary); err != nil {
			return err
		}
	}
	if result.Dataset != nil && !result.Dataset.Empty() {
		if err := write(writer.WriteCSV); err != nil {
			return err
		}
		if xlsx {
			if err := write(writer.WriteXLSX); err != nil {
				return err
			}
		}
	}
	return nil
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watched files, cache hits, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	// The server runs without a store when the connection fails; the dataset
	// and report endpoints then answer 501 instead of blocking startup.
	components, err := initializeComponents(cfg, logger, debugMode, true)
	if err != nil {
		logger.Warn("store unavailable, dataset and report endpoints disabled", zap.Error(err))
		components, err = initializeComponents(cfg, logger, debugMode, false)
		if err != nil {
			logger.Fatal("Failed to initialize components", zap.Error(err))
		}
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if len(cfg.Watch.Directories) > 0 {
		exportWriter := export.NewWriter(cfg.Export.Directory)
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		p := components.Pipeline
		watchSvc = watcher.NewWatcher(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) {
				result, analyzeErr := p.AnalyzeFile(context.Background(), path)
				if analyzeErr != nil {
					logger.Warn("watch analyze failed", zap.String("path", path), zap.Error(analyzeErr))
					return
				}
				if _, exportErr := exportWriter.WriteAll(result); exportErr != nil {
					logger.Warn("watch export failed", zap.String("path", path), zap.Error(exportErr))
				}
				logger.Info("watched document analyzed",
					zap.String("path", path),
					zap.Int("summary_sentences", len(result.Summary)),
					zap.Int("warnings", len(result.Warnings)))
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		watchSvc.SyncExistingFiles()
	}

	srv := server.NewServer(components.Pipeline, components.Store, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchSvc != nil {
		watchSvc.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runDataset() {
	fs := flag.NewFlagSet("dataset", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := outputFormatFromFlag(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ds := readStoredDataset(*configPath)
	if err := cli.WriteDataset(os.Stdout, ds, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runReport() {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := outputFormatFromFlag(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ds := readStoredDataset(*configPath)
	report := invoice.NewAnalyzer().Analyze(ds)
	if err := cli.WriteReport(os.Stdout, report, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// readStoredDataset connects to the configured store and reads back the
// persisted dataset. Unlike analysis, these commands exist only to inspect
// the store, so a connection failure is fatal.
func readStoredDataset(configPath string) *models.Dataset {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.NewSQLStore(storeParams(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ds, err := store.ReadAll(context.Background(), cfg.Store.Table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
		os.Exit(1)
	}
	return ds
}

// Components holds initialized services.
type Components struct {
	Store    storage.Store
	Pipeline *pipeline.Pipeline
}

func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool, withStore bool) (*Components, error) {
	pipeOpts := []pipeline.Option{}
	if debug && logger != nil {
		pipeOpts = append(pipeOpts, pipeline.WithLogger(logger))
	}

	var store storage.Store
	if withStore {
		s, err := storage.NewSQLStore(storeParams(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
		store = s
		pipeOpts = append(pipeOpts, pipeline.WithStore(store))
	}

	return &Components{
		Store:    store,
		Pipeline: pipeline.New(cfg, pipeOpts...),
	}, nil
}

func printUsage() {
	fmt.Println(`yomitori - Invoice and document analytics

Usage:
  yomitori analyze [flags] <file>  Analyze a document (summary, keywords, stats, tables)
  yomitori serve [flags]           Start the HTTP server
  yomitori dataset [flags]         Show the persisted dataset
  yomitori report [flags]          Show per-column aggregates over the persisted dataset
  yomitori version                 Show version
  yomitori help                    Show this help

Analyze Flags:
  --config string       Config file path (default: /usr/local/etc/yomitori/config.yaml)
  --output string       Output format: text or json (default: text)
  --export-dir string   Write text, summary, and CSV artifacts to this directory
  --xlsx                Also write the table as XLSX when exporting
  --persist             Save the extracted dataset to the store (full replace)
  --max-sentences int   Maximum summary sentences, 3-10 (0 = use config)
  --top-keywords int    Number of ranked keywords, 5-20 (0 = use config)
  --debug               Enable debug logging (pipeline stages, store writes)

Serve Flags:
  --config string    Config file path
  --debug            Enable debug logging (watched files, cache hits, etc.)

Dataset/Report Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

Examples:
  yomitori analyze invoice.pdf
  yomitori analyze --max-sentences 3 --output json invoice.pdf
  yomitori analyze --persist --export-dir ./exports --xlsx invoice.pdf
  yomitori serve
  yomitori dataset --output json
  yomitori report`)
}
