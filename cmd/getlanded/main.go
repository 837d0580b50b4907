// Package main is the GetLanded CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Shameer29/GetLandedATS--sub001/internal/analyzer"
	"github.com/Shameer29/GetLandedATS--sub001/internal/cli"
	"github.com/Shameer29/GetLandedATS--sub001/internal/config"
	"github.com/Shameer29/GetLandedATS--sub001/internal/report"
	"github.com/Shameer29/GetLandedATS--sub001/internal/scoring"
	"github.com/Shameer29/GetLandedATS--sub001/internal/search"
	"github.com/Shameer29/GetLandedATS--sub001/internal/server"
	"github.com/Shameer29/GetLandedATS--sub001/internal/storage"
	"github.com/Shameer29/GetLandedATS--sub001/internal/watcher"
	"github.com/Shameer29/GetLandedATS--sub001/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/getlanded/config.yaml"

// exportBatchLimit bounds how many analyses one export pulls from storage.
const exportBatchLimit = 10000

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "getlanded server" from the project dir uses the
// project's config (including debug). Returns the config and the path that
// was actually loaded.
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
	// Load .env file if it exists
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "analyze":
		runAnalyze()
	case "parse":
		runParse()
	case "export":
		runExport()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("getlanded version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (screened files, analysis events, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
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

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if len(cfg.Watch.Directories) > 0 {
		watchSvc, err = startScreening(watchCtx, cfg, components.Analyzer, logger, debugMode)
		if err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(
		components.Analyzer,
		components.Storage,
		components.Index,
		components.Scorer,
		cfg,
		logger,
		version,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
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

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jobFile := fs.String("job", "", "path to a plain-text job description file")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: getlanded analyze [flags] <resume.pdf|resume.docx>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	job, err := loadJobFile(*jobFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	analysis, err := components.Analyzer.AnalyzeFile(context.Background(), path, job)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	if err := cli.WriteAnalysis(os.Stdout, analysis, cli.OutputFormat(*outputFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runParse() {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	outputFormat := fs.String("output", "json", "output format: json or text")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: getlanded parse [flags] <resume.pdf|resume.docx>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	// Parsing needs no storage, index, or scorer.
	an := analyzer.NewAnalyzer(nil, nil, nil)
	resume, err := an.ParseFile(context.Background(), path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	if err := cli.WriteResume(os.Stdout, resume, cli.OutputFormat(*outputFormat)); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage when server is not running)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: getlanded export [flags] <out.xlsx>")
		os.Exit(1)
	}
	outPath := fs.Arg(0)

	if *serverURL != "" {
		// Use HTTP API when server is running (avoids Bleve/SQLite lock conflict).
		if err := exportViaHTTP(*serverURL, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported to %s\n", outPath)
		return
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	// Export reads analyses only, so the index and scorer stay untouched.
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	analyses, err := store.ListAnalyses(context.Background(), 0, exportBatchLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list analyses: %v\n", err)
		os.Exit(1)
	}
	if err := report.Save(outPath, analyses); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d analyses to %s\n", len(analyses), outPath)
}

func exportViaHTTP(serverURL, outPath string) error {
	resp, err := http.Get(serverURL + "/api/v1/analyses/export")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Watch.Directories) == 0 {
		fmt.Printf("No watch directories configured; set watch.directories in %s\n", resolvedConfigPath)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	watchSvc, err := startScreening(watchCtx, cfg, components.Analyzer, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	logger.Info("watching for resumes",
		zap.Strings("directories", cfg.Watch.Directories),
		zap.String("job_file", cfg.Watch.JobFile),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchSvc.Stop()
	watchCancel()
}

// startScreening starts the directory watcher feeding dropped resumes through
// the analyzer against the job description configured in watch.job_file.
func startScreening(ctx context.Context, cfg *config.Config, an *analyzer.Analyzer, logger *zap.Logger, debug bool) (*watcher.Watcher, error) {
	job, err := loadJobFile(cfg.Watch.JobFile)
	if err != nil {
		return nil, err
	}
	opts := []watcher.Option{}
	if debug {
		opts = append(opts, watcher.WithLogger(logger))
	}
	if cfg.Watch.DebounceMS > 0 {
		opts = append(opts, watcher.WithDebounce(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond))
	}
	watchSvc := watcher.NewWatcher(cfg.Watch.Directories, func(path string) {
		analysis, err := an.AnalyzeFile(context.Background(), path, job)
		if err != nil {
			logger.Warn("screening failed", zap.String("path", path), zap.Error(err))
			return
		}
		logger.Info("resume screened",
			zap.String("path", path),
			zap.String("id", analysis.ID),
			zap.Bool("scored", analysis.Score != nil),
		)
	}, opts...)
	if err := watchSvc.Start(ctx); err != nil {
		return nil, err
	}
	watchSvc.SyncExisting()
	return watchSvc, nil
}

// loadJobFile reads the screening job description. An empty path is allowed;
// resumes are then parsed and stored without keyword or score reports.
func loadJobFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	MaxFileSize     int64  `json:"max_file_size,omitempty"`
	DatabasePath    string `json:"database_path,omitempty"`
	SearchIndexPath string `json:"search_index_path,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Analyses       int64                 `json:"analyses"`
	IndexedResumes uint64                `json:"indexed_resumes"`
	ScoringModel   string                `json:"scoring_model"`
	UptimeSeconds  int64                 `json:"uptime_seconds,omitempty"`
	Version        string                `json:"version,omitempty"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		debugMode := cfg.Debug
		logger, err := utils.NewLogger(debugMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		components, err := initializeComponents(cfg, logger, debugMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
			os.Exit(1)
		}
		defer components.Close()
		ctx := context.Background()
		analysisCount, err := components.Storage.CountAnalyses(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count analyses failed: %v\n", err)
			os.Exit(1)
		}
		indexed, err := components.Index.DocCount()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Index doc count failed: %v\n", err)
			os.Exit(1)
		}
		model := "disabled"
		if components.Scorer != nil {
			model = components.Scorer.Model()
		}
		status = statusResponse{
			Analyses:       analysisCount,
			IndexedResumes: indexed,
			ScoringModel:   model,
			Config: &statusConfigResponse{
				MaxFileSize:     cfg.Parser.MaxFileSize,
				DatabasePath:    cfg.Storage.DatabasePath,
				SearchIndexPath: cfg.Storage.SearchIndexPath,
			},
		}
		diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.SearchIndexPath)
		if err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("analyses:           %d   # stored resume analyses\n", status.Analyses)
		fmt.Printf("indexed_resumes:    %d   # resumes in the candidate search index\n", status.IndexedResumes)
		fmt.Printf("scoring_model:      %s\n", status.ScoringModel)
		if status.UptimeSeconds > 0 {
			fmt.Printf("uptime_seconds:     %d\n", status.UptimeSeconds)
		}
		if status.Version != "" {
			fmt.Printf("version:            %s\n", status.Version)
		}
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d   # database + search index on disk\n", *status.DiskUsageBytes)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			if status.Config.MaxFileSize > 0 {
				fmt.Printf("max_file_size:      %d\n", status.Config.MaxFileSize)
			}
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:      %s\n", status.Config.DatabasePath)
			}
			if status.Config.SearchIndexPath != "" {
				fmt.Printf("search_index_path:  %s\n", status.Config.SearchIndexPath)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Components holds initialized services.
type Components struct {
	Storage  storage.Storage
	Index    search.CandidateIndex
	Scorer   scoring.Scorer
	Analyzer *analyzer.Analyzer
}

func (c *Components) Close() {
	if c.Scorer != nil {
		_ = c.Scorer.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	idx, err := search.NewBleveIndex(cfg.Storage.SearchIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize candidate index: %w", err)
	}

	var scorer scoring.Scorer
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gemini, err := scoring.NewGeminiScorer(context.Background(), apiKey, cfg.Scoring.Model, cfg.Scoring.Temperature)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize scorer: %w", err)
		}
		scorer = gemini
		if logger != nil {
			logger.Info("scoring enabled", zap.String("model", gemini.Model()))
		}
	} else if logger != nil {
		logger.Warn("GEMINI_API_KEY not set, analyses will be unscored")
	}

	anOpts := []analyzer.Option{analyzer.WithMaxFileSize(cfg.Parser.MaxFileSize)}
	if debug && logger != nil {
		anOpts = append(anOpts, analyzer.WithLogger(logger))
	}
	an := analyzer.NewAnalyzer(store, idx, scorer, anOpts...)

	return &Components{
		Storage:  store,
		Index:    idx,
		Scorer:   scorer,
		Analyzer: an,
	}, nil
}

func printUsage() {
	fmt.Println(`getlanded - Resume analysis and scoring for applicant tracking

Usage:
  getlanded server [flags]            Start the HTTP server
  getlanded analyze [flags] <file>    Analyze a resume against a job description
  getlanded parse [flags] <file>      Parse a resume without storing anything
  getlanded export [flags] <out>      Export stored analyses to an xlsx workbook
  getlanded watch [flags]             Screen resumes dropped into watched directories
  getlanded status [flags]            Show storage/index/scoring status
  getlanded version                   Show version
  getlanded help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/getlanded/config.yaml)
  --debug            Enable debug logging (screened files, analysis events, etc.)

Analyze Flags:
  --config string    Config file path
  --job string       Path to a plain-text job description file
  --output string    Output format: text or json (default: text)

Parse Flags:
  --output string    Output format: json or text (default: json)

Export Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.

Watch Flags:
  --config string    Config file path
  --debug            Enable debug logging

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Scoring:
  Set GEMINI_API_KEY (environment or .env file) to enable LLM scoring.
  Without it, analyses carry keyword and anchor reports but no score.

Examples:
  getlanded server
  getlanded analyze --job posting.txt resume.pdf
  getlanded analyze --output json --job posting.txt resume.docx
  getlanded parse resume.docx
  getlanded export analyses.xlsx
  getlanded watch
  getlanded status --output json`)
}
