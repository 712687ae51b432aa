package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"
	"unicode"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shivani7798/go-jobspy/config"
	"github.com/shivani7798/go-jobspy/models"
	"github.com/shivani7798/go-jobspy/pipeline"
	"github.com/shivani7798/go-jobspy/report"
	"github.com/shivani7798/go-jobspy/scraper"
)

func main() {
	defaultCfg := config.DefaultConfig()
	searchDefault := defaultCfg.SearchTerm
	if value, ok := config.EnvString("JOBSPY_SEARCH"); ok {
		searchDefault = value
	}
	locationDefault := defaultCfg.Location
	if value, ok := config.EnvString("JOBSPY_LOCATION"); ok {
		locationDefault = value
	}
	resultsDefault := defaultCfg.ResultsPerSite
	if value, ok, err := config.EnvInt("JOBSPY_RESULTS"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid JOBSPY_RESULTS: %v\n", err)
		os.Exit(1)
	} else if ok {
		resultsDefault = value
	}
	outputDefault := defaultCfg.OutputDir
	if value, ok := config.EnvString("JOBSPY_OUTPUT_DIR"); ok {
		outputDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("JOBSPY_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	searchTerm := flag.String("search", searchDefault, "Search term")
	location := flag.String("location", locationDefault, "Search location")
	sites := flag.String("sites", strings.Join(defaultCfg.Sites, ","), "Comma-separated job sites to query")
	results := flag.Int("results", resultsDefault, "Results wanted per site")
	country := flag.String("country", defaultCfg.CountryCode, "Country code for site domains and currency")
	outputDir := flag.String("output-dir", outputDefault, "Report output directory (defaults to the search-term slug)")
	exportFormat := flag.String("export", defaultCfg.ExportFormat, "Extra flat export alongside the workbook: none, csv, json, or dual")
	parallelism := flag.Int("parallel", defaultCfg.Parallelism, "Number of concurrent requests")
	delayMs := flag.Int("delay", 0, "Delay between requests (milliseconds)")
	randomDelayMs := flag.Int("random-delay", 0, "Random jitter added to delay (milliseconds)")
	maxRetries := flag.Int("max-retries", defaultCfg.MaxRetries, "Maximum retry attempts per search page")
	retryBackoffMs := flag.Int("retry-backoff", 200, "Initial retry backoff (milliseconds)")
	retryBackoffMaxMs := flag.Int("retry-backoff-max", 2000, "Maximum retry backoff (milliseconds)")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.SearchTerm = *searchTerm
	cfg.Location = *location
	cfg.Sites = splitSites(*sites)
	cfg.ResultsPerSite = *results
	cfg.CountryCode = *country
	cfg.OutputDir = *outputDir
	cfg.ExportFormat = strings.ToLower(*exportFormat)
	cfg.Parallelism = *parallelism
	cfg.Delay = time.Duration(*delayMs) * time.Millisecond
	cfg.RandomDelay = time.Duration(*randomDelayMs) * time.Millisecond
	cfg.MaxRetries = *maxRetries
	cfg.RetryBackoff = time.Duration(*retryBackoffMs) * time.Millisecond
	cfg.RetryBackoffMax = time.Duration(*retryBackoffMaxMs) * time.Millisecond
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("Searching for %s jobs in %s...\n", cfg.SearchTerm, cfg.Location)
	fmt.Printf("Results per site: %d\n", cfg.ResultsPerSite)

	s, err := scraper.NewScraper(cfg)
	if err != nil {
		slog.Error("initialising scraper", slog.Any("error", err))
		os.Exit(1)
	}

	table := pipeline.NewTableWriter()
	writer, err := createWriter(cfg, table)
	if err != nil {
		slog.Error("creating writer", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, waiting for in-flight work to finish")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && s.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	p := pipeline.NewPipeline(ctx, writer, cfg)
	p.Start(cfg.Parallelism)
	if cfg.Verbose {
		p.StartMetricsReporting(10 * time.Second)
	}

	startTime := time.Now()
	result, err := s.Run(ctx, p)
	if err != nil {
		slog.Error("scraping failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := p.Close(); err != nil {
		slog.Error("pipeline shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := writer.Validate(); err != nil {
		slog.Error("output validation failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := writer.Close(); err != nil {
		slog.Error("close writer", slog.Any("error", err))
		os.Exit(1)
	}

	jobs := table.Table()
	fmt.Printf("Found %d jobs\n", len(jobs))

	outputPath := cfg.OutputPath(startTime)
	builder := report.NewBuilder(jobs, cfg.CurrencySymbol())
	if err := builder.Write(outputPath); err != nil {
		slog.Error("writing workbook failed", slog.Any("error", err))
		os.Exit(1)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, jobs, time.Since(startTime), outputPath)
}

func splitSites(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(strings.ToLower(part)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// createWriter composes the in-memory table collector with any flat
// export the user asked for.
func createWriter(cfg *config.Config, table *pipeline.TableWriter) (pipeline.OutputWriter, error) {
	if cfg.ExportFormat == "none" {
		return table, nil
	}

	base := filepath.Join(exportDir(cfg), cfg.Slug()+"_jobs")
	writers := []pipeline.OutputWriter{table}
	switch cfg.ExportFormat {
	case "csv":
		w, err := pipeline.NewCSVWriter(base + ".csv")
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	case "json":
		w, err := pipeline.NewJSONWriter(base + ".jsonl")
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	case "dual":
		cw, err := pipeline.NewCSVWriter(base + ".csv")
		if err != nil {
			return nil, err
		}
		jw, err := pipeline.NewJSONWriter(base + ".jsonl")
		if err != nil {
			cw.Close()
			return nil, err
		}
		writers = append(writers, cw, jw)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", cfg.ExportFormat)
	}
	return pipeline.NewTeeWriter(writers...)
}

func exportDir(cfg *config.Config) string {
	if cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return cfg.Slug()
}

func printSummary(result *models.FetchResult, jobs models.Table, duration time.Duration, outputPath string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Report created successfully")
	fmt.Printf("  File:          %s\n", outputPath)
	fmt.Printf("  Total jobs:    %d\n", len(jobs))
	fmt.Printf("  Requests:      %d\n", result.RequestCount)
	fmt.Printf("  Errors:        %d\n", result.ErrorCount)
	fmt.Printf("  Retries:       %d\n", result.RetryCount)
	if len(result.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", result.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", duration)
	fmt.Println("  Sheets:")
	fmt.Println("   - Summary (statistics)")
	fmt.Printf("   - All Jobs (%d jobs)\n", len(jobs))
	for _, site := range jobs.Sites() {
		fmt.Printf("   - %s (%d jobs)\n", titleCase(site), len(jobs.BySite(site)))
	}
	fmt.Println(separator)
}

func titleCase(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
