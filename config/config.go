package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Config holds scrape and report configuration.
type Config struct {
	SearchTerm     string
	Location       string
	Sites          []string
	ResultsPerSite int
	CountryCode    string

	Parallelism     int
	Delay           time.Duration
	RandomDelay     time.Duration
	Timeout         time.Duration
	MaxRetries      int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration

	OutputDir    string
	ExportFormat string // none, csv, json, or dual
	UserAgent    string
	Verbose      bool
	MetricsAddr  string

	PipelineBufferSize int
	BatchSize          int
	DedupCacheSize     int
}

// DefaultConfig returns the defaults of the original report script.
func DefaultConfig() *Config {
	return &Config{
		SearchTerm:         "Data Engineer",
		Location:           "United Kingdom",
		Sites:              []string{"indeed", "linkedin", "glassdoor"},
		ResultsPerSite:     50,
		CountryCode:        "UK",
		Parallelism:        4,
		Delay:              0,
		RandomDelay:        0,
		Timeout:            10 * time.Second,
		MaxRetries:         2,
		RetryBackoff:       200 * time.Millisecond,
		RetryBackoffMax:    2 * time.Second,
		OutputDir:          "",
		ExportFormat:       "none",
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		Verbose:            false,
		MetricsAddr:        "",
		PipelineBufferSize: 512,
		BatchSize:          64,
		DedupCacheSize:     10000,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SearchTerm) == "" {
		return fmt.Errorf("search term cannot be empty")
	}
	if strings.TrimSpace(c.Location) == "" {
		return fmt.Errorf("location cannot be empty")
	}
	if len(c.Sites) == 0 {
		return fmt.Errorf("at least one site is required")
	}
	for _, site := range c.Sites {
		if strings.TrimSpace(site) == "" {
			return fmt.Errorf("site names cannot be empty")
		}
	}
	if c.ResultsPerSite <= 0 {
		return fmt.Errorf("results per site must be positive")
	}
	if strings.TrimSpace(c.CountryCode) == "" {
		return fmt.Errorf("country code cannot be empty")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	switch c.ExportFormat {
	case "none", "csv", "json", "dual":
	default:
		return fmt.Errorf("export format must be none, csv, json, or dual")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.PipelineBufferSize <= 0 {
		return fmt.Errorf("pipeline buffer size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.DedupCacheSize <= 0 {
		return fmt.Errorf("dedup cache size must be positive")
	}
	return nil
}

// Slug returns the search term as a filesystem-friendly prefix,
// e.g. "Data Engineer" -> "data_engineer".
func (c *Config) Slug() string {
	fields := strings.Fields(strings.ToLower(c.SearchTerm))
	return strings.Join(fields, "_")
}

// OutputPath returns the timestamped workbook path for a run started
// at now: <outputDir>/<slug>_jobs_<YYYY-MM-DD_HH-MM-SS>.xlsx. When no
// output directory is configured the slug doubles as the directory.
func (c *Config) OutputPath(now time.Time) string {
	dir := c.OutputDir
	if dir == "" {
		dir = c.Slug()
	}
	name := fmt.Sprintf("%s_jobs_%s.xlsx", c.Slug(), now.Format("2006-01-02_15-04-05"))
	return filepath.Join(dir, name)
}

// CurrencySymbol returns the report currency for the configured
// country. The original report hardcoded sterling; that stays the
// fallback.
func (c *Config) CurrencySymbol() string {
	switch strings.ToUpper(strings.TrimSpace(c.CountryCode)) {
	case "US", "USA":
		return "$"
	case "EU":
		return "€"
	default:
		return "£"
	}
}
