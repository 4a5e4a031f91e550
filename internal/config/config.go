package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultGraphURL   = "https://roadmap.sh/ai-engineer.json"
	defaultListingURL = "https://api.github.com/repos/kamranahmedse/developer-roadmap/contents/src/data/roadmaps/ai-engineer/content"
	defaultRawBaseURL = "https://raw.githubusercontent.com/kamranahmedse/developer-roadmap/master/src/data/roadmaps/ai-engineer/content"
	defaultOutputDir  = "ai-engineer-roadmap"
	defaultTitle      = "AI Engineer Roadmap"
	defaultSourceURL  = "https://roadmap.sh/ai-engineer"

	defaultWorkers          = 5
	defaultRequestDelay     = 200 * time.Millisecond
	defaultRequestTimeout   = 30 * time.Second
	defaultSectionThreshold = 300
)

type Config struct {
	// Upstream endpoints
	GraphURL    string
	ListingURL  string
	RawBaseURL  string
	GitHubToken string

	// Output
	OutputDir string
	Title     string
	SourceURL string

	// Download pool
	Workers        int
	RequestDelay   time.Duration
	RequestTimeout time.Duration

	// Clustering
	SectionThreshold float64
	SectionNames     []string // Nil means the built-in table.

	// Optional preview server, e.g. ":8090". Empty disables it.
	PreviewAddr string

	LogLevel  string
	LogFormat string // "text" or "json"
}

// fileConfig mirrors Config for the optional YAML file.
type fileConfig struct {
	GraphURL         string   `yaml:"graph_url"`
	ListingURL       string   `yaml:"listing_url"`
	RawBaseURL       string   `yaml:"raw_base_url"`
	OutputDir        string   `yaml:"output_dir"`
	Title            string   `yaml:"title"`
	SourceURL        string   `yaml:"source_url"`
	Workers          int      `yaml:"workers"`
	RequestDelay     string   `yaml:"request_delay"`
	RequestTimeout   string   `yaml:"request_timeout"`
	SectionThreshold float64  `yaml:"section_threshold"`
	SectionNames     []string `yaml:"section_names"`
	PreviewAddr      string   `yaml:"preview_addr"`
	LogLevel         string   `yaml:"log_level"`
	LogFormat        string   `yaml:"log_format"`
}

// Defaults returns the configuration for the roadmap.sh AI Engineer roadmap.
func Defaults() Config {
	return Config{
		GraphURL:         defaultGraphURL,
		ListingURL:       defaultListingURL,
		RawBaseURL:       defaultRawBaseURL,
		OutputDir:        defaultOutputDir,
		Title:            defaultTitle,
		SourceURL:        defaultSourceURL,
		Workers:          defaultWorkers,
		RequestDelay:     defaultRequestDelay,
		RequestTimeout:   defaultRequestTimeout,
		SectionThreshold: defaultSectionThreshold,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// ROADMAP_CONFIG (if any), then environment variables.
func Load() (Config, error) {
	cfg := Defaults()

	if path := os.Getenv("ROADMAP_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.GraphURL = envOr("ROADMAP_GRAPH_URL", cfg.GraphURL)
	cfg.ListingURL = envOr("ROADMAP_LISTING_URL", cfg.ListingURL)
	cfg.RawBaseURL = envOr("ROADMAP_RAW_BASE_URL", cfg.RawBaseURL)
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")

	cfg.OutputDir = envOr("ROADMAP_OUTPUT_DIR", cfg.OutputDir)

	cfg.Workers = envInt("ROADMAP_WORKERS", cfg.Workers)
	cfg.RequestDelay = envDuration("ROADMAP_REQUEST_DELAY", cfg.RequestDelay)
	cfg.RequestTimeout = envDuration("ROADMAP_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.SectionThreshold = envFloat("ROADMAP_SECTION_THRESHOLD", cfg.SectionThreshold)

	cfg.PreviewAddr = envOr("ROADMAP_PREVIEW_ADDR", cfg.PreviewAddr)
	cfg.LogLevel = envOr("ROADMAP_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOr("ROADMAP_LOG_FORMAT", cfg.LogFormat)

	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.RequestDelay < 0 {
		cfg.RequestDelay = 0
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.SectionThreshold <= 0 {
		cfg.SectionThreshold = defaultSectionThreshold
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&c.GraphURL, fc.GraphURL)
	setString(&c.ListingURL, fc.ListingURL)
	setString(&c.RawBaseURL, fc.RawBaseURL)
	setString(&c.OutputDir, fc.OutputDir)
	setString(&c.Title, fc.Title)
	setString(&c.SourceURL, fc.SourceURL)
	setString(&c.PreviewAddr, fc.PreviewAddr)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.LogFormat, fc.LogFormat)

	if fc.Workers > 0 {
		c.Workers = fc.Workers
	}
	if fc.SectionThreshold > 0 {
		c.SectionThreshold = fc.SectionThreshold
	}
	if fc.SectionNames != nil {
		c.SectionNames = fc.SectionNames
	}
	if fc.RequestDelay != "" {
		d, err := time.ParseDuration(fc.RequestDelay)
		if err != nil {
			return fmt.Errorf("parse config %s: request_delay: %w", path, err)
		}
		c.RequestDelay = d
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("parse config %s: request_timeout: %w", path, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

func (c Config) Validate() error {
	if c.GraphURL == "" {
		return fmt.Errorf("ROADMAP_GRAPH_URL is required")
	}
	if c.ListingURL == "" {
		return fmt.Errorf("ROADMAP_LISTING_URL is required")
	}
	if c.RawBaseURL == "" {
		return fmt.Errorf("ROADMAP_RAW_BASE_URL is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("ROADMAP_OUTPUT_DIR is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("ROADMAP_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return lvl, fmt.Errorf("ROADMAP_LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
