package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Output formats accepted by Validate.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatDual     = "dual"
	FormatDocument = "document"
)

// Config holds scraper configuration. It is passed explicitly to every
// component that needs it.
type Config struct {
	BaseURL           string
	SearchURLTemplate string // {query} and {page} are substituted
	Query             string
	MaxPages          int
	Parallelism       int
	Delay             time.Duration
	RandomDelay       time.Duration
	Timeout           time.Duration
	MaxRetries        int
	RetryBackoff      time.Duration
	RetryBackoffMax   time.Duration
	OutputFile        string
	OutputFormat      string // csv, json, dual, or document
	UserAgent         string
	RandomUserAgent   bool // rotate browser user agents per request
	Headers           map[string]string
	Cookies           map[string]string
	ProxyURL          string
	Verbose           bool
	RespectRobotsTxt  bool

	BatchSize          int
	PipelineBufferSize int
	DedupeMaxSize      int
	MaxContainers      int
	MetricsAddr        string
}

// DefaultConfig returns conservative defaults for an Amazon search crawl.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "https://www.amazon.com",
		SearchURLTemplate: "https://www.amazon.com/s?k={query}&page={page}",
		Query:             "recliner chair",
		MaxPages:          3,
		Parallelism:       2,
		Delay:             time.Second,
		RandomDelay:       500 * time.Millisecond,
		Timeout:           15 * time.Second,
		MaxRetries:        2,
		RetryBackoff:      500 * time.Millisecond,
		RetryBackoffMax:   5 * time.Second,
		OutputFile:        "output/products.json",
		OutputFormat:      FormatDocument,
		UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		Headers: map[string]string{
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		Cookies:          map[string]string{},
		Verbose:          false,
		RespectRobotsTxt: false,

		BatchSize:          64,
		PipelineBufferSize: 512,
		DedupeMaxSize:      10000,
		MaxContainers:      0,
		MetricsAddr:        "",
	}
}

// SearchURL renders the search URL for a 1-based results page.
func (c *Config) SearchURL(page int) string {
	return strings.NewReplacer(
		"{query}", url.QueryEscape(c.Query),
		"{page}", strconv.Itoa(page),
	).Replace(c.SearchURLTemplate)
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.SearchURLTemplate == "" {
		return fmt.Errorf("search URL template cannot be empty")
	}
	if !strings.Contains(c.SearchURLTemplate, "{page}") {
		return fmt.Errorf("search URL template must contain {page}")
	}
	if strings.Contains(c.SearchURLTemplate, "{query}") && strings.TrimSpace(c.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}
	if c.ProxyURL != "" {
		proxy, err := url.Parse(c.ProxyURL)
		if err != nil || proxy.Host == "" {
			return fmt.Errorf("invalid proxy URL %q", c.ProxyURL)
		}
	}

	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
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
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	switch c.OutputFormat {
	case FormatCSV, FormatJSON, FormatDual, FormatDocument:
	default:
		return fmt.Errorf("output format must be csv, json, dual, or document")
	}
	if c.UserAgent == "" && !c.RandomUserAgent {
		return fmt.Errorf("user agent cannot be empty")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.PipelineBufferSize < 0 {
		return fmt.Errorf("pipeline buffer size cannot be negative")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	if c.MaxContainers < 0 {
		return fmt.Errorf("max containers cannot be negative")
	}

	return nil
}
