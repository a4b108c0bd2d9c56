package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"

	"github.com/aluiziolira/go-scrape-products/config"
	"github.com/aluiziolira/go-scrape-products/extract"
	"github.com/aluiziolira/go-scrape-products/models"
	"github.com/aluiziolira/go-scrape-products/pipeline"
)

// Scraper fetches search result pages with colly and feeds the records
// extracted from each page into a pipeline.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	retry     *retryManager
	parser    *extract.Parser
	Metrics   *Metrics

	requestCount   int64
	pageCount      int64
	errorCount     int64
	containersSeen int64
	recordsParsed  int64
	itemErrors     int64

	// pages maps a visited URL to its 1-based results page so retries
	// keep their page number.
	pages sync.Map

	mu           sync.Mutex
	failedURLs   []string
	errorsByType map[string]int
	itemsByKind  map[string]int

	handlersOnce sync.Once
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}
	search, err := url.Parse(cfg.SearchURL(1))
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	domains := []string{parsed.Hostname()}
	if host := search.Hostname(); host != "" && host != parsed.Hostname() {
		domains = append(domains, host)
	}

	proxy := http.ProxyFromEnvironment
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		proxy = http.ProxyURL(proxyURL)
	}

	collector := colly.NewCollector(
		colly.Async(true),
		colly.AllowedDomains(domains...),
		colly.UserAgent(cfg.UserAgent),
	)

	if cfg.RandomUserAgent {
		extensions.RandomUserAgent(collector)
	}
	extensions.Referer(collector)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	// Retries revisit the failed URL.
	collector.AllowURLRevisit = true
	collector.WithTransport(&http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Parallelism,
		Delay:       cfg.Delay,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	metrics := NewMetrics()
	s := &Scraper{
		cfg:          cfg,
		collector:    collector,
		parser:       extract.NewParser(slog.Default(), metrics, cfg.MaxContainers),
		errorsByType: make(map[string]int),
		itemsByKind:  make(map[string]int),
		Metrics:      metrics,
	}
	s.retry = newRetryManager(collector, cfg, s.Metrics)
	return s, nil
}

// Run crawls up to cfg.MaxPages search pages and streams records through
// the pipeline.
func (s *Scraper) Run(ctx context.Context, p *pipeline.Pipeline) (*models.ScraperResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.retry.SetContext(ctx)
	s.configureHandlers(ctx, p)

	start := time.Now()
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.collector.Wait()
			s.retry.Stop()
		case <-done:
		}
	}()

	if err := s.visitPage(1); err != nil {
		return nil, fmt.Errorf("initial visit: %w", err)
	}

	s.wait()
	s.retry.Stop()

	result := &models.ScraperResult{
		StartTime:       start,
		EndTime:         time.Now(),
		ErrorCount:      int(atomic.LoadInt64(&s.errorCount)),
		FailedURLs:      s.snapshotFailedURLs(),
		ErrorsByType:    s.snapshotErrors(),
		RetryCount:      s.retry.TotalRetries(),
		RequestCount:    int(atomic.LoadInt64(&s.requestCount)),
		PageCount:       int(atomic.LoadInt64(&s.pageCount)),
		ContainersSeen:  int(atomic.LoadInt64(&s.containersSeen)),
		RecordsParsed:   int(atomic.LoadInt64(&s.recordsParsed)),
		ItemErrors:      int(atomic.LoadInt64(&s.itemErrors)),
		ItemErrorsByKey: s.snapshotItemErrors(),
	}

	if metrics := p.GetMetrics(); metrics != nil {
		if processed, ok := metrics["processed_records"].(int64); ok {
			result.TotalCount = int(processed)
		}
	}

	return result, nil
}

// wait blocks until no request is in flight and no retry is pending.
// A retry fires after the collector may already have gone idle.
func (s *Scraper) wait() {
	for {
		s.collector.Wait()
		if s.retry.Pending() == 0 {
			return
		}
		s.retry.Wait()
	}
}

func (s *Scraper) visitPage(page int) error {
	target := s.cfg.SearchURL(page)
	s.pages.Store(target, page)
	return s.collector.Visit(target)
}

func (s *Scraper) pageFor(u string) int {
	if v, ok := s.pages.Load(u); ok {
		return v.(int)
	}
	return 1
}

func (s *Scraper) configureHandlers(ctx context.Context, p *pipeline.Pipeline) {
	s.handlersOnce.Do(func() {
		s.collector.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			for key, value := range s.cfg.Headers {
				r.Headers.Set(key, value)
			}
			if cookie := cookieHeader(s.cfg.Cookies); cookie != "" {
				r.Headers.Set("Cookie", cookie)
			}
			current := atomic.AddInt64(&s.requestCount, 1)
			if s.Metrics != nil {
				s.Metrics.IncRequest("started")
			}
			slog.Debug("scraper request",
				slog.Int64("requests", current),
				slog.String("url", r.URL.String()),
			)
		})

		s.collector.OnResponse(func(r *colly.Response) {
			if r.StatusCode >= http.StatusBadRequest {
				slog.Error("non-200 response",
					slog.Int("status", r.StatusCode),
					slog.String("url", r.Request.URL.String()),
				)
			}
			if s.Metrics != nil {
				if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
					s.Metrics.ObserveDuration(time.Since(start))
				}
			}
			s.handlePage(ctx, p, r)
		})

		s.collector.OnError(func(r *colly.Response, err error) {
			s.recordFailure(r, err)
		})
	})
}

// recordFailure classifies a failed fetch and hands the URL to the retry
// manager, or records it as failed once retries are exhausted.
func (s *Scraper) recordFailure(r *colly.Response, err error) {
	atomic.AddInt64(&s.errorCount, 1)
	statusCode := 0
	if r != nil {
		statusCode = r.StatusCode
	}
	category := errorTypeLabel(classifyError(err, statusCode))

	s.mu.Lock()
	s.errorsByType[category]++
	s.mu.Unlock()

	url := ""
	if r != nil && r.Request != nil && r.Request.URL != nil {
		url = r.Request.URL.String()
	}
	slog.Error("request error",
		slog.String("url", url),
		slog.String("category", category),
		slog.Any("error", err),
	)
	if s.Metrics != nil {
		s.Metrics.IncError(category)
	}

	if !s.retry.Schedule(url) {
		s.mu.Lock()
		s.failedURLs = append(s.failedURLs, url)
		s.mu.Unlock()
	}
}

// handlePage extracts one results page and schedules the next one while
// pages keep yielding product containers.
func (s *Scraper) handlePage(ctx context.Context, p *pipeline.Pipeline, r *colly.Response) {
	if isBlockedPage(r.Body) {
		s.recordFailure(r, ErrBlocked)
		return
	}
	page := s.pageFor(r.Request.URL.String())
	atomic.AddInt64(&s.pageCount, 1)

	result := s.parser.ParseBatch(r.Body, extract.WithPage(page))
	atomic.AddInt64(&s.containersSeen, int64(result.Containers))
	atomic.AddInt64(&s.recordsParsed, int64(len(result.Records)))

	if len(result.Errors) > 0 {
		atomic.AddInt64(&s.itemErrors, int64(len(result.Errors)))
		s.mu.Lock()
		for _, e := range result.Errors {
			s.itemsByKind[e.Kind]++
		}
		s.mu.Unlock()
	}

	slog.Info("parsed results page",
		slog.Int("page", page),
		slog.String("source", result.Source),
		slog.Int("containers", result.Containers),
		slog.Int("records", len(result.Records)),
		slog.Int("errors", len(result.Errors)),
	)

	if len(result.Records) > 0 {
		if err := p.Process(result.Records...); err != nil {
			if !errors.Is(err, pipeline.ErrPipelineClosed) {
				slog.Error("pipeline process error", slog.Any("error", err))
			}
		} else if s.Metrics != nil {
			s.Metrics.AddItems(len(result.Records))
		}
	}

	if result.Containers == 0 || page >= s.cfg.MaxPages || ctx.Err() != nil {
		return
	}
	if err := s.visitPage(page + 1); err != nil {
		slog.Debug("next page visit skipped", slog.Int("page", page+1), slog.Any("error", err))
	}
}

func cookieHeader(cookies map[string]string) string {
	if len(cookies) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cookies))
	for k := range cookies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+cookies[k])
	}
	return strings.Join(parts, "; ")
}

func (s *Scraper) snapshotFailedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.failedURLs))
	copy(out, s.failedURLs)
	return out
}

func (s *Scraper) snapshotErrors() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.errorsByType))
	for k, v := range s.errorsByType {
		out[k] = v
	}
	return out
}

func (s *Scraper) snapshotItemErrors() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.itemsByKind))
	for k, v := range s.itemsByKind {
		out[k] = v
	}
	return out
}
