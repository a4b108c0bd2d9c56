package scraper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-scrape-products/config"
)

// retryManager re-visits failed search pages with capped exponential
// backoff. Pending retries are counted so the scraper does not finish
// while a timer is still waiting to fire.
type retryManager struct {
	collector *colly.Collector
	cfg       *config.Config
	metrics   *Metrics
	ctx       context.Context

	mu           sync.Mutex
	idle         *sync.Cond
	attempts     map[string]int
	timers       map[string]*time.Timer
	pending      int
	totalRetries int
	stopped      bool
}

func newRetryManager(collector *colly.Collector, cfg *config.Config, metrics *Metrics) *retryManager {
	rm := &retryManager{
		collector: collector,
		cfg:       cfg,
		attempts:  make(map[string]int),
		timers:    make(map[string]*time.Timer),
		metrics:   metrics,
		ctx:       context.Background(),
	}
	rm.idle = sync.NewCond(&rm.mu)
	return rm
}

// Schedule arranges another visit of url. It returns false once url has
// used up its retries or the manager has stopped.
func (rm *retryManager) Schedule(url string) bool {
	if rm.cfg.MaxRetries == 0 {
		return false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.stopped || rm.ctx.Err() != nil {
		return false
	}

	attempt := rm.attempts[url]
	if attempt >= rm.cfg.MaxRetries {
		return false
	}

	attempt++
	rm.attempts[url] = attempt
	rm.totalRetries++
	if rm.metrics != nil {
		rm.metrics.IncRetries()
	}

	if timer, ok := rm.timers[url]; ok && timer.Stop() {
		rm.doneLocked()
	}
	rm.pending++
	rm.timers[url] = time.AfterFunc(rm.backoff(attempt), func() {
		rm.fire(url)
	})
	return true
}

func (rm *retryManager) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	base := rm.cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	delay := base * time.Duration(1<<(attempt-1))
	if max := rm.cfg.RetryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay
}

func (rm *retryManager) fire(url string) {
	rm.mu.Lock()
	delete(rm.timers, url)
	ctx, stopped := rm.ctx, rm.stopped
	rm.mu.Unlock()

	// Visit registers the request with the collector before the pending
	// count drops, so Wait callers never see a gap.
	if !stopped && ctx.Err() == nil {
		if err := rm.collector.Visit(url); err != nil {
			slog.Debug("retry visit failed", slog.String("url", url), slog.Any("error", err))
		}
	}

	rm.mu.Lock()
	rm.doneLocked()
	rm.mu.Unlock()
}

func (rm *retryManager) doneLocked() {
	if rm.pending > 0 {
		rm.pending--
	}
	if rm.pending == 0 {
		rm.idle.Broadcast()
	}
}

// Pending reports how many retries are waiting to fire.
func (rm *retryManager) Pending() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.pending
}

// Wait blocks until every scheduled retry has fired or been cancelled.
func (rm *retryManager) Wait() {
	rm.mu.Lock()
	for rm.pending > 0 {
		rm.idle.Wait()
	}
	rm.mu.Unlock()
}

// Stop cancels all pending retries. Further Schedule calls are refused.
func (rm *retryManager) Stop() {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.stopped {
		return
	}

	rm.stopped = true
	for url, timer := range rm.timers {
		if timer.Stop() {
			rm.doneLocked()
		}
		delete(rm.timers, url)
	}
}

func (rm *retryManager) TotalRetries() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.totalRetries
}

func (rm *retryManager) SetContext(ctx context.Context) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if ctx == nil {
		rm.ctx = context.Background()
		return
	}
	rm.ctx = ctx
}
