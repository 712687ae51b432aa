package scraper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/shivani7798/go-jobspy/config"
)

// retrier re-visits failed search pages with capped exponential
// backoff. Each URL gets at most cfg.MaxRetries attempts.
type retrier struct {
	collector *colly.Collector
	cfg       *config.Config
	metrics   *Metrics
	ctx       context.Context

	mu           sync.Mutex
	attempts     map[string]int
	timers       map[string]*time.Timer
	totalRetries int
	stopped      bool
}

func newRetrier(collector *colly.Collector, cfg *config.Config, metrics *Metrics) *retrier {
	return &retrier{
		collector: collector,
		cfg:       cfg,
		metrics:   metrics,
		attempts:  make(map[string]int),
		timers:    make(map[string]*time.Timer),
		ctx:       context.Background(),
	}
}

// Schedule queues another attempt for url. It returns false once the
// retry budget for that URL is spent or the run is shutting down.
func (r *retrier) Schedule(url string) bool {
	if r.cfg.MaxRetries == 0 || url == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped || (r.ctx != nil && r.ctx.Err() != nil) {
		return false
	}

	attempt := r.attempts[url]
	if attempt >= r.cfg.MaxRetries {
		return false
	}
	attempt++
	r.attempts[url] = attempt
	r.totalRetries++
	r.metrics.IncRetries()

	if timer, ok := r.timers[url]; ok {
		timer.Stop()
	}
	r.timers[url] = time.AfterFunc(r.backoff(attempt), func() {
		r.fire(url)
	})
	return true
}

func (r *retrier) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	base := r.cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	delay := base * time.Duration(1<<(attempt-1))
	if max := r.cfg.RetryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay
}

func (r *retrier) fire(url string) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	ctx := r.ctx
	delete(r.timers, url)
	r.mu.Unlock()

	if ctx != nil && ctx.Err() != nil {
		return
	}
	if err := r.collector.Visit(url); err != nil {
		slog.Debug("retry visit failed", slog.String("url", url), slog.Any("error", err))
	}
}

// Stop cancels every pending retry timer.
func (r *retrier) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	for url, timer := range r.timers {
		timer.Stop()
		delete(r.timers, url)
	}
}

// TotalRetries reports how many retries were scheduled during the run.
func (r *retrier) TotalRetries() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalRetries
}

// SetContext attaches the run context so pending retries stop firing
// after cancellation.
func (r *retrier) SetContext(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	r.ctx = ctx
}
