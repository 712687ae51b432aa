// Package scraper fetches job listings from the supported job sites.
package scraper

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/shivani7798/go-jobspy/config"
	"github.com/shivani7798/go-jobspy/models"
	"github.com/shivani7798/go-jobspy/pipeline"
)

// Scraper drives one colly collector across every requested site's
// search pages and streams extracted jobs into the pipeline.
type Scraper struct {
	cfg       *config.Config
	collector *colly.Collector
	sources   []Source
	retry     *retrier
	Metrics   *Metrics

	requestCount int64
	pageCount    int64
	errorCount   int64
	itemCount    int64

	mu           sync.Mutex
	siteCounts   map[string]int
	failedURLs   []string
	errorsByType map[string]int

	handlersOnce sync.Once
}

// NewScraper builds a scraper for the sites requested in cfg. Site
// names with no matching source are skipped with a warning; if none
// remain the constructor fails with ErrNoSupportedSites.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	var selected []Source
	var domains []string
	for _, name := range cfg.Sites {
		src, ok := sources[name]
		if !ok {
			slog.Warn("skipping unsupported site", slog.String("site", name))
			continue
		}
		selected = append(selected, src)
		domains = append(domains, src.Domains(cfg.CountryCode)...)
	}
	if len(selected) == 0 {
		return nil, ErrNoSupportedSites
	}

	collector := colly.NewCollector(
		colly.Async(true),
		colly.AllowedDomains(domains...),
		colly.UserAgent(cfg.UserAgent),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = true
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
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
		return nil, &FetchError{Category: CategoryOther, Err: err}
	}

	s := &Scraper{
		cfg:          cfg,
		collector:    collector,
		sources:      selected,
		siteCounts:   make(map[string]int),
		errorsByType: make(map[string]int),
		Metrics:      NewMetrics(),
	}
	s.retry = newRetrier(collector, cfg, s.Metrics)
	return s, nil
}

// Run visits every search page for every selected site and streams
// jobs through the pipeline. It returns ErrNoResults when all pages
// came back empty.
func (s *Scraper) Run(ctx context.Context, p *pipeline.Pipeline) (*models.FetchResult, error) {
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

	var firstVisitErr error
	visited := 0
	for _, src := range s.sources {
		pages := (s.cfg.ResultsPerSite + src.PageSize - 1) / src.PageSize
		for page := 0; page < pages; page++ {
			if ctx.Err() != nil {
				break
			}
			url := src.SearchURL(s.cfg.SearchTerm, s.cfg.Location, s.cfg.CountryCode, page*src.PageSize)
			if err := s.collector.Visit(url); err != nil {
				if firstVisitErr == nil {
					firstVisitErr = err
				}
				slog.Error("visit failed", slog.String("site", src.Name), slog.String("url", url), slog.Any("error", err))
				continue
			}
			visited++
			atomic.AddInt64(&s.pageCount, 1)
		}
	}
	if visited == 0 && firstVisitErr != nil {
		return nil, &FetchError{Category: CategoryOther, Err: firstVisitErr}
	}

	s.collector.Wait()
	s.retry.Stop()

	result := &models.FetchResult{
		StartTime:    start,
		EndTime:      time.Now(),
		TotalCount:   int(atomic.LoadInt64(&s.itemCount)),
		ErrorCount:   int(atomic.LoadInt64(&s.errorCount)),
		FailedURLs:   s.snapshotFailedURLs(),
		ErrorsByType: s.snapshotErrors(),
		RetryCount:   s.retry.TotalRetries(),
		RequestCount: int(atomic.LoadInt64(&s.requestCount)),
		PageCount:    int(atomic.LoadInt64(&s.pageCount)),
	}

	if ctx.Err() == nil && result.TotalCount == 0 {
		return result, ErrNoResults
	}
	return result, nil
}

func (s *Scraper) configureHandlers(ctx context.Context, p *pipeline.Pipeline) {
	s.handlersOnce.Do(func() {
		s.collector.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			current := atomic.AddInt64(&s.requestCount, 1)
			s.Metrics.IncRequest("started")
			if current%10 == 0 {
				slog.Debug("scraper request progress",
					slog.Int64("requests", current),
					slog.Int64("jobs", atomic.LoadInt64(&s.itemCount)),
					slog.String("url", r.URL.String()),
				)
			}
		})

		s.collector.OnResponse(func(r *colly.Response) {
			if r.StatusCode >= http.StatusBadRequest {
				slog.Error("non-200 response",
					slog.Int("status", r.StatusCode),
					slog.String("url", r.Request.URL.String()),
				)
			}
			if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
				s.Metrics.ObserveDuration(time.Since(start))
			}
		})

		s.collector.OnError(func(r *colly.Response, err error) {
			atomic.AddInt64(&s.errorCount, 1)
			statusCode := 0
			url := ""
			if r != nil {
				statusCode = r.StatusCode
				if r.Request != nil && r.Request.URL != nil {
					url = r.Request.URL.String()
				}
			}
			fetchErr := newFetchError(url, err, statusCode)

			s.mu.Lock()
			s.errorsByType[string(fetchErr.Category)]++
			s.mu.Unlock()

			slog.Error("request error",
				slog.String("url", url),
				slog.String("category", string(fetchErr.Category)),
				slog.Any("error", err),
			)
			s.Metrics.IncError(fetchErr.Category)

			if !s.retry.Schedule(url) {
				s.mu.Lock()
				s.failedURLs = append(s.failedURLs, url)
				s.mu.Unlock()
			}
		})

		for _, src := range s.sources {
			src := src
			s.collector.OnHTML(src.CardSelector, func(e *colly.HTMLElement) {
				if ctx.Err() != nil {
					return
				}
				if !s.reserveSlot(src.Name) {
					return
				}
				job := src.Extract(e)
				if job == nil {
					s.releaseSlot(src.Name)
					return
				}
				atomic.AddInt64(&s.itemCount, 1)
				s.Metrics.IncJobs(src.Name)
				if err := p.Process(job); err != nil && err != pipeline.ErrPipelineClosed {
					slog.Error("pipeline process error", slog.Any("error", err))
				}
			})
		}
	})
}

// reserveSlot enforces the per-site results cap before extraction.
func (s *Scraper) reserveSlot(site string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.siteCounts[site] >= s.cfg.ResultsPerSite {
		return false
	}
	s.siteCounts[site]++
	return true
}

func (s *Scraper) releaseSlot(site string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.siteCounts[site] > 0 {
		s.siteCounts[site]--
	}
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
