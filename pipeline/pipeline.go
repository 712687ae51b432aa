// Package pipeline validates, dedups and batches scraped jobs into
// output writers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shivani7798/go-jobspy/config"
	"github.com/shivani7798/go-jobspy/models"
	"github.com/shivani7798/go-jobspy/parser"
)

// ErrPipelineClosed is returned when Process is called after shutdown.
var ErrPipelineClosed = errors.New("pipeline: closed")

// OutputWriter defines the interface for data output.
type OutputWriter interface {
	Write(jobs []*models.Job) error
	Close() error
	Validate() error
}

// Pipeline coordinates validation, de-duplication, and output writing.
type Pipeline struct {
	ctx       context.Context
	writer    OutputWriter
	jobCh     chan *models.Job
	batchSize int

	wg sync.WaitGroup

	seen *lru.Cache[string, struct{}]

	metrics counters

	mu     sync.Mutex // guards closed/err
	closed bool
	err    error

	closeOnce    sync.Once
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewPipeline builds a pipeline buffered per cfg. The LRU seen-cache
// bounds dedup memory on long runs.
func NewPipeline(ctx context.Context, writer OutputWriter, cfg *config.Config) *Pipeline {
	if ctx == nil {
		ctx = context.Background()
	}
	size := cfg.DedupCacheSize
	if size <= 0 {
		size = 1
	}
	seen, _ := lru.New[string, struct{}](size)
	return &Pipeline{
		ctx:       ctx,
		writer:    writer,
		jobCh:     make(chan *models.Job, cfg.PipelineBufferSize),
		batchSize: cfg.BatchSize,
		seen:      seen,
		metrics:   newCounters(),
		shutdown:  make(chan struct{}),
	}
}

// Start launches worker goroutines.
func (p *Pipeline) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Process enqueues jobs for downstream processing.
func (p *Pipeline) Process(jobs ...*models.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	p.mu.Lock()
	closed, err := p.closed, p.err
	p.mu.Unlock()
	if err != nil {
		return err
	}
	if closed {
		return ErrPipelineClosed
	}

	for _, job := range jobs {
		if job == nil {
			continue
		}
		if err := p.enqueue(job); err != nil {
			return err
		}
	}
	return nil
}

// Close waits for workers to finish and prevents more submissions.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.shutdownOnce.Do(func() {
		close(p.shutdown)
	})
	p.closeOnce.Do(func() {
		close(p.jobCh)
	})

	p.wg.Wait()
	return p.Err()
}

// Err returns the first error encountered during processing.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// GetMetrics returns a snapshot of the internal counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.metrics.snapshot()
}

// StartMetricsReporting emits periodic progress logs.
func (p *Pipeline) StartMetricsReporting(interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				snap := p.GetMetrics()
				processed := snap["processed_jobs"].(int64)
				validation := snap["validation_errors"].(map[string]int)
				slog.Info("pipeline progress",
					slog.Int64("processed", processed),
					slog.Int("validation_error_kinds", len(validation)),
				)
			case <-p.shutdown:
				return
			}
		}
	}()
}

func (p *Pipeline) worker() {
	defer p.wg.Done()

	batch := make([]*models.Job, 0, p.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.writer.Write(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for job := range p.jobCh {
		prepared := p.prepare(job)
		if prepared == nil {
			continue
		}
		batch = append(batch, prepared)
		if len(batch) >= p.batchSize {
			if err := flush(); err != nil {
				p.setErr(fmt.Errorf("write batch: %w", err))
				return
			}
		}
	}

	if err := flush(); err != nil {
		p.setErr(fmt.Errorf("write batch: %w", err))
	}
}

func (p *Pipeline) prepare(job *models.Job) *models.Job {
	if err := parser.ValidateJob(job); err != nil {
		p.metrics.addValidation("invalid_record")
		return nil
	}

	// duplicates across sites are preserved; dedup is per listing URL
	// within one site's stream
	key := job.Site + "|" + job.URL
	if _, ok := p.seen.Get(key); ok {
		p.metrics.addValidation("duplicate_url")
		return nil
	}
	p.seen.Add(key, struct{}{})

	p.metrics.incrementProcessed()
	return job
}

func (p *Pipeline) enqueue(job *models.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPipelineClosed
		}
	}()

	select {
	case p.jobCh <- job:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	case <-p.shutdown:
		return ErrPipelineClosed
	}
}

func (p *Pipeline) setErr(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
}

type counters struct {
	mu         sync.Mutex
	processed  int64
	validation map[string]int
}

func newCounters() counters {
	return counters{
		validation: make(map[string]int),
	}
}

func (c *counters) incrementProcessed() {
	c.mu.Lock()
	c.processed++
	c.mu.Unlock()
}

func (c *counters) addValidation(kind string) {
	c.mu.Lock()
	c.validation[kind]++
	c.mu.Unlock()
}

func (c *counters) snapshot() map[string]interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	copyValidation := make(map[string]int, len(c.validation))
	for k, v := range c.validation {
		copyValidation[k] = v
	}

	return map[string]interface{}{
		"processed_jobs":    c.processed,
		"validation_errors": copyValidation,
	}
}
