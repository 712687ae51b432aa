package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shivani7798/go-jobspy/config"
	"github.com/shivani7798/go-jobspy/models"
)

type collectingWriter struct {
	mu   sync.Mutex
	jobs []*models.Job
}

func (cw *collectingWriter) Write(jobs []*models.Job) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.jobs = append(cw.jobs, jobs...)
	return nil
}

func (cw *collectingWriter) Close() error    { return nil }
func (cw *collectingWriter) Validate() error { return nil }

func (cw *collectingWriter) count() int {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return len(cw.jobs)
}

func testJob(site, url string) *models.Job {
	return &models.Job{
		Site:      site,
		Title:     "Data Engineer",
		Company:   "Acme",
		URL:       url,
		ScrapedAt: time.Now(),
	}
}

func TestPipelineProcessesJobs(t *testing.T) {
	cfg := config.DefaultConfig()
	writer := &collectingWriter{}
	p := NewPipeline(context.Background(), writer, cfg)
	p.Start(2)

	if err := p.Process(
		testJob("indeed", "https://uk.indeed.com/viewjob?jk=1"),
		testJob("linkedin", "https://www.linkedin.com/jobs/view/2"),
	); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := writer.count(); got != 2 {
		t.Fatalf("written jobs = %d, want 2", got)
	}

	snap := p.GetMetrics()
	if processed := snap["processed_jobs"].(int64); processed != 2 {
		t.Fatalf("processed = %d, want 2", processed)
	}
}

func TestPipelineDedupsBySiteAndURL(t *testing.T) {
	cfg := config.DefaultConfig()
	writer := &collectingWriter{}
	p := NewPipeline(context.Background(), writer, cfg)
	p.Start(1)

	url := "https://uk.indeed.com/viewjob?jk=1"
	if err := p.Process(
		testJob("indeed", url),
		testJob("indeed", url),
		testJob("linkedin", url), // same URL on another site survives
	); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := writer.count(); got != 2 {
		t.Fatalf("written jobs = %d, want 2", got)
	}

	snap := p.GetMetrics()
	validation := snap["validation_errors"].(map[string]int)
	if validation["duplicate_url"] != 1 {
		t.Fatalf("duplicate_url = %d, want 1", validation["duplicate_url"])
	}
}

func TestPipelineRejectsInvalidRecords(t *testing.T) {
	cfg := config.DefaultConfig()
	writer := &collectingWriter{}
	p := NewPipeline(context.Background(), writer, cfg)
	p.Start(1)

	bad := testJob("indeed", "https://uk.indeed.com/viewjob?jk=1")
	bad.Title = ""
	if err := p.Process(bad); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := writer.count(); got != 0 {
		t.Fatalf("written jobs = %d, want 0", got)
	}
	snap := p.GetMetrics()
	validation := snap["validation_errors"].(map[string]int)
	if validation["invalid_record"] != 1 {
		t.Fatalf("invalid_record = %d, want 1", validation["invalid_record"])
	}
}

func TestPipelineProcessAfterClose(t *testing.T) {
	cfg := config.DefaultConfig()
	p := NewPipeline(context.Background(), &collectingWriter{}, cfg)
	p.Start(1)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	err := p.Process(testJob("indeed", "https://uk.indeed.com/viewjob?jk=9"))
	if err != ErrPipelineClosed {
		t.Fatalf("process after close = %v, want ErrPipelineClosed", err)
	}
}

func TestTableWriterCollectsInOrder(t *testing.T) {
	tw := NewTableWriter()
	first := testJob("indeed", "https://uk.indeed.com/viewjob?jk=1")
	second := testJob("linkedin", "https://www.linkedin.com/jobs/view/2")

	if err := tw.Write([]*models.Job{first}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := tw.Write([]*models.Job{second}); err != nil {
		t.Fatalf("write: %v", err)
	}

	table := tw.Table()
	if len(table) != 2 || table[0] != first || table[1] != second {
		t.Fatalf("unexpected table contents: %v", table)
	}
	if err := tw.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	empty := NewTableWriter()
	if err := empty.Validate(); err == nil {
		t.Fatalf("empty table writer should fail validation")
	}
}

func TestTeeWriterFansOut(t *testing.T) {
	a := &collectingWriter{}
	b := &collectingWriter{}
	tee, err := NewTeeWriter(a, b)
	if err != nil {
		t.Fatalf("new tee writer: %v", err)
	}

	if err := tee.Write([]*models.Job{testJob("indeed", "https://uk.indeed.com/viewjob?jk=1")}); err != nil {
		t.Fatalf("tee write: %v", err)
	}
	if a.count() != 1 || b.count() != 1 {
		t.Fatalf("tee counts = %d/%d, want 1/1", a.count(), b.count())
	}

	if _, err := NewTeeWriter(); err == nil {
		t.Fatalf("tee writer with no targets should fail")
	}
}
