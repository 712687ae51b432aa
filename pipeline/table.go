package pipeline

import (
	"fmt"
	"sync"

	"github.com/shivani7798/go-jobspy/models"
)

// TableWriter accumulates jobs in memory so the report builder can
// consume the full table after the run completes.
type TableWriter struct {
	mu    sync.Mutex
	table models.Table
}

// NewTableWriter returns an empty in-memory collector.
func NewTableWriter() *TableWriter {
	return &TableWriter{}
}

// Write appends jobs to the in-memory table.
func (tw *TableWriter) Write(jobs []*models.Job) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.table = append(tw.table, jobs...)
	return nil
}

// Close is a no-op; the table lives until the process exits.
func (tw *TableWriter) Close() error {
	return nil
}

// Validate fails when nothing was collected.
func (tw *TableWriter) Validate() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if len(tw.table) == 0 {
		return fmt.Errorf("no jobs collected")
	}
	return nil
}

// Table returns a copy of the collected rows in arrival order.
func (tw *TableWriter) Table() models.Table {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	out := make(models.Table, len(tw.table))
	copy(out, tw.table)
	return out
}
