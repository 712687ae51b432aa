// Package pipeline fan-out writer over multiple output targets.
package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shivani7798/go-jobspy/models"
)

// TeeWriter forwards every batch to each wrapped writer. It backs the
// dual CSV+JSONL export and the table-plus-export combinations.
type TeeWriter struct {
	writers []OutputWriter
	mu      sync.Mutex
}

// NewTeeWriter wraps the given writers; at least one is required.
func NewTeeWriter(writers ...OutputWriter) (*TeeWriter, error) {
	if len(writers) == 0 {
		return nil, fmt.Errorf("tee writer needs at least one target")
	}
	return &TeeWriter{writers: writers}, nil
}

// Write writes jobs to every target, stopping at the first failure.
func (tw *TeeWriter) Write(jobs []*models.Job) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	for _, w := range tw.writers {
		if err := w.Write(jobs); err != nil {
			return fmt.Errorf("tee write: %w", err)
		}
	}
	return nil
}

// Close closes every target, reporting all failures.
func (tw *TeeWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	var errs []error
	for _, w := range tw.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("tee close: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Validate validates every target.
func (tw *TeeWriter) Validate() error {
	var errs []error
	for _, w := range tw.writers {
		if err := w.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("tee validate: %w", err))
		}
	}
	return errors.Join(errs...)
}
