package calendar

import (
	"context"
	"sync"

	"github.com/julianstephens/mealplan/internal/logger"
	"github.com/julianstephens/mealplan/internal/models"
)

// SaveFunc persists a full snapshot of the event list.
type SaveFunc func(ctx context.Context, events []models.MealEvent) error

// AsyncWriter persists snapshots on a single background goroutine. Submitted
// snapshots that have not been written yet are replaced by newer ones, so
// the last submission always wins.
type AsyncWriter struct {
	save SaveFunc

	mu        sync.Mutex
	pending   []models.MealEvent
	dirty     bool
	submitted uint64
	written   uint64
	lastErr   error
	changed   chan struct{}
	closed    bool

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

func NewAsyncWriter(save SaveFunc) *AsyncWriter {
	w := &AsyncWriter{
		save:    save,
		changed: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit queues a snapshot and returns immediately. The caller must not
// modify events afterwards.
func (w *AsyncWriter) Submit(events []models.MealEvent) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		logger.Warn("Dropping event snapshot submitted after close", "events", len(events))
		return
	}
	w.pending = events
	w.dirty = true
	w.submitted++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush waits until every snapshot submitted before the call has been
// written, and returns the error of the most recent write.
func (w *AsyncWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	target := w.submitted
	w.mu.Unlock()

	for {
		w.mu.Lock()
		if w.written >= target {
			err := w.lastErr
			w.mu.Unlock()
			return err
		}
		changed := w.changed
		w.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close writes any pending snapshot and stops the writer goroutine.
func (w *AsyncWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.stopped
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.quit)
	<-w.stopped

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *AsyncWriter) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.writePending()
		case <-w.quit:
			w.writePending()
			return
		}
	}
}

func (w *AsyncWriter) writePending() {
	w.mu.Lock()
	if !w.dirty {
		w.mu.Unlock()
		return
	}
	snapshot := w.pending
	target := w.submitted
	w.pending = nil
	w.dirty = false
	w.mu.Unlock()

	err := w.save(context.Background(), snapshot)
	if err != nil {
		logger.Error("Failed to save events", "error", err, "events", len(snapshot))
	}

	w.mu.Lock()
	w.written = target
	w.lastErr = err
	close(w.changed)
	w.changed = make(chan struct{})
	w.mu.Unlock()
}
