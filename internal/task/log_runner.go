// Package task provides background execution for work that must not
// sit on the review path. Its one current job is appending review log
// entries: the card state write is the review's single required write,
// and the analytics append happens asynchronously, best-effort, behind
// a bounded queue.
package task

import (
	"context"
	"log/slog"
	"sync"

	"github.com/wordtrail/reviewkit/internal/domain"
	"github.com/wordtrail/reviewkit/internal/store"
)

// Default sizing for the log runner.
const (
	DefaultWorkers   = 2
	DefaultQueueSize = 256
)

// LogRunner appends review log entries in the background. Enqueue never
// blocks: when the queue is full the entry is dropped with a warning,
// which is acceptable for an analytics log and keeps review latency
// bounded.
type LogRunner struct {
	logs   store.ReviewLogStore
	queue  chan domain.ReviewLogEntry
	wg     sync.WaitGroup
	logger *slog.Logger
	once   sync.Once
}

// NewLogRunner creates a runner over the given log store. Non-positive
// workers or queueSize select the defaults.
func NewLogRunner(logs store.ReviewLogStore, workers, queueSize int, log *slog.Logger) *LogRunner {
	if logs == nil {
		panic("logs cannot be nil")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = slog.Default()
	}

	r := &LogRunner{
		logs:   logs,
		queue:  make(chan domain.ReviewLogEntry, queueSize),
		logger: log.With(slog.String("component", "log_runner")),
	}
	r.start(workers)
	return r
}

func (r *LogRunner) start(workers int) {
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
}

func (r *LogRunner) worker() {
	defer r.wg.Done()
	for entry := range r.queue {
		// Appends run detached from the originating request; its
		// context may already be canceled by the time we get here.
		if err := r.logs.Append(context.Background(), entry); err != nil {
			r.logger.Warn("failed to append review log entry",
				slog.String("error", err.Error()),
				slog.String("user_id", entry.UserID.String()),
				slog.String("word_id", entry.WordID.String()))
		}
	}
}

// Enqueue submits an entry for background append. Returns false when
// the queue is full and the entry was dropped.
func (r *LogRunner) Enqueue(entry domain.ReviewLogEntry) bool {
	select {
	case r.queue <- entry:
		return true
	default:
		r.logger.Warn("review log queue full, dropping entry",
			slog.String("user_id", entry.UserID.String()),
			slog.String("word_id", entry.WordID.String()))
		return false
	}
}

// Stop closes the queue and waits for the workers to drain it. Safe to
// call more than once; Enqueue must not be called after Stop.
func (r *LogRunner) Stop() {
	r.once.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}
