package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter dispatches events synchronously to handlers
// registered in memory.
type InMemoryEmitter struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

// NewInMemoryEmitter creates an emitter with no handlers registered.
func NewInMemoryEmitter(log *slog.Logger) *InMemoryEmitter {
	if log == nil {
		log = slog.Default()
	}
	return &InMemoryEmitter{
		logger: log.With(slog.String("component", "event_emitter")),
	}
}

// Ensure InMemoryEmitter implements Emitter.
var _ Emitter = (*InMemoryEmitter)(nil)

// RegisterHandler adds a handler to receive future events.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// EmitReviewRecorded implements Emitter. Every handler sees the event
// even when an earlier one fails; the first error is returned for the
// caller's log.
func (e *InMemoryEmitter) EmitReviewRecorded(ctx context.Context, event ReviewRecorded) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleReviewRecorded(ctx, event); err != nil {
			e.logger.Error("event handler failed",
				slog.String("error", err.Error()),
				slog.Int("handler_index", i),
				slog.String("user_id", event.UserID.String()),
				slog.String("word_id", event.WordID.String()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
