// Package events provides a minimal in-process publish/subscribe
// mechanism for review lifecycle events, so analytics and other
// secondary consumers can react to processed reviews without the
// review service knowing about them.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/domain"
)

// ReviewRecorded is published after a review's card state update has
// been committed. Handlers run after the write; nothing they do can
// affect it.
type ReviewRecorded struct {
	UserID     uuid.UUID             `json:"user_id"`
	WordID     uuid.UUID             `json:"word_id"`
	Rating     domain.Rating         `json:"rating"`
	Mode       domain.ReviewMode     `json:"mode"`
	NewStatus  domain.LearningStatus `json:"new_status"`
	OccurredAt time.Time             `json:"occurred_at"`
}

// Handler processes published events.
type Handler interface {
	// HandleReviewRecorded processes one event. Returning an error is a
	// signal for the emitter's log, not a veto.
	HandleReviewRecorded(ctx context.Context, event ReviewRecorded) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, event ReviewRecorded) error

// HandleReviewRecorded calls f.
func (f HandlerFunc) HandleReviewRecorded(ctx context.Context, event ReviewRecorded) error {
	return f(ctx, event)
}

// Emitter publishes events to registered handlers.
type Emitter interface {
	// EmitReviewRecorded publishes the event to all registered
	// handlers.
	EmitReviewRecorded(ctx context.Context, event ReviewRecorded) error
}
