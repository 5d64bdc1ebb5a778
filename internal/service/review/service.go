// Package review orchestrates the processing of a single review: it
// loads the card state, runs the pure engine (classify, schedule,
// project), persists exactly one card state write, and hands the
// analytics log entry off to a best-effort background append.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/domain"
)

// Result is the outcome of a processed review.
type Result struct {
	// Card is the persisted card state after the review.
	Card domain.CardState
	// Rating is what the classifier derived from the submitted event.
	Rating domain.Rating
	// PreviousStatus is the learning status before this review.
	PreviousStatus domain.LearningStatus
}

// Service processes reviews for (user, word) pairs.
type Service interface {
	// SubmitReview classifies the event, advances the card's schedule,
	// and persists the result. A word the user has no card state for
	// yet is lazily given one; the review itself is its first
	// scheduling pass.
	//
	// Returns ErrInvalidEvent for events that fail boundary validation.
	SubmitReview(ctx context.Context, userID, wordID uuid.UUID, event domain.ReviewEvent) (*Result, error)

	// MarkMastered applies the manual mastery override, pinning the
	// card far into the future without running the scheduler. Works on
	// brand-new words: a missing card state is created first.
	MarkMastered(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error)

	// Postpone pushes the card's next review forward by the given
	// number of days. Returns ErrNotInWorkingSet when the user has no
	// card state for the word, and ErrInvalidPostpone for days < 1.
	Postpone(ctx context.Context, userID, wordID uuid.UUID, days int) (*domain.CardState, error)
}

// Service-level sentinel errors.
var (
	// ErrInvalidEvent indicates the submitted review event failed
	// validation.
	ErrInvalidEvent = errors.New("invalid review event")

	// ErrNotInWorkingSet indicates no card state exists for the
	// (user, word) pair and the operation does not create one.
	ErrNotInWorkingSet = errors.New("word not in user's working set")

	// ErrInvalidPostpone indicates an out-of-range postpone request.
	ErrInvalidPostpone = errors.New("invalid postpone request")
)

// ServiceError wraps review service failures with the operation that
// produced them, for errors.As-based discrimination.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap supports errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitReviewError returns a ServiceError for the submit_review
// operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_review", Message: message, Err: err}
}

// NewMarkMasteredError returns a ServiceError for the mark_mastered
// operation.
func NewMarkMasteredError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "mark_mastered", Message: message, Err: err}
}

// NewPostponeError returns a ServiceError for the postpone operation.
func NewPostponeError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "postpone", Message: message, Err: err}
}
