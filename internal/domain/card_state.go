package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewState is the discrete scheduler state of a card.
type ReviewState string

// Possible review state values.
const (
	StateNew        ReviewState = "new"        // Never completed a scheduling pass.
	StateLearning   ReviewState = "learning"   // Working through the initial learning steps.
	StateReview     ReviewState = "review"     // Graduated into the long-term review cycle.
	StateRelearning ReviewState = "relearning" // Forgotten in Review, relearning.
)

// IsValid reports whether s is one of the known review states.
func (s ReviewState) IsValid() bool {
	switch s {
	case StateNew, StateLearning, StateReview, StateRelearning:
		return true
	default:
		return false
	}
}

// LearningStatus is the coarse three-valued status the rest of the
// application sees. It is a projection over the scheduler state, not
// part of the FSRS model itself.
type LearningStatus string

// Possible learning status values.
const (
	StatusNew      LearningStatus = "NEW"      // In the working set, never reviewed.
	StatusLearning LearningStatus = "LEARNING" // At least one review recorded.
	StatusMastered LearningStatus = "MASTERED" // Stability crossed the mastery threshold, or forced.
)

// IsValid reports whether s is one of the known learning statuses.
func (s LearningStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusMastered:
		return true
	default:
		return false
	}
}

// CardState is the complete scheduling state for one (user, word) pair.
// It is mutated only by the scheduler in response to a review event and
// read by the selection policy; persistence belongs to the store layer.
//
// Due and LastReview are nil until the card completes its first
// scheduling pass. Stability is positive once Reps > 0.
type CardState struct {
	UserID        uuid.UUID      `json:"user_id"`
	WordID        uuid.UUID      `json:"word_id"`
	Status        LearningStatus `json:"status"`
	State         ReviewState    `json:"state"`
	Due           *time.Time     `json:"due,omitempty"`
	Stability     float64        `json:"stability"`      // Estimated memory half-life proxy, days.
	Difficulty    float64        `json:"difficulty"`     // Intrinsic item difficulty, [1, 10].
	ElapsedDays   float64        `json:"elapsed_days"`   // Days since last review at the current review.
	ScheduledDays float64        `json:"scheduled_days"` // Interval scheduled at the previous review.
	Reps          int            `json:"reps"`           // Completed scheduling passes, including the first.
	Lapses        int            `json:"lapses"`         // Count of Again outcomes from the Review state.
	LastReview    *time.Time     `json:"last_review,omitempty"`
	ErrorCount    int            `json:"error_count"` // Cumulative incorrect attempts, outside pure FSRS.
	LastErrorAt   *time.Time     `json:"last_error_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewCardState creates the initial scheduling state for a word entering
// a user's working set. The card starts NEW with zero reps and no due
// date; the first review establishes the memory model.
func NewCardState(userID, wordID uuid.UUID) (*CardState, error) {
	now := time.Now().UTC()
	card := &CardState{
		UserID:    userID,
		WordID:    wordID,
		Status:    StatusNew,
		State:     StateNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks the card state invariants. Returns a descriptive
// sentinel error for the first violated invariant.
func (c *CardState) Validate() error {
	if c.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if c.WordID == uuid.Nil {
		return ErrEmptyWordID
	}
	if !c.State.IsValid() {
		return ErrInvalidState
	}
	if c.Reps < 0 {
		return ErrInvalidReps
	}
	if c.Lapses < 0 {
		return ErrInvalidLapses
	}
	if c.ErrorCount < 0 {
		return ErrInvalidErrorCount
	}
	if c.Reps > 0 && c.Stability <= 0 {
		return ErrInvalidStability
	}
	return nil
}

// Reviewed reports whether the card has completed at least one
// scheduling pass.
func (c *CardState) Reviewed() bool {
	return c.Reps > 0
}

// IsDue reports whether the card should be surfaced for review at the
// given instant. A card with no due date set (never scheduled) is
// considered immediately due.
func (c *CardState) IsDue(now time.Time) bool {
	if c.Due == nil {
		return true
	}
	return !c.Due.After(now)
}

// Clone returns a deep copy of the card state. Pointer fields are
// copied by value so the copy can be mutated independently.
func (c *CardState) Clone() *CardState {
	out := *c
	if c.Due != nil {
		v := *c.Due
		out.Due = &v
	}
	if c.LastReview != nil {
		v := *c.LastReview
		out.LastReview = &v
	}
	if c.LastErrorAt != nil {
		v := *c.LastErrorAt
		out.LastErrorAt = &v
	}
	return &out
}
