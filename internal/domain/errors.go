package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyUserID is returned when a card state is missing its user ID.
	ErrEmptyUserID = errors.New("card state user ID cannot be empty")

	// ErrEmptyWordID is returned when a card state is missing its word ID.
	ErrEmptyWordID = errors.New("card state word ID cannot be empty")

	// ErrInvalidReps is returned when the repetition count is negative.
	ErrInvalidReps = errors.New("reps must be greater than or equal to 0")

	// ErrInvalidLapses is returned when the lapse count is negative.
	ErrInvalidLapses = errors.New("lapses must be greater than or equal to 0")

	// ErrInvalidErrorCount is returned when the error count is negative.
	ErrInvalidErrorCount = errors.New("error count must be greater than or equal to 0")

	// ErrInvalidStability is returned when a reviewed card has
	// non-positive stability.
	ErrInvalidStability = errors.New("stability must be positive once a card has been reviewed")

	// ErrInvalidState is returned when a review state is not one of the
	// known values.
	ErrInvalidState = errors.New("invalid review state")

	// ErrInvalidRating is returned when a rating is outside Again..Easy.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidReviewMode is returned when a review event carries an
	// unknown exercise mode.
	ErrInvalidReviewMode = errors.New("invalid review mode")

	// ErrNegativeResponseTime is returned when a review event carries a
	// negative response time.
	ErrNegativeResponseTime = errors.New("response time must be greater than or equal to 0")
)
