package domain

// ReviewMode identifies the exercise type that produced a review
// attempt. The rating classifier uses it to pick the expected response
// time baseline.
type ReviewMode string

// Possible review mode values.
const (
	ModeTyping           ReviewMode = "typing"
	ModeMultipleChoice   ReviewMode = "multiple_choice"
	ModeContextListening ReviewMode = "context_listening"
)

// IsValid reports whether m is one of the known review modes.
func (m ReviewMode) IsValid() bool {
	switch m {
	case ModeTyping, ModeMultipleChoice, ModeContextListening:
		return true
	default:
		return false
	}
}

// ReviewEvent is the raw outcome of a single review attempt. It is
// ephemeral input to the engine, never stored as scheduling state.
type ReviewEvent struct {
	IsCorrect      bool       `json:"is_correct"`
	ResponseTimeMs int        `json:"response_time_ms"`
	ErrorCount     int        `json:"error_count"` // Errors committed during this attempt.
	Mode           ReviewMode `json:"mode"`
}

// Validate checks the event at the boundary before it reaches the
// engine. The engine itself assumes validated input.
func (e ReviewEvent) Validate() error {
	if e.ResponseTimeMs < 0 {
		return ErrNegativeResponseTime
	}
	if e.ErrorCount < 0 {
		return ErrInvalidErrorCount
	}
	if !e.Mode.IsValid() {
		return ErrInvalidReviewMode
	}
	return nil
}
