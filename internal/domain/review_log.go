package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReviewLogEntry is an immutable record of a single processed review,
// kept for analytics. Appending it is best-effort: a failed append must
// never roll back the card state update it describes.
type ReviewLogEntry struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	WordID              uuid.UUID  `json:"word_id"`
	Rating              Rating     `json:"rating"`
	Mode                ReviewMode `json:"mode"`
	ResponseTimeMs      int        `json:"response_time_ms"`
	WasCorrect          bool       `json:"was_correct"`
	ErrorCount          int        `json:"error_count"`
	ResultingStability  float64    `json:"resulting_stability"`
	ResultingDifficulty float64    `json:"resulting_difficulty"`
	ResultingDue        time.Time  `json:"resulting_due"`
	ReviewedAt          time.Time  `json:"reviewed_at"`
}

// NewReviewLogEntry builds a log entry from the event that was
// submitted and the card state the scheduler produced for it.
func NewReviewLogEntry(
	event ReviewEvent,
	rating Rating,
	card *CardState,
	reviewedAt time.Time,
) ReviewLogEntry {
	entry := ReviewLogEntry{
		ID:                  uuid.New(),
		UserID:              card.UserID,
		WordID:              card.WordID,
		Rating:              rating,
		Mode:                event.Mode,
		ResponseTimeMs:      event.ResponseTimeMs,
		WasCorrect:          event.IsCorrect,
		ErrorCount:          event.ErrorCount,
		ResultingStability:  card.Stability,
		ResultingDifficulty: card.Difficulty,
		ReviewedAt:          reviewedAt,
	}
	if card.Due != nil {
		entry.ResultingDue = *card.Due
	}
	return entry
}
