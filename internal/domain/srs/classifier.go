package srs

import "github.com/wordtrail/reviewkit/internal/domain"

// Expected response time baselines per exercise mode, in milliseconds.
// Context listening allows for audio playback time.
const (
	baselineTypingMs           = 5000
	baselineMultipleChoiceMs   = 3000
	baselineContextListeningMs = 8000
)

// Classify maps a raw review outcome to a rating.
//
// Any error anywhere in the attempt forces Again, regardless of final
// correctness or speed. Otherwise the rating is graded by response time
// against the mode baseline: under half the baseline is Easy, under the
// baseline is Good, the baseline and above is Hard.
//
// Classify is a deterministic, total function with no error conditions;
// unknown modes fall back to the typing baseline.
func Classify(event domain.ReviewEvent) domain.Rating {
	if !event.IsCorrect || event.ErrorCount > 0 {
		return domain.RatingAgain
	}

	baseline := baselineForMode(event.Mode)
	switch {
	case float64(event.ResponseTimeMs) < 0.5*float64(baseline):
		return domain.RatingEasy
	case event.ResponseTimeMs < baseline:
		return domain.RatingGood
	default:
		return domain.RatingHard
	}
}

func baselineForMode(mode domain.ReviewMode) int {
	switch mode {
	case domain.ModeMultipleChoice:
		return baselineMultipleChoiceMs
	case domain.ModeContextListening:
		return baselineContextListeningMs
	default:
		return baselineTypingMs
	}
}
