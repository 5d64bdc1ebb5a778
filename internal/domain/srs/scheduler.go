package srs

import (
	"errors"
	"time"

	"github.com/wordtrail/reviewkit/internal/domain"
)

// Scheduler errors.
var (
	// ErrInvalidDays is returned by Postpone when days is below 1.
	ErrInvalidDays = errors.New("srs: postpone days must be at least 1")
)

const hoursPerDay = 24.0

// Scheduler computes the next scheduling state of a card from the
// current state, a rating, and the review instant, following the FSRS
// algorithm. A Scheduler is immutable after construction and safe for
// concurrent use.
type Scheduler struct {
	cfg SchedulerConfig
}

// NewScheduler creates a Scheduler from the given config. Zero-valued
// fields are filled with defaults; out-of-range values return an error.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Scheduler{cfg: cfg}, nil
}

// Config returns the effective configuration after defaulting.
func (s *Scheduler) Config() SchedulerConfig {
	return s.cfg
}

// Schedule computes the card state after a review with the given rating
// at the given instant. A nil card, or a card that has never completed
// a scheduling pass, is initialized from the canonical empty card.
//
// The function is total over valid ratings and deterministic: the same
// (card, rating, now) always yields the same result. The input card is
// never mutated. Numeric edge cases (clock skew making now precede the
// last review, out-of-range stability or difficulty) are recovered by
// clamping.
func (s *Scheduler) Schedule(card *domain.CardState, rating domain.Rating, now time.Time) domain.CardState {
	rating = clampRating(rating)

	var c domain.CardState
	if card != nil {
		c = *card.Clone()
	}
	if c.State == "" {
		c.State = domain.StateNew
	}
	if c.Status == "" {
		c.Status = domain.StatusNew
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	// Elapsed days since the last review, floored at zero so clock skew
	// never produces a negative elapsed interval.
	elapsed := 0.0
	if c.Reps > 0 && c.LastReview != nil {
		elapsed = now.Sub(*c.LastReview).Hours() / hoursPerDay
		if elapsed < 0 {
			elapsed = 0
		}
	}
	c.ElapsedDays = elapsed

	s.updateMemory(&c, rating, elapsed)

	var interval time.Duration
	switch c.State {
	case domain.StateNew:
		interval = s.firstReview(&c, rating)
	case domain.StateLearning:
		interval = s.learningStep(&c, rating, s.cfg.LearningSteps)
	case domain.StateRelearning:
		interval = s.learningStep(&c, rating, s.cfg.RelearningSteps)
	default:
		interval = s.reviewStep(&c, rating)
	}

	c.Reps++
	c.ScheduledDays = interval.Hours() / hoursPerDay
	due := now.Add(interval)
	c.Due = &due
	last := now
	c.LastReview = &last
	c.UpdatedAt = now

	return c
}

// Postpone pushes the card's due date forward by the given number of
// days without touching the memory model. Used for an explicit
// "not now" action; the next real review recomputes everything from the
// live state.
func (s *Scheduler) Postpone(card *domain.CardState, days int, now time.Time) (domain.CardState, error) {
	if days < 1 {
		return domain.CardState{}, ErrInvalidDays
	}

	c := *card.Clone()
	base := now
	if c.Due != nil && c.Due.After(now) {
		base = *c.Due
	}
	due := base.Add(time.Duration(days) * hoursPerDay * time.Hour)
	c.Due = &due
	c.UpdatedAt = now
	return c, nil
}

// updateMemory advances stability and difficulty. First reviews seed
// the model; same-day reviews use the short-term update; cross-day
// reviews run the full forgetting-curve recurrence.
func (s *Scheduler) updateMemory(c *domain.CardState, rating domain.Rating, elapsed float64) {
	w := s.cfg.Weights

	if c.Reps == 0 || c.Stability <= 0 {
		c.Stability = initialStability(w, rating)
		c.Difficulty = initialDifficulty(w, rating)
		return
	}

	stability := clampStability(c.Stability)
	difficulty := clampDifficulty(c.Difficulty)

	if elapsed < 1 {
		c.Stability = shortTermStability(w, stability, rating)
	} else {
		r := retrievability(w, elapsed, stability)
		if rating == domain.RatingAgain {
			c.Stability = nextForgetStability(w, difficulty, stability, r)
		} else {
			c.Stability = nextRecallStability(w, difficulty, stability, r, rating)
		}
	}
	c.Difficulty = nextDifficulty(w, difficulty, rating)
}

// firstReview handles a card's very first scheduling pass.
func (s *Scheduler) firstReview(c *domain.CardState, rating domain.Rating) time.Duration {
	steps := s.cfg.LearningSteps
	if len(steps) == 0 {
		return s.graduate(c)
	}

	switch rating {
	case domain.RatingAgain:
		c.State = domain.StateLearning
		return steps[0]
	case domain.RatingHard:
		c.State = domain.StateLearning
		return hardStepInterval(steps, 0)
	case domain.RatingGood:
		if len(steps) < 2 {
			return s.graduate(c)
		}
		c.State = domain.StateLearning
		return steps[1]
	default: // Easy graduates immediately.
		return s.graduate(c)
	}
}

// learningStep handles Learning and Relearning cards. The current step
// index is recovered from the previously scheduled interval, so the
// card state does not need to persist a separate step counter.
func (s *Scheduler) learningStep(c *domain.CardState, rating domain.Rating, steps []time.Duration) time.Duration {
	if len(steps) == 0 {
		return s.graduate(c)
	}

	step := stepIndex(steps, c.ScheduledDays)

	switch rating {
	case domain.RatingAgain:
		// Back to the first step. Lapses only count for Review cards.
		return steps[0]
	case domain.RatingHard:
		if step <= 0 {
			return hardStepInterval(steps, 0)
		}
		return steps[step]
	case domain.RatingGood:
		next := step + 1
		if next >= len(steps) {
			return s.graduate(c)
		}
		return steps[next]
	default: // Easy graduates immediately.
		return s.graduate(c)
	}
}

// reviewStep handles cards in the Review state. Again is a lapse and
// drops the card into Relearning; success keeps it in Review with an
// interval derived from the new stability.
func (s *Scheduler) reviewStep(c *domain.CardState, rating domain.Rating) time.Duration {
	if rating == domain.RatingAgain {
		c.Lapses++
		if len(s.cfg.RelearningSteps) > 0 {
			c.State = domain.StateRelearning
			return s.cfg.RelearningSteps[0]
		}
		// No relearning steps configured: reschedule within Review.
	}
	return s.graduate(c)
}

// graduate moves the card into the Review state and derives its
// interval from stability and the retention target.
func (s *Scheduler) graduate(c *domain.CardState) time.Duration {
	c.State = domain.StateReview
	days := nextIntervalDays(s.cfg.Weights, c.Stability, s.cfg.RequestRetention, s.cfg.MaximumInterval)
	return time.Duration(days) * hoursPerDay * time.Hour
}

// stepIndex recovers the learning step a scheduled interval came from.
// Returns -1 when the interval matches no step (first pass, or a Hard
// half-step interval).
func stepIndex(steps []time.Duration, scheduledDays float64) int {
	for i, step := range steps {
		if step.Hours()/hoursPerDay == scheduledDays {
			return i
		}
	}
	return -1
}

// hardStepInterval is the interval for a Hard answer at the first
// learning step: the midpoint of the first two steps, or 1.5x the only
// step.
func hardStepInterval(steps []time.Duration, step int) time.Duration {
	if step == 0 && len(steps) >= 2 {
		return (steps[0] + steps[1]) / 2
	}
	if step == 0 {
		return time.Duration(float64(steps[0]) * 1.5)
	}
	return steps[step]
}

// clampRating forces out-of-range ratings into the valid ordinal range
// rather than rejecting them.
func clampRating(r domain.Rating) domain.Rating {
	if r < domain.RatingAgain {
		return domain.RatingAgain
	}
	if r > domain.RatingEasy {
		return domain.RatingEasy
	}
	return r
}
