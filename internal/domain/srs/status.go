package srs

import (
	"time"

	"github.com/wordtrail/reviewkit/internal/domain"
)

// Project derives the coarse learning status from a card state the
// scheduler just produced. Rules, in order: a Review-state card past
// the mastery threshold is MASTERED; any Learning, Relearning, or
// below-threshold Review card is LEARNING; anything else keeps the
// previous status.
//
// The mastery threshold is product policy layered on top of FSRS, not
// derived from the retention target (see SchedulerConfig).
func (s *Scheduler) Project(prev domain.LearningStatus, card domain.CardState) domain.LearningStatus {
	switch {
	case card.State == domain.StateReview && card.Stability > s.cfg.MasteryThresholdDays:
		return domain.StatusMastered
	case card.State == domain.StateLearning || card.State == domain.StateRelearning:
		return domain.StatusLearning
	case card.State == domain.StateReview:
		return domain.StatusLearning
	default:
		return prev
	}
}

// MarkMastered applies the explicit "mark as mastered" override: the
// card is pinned far into the future with a long fixed stability,
// bypassing the forgetting-curve math entirely. Reps, lapses, and
// difficulty are left untouched, so mastering a word early does not
// erase its review history. The transition is intentionally asymmetric
// with Project: it does not run through Schedule.
func (s *Scheduler) MarkMastered(card *domain.CardState, now time.Time) domain.CardState {
	c := *card.Clone()
	c.Status = domain.StatusMastered
	c.State = domain.StateReview
	c.Stability = s.cfg.MasteredStability
	last := now
	c.LastReview = &last
	days := nextIntervalDays(s.cfg.Weights, c.Stability, s.cfg.RequestRetention, s.cfg.MaximumInterval)
	c.ScheduledDays = float64(days)
	due := now.Add(time.Duration(days) * hoursPerDay * time.Hour)
	c.Due = &due
	c.UpdatedAt = now
	return c
}
