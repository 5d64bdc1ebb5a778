package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordtrail/reviewkit/internal/domain"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewScheduler(SchedulerConfig{})
	require.NoError(t, err, "Failed to create scheduler")
	return s
}

func newTestCard(t *testing.T) *domain.CardState {
	t.Helper()
	card, err := domain.NewCardState(uuid.New(), uuid.New())
	require.NoError(t, err)
	return card
}

func TestNewSchedulerAppliesDefaults(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	cfg := s.Config()

	assert.Equal(t, DefaultWeights, cfg.Weights)
	assert.Equal(t, DefaultRequestRetention, cfg.RequestRetention)
	assert.Equal(t, DefaultMaximumInterval, cfg.MaximumInterval)
	assert.Equal(t, []time.Duration{time.Minute, 10 * time.Minute}, cfg.LearningSteps)
	assert.Equal(t, []time.Duration{10 * time.Minute}, cfg.RelearningSteps)
	assert.Equal(t, DefaultMasteryThresholdDays, cfg.MasteryThresholdDays)
	assert.Equal(t, DefaultMasteredStability, cfg.MasteredStability)
}

func TestNewSchedulerRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	badWeights := DefaultWeights
	badWeights[0] = -1
	_, err := NewScheduler(SchedulerConfig{Weights: badWeights})
	assert.ErrorIs(t, err, ErrInvalidWeights)

	_, err = NewScheduler(SchedulerConfig{RequestRetention: 1.5})
	assert.Error(t, err)

	_, err = NewScheduler(SchedulerConfig{MaximumInterval: -3})
	assert.Error(t, err)
}

func TestScheduleFirstReview(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		rating    domain.Rating
		wantState domain.ReviewState
		wantDue   time.Time
	}{
		{
			name:      "Again enters learning at the first step",
			rating:    domain.RatingAgain,
			wantState: domain.StateLearning,
			wantDue:   now.Add(time.Minute),
		},
		{
			name:      "Hard enters learning at the half step",
			rating:    domain.RatingHard,
			wantState: domain.StateLearning,
			wantDue:   now.Add(5*time.Minute + 30*time.Second),
		},
		{
			name:      "Good enters learning at the second step",
			rating:    domain.RatingGood,
			wantState: domain.StateLearning,
			wantDue:   now.Add(10 * time.Minute),
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card := newTestCard(t)
			next := s.Schedule(card, tc.rating, now)

			assert.Equal(t, tc.wantState, next.State)
			require.NotNil(t, next.Due)
			assert.Equal(t, tc.wantDue, *next.Due)
			assert.Equal(t, 1, next.Reps)
			assert.Zero(t, next.Lapses)
			assert.Greater(t, next.Stability, 0.0)
			assert.Equal(t, initialStability(DefaultWeights, tc.rating), next.Stability)
			require.NotNil(t, next.LastReview)
			assert.Equal(t, now, *next.LastReview)
		})
	}
}

func TestScheduleFirstReviewEasyGraduates(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	next := s.Schedule(newTestCard(t), domain.RatingEasy, now)

	assert.Equal(t, domain.StateReview, next.State)
	require.NotNil(t, next.Due)
	assert.GreaterOrEqual(t, next.ScheduledDays, 1.0, "graduated interval is at least one day")
	assert.Equal(t, 1, next.Reps)
}

func TestScheduleDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	card := newTestCard(t)
	before := *card
	_ = s.Schedule(card, domain.RatingGood, now)
	assert.Equal(t, before, *card, "Schedule must not mutate its input")
}

func TestScheduleIsDeterministic(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	card := newTestCard(t)

	first := s.Schedule(card, domain.RatingGood, now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, s.Schedule(card, domain.RatingGood, now))
	}
}

func TestScheduleNilCardInitializes(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	next := s.Schedule(nil, domain.RatingGood, now)
	assert.Equal(t, domain.StateLearning, next.State)
	assert.Equal(t, 1, next.Reps)
	assert.Equal(t, now, next.CreatedAt)
}

func TestScheduleLearningProgression(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// First review: Good lands on the 10 minute step.
	card := s.Schedule(newTestCard(t), domain.RatingGood, now)
	require.Equal(t, domain.StateLearning, card.State)

	// Second Good ten minutes later exhausts the steps and graduates.
	now = now.Add(10 * time.Minute)
	card = s.Schedule(&card, domain.RatingGood, now)

	assert.Equal(t, domain.StateReview, card.State)
	assert.Equal(t, 2, card.Reps)
	assert.GreaterOrEqual(t, card.ScheduledDays, 1.0)
}

func TestScheduleLearningAgainResetsToFirstStep(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	card := s.Schedule(newTestCard(t), domain.RatingGood, now)
	require.Equal(t, domain.StateLearning, card.State)

	now = now.Add(10 * time.Minute)
	card = s.Schedule(&card, domain.RatingAgain, now)

	assert.Equal(t, domain.StateLearning, card.State)
	require.NotNil(t, card.Due)
	assert.Equal(t, now.Add(time.Minute), *card.Due, "Again restarts the learning steps")
	assert.Zero(t, card.Lapses, "learning-state Again is not a lapse")
}

func TestScheduleReviewLapse(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	card := graduateCard(t, s, &now)
	require.Equal(t, domain.StateReview, card.State)
	stabilityBefore := card.Stability

	// Fail it well past its due date.
	now = now.Add(time.Duration(card.ScheduledDays*24) * time.Hour)
	card = s.Schedule(&card, domain.RatingAgain, now)

	assert.Equal(t, domain.StateRelearning, card.State)
	assert.Equal(t, 1, card.Lapses)
	assert.Less(t, card.Stability, stabilityBefore, "a lapse reduces stability")
	require.NotNil(t, card.Due)
	assert.Equal(t, now.Add(10*time.Minute), *card.Due, "relearning restarts at its first step")
}

func TestScheduleRelearningGraduatesBackToReview(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	card := graduateCard(t, s, &now)
	now = now.Add(time.Duration(card.ScheduledDays*24) * time.Hour)
	card = s.Schedule(&card, domain.RatingAgain, now)
	require.Equal(t, domain.StateRelearning, card.State)

	now = now.Add(10 * time.Minute)
	card = s.Schedule(&card, domain.RatingGood, now)

	assert.Equal(t, domain.StateReview, card.State)
	assert.Equal(t, 1, card.Lapses, "lapse count survives relearning")
}

func TestScheduleClockSkew(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	card := graduateCard(t, s, &now)

	// A review timestamped before the last review must not produce a
	// negative elapsed interval or panic.
	skewed := now.Add(-48 * time.Hour)
	next := s.Schedule(&card, domain.RatingGood, skewed)

	assert.Equal(t, 0.0, next.ElapsedDays)
	assert.Greater(t, next.Stability, 0.0)
	require.NotNil(t, next.Due)
}

func TestScheduleOutOfRangeRatingIsClamped(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	low := s.Schedule(newTestCard(t), domain.Rating(0), now)
	again := s.Schedule(newTestCard(t), domain.RatingAgain, now)
	assertSameSchedule(t, again, low)

	high := s.Schedule(newTestCard(t), domain.Rating(9), now)
	easy := s.Schedule(newTestCard(t), domain.RatingEasy, now)
	assertSameSchedule(t, easy, high)
}

func TestScheduleRepsMonotonic(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	card := *newTestCard(t)
	ratings := []domain.Rating{
		domain.RatingGood, domain.RatingAgain, domain.RatingHard,
		domain.RatingGood, domain.RatingEasy, domain.RatingAgain,
	}
	for i, rating := range ratings {
		card = s.Schedule(&card, rating, now)
		assert.Equal(t, i+1, card.Reps, "reps must grow by exactly one per review")
		now = now.Add(time.Hour)
	}
}

func TestScheduleGoodStreakReachesMastery(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	card := *newTestCard(t)
	status := card.Status
	for i := 0; i < 15; i++ {
		prev := status
		card = s.Schedule(&card, domain.RatingGood, now)
		status = s.Project(prev, card)
		if status == domain.StatusMastered {
			assert.Greater(t, card.Stability, DefaultMasteryThresholdDays)
			assert.Equal(t, domain.StateReview, card.State)
			assert.Zero(t, card.Lapses)
			return
		}
		assert.Equal(t, domain.StatusLearning, status)
		// Answer exactly when due.
		require.NotNil(t, card.Due)
		now = *card.Due
	}
	t.Fatal("a sustained Good streak should reach MASTERED within 15 reviews")
}

func TestProject(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)

	testCases := []struct {
		name string
		prev domain.LearningStatus
		card domain.CardState
		want domain.LearningStatus
	}{
		{
			name: "review card past threshold is mastered",
			prev: domain.StatusLearning,
			card: domain.CardState{State: domain.StateReview, Stability: 30},
			want: domain.StatusMastered,
		},
		{
			name: "review card exactly at threshold stays learning",
			prev: domain.StatusLearning,
			card: domain.CardState{State: domain.StateReview, Stability: 21},
			want: domain.StatusLearning,
		},
		{
			name: "learning card is learning",
			prev: domain.StatusNew,
			card: domain.CardState{State: domain.StateLearning, Stability: 2},
			want: domain.StatusLearning,
		},
		{
			name: "relearning card is learning even with high stability",
			prev: domain.StatusMastered,
			card: domain.CardState{State: domain.StateRelearning, Stability: 40},
			want: domain.StatusLearning,
		},
		{
			name: "new card keeps previous status",
			prev: domain.StatusNew,
			card: domain.CardState{State: domain.StateNew},
			want: domain.StatusNew,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, s.Project(tc.prev, tc.card))
		})
	}
}

func TestMarkMastered(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Works on a card that has never been reviewed.
	card := newTestCard(t)
	mastered := s.MarkMastered(card, now)

	assert.Equal(t, domain.StatusMastered, mastered.Status)
	assert.Equal(t, domain.StateReview, mastered.State)
	assert.Equal(t, DefaultMasteredStability, mastered.Stability)
	assert.Zero(t, mastered.Reps, "the override does not fabricate review history")
	require.NotNil(t, mastered.Due)
	assert.Equal(t, 365.0, mastered.ScheduledDays, "interval matches the pinned stability at the default retention")
	assert.Equal(t, now.Add(365*24*time.Hour), *mastered.Due)

	// Preserves accumulated history on a reviewed card.
	reviewed := graduateCard(t, s, &now)
	reviewed.Lapses = 3
	reviewed.ErrorCount = 7
	m2 := s.MarkMastered(&reviewed, now)
	assert.Equal(t, 3, m2.Lapses)
	assert.Equal(t, 7, m2.ErrorCount)
	assert.Equal(t, reviewed.Reps, m2.Reps)
	assert.Equal(t, reviewed.Difficulty, m2.Difficulty)
}

func TestPostpone(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	card := graduateCard(t, s, &now)
	require.NotNil(t, card.Due)
	originalDue := *card.Due

	t.Run("pushes a future due date further out", func(t *testing.T) {
		t.Parallel()
		postponed, err := s.Postpone(&card, 3, now)
		require.NoError(t, err)
		assert.Equal(t, originalDue.Add(3*24*time.Hour), *postponed.Due)
		assert.Equal(t, card.Stability, postponed.Stability, "postpone leaves the memory model alone")
		assert.Equal(t, card.Reps, postponed.Reps)
	})

	t.Run("overdue card postpones from now", func(t *testing.T) {
		t.Parallel()
		late := originalDue.Add(10 * 24 * time.Hour)
		postponed, err := s.Postpone(&card, 2, late)
		require.NoError(t, err)
		assert.Equal(t, late.Add(2*24*time.Hour), *postponed.Due)
	})

	t.Run("rejects non-positive days", func(t *testing.T) {
		t.Parallel()
		_, err := s.Postpone(&card, 0, now)
		assert.ErrorIs(t, err, ErrInvalidDays)
		_, err = s.Postpone(&card, -1, now)
		assert.ErrorIs(t, err, ErrInvalidDays)
	})
}

func TestScheduleWithoutLearningSteps(t *testing.T) {
	t.Parallel()
	s, err := NewScheduler(SchedulerConfig{
		LearningSteps:   []time.Duration{},
		RelearningSteps: []time.Duration{},
	})
	require.NoError(t, err)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// With no learning steps every first review graduates immediately.
	card := s.Schedule(newTestCard(t), domain.RatingAgain, now)
	assert.Equal(t, domain.StateReview, card.State)

	// With no relearning steps a lapse reschedules within Review.
	now = now.Add(5 * 24 * time.Hour)
	card = s.Schedule(&card, domain.RatingAgain, now)
	assert.Equal(t, domain.StateReview, card.State)
	assert.Equal(t, 1, card.Lapses)
}

// graduateCard drives a fresh card into the Review state with Good
// answers and advances the clock past the learning steps.
func graduateCard(t *testing.T, s *Scheduler, now *time.Time) domain.CardState {
	t.Helper()
	card := s.Schedule(newTestCard(t), domain.RatingGood, *now)
	*now = now.Add(10 * time.Minute)
	card = s.Schedule(&card, domain.RatingGood, *now)
	require.Equal(t, domain.StateReview, card.State)
	return card
}

// assertSameSchedule compares scheduling outcomes while ignoring the
// identity fields, which differ per generated card.
func assertSameSchedule(t *testing.T, want, got domain.CardState) {
	t.Helper()
	assert.Equal(t, want.State, got.State)
	assert.Equal(t, want.Stability, got.Stability)
	assert.Equal(t, want.Difficulty, got.Difficulty)
	assert.Equal(t, want.ScheduledDays, got.ScheduledDays)
	assert.Equal(t, want.Reps, got.Reps)
}
