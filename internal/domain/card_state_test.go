package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardState(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	wordID := uuid.New()

	card, err := NewCardState(userID, wordID)
	require.NoError(t, err, "Failed to create card state")

	assert.Equal(t, userID, card.UserID)
	assert.Equal(t, wordID, card.WordID)
	assert.Equal(t, StatusNew, card.Status)
	assert.Equal(t, StateNew, card.State)
	assert.Zero(t, card.Reps)
	assert.Zero(t, card.Lapses)
	assert.Zero(t, card.Stability)
	assert.Nil(t, card.Due)
	assert.Nil(t, card.LastReview)
	assert.False(t, card.CreatedAt.IsZero())
}

func TestNewCardStateRejectsNilIDs(t *testing.T) {
	t.Parallel()

	_, err := NewCardState(uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, ErrEmptyUserID)

	_, err = NewCardState(uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, ErrEmptyWordID)
}

func TestCardStateValidate(t *testing.T) {
	t.Parallel()

	valid := func() CardState {
		return CardState{
			UserID: uuid.New(),
			WordID: uuid.New(),
			Status: StatusLearning,
			State:  StateReview,
			Reps:   3,

			Stability:  5.0,
			Difficulty: 4.2,
		}
	}

	testCases := []struct {
		name    string
		mutate  func(*CardState)
		wantErr error
	}{
		{
			name:    "valid card passes",
			mutate:  func(c *CardState) {},
			wantErr: nil,
		},
		{
			name:    "negative reps",
			mutate:  func(c *CardState) { c.Reps = -1 },
			wantErr: ErrInvalidReps,
		},
		{
			name:    "negative lapses",
			mutate:  func(c *CardState) { c.Lapses = -1 },
			wantErr: ErrInvalidLapses,
		},
		{
			name:    "negative error count",
			mutate:  func(c *CardState) { c.ErrorCount = -1 },
			wantErr: ErrInvalidErrorCount,
		},
		{
			name:    "unknown state",
			mutate:  func(c *CardState) { c.State = "suspended" },
			wantErr: ErrInvalidState,
		},
		{
			name:    "reviewed card with zero stability",
			mutate:  func(c *CardState) { c.Stability = 0 },
			wantErr: ErrInvalidStability,
		},
		{
			name: "unreviewed card may have zero stability",
			mutate: func(c *CardState) {
				c.Reps = 0
				c.Stability = 0
				c.State = StateNew
			},
			wantErr: nil,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			card := valid()
			tc.mutate(&card)
			err := card.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestCardStateIsDue(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	neverScheduled := CardState{}
	assert.True(t, neverScheduled.IsDue(now), "card with no due date should be immediately due")

	dueCard := CardState{Due: &past}
	assert.True(t, dueCard.IsDue(now))

	exactlyDue := CardState{Due: &now}
	assert.True(t, exactlyDue.IsDue(now), "a card due exactly now is due")

	notDue := CardState{Due: &future}
	assert.False(t, notDue.IsDue(now))
}

func TestCardStateClone(t *testing.T) {
	t.Parallel()
	due := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	last := due.Add(-24 * time.Hour)

	orig := &CardState{
		UserID:     uuid.New(),
		WordID:     uuid.New(),
		Status:     StatusLearning,
		State:      StateReview,
		Due:        &due,
		LastReview: &last,
		Stability:  3.3,
		Reps:       2,
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone)

	// Mutating the clone's pointer fields must not touch the original.
	*clone.Due = clone.Due.Add(48 * time.Hour)
	clone.Reps = 99
	assert.Equal(t, due, *orig.Due)
	assert.Equal(t, 2, orig.Reps)
}

func TestCardStateReviewed(t *testing.T) {
	t.Parallel()
	assert.False(t, (&CardState{}).Reviewed())
	assert.True(t, (&CardState{Reps: 1}).Reviewed())
}
