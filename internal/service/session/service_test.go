package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordtrail/reviewkit/internal/domain"
	"github.com/wordtrail/reviewkit/internal/domain/selection"
	"github.com/wordtrail/reviewkit/internal/platform/memory"
)

func seedWords(t *testing.T, mem *memory.Store, terms ...string) map[string]uuid.UUID {
	t.Helper()
	ids := make(map[string]uuid.UUID, len(terms))
	for _, term := range terms {
		id := uuid.New()
		require.NoError(t, mem.AddWord(domain.WordMeta{WordID: id, Term: term}))
		ids[term] = id
	}
	return ids
}

func TestBuildSessionMaterializesNewCards(t *testing.T) {
	t.Parallel()
	mem := memory.NewStore()
	seedWords(t, mem, "alpha", "bravo", "charlie")
	svc := NewService(mem, selection.Policy{}, nil)
	userID := uuid.New()
	ctx := context.Background()

	got, err := svc.BuildSession(ctx, userID, Request{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 3)

	for _, c := range got {
		require.NotNil(t, c.Card, "every selected candidate carries a card state")
		assert.Equal(t, domain.StatusNew, c.Card.Status)
		assert.Zero(t, c.Card.Reps)
		assert.Equal(t, userID, c.Card.UserID)

		// And it is persisted, not just attached to the result.
		stored, err := mem.Get(ctx, userID, c.Word.WordID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNew, stored.Status)
	}
}

func TestBuildSessionIsIdempotent(t *testing.T) {
	t.Parallel()
	mem := memory.NewStore()
	ids := seedWords(t, mem, "alpha")
	svc := NewService(mem, selection.Policy{}, nil)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.BuildSession(ctx, userID, Request{Limit: 5})
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Building again reuses the already-materialized card instead of
	// failing on the uniqueness constraint.
	second, err := svc.BuildSession(ctx, userID, Request{Limit: 5})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Card.CreatedAt, second[0].Card.CreatedAt)

	stored, err := mem.Get(ctx, userID, ids["alpha"])
	require.NoError(t, err)
	assert.Zero(t, stored.Reps)
}

func TestBuildSessionHonorsLimit(t *testing.T) {
	t.Parallel()
	mem := memory.NewStore()
	seedWords(t, mem, "a", "b", "c", "d", "e", "f")
	svc := NewService(mem, selection.Policy{}, nil)

	got, err := svc.BuildSession(context.Background(), uuid.New(), Request{Limit: 4})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestBuildSessionEmptyPool(t *testing.T) {
	t.Parallel()
	mem := memory.NewStore()
	svc := NewService(mem, selection.Policy{}, nil)

	_, err := svc.BuildSession(context.Background(), uuid.New(), Request{Limit: 10})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestBuildSessionScope(t *testing.T) {
	t.Parallel()
	mem := memory.NewStore()
	sourceID := uuid.New()
	scoped := domain.WordMeta{WordID: uuid.New(), Term: "scoped", SourceID: &sourceID}
	other := domain.WordMeta{WordID: uuid.New(), Term: "other"}
	require.NoError(t, mem.AddWord(scoped))
	require.NoError(t, mem.AddWord(other))
	svc := NewService(mem, selection.Policy{}, nil)

	got, err := svc.BuildSession(context.Background(), uuid.New(), Request{
		Limit: 10,
		Scope: selection.Scope{SourceID: &sourceID},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "scoped", got[0].Word.Term)

	// A scope matching nothing is the distinguishable empty result.
	missing := uuid.New()
	_, err = svc.BuildSession(context.Background(), uuid.New(), Request{
		Limit: 10,
		Scope: selection.Scope{SourceID: &missing},
	})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestBuildSessionReviewAllIncludesMastered(t *testing.T) {
	t.Parallel()
	mem := memory.NewStore()
	ids := seedWords(t, mem, "mastered", "fresh")
	userID := uuid.New()
	ctx := context.Background()

	card, err := domain.NewCardState(userID, ids["mastered"])
	require.NoError(t, err)
	card.Status = domain.StatusMastered
	card.State = domain.StateReview
	card.Reps = 8
	card.Stability = 100
	due := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	card.Due = &due
	require.NoError(t, mem.Create(ctx, card))

	svc := NewService(mem, selection.Policy{}, nil)

	standard, err := svc.BuildSession(ctx, userID, Request{Limit: 10})
	require.NoError(t, err)
	require.Len(t, standard, 1)
	assert.Equal(t, "fresh", standard[0].Word.Term)

	all, err := svc.BuildSession(ctx, userID, Request{Limit: 10, Mode: selection.ModeReviewAll})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBuildSessionHardestWords(t *testing.T) {
	t.Parallel()
	mem := memory.NewStore()
	ids := seedWords(t, mem, "easy", "hard")
	userID := uuid.New()
	ctx := context.Background()

	for term, errCount := range map[string]int{"easy": 1, "hard": 6} {
		card, err := domain.NewCardState(userID, ids[term])
		require.NoError(t, err)
		card.Status = domain.StatusLearning
		card.State = domain.StateReview
		card.Reps = 3
		card.Stability = 5
		card.ErrorCount = errCount
		require.NoError(t, mem.Create(ctx, card))
	}

	svc := NewService(mem, selection.Policy{}, nil)
	got, err := svc.BuildSession(ctx, userID, Request{Limit: 2, Mode: selection.ModeHardestWords})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "hard", got[0].Word.Term)
	assert.Equal(t, "easy", got[1].Word.Term)
}
