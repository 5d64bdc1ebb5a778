// Package session builds review sessions: it snapshots the user's
// candidate pool from the store, runs the pure selection policy over
// it, and materializes card states for never-reviewed words that made
// the cut so their first review has something to update.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/domain"
	"github.com/wordtrail/reviewkit/internal/domain/selection"
	"github.com/wordtrail/reviewkit/internal/platform/logger"
	"github.com/wordtrail/reviewkit/internal/store"
)

// ErrNoCandidates mirrors selection.ErrNoCandidates at the service
// boundary: the scoped pool was empty, which callers render as an empty
// state rather than a failure.
var ErrNoCandidates = selection.ErrNoCandidates

// Request describes the session to build.
type Request struct {
	Limit int
	Mode  selection.Mode
	Scope selection.Scope
}

// Service builds review sessions.
type Service interface {
	// BuildSession selects at most req.Limit candidates for the user's
	// next session. Every returned candidate has a non-nil card state:
	// never-reviewed selections are materialized as NEW cards before
	// being returned, idempotently against the store's (user, word)
	// uniqueness constraint.
	BuildSession(ctx context.Context, userID uuid.UUID, req Request) ([]selection.Candidate, error)
}

type serviceImpl struct {
	scheduling store.SchedulingStore
	policy     selection.Policy
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates the session service.
func NewService(scheduling store.SchedulingStore, policy selection.Policy, log *slog.Logger) Service {
	if scheduling == nil {
		panic("scheduling store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &serviceImpl{
		scheduling: scheduling,
		policy:     policy,
		logger:     log.With(slog.String("component", "session_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Verify interface compliance at compile time.
var _ Service = (*serviceImpl)(nil)

// BuildSession implements Service.BuildSession.
func (s *serviceImpl) BuildSession(
	ctx context.Context,
	userID uuid.UUID,
	req Request,
) ([]selection.Candidate, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	mode := req.Mode
	if mode == "" {
		mode = selection.ModeStandard
	}

	filter := store.CandidateFilter{
		SourceID:        req.Scope.SourceID,
		CollectionID:    req.Scope.CollectionID,
		IncludeMastered: mode != selection.ModeStandard,
	}
	pool, err := s.scheduling.QueryCandidates(ctx, userID, filter)
	if err != nil {
		log.Error("failed to query candidate pool",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}

	now := s.now()
	selected, err := s.policy.SelectForSession(pool, req.Limit, req.Scope, mode, now)
	if err != nil {
		if errors.Is(err, selection.ErrNoCandidates) {
			log.Debug("no candidates in scope", slog.String("user_id", userID.String()))
			return nil, ErrNoCandidates
		}
		return nil, err
	}

	for i := range selected {
		if selected[i].Card != nil {
			continue
		}
		card, err := s.materialize(ctx, userID, selected[i].Word.WordID)
		if err != nil {
			return nil, err
		}
		selected[i].Card = card
	}

	log.Debug("session built",
		slog.String("user_id", userID.String()),
		slog.String("mode", string(mode)),
		slog.Int("size", len(selected)))

	return selected, nil
}

// materialize creates the initial NEW card state for a word entering
// the session. Creation races with other sessions for the same user;
// the store's uniqueness constraint makes losing the race harmless:
// we read back whatever won.
func (s *serviceImpl) materialize(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error) {
	card, err := domain.NewCardState(userID, wordID)
	if err != nil {
		return nil, err
	}

	err = s.scheduling.Create(ctx, card)
	if err == nil {
		return card, nil
	}
	if store.IsDuplicateError(err) {
		return s.scheduling.Get(ctx, userID, wordID)
	}
	return nil, fmt.Errorf("failed to materialize card state: %w", err)
}
