package review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/domain"
	"github.com/wordtrail/reviewkit/internal/domain/srs"
	"github.com/wordtrail/reviewkit/internal/events"
	"github.com/wordtrail/reviewkit/internal/platform/logger"
	"github.com/wordtrail/reviewkit/internal/store"
	"github.com/wordtrail/reviewkit/internal/task"
)

// Verify interface compliance at compile time.
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	txRunner  store.TxRunner
	scheduler *srs.Scheduler
	logRunner *task.LogRunner
	emitter   events.Emitter
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes the review service.
type Option func(*serviceImpl)

// WithLogRunner attaches a background runner for best-effort review
// log appends. Without one, no analytics log is written.
func WithLogRunner(r *task.LogRunner) Option {
	return func(s *serviceImpl) { s.logRunner = r }
}

// WithEmitter attaches an event emitter notified after each committed
// review.
func WithEmitter(e events.Emitter) Option {
	return func(s *serviceImpl) { s.emitter = e }
}

// WithClock overrides the service clock. Used by tests and the
// simulator to drive virtual time.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

// NewService creates the review service. txRunner and scheduler are
// required; the log runner and emitter are optional collaborators.
func NewService(txRunner store.TxRunner, scheduler *srs.Scheduler, log *slog.Logger, opts ...Option) Service {
	if txRunner == nil {
		panic("txRunner cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &serviceImpl{
		txRunner:  txRunner,
		scheduler: scheduler,
		logger:    log.With(slog.String("component", "review_service")),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitReview implements Service.SubmitReview.
func (s *serviceImpl) SubmitReview(
	ctx context.Context,
	userID, wordID uuid.UUID,
	event domain.ReviewEvent,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		log.Warn("rejected invalid review event",
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()),
			slog.String("error", err.Error()))
		return nil, NewSubmitReviewError("event validation", ErrInvalidEvent)
	}

	rating := srs.Classify(event)
	now := s.now()

	var result Result
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, st store.SchedulingStore) error {
		card, err := st.GetForUpdate(ctx, userID, wordID)
		existed := true
		if err != nil {
			if !store.IsNotFoundError(err) {
				return err
			}
			// First review of a word with no materialized state: create
			// it lazily as part of this scheduling pass.
			existed = false
			card, err = domain.NewCardState(userID, wordID)
			if err != nil {
				return err
			}
		}

		prevStatus := card.Status
		updated := s.scheduler.Schedule(card, rating, now)
		applyErrorAccounting(&updated, event, now)
		updated.Status = s.scheduler.Project(prevStatus, updated)

		if existed {
			err = st.Update(ctx, &updated)
		} else {
			err = st.Create(ctx, &updated)
		}
		if err != nil {
			return err
		}

		result = Result{Card: updated, Rating: rating, PreviousStatus: prevStatus}
		return nil
	})
	if err != nil {
		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return nil, NewSubmitReviewError("persisting review", err)
	}

	s.afterReview(ctx, event, &result, now)

	log.Debug("review processed",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()),
		slog.String("rating", result.Rating.String()),
		slog.String("status", string(result.Card.Status)),
		slog.Float64("stability", result.Card.Stability))

	return &result, nil
}

// afterReview handles the secondary, best-effort effects of a
// committed review: the analytics log append and the event emission.
// Neither can fail the review.
func (s *serviceImpl) afterReview(ctx context.Context, event domain.ReviewEvent, result *Result, now time.Time) {
	if s.logRunner != nil {
		entry := domain.NewReviewLogEntry(event, result.Rating, &result.Card, now)
		s.logRunner.Enqueue(entry)
	}

	if s.emitter != nil {
		err := s.emitter.EmitReviewRecorded(ctx, events.ReviewRecorded{
			UserID:     result.Card.UserID,
			WordID:     result.Card.WordID,
			Rating:     result.Rating,
			Mode:       event.Mode,
			NewStatus:  result.Card.Status,
			OccurredAt: now,
		})
		if err != nil {
			s.logger.Warn("review event emission failed",
				slog.String("error", err.Error()),
				slog.String("user_id", result.Card.UserID.String()))
		}
	}
}

// MarkMastered implements Service.MarkMastered.
func (s *serviceImpl) MarkMastered(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	var mastered domain.CardState
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, st store.SchedulingStore) error {
		card, err := st.GetForUpdate(ctx, userID, wordID)
		existed := true
		if err != nil {
			if !store.IsNotFoundError(err) {
				return err
			}
			existed = false
			card, err = domain.NewCardState(userID, wordID)
			if err != nil {
				return err
			}
		}

		mastered = s.scheduler.MarkMastered(card, now)

		if existed {
			return st.Update(ctx, &mastered)
		}
		return st.Create(ctx, &mastered)
	})
	if err != nil {
		log.Error("failed to mark word mastered",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return nil, NewMarkMasteredError("persisting override", err)
	}

	return &mastered, nil
}

// Postpone implements Service.Postpone.
func (s *serviceImpl) Postpone(ctx context.Context, userID, wordID uuid.UUID, days int) (*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	var postponed domain.CardState
	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, st store.SchedulingStore) error {
		card, err := st.GetForUpdate(ctx, userID, wordID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrNotInWorkingSet
			}
			return err
		}

		postponed, err = s.scheduler.Postpone(card, days, now)
		if err != nil {
			return ErrInvalidPostpone
		}
		return st.Update(ctx, &postponed)
	})
	if err != nil {
		if errors.Is(err, ErrNotInWorkingSet) || errors.Is(err, ErrInvalidPostpone) {
			return nil, err
		}
		log.Error("failed to postpone review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return nil, NewPostponeError("persisting postpone", err)
	}

	return &postponed, nil
}

// applyErrorAccounting folds the attempt's errors into the cumulative
// per-card error counters used for hardest-word ranking. A wrong final
// answer counts as one more error on top of the keystroke errors made
// along the way.
func applyErrorAccounting(card *domain.CardState, event domain.ReviewEvent, now time.Time) {
	mistakes := event.ErrorCount
	if !event.IsCorrect {
		mistakes++
	}
	if mistakes > 0 {
		card.ErrorCount += mistakes
		at := now
		card.LastErrorAt = &at
	}
}
