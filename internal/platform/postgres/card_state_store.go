package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/domain"
	"github.com/wordtrail/reviewkit/internal/domain/selection"
	"github.com/wordtrail/reviewkit/internal/platform/logger"
	"github.com/wordtrail/reviewkit/internal/store"
)

// CardStateStore implements store.SchedulingStore on PostgreSQL.
type CardStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStateStore creates a PostgreSQL-backed SchedulingStore. The
// connection (or transaction) is owned by the caller. A nil logger
// falls back to the process default.
func NewCardStateStore(db store.DBTX, log *slog.Logger) *CardStateStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CardStateStore{
		db:     db,
		logger: log.With(slog.String("component", "card_state_store")),
	}
}

// Ensure CardStateStore implements store.SchedulingStore.
var _ store.SchedulingStore = (*CardStateStore)(nil)

const cardStateColumns = `
	user_id, word_id, status, state, due,
	stability, difficulty, elapsed_days, scheduled_days,
	reps, lapses, last_review, error_count, last_error_at,
	created_at, updated_at`

// Create implements store.SchedulingStore.Create. The (user_id,
// word_id) primary key makes card materialization idempotent at the
// database level: a second insert surfaces as ErrCardStateExists.
func (s *CardStateStore) Create(ctx context.Context, card *domain.CardState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO card_states (` + cardStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(ctx, query,
		card.UserID, card.WordID, card.Status, card.State, card.Due,
		card.Stability, card.Difficulty, card.ElapsedDays, card.ScheduledDays,
		card.Reps, card.Lapses, card.LastReview, card.ErrorCount, card.LastErrorAt,
		card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("card state already exists",
				slog.String("user_id", card.UserID.String()),
				slog.String("word_id", card.WordID.String()))
			return store.ErrCardStateExists
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: word %s", store.ErrWordNotFound, card.WordID)
		}
		log.Error("failed to create card state",
			slog.String("error", err.Error()),
			slog.String("user_id", card.UserID.String()),
			slog.String("word_id", card.WordID.String()))
		return err
	}

	return nil
}

// Get implements store.SchedulingStore.Get.
func (s *CardStateStore) Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error) {
	query := `SELECT ` + cardStateColumns + ` FROM card_states WHERE user_id = $1 AND word_id = $2`
	return s.scanOne(ctx, query, userID, wordID)
}

// GetForUpdate implements store.SchedulingStore.GetForUpdate. It takes
// a row-level lock so concurrent reviews of the same (user, word) pair
// serialize instead of losing updates. Only meaningful inside a
// transaction.
func (s *CardStateStore) GetForUpdate(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error) {
	query := `SELECT ` + cardStateColumns + ` FROM card_states WHERE user_id = $1 AND word_id = $2 FOR UPDATE`
	return s.scanOne(ctx, query, userID, wordID)
}

func (s *CardStateStore) scanOne(ctx context.Context, query string, userID, wordID uuid.UUID) (*domain.CardState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card domain.CardState
	err := s.db.QueryRowContext(ctx, query, userID, wordID).Scan(
		&card.UserID, &card.WordID, &card.Status, &card.State, &card.Due,
		&card.Stability, &card.Difficulty, &card.ElapsedDays, &card.ScheduledDays,
		&card.Reps, &card.Lapses, &card.LastReview, &card.ErrorCount, &card.LastErrorAt,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardStateNotFound
		}
		log.Error("failed to get card state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return nil, err
	}
	return &card, nil
}

// Update implements store.SchedulingStore.Update.
func (s *CardStateStore) Update(ctx context.Context, card *domain.CardState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE card_states
		SET status = $3, state = $4, due = $5,
		    stability = $6, difficulty = $7, elapsed_days = $8, scheduled_days = $9,
		    reps = $10, lapses = $11, last_review = $12, error_count = $13, last_error_at = $14,
		    updated_at = $15
		WHERE user_id = $1 AND word_id = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		card.UserID, card.WordID, card.Status, card.State, card.Due,
		card.Stability, card.Difficulty, card.ElapsedDays, card.ScheduledDays,
		card.Reps, card.Lapses, card.LastReview, card.ErrorCount, card.LastErrorAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update card state",
			slog.String("error", err.Error()),
			slog.String("user_id", card.UserID.String()),
			slog.String("word_id", card.WordID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrCardStateNotFound
	}
	return nil
}

// Delete implements store.SchedulingStore.Delete.
func (s *CardStateStore) Delete(ctx context.Context, userID, wordID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM card_states WHERE user_id = $1 AND word_id = $2`, userID, wordID)
	if err != nil {
		log.Error("failed to delete card state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrCardStateNotFound
	}
	return nil
}

// QueryCandidates implements store.SchedulingStore.QueryCandidates. It
// joins the word registry against the user's card states; words the
// user has never seen come back with a nil card.
func (s *CardStateStore) QueryCandidates(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CandidateFilter,
) ([]selection.Candidate, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT w.id, w.term, w.source_id, w.collection_id,
		       cs.user_id, cs.status, cs.state, cs.due,
		       cs.stability, cs.difficulty, cs.elapsed_days, cs.scheduled_days,
		       cs.reps, cs.lapses, cs.last_review, cs.error_count, cs.last_error_at,
		       cs.created_at, cs.updated_at
		FROM words w
		LEFT JOIN card_states cs ON cs.word_id = w.id AND cs.user_id = $1
		WHERE ($2::uuid IS NULL OR w.source_id = $2)
		  AND ($3::uuid IS NULL OR w.collection_id = $3)
		  AND ($4 OR cs.status IS NULL OR cs.status <> 'MASTERED')
		ORDER BY cs.due NULLS FIRST, w.term
	`
	args := []any{userID, filter.SourceID, filter.CollectionID, filter.IncludeMastered}
	if filter.Limit > 0 {
		query += ` LIMIT $5`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query candidates",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var candidates []selection.Candidate
	for rows.Next() {
		var c selection.Candidate
		var sourceID, collectionID, cardUserID uuid.NullUUID
		var status, state sql.NullString
		var stability, difficulty, elapsedDays, scheduledDays sql.NullFloat64
		var reps, lapses, errorCount sql.NullInt64
		var due, lastReview, lastErrorAt, createdAt, updatedAt sql.NullTime
		if err := rows.Scan(
			&c.Word.WordID, &c.Word.Term, &sourceID, &collectionID,
			&cardUserID, &status, &state, &due,
			&stability, &difficulty, &elapsedDays, &scheduledDays,
			&reps, &lapses, &lastReview, &errorCount, &lastErrorAt,
			&createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}

		if sourceID.Valid {
			c.Word.SourceID = &sourceID.UUID
		}
		if collectionID.Valid {
			c.Word.CollectionID = &collectionID.UUID
		}

		if cardUserID.Valid {
			card := &domain.CardState{
				UserID:        cardUserID.UUID,
				WordID:        c.Word.WordID,
				Status:        domain.LearningStatus(status.String),
				State:         domain.ReviewState(state.String),
				Stability:     stability.Float64,
				Difficulty:    difficulty.Float64,
				ElapsedDays:   elapsedDays.Float64,
				ScheduledDays: scheduledDays.Float64,
				Reps:          int(reps.Int64),
				Lapses:        int(lapses.Int64),
				ErrorCount:    int(errorCount.Int64),
				CreatedAt:     createdAt.Time,
				UpdatedAt:     updatedAt.Time,
			}
			if due.Valid {
				card.Due = &due.Time
			}
			if lastReview.Valid {
				card.LastReview = &lastReview.Time
			}
			if lastErrorAt.Valid {
				card.LastErrorAt = &lastErrorAt.Time
			}
			c.Card = card
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidate rows: %w", err)
	}

	return candidates, nil
}

// WithTx implements store.SchedulingStore.WithTx.
func (s *CardStateStore) WithTx(tx *sql.Tx) store.SchedulingStore {
	return &CardStateStore{db: tx, logger: s.logger}
}
