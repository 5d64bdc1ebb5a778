package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/domain"
	"github.com/wordtrail/reviewkit/internal/platform/logger"
	"github.com/wordtrail/reviewkit/internal/store"
)

// ReviewLogStore implements store.ReviewLogStore on PostgreSQL. The
// table is append-only; entries are never updated or deleted.
type ReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewLogStore creates a PostgreSQL-backed ReviewLogStore.
func NewReviewLogStore(db store.DBTX, log *slog.Logger) *ReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReviewLogStore{
		db:     db,
		logger: log.With(slog.String("component", "review_log_store")),
	}
}

// Ensure ReviewLogStore implements store.ReviewLogStore.
var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// Append implements store.ReviewLogStore.Append.
func (s *ReviewLogStore) Append(ctx context.Context, entry domain.ReviewLogEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO review_logs (
			id, user_id, word_id, rating, mode,
			response_time_ms, was_correct, error_count,
			resulting_stability, resulting_difficulty, resulting_due, reviewed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.WordID, int(entry.Rating), entry.Mode,
		entry.ResponseTimeMs, entry.WasCorrect, entry.ErrorCount,
		entry.ResultingStability, entry.ResultingDifficulty, entry.ResultingDue, entry.ReviewedAt,
	)
	if err != nil {
		log.Error("failed to append review log entry",
			slog.String("error", err.Error()),
			slog.String("user_id", entry.UserID.String()),
			slog.String("word_id", entry.WordID.String()))
		return err
	}
	return nil
}

// ListByWord implements store.ReviewLogStore.ListByWord.
func (s *ReviewLogStore) ListByWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
	limit int,
) ([]domain.ReviewLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, word_id, rating, mode,
		       response_time_ms, was_correct, error_count,
		       resulting_stability, resulting_difficulty, resulting_due, reviewed_at
		FROM review_logs
		WHERE user_id = $1 AND word_id = $2
		ORDER BY reviewed_at DESC
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, wordID, limit)
	if err != nil {
		log.Error("failed to list review log entries",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []domain.ReviewLogEntry
	for rows.Next() {
		var (
			entry  domain.ReviewLogEntry
			rating int
		)
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.WordID, &rating, &entry.Mode,
			&entry.ResponseTimeMs, &entry.WasCorrect, &entry.ErrorCount,
			&entry.ResultingStability, &entry.ResultingDifficulty, &entry.ResultingDue, &entry.ReviewedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review log row: %w", err)
		}
		entry.Rating = domain.Rating(rating)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review log rows: %w", err)
	}

	return entries, nil
}
