package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/domain"
	"github.com/wordtrail/reviewkit/internal/domain/selection"
)

// CandidateFilter restricts QueryCandidates to a scope. Nil fields mean
// no restriction; Limit caps the snapshot size (0 means no cap).
type CandidateFilter struct {
	SourceID        *uuid.UUID
	CollectionID    *uuid.UUID
	IncludeMastered bool
	Limit           int
}

// SchedulingStore is the persistence capability for per-(user, word)
// card states. There is exactly one card state per (user, word) pair;
// the backing store enforces a uniqueness constraint on that key.
//
// Methods that read with intent to write must use GetForUpdate inside a
// transaction: a review is a read-modify-write over a single card state
// and concurrent unserialized writes can lose updates.
type SchedulingStore interface {
	// Create saves the initial card state for a (user, word) pair.
	// Returns ErrCardStateExists if one already exists.
	Create(ctx context.Context, card *domain.CardState) error

	// Get retrieves the card state for a (user, word) pair without any
	// row locking. Returns ErrCardStateNotFound if none exists.
	Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error)

	// GetForUpdate retrieves the card state with a row-level lock.
	// Must be called inside a transaction. Returns ErrCardStateNotFound
	// if none exists.
	GetForUpdate(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error)

	// Update replaces an existing card state, identified by the
	// (UserID, WordID) on the value. Returns ErrCardStateNotFound if no
	// state exists.
	Update(ctx context.Context, card *domain.CardState) error

	// Delete removes the card state for a (user, word) pair. Returns
	// ErrCardStateNotFound if none exists.
	Delete(ctx context.Context, userID, wordID uuid.UUID) error

	// QueryCandidates returns a point-in-time snapshot of the user's
	// candidate pool (words joined with their card state, if any) for
	// the selection policy. The snapshot may go stale under concurrent
	// reviews; that staleness is acceptable because the scheduler
	// recomputes from the live row at review time.
	QueryCandidates(ctx context.Context, userID uuid.UUID, filter CandidateFilter) ([]selection.Candidate, error)

	// WithTx returns a SchedulingStore bound to the given transaction.
	WithTx(tx *sql.Tx) SchedulingStore
}

// ReviewLogStore is the append-only analytics log of processed reviews.
// Appends are best-effort from the caller's point of view: a failed
// append never rolls back the card state write it describes.
type ReviewLogStore interface {
	// Append stores one immutable review log entry.
	Append(ctx context.Context, entry domain.ReviewLogEntry) error

	// ListByWord returns the most recent entries for a (user, word)
	// pair, newest first, capped at limit.
	ListByWord(ctx context.Context, userID, wordID uuid.UUID, limit int) ([]domain.ReviewLogEntry, error)
}

// TxRunner executes a function against a SchedulingStore inside a
// single transaction. Backend adapters provide the implementation; the
// in-memory store runs the function directly under its lock.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, s SchedulingStore) error) error
}
