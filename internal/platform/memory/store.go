// Package memory implements the store interfaces in process memory. It
// backs the unit tests and the review simulator; the concurrency
// guarantees match the PostgreSQL adapter at the granularity the engine
// needs (a single mutex serializes all read-modify-write cycles).
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/wordtrail/reviewkit/internal/domain"
	"github.com/wordtrail/reviewkit/internal/domain/selection"
	"github.com/wordtrail/reviewkit/internal/store"
)

type cardKey struct {
	userID uuid.UUID
	wordID uuid.UUID
}

// Store is an in-memory SchedulingStore, ReviewLogStore, and TxRunner.
// Safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex // serializes whole read-modify-write cycles
	words map[uuid.UUID]domain.WordMeta
	cards map[cardKey]*domain.CardState
	logs  []domain.ReviewLogEntry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		words: make(map[uuid.UUID]domain.WordMeta),
		cards: make(map[cardKey]*domain.CardState),
	}
}

// Compile-time interface checks.
var (
	_ store.SchedulingStore = (*Store)(nil)
	_ store.ReviewLogStore  = (*Store)(nil)
	_ store.TxRunner        = (*Store)(nil)
)

// AddWord registers a word in the candidate pool. Registration is the
// external word-management concern; the engine only reads it.
func (s *Store) AddWord(word domain.WordMeta) error {
	if err := word.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words[word.WordID] = word
	return nil
}

// Create implements store.SchedulingStore.Create.
func (s *Store) Create(ctx context.Context, card *domain.CardState) error {
	if err := card.Validate(); err != nil {
		return store.ErrInvalidEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cardKey{card.UserID, card.WordID}
	if _, ok := s.cards[key]; ok {
		return store.ErrCardStateExists
	}
	s.cards[key] = card.Clone()
	return nil
}

// Get implements store.SchedulingStore.Get.
func (s *Store) Get(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[cardKey{userID, wordID}]
	if !ok {
		return nil, store.ErrCardStateNotFound
	}
	return card.Clone(), nil
}

// GetForUpdate implements store.SchedulingStore.GetForUpdate. The
// store-wide mutex already serializes writers, so this is Get.
func (s *Store) GetForUpdate(ctx context.Context, userID, wordID uuid.UUID) (*domain.CardState, error) {
	return s.Get(ctx, userID, wordID)
}

// Update implements store.SchedulingStore.Update.
func (s *Store) Update(ctx context.Context, card *domain.CardState) error {
	if err := card.Validate(); err != nil {
		return store.ErrInvalidEntity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cardKey{card.UserID, card.WordID}
	if _, ok := s.cards[key]; !ok {
		return store.ErrCardStateNotFound
	}
	s.cards[key] = card.Clone()
	return nil
}

// Delete implements store.SchedulingStore.Delete.
func (s *Store) Delete(ctx context.Context, userID, wordID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cardKey{userID, wordID}
	if _, ok := s.cards[key]; !ok {
		return store.ErrCardStateNotFound
	}
	delete(s.cards, key)
	return nil
}

// QueryCandidates implements store.SchedulingStore.QueryCandidates.
func (s *Store) QueryCandidates(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CandidateFilter,
) ([]selection.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidates := make([]selection.Candidate, 0, len(s.words))
	for _, word := range s.words {
		if filter.SourceID != nil && (word.SourceID == nil || *word.SourceID != *filter.SourceID) {
			continue
		}
		if filter.CollectionID != nil && (word.CollectionID == nil || *word.CollectionID != *filter.CollectionID) {
			continue
		}

		var card *domain.CardState
		if c, ok := s.cards[cardKey{userID, word.WordID}]; ok {
			if !filter.IncludeMastered && c.Status == domain.StatusMastered {
				continue
			}
			card = c.Clone()
		}
		candidates = append(candidates, selection.Candidate{Word: word, Card: card})
	}

	// Map iteration order is random; keep snapshots deterministic.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Word.Term < candidates[j].Word.Term
	})

	if filter.Limit > 0 && len(candidates) > filter.Limit {
		candidates = candidates[:filter.Limit]
	}
	return candidates, nil
}

// WithTx implements store.SchedulingStore.WithTx. The in-memory store
// has no transactions; it returns itself.
func (s *Store) WithTx(tx *sql.Tx) store.SchedulingStore {
	return s
}

// RunInTransaction implements store.TxRunner. There are no real
// transactions in memory; instead a store-wide single-writer lock is
// held for the duration of fn, which serializes concurrent
// read-modify-write cycles the way row locks do in PostgreSQL.
func (s *Store) RunInTransaction(
	ctx context.Context,
	fn func(ctx context.Context, st store.SchedulingStore) error,
) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx, s)
}

// Append implements store.ReviewLogStore.Append.
func (s *Store) Append(ctx context.Context, entry domain.ReviewLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	return nil
}

// ListByWord implements store.ReviewLogStore.ListByWord.
func (s *Store) ListByWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
	limit int,
) ([]domain.ReviewLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []domain.ReviewLogEntry
	for i := len(s.logs) - 1; i >= 0 && len(entries) < limit; i-- {
		if s.logs[i].UserID == userID && s.logs[i].WordID == wordID {
			entries = append(entries, s.logs[i])
		}
	}
	return entries, nil
}

// LogCount returns the total number of appended review log entries.
func (s *Store) LogCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.logs)
}
