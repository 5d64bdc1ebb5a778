package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/wordtrail/reviewkit/internal/store"
)

// TxRunner implements store.TxRunner on a PostgreSQL connection pool.
type TxRunner struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTxRunner creates a transaction runner over the given pool.
func NewTxRunner(db *sql.DB, log *slog.Logger) *TxRunner {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TxRunner{db: db, logger: log}
}

// Ensure TxRunner implements store.TxRunner.
var _ store.TxRunner = (*TxRunner)(nil)

// RunInTransaction implements store.TxRunner. The function receives a
// SchedulingStore bound to the transaction; the transaction commits
// when the function returns nil and rolls back otherwise.
func (r *TxRunner) RunInTransaction(
	ctx context.Context,
	fn func(ctx context.Context, s store.SchedulingStore) error,
) error {
	return store.RunInTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(ctx, NewCardStateStore(tx, r.logger))
	})
}
