package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// WithTx runs fn inside one transaction, committing on nil and rolling
// back otherwise. Used by flows that manage their own ordering instead of
// going through the versioned executors.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
