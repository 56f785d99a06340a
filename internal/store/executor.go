package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrVersionConflict means a row's version moved by anything other
	// than the single step the mutation was allowed to make.
	ErrVersionConflict = errors.New("version conflict")
	// ErrLockUnavailable means a NOWAIT row lock could not be acquired.
	ErrLockUnavailable = errors.New("lock unavailable")
	// ErrConcurrency wraps a conflict or lock failure that survived the
	// retry budget, so callers can tell contention from outage.
	ErrConcurrency = errors.New("concurrency fault")
	// ErrDatabase wraps any other store failure, including exhausted
	// transient retries.
	ErrDatabase = errors.New("database fault")
)

// TableJackpotPools is the only versioned table the executors run on
// today. Keeping the name here keeps callers out of SQL.
const TableJackpotPools = "jackpot_pools"

// RowKey names one versioned row.
type RowKey struct {
	Table string
	ID    string
}

// MutateFunc runs inside the executor's transaction. It must perform all
// writes through tx and bump the row version exactly once per mutated row.
type MutateFunc func(ctx context.Context, tx pgx.Tx) error

// RunOptimistic executes mutate against one versioned row: read version,
// mutate, verify the version advanced by exactly one (or not at all for a
// no-op), commit. Version conflicts and transient store faults retry with
// exponential backoff up to RetryMax.
func (s *Store) RunOptimistic(ctx context.Context, key RowKey, mutate MutateFunc) error {
	return s.runOptimistic(ctx, key.Table, []string{key.ID}, mutate)
}

// RunOptimisticBatch is RunOptimistic across several rows of one table.
// The whole operation fails if any id is missing, and every row must pass
// the version-advance check before commit.
func (s *Store) RunOptimisticBatch(ctx context.Context, table string, ids []string, mutate MutateFunc) error {
	if len(ids) == 0 {
		return nil
	}
	return s.runOptimistic(ctx, table, ids, mutate)
}

func (s *Store) runOptimistic(ctx context.Context, table string, ids []string, mutate MutateFunc) error {
	var lastErr error
	for attempt := 0; attempt <= s.RetryMax; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, s.RetryBase, attempt-1); err != nil {
				return err
			}
		}
		err := s.optimisticAttempt(ctx, table, ids, mutate)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrNotFound):
			return err
		case errors.Is(err, ErrVersionConflict) || isTransient(err):
			lastErr = err
		default:
			return err
		}
	}
	if errors.Is(lastErr, ErrVersionConflict) {
		return fmt.Errorf("%w: %w", ErrConcurrency, lastErr)
	}
	return fmt.Errorf("%w: retries exhausted: %w", ErrDatabase, lastErr)
}

func (s *Store) optimisticAttempt(ctx context.Context, table string, ids []string, mutate MutateFunc) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	before, err := readVersions(ctx, tx, table, ids)
	if err != nil {
		return err
	}
	if err := mutate(ctx, tx); err != nil {
		return err
	}
	after, err := readVersions(ctx, tx, table, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		step := after[id] - before[id]
		if step != 0 && step != 1 {
			return fmt.Errorf("%w: %s id=%s version %d -> %d", ErrVersionConflict, table, id, before[id], after[id])
		}
	}
	return tx.Commit(ctx)
}

// RunPessimistic locks the target row with FOR UPDATE NOWAIT before
// invoking mutate. An unavailable lock fails fast and is retried within
// the same budget as the optimistic path.
func (s *Store) RunPessimistic(ctx context.Context, key RowKey, mutate MutateFunc) error {
	var lastErr error
	for attempt := 0; attempt <= s.RetryMax; attempt++ {
		if attempt > 0 {
			if err := sleepBackoff(ctx, s.RetryBase, attempt-1); err != nil {
				return err
			}
		}
		err := s.pessimisticAttempt(ctx, key, mutate)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrNotFound):
			return err
		case errors.Is(err, ErrLockUnavailable) || isTransient(err):
			lastErr = err
		default:
			return err
		}
	}
	if errors.Is(lastErr, ErrLockUnavailable) {
		return fmt.Errorf("%w: %w", ErrConcurrency, lastErr)
	}
	return fmt.Errorf("%w: retries exhausted: %w", ErrDatabase, lastErr)
}

func (s *Store) pessimisticAttempt(ctx context.Context, key RowKey, mutate MutateFunc) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	lockSQL := fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 FOR UPDATE NOWAIT`, pgx.Identifier{key.Table}.Sanitize())
	var id string
	if err := tx.QueryRow(ctx, lockSQL, key.ID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "55P03" {
			return fmt.Errorf("%w: %s id=%s", ErrLockUnavailable, key.Table, key.ID)
		}
		return err
	}
	if err := mutate(ctx, tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func readVersions(ctx context.Context, tx pgx.Tx, table string, ids []string) (map[string]int64, error) {
	q := fmt.Sprintf(`SELECT id, version FROM %s WHERE id = ANY($1)`, pgx.Identifier{table}.Sanitize())
	rows, err := tx.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64, len(ids))
	for rows.Next() {
		var id string
		var version int64
		if err := rows.Scan(&id, &version); err != nil {
			return nil, err
		}
		out[id] = version
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, fmt.Errorf("%w: %s id=%s", ErrNotFound, table, id)
		}
	}
	return out, nil
}

// isTransient is the single decision point for store-specific error
// shapes. Everything else in the system reasons about sentinel errors.
func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"55P03", // lock_not_available
			"23505": // unique_violation (insert race)
			return true
		}
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"deadlock", "serialization", "lock timeout", "timeout"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

const maxBackoff = 2 * time.Second

func sleepBackoff(ctx context.Context, base time.Duration, exp int) error {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	delay := base << exp
	// The shift overflows for large retry budgets; cap keeps it sane.
	if exp > 20 || delay <= 0 || delay > maxBackoff {
		delay = maxBackoff
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
