package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateUser(ctx context.Context, name string) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `INSERT INTO users (id, name, status) VALUES ($1, $2, 'active')`, id, name)
	return id, err
}

func (s *Store) GetUser(ctx context.Context, userID string) (*User, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, status, created_at FROM users WHERE id = $1`, userID)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Status, &u.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

func (s *Store) EnsureUserBalance(ctx context.Context, userID string, initialReal int64) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO user_balances (user_id, real_balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, initialReal)
	return err
}

func (s *Store) CreateBonusBucket(ctx context.Context, userID string, amount int64, priority int) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO bonus_buckets (id, user_id, amount, priority)
		VALUES ($1, $2, $3, $4)
	`, id, userID, amount, priority)
	return id, err
}

// GetUserBalance returns the real balance plus the bonus buckets in draw
// order. Read-only, outside any mutating transaction.
func (s *Store) GetUserBalance(ctx context.Context, userID string) (*UserBalance, []BonusBucket, error) {
	row := s.Pool.QueryRow(ctx, `SELECT user_id, real_balance, updated_at FROM user_balances WHERE user_id = $1`, userID)
	var b UserBalance
	if err := row.Scan(&b.UserID, &b.RealBalance, &b.UpdatedAt); err != nil {
		return nil, nil, mapNotFound(err)
	}
	buckets, err := s.listBonusBuckets(ctx, s.Pool, userID, false)
	if err != nil {
		return nil, nil, err
	}
	return &b, buckets, nil
}

// LockUserBalanceTx takes the balance row lock for the caller's
// transaction. All balance mutations for one user serialize on this.
func (s *Store) LockUserBalanceTx(ctx context.Context, tx pgx.Tx, userID string) (*UserBalance, error) {
	row := tx.QueryRow(ctx, `SELECT user_id, real_balance, updated_at FROM user_balances WHERE user_id = $1 FOR UPDATE`, userID)
	var b UserBalance
	if err := row.Scan(&b.UserID, &b.RealBalance, &b.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

// LockBonusBucketsTx returns the user's buckets in draw order, locked for
// the caller's transaction.
func (s *Store) LockBonusBucketsTx(ctx context.Context, tx pgx.Tx, userID string) ([]BonusBucket, error) {
	return s.listBonusBuckets(ctx, tx, userID, true)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *Store) listBonusBuckets(ctx context.Context, q querier, userID string, forUpdate bool) ([]BonusBucket, error) {
	sql := `SELECT id, user_id, amount, priority, created_at, updated_at FROM bonus_buckets WHERE user_id = $1 ORDER BY priority ASC, created_at ASC`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	rows, err := q.Query(ctx, sql, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BonusBucket{}
	for rows.Next() {
		var b BonusBucket
		if err := rows.Scan(&b.ID, &b.UserID, &b.Amount, &b.Priority, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AddRealBalanceTx applies a signed delta to the real balance. The
// non-negative constraint on the column backstops allocator math.
func (s *Store) AddRealBalanceTx(ctx context.Context, tx pgx.Tx, userID string, delta int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE user_balances
		SET real_balance = real_balance + $2, updated_at = now()
		WHERE user_id = $1
	`, userID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AddBonusBucketTx(ctx context.Context, tx pgx.Tx, bucketID string, delta int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE bonus_buckets
		SET amount = amount + $2, updated_at = now()
		WHERE id = $1
	`, bucketID, delta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
