package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const poolColumns = `id, type, current_amount, seed_amount, max_amount, contribution_rate,
	total_contributions, total_wins, last_won_amount, last_won_at, last_won_by_user_id,
	version, created_at, updated_at`

// EnsureJackpotPools creates any missing pool rows from the given
// defaults. Safe to call concurrently at startup; existing pools are
// never touched.
func (s *Store) EnsureJackpotPools(ctx context.Context, defaults []JackpotPool) error {
	for _, p := range defaults {
		_, err := s.Pool.Exec(ctx, `
			INSERT INTO jackpot_pools (id, type, current_amount, seed_amount, max_amount, contribution_rate)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (type) DO NOTHING
		`, NewID(), p.Type, p.SeedAmount, p.SeedAmount, int8PtrParam(p.MaxAmount), p.ContributionRate)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetJackpotPoolByType(ctx context.Context, typ JackpotType) (*JackpotPool, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+poolColumns+` FROM jackpot_pools WHERE type = $1`, typ)
	return scanPool(row)
}

func (s *Store) ListJackpotPools(ctx context.Context) ([]JackpotPool, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+poolColumns+` FROM jackpot_pools ORDER BY type ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []JackpotPool{}
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetJackpotPoolTx reads a pool inside an executor transaction so the
// mutate callback always works against the row state it will commit over.
func (s *Store) GetJackpotPoolTx(ctx context.Context, tx pgx.Tx, poolID string) (*JackpotPool, error) {
	row := tx.QueryRow(ctx, `SELECT `+poolColumns+` FROM jackpot_pools WHERE id = $1`, poolID)
	return scanPool(row)
}

// ApplyContributionTx advances a pool by one contribution and writes the
// paired audit row. Caller computes the (already clamped) amount; the
// version bump here is the single step the optimistic executor verifies.
func (s *Store) ApplyContributionTx(ctx context.Context, tx pgx.Tx, poolID, gameID string, wagerAmount, amount int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE jackpot_pools
		SET current_amount = current_amount + $2,
		    total_contributions = total_contributions + $2,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1
	`, poolID, amount)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO jackpot_contributions (id, pool_id, game_id, wager_amount, amount)
		VALUES ($1, $2, $3, $4, $5)
	`, NewID(), poolID, gameID, wagerAmount, amount)
	return err
}

// ApplyWinTx settles a jackpot win: the pool drops to newAmount (already
// floored at seed by the caller), counters and last-won fields advance,
// and the win audit row lands in the same transaction.
func (s *Store) ApplyWinTx(ctx context.Context, tx pgx.Tx, poolID, gameID, userID string, winAmount, newAmount int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE jackpot_pools
		SET current_amount = $2,
		    total_wins = total_wins + $3,
		    last_won_amount = $3,
		    last_won_at = now(),
		    last_won_by_user_id = $4,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1
	`, poolID, newAmount, winAmount, userID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO jackpot_wins (id, pool_id, game_id, user_id, amount)
		VALUES ($1, $2, $3, $4, $5)
	`, NewID(), poolID, gameID, userID, winAmount)
	return err
}

// UpdatePoolConfigTx persists a validated config change for one pool.
func (s *Store) UpdatePoolConfigTx(ctx context.Context, tx pgx.Tx, poolID string, seedAmount int64, maxAmount *int64, contributionRate float64) error {
	_, err := tx.Exec(ctx, `
		UPDATE jackpot_pools
		SET seed_amount = $2,
		    max_amount = $3,
		    contribution_rate = $4,
		    version = version + 1,
		    updated_at = now()
		WHERE id = $1
	`, poolID, seedAmount, int8PtrParam(maxAmount), contributionRate)
	return err
}

func (s *Store) ListContributions(ctx context.Context, poolID string, limit, offset int) ([]JackpotContribution, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, pool_id, game_id, wager_amount, amount, created_at
		FROM jackpot_contributions
		WHERE pool_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, poolID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []JackpotContribution{}
	for rows.Next() {
		var c JackpotContribution
		if err := rows.Scan(&c.ID, &c.PoolID, &c.GameID, &c.WagerAmount, &c.Amount, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListWins(ctx context.Context, poolID string, limit, offset int) ([]JackpotWin, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, pool_id, game_id, user_id, amount, created_at
		FROM jackpot_wins
		WHERE pool_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, poolID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []JackpotWin{}
	for rows.Next() {
		var w JackpotWin
		if err := rows.Scan(&w.ID, &w.PoolID, &w.GameID, &w.UserID, &w.Amount, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanPool(row pgx.Row) (*JackpotPool, error) {
	var p JackpotPool
	var maxAmount, lastWonAmount pgtype.Int8
	var lastWonAt pgtype.Timestamptz
	var lastWonBy pgtype.Text
	err := row.Scan(
		&p.ID, &p.Type, &p.CurrentAmount, &p.SeedAmount, &maxAmount, &p.ContributionRate,
		&p.TotalContributions, &p.TotalWins, &lastWonAmount, &lastWonAt, &lastWonBy,
		&p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	p.MaxAmount = int64PtrVal(maxAmount)
	p.LastWonAmount = int64PtrVal(lastWonAmount)
	p.LastWonAt = timePtrVal(lastWonAt)
	p.LastWonByUserID = textVal(lastWonBy)
	return &p, nil
}
