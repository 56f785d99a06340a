package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateGame(ctx context.Context, name string, minBet, maxBet int64) (string, error) {
	id := NewID()
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO games (id, name, status, min_bet, max_bet)
		VALUES ($1, $2, 'active', $3, $4)
	`, id, name, minBet, maxBet)
	return id, err
}

func (s *Store) GetGame(ctx context.Context, gameID string) (*Game, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, status, min_bet, max_bet, created_at FROM games WHERE id = $1`, gameID)
	var g Game
	if err := row.Scan(&g.ID, &g.Name, &g.Status, &g.MinBet, &g.MaxBet, &g.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &g, nil
}

// SetGameJackpotTypes replaces the static game to pool-tier mapping.
func (s *Store) SetGameJackpotTypes(ctx context.Context, gameID string, types []JackpotType) error {
	return s.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM game_jackpot_types WHERE game_id = $1`, gameID); err != nil {
			return err
		}
		for _, typ := range types {
			if _, err := tx.Exec(ctx, `
				INSERT INTO game_jackpot_types (game_id, jackpot_type)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, gameID, typ); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetJackpotTypes resolves the pool tiers a game contributes to. Games
// without an explicit mapping fall back to the lowest tier.
func (s *Store) GetJackpotTypes(ctx context.Context, gameID string) ([]JackpotType, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT jackpot_type FROM game_jackpot_types WHERE game_id = $1 ORDER BY jackpot_type ASC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []JackpotType{}
	for rows.Next() {
		var typ JackpotType
		if err := rows.Scan(&typ); err != nil {
			return nil, err
		}
		out = append(out, typ)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		out = append(out, JackpotMinor)
	}
	return out, nil
}
