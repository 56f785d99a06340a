package jackpot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"neon-casino/internal/store"
)

// Service owns the jackpot pool state machine: contribution accrual under
// optimistic batching and win settlement under a pessimistic row lock.
type Service struct {
	store *store.Store

	mu       sync.RWMutex
	defaults map[store.JackpotType]PoolConfig
}

func NewService(st *store.Store, defaults map[store.JackpotType]PoolConfig) *Service {
	cfg := make(map[store.JackpotType]PoolConfig, len(defaults))
	for typ, c := range defaults {
		cfg[typ] = c
	}
	return &Service{store: st, defaults: cfg}
}

// EnsurePools creates missing pool rows from the defaults. Idempotent and
// safe under concurrent first call; existing pools keep their state.
func (s *Service) EnsurePools(ctx context.Context) error {
	s.mu.RLock()
	rows := make([]store.JackpotPool, 0, len(s.defaults))
	for typ, c := range s.defaults {
		rows = append(rows, store.JackpotPool{
			Type:             typ,
			SeedAmount:       c.SeedAmount,
			MaxAmount:        c.MaxAmount,
			ContributionRate: c.ContributionRate,
		})
	}
	s.mu.RUnlock()
	return s.store.EnsureJackpotPools(ctx, rows)
}

// Pools lists current pool state.
func (s *Service) Pools(ctx context.Context) ([]store.JackpotPool, error) {
	return s.store.ListJackpotPools(ctx)
}

// Contribute accrues a wager's contribution into every pool tier the game
// maps to. All affected pools commit in one optimistic batch; computed
// contributions of zero (rate rounds down, or the cap is already hit)
// leave the pool and the audit log untouched. Callers treat an error here
// as a soft failure: the bet settles with zero recorded contribution.
func (s *Service) Contribute(ctx context.Context, gameID string, wagerAmount int64) (*ContributionResult, error) {
	if wagerAmount < 0 {
		return nil, fmt.Errorf("%w: wager %d", ErrInvalidAmount, wagerAmount)
	}
	if wagerAmount == 0 {
		return &ContributionResult{Contributions: map[store.JackpotType]int64{}}, nil
	}

	types, err := s.store.GetJackpotTypes(ctx, gameID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(types))
	idToType := make(map[string]store.JackpotType, len(types))
	for _, typ := range types {
		pool, err := s.store.GetJackpotPoolByType(ctx, typ)
		if err != nil {
			return nil, err
		}
		ids = append(ids, pool.ID)
		idToType[pool.ID] = typ
	}

	result := &ContributionResult{}
	err = s.store.RunOptimisticBatch(ctx, store.TableJackpotPools, ids, func(ctx context.Context, tx pgx.Tx) error {
		// Recomputed per attempt against the in-transaction row state.
		result.Contributions = make(map[store.JackpotType]int64, len(ids))
		result.Total = 0
		for _, id := range ids {
			pool, err := s.store.GetJackpotPoolTx(ctx, tx, id)
			if err != nil {
				return err
			}
			amount := contributionFor(wagerAmount, pool.ContributionRate, pool.CurrentAmount, pool.MaxAmount)
			if amount == 0 {
				continue
			}
			if err := s.store.ApplyContributionTx(ctx, tx, id, gameID, wagerAmount, amount); err != nil {
				return err
			}
			result.Contributions[idToType[id]] += amount
			result.Total += amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Win settles a jackpot win against one pool under a NOWAIT row lock. A
// nil winAmount awards the entire pool. The amount is validated against
// the locked row, never a stale read, and is never clamped: a win that
// exceeds the pool is a hard failure. The pool settles no lower than its
// seed.
func (s *Service) Win(ctx context.Context, typ store.JackpotType, gameID, userID string, winAmount *int64) (*WinResult, error) {
	pool, err := s.store.GetJackpotPoolByType(ctx, typ)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
		}
		return nil, err
	}

	result := &WinResult{Type: typ}
	key := store.RowKey{Table: store.TableJackpotPools, ID: pool.ID}
	err = s.store.RunPessimistic(ctx, key, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.store.GetJackpotPoolTx(ctx, tx, pool.ID)
		if err != nil {
			return err
		}
		amount := locked.CurrentAmount
		if winAmount != nil {
			amount = *winAmount
		}
		if amount <= 0 {
			return fmt.Errorf("%w: win %d", ErrInvalidAmount, amount)
		}
		if amount > locked.CurrentAmount {
			return fmt.Errorf("%w: win %d exceeds pool %d", ErrInsufficientPool, amount, locked.CurrentAmount)
		}
		remaining := locked.CurrentAmount - amount
		if remaining < locked.SeedAmount {
			remaining = locked.SeedAmount
		}
		if err := s.store.ApplyWinTx(ctx, tx, pool.ID, gameID, userID, amount, remaining); err != nil {
			return err
		}
		result.WinAmount = amount
		result.RemainingPool = remaining
		result.WonAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("pool_type", string(typ)).
		Str("user_id", userID).
		Int64("win_amount", result.WinAmount).
		Int64("remaining_pool", result.RemainingPool).
		Msg("jackpot win settled")
	return result, nil
}

// UpdateConfig validates a partial config change, merges it over the
// in-memory defaults and persists every affected pool in one optimistic
// batch so a multi-type change is all-or-nothing.
func (s *Service) UpdateConfig(ctx context.Context, updates map[store.JackpotType]ConfigUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	s.mu.RLock()
	merged := make(map[store.JackpotType]PoolConfig, len(updates))
	for typ, upd := range updates {
		current, ok := s.defaults[typ]
		if !ok {
			s.mu.RUnlock()
			return fmt.Errorf("%w: %s", ErrUnknownType, typ)
		}
		merged[typ] = mergeConfig(current, upd)
	}
	s.mu.RUnlock()

	for typ, c := range merged {
		if c.ContributionRate < 0 || c.ContributionRate > 1 {
			return fmt.Errorf("%w: %s rate %v out of [0,1]", ErrInvalidConfig, typ, c.ContributionRate)
		}
		if c.SeedAmount <= 0 {
			return fmt.Errorf("%w: %s seed %d must be positive", ErrInvalidConfig, typ, c.SeedAmount)
		}
		if c.MaxAmount != nil && *c.MaxAmount <= c.SeedAmount {
			return fmt.Errorf("%w: %s max %d must exceed seed %d", ErrInvalidConfig, typ, *c.MaxAmount, c.SeedAmount)
		}
	}

	ids := make([]string, 0, len(merged))
	idToType := make(map[string]store.JackpotType, len(merged))
	for typ := range merged {
		pool, err := s.store.GetJackpotPoolByType(ctx, typ)
		if err != nil {
			return err
		}
		ids = append(ids, pool.ID)
		idToType[pool.ID] = typ
	}

	err := s.store.RunOptimisticBatch(ctx, store.TableJackpotPools, ids, func(ctx context.Context, tx pgx.Tx) error {
		for _, id := range ids {
			c := merged[idToType[id]]
			if err := s.store.UpdatePoolConfigTx(ctx, tx, id, c.SeedAmount, c.MaxAmount, c.ContributionRate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	for typ, c := range merged {
		s.defaults[typ] = c
	}
	s.mu.Unlock()
	return nil
}

func mergeConfig(current PoolConfig, upd ConfigUpdate) PoolConfig {
	out := current
	if upd.SeedAmount != nil {
		out.SeedAmount = *upd.SeedAmount
	}
	if upd.ContributionRate != nil {
		out.ContributionRate = *upd.ContributionRate
	}
	if upd.MaxAmount != nil {
		if *upd.MaxAmount == 0 {
			out.MaxAmount = nil
		} else {
			v := *upd.MaxAmount
			out.MaxAmount = &v
		}
	}
	return out
}

// contributionFor computes floor(wager*rate) clamped so the pool never
// exceeds its cap.
func contributionFor(wager int64, rate float64, current int64, max *int64) int64 {
	amount := int64(math.Floor(float64(wager) * rate))
	if amount <= 0 {
		return 0
	}
	if max != nil && current+amount > *max {
		amount = *max - current
		if amount < 0 {
			amount = 0
		}
	}
	return amount
}
