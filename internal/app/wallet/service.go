package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"neon-casino/internal/app/jackpot"
	"neon-casino/internal/store"
)

// TransactionLogger appends audit rows for settled money movements. It is
// invoked off the critical path; failures never unwind the settlement.
type TransactionLogger interface {
	LogBet(ctx context.Context, res *BetExecutionResult) error
	LogDeposit(ctx context.Context, res *DepositExecutionResult) error
}

// EventPublisher pushes settled events to downstream collaborators.
type EventPublisher interface {
	PublishBetSettled(ctx context.Context, res *BetExecutionResult) error
	PublishDepositSettled(ctx context.Context, res *DepositExecutionResult) error
}

// JackpotContributor accrues a wager's jackpot contribution.
type JackpotContributor interface {
	Contribute(ctx context.Context, gameID string, wagerAmount int64) (*jackpot.ContributionResult, error)
}

const sideEffectTimeout = 10 * time.Second

// Service executes bets and deposits against user balances in single
// transactions and dispatches the non-blocking side effects.
type Service struct {
	store    *store.Store
	jackpots JackpotContributor
	translog TransactionLogger
	events   EventPublisher
}

func NewService(st *store.Store, jackpots JackpotContributor, translog TransactionLogger, events EventPublisher) *Service {
	return &Service{store: st, jackpots: jackpots, translog: translog, events: events}
}

// PlaceBet is the full bet flow: execute the money movement, accrue the
// jackpot contribution as a soft side call, then dispatch ledger and
// event writes off the critical path. Only ExecuteBet can fail the bet.
func (s *Service) PlaceBet(ctx context.Context, req BetRequest, outcome GameOutcome) (*BetExecutionResult, error) {
	result, err := s.ExecuteBet(ctx, req, outcome)
	if err != nil {
		return nil, err
	}

	if s.jackpots != nil {
		contrib, err := s.jackpots.Contribute(ctx, req.GameID, req.WagerAmount)
		if err != nil {
			log.Warn().Err(err).Str("game_id", req.GameID).Msg("jackpot contribution failed, bet settles without it")
		} else {
			result.JackpotContribution = contrib.Total
		}
	}

	s.dispatch("log_bet", func(ctx context.Context) error {
		if s.translog == nil {
			return nil
		}
		return s.translog.LogBet(ctx, result)
	})
	s.dispatch("publish_bet", func(ctx context.Context) error {
		if s.events == nil {
			return nil
		}
		return s.events.PublishBetSettled(ctx, result)
	})
	return result, nil
}

// ExecuteBet runs one atomic bet: validate, read, re-validate, then
// deduct and credit inside a single transaction. Any error before commit
// leaves every balance untouched.
func (s *Service) ExecuteBet(ctx context.Context, req BetRequest, outcome GameOutcome) (*BetExecutionResult, error) {
	start := time.Now()
	if req.UserID == "" || req.GameID == "" {
		return nil, ErrInvalidRequest
	}
	if req.WagerAmount <= 0 || outcome.WinAmount < 0 {
		return nil, ErrInvalidRequest
	}

	user, game, balance, buckets, err := s.loadBetContext(ctx, req)
	if err != nil {
		return nil, err
	}
	if user.Status != "active" || game.Status != "active" {
		return nil, ErrGameInactive
	}
	if game.MinBet > 0 && req.WagerAmount < game.MinBet {
		return nil, ErrBetLimits
	}
	if game.MaxBet > 0 && req.WagerAmount > game.MaxBet {
		return nil, ErrBetLimits
	}
	var bonusTotal int64
	for _, b := range buckets {
		bonusTotal += b.Amount
	}
	if balance.RealBalance+bonusTotal < req.WagerAmount {
		return nil, ErrInsufficientFunds
	}

	result := &BetExecutionResult{
		BetID:       store.NewID(),
		UserID:      req.UserID,
		GameID:      req.GameID,
		WagerAmount: req.WagerAmount,
		WinAmount:   outcome.WinAmount,
	}
	err = s.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.store.LockUserBalanceTx(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		lockedBuckets, err := s.store.LockBonusBucketsTx(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		d, err := planDeduction(locked.RealBalance, lockedBuckets, req.WagerAmount)
		if err != nil {
			return err
		}
		if d.FromReal > 0 {
			if err := s.store.AddRealBalanceTx(ctx, tx, req.UserID, -d.FromReal); err != nil {
				return err
			}
		}
		for _, draw := range d.FromBonuses {
			if err := s.store.AddBonusBucketTx(ctx, tx, draw.BucketID, -draw.Amount); err != nil {
				return err
			}
		}

		realWin, bonusWin := splitWinnings(outcome.WinAmount, d)
		if bonusWin > 0 && len(lockedBuckets) == 0 {
			// No bucket left to hold the bonus share; real absorbs it.
			realWin += bonusWin
			bonusWin = 0
		}
		if realWin > 0 {
			if err := s.store.AddRealBalanceTx(ctx, tx, req.UserID, realWin); err != nil {
				return err
			}
		}
		if bonusWin > 0 {
			if err := s.store.AddBonusBucketTx(ctx, tx, lockedBuckets[0].ID, bonusWin); err != nil {
				return err
			}
		}

		var lockedBonus int64
		for _, b := range lockedBuckets {
			lockedBonus += b.Amount
		}
		result.BalanceType = d.BalanceType
		result.Deduction = d
		result.RealBefore = locked.RealBalance
		result.RealAfterBet = locked.RealBalance - d.FromReal
		result.RealAfter = result.RealAfterBet + realWin
		result.BonusBefore = lockedBonus
		result.BonusAfterBet = lockedBonus - d.TotalBonus()
		result.BonusAfter = result.BonusAfterBet + bonusWin
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.ProcessingMS = time.Since(start).Milliseconds()
	result.SettledAt = time.Now().UTC()
	return result, nil
}

// Deposit credits the real balance in one transaction and dispatches the
// same non-blocking side effects as a bet.
func (s *Service) Deposit(ctx context.Context, userID string, amount int64) (*DepositExecutionResult, error) {
	if userID == "" || amount <= 0 {
		return nil, ErrInvalidRequest
	}

	result := &DepositExecutionResult{
		DepositID: store.NewID(),
		UserID:    userID,
		Amount:    amount,
	}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.store.LockUserBalanceTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if err := s.store.AddRealBalanceTx(ctx, tx, userID, amount); err != nil {
			return err
		}
		result.RealBefore = locked.RealBalance
		result.RealAfter = locked.RealBalance + amount
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.SettledAt = time.Now().UTC()

	s.dispatch("log_deposit", func(ctx context.Context) error {
		if s.translog == nil {
			return nil
		}
		return s.translog.LogDeposit(ctx, result)
	})
	s.dispatch("publish_deposit", func(ctx context.Context) error {
		if s.events == nil {
			return nil
		}
		return s.events.PublishDepositSettled(ctx, result)
	})
	return result, nil
}

// GetBalance is the read-only balance view collaborators use for
// pre-validation and display.
func (s *Service) GetBalance(ctx context.Context, userID string) (*store.UserBalance, []store.BonusBucket, error) {
	return s.store.GetUserBalance(ctx, userID)
}

func (s *Service) loadBetContext(ctx context.Context, req BetRequest) (*store.User, *store.Game, *store.UserBalance, []store.BonusBucket, error) {
	var (
		wg      sync.WaitGroup
		user    *store.User
		game    *store.Game
		balance *store.UserBalance
		buckets []store.BonusBucket

		userErr, gameErr, balErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		user, userErr = s.store.GetUser(ctx, req.UserID)
	}()
	go func() {
		defer wg.Done()
		game, gameErr = s.store.GetGame(ctx, req.GameID)
	}()
	go func() {
		defer wg.Done()
		balance, buckets, balErr = s.store.GetUserBalance(ctx, req.UserID)
	}()
	wg.Wait()
	for _, err := range []error{userErr, gameErr, balErr} {
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}
	return user, game, balance, buckets, nil
}

// dispatch runs one side effect as an independent task that catches and
// logs its own failure. The committed transaction is never unwound.
func (s *Service) dispatch(name string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Str("side_effect", name).Msg("side effect failed")
		}
	}()
}
