// Package ledger appends normalized audit rows for settled money
// movements. Writes here are side effects of an already-committed
// transaction: they may fail and be logged, but they never reverse it.
package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"

	"neon-casino/internal/app/wallet"
	"neon-casino/internal/store"
)

type Writer struct {
	Store *store.Store
}

func NewWriter(st *store.Store) *Writer {
	return &Writer{Store: st}
}

// LogBet writes the BET debit row and, when the bet won anything, the
// paired WIN credit row carrying the bet's id as related_id. Both rows
// commit in one transaction so a replay after a failed first attempt can
// never leave a BET without its WIN.
func (w *Writer) LogBet(ctx context.Context, res *wallet.BetExecutionResult) error {
	return w.Store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		ggr := res.WagerAmount - res.WinAmount
		contrib := res.JackpotContribution
		procMS := res.ProcessingMS

		betRow := store.TransactionLog{
			ID:                  res.BetID,
			UserID:              res.UserID,
			Type:                store.TxTypeBet,
			GameID:              res.GameID,
			DebitAmount:         res.WagerAmount,
			BalanceType:         string(res.BalanceType),
			RealBefore:          res.RealBefore,
			RealAfter:           res.RealAfterBet,
			BonusBefore:         res.BonusBefore,
			BonusAfter:          res.BonusAfterBet,
			GGRAmount:           &ggr,
			JackpotContribution: &contrib,
			ProcessingMS:        &procMS,
		}
		if err := w.Store.InsertTransactionLogTx(ctx, tx, betRow); err != nil {
			return err
		}
		if res.WinAmount <= 0 {
			return nil
		}
		winRow := store.TransactionLog{
			ID:           store.NewID(),
			UserID:       res.UserID,
			Type:         store.TxTypeWin,
			RelatedID:    res.BetID,
			GameID:       res.GameID,
			CreditAmount: res.WinAmount,
			BalanceType:  string(res.BalanceType),
			RealBefore:   res.RealAfterBet,
			RealAfter:    res.RealAfter,
			BonusBefore:  res.BonusAfterBet,
			BonusAfter:   res.BonusAfter,
		}
		return w.Store.InsertTransactionLogTx(ctx, tx, winRow)
	})
}

// LogDeposit writes one DEPOSIT credit row.
func (w *Writer) LogDeposit(ctx context.Context, res *wallet.DepositExecutionResult) error {
	return w.Store.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return w.Store.InsertTransactionLogTx(ctx, tx, store.TransactionLog{
			ID:           res.DepositID,
			UserID:       res.UserID,
			Type:         store.TxTypeDeposit,
			CreditAmount: res.Amount,
			BalanceType:  string(wallet.BalanceReal),
			RealBefore:   res.RealBefore,
			RealAfter:    res.RealAfter,
		})
	})
}

// BackfillVIPPoints fills vip_points_added once the asynchronous VIP
// enrichment has computed it. The only permitted update to a ledger row.
func (w *Writer) BackfillVIPPoints(ctx context.Context, logID string, points int64) error {
	return w.Store.BackfillVIPPoints(ctx, logID, points)
}

func (w *Writer) List(ctx context.Context, f store.TransactionLogFilter, limit, offset int) ([]store.TransactionLog, error) {
	return w.Store.ListTransactionLog(ctx, f, limit, offset)
}
