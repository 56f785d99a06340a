package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// InsertTransactionLogTx appends one ledger row inside the caller's
// transaction. The row is never updated afterwards except for the
// vip_points_added backfill.
func (s *Store) InsertTransactionLogTx(ctx context.Context, tx pgx.Tx, rec TransactionLog) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO transaction_log (
			id, user_id, type, related_id, game_id,
			debit_amount, credit_amount, balance_type,
			real_before, real_after, bonus_before, bonus_after,
			vip_points_added, ggr_amount, jackpot_contribution, processing_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		rec.ID, rec.UserID, rec.Type, textParam(rec.RelatedID), textParam(rec.GameID),
		rec.DebitAmount, rec.CreditAmount, textParam(rec.BalanceType),
		rec.RealBefore, rec.RealAfter, rec.BonusBefore, rec.BonusAfter,
		int8PtrParam(rec.VIPPointsAdded), int8PtrParam(rec.GGRAmount),
		int8PtrParam(rec.JackpotContribution), int8PtrParam(rec.ProcessingMS),
	)
	return err
}

// BackfillVIPPoints sets vip_points_added after the asynchronous
// enrichment step has computed it.
func (s *Store) BackfillVIPPoints(ctx context.Context, logID string, points int64) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE transaction_log SET vip_points_added = $2 WHERE id = $1
	`, logID, points)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type TransactionLogFilter struct {
	UserID string
	Type   string
}

func (s *Store) ListTransactionLog(ctx context.Context, f TransactionLogFilter, limit, offset int) ([]TransactionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, user_id, type, related_id, game_id,
		       debit_amount, credit_amount, balance_type,
		       real_before, real_after, bonus_before, bonus_after,
		       vip_points_added, ggr_amount, jackpot_contribution, processing_ms,
		       created_at
		FROM transaction_log
		WHERE ($1 = '' OR user_id = $1)
		  AND ($2 = '' OR type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, f.UserID, f.Type, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []TransactionLog{}
	for rows.Next() {
		rec, err := scanTransactionLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// GetTransactionLogByRelatedID finds the rows correlated to one bet.
func (s *Store) GetTransactionLogByRelatedID(ctx context.Context, relatedID string) ([]TransactionLog, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, user_id, type, related_id, game_id,
		       debit_amount, credit_amount, balance_type,
		       real_before, real_after, bonus_before, bonus_after,
		       vip_points_added, ggr_amount, jackpot_contribution, processing_ms,
		       created_at
		FROM transaction_log
		WHERE id = $1 OR related_id = $1
		ORDER BY created_at ASC
	`, relatedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []TransactionLog{}
	for rows.Next() {
		rec, err := scanTransactionLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanTransactionLog(row pgx.Row) (*TransactionLog, error) {
	var rec TransactionLog
	var relatedID, gameID, balanceType pgtype.Text
	var vip, ggr, contrib, procMS pgtype.Int8
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Type, &relatedID, &gameID,
		&rec.DebitAmount, &rec.CreditAmount, &balanceType,
		&rec.RealBefore, &rec.RealAfter, &rec.BonusBefore, &rec.BonusAfter,
		&vip, &ggr, &contrib, &procMS,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	rec.RelatedID = textVal(relatedID)
	rec.GameID = textVal(gameID)
	rec.BalanceType = textVal(balanceType)
	rec.VIPPointsAdded = int64PtrVal(vip)
	rec.GGRAmount = int64PtrVal(ggr)
	rec.JackpotContribution = int64PtrVal(contrib)
	rec.ProcessingMS = int64PtrVal(procMS)
	return &rec, nil
}
