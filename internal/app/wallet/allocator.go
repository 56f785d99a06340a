package wallet

import (
	"fmt"
	"math"

	"neon-casino/internal/store"
)

// BalanceType classifies which funds a deduction drew from.
type BalanceType string

const (
	BalanceReal  BalanceType = "real"
	BalanceBonus BalanceType = "bonus"
	BalanceMixed BalanceType = "mixed"
)

// BucketDraw is the amount taken from one bonus bucket.
type BucketDraw struct {
	BucketID string
	Amount   int64
}

// Deduction is the exact split of one wager across funding sources.
type Deduction struct {
	BalanceType BalanceType
	FromReal    int64
	FromBonuses []BucketDraw
}

func (d Deduction) TotalBonus() int64 {
	var sum int64
	for _, b := range d.FromBonuses {
		sum += b.Amount
	}
	return sum
}

func (d Deduction) Total() int64 {
	return d.FromReal + d.TotalBonus()
}

// planDeduction draws the wager from the real balance first, then from
// bonus buckets in priority order. Exhausting all funds is a hard
// failure; callers validate sufficiency before entering the transaction,
// so hitting it means the balance moved underneath the request.
func planDeduction(realBalance int64, buckets []store.BonusBucket, amount int64) (Deduction, error) {
	if amount < 0 {
		return Deduction{}, fmt.Errorf("%w: negative amount %d", ErrInvalidRequest, amount)
	}

	remaining := amount
	d := Deduction{}

	if realBalance > 0 && remaining > 0 {
		d.FromReal = remaining
		if d.FromReal > realBalance {
			d.FromReal = realBalance
		}
		remaining -= d.FromReal
	}
	for _, b := range buckets {
		if remaining == 0 {
			break
		}
		if b.Amount <= 0 {
			continue
		}
		draw := remaining
		if draw > b.Amount {
			draw = b.Amount
		}
		d.FromBonuses = append(d.FromBonuses, BucketDraw{BucketID: b.ID, Amount: draw})
		remaining -= draw
	}
	if remaining > 0 {
		return Deduction{}, fmt.Errorf("%w: short %d of %d", ErrInsufficientFunds, remaining, amount)
	}

	switch {
	case d.FromReal > 0 && d.TotalBonus() > 0:
		d.BalanceType = BalanceMixed
	case d.TotalBonus() > 0:
		d.BalanceType = BalanceBonus
	default:
		d.BalanceType = BalanceReal
	}
	return d, nil
}

// splitWinnings credits winnings back in the same proportion the wager
// was drawn, so bonus-funded play cannot launder winnings into the
// withdrawable real balance. The bonus side absorbs rounding, and the
// two parts always sum exactly to win.
func splitWinnings(win int64, d Deduction) (realWin, bonusWin int64) {
	if win <= 0 {
		return 0, 0
	}
	switch d.BalanceType {
	case BalanceReal:
		return win, 0
	case BalanceBonus:
		return 0, win
	}
	total := d.Total()
	if total == 0 {
		return win, 0
	}
	realRatio := float64(d.FromReal) / float64(total)
	realWin = int64(math.Round(float64(win) * realRatio))
	if realWin > win {
		realWin = win
	}
	return realWin, win - realWin
}
