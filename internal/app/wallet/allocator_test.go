package wallet

import (
	"errors"
	"testing"

	"neon-casino/internal/store"
)

func bucket(id string, amount int64, priority int) store.BonusBucket {
	return store.BonusBucket{ID: id, Amount: amount, Priority: priority}
}

func TestPlanDeductionRealOnly(t *testing.T) {
	d, err := planDeduction(1000, nil, 400)
	if err != nil {
		t.Fatalf("planDeduction: %v", err)
	}
	if d.BalanceType != BalanceReal || d.FromReal != 400 || len(d.FromBonuses) != 0 {
		t.Fatalf("unexpected deduction: %+v", d)
	}
}

func TestPlanDeductionBonusOnly(t *testing.T) {
	buckets := []store.BonusBucket{bucket("b1", 300, 0), bucket("b2", 300, 1)}
	d, err := planDeduction(0, buckets, 400)
	if err != nil {
		t.Fatalf("planDeduction: %v", err)
	}
	if d.BalanceType != BalanceBonus || d.FromReal != 0 {
		t.Fatalf("unexpected deduction: %+v", d)
	}
	if len(d.FromBonuses) != 2 || d.FromBonuses[0].Amount != 300 || d.FromBonuses[1].Amount != 100 {
		t.Fatalf("unexpected bucket draws: %+v", d.FromBonuses)
	}
}

func TestPlanDeductionMixedDrawsRealFirst(t *testing.T) {
	buckets := []store.BonusBucket{bucket("b1", 500, 0)}
	d, err := planDeduction(150, buckets, 400)
	if err != nil {
		t.Fatalf("planDeduction: %v", err)
	}
	if d.BalanceType != BalanceMixed || d.FromReal != 150 || d.TotalBonus() != 250 {
		t.Fatalf("unexpected deduction: %+v", d)
	}
	if d.Total() != 400 {
		t.Fatalf("total = %d, want 400", d.Total())
	}
}

func TestPlanDeductionSkipsEmptyBuckets(t *testing.T) {
	buckets := []store.BonusBucket{bucket("empty", 0, 0), bucket("b2", 100, 1)}
	d, err := planDeduction(0, buckets, 50)
	if err != nil {
		t.Fatalf("planDeduction: %v", err)
	}
	if len(d.FromBonuses) != 1 || d.FromBonuses[0].BucketID != "b2" {
		t.Fatalf("unexpected bucket draws: %+v", d.FromBonuses)
	}
}

func TestPlanDeductionInsufficient(t *testing.T) {
	_, err := planDeduction(100, []store.BonusBucket{bucket("b1", 100, 0)}, 400)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestPlanDeductionZeroWager(t *testing.T) {
	d, err := planDeduction(100, nil, 0)
	if err != nil {
		t.Fatalf("planDeduction: %v", err)
	}
	if d.BalanceType != BalanceReal || d.Total() != 0 {
		t.Fatalf("unexpected deduction: %+v", d)
	}
}

func TestSplitWinningsPure(t *testing.T) {
	realWin, bonusWin := splitWinnings(700, Deduction{BalanceType: BalanceReal, FromReal: 100})
	if realWin != 700 || bonusWin != 0 {
		t.Fatalf("real split = (%d, %d)", realWin, bonusWin)
	}

	realWin, bonusWin = splitWinnings(700, Deduction{
		BalanceType: BalanceBonus,
		FromBonuses: []BucketDraw{{BucketID: "b1", Amount: 100}},
	})
	if realWin != 0 || bonusWin != 700 {
		t.Fatalf("bonus split = (%d, %d)", realWin, bonusWin)
	}
}

func TestSplitWinningsMixedExactSum(t *testing.T) {
	d := Deduction{
		BalanceType: BalanceMixed,
		FromReal:    1,
		FromBonuses: []BucketDraw{{BucketID: "b1", Amount: 2}},
	}
	// Ratio 1/3 never divides evenly; the bonus side absorbs rounding.
	for win := int64(0); win <= 1000; win++ {
		realWin, bonusWin := splitWinnings(win, d)
		if realWin+bonusWin != win {
			t.Fatalf("win %d split to %d + %d", win, realWin, bonusWin)
		}
		if realWin < 0 || bonusWin < 0 {
			t.Fatalf("win %d produced negative part (%d, %d)", win, realWin, bonusWin)
		}
	}
}

func TestSplitWinningsMixedRatio(t *testing.T) {
	d := Deduction{
		BalanceType: BalanceMixed,
		FromReal:    75,
		FromBonuses: []BucketDraw{{BucketID: "b1", Amount: 25}},
	}
	realWin, bonusWin := splitWinnings(200, d)
	if realWin != 150 || bonusWin != 50 {
		t.Fatalf("split = (%d, %d), want (150, 50)", realWin, bonusWin)
	}
}

func TestSplitWinningsZeroTotalDeducted(t *testing.T) {
	realWin, bonusWin := splitWinnings(500, Deduction{BalanceType: BalanceMixed})
	if realWin != 500 || bonusWin != 0 {
		t.Fatalf("degenerate split = (%d, %d), want all real", realWin, bonusWin)
	}
}
