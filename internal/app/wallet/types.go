package wallet

import "time"

type BetRequest struct {
	UserID      string `json:"user_id"`
	GameID      string `json:"game_id"`
	WagerAmount int64  `json:"wager_amount"`
}

// GameOutcome is the already-generated result of the game round. How it
// was produced is not this package's business.
type GameOutcome struct {
	WinAmount int64 `json:"win_amount"`
}

// BetExecutionResult carries everything downstream consumers (ledger,
// events, VIP enrichment) need about one settled bet, including the
// intermediate balance checkpoint between deduction and win credit.
type BetExecutionResult struct {
	BetID       string      `json:"bet_id"`
	UserID      string      `json:"user_id"`
	GameID      string      `json:"game_id"`
	WagerAmount int64       `json:"wager_amount"`
	WinAmount   int64       `json:"win_amount"`
	BalanceType BalanceType `json:"balance_type"`

	RealBefore    int64 `json:"real_before"`
	RealAfterBet  int64 `json:"real_after_bet"`
	RealAfter     int64 `json:"real_after"`
	BonusBefore   int64 `json:"bonus_before"`
	BonusAfterBet int64 `json:"bonus_after_bet"`
	BonusAfter    int64 `json:"bonus_after"`

	JackpotContribution int64 `json:"jackpot_contribution"`
	ProcessingMS        int64 `json:"processing_ms"`

	Deduction Deduction `json:"-"`

	SettledAt time.Time `json:"settled_at"`
}

type DepositExecutionResult struct {
	DepositID  string    `json:"deposit_id"`
	UserID     string    `json:"user_id"`
	Amount     int64     `json:"amount"`
	RealBefore int64     `json:"real_before"`
	RealAfter  int64     `json:"real_after"`
	SettledAt  time.Time `json:"settled_at"`
}
