package store

import "time"

// JackpotType identifies a pool tier. The set is fixed at bootstrap and
// rows are never deleted.
type JackpotType string

const (
	JackpotMinor JackpotType = "MINOR"
	JackpotMajor JackpotType = "MAJOR"
	JackpotGrand JackpotType = "GRAND"
)

type JackpotPool struct {
	ID                 string
	Type               JackpotType
	CurrentAmount      int64
	SeedAmount         int64
	MaxAmount          *int64
	ContributionRate   float64
	TotalContributions int64
	TotalWins          int64
	LastWonAmount      *int64
	LastWonAt          *time.Time
	LastWonByUserID    string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type JackpotContribution struct {
	ID          string
	PoolID      string
	GameID      string
	WagerAmount int64
	Amount      int64
	CreatedAt   time.Time
}

type JackpotWin struct {
	ID        string
	PoolID    string
	GameID    string
	UserID    string
	Amount    int64
	CreatedAt time.Time
}

type User struct {
	ID        string
	Name      string
	Status    string
	CreatedAt time.Time
}

type UserBalance struct {
	UserID      string
	RealBalance int64
	UpdatedAt   time.Time
}

// BonusBucket is one segmented bonus balance. Buckets drain in priority
// order (lowest first) when a wager exceeds the real balance.
type BonusBucket struct {
	ID        string
	UserID    string
	Amount    int64
	Priority  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Game struct {
	ID        string
	Name      string
	Status    string
	MinBet    int64
	MaxBet    int64
	CreatedAt time.Time
}

// Transaction log row types.
const (
	TxTypeBet     = "BET"
	TxTypeWin     = "WIN"
	TxTypeDeposit = "DEPOSIT"
)

type TransactionLog struct {
	ID                  string
	UserID              string
	Type                string
	RelatedID           string
	GameID              string
	DebitAmount         int64
	CreditAmount        int64
	BalanceType         string
	RealBefore          int64
	RealAfter           int64
	BonusBefore         int64
	BonusAfter          int64
	VIPPointsAdded      *int64
	GGRAmount           *int64
	JackpotContribution *int64
	ProcessingMS        *int64
	CreatedAt           time.Time
}
