package jackpot

import "errors"

var (
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInsufficientPool = errors.New("insufficient_pool_funds")
	ErrInvalidConfig    = errors.New("invalid_config")
	ErrUnknownType      = errors.New("unknown_jackpot_type")
)
