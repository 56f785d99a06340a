package wallet

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid_request")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrBetLimits         = errors.New("bet_outside_limits")
	ErrGameInactive      = errors.New("game_inactive")
)
