package store

import "errors"

// Sentinel errors shared by all Store implementations.
var (
	// ErrInvalidGeometry is returned when trade prices do not satisfy
	// stopLoss < entry < takeProfit for a long position.
	ErrInvalidGeometry = errors.New("invalid trade geometry: expected stop loss < entry < take profit")

	// ErrNoTrades is returned when an operation needs at least one trade
	// and the user has none.
	ErrNoTrades = errors.New("no trades found")

	// ErrNoSnapshot is returned when a user has no reset snapshot yet.
	ErrNoSnapshot = errors.New("no reset snapshot found")
)
