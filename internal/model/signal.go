package model

import "time"

// Position is the account state for one ticker. At most one open long
// position; no shorting, no partial sizing.
type Position string

const (
	PositionFlat Position = "FLAT"
	PositionLong Position = "LONG"
)

// SignalKind labels a signal event.
type SignalKind string

const (
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
	SignalHold SignalKind = "HOLD"
)

// SignalEvent records one state transition of the signal engine, or the
// synthetic terminal HOLD summarizing an open position at the end of the
// run. Immutable once created.
type SignalEvent struct {
	Date           time.Time  `json:"date"`
	Kind           SignalKind `json:"kind"`
	Price          float64    `json:"price"`
	PositionAfter  Position   `json:"position_after"`
	PortfolioValue float64    `json:"portfolio_value"`
}
