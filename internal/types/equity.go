package types

import "time"

// EquityPoint is one point on the equity curve: account equity at the close of
// a processed bar.
type EquityPoint struct {
	Time   time.Time `csv:"time" yaml:"time"`
	Equity float64   `csv:"equity" yaml:"equity"`
}

// EquityCurve is the ordered sequence of equity points, one per processed bar
// regardless of whether a trade closed on that bar.
type EquityCurve []EquityPoint
