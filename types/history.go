package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValuePoint is one point on an account's reconstructed net-worth curve.
// Estimated marks points where at least one holding was valued with a
// gap-filled (older than same-day) or missing closing price.
type ValuePoint struct {
	Time        time.Time       `json:"time"`
	TotalAssets decimal.Decimal `json:"totalAssets"`
	Cash        decimal.Decimal `json:"cash"`
	Return      decimal.Decimal `json:"return"`
	Estimated   bool            `json:"estimated,omitempty"`
}

// Range is an optional [Start, End] day window. A zero Start or End leaves
// that side unbounded.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}
