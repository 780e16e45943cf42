package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRecord is the daily closing candle for one security. At most one record
// exists per (security, day); the archive is append-only.
type PriceRecord struct {
	SecurityId string          `json:"securityId"`
	Day        time.Time       `json:"day"`
	Open       decimal.Decimal `json:"open"`
	High       decimal.Decimal `json:"high"`
	Low        decimal.Decimal `json:"low"`
	Close      decimal.Decimal `json:"close"`
	Volume     int64           `json:"volume"`
}
