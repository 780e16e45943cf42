package types

import "github.com/shopspring/decimal"

// Holding is derived state: it only exists as the result of replaying the
// ledger and is never authoritative on its own. A holding disappears when its
// quantity reaches zero; a later buy starts a fresh cost basis.
type Holding struct {
	SecurityId string          `json:"securityId"`
	Quantity   int64           `json:"quantity"`
	AvgCost    decimal.Decimal `json:"avgCost"`
}
