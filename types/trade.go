package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Side string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"
	// SideTypeDeposit credits cash without touching holdings (signup bonus,
	// event rewards). Quantity and fee are zero for deposits.
	SideTypeDeposit Side = "DEPOSIT"
)

// TradeEvent is one row of the append-only trade ledger. Events are immutable
// once recorded; Seq breaks ordering ties between events sharing ExecutedAt.
type TradeEvent struct {
	Id         uuid.UUID       `json:"id"`
	AccountId  uuid.UUID       `json:"accountId"`
	Side       Side            `json:"side"`
	SecurityId string          `json:"securityId"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Fee        decimal.Decimal `json:"fee"`
	ExecutedAt time.Time       `json:"executedAt"`
	Note       string          `json:"note,omitempty"`
	Seq        int64           `json:"seq"`
}
