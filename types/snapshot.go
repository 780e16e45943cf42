package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the persisted end-of-day valuation for one account. Unique per
// (account, day); writes are upserts, so re-running the daily job is safe.
type Snapshot struct {
	AccountId   uuid.UUID       `json:"accountId"`
	Day         time.Time       `json:"day"`
	TotalAssets decimal.Decimal `json:"totalAssets"`
	Cash        decimal.Decimal `json:"cash"`
	CumReturn   decimal.Decimal `json:"cumReturn"`
}
