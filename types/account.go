package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Tier string

const (
	TierEntry Tier = "ENTRY"
	TierElite Tier = "ELITE"
)

type Account struct {
	Id              uuid.UUID       `json:"id"`
	Nickname        string          `json:"nickname"`
	StartingCapital decimal.Decimal `json:"startingCapital"`
	Tier            Tier            `json:"tier"`
	CreatedAt       time.Time       `json:"createdAt"`
}
