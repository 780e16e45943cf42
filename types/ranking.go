package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RankingEntry is one leaderboard row. Ranks are 1-based and dense within a
// (period, tier) pair; the whole pair's entry set is replaced on recompute,
// entries are never mutated individually.
type RankingEntry struct {
	Period    Period          `json:"period"`
	Tier      Tier            `json:"tier"`
	Rank      int             `json:"rank"`
	AccountId uuid.UUID       `json:"accountId"`
	Return    decimal.Decimal `json:"return"`
}
