package leaderboard

import (
	"context"

	"github.com/google/uuid"

	"papertrade/types"
)

type accountStore interface {
	ListAccounts(ctx context.Context) ([]types.Account, error)
	UpdateTiers(ctx context.Context, tiers map[uuid.UUID]types.Tier) error
}

type snapshotSource interface {
	LatestSnapshots(ctx context.Context) (map[uuid.UUID]types.Snapshot, error)
}

type baselineStore interface {
	UpsertBaseline(ctx context.Context, b types.PeriodBaseline) error
	ListBaselines(ctx context.Context, period types.Period) (map[uuid.UUID]types.PeriodBaseline, error)
}

type rankingStore interface {
	ReplaceRankings(ctx context.Context, period types.Period, entries []types.RankingEntry) error
	GetRankings(ctx context.Context, period types.Period, tier types.Tier, limit int) ([]types.RankingEntry, error)
	GetAccountRank(ctx context.Context, accountId uuid.UUID, period types.Period) (*types.RankingEntry, error)
}

type rankingCache interface {
	SetRankings(ctx context.Context, period types.Period, byTier map[types.Tier][]types.RankingEntry) error
	GetRankings(ctx context.Context, period types.Period, tier types.Tier) ([]types.RankingEntry, bool, error)
}
