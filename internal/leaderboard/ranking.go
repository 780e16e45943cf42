package leaderboard

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

const defaultTopN = 100

var hundred = decimal.NewFromInt(100)

// Calculator computes tier-scoped leaderboards for one period kind and swaps
// them into the ranking store atomically.
type Calculator struct {
	accounts  accountStore
	snapshots snapshotSource
	baselines baselineStore
	store     rankingStore
	cache     rankingCache
	topN      int
}

// NewCalculator wires a ranking calculator. cache may be nil; topN <= 0
// falls back to the top 100.
func NewCalculator(accounts accountStore, snapshots snapshotSource, baselines baselineStore, store rankingStore, cache rankingCache, topN int) *Calculator {
	if topN <= 0 {
		topN = defaultTopN
	}
	return &Calculator{
		accounts:  accounts,
		snapshots: snapshots,
		baselines: baselines,
		store:     store,
		cache:     cache,
		topN:      topN,
	}
}

// Compute recomputes the leaderboard for one period kind: period return per
// account, partitioned by the account's current tier, sorted best first with
// ties broken by ascending account id, densely ranked from 1 and cut to the
// top N per tier. Both tiers' sets replace the stored period in a single
// transaction.
func (c *Calculator) Compute(ctx context.Context, period types.Period) error {
	accounts, err := c.accounts.ListAccounts(ctx)
	if err != nil {
		return err
	}
	latest, err := c.snapshots.LatestSnapshots(ctx)
	if err != nil {
		return err
	}

	var baselines map[uuid.UUID]types.PeriodBaseline
	if period != types.PeriodAllTime {
		if baselines, err = c.baselines.ListBaselines(ctx, period); err != nil {
			return err
		}
	}

	byTier := map[types.Tier][]types.RankingEntry{}
	for _, acct := range accounts {
		snap, ok := latest[acct.Id]
		if !ok {
			// Never snapshotted, nothing to rank yet.
			continue
		}
		byTier[acct.Tier] = append(byTier[acct.Tier], types.RankingEntry{
			Period:    period,
			Tier:      acct.Tier,
			AccountId: acct.Id,
			Return:    periodReturn(period, snap, baselines[acct.Id]),
		})
	}

	var combined []types.RankingEntry
	for _, tier := range []types.Tier{types.TierEntry, types.TierElite} {
		entries := byTier[tier]
		sort.SliceStable(entries, func(i, j int) bool {
			if !entries[i].Return.Equal(entries[j].Return) {
				return entries[i].Return.GreaterThan(entries[j].Return)
			}
			return entries[i].AccountId.String() < entries[j].AccountId.String()
		})
		if len(entries) > c.topN {
			entries = entries[:c.topN]
		}
		for i := range entries {
			entries[i].Rank = i + 1
		}
		byTier[tier] = entries
		combined = append(combined, entries...)
	}

	if err := c.store.ReplaceRankings(ctx, period, combined); err != nil {
		return err
	}

	if c.cache != nil {
		// Best effort: a failed cache swap leaves the previous board cached
		// as a whole, never a mix, and the store already holds the truth.
		if err := c.cache.SetRankings(ctx, period, byTier); err != nil {
			log.Warn().Err(err).Str("period", string(period)).Msg("ranking cache swap failed")
		}
	}

	log.Info().
		Str("period", string(period)).
		Int("entry_tier", len(byTier[types.TierEntry])).
		Int("elite_tier", len(byTier[types.TierElite])).
		Msg("rankings replaced")
	return nil
}

// periodReturn follows the period kind's baseline rule: AllTime reads the
// cumulative return straight off the latest snapshot; Weekly/Monthly measure
// against the stored baseline, with a zero or missing baseline defined as 0
// to avoid dividing by zero.
func periodReturn(period types.Period, snap types.Snapshot, baseline types.PeriodBaseline) decimal.Decimal {
	if period == types.PeriodAllTime {
		return snap.CumReturn
	}
	if baseline.Assets.IsZero() {
		return decimal.Zero
	}
	return snap.TotalAssets.Sub(baseline.Assets).Div(baseline.Assets).Mul(hundred).Round(2)
}
