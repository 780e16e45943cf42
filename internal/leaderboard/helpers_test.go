package leaderboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

// fakeBackend implements the account, snapshot, baseline and ranking store
// interfaces in memory.
type fakeBackend struct {
	accounts    []types.Account
	latest      map[uuid.UUID]types.Snapshot
	baselines   map[types.Period]map[uuid.UUID]types.PeriodBaseline
	rankings    map[types.Period][]types.RankingEntry
	tierUpdates map[uuid.UUID]types.Tier

	listErr    error
	replaceErr error
	// onReplace runs while a replace is in flight, before the new entry set
	// becomes visible, so tests can act as a concurrent reader.
	onReplace func()
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		latest:      make(map[uuid.UUID]types.Snapshot),
		baselines:   make(map[types.Period]map[uuid.UUID]types.PeriodBaseline),
		rankings:    make(map[types.Period][]types.RankingEntry),
		tierUpdates: make(map[uuid.UUID]types.Tier),
	}
}

func (f *fakeBackend) ListAccounts(_ context.Context) ([]types.Account, error) {
	return f.accounts, f.listErr
}

func (f *fakeBackend) UpdateTiers(_ context.Context, tiers map[uuid.UUID]types.Tier) error {
	f.tierUpdates = tiers
	return nil
}

func (f *fakeBackend) LatestSnapshots(_ context.Context) (map[uuid.UUID]types.Snapshot, error) {
	return f.latest, nil
}

func (f *fakeBackend) UpsertBaseline(_ context.Context, b types.PeriodBaseline) error {
	if f.baselines[b.Period] == nil {
		f.baselines[b.Period] = make(map[uuid.UUID]types.PeriodBaseline)
	}
	f.baselines[b.Period][b.AccountId] = b
	return nil
}

func (f *fakeBackend) ListBaselines(_ context.Context, period types.Period) (map[uuid.UUID]types.PeriodBaseline, error) {
	return f.baselines[period], nil
}

func (f *fakeBackend) ReplaceRankings(_ context.Context, period types.Period, entries []types.RankingEntry) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	if f.onReplace != nil {
		f.onReplace()
	}
	f.rankings[period] = entries
	return nil
}

func (f *fakeBackend) GetRankings(_ context.Context, period types.Period, tier types.Tier, limit int) ([]types.RankingEntry, error) {
	var out []types.RankingEntry
	for _, e := range f.rankings[period] {
		if e.Tier == tier {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeBackend) GetAccountRank(_ context.Context, accountId uuid.UUID, period types.Period) (*types.RankingEntry, error) {
	for _, e := range f.rankings[period] {
		if e.AccountId == accountId {
			return &e, nil
		}
	}
	return nil, fmt.Errorf("not ranked")
}

func (f *fakeBackend) addAccount(n int, tier types.Tier, capital, latestAssets string) uuid.UUID {
	id := seqId(n)
	f.accounts = append(f.accounts, types.Account{
		Id:              id,
		Nickname:        fmt.Sprintf("acct-%d", n),
		StartingCapital: decimal.RequireFromString(capital),
		Tier:            tier,
	})
	if latestAssets != "" {
		total := decimal.RequireFromString(latestAssets)
		f.latest[id] = types.Snapshot{
			AccountId:   id,
			TotalAssets: total,
			Cash:        total,
			CumReturn:   pctOf(total, decimal.RequireFromString(capital)),
		}
	}
	return id
}

func (f *fakeBackend) setBaseline(id uuid.UUID, period types.Period, assets string) {
	if f.baselines[period] == nil {
		f.baselines[period] = make(map[uuid.UUID]types.PeriodBaseline)
	}
	f.baselines[period][id] = types.PeriodBaseline{
		AccountId: id,
		Period:    period,
		Assets:    decimal.RequireFromString(assets),
	}
}

// seqId builds UUIDs whose string order matches n, for tie-break assertions.
func seqId(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func pctOf(total, base decimal.Decimal) decimal.Decimal {
	return total.Sub(base).Div(base).Mul(decimal.NewFromInt(100)).Round(2)
}

// fakeCache records ranking cache swaps.
type fakeCache struct {
	sets   map[types.Period]map[types.Tier][]types.RankingEntry
	stored map[string][]types.RankingEntry
	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		sets:   make(map[types.Period]map[types.Tier][]types.RankingEntry),
		stored: make(map[string][]types.RankingEntry),
	}
}

func (c *fakeCache) SetRankings(_ context.Context, period types.Period, byTier map[types.Tier][]types.RankingEntry) error {
	c.sets[period] = byTier
	for tier, entries := range byTier {
		c.stored[string(period)+"/"+string(tier)] = entries
	}
	return nil
}

func (c *fakeCache) GetRankings(_ context.Context, period types.Period, tier types.Tier) ([]types.RankingEntry, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	entries, ok := c.stored[string(period)+"/"+string(tier)]
	return entries, ok, nil
}
