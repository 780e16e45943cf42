package leaderboard

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"papertrade/types"
)

// BaselineManager pins every account's period baseline to its current total
// assets at calendar boundaries. Storing the baseline, instead of looking up
// a week-old snapshot later, keeps period returns well-defined when the
// boundary day has no snapshot (holidays, accounts created mid-period).
type BaselineManager struct {
	accounts  accountStore
	snapshots snapshotSource
	store     baselineStore
}

func NewBaselineManager(accounts accountStore, snapshots snapshotSource, store baselineStore) *BaselineManager {
	return &BaselineManager{accounts: accounts, snapshots: snapshots, store: store}
}

// ResetWeekly sets every account's weekly baseline to its current total
// assets. Runs at the first day of each week; re-running within the same
// week overwrites with the same value, so it is idempotent.
func (m *BaselineManager) ResetWeekly(ctx context.Context, day time.Time) error {
	return m.reset(ctx, types.PeriodWeekly, day)
}

// ResetMonthly is ResetWeekly for calendar months.
func (m *BaselineManager) ResetMonthly(ctx context.Context, day time.Time) error {
	return m.reset(ctx, types.PeriodMonthly, day)
}

func (m *BaselineManager) reset(ctx context.Context, period types.Period, day time.Time) error {
	accounts, err := m.accounts.ListAccounts(ctx)
	if err != nil {
		return err
	}
	latest, err := m.snapshots.LatestSnapshots(ctx)
	if err != nil {
		return err
	}

	day = types.DayOf(day)
	for _, acct := range accounts {
		assets := acct.StartingCapital
		if snap, ok := latest[acct.Id]; ok {
			assets = snap.TotalAssets
		}
		err := m.store.UpsertBaseline(ctx, types.PeriodBaseline{
			AccountId: acct.Id,
			Period:    period,
			Assets:    assets,
			ResetOn:   day,
		})
		if err != nil {
			return err
		}
	}

	log.Info().
		Str("period", string(period)).
		Str("day", day.Format(types.DayFormat)).
		Int("accounts", len(accounts)).
		Msg("period baselines reset")
	return nil
}
