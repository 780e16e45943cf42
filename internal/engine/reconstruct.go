package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

const (
	defaultLookbackDays = 7
	defaultCutoffHour   = 16
)

// Config tunes the reconstruction rules. Zero values fall back to a 7-day
// price lookback and a 16:00 valuation cutoff.
type Config struct {
	// LookbackDays bounds the backward search for a closing price on
	// non-trading days.
	LookbackDays int
	// CutoffHour/CutoffMinute is the market-close valuation cutoff: today only
	// joins a reconstruction once this wall-clock time has passed, because
	// today's official closes do not exist before it. A negative CutoffHour
	// selects a midnight cutoff (every day counts immediately); the zero
	// value is treated as unset and falls back to 16:00.
	CutoffHour   int
	CutoffMinute int
	// Now is overridable for tests.
	Now func() time.Time
}

// Reconstructor replays an account's trade ledger into a gap-free daily
// net-worth series, valuing holdings with the historical price archive.
type Reconstructor struct {
	accounts accountSource
	ledger   ledgerSource
	prices   priceSource
	cfg      Config
}

func NewReconstructor(accounts accountSource, ledger ledgerSource, prices priceSource, cfg Config) *Reconstructor {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultLookbackDays
	}
	if cfg.CutoffHour < 0 {
		cfg.CutoffHour, cfg.CutoffMinute = 0, 0
	} else if cfg.CutoffHour == 0 && cfg.CutoffMinute == 0 {
		cfg.CutoffHour = defaultCutoffHour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Reconstructor{accounts: accounts, ledger: ledger, prices: prices, cfg: cfg}
}

// CutoffDay returns the last day eligible for valuation at the given instant:
// today once the market-close cutoff has passed, otherwise yesterday.
func (r *Reconstructor) CutoffDay(now time.Time) time.Time {
	day := types.DayOf(now)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), r.cfg.CutoffHour, r.cfg.CutoffMinute, 0, 0, now.Location())
	if now.Before(cutoff) {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// History reconstructs the account's value series from its creation day
// through the cutoff day, one point per calendar day plus one per trade.
// window trims the result; a zero window returns the full series.
func (r *Reconstructor) History(ctx context.Context, accountId uuid.UUID, window types.Range) ([]types.ValuePoint, error) {
	acct, err := r.accounts.GetAccount(ctx, accountId)
	if err != nil {
		return nil, err
	}
	events, err := r.ledger.GetTradeEvents(ctx, accountId)
	if err != nil {
		return nil, err
	}

	start := types.DayOf(acct.CreatedAt)
	end := r.CutoffDay(r.cfg.Now())
	if end.Before(start) {
		// Freshly created account before today's close: a single flat point
		// at starting capital rather than an empty series.
		end = start
	}

	var points []types.ValuePoint
	state := newPortfolio(acct.StartingCapital)
	i := 0
	for day := start; !day.After(end); day = types.NextDay(day) {
		traded := false
		for i < len(events) && types.SameDay(events[i].ExecutedAt, day) {
			e := events[i]
			if err := state.apply(e); err != nil {
				return nil, err
			}
			// Value against the trade's own day, not "now": the point
			// captures net worth as it stood right after the fill.
			value, estimated, err := r.valueHoldings(ctx, state, day)
			if err != nil {
				return nil, err
			}
			points = append(points, makePoint(e.ExecutedAt, state.cash, value, acct.StartingCapital.Add(state.deposited), estimated))
			traded = true
			i++
		}
		if !traded {
			value, estimated, err := r.valueHoldings(ctx, state, day)
			if err != nil {
				return nil, err
			}
			points = append(points, makePoint(day, state.cash, value, acct.StartingCapital.Add(state.deposited), estimated))
		}
	}

	if window.Start.IsZero() && window.End.IsZero() {
		return points, nil
	}
	trimmed := points[:0]
	for _, p := range points {
		if window.Contains(p.Time) {
			trimmed = append(trimmed, p)
		}
	}
	return trimmed, nil
}

// SnapshotOn replays the ledger through the end of day and values the result
// at that day's closes, yielding the snapshot row for (account, day).
func (r *Reconstructor) SnapshotOn(ctx context.Context, accountId uuid.UUID, day time.Time) (types.Snapshot, bool, error) {
	acct, err := r.accounts.GetAccount(ctx, accountId)
	if err != nil {
		return types.Snapshot{}, false, err
	}
	events, err := r.ledger.GetTradeEvents(ctx, accountId)
	if err != nil {
		return types.Snapshot{}, false, err
	}

	day = types.DayOf(day)
	state := newPortfolio(acct.StartingCapital)
	for _, e := range events {
		if types.DayOf(e.ExecutedAt).After(day) {
			break
		}
		if err := state.apply(e); err != nil {
			return types.Snapshot{}, false, err
		}
	}

	value, estimated, err := r.valueHoldings(ctx, state, day)
	if err != nil {
		return types.Snapshot{}, false, err
	}
	total := state.cash.Add(value).Round(2)
	return types.Snapshot{
		AccountId:   accountId,
		Day:         day,
		TotalAssets: total,
		Cash:        state.cash.Round(2),
		CumReturn:   pctReturn(total, acct.StartingCapital.Add(state.deposited)),
	}, estimated, nil
}

// makePoint values a replay state against the capital base as it stood at
// that moment: starting capital plus any bonus deposits applied so far, so a
// deposit moves both numerator and denominator and reads as 0% on its own.
func makePoint(at time.Time, cash, holdingsValue, capitalBase decimal.Decimal, estimated bool) types.ValuePoint {
	total := cash.Add(holdingsValue).Round(2)
	return types.ValuePoint{
		Time:        at,
		TotalAssets: total,
		Cash:        cash.Round(2),
		Return:      pctReturn(total, capitalBase),
		Estimated:   estimated,
	}
}

func pctReturn(total, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return total.Sub(base).Div(base).Mul(decimal.NewFromInt(100)).Round(2)
}
