package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade/internal/repository"
	"papertrade/types"
)

type fakeStore struct {
	accounts map[uuid.UUID]types.Account
	events   map[uuid.UUID][]types.TradeEvent
	prices   map[string]map[string]decimal.Decimal // security -> day -> close
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts: make(map[uuid.UUID]types.Account),
		events:   make(map[uuid.UUID][]types.TradeEvent),
		prices:   make(map[string]map[string]decimal.Decimal),
	}
}

func (f *fakeStore) GetAccount(_ context.Context, id uuid.UUID) (*types.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &a, nil
}

func (f *fakeStore) ListAccounts(_ context.Context) ([]types.Account, error) {
	var out []types.Account
	for _, a := range f.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeStore) GetTradeEvents(_ context.Context, id uuid.UUID) ([]types.TradeEvent, error) {
	return f.events[id], nil
}

func (f *fakeStore) GetClosingPrice(_ context.Context, securityId string, day time.Time) (decimal.Decimal, error) {
	if close, ok := f.prices[securityId][day.Format(types.DayFormat)]; ok {
		return close, nil
	}
	return decimal.Zero, repository.ErrPriceNotFound
}

func (f *fakeStore) setClose(securityId, day, close string) {
	if f.prices[securityId] == nil {
		f.prices[securityId] = make(map[string]decimal.Decimal)
	}
	f.prices[securityId][day] = decimal.RequireFromString(close)
}

func fixedNow(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestAccount(f *fakeStore, createdAt time.Time, capital string) uuid.UUID {
	id := uuid.New()
	f.accounts[id] = types.Account{
		Id:              id,
		Nickname:        "tester",
		StartingCapital: decimal.RequireFromString(capital),
		Tier:            types.TierEntry,
		CreatedAt:       createdAt,
	}
	return id
}

func TestHistoryNoTrades(t *testing.T) {
	f := newFakeStore()
	id := newTestAccount(f, time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), "10000000")

	// 17:00 is past the 16:00 cutoff, so today (June 6) is included.
	r := NewReconstructor(f, f, f, Config{Now: fixedNow(time.Date(2025, 6, 6, 17, 0, 0, 0, time.UTC))})

	points, err := r.History(context.Background(), id, types.Range{})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(points) != 5 {
		t.Fatalf("got %d points, want 5", len(points))
	}
	for _, p := range points {
		if !p.TotalAssets.Equal(decimal.RequireFromString("10000000")) {
			t.Errorf("%s: total = %s, want 10000000", p.Time, p.TotalAssets)
		}
		if !p.Return.IsZero() {
			t.Errorf("%s: return = %s, want 0", p.Time, p.Return)
		}
		if p.Estimated {
			t.Errorf("%s: flat point marked estimated", p.Time)
		}
	}
}

func TestHistorySpecCanonicalExample(t *testing.T) {
	// 10,000,000 capital, five quiet days, then 10 shares at 100,000 with a
	// 50 fee on day six when that day's close is also 100,000.
	f := newFakeStore()
	id := newTestAccount(f, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), "10000000")
	tradedAt := time.Date(2025, 6, 7, 11, 0, 0, 0, time.UTC)
	f.events[id] = []types.TradeEvent{{
		AccountId:  id,
		Side:       types.SideTypeBuy,
		SecurityId: "005930",
		Quantity:   10,
		Price:      decimal.RequireFromString("100000"),
		Fee:        decimal.RequireFromString("50"),
		ExecutedAt: tradedAt,
	}}
	f.setClose("005930", "2025-06-07", "100000")

	r := NewReconstructor(f, f, f, Config{Now: fixedNow(time.Date(2025, 6, 7, 17, 0, 0, 0, time.UTC))})
	points, err := r.History(context.Background(), id, types.Range{})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(points) != 6 {
		t.Fatalf("got %d points, want 6", len(points))
	}

	last := points[len(points)-1]
	if !last.Time.Equal(tradedAt) {
		t.Errorf("last point at %s, want trade timestamp %s", last.Time, tradedAt)
	}
	if !last.Cash.Equal(decimal.RequireFromString("8999950")) {
		t.Errorf("cash = %s, want 8999950", last.Cash)
	}
	if !last.TotalAssets.Equal(decimal.RequireFromString("9999950")) {
		t.Errorf("total = %s, want 9999950", last.TotalAssets)
	}
	// -0.0005% rounds to 0.00.
	if !last.Return.IsZero() {
		t.Errorf("return = %s, want 0.00", last.Return)
	}
}

func TestHistoryGapFill(t *testing.T) {
	f := newFakeStore()
	id := newTestAccount(f, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), "1000000")
	f.events[id] = []types.TradeEvent{{
		AccountId:  id,
		Side:       types.SideTypeBuy,
		SecurityId: "069500",
		Quantity:   100,
		Price:      decimal.RequireFromString("1000"),
		Fee:        decimal.Zero,
		ExecutedAt: time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
	}}
	// Only the trade day has a close; the following days must reuse it.
	f.setClose("069500", "2025-06-03", "1100")

	r := NewReconstructor(f, f, f, Config{Now: fixedNow(time.Date(2025, 6, 5, 17, 0, 0, 0, time.UTC))})
	points, err := r.History(context.Background(), id, types.Range{})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	// June 2 flat, June 3 trade, June 4 and 5 gap-filled.
	if len(points) != 4 {
		t.Fatalf("got %d points, want 4", len(points))
	}

	tradePoint := points[1]
	if tradePoint.Estimated {
		t.Error("trade-day point used an exact close but is marked estimated")
	}
	if !tradePoint.TotalAssets.Equal(decimal.RequireFromString("1010000")) {
		t.Errorf("trade-day total = %s, want 1010000", tradePoint.TotalAssets)
	}

	for _, p := range points[2:] {
		if !p.Estimated {
			t.Errorf("%s: gap-filled point not marked estimated", p.Time)
		}
		if !p.TotalAssets.Equal(decimal.RequireFromString("1010000")) {
			t.Errorf("%s: total = %s, want 1010000 (last known close)", p.Time, p.TotalAssets)
		}
	}
}

func TestHistoryGapBeyondLookbackValuesAtZero(t *testing.T) {
	f := newFakeStore()
	id := newTestAccount(f, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), "1000000")
	f.events[id] = []types.TradeEvent{{
		AccountId:  id,
		Side:       types.SideTypeBuy,
		SecurityId: "DELISTED",
		Quantity:   10,
		Price:      decimal.RequireFromString("5000"),
		Fee:        decimal.Zero,
		ExecutedAt: time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
	}}
	f.setClose("DELISTED", "2025-06-03", "5000")

	r := NewReconstructor(f, f, f, Config{Now: fixedNow(time.Date(2025, 6, 15, 17, 0, 0, 0, time.UTC))})
	points, err := r.History(context.Background(), id, types.Range{})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}

	// June 15 is more than 7 days past the last close: the security
	// contributes nothing, but reconstruction still succeeds.
	last := points[len(points)-1]
	if !last.Estimated {
		t.Error("point past the lookback window not marked estimated")
	}
	if !last.TotalAssets.Equal(decimal.RequireFromString("950000")) {
		t.Errorf("total = %s, want 950000 (cash only)", last.TotalAssets)
	}
}

func TestHistoryDepositGrowsReturnBase(t *testing.T) {
	f := newFakeStore()
	id := newTestAccount(f, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), "1000000")
	f.events[id] = []types.TradeEvent{{
		AccountId:  id,
		Side:       types.SideTypeDeposit,
		Price:      decimal.RequireFromString("500000"),
		ExecutedAt: time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC),
	}}

	r := NewReconstructor(f, f, f, Config{Now: fixedNow(time.Date(2025, 6, 4, 17, 0, 0, 0, time.UTC))})
	points, err := r.History(context.Background(), id, types.Range{})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}

	// A bonus moves cash and capital base together: it must not register as
	// performance.
	last := points[len(points)-1]
	if !last.TotalAssets.Equal(decimal.RequireFromString("1500000")) {
		t.Errorf("total = %s, want 1500000", last.TotalAssets)
	}
	if !last.Return.IsZero() {
		t.Errorf("return = %s, want 0 after deposit", last.Return)
	}

	snap, _, err := r.SnapshotOn(context.Background(), id, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SnapshotOn() error = %v", err)
	}
	if !snap.CumReturn.IsZero() {
		t.Errorf("cumReturn = %s, want 0 after deposit", snap.CumReturn)
	}
}

func TestCutoffDayMidnight(t *testing.T) {
	f := newFakeStore()
	r := NewReconstructor(f, f, f, Config{CutoffHour: -1})

	// With a midnight cutoff, 00:30 is already past it: today counts.
	now := time.Date(2025, 6, 6, 0, 30, 0, 0, time.UTC)
	if got := r.CutoffDay(now); !got.Equal(time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("CutoffDay(%s) = %s, want 2025-06-06", now, got)
	}

	// The zero value still defaults to the 16:00 market close.
	def := NewReconstructor(f, f, f, Config{})
	if got := def.CutoffDay(now); !got.Equal(time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("default CutoffDay(%s) = %s, want 2025-06-05", now, got)
	}
}

func TestHistoryCutoffExcludesToday(t *testing.T) {
	f := newFakeStore()
	id := newTestAccount(f, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), "1000000")

	// 09:00 is before the close cutoff: today's closes do not exist yet, so
	// the series must stop at yesterday.
	r := NewReconstructor(f, f, f, Config{Now: fixedNow(time.Date(2025, 6, 6, 9, 0, 0, 0, time.UTC))})
	points, err := r.History(context.Background(), id, types.Range{})
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	last := points[len(points)-1]
	want := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	if !last.Time.Equal(want) {
		t.Errorf("last point at %s, want %s", last.Time, want)
	}
}

func TestHistoryWindow(t *testing.T) {
	f := newFakeStore()
	id := newTestAccount(f, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), "1000000")

	r := NewReconstructor(f, f, f, Config{Now: fixedNow(time.Date(2025, 6, 10, 17, 0, 0, 0, time.UTC))})
	window := types.Range{
		Start: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 6, 23, 59, 59, 0, time.UTC),
	}
	points, err := r.History(context.Background(), id, window)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	for _, p := range points {
		if !window.Contains(p.Time) {
			t.Errorf("point %s outside window", p.Time)
		}
	}
}

func TestHistoryMissingAccount(t *testing.T) {
	f := newFakeStore()
	r := NewReconstructor(f, f, f, Config{Now: fixedNow(time.Date(2025, 6, 6, 17, 0, 0, 0, time.UTC))})

	_, err := r.History(context.Background(), uuid.New(), types.Range{})
	if !errors.Is(err, repository.ErrAccountNotFound) {
		t.Fatalf("History() error = %v, want ErrAccountNotFound", err)
	}
}

func TestSnapshotOn(t *testing.T) {
	f := newFakeStore()
	id := newTestAccount(f, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), "10000000")
	f.events[id] = []types.TradeEvent{
		{
			AccountId: id, Side: types.SideTypeBuy, SecurityId: "005930",
			Quantity: 10, Price: decimal.RequireFromString("100000"), Fee: decimal.RequireFromString("50"),
			ExecutedAt: time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
		},
		// After the snapshot day, must be ignored.
		{
			AccountId: id, Side: types.SideTypeSell, SecurityId: "005930",
			Quantity: 10, Price: decimal.RequireFromString("90000"), Fee: decimal.Zero,
			ExecutedAt: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
		},
	}
	f.setClose("005930", "2025-06-04", "110000")

	r := NewReconstructor(f, f, f, Config{Now: fixedNow(time.Date(2025, 6, 4, 17, 0, 0, 0, time.UTC))})
	snap, estimated, err := r.SnapshotOn(context.Background(), id, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SnapshotOn() error = %v", err)
	}
	if estimated {
		t.Error("exact-close snapshot marked estimated")
	}
	if !snap.Cash.Equal(decimal.RequireFromString("8999950")) {
		t.Errorf("cash = %s, want 8999950", snap.Cash)
	}
	if !snap.TotalAssets.Equal(decimal.RequireFromString("10099950")) {
		t.Errorf("total = %s, want 10099950", snap.TotalAssets)
	}
	// (10099950 - 10000000) / 10000000 * 100 = 1.00 rounded.
	if !snap.CumReturn.Equal(decimal.RequireFromString("1")) {
		t.Errorf("cumReturn = %s, want 1.00", snap.CumReturn)
	}
}

func TestReturnSignCorrectness(t *testing.T) {
	base := decimal.RequireFromString("10000000")
	tests := []struct {
		total string
		sign  int
	}{
		{"10100000", 1},
		{"10000000", 0},
		{"9999000", -1},
	}
	for _, tt := range tests {
		got := pctReturn(decimal.RequireFromString(tt.total), base)
		if got.Sign() != tt.sign {
			t.Errorf("pctReturn(%s) = %s, want sign %d", tt.total, got, tt.sign)
		}
	}
}
