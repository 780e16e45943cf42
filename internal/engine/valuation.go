package engine

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"papertrade/internal/repository"
	"papertrade/types"
)

var priceGaps = promauto.NewCounter(prometheus.CounterOpts{
	Name: "papertrade_price_gaps_total",
	Help: "Valuations where a security had no closing price within the lookback window.",
})

// valueHoldings prices every open holding at its closing price for day.
// A day without a recorded close falls back to the most recent close within
// the lookback window; beyond that the security contributes zero. Both cases
// mark the result as estimated so callers can tell exact valuations apart
// from degraded ones.
func (r *Reconstructor) valueHoldings(ctx context.Context, state *portfolio, day time.Time) (decimal.Decimal, bool, error) {
	total := decimal.Zero
	estimated := false

	for _, h := range state.holdingsList() {
		price, exact, found, err := r.closeOnOrBefore(ctx, h.SecurityId, day)
		if err != nil {
			return decimal.Zero, false, err
		}
		if !found {
			priceGaps.Inc()
			log.Warn().
				Str("security", h.SecurityId).
				Str("day", day.Format(types.DayFormat)).
				Int("lookback_days", r.cfg.LookbackDays).
				Msg("no closing price within lookback window, valuing holding at zero")
			estimated = true
			continue
		}
		if !exact {
			estimated = true
		}
		total = total.Add(price.Mul(decimal.NewFromInt(h.Quantity)))
	}
	return total, estimated, nil
}

// closeOnOrBefore searches backward from day for a recorded close, one
// calendar day at a time, up to the configured lookback. exact reports
// whether the hit was on day itself.
func (r *Reconstructor) closeOnOrBefore(ctx context.Context, securityId string, day time.Time) (decimal.Decimal, bool, bool, error) {
	day = types.DayOf(day)
	for back := 0; back <= r.cfg.LookbackDays; back++ {
		price, err := r.prices.GetClosingPrice(ctx, securityId, day.AddDate(0, 0, -back))
		if err == nil {
			return price, back == 0, true, nil
		}
		if !errors.Is(err, repository.ErrPriceNotFound) {
			return decimal.Zero, false, false, err
		}
	}
	return decimal.Zero, false, false, nil
}
