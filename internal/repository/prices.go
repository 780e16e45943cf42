package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

// GetClosingPrice returns the recorded close for (security, day) or
// ErrPriceNotFound. Gap filling across non-trading days is the caller's
// concern; this is a plain point lookup.
func (db *Database) GetClosingPrice(ctx context.Context, securityId string, day time.Time) (decimal.Decimal, error) {
	row := db.q.QueryRow(ctx,
		`SELECT close FROM daily_prices WHERE security_id = $1 AND day = $2`,
		securityId, types.DayOf(day))

	var close decimal.Decimal
	if err := row.Scan(&close); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%s on %s: %w",
				securityId, day.Format(types.DayFormat), ErrPriceNotFound)
		}
		return decimal.Zero, classifyStorageErr("get closing price", err)
	}
	return close, nil
}

// RecordDailyPrice appends one daily candle. The (security, day) primary key
// makes double-recording a conflict rather than a duplicate.
func (db *Database) RecordDailyPrice(ctx context.Context, rec types.PriceRecord) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO daily_prices (security_id, day, open, high, low, close, volume)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.SecurityId, types.DayOf(rec.Day), rec.Open, rec.High, rec.Low, rec.Close, rec.Volume)
	if err != nil {
		return classifyStorageErr("record daily price", err)
	}
	return nil
}
