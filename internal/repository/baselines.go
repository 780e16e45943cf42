package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"papertrade/types"
)

// UpsertBaseline overwrites an account's baseline for one period kind.
// Baselines are mutated in place at period boundaries and never historized,
// so an upsert is the whole lifecycle.
func (db *Database) UpsertBaseline(ctx context.Context, b types.PeriodBaseline) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO period_baselines (account_id, period, assets, reset_on)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (account_id, period)
		 DO UPDATE SET assets = EXCLUDED.assets, reset_on = EXCLUDED.reset_on`,
		b.AccountId, b.Period, b.Assets, types.DayOf(b.ResetOn))
	if err != nil {
		return classifyStorageErr("upsert baseline", err)
	}
	return nil
}

// GetBaseline returns one account's baseline for a period kind.
func (db *Database) GetBaseline(ctx context.Context, accountId uuid.UUID, period types.Period) (*types.PeriodBaseline, error) {
	row := db.q.QueryRow(ctx,
		`SELECT account_id, period, assets, reset_on
		 FROM period_baselines WHERE account_id = $1 AND period = $2`, accountId, period)

	var b types.PeriodBaseline
	err := row.Scan(&b.AccountId, &b.Period, &b.Assets, &b.ResetOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s period %s: %w", accountId, period, ErrBaselineNotFound)
		}
		return nil, classifyStorageErr("get baseline", err)
	}
	return &b, nil
}

// ListBaselines returns every account's baseline for a period kind, keyed by
// account.
func (db *Database) ListBaselines(ctx context.Context, period types.Period) (map[uuid.UUID]types.PeriodBaseline, error) {
	rows, err := db.q.Query(ctx,
		`SELECT account_id, period, assets, reset_on FROM period_baselines WHERE period = $1`, period)
	if err != nil {
		return nil, classifyStorageErr("list baselines", err)
	}
	defer rows.Close()

	baselines := make(map[uuid.UUID]types.PeriodBaseline)
	for rows.Next() {
		var b types.PeriodBaseline
		if err := rows.Scan(&b.AccountId, &b.Period, &b.Assets, &b.ResetOn); err != nil {
			return nil, classifyStorageErr("scan baseline", err)
		}
		baselines[b.AccountId] = b
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageErr("list baselines", err)
	}
	return baselines, nil
}
