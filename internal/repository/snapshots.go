package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"papertrade/types"
)

// UpsertSnapshot records an account's end-of-day valuation. Writing the same
// (account, day) twice overwrites the previous values; the daily job can be
// re-run without duplicating rows.
func (db *Database) UpsertSnapshot(ctx context.Context, s types.Snapshot) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO snapshots (account_id, day, total_assets, cash, cum_return)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (account_id, day)
		 DO UPDATE SET total_assets = EXCLUDED.total_assets, cash = EXCLUDED.cash, cum_return = EXCLUDED.cum_return`,
		s.AccountId, types.DayOf(s.Day), s.TotalAssets, s.Cash, s.CumReturn)
	if err != nil {
		return classifyStorageErr("upsert snapshot", err)
	}
	return nil
}

// GetSnapshot returns the stored point for (account, day) or ErrSnapshotNotFound.
func (db *Database) GetSnapshot(ctx context.Context, accountId uuid.UUID, day time.Time) (*types.Snapshot, error) {
	row := db.q.QueryRow(ctx,
		`SELECT account_id, day, total_assets, cash, cum_return
		 FROM snapshots WHERE account_id = $1 AND day = $2`, accountId, types.DayOf(day))
	return scanSnapshot(row, accountId)
}

// LatestSnapshot returns the most recent snapshot by day for one account.
func (db *Database) LatestSnapshot(ctx context.Context, accountId uuid.UUID) (*types.Snapshot, error) {
	row := db.q.QueryRow(ctx,
		`SELECT account_id, day, total_assets, cash, cum_return
		 FROM snapshots WHERE account_id = $1 ORDER BY day DESC LIMIT 1`, accountId)
	return scanSnapshot(row, accountId)
}

// LatestSnapshots returns the most recent snapshot per account in one pass;
// tier classification and ranking both start from this set.
func (db *Database) LatestSnapshots(ctx context.Context) (map[uuid.UUID]types.Snapshot, error) {
	rows, err := db.q.Query(ctx,
		`SELECT DISTINCT ON (account_id) account_id, day, total_assets, cash, cum_return
		 FROM snapshots ORDER BY account_id, day DESC`)
	if err != nil {
		return nil, classifyStorageErr("latest snapshots", err)
	}
	defer rows.Close()

	latest := make(map[uuid.UUID]types.Snapshot)
	for rows.Next() {
		var s types.Snapshot
		if err := rows.Scan(&s.AccountId, &s.Day, &s.TotalAssets, &s.Cash, &s.CumReturn); err != nil {
			return nil, classifyStorageErr("scan snapshot", err)
		}
		latest[s.AccountId] = s
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageErr("latest snapshots", err)
	}
	return latest, nil
}

func scanSnapshot(row pgx.Row, accountId uuid.UUID) (*types.Snapshot, error) {
	var s types.Snapshot
	err := row.Scan(&s.AccountId, &s.Day, &s.TotalAssets, &s.Cash, &s.CumReturn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountId, ErrSnapshotNotFound)
		}
		return nil, classifyStorageErr("get snapshot", err)
	}
	return &s, nil
}
