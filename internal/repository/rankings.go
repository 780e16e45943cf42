package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"papertrade/types"
)

// ReplaceRankings swaps the full entry set for one period kind (both tiers)
// in a single transaction. Readers see either the previous set or the new
// one, never a mix; any failure rolls the whole period back.
func (db *Database) ReplaceRankings(ctx context.Context, period types.Period, entries []types.RankingEntry) error {
	tx, err := db.q.Begin(ctx)
	if err != nil {
		return classifyStorageErr("replace rankings", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rankings WHERE period = $1`, period); err != nil {
		return classifyStorageErr("clear rankings", err)
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		if e.Period != period {
			return fmt.Errorf("replace rankings: entry for period %s in %s update", e.Period, period)
		}
		batch.Queue(
			`INSERT INTO rankings (period, tier, rank, account_id, period_return) VALUES ($1, $2, $3, $4, $5)`,
			e.Period, e.Tier, e.Rank, e.AccountId, e.Return)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return classifyStorageErr("insert rankings", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyStorageErr("replace rankings", err)
	}
	return nil
}

// GetRankings returns a tier's leaderboard for one period kind, best first.
// limit <= 0 means no limit.
func (db *Database) GetRankings(ctx context.Context, period types.Period, tier types.Tier, limit int) ([]types.RankingEntry, error) {
	query := `SELECT period, tier, rank, account_id, period_return
	          FROM rankings WHERE period = $1 AND tier = $2 ORDER BY rank`
	args := []any{period, tier}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := db.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyStorageErr("get rankings", err)
	}
	defer rows.Close()

	var entries []types.RankingEntry
	for rows.Next() {
		var e types.RankingEntry
		if err := rows.Scan(&e.Period, &e.Tier, &e.Rank, &e.AccountId, &e.Return); err != nil {
			return nil, classifyStorageErr("scan ranking", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageErr("get rankings", err)
	}
	return entries, nil
}

// GetAccountRank returns one account's entry for a period kind, in whichever
// tier it was ranked. Accounts outside the top cut get ErrRankNotFound.
func (db *Database) GetAccountRank(ctx context.Context, accountId uuid.UUID, period types.Period) (*types.RankingEntry, error) {
	row := db.q.QueryRow(ctx,
		`SELECT period, tier, rank, account_id, period_return
		 FROM rankings WHERE period = $1 AND account_id = $2`, period, accountId)

	var e types.RankingEntry
	err := row.Scan(&e.Period, &e.Tier, &e.Rank, &e.AccountId, &e.Return)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s period %s: %w", accountId, period, ErrRankNotFound)
		}
		return nil, classifyStorageErr("get account rank", err)
	}
	return &e, nil
}
