package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"papertrade/types"
)

// GetAccount retrieves a single account by id.
func (db *Database) GetAccount(ctx context.Context, id uuid.UUID) (*types.Account, error) {
	row := db.q.QueryRow(ctx,
		`SELECT id, nickname, starting_capital, tier, created_at FROM accounts WHERE id = $1`, id)

	var a types.Account
	err := row.Scan(&a.Id, &a.Nickname, &a.StartingCapital, &a.Tier, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", id, ErrAccountNotFound)
		}
		return nil, classifyStorageErr("get account", err)
	}
	return &a, nil
}

// ListAccounts returns every account, oldest first.
func (db *Database) ListAccounts(ctx context.Context) ([]types.Account, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, nickname, starting_capital, tier, created_at FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, classifyStorageErr("list accounts", err)
	}
	defer rows.Close()

	var accounts []types.Account
	for rows.Next() {
		var a types.Account
		if err := rows.Scan(&a.Id, &a.Nickname, &a.StartingCapital, &a.Tier, &a.CreatedAt); err != nil {
			return nil, classifyStorageErr("scan account", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageErr("list accounts", err)
	}
	return accounts, nil
}

// CreateAccount inserts a new account. Starting capital must be positive,
// enforced both here and by a table constraint.
func (db *Database) CreateAccount(ctx context.Context, a types.Account) error {
	if !a.StartingCapital.IsPositive() {
		return fmt.Errorf("create account: starting capital must be > 0, got %s", a.StartingCapital)
	}
	_, err := db.q.Exec(ctx,
		`INSERT INTO accounts (id, nickname, starting_capital, tier, created_at) VALUES ($1, $2, $3, $4, $5)`,
		a.Id, a.Nickname, a.StartingCapital, a.Tier, a.CreatedAt)
	if err != nil {
		return classifyStorageErr("create account", err)
	}
	return nil
}

// UpdateTiers persists reclassified tiers in a single batch.
func (db *Database) UpdateTiers(ctx context.Context, tiers map[uuid.UUID]types.Tier) error {
	if len(tiers) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for id, tier := range tiers {
		batch.Queue(`UPDATE accounts SET tier = $1 WHERE id = $2`, tier, id)
	}
	tx, err := db.q.Begin(ctx)
	if err != nil {
		return classifyStorageErr("update tiers", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return classifyStorageErr("update tiers", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return classifyStorageErr("update tiers", err)
	}
	return nil
}
