package repository

import (
	"context"

	"github.com/google/uuid"

	"papertrade/types"
)

// GetTradeEvents returns an account's full ledger in effective order:
// execution time first, insertion order (seq) breaking ties. An account with
// no trades yields an empty slice, not an error.
func (db *Database) GetTradeEvents(ctx context.Context, accountId uuid.UUID) ([]types.TradeEvent, error) {
	rows, err := db.q.Query(ctx,
		`SELECT id, account_id, side, security_id, quantity, price, fee, executed_at, note, seq
		 FROM trade_events WHERE account_id = $1 ORDER BY executed_at, seq`, accountId)
	if err != nil {
		return nil, classifyStorageErr("get trade events", err)
	}
	defer rows.Close()

	var events []types.TradeEvent
	for rows.Next() {
		var e types.TradeEvent
		err := rows.Scan(&e.Id, &e.AccountId, &e.Side, &e.SecurityId, &e.Quantity,
			&e.Price, &e.Fee, &e.ExecutedAt, &e.Note, &e.Seq)
		if err != nil {
			return nil, classifyStorageErr("scan trade event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStorageErr("get trade events", err)
	}
	return events, nil
}

// AppendTradeEvent appends to the ledger. Events are never updated or
// deleted; the execution collaborator is the only writer in production.
func (db *Database) AppendTradeEvent(ctx context.Context, e types.TradeEvent) error {
	_, err := db.q.Exec(ctx,
		`INSERT INTO trade_events (id, account_id, side, security_id, quantity, price, fee, executed_at, note)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.Id, e.AccountId, e.Side, e.SecurityId, e.Quantity, e.Price, e.Fee, e.ExecutedAt, e.Note)
	if err != nil {
		return classifyStorageErr("append trade event", err)
	}
	return nil
}
