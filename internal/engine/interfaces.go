package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

type accountSource interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*types.Account, error)
	ListAccounts(ctx context.Context) ([]types.Account, error)
}

type ledgerSource interface {
	GetTradeEvents(ctx context.Context, accountId uuid.UUID) ([]types.TradeEvent, error)
}

type priceSource interface {
	GetClosingPrice(ctx context.Context, securityId string, day time.Time) (decimal.Decimal, error)
}

type snapshotStore interface {
	UpsertSnapshot(ctx context.Context, s types.Snapshot) error
}
