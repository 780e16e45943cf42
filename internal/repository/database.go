package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations.
var (
	ErrAccountNotFound  = errors.New("account not found in datasource")
	ErrPriceNotFound    = errors.New("no closing price recorded for that day")
	ErrSnapshotNotFound = errors.New("no snapshot recorded")
	ErrBaselineNotFound = errors.New("no period baseline recorded")
	ErrRankNotFound     = errors.New("account not present in ranking")

	// Storage failure classes. Conflicts abort the surrounding operation;
	// unavailability is surfaced to the caller and retried by the scheduler
	// on its next trigger, never here.
	ErrStorageConflict    = errors.New("storage constraint violation")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Database holds the connection pool behind every durable store: accounts,
// trade ledger, daily price archive, snapshots, baselines and rankings.
type Database struct {
	q    querier
	pool *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(dbURL string) (*Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}
	// Ensure the connection is established.
	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	return &Database{q: pool, pool: pool}, nil
}

func (db *Database) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// classifyStorageErr sorts a driver error into the conflict/unavailable
// taxonomy. Class 23 covers integrity constraint violations; everything else
// is treated as the datasource being unreachable or broken.
func classifyStorageErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return fmt.Errorf("%s: %w: %s", op, ErrStorageConflict, pgErr.Message)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
}
