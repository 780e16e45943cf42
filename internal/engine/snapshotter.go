package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"papertrade/types"
)

const defaultSnapshotWorkers = 8

// Snapshotter values every account as of a day and upserts the results into
// the snapshot store. Accounts are independent, so valuation fans out over a
// bounded worker group; the upsert per account keeps the job idempotent.
type Snapshotter struct {
	recon    *Reconstructor
	accounts accountSource
	store    snapshotStore
	workers  int
}

func NewSnapshotter(recon *Reconstructor, accounts accountSource, store snapshotStore, workers int) *Snapshotter {
	if workers <= 0 {
		workers = defaultSnapshotWorkers
	}
	return &Snapshotter{recon: recon, accounts: accounts, store: store, workers: workers}
}

// SnapshotAll records the (account, day) snapshot for every account. Each
// account either fully succeeds or reports its error; the first failure
// cancels the remaining work.
func (s *Snapshotter) SnapshotAll(ctx context.Context, day time.Time) error {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return err
	}
	day = types.DayOf(day)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	snapped := 0
	for _, acct := range accounts {
		if types.DayOf(acct.CreatedAt).After(day) {
			// Backfills can reach further back than the account; no state
			// exists before creation, so there is nothing to snapshot.
			continue
		}
		snapped++
		acct := acct
		g.Go(func() error {
			snap, estimated, err := s.recon.SnapshotOn(gctx, acct.Id, day)
			if err != nil {
				return err
			}
			if estimated {
				log.Debug().
					Str("account", acct.Id.String()).
					Str("day", day.Format(types.DayFormat)).
					Msg("snapshot valued with gap-filled prices")
			}
			return s.store.UpsertSnapshot(gctx, snap)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().
		Int("accounts", snapped).
		Str("day", day.Format(types.DayFormat)).
		Msg("daily snapshots recorded")
	return nil
}
