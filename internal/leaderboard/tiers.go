package leaderboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"papertrade/types"
)

// Classifier partitions accounts into the Entry and Elite tiers by an
// absolute total-asset threshold.
type Classifier struct {
	accounts  accountStore
	snapshots snapshotSource
	threshold decimal.Decimal
}

func NewClassifier(accounts accountStore, snapshots snapshotSource, threshold decimal.Decimal) *Classifier {
	return &Classifier{accounts: accounts, snapshots: snapshots, threshold: threshold}
}

// Classify maps a current total-asset value to a tier.
func (c *Classifier) Classify(totalAssets decimal.Decimal) types.Tier {
	if totalAssets.GreaterThanOrEqual(c.threshold) {
		return types.TierElite
	}
	return types.TierEntry
}

// ClassifyAll reclassifies every account from its latest snapshot and
// persists the changes. Ranking partitions by the tier written here, so this
// must run before rankings on the same cycle. An account with no snapshot yet
// is classified at its starting capital.
func (c *Classifier) ClassifyAll(ctx context.Context) error {
	accounts, err := c.accounts.ListAccounts(ctx)
	if err != nil {
		return err
	}
	latest, err := c.snapshots.LatestSnapshots(ctx)
	if err != nil {
		return err
	}

	changes := make(map[uuid.UUID]types.Tier)
	for _, acct := range accounts {
		assets := acct.StartingCapital
		if snap, ok := latest[acct.Id]; ok {
			assets = snap.TotalAssets
		}
		if tier := c.Classify(assets); tier != acct.Tier {
			changes[acct.Id] = tier
		}
	}

	if err := c.accounts.UpdateTiers(ctx, changes); err != nil {
		return err
	}
	log.Info().
		Int("accounts", len(accounts)).
		Int("reclassified", len(changes)).
		Msg("tier classification complete")
	return nil
}
