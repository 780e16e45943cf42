package leaderboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"papertrade/types"
)

// Service is the read side of the leaderboard: cache first, store on miss.
type Service struct {
	store rankingStore
	cache rankingCache
}

// NewService wires the ranking read API. cache may be nil.
func NewService(store rankingStore, cache rankingCache) *Service {
	return &Service{store: store, cache: cache}
}

// GetRanking returns one tier's board for a period kind, best first.
// limit <= 0 returns the full stored board.
func (s *Service) GetRanking(ctx context.Context, period types.Period, tier types.Tier, limit int) ([]types.RankingEntry, error) {
	if s.cache != nil {
		entries, ok, err := s.cache.GetRankings(ctx, period, tier)
		if err != nil {
			log.Warn().Err(err).Msg("ranking cache read failed, falling back to store")
		} else if ok {
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			return entries, nil
		}
	}
	return s.store.GetRankings(ctx, period, tier, limit)
}

// GetAccountRank returns one account's current entry for a period kind, or
// repository.ErrRankNotFound when it did not make the cut.
func (s *Service) GetAccountRank(ctx context.Context, accountId uuid.UUID, period types.Period) (*types.RankingEntry, error) {
	return s.store.GetAccountRank(ctx, accountId, period)
}
