package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"papertrade/types"
)

// Cache keeps the current leaderboards in Redis so ranking reads skip the
// database. Both tier keys for a period are written in one MULTI/EXEC, so a
// reader never sees one tier from the old board and one from the new.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func rankingKey(period types.Period, tier types.Tier) string {
	return fmt.Sprintf("rankings:%s:%s", period, tier)
}

func (c *Cache) SetRankings(ctx context.Context, period types.Period, byTier map[types.Tier][]types.RankingEntry) error {
	pipe := c.rdb.TxPipeline()
	for tier, entries := range byTier {
		payload, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshal rankings: %w", err)
		}
		pipe.Set(ctx, rankingKey(period, tier), payload, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache rankings: %w", err)
	}
	return nil
}

func (c *Cache) GetRankings(ctx context.Context, period types.Period, tier types.Tier) ([]types.RankingEntry, bool, error) {
	payload, err := c.rdb.Get(ctx, rankingKey(period, tier)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read ranking cache: %w", err)
	}
	var entries []types.RankingEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, false, fmt.Errorf("decode ranking cache: %w", err)
	}
	return entries, true, nil
}
