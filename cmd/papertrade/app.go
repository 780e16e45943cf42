package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"papertrade/internal/config"
	"papertrade/internal/engine"
	"papertrade/internal/leaderboard"
	"papertrade/internal/pipeline"
	"papertrade/internal/repository"
)

// app wires configuration, storage and the valuation/ranking services for
// the CLI commands.
type app struct {
	cfg    config.Config
	db     *repository.Database
	rdb    *redis.Client
	recon  *engine.Reconstructor
	snaps  *engine.Snapshotter
	runner *pipeline.Runner
	boards *leaderboard.Service
}

func newApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	db, err := repository.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	hour, minute, err := cfg.Valuation.CutoffClock()
	if err != nil {
		return nil, err
	}
	if hour == 0 && minute == 0 {
		// A configured "00:00" means a real midnight cutoff, which the
		// engine spells as a negative hour.
		hour = -1
	}
	threshold, err := cfg.Ranking.Threshold()
	if err != nil {
		return nil, err
	}

	recon := engine.NewReconstructor(db, db, db, engine.Config{
		LookbackDays: cfg.Valuation.LookbackDays,
		CutoffHour:   hour,
		CutoffMinute: minute,
	})
	snaps := engine.NewSnapshotter(recon, db, db, cfg.Valuation.SnapshotWorkers)
	tiers := leaderboard.NewClassifier(db, db, threshold)
	baselines := leaderboard.NewBaselineManager(db, db, db)

	a := &app{cfg: cfg, db: db, recon: recon, snaps: snaps}
	if cfg.Redis.Enabled {
		a.rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		cache := leaderboard.NewCache(a.rdb, cfg.Redis.CacheTTL)
		rankings := leaderboard.NewCalculator(db, db, db, db, cache, cfg.Ranking.TopN)
		a.boards = leaderboard.NewService(db, cache)
		a.runner = pipeline.NewRunner(snaps, tiers, baselines, rankings, pipeline.Hooks{})
	} else {
		rankings := leaderboard.NewCalculator(db, db, db, db, nil, cfg.Ranking.TopN)
		a.boards = leaderboard.NewService(db, nil)
		a.runner = pipeline.NewRunner(snaps, tiers, baselines, rankings, pipeline.Hooks{})
	}
	return a, nil
}

func (a *app) close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	a.db.Close()
}
