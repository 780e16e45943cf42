package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"papertrade/types"
)

var ErrCycleRunning = errors.New("cycle already running")

type snapshotter interface {
	SnapshotAll(ctx context.Context, day time.Time) error
}

type classifier interface {
	ClassifyAll(ctx context.Context) error
}

type baseliner interface {
	ResetWeekly(ctx context.Context, day time.Time) error
	ResetMonthly(ctx context.Context, day time.Time) error
}

type ranker interface {
	Compute(ctx context.Context, period types.Period) error
}

// Hook is an externally provided pipeline step (price-feed close, commentary
// generation, reward distribution). The engine only owes these their slot in
// the ordering; a nil hook is skipped.
type Hook func(ctx context.Context, day time.Time) error

// Hooks are the out-of-scope collaborators the daily contract sequences
// around the in-scope jobs.
type Hooks struct {
	CloseCandles       Hook
	MarketCommentary   Hook
	PersonalCommentary Hook
	MonthlyRewards     Hook
}

// Runner sequences the daily batch work. The ordering inside each cycle is a
// hard contract: snapshots before rankings, tier classification before
// baseline resets. Runner does no time-triggering itself; the scheduler that
// owns the wall clock calls RunDaily and RunMidnight.
type Runner struct {
	snapshots snapshotter
	tiers     classifier
	baselines baseliner
	rankings  ranker
	hooks     Hooks

	mu     sync.Mutex
	active map[string]bool
}

func NewRunner(snapshots snapshotter, tiers classifier, baselines baseliner, rankings ranker, hooks Hooks) *Runner {
	return &Runner{
		snapshots: snapshots,
		tiers:     tiers,
		baselines: baselines,
		rankings:  rankings,
		hooks:     hooks,
		active:    make(map[string]bool),
	}
}

// Lease is the per-cycle run guard. Acquiring one marks the cycle active
// until released; a second trigger while held gets ErrCycleRunning instead
// of overlapping work.
type Lease struct {
	release func()
	once    sync.Once
}

func (l *Lease) Release() { l.once.Do(l.release) }

func (r *Runner) acquire(cycle string) (*Lease, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[cycle] {
		return nil, fmt.Errorf("%s: %w", cycle, ErrCycleRunning)
	}
	r.active[cycle] = true
	return &Lease{release: func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.active[cycle] = false
	}}, nil
}

type job struct {
	name string
	run  func(ctx context.Context) error
}

func hookJob(name string, h Hook, day time.Time) job {
	return job{name: name, run: func(ctx context.Context) error {
		if h == nil {
			return nil
		}
		return h(ctx, day)
	}}
}

// RunDaily is the post-close cycle: closing candles exist first, then the
// day's snapshots, then rankings computed off those same-day totals.
func (r *Runner) RunDaily(ctx context.Context, now time.Time) error {
	day := types.DayOf(now)
	return r.runCycle(ctx, "daily", []job{
		hookJob("close_candles", r.hooks.CloseCandles, day),
		hookJob("market_commentary", r.hooks.MarketCommentary, day),
		{name: "snapshot", run: func(ctx context.Context) error {
			return r.snapshots.SnapshotAll(ctx, day)
		}},
		hookJob("personal_commentary", r.hooks.PersonalCommentary, day),
		{name: "rankings", run: func(ctx context.Context) error {
			for _, period := range []types.Period{types.PeriodWeekly, types.PeriodMonthly, types.PeriodAllTime} {
				if err := r.rankings.Compute(ctx, period); err != nil {
					return err
				}
			}
			return nil
		}},
	})
}

// RunMidnight is the day-boundary cycle: reclassify tiers, distribute monthly
// rewards on month start, record the new day's opening snapshot, then reset
// whichever period baselines the calendar restarts today.
func (r *Runner) RunMidnight(ctx context.Context, now time.Time) error {
	day := types.DayOf(now)
	jobs := []job{
		{name: "classify_tiers", run: func(ctx context.Context) error {
			return r.tiers.ClassifyAll(ctx)
		}},
	}
	if types.IsMonthStart(day) {
		jobs = append(jobs, hookJob("monthly_rewards", r.hooks.MonthlyRewards, day))
	}
	jobs = append(jobs, job{name: "snapshot", run: func(ctx context.Context) error {
		return r.snapshots.SnapshotAll(ctx, day)
	}})
	if types.IsWeekStart(day) {
		jobs = append(jobs, job{name: "weekly_baseline_reset", run: func(ctx context.Context) error {
			return r.baselines.ResetWeekly(ctx, day)
		}})
	}
	if types.IsMonthStart(day) {
		jobs = append(jobs, job{name: "monthly_baseline_reset", run: func(ctx context.Context) error {
			return r.baselines.ResetMonthly(ctx, day)
		}})
	}
	return r.runCycle(ctx, "midnight", jobs)
}

// runCycle executes jobs strictly in order under the cycle lease. The first
// failure stops the cycle; there is no mid-cycle resume, the next scheduled
// trigger simply reruns it (every job is idempotent for the same day).
func (r *Runner) runCycle(ctx context.Context, cycle string, jobs []job) error {
	lease, err := r.acquire(cycle)
	if err != nil {
		return err
	}
	defer lease.Release()

	log.Info().Str("cycle", cycle).Int("jobs", len(jobs)).Msg("cycle started")
	for _, j := range jobs {
		start := time.Now()
		err := j.run(ctx)
		elapsed := time.Since(start)
		jobDuration.WithLabelValues(j.name).Observe(elapsed.Seconds())
		if err != nil {
			jobRuns.WithLabelValues(j.name, "error").Inc()
			log.Error().Err(err).Str("cycle", cycle).Str("job", j.name).Msg("job failed, aborting cycle")
			return fmt.Errorf("cycle %s job %s: %w", cycle, j.name, err)
		}
		jobRuns.WithLabelValues(j.name, "ok").Inc()
		log.Info().Str("cycle", cycle).Str("job", j.name).Dur("duration", elapsed).Msg("job complete")
	}
	log.Info().Str("cycle", cycle).Msg("cycle complete")
	return nil
}
