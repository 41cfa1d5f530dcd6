package workload

import (
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/jobsystem/internal/config"
	srvErrors "github.com/kubev2v/jobsystem/pkg/errors"
	"github.com/kubev2v/jobsystem/pkg/jobs"
)

// Workload is a batch of jobs whose results can be checked after a barrier.
// Schedule must be called from the goroutine owning the job system.
type Workload interface {
	Name() string
	Schedule(s *jobs.System)
	Verify() error
}

func New(cfg config.Bench) (Workload, error) {
	switch cfg.Workload {
	case "fanout":
		return NewFanOutSort(cfg.Jobs, cfg.ArraySize, cfg.Seed), nil
	case "chain":
		return NewChain(cfg.ChainLength), nil
	case "multichain":
		return NewMultiChain(cfg.Chains, cfg.ChainLength), nil
	case "pair":
		return NewPair(), nil
	default:
		return nil, srvErrors.NewUnknownWorkloadError(cfg.Workload)
	}
}

type Round struct {
	Jobs     int
	Duration time.Duration
	Stats    jobs.Stats
}

type Result struct {
	Workload string
	Workers  int
	Rounds   []Round
}

func (r Result) Total() time.Duration {
	var d time.Duration
	for _, round := range r.Rounds {
		d += round.Duration
	}
	return d
}

// Run schedules w, waits for the barrier and verifies the outcome, rounds
// times in a row.
func Run(s *jobs.System, w Workload, rounds int) (Result, error) {
	res := Result{Workload: w.Name(), Workers: s.NumWorkers()}

	for i := range rounds {
		before := s.Stats()
		start := time.Now()

		w.Schedule(s)
		s.SyncAllJobs()

		after := s.Stats()
		round := Round{
			Jobs:     int(after.Jobs - before.Jobs),
			Duration: time.Since(start),
			Stats: jobs.Stats{
				Barriers: after.Barriers - before.Barriers,
				Jobs:     after.Jobs - before.Jobs,
				Requeues: after.Requeues - before.Requeues,
				Wakes:    after.Wakes - before.Wakes,
			},
		}
		res.Rounds = append(res.Rounds, round)

		zap.S().Debugw("round complete", "workload", w.Name(), "round", i, "jobs", round.Jobs, "duration", round.Duration)

		if err := w.Verify(); err != nil {
			return res, err
		}
	}

	return res, nil
}
