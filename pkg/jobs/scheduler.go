package jobs

import (
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type System struct {
	id      uuid.UUID
	opts    options
	log     *zap.SugaredLogger
	queue   sharedQueue
	workers []*worker
	arena   *arena

	// owner guards the owner-only entry points
	owner  atomic.Bool
	closed bool

	// outstanding counts jobs added but not yet run
	outstanding atomic.Int64

	barriers  atomic.Uint64
	completed atomic.Uint64
	requeues  atomic.Uint64
	wakes     atomic.Uint64
	last      Stats
}

// Init starts a job system with threadCount workers. With a threadCount of
// zero the count is derived from the logical core count and the reservation
// table. The caller becomes the owner: only it may call AddJob, SyncAllJobs
// and Shutdown. Only calls that overlap another owner operation, or come
// after Shutdown, are detected; a call from another goroutine while the
// owner is between operations goes unnoticed.
func Init(threadCount int, opts ...Option) *System {
	if threadCount < 0 {
		panic(errors.AssertionFailedf("jobs: negative thread count %d", threadCount))
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.pollMaxInterval < o.pollMinInterval {
		o.pollMaxInterval = o.pollMinInterval
	}

	if o.log == nil {
		o.log = zap.S()
	}

	s := &System{
		id:    uuid.New(),
		opts:  o,
		arena: newArena(),
	}
	s.log = o.log.With("system", s.id.String())

	cores := 0
	if threadCount == 0 {
		cores = o.cores()
		threadCount = ThreadCount(cores, o.reservations)
	}

	s.workers = make([]*worker, threadCount)
	for i := range s.workers {
		s.workers[i] = newWorker(i, o.semaphoreDepth)
	}
	for _, w := range s.workers {
		go s.work(w)
	}

	s.log.Debugw("job system started", "workers", threadCount, "logical_cores", cores)
	return s
}

func (s *System) NumWorkers() int {
	return len(s.workers)
}

// AddJob queues fn to run once every parent has completed.
func (s *System) AddJob(fn func(), parents ...JobRef) JobRef {
	return s.AddRunnable(JobFunc(fn), parents...)
}

func (s *System) AddRunnable(r Runnable, parents ...JobRef) JobRef {
	s.enter("AddJob")
	defer s.exit()

	if r == nil {
		panic(errors.AssertionFailedf("jobs: nil runnable"))
	}

	resolved := make([]*job, len(parents))
	for i, p := range parents {
		resolved[i] = s.arena.resolve(p)
	}
	j, ref := s.arena.alloc(r, resolved)
	s.outstanding.Add(1)

	s.queue.mu.Lock()
	s.opts.jitter.Pause()
	s.queue.jobs.Push(j)
	s.queue.mu.Unlock()

	s.tryWakeFirstSleepingWorker(noExclusion)
	return ref
}

// SyncAllJobs blocks until every job added since the last barrier has run.
// The caller helps running jobs while the queue is not empty. Every JobRef
// handed out before the call is invalid afterwards.
func (s *System) SyncAllJobs() {
	s.enter("SyncAllJobs")
	defer s.exit()
	s.sync()
}

func (s *System) sync() {
	start := time.Now()
	jobs := s.arena.len()

	for {
		j, _, _ := s.pop()
		if j == nil {
			break
		}
		// wake after every pop, the job may turn out not ready and go back
		s.opts.jitter.Pause()
		s.tryWakeFirstSleepingWorker(noExclusion)
		s.execute(j)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.pollMinInterval
	b.MaxInterval = s.opts.pollMaxInterval
	b.RandomizationFactor = 0
	b.Reset()
	for !s.quiescent() {
		time.Sleep(b.NextBackOff())
	}

	s.arena.reset()
	s.barriers.Add(1)

	cur := s.Stats()
	cycle := cur.sub(s.last)
	s.last = cur
	s.log.Debugw("barrier complete",
		"jobs", jobs,
		"requeues", cycle.Requeues,
		"wakes", cycle.Wakes,
		"duration", time.Since(start))
}

// quiescent reports whether all jobs have run and every worker has seen the
// queue empty.
func (s *System) quiescent() bool {
	if s.outstanding.Load() != 0 {
		return false
	}
	for _, w := range s.workers {
		if w.isRunning() {
			return false
		}
	}
	return true
}

// Shutdown waits for all queued jobs, then stops and joins every worker.
// The System cannot be used afterwards.
func (s *System) Shutdown() {
	s.enter("Shutdown")
	defer s.exit()

	s.sync()

	s.queue.mu.Lock()
	s.queue.shutdown = true
	s.queue.mu.Unlock()

	for _, w := range s.workers {
		w.sem.Signal(1)
	}
	for _, w := range s.workers {
		<-w.done
	}

	s.closed = true
	s.log.Debugw("job system stopped", "barriers", s.barriers.Load(), "jobs", s.completed.Load())
}

func (s *System) Stats() Stats {
	return Stats{
		Barriers: s.barriers.Load(),
		Jobs:     s.completed.Load(),
		Requeues: s.requeues.Load(),
		Wakes:    s.wakes.Load(),
	}
}

func (s *System) enter(op string) {
	if !s.owner.CompareAndSwap(false, true) {
		panic(errors.AssertionFailedf("jobs: %s called concurrently with another owner operation", op))
	}
	if s.closed {
		s.owner.Store(false)
		panic(errors.AssertionFailedf("jobs: %s called after Shutdown", op))
	}
}

func (s *System) exit() {
	s.owner.Store(false)
}
