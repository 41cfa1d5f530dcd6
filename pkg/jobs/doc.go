// Package jobs implements a bounded-burst job system: a pool of workers that
// runs a batch of short jobs with optional dependencies and joins on all of
// them at a single barrier.
//
// The system is built for bursts. The owner adds a batch of jobs, calls
// SyncAllJobs, and the workers go back to sleep until the next batch. It is
// not a perpetual work queue.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                            System                                   │
//	│                                                                     │
//	│  owner goroutine                                                    │
//	│     │ AddJob(fn, parents...)        SyncAllJobs()      Shutdown()   │
//	│     ▼                                    │                          │
//	│  ┌──────────────────────────────────┐    │ pops and runs jobs too   │
//	│  │ Shared Queue (LIFO, one mutex)   │◄───┘                          │
//	│  │ [job1] [job2] ... [jobN]         │                               │
//	│  │ shutdown flag                    │                               │
//	│  └──────────────────────────────────┘                               │
//	│         ▲               ▲                  ▲                        │
//	│         │ pop / requeue │                  │                        │
//	│  ┌──────┴─────┐  ┌──────┴─────┐     ┌──────┴─────┐                  │
//	│  │  Worker 0  │  │  Worker 1  │ ... │  Worker N  │                  │
//	│  │ sem  running│ │ sem  running│    │ sem  running│                 │
//	│  └────────────┘  └────────────┘     └────────────┘                  │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Jobs and dependencies
//
// A job is a Runnable plus a list of parents. It runs once every parent is
// done. AddJob returns a JobRef that can be used as a parent of later jobs,
// so any DAG can be expressed:
//
//	s := jobs.Init(0)
//	defer s.Shutdown()
//
//	var l []int
//	a := s.AddJob(func() { l = append(l, 1) })
//	s.AddJob(func() { l = append(l, 2) }, a)
//	s.SyncAllJobs()
//	// l == [1 2]
//
// A job has two states, not done and done. A job picked up by a worker but
// not finished looks exactly like one never picked up: a dependent only
// needs to know that it may not run yet.
//
// Jobs live in an arena owned by the System. SyncAllJobs frees the whole
// arena once the barrier is reached and advances its epoch; a JobRef from an
// earlier epoch is rejected.
//
// # Worker Loop
//
//	        ┌──────────────────────────────────────────────┐
//	        ▼                                              │
//	  lock; pop one job; moreWork := len > 0; unlock       │
//	        │                                              │
//	        ├── shutdown set ──► exit (popped job dropped) │
//	        │                                              │
//	        ├── moreWork ──► wake one idle sibling         │
//	        │                                              │
//	        ├── no job ──► running=0; lock; recheck; unlock│
//	        │                 │ job appeared ──► running=1─┤
//	        │                 └ empty ──► sem.Wait(); running=1
//	        │                                              │
//	        └── job ──► ready? run : push back to front ───┘
//
// # Wake Strategy
//
// Adding a job wakes at most one idle worker. A worker that pops a job and
// sees more work wakes one more idle sibling, so a single wake is enough to
// eventually drain the queue. Waking a worker with nothing to do is harmless:
// it goes back to sleep.
//
// The one dangerous interleaving is the owner pushing work exactly while
// every worker is going idle. A worker clears its running flag before it
// checks the queue a last time under the lock, so it never sleeps while
// work it could see is queued.
//
// # Barrier
//
// SyncAllJobs pops and runs jobs on the owner goroutine until the queue is
// empty, then polls until every added job has run and every worker reports
// idle, sleeping between polls with an exponential back-off bounded by
// WithPollInterval. Only then is the arena freed.
//
// # Ownership
//
// Init, AddJob, SyncAllJobs and Shutdown belong to the goroutine that called
// Init. Concurrent calls to owner operations, adding jobs from inside a job,
// reusing a stale JobRef, running a job twice and using a System after
// Shutdown are contract violations and panic with an assertion failure.
// Panics raised by jobs are not recovered.
//
// # Shutdown
//
// Shutdown runs a full barrier first, then sets the shutdown flag under the
// queue lock, signals every worker once and joins them. A worker that pops a
// job in the same step that observes the flag drops the job; the barrier
// guarantees the queue is empty by then.
//
// # Worker Count
//
// Init(0) derives the worker count from the logical core count and a
// ReservationTable that keeps more cores free on bigger hosts. The table and
// the core query can be replaced with WithReservations and WithCoreCount.
package jobs
