package jobs

import (
	"runtime"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

const (
	idle   int32 = 0
	active int32 = 1
)

type worker struct {
	index   int
	sem     *semaphore
	running atomic.Int32
	done    chan struct{}
}

func newWorker(index, semaphoreDepth int) *worker {
	w := &worker{
		index: index,
		sem:   newSemaphore(semaphoreDepth),
		done:  make(chan struct{}),
	}
	w.running.Store(active)
	return w
}

func (w *worker) isRunning() bool {
	switch r := w.running.Load(); r {
	case idle:
		return false
	case active:
		return true
	default:
		panic(errors.AssertionFailedf("jobs: worker %d has invalid running flag %d", w.index, r))
	}
}

func (s *System) work(w *worker) {
	defer close(w.done)

	for {
		j, moreWork, shutdown := s.pop()
		if shutdown {
			// a job popped together with the shutdown flag is dropped
			break
		}

		if moreWork {
			s.opts.jitter.Pause()
			s.tryWakeFirstSleepingWorker(w.index)
		}

		if j == nil {
			s.sleep(w)
			continue
		}

		s.execute(j)
	}

	w.running.Store(idle)
}

// sleep parks w on its semaphore unless a job shows up after the running
// flag has been cleared.
func (s *System) sleep(w *worker) {
	w.running.Store(idle)

	s.queue.mu.Lock()
	s.opts.jitter.Pause()
	pending := s.queue.jobs.Len() > 0
	s.queue.mu.Unlock()

	if !pending {
		w.sem.Wait()
	}
	w.running.Store(active)
}

func (s *System) pop() (j *job, moreWork, shutdown bool) {
	s.queue.mu.Lock()
	defer s.queue.mu.Unlock()

	s.opts.jitter.Pause()
	if s.queue.jobs.Len() > 0 {
		j = s.queue.jobs.Pop()
	}
	return j, s.queue.jobs.Len() > 0, s.queue.shutdown
}

// execute runs j if its parents are done, otherwise puts it back at the end
// of the queue that is popped last.
func (s *System) execute(j *job) {
	s.opts.jitter.Pause()

	if !j.isReady() {
		s.queue.mu.Lock()
		s.opts.jitter.Pause()
		s.queue.jobs.PushFront(j)
		s.queue.mu.Unlock()

		s.requeues.Add(1)
		runtime.Gosched()
		return
	}

	j.run()
	s.completed.Add(1)
	s.outstanding.Add(-1)
}
