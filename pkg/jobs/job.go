package jobs

import (
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

const (
	stateNotDone int32 = iota
	stateDone
)

type job struct {
	runnable Runnable
	parents  []*job
	state    atomic.Int32
}

// isReady reports whether every parent has completed. A parent whose
// completion is not yet visible counts as not done.
func (j *job) isReady() bool {
	for _, p := range j.parents {
		switch st := p.state.Load(); st {
		case stateDone:
		case stateNotDone:
			return false
		default:
			panic(errors.AssertionFailedf("jobs: parent job in invalid state %d", st))
		}
	}
	return true
}

func (j *job) run() {
	if st := j.state.Load(); st != stateNotDone {
		panic(errors.AssertionFailedf("jobs: job started in state %d", st))
	}

	j.runnable.Run()

	if !j.state.CompareAndSwap(stateNotDone, stateDone) {
		panic(errors.AssertionFailedf("jobs: job completed twice"))
	}
}

// arena owns every job created since the last barrier. It is only touched
// by the owning goroutine.
type arena struct {
	jobs  []*job
	free  []*job
	epoch uint32
}

func newArena() *arena {
	return &arena{epoch: 1}
}

func (a *arena) alloc(r Runnable, parents []*job) (*job, JobRef) {
	var j *job
	if n := len(a.free); n > 0 {
		j = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		j = &job{}
	}
	j.runnable = r
	j.parents = append(j.parents[:0], parents...)

	ref := JobRef{index: uint32(len(a.jobs)), epoch: a.epoch}
	a.jobs = append(a.jobs, j)
	return j, ref
}

func (a *arena) resolve(ref JobRef) *job {
	if ref.epoch != a.epoch || int(ref.index) >= len(a.jobs) {
		panic(errors.AssertionFailedf("jobs: stale or invalid job reference (epoch %d, current %d)", ref.epoch, a.epoch))
	}
	return a.jobs[ref.index]
}

func (a *arena) len() int { return len(a.jobs) }

// reset frees every job of the current epoch in one pass. Callers must
// guarantee that no worker still holds any of them.
func (a *arena) reset() {
	for i, j := range a.jobs {
		if j.state.Load() != stateDone {
			panic(errors.AssertionFailedf("jobs: freeing unfinished job %d", i))
		}
		j.runnable = nil
		clear(j.parents)
		j.parents = j.parents[:0]
		j.state.Store(stateNotDone)
		a.free = append(a.free, j)
		a.jobs[i] = nil
	}
	a.jobs = a.jobs[:0]
	a.epoch++
	if a.epoch == 0 {
		a.epoch = 1
	}
}
