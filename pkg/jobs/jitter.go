package jobs

import (
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"
)

// Jitter is called at every scheduling point, inside and outside the queue
// lock. It exists to shake out ordering bugs under test.
type Jitter interface {
	Pause()
}

type noJitter struct{}

func (noJitter) Pause() {}

// RandomJitter randomly does nothing, yields, spins up to MaxSpins
// iterations or sleeps up to MaxSleep.
type RandomJitter struct {
	MaxSpins int
	MaxSleep time.Duration
}

var spinSink atomic.Uint64

func (r RandomJitter) Pause() {
	switch rand.IntN(4) {
	case 0:
	case 1:
		runtime.Gosched()
	case 2:
		if r.MaxSpins > 0 {
			for i := rand.IntN(r.MaxSpins); i > 0; i-- {
				spinSink.Add(1)
			}
		}
	case 3:
		if r.MaxSleep > 0 {
			time.Sleep(rand.N(r.MaxSleep))
		}
	}
}
