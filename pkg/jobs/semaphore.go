package jobs

// semaphore is a counting semaphore whose count saturates at its capacity.
// Signals above the capacity are dropped: a waiter is already guaranteed to
// wake up, which is all a worker needs.
type semaphore struct {
	c chan struct{}
}

func newSemaphore(capacity int) *semaphore {
	return &semaphore{c: make(chan struct{}, max(1, capacity))}
}

func (s *semaphore) Signal(n int) {
	for range n {
		select {
		case s.c <- struct{}{}:
		default:
			return
		}
	}
}

func (s *semaphore) Wait() {
	<-s.c
}
