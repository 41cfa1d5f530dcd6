package jobs

const noExclusion = -1

// tryWakeFirstSleepingWorker signals the first idle worker found scanning
// from just after exclude, skipping exclude itself. Waking a worker that
// finds nothing to do is harmless: it goes back to sleep.
func (s *System) tryWakeFirstSleepingWorker(exclude int) {
	n := len(s.workers)
	start := 0
	if exclude != noExclusion {
		start = exclude + 1
	}

	for i := range n {
		idx := (start + i) % n
		if idx == exclude {
			continue
		}
		w := s.workers[idx]
		if !w.isRunning() {
			w.sem.Signal(1)
			s.wakes.Add(1)
			return
		}
	}
}
