package jobs

// Runnable is the unit of work carried by a job.
type Runnable interface {
	Run()
}

// JobFunc adapts an ordinary function to Runnable.
type JobFunc func()

func (f JobFunc) Run() { f() }

// JobRef is a handle to a job created by AddJob. It may be passed as a parent
// to later AddJob calls until the next SyncAllJobs frees the job.
type JobRef struct {
	index uint32
	epoch uint32
}

// Stats is a snapshot of the counters kept by a System since Init.
type Stats struct {
	Barriers uint64
	Jobs     uint64
	Requeues uint64
	Wakes    uint64
}

func (s Stats) sub(o Stats) Stats {
	return Stats{
		Barriers: s.Barriers - o.Barriers,
		Jobs:     s.Jobs - o.Jobs,
		Requeues: s.Requeues - o.Requeues,
		Wakes:    s.Wakes - o.Wakes,
	}
}
