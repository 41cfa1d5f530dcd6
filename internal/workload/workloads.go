package workload

import (
	"math/rand/v2"
	"slices"

	srvErrors "github.com/kubev2v/jobsystem/pkg/errors"
	"github.com/kubev2v/jobsystem/pkg/jobs"
)

// FanOutSort sorts many private arrays of random integers, one job each.
type FanOutSort struct {
	jobs   int
	size   int
	rng    *rand.Rand
	arrays [][]int
}

func NewFanOutSort(jobs, size int, seed uint64) *FanOutSort {
	return &FanOutSort{
		jobs: jobs,
		size: size,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (f *FanOutSort) Name() string { return "fanout" }

func (f *FanOutSort) Schedule(s *jobs.System) {
	f.arrays = make([][]int, f.jobs)
	for i := range f.arrays {
		a := make([]int, f.size)
		for j := range a {
			a[j] = f.rng.Int()
		}
		f.arrays[i] = a
	}

	for i := range f.arrays {
		s.AddJob(func() { slices.Sort(f.arrays[i]) })
	}
}

func (f *FanOutSort) Verify() error {
	for i, a := range f.arrays {
		if !slices.IsSorted(a) {
			return srvErrors.NewVerificationError(f.Name(), "array %d is not sorted", i)
		}
	}
	return nil
}

// Chain runs length jobs, each depending on the previous one and appending
// its index to a shared sequence.
type Chain struct {
	length int
	seq    []int
}

func NewChain(length int) *Chain {
	return &Chain{length: length}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Schedule(s *jobs.System) {
	c.seq = make([]int, 0, c.length)
	scheduleChain(s, c.length, &c.seq, nil)
}

func (c *Chain) Verify() error {
	return verifySequence(c.Name(), 0, c.seq, c.length)
}

// MultiChain interleaves independent chains through the same queue.
type MultiChain struct {
	chains int
	length int
	seqs   [][]int
}

func NewMultiChain(chains, length int) *MultiChain {
	return &MultiChain{chains: chains, length: length}
}

func (m *MultiChain) Name() string { return "multichain" }

func (m *MultiChain) Schedule(s *jobs.System) {
	m.seqs = make([][]int, m.chains)
	prev := make([]jobs.JobRef, m.chains)
	for i := range m.length {
		for c := range m.chains {
			var parents []jobs.JobRef
			if i > 0 {
				parents = append(parents, prev[c])
			}
			prev[c] = s.AddJob(func() { m.seqs[c] = append(m.seqs[c], i) }, parents...)
		}
	}
}

func (m *MultiChain) Verify() error {
	for c, seq := range m.seqs {
		if err := verifySequence(m.Name(), c, seq, m.length); err != nil {
			return err
		}
	}
	return nil
}

// Pair is the smallest dependency: a job appending 1 and its child
// appending 2.
type Pair struct {
	l []int
}

func NewPair() *Pair { return &Pair{} }

func (p *Pair) Name() string { return "pair" }

func (p *Pair) Schedule(s *jobs.System) {
	p.l = nil
	scheduleChain(s, 2, &p.l, func(i int) int { return i + 1 })
}

func (p *Pair) Verify() error {
	if !slices.Equal(p.l, []int{1, 2}) {
		return srvErrors.NewVerificationError(p.Name(), "got %v, want [1 2]", p.l)
	}
	return nil
}

func scheduleChain(s *jobs.System, length int, seq *[]int, value func(int) int) {
	if value == nil {
		value = func(i int) int { return i }
	}

	var prev []jobs.JobRef
	for i := range length {
		ref := s.AddJob(func() { *seq = append(*seq, value(i)) }, prev...)
		prev = []jobs.JobRef{ref}
	}
}

func verifySequence(name string, chain int, seq []int, length int) error {
	if len(seq) != length {
		return srvErrors.NewVerificationError(name, "chain %d ran %d jobs, want %d", chain, len(seq), length)
	}
	for i, v := range seq {
		if v != i {
			return srvErrors.NewVerificationError(name, "chain %d: position %d holds %d", chain, i, v)
		}
	}
	return nil
}
