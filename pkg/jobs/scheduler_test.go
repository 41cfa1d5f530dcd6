package jobs_test

import (
	"math/rand/v2"
	"slices"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/jobsystem/pkg/jobs"
)

var _ = Describe("System", func() {
	var s *jobs.System

	AfterEach(func() {
		if s != nil {
			s.Shutdown()
			s = nil
		}
	})

	Describe("AddJob", func() {
		// Given a job without parents
		// When we sync
		// Then the job has run exactly once
		It("should run a job without parents exactly once", func() {
			s = jobs.Init(4)

			var calls atomic.Int32
			s.AddJob(func() { calls.Add(1) })
			s.SyncAllJobs()

			Expect(calls.Load()).To(Equal(int32(1)))
		})

		It("should run every independent job exactly once", func() {
			s = jobs.Init(8)

			counts := make([]atomic.Int32, 1000)
			for i := range counts {
				s.AddJob(func() { counts[i].Add(1) })
			}
			s.SyncAllJobs()

			for i := range counts {
				Expect(counts[i].Load()).To(Equal(int32(1)), "job %d", i)
			}
		})

		It("should accept a Runnable", func() {
			s = jobs.Init(2)

			r := &countingRunnable{}
			s.AddRunnable(r)
			s.SyncAllJobs()

			Expect(r.calls.Load()).To(Equal(int32(1)))
		})

		// Given a job that appends 1 and a child that appends 2
		// When we sync
		// Then the list is [1, 2]
		It("should run a parent before its child", func() {
			s = jobs.Init(4)

			var l []int
			f1 := s.AddJob(func() { l = append(l, 1) })
			s.AddJob(func() { l = append(l, 2) }, f1)
			s.SyncAllJobs()

			Expect(l).To(Equal([]int{1, 2}))
		})

		It("should let a child read a value only its parent writes", func() {
			s = jobs.Init(4)

			var written, seen int
			a := s.AddJob(func() {
				time.Sleep(10 * time.Millisecond)
				written = 42
			})
			s.AddJob(func() { seen = written }, a)
			s.SyncAllJobs()

			Expect(seen).To(Equal(42))
		})

		It("should wait for every parent of a job", func() {
			s = jobs.Init(4)

			var done [3]atomic.Bool
			var ok atomic.Bool
			parents := make([]jobs.JobRef, len(done))
			for i := range done {
				parents[i] = s.AddJob(func() {
					time.Sleep(time.Duration(i) * time.Millisecond)
					done[i].Store(true)
				})
			}
			s.AddJob(func() {
				ok.Store(done[0].Load() && done[1].Load() && done[2].Load())
			}, parents...)
			s.SyncAllJobs()

			Expect(ok.Load()).To(BeTrue())
		})

		It("should run a diamond in dependency order", func() {
			s = jobs.Init(4)

			var order []string
			var step atomic.Int32
			var b, c int32
			top := s.AddJob(func() { order = append(order, "top") })
			left := s.AddJob(func() { b = step.Add(1) }, top)
			right := s.AddJob(func() { c = step.Add(1) }, top)
			s.AddJob(func() { order = append(order, "bottom") }, left, right)
			s.SyncAllJobs()

			Expect(order).To(Equal([]string{"top", "bottom"}))
			Expect([]int32{b, c}).To(ConsistOf(int32(1), int32(2)))
		})
	})

	Describe("SyncAllJobs", func() {
		It("should return immediately with no jobs", func() {
			s = jobs.Init(2)

			s.SyncAllJobs()
			s.SyncAllJobs()

			Expect(s.Stats().Barriers).To(Equal(uint64(2)))
		})

		It("should run jobs of consecutive barriers", func() {
			s = jobs.Init(3)

			var calls atomic.Int32
			for range 5 {
				for range 100 {
					s.AddJob(func() { calls.Add(1) })
				}
				s.SyncAllJobs()
				Expect(calls.Load() % 100).To(BeZero())
			}

			Expect(calls.Load()).To(Equal(int32(500)))
			Expect(s.Stats().Jobs).To(Equal(uint64(500)))
		})

		It("should wait for jobs running on workers", func() {
			s = jobs.Init(2)

			var finished atomic.Bool
			s.AddJob(func() {
				time.Sleep(50 * time.Millisecond)
				finished.Store(true)
			})
			s.AddJob(func() {})
			s.SyncAllJobs()

			Expect(finished.Load()).To(BeTrue())
		})

		DescribeTable("chain of 100 jobs",
			func(threads int) {
				s = jobs.Init(threads)

				var seq []int
				var prev jobs.JobRef
				for i := range 100 {
					if i == 0 {
						prev = s.AddJob(func() { seq = append(seq, i) })
						continue
					}
					prev = s.AddJob(func() { seq = append(seq, i) }, prev)
				}
				s.SyncAllJobs()

				Expect(seq).To(Equal(sequence(100)))
			},
			Entry("1 thread", 1),
			Entry("2 threads", 2),
			Entry("14 threads", 14),
			Entry("24 threads", 24),
		)

		DescribeTable("fan-out of 5000 sorts",
			func(threads int) {
				s = jobs.Init(threads)

				arrays := randomArrays(5000, 500)
				for i := range arrays {
					s.AddJob(func() { slices.Sort(arrays[i]) })
				}
				s.SyncAllJobs()

				for i := range arrays {
					Expect(slices.IsSorted(arrays[i])).To(BeTrue(), "array %d", i)
				}
			},
			Entry("1 thread", 1),
			Entry("2 threads", 2),
			Entry("14 threads", 14),
			Entry("24 threads", 24),
		)

		It("should keep 50 interleaved chains in order", func() {
			s = jobs.Init(8)

			const chains, length = 50, 40
			seqs := make([][]int, chains)
			prev := make([]jobs.JobRef, chains)
			for i := range length {
				for c := range chains {
					if i == 0 {
						prev[c] = s.AddJob(func() { seqs[c] = append(seqs[c], i) })
						continue
					}
					prev[c] = s.AddJob(func() { seqs[c] = append(seqs[c], i) }, prev[c])
				}
			}
			s.SyncAllJobs()

			for c := range seqs {
				Expect(seqs[c]).To(Equal(sequence(length)), "chain %d", c)
			}
		})
	})

	Describe("Init", func() {
		It("should derive the worker count when given zero threads", func() {
			s = jobs.Init(0,
				jobs.WithCoreCount(func() int { return 16 }),
				jobs.WithReservations(jobs.ReservationTable{{MinCores: 1, Reserved: 0}, {MinCores: 8, Reserved: 3}}),
			)

			Expect(s.NumWorkers()).To(Equal(13))
		})

		It("should start exactly the requested workers", func() {
			s = jobs.Init(7)

			Expect(s.NumWorkers()).To(Equal(7))
		})

		It("should panic on a negative thread count", func() {
			Expect(func() { jobs.Init(-1) }).To(Panic())
		})
	})

	Describe("Shutdown", func() {
		DescribeTable("Init followed by Shutdown",
			func(threads int) {
				done := make(chan struct{})
				go func() {
					defer GinkgoRecover()
					defer close(done)
					for range 3 {
						sys := jobs.Init(threads)
						sys.Shutdown()
					}
				}()

				Eventually(done, 30*time.Second).Should(BeClosed())
			},
			Entry("1 thread", 1),
			Entry("2 threads", 2),
			Entry("1000 threads", 1000),
		)

		It("should run pending jobs before stopping", func() {
			sys := jobs.Init(2)

			var calls atomic.Int32
			for range 200 {
				sys.AddJob(func() { calls.Add(1) })
			}
			sys.Shutdown()

			Expect(calls.Load()).To(Equal(int32(200)))
		})

		It("should panic when used after Shutdown", func() {
			sys := jobs.Init(1)
			sys.Shutdown()

			Expect(func() { sys.AddJob(func() {}) }).To(Panic())
			Expect(func() { sys.SyncAllJobs() }).To(Panic())
			Expect(func() { sys.Shutdown() }).To(Panic())
		})
	})

	Describe("Contract violations", func() {
		It("should panic on a JobRef from an earlier barrier", func() {
			s = jobs.Init(2)

			stale := s.AddJob(func() {})
			s.SyncAllJobs()

			Expect(func() { s.AddJob(func() {}, stale) }).To(Panic())
		})

		It("should panic on a zero JobRef", func() {
			s = jobs.Init(1)

			Expect(func() { s.AddJob(func() {}, jobs.JobRef{}) }).To(Panic())
		})

		It("should panic on a nil Runnable", func() {
			s = jobs.Init(1)

			Expect(func() { s.AddRunnable(nil) }).To(Panic())
		})
	})

	Describe("Stats", func() {
		It("should count requeued jobs waiting for parents", func() {
			s = jobs.Init(1)

			release := make(chan struct{})
			parent := s.AddJob(func() { <-release })
			s.AddJob(func() {}, parent)

			go func() {
				time.Sleep(20 * time.Millisecond)
				close(release)
			}()
			s.SyncAllJobs()

			st := s.Stats()
			Expect(st.Jobs).To(Equal(uint64(2)))
			Expect(st.Barriers).To(Equal(uint64(1)))
			Expect(st.Requeues).To(BeNumerically(">", 0))
		})
	})
})

type countingRunnable struct {
	calls atomic.Int32
}

func (r *countingRunnable) Run() { r.calls.Add(1) }

func sequence(n int) []int {
	seq := make([]int, n)
	for i := range seq {
		seq[i] = i
	}
	return seq
}

func randomArrays(m, k int) [][]int {
	rng := rand.New(rand.NewPCG(1, 2))
	arrays := make([][]int, m)
	for i := range arrays {
		arrays[i] = make([]int, k)
		for j := range arrays[i] {
			arrays[i][j] = rng.Int()
		}
	}
	return arrays
}
