package jobs_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/jobsystem/pkg/jobs"
)

var _ = Describe("ThreadCount", func() {
	DescribeTable("with the default reservations",
		func(cores, want int) {
			Expect(jobs.ThreadCount(cores, jobs.DefaultReservations)).To(Equal(want))
		},
		Entry("1 core", 1, 1),
		Entry("2 cores", 2, 2),
		Entry("4 cores", 4, 3),
		Entry("8 cores", 8, 6),
		Entry("12 cores", 12, 10),
		Entry("16 cores", 16, 12),
		Entry("64 cores", 64, 56),
	)

	It("should never return less than one worker", func() {
		table := jobs.ReservationTable{{MinCores: 2, Reserved: 1}}

		Expect(jobs.ThreadCount(0, table)).To(Equal(1))
		Expect(jobs.ThreadCount(2, table)).To(Equal(1))
		Expect(jobs.ThreadCount(2, nil)).To(Equal(2))
	})

	It("should report at least one logical core", func() {
		Expect(jobs.LogicalCores()).To(BeNumerically(">=", 1))
	})
})

var _ = Describe("ReservationTable", func() {
	It("should accept the default table", func() {
		Expect(jobs.DefaultReservations.Validate()).To(Succeed())
	})

	DescribeTable("should reject",
		func(table jobs.ReservationTable) {
			Expect(table.Validate()).NotTo(Succeed())
		},
		Entry("unordered rows", jobs.ReservationTable{{MinCores: 8, Reserved: 1}, {MinCores: 4, Reserved: 1}}),
		Entry("zero min cores", jobs.ReservationTable{{MinCores: 0, Reserved: 0}}),
		Entry("negative reservation", jobs.ReservationTable{{MinCores: 4, Reserved: -1}}),
		Entry("reserving every core", jobs.ReservationTable{{MinCores: 4, Reserved: 4}}),
	)
})
