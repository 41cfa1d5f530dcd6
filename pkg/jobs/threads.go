package jobs

import (
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v3/cpu"
)

// Reservation keeps Reserved logical cores free for the rest of the process
// once the host has at least MinCores of them.
type Reservation struct {
	MinCores int `mapstructure:"min_cores" yaml:"min_cores"`
	Reserved int `mapstructure:"reserved" yaml:"reserved"`
}

// ReservationTable is ordered by ascending MinCores.
type ReservationTable []Reservation

// DefaultReservations reserves more cores as hardware parallelism grows.
var DefaultReservations = ReservationTable{
	{MinCores: 1, Reserved: 0},
	{MinCores: 4, Reserved: 1},
	{MinCores: 8, Reserved: 2},
	{MinCores: 16, Reserved: 4},
	{MinCores: 32, Reserved: 8},
}

func (t ReservationTable) Validate() error {
	prev := 0
	for i, r := range t {
		if r.MinCores <= prev {
			return errors.Newf("reservation %d: min_cores %d must be greater than %d", i, r.MinCores, prev)
		}
		if r.Reserved < 0 || r.Reserved >= r.MinCores {
			return errors.Newf("reservation %d: reserved %d must be in [0, %d)", i, r.Reserved, r.MinCores)
		}
		prev = r.MinCores
	}
	return nil
}

// ThreadCount returns the number of workers to start on a host with the
// given number of logical cores. It never returns less than one.
func ThreadCount(cores int, table ReservationTable) int {
	reserved := 0
	for _, r := range table {
		if r.MinCores > cores {
			break
		}
		reserved = r.Reserved
	}
	return max(1, cores-reserved)
}

// LogicalCores returns the logical core count of the host.
func LogicalCores() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}
