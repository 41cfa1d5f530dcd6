package jobs

import (
	"time"

	"go.uber.org/zap"
)

type options struct {
	log             *zap.SugaredLogger
	reservations    ReservationTable
	cores           func() int
	jitter          Jitter
	pollMinInterval time.Duration
	pollMaxInterval time.Duration
	semaphoreDepth  int
}

func defaultOptions() options {
	return options{
		reservations:    DefaultReservations,
		cores:           LogicalCores,
		jitter:          noJitter{},
		pollMinInterval: 50 * time.Microsecond,
		pollMaxInterval: time.Millisecond,
		semaphoreDepth:  1,
	}
}

type Option func(*options)

// WithLogger sets the logger used for lifecycle events. Defaults to the
// global zap logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.log = l }
}

// WithReservations replaces the table used to derive the worker count when
// Init is called with zero threads.
func WithReservations(t ReservationTable) Option {
	return func(o *options) {
		if len(t) > 0 {
			o.reservations = t
		}
	}
}

// WithCoreCount replaces the logical core query.
func WithCoreCount(f func() int) Option {
	return func(o *options) {
		if f != nil {
			o.cores = f
		}
	}
}

func WithJitter(j Jitter) Option {
	return func(o *options) {
		if j != nil {
			o.jitter = j
		}
	}
}

// WithPollInterval bounds the sleep between two polls of the worker flags
// in SyncAllJobs. The sleep starts at lo and doubles up to hi.
func WithPollInterval(lo, hi time.Duration) Option {
	return func(o *options) {
		if lo > 0 {
			o.pollMinInterval = lo
		}
		if hi >= o.pollMinInterval {
			o.pollMaxInterval = hi
		}
	}
}

// WithSemaphoreDepth sets how many pending wake-ups a sleeping worker can
// accumulate.
func WithSemaphoreDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.semaphoreDepth = n
		}
	}
}
