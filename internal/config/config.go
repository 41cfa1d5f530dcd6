package config

import (
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/jobsystem/pkg/errors"
	"github.com/kubev2v/jobsystem/pkg/jobs"
)

var (
	logFormats = []string{"console", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
	workloads  = []string{"fanout", "chain", "multichain", "pair"}
)

type Configuration struct {
	Jobs      Jobs   `mapstructure:"jobs" yaml:"jobs"`
	Bench     Bench  `mapstructure:"bench" yaml:"bench"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" default:"console"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" default:"info"`
}

type Jobs struct {
	Threads         int                   `mapstructure:"threads" yaml:"threads" default:"0"`
	Reservations    jobs.ReservationTable `mapstructure:"reservations" yaml:"reservations"`
	PollMinInterval time.Duration         `mapstructure:"poll_min_interval" yaml:"poll_min_interval" default:"50us"`
	PollMaxInterval time.Duration         `mapstructure:"poll_max_interval" yaml:"poll_max_interval" default:"1ms"`
	SemaphoreDepth  int                   `mapstructure:"semaphore_depth" yaml:"semaphore_depth" default:"1"`
	Jitter          bool                  `mapstructure:"jitter" yaml:"jitter" default:"false"`
	JitterMaxSpins  int                   `mapstructure:"jitter_max_spins" yaml:"jitter_max_spins" default:"200"`
	JitterMaxSleep  time.Duration         `mapstructure:"jitter_max_sleep" yaml:"jitter_max_sleep" default:"20us"`
}

type Bench struct {
	Workload    string `mapstructure:"workload" yaml:"workload" default:"fanout"`
	Rounds      int    `mapstructure:"rounds" yaml:"rounds" default:"1"`
	Jobs        int    `mapstructure:"jobs" yaml:"jobs" default:"5000"`
	ArraySize   int    `mapstructure:"array_size" yaml:"array_size" default:"500"`
	ChainLength int    `mapstructure:"chain_length" yaml:"chain_length" default:"100"`
	Chains      int    `mapstructure:"chains" yaml:"chains" default:"50"`
	Seed        uint64 `mapstructure:"seed" yaml:"seed" default:"1"`
}

// NewConfiguration returns a configuration filled with defaults.
func NewConfiguration() (*Configuration, error) {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "failed to set configuration defaults")
	}
	c.Jobs.Reservations = slices.Clone(jobs.DefaultReservations)
	return c, nil
}

// Load reads the configuration from v on top of the defaults and validates
// it.
func Load(v *viper.Viper) (*Configuration, error) {
	c, err := NewConfiguration()
	if err != nil {
		return nil, err
	}
	if v.IsSet("jobs.reservations") {
		// a configured table replaces the built-in one instead of merging with it
		c.Jobs.Reservations = nil
	}
	if err := v.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Validate() error {
	if !slices.Contains(logFormats, c.LogFormat) {
		return srvErrors.NewInvalidConfigurationError("log_format", "must be one of console, json")
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return srvErrors.NewInvalidConfigurationError("log_level", "must be one of debug, info, warn, error")
	}
	if err := c.Jobs.Validate(); err != nil {
		return err
	}
	return c.Bench.Validate()
}

func (j Jobs) Validate() error {
	switch {
	case j.Threads < 0:
		return srvErrors.NewInvalidConfigurationError("jobs.threads", "must not be negative")
	case j.PollMinInterval <= 0:
		return srvErrors.NewInvalidConfigurationError("jobs.poll_min_interval", "must be positive")
	case j.PollMaxInterval < j.PollMinInterval:
		return srvErrors.NewInvalidConfigurationError("jobs.poll_max_interval", "must not be lower than poll_min_interval")
	case j.SemaphoreDepth < 1:
		return srvErrors.NewInvalidConfigurationError("jobs.semaphore_depth", "must be at least 1")
	case j.JitterMaxSpins < 0 || j.JitterMaxSleep < 0:
		return srvErrors.NewInvalidConfigurationError("jobs.jitter", "bounds must not be negative")
	}
	if err := j.Reservations.Validate(); err != nil {
		return srvErrors.NewInvalidConfigurationError("jobs.reservations", err.Error())
	}
	return nil
}

func (b Bench) Validate() error {
	switch {
	case !slices.Contains(workloads, b.Workload):
		return srvErrors.NewUnknownWorkloadError(b.Workload)
	case b.Rounds < 1:
		return srvErrors.NewInvalidConfigurationError("bench.rounds", "must be at least 1")
	case b.Jobs < 1 || b.ArraySize < 1:
		return srvErrors.NewInvalidConfigurationError("bench.jobs", "jobs and array_size must be at least 1")
	case b.ChainLength < 1 || b.Chains < 1:
		return srvErrors.NewInvalidConfigurationError("bench.chains", "chains and chain_length must be at least 1")
	}
	return nil
}

// Options translates the section into job system options.
func (j Jobs) Options(log *zap.SugaredLogger) []jobs.Option {
	opts := []jobs.Option{
		jobs.WithLogger(log),
		jobs.WithReservations(j.Reservations),
		jobs.WithPollInterval(j.PollMinInterval, j.PollMaxInterval),
		jobs.WithSemaphoreDepth(j.SemaphoreDepth),
	}
	if j.Jitter {
		opts = append(opts, jobs.WithJitter(jobs.RandomJitter{
			MaxSpins: j.JitterMaxSpins,
			MaxSleep: j.JitterMaxSleep,
		}))
	}
	return opts
}

// DebugMap returns the configuration as a flat map for logging.
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"jobs.threads":           c.Jobs.Threads,
		"jobs.reservations":      c.Jobs.Reservations,
		"jobs.poll_min_interval": c.Jobs.PollMinInterval.String(),
		"jobs.poll_max_interval": c.Jobs.PollMaxInterval.String(),
		"jobs.semaphore_depth":   c.Jobs.SemaphoreDepth,
		"jobs.jitter":            c.Jobs.Jitter,
		"bench.workload":         c.Bench.Workload,
		"bench.rounds":           c.Bench.Rounds,
		"bench.jobs":             c.Bench.Jobs,
		"bench.array_size":       c.Bench.ArraySize,
		"bench.chain_length":     c.Bench.ChainLength,
		"bench.chains":           c.Bench.Chains,
		"bench.seed":             c.Bench.Seed,
		"log_format":             c.LogFormat,
		"log_level":              c.LogLevel,
	}
}
