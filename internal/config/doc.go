// Package config defines the configuration structure for jobbench.
//
// Configuration is organized into two sections (Jobs, Bench) plus the logging
// settings. Defaults come from `default` struct tags applied with
// creasty/defaults; viper layers a config file, JOBBENCH_* environment
// variables and command line flags on top.
//
// # Configuration Structure
//
//	Configuration
//	├── Jobs           - Job system settings
//	├── Bench          - Workload selection and sizing
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Jobs Configuration
//
//	┌──────────────────┬──────────┬─────────────────────────────────────────────┐
//	│ Field            │ Default  │ Description                                 │
//	├──────────────────┼──────────┼─────────────────────────────────────────────┤
//	│ Threads          │ 0        │ Worker count, 0 derives it from the cores   │
//	│ Reservations     │ built-in │ Cores kept free per core count              │
//	│ PollMinInterval  │ 50us     │ First sleep between barrier polls           │
//	│ PollMaxInterval  │ 1ms      │ Upper bound of the barrier poll sleep       │
//	│ SemaphoreDepth   │ 1        │ Pending wake-ups a sleeping worker keeps    │
//	│ Jitter           │ false    │ Inject random pauses at scheduling points   │
//	│ JitterMaxSpins   │ 200      │ Upper bound of a jitter spin                │
//	│ JitterMaxSleep   │ 20us     │ Upper bound of a jitter sleep               │
//	└──────────────────┴──────────┴─────────────────────────────────────────────┘
//
// The built-in reservation table:
//
//	┌───────────┬──────────┐
//	│ MinCores  │ Reserved │
//	├───────────┼──────────┤
//	│ 1         │ 0        │
//	│ 4         │ 1        │
//	│ 8         │ 2        │
//	│ 16        │ 4        │
//	│ 32        │ 8        │
//	└───────────┴──────────┘
//
// # Bench Configuration
//
//	┌──────────────┬──────────┬────────────────────────────────────────────┐
//	│ Field        │ Default  │ Description                                │
//	├──────────────┼──────────┼────────────────────────────────────────────┤
//	│ Workload     │ "fanout" │ fanout, chain, multichain or pair          │
//	│ Rounds       │ 1        │ Barriers to run                            │
//	│ Jobs         │ 5000     │ Fan-out job count                          │
//	│ ArraySize    │ 500      │ Integers sorted by each fan-out job        │
//	│ ChainLength  │ 100      │ Jobs per chain                             │
//	│ Chains       │ 50       │ Chains of the multichain workload          │
//	│ Seed         │ 1        │ Random seed for generated input            │
//	└──────────────┴──────────┴────────────────────────────────────────────┘
//
// # Config File
//
//	log_level: debug
//	jobs:
//	  threads: 0
//	  reservations:
//	    - {min_cores: 1, reserved: 0}
//	    - {min_cores: 8, reserved: 2}
//	bench:
//	  workload: multichain
//	  chains: 50
//
// # Usage Example
//
//	v := viper.New()
//	v.SetConfigFile("jobbench.yaml")
//	if err := v.ReadInConfig(); err != nil {
//	    return err
//	}
//	cfg, err := config.Load(v)
//	if err != nil {
//	    return err
//	}
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
//	s := jobs.Init(cfg.Jobs.Threads, cfg.Jobs.Options(zap.S())...)
package config
