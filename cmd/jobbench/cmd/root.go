package cmd

import (
	"maps"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-extras/cobraflags"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kubev2v/jobsystem/internal/config"
	"github.com/kubev2v/jobsystem/internal/logger"
)

const envPrefix = "JOBBENCH"

// pflagKeys maps the flags cobraflags has no value type for to
// configuration keys. Every other flag carries its key as ViperKey.
var pflagKeys = map[string]string{
	"poll-min-interval": "jobs.poll_min_interval",
	"poll-max-interval": "jobs.poll_max_interval",
	"jitter-max-sleep":  "jobs.jitter_max_sleep",
	"seed":              "bench.seed",
}

type options struct {
	configFile string
	v          *viper.Viper
	cfg        *config.Configuration
	flags      []cobraflags.Flag
}

func NewRootCommand() *cobra.Command {
	opts := &options{v: viper.New()}
	defaults, err := config.NewConfiguration()
	if err != nil {
		panic(err)
	}

	root := &cobra.Command{
		Use:           "jobbench",
		Short:         "Run burst workloads against the job system",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			opts.load,
		),
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "path to a configuration file (yaml, toml or json)")
	flags.Duration("poll-min-interval", defaults.Jobs.PollMinInterval, "first sleep between barrier polls")
	flags.Duration("poll-max-interval", defaults.Jobs.PollMaxInterval, "upper bound of the barrier poll sleep")
	flags.Duration("jitter-max-sleep", defaults.Jobs.JitterMaxSleep, "upper bound of a jitter sleep")
	opts.register(root,
		&cobraflags.StringFlag{
			Name:       "log-format",
			ViperKey:   "log_format",
			Usage:      "log format: console or json",
			Value:      defaults.LogFormat,
			Persistent: true,
		},
		&cobraflags.StringFlag{
			Name:       "log-level",
			ViperKey:   "log_level",
			Usage:      "log level: debug, info, warn or error",
			Value:      defaults.LogLevel,
			Persistent: true,
		},
		&cobraflags.IntFlag{
			Name:       "threads",
			ViperKey:   "jobs.threads",
			Usage:      "worker count, 0 derives it from the logical cores",
			Value:      defaults.Jobs.Threads,
			Persistent: true,
		},
		&cobraflags.IntFlag{
			Name:       "semaphore-depth",
			ViperKey:   "jobs.semaphore_depth",
			Usage:      "pending wake-ups a sleeping worker keeps",
			Value:      defaults.Jobs.SemaphoreDepth,
			Persistent: true,
		},
		&cobraflags.BoolFlag{
			Name:       "jitter",
			ViperKey:   "jobs.jitter",
			Usage:      "inject random pauses at scheduling points",
			Value:      defaults.Jobs.Jitter,
			Persistent: true,
		},
		&cobraflags.IntFlag{
			Name:       "jitter-max-spins",
			ViperKey:   "jobs.jitter_max_spins",
			Usage:      "upper bound of a jitter spin",
			Value:      defaults.Jobs.JitterMaxSpins,
			Persistent: true,
		},
	)

	root.AddCommand(
		newRunCommand(opts, defaults),
		newConfigCommand(opts),
		newThreadsCommand(opts),
	)
	cobraflags.CobraOnInitialize(envPrefix, root)
	return root
}

func (o *options) load(cmd *cobra.Command, args []string) error {
	if err := o.bindFlags(cmd.Flags()); err != nil {
		return err
	}

	o.v.SetEnvPrefix(envPrefix)
	o.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	o.v.AutomaticEnv()

	if o.configFile != "" {
		o.v.SetConfigFile(o.configFile)
		if err := o.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read configuration file %s", o.configFile)
		}
	}

	cfg, err := config.Load(o.v)
	if err != nil {
		return err
	}
	o.cfg = cfg

	l, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)
	zap.S().Debugw("configuration loaded", "config", cfg.DebugMap())
	return nil
}

func (o *options) register(cmd *cobra.Command, flags ...cobraflags.Flag) {
	cobraflags.Register(cmd, flags...)
	o.flags = append(o.flags, flags...)
}

// bindFlags binds every flag the command knows to its configuration key.
// Viper only lets a flag win over the file and the environment once it is
// set on the command line.
func (o *options) bindFlags(flags *pflag.FlagSet) error {
	keys := maps.Clone(pflagKeys)
	for _, f := range o.flags {
		name, key := flagKey(f)
		keys[name] = key
	}
	for name, key := range keys {
		f := flags.Lookup(name)
		if f == nil {
			// registered on a sibling subcommand
			continue
		}
		if err := o.v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", name)
		}
	}
	return nil
}

func flagKey(f cobraflags.Flag) (name, key string) {
	switch f := f.(type) {
	case *cobraflags.IntFlag:
		return f.Name, f.ViperKey
	case *cobraflags.BoolFlag:
		return f.Name, f.ViperKey
	case *cobraflags.StringFlag:
		return f.Name, f.ViperKey
	}
	panic(errors.AssertionFailedf("unsupported flag type %T", f))
}
