package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/jobsystem/internal/config"
	"github.com/kubev2v/jobsystem/internal/workload"
	"github.com/kubev2v/jobsystem/pkg/jobs"
)

func newRunCommand(opts *options, defaults *config.Configuration) *cobra.Command {
	c := &cobra.Command{
		Use:       "run [fanout|chain|multichain|pair]",
		Short:     "Run a workload and verify its results after every barrier",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"fanout", "chain", "multichain", "pair"},
		RunE: func(cmd *cobra.Command, args []string) error {
			bench := opts.cfg.Bench
			if len(args) == 1 {
				bench.Workload = args[0]
			}
			if err := bench.Validate(); err != nil {
				return err
			}
			return runWorkload(cmd.OutOrStdout(), opts.cfg.Jobs, bench)
		},
	}

	opts.register(c,
		&cobraflags.IntFlag{Name: "rounds", ViperKey: "bench.rounds", Usage: "barriers to run", Value: defaults.Bench.Rounds},
		&cobraflags.IntFlag{Name: "jobs", ViperKey: "bench.jobs", Usage: "fan-out job count", Value: defaults.Bench.Jobs},
		&cobraflags.IntFlag{Name: "array-size", ViperKey: "bench.array_size", Usage: "integers sorted by each fan-out job", Value: defaults.Bench.ArraySize},
		&cobraflags.IntFlag{Name: "chain-length", ViperKey: "bench.chain_length", Usage: "jobs per chain", Value: defaults.Bench.ChainLength},
		&cobraflags.IntFlag{Name: "chains", ViperKey: "bench.chains", Usage: "chains of the multichain workload", Value: defaults.Bench.Chains},
	)
	c.Flags().Uint64("seed", defaults.Bench.Seed, "random seed for generated input")
	return c
}

func runWorkload(out io.Writer, cfg config.Jobs, bench config.Bench) error {
	w, err := workload.New(bench)
	if err != nil {
		return err
	}

	s := jobs.Init(cfg.Threads, cfg.Options(zap.S())...)
	defer s.Shutdown()

	zap.S().Infow("running workload", "workload", w.Name(), "workers", s.NumWorkers(), "rounds", bench.Rounds)

	res, err := workload.Run(s, w, bench.Rounds)
	printResult(out, res)
	if err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(out, "FAIL")
		return err
	}
	color.New(color.FgGreen, color.Bold).Fprintln(out, "PASS")
	return nil
}

func printResult(out io.Writer, res workload.Result) {
	header := color.New(color.Bold)
	header.Fprintf(out, "%s on %d workers\n", res.Workload, res.Workers)
	for i, r := range res.Rounds {
		fmt.Fprintf(out, "  round %-3d jobs=%-6d requeues=%-6d wakes=%-6d %v\n",
			i, r.Jobs, r.Stats.Requeues, r.Stats.Wakes, r.Duration)
	}
	if len(res.Rounds) > 0 {
		fmt.Fprintf(out, "  total %v\n", res.Total())
	}
}
