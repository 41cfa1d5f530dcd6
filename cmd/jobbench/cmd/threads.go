package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kubev2v/jobsystem/pkg/jobs"
)

func newThreadsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "threads",
		Short: "Show how many workers the job system starts on this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cores := jobs.LogicalCores()
			table := opts.cfg.Jobs.Reservations

			fmt.Fprintf(out, "logical cores: %d\n", cores)
			for _, r := range table {
				line := fmt.Sprintf("  >= %-4d cores: reserve %d\n", r.MinCores, r.Reserved)
				if r.MinCores <= cores {
					color.New(color.FgCyan).Fprint(out, line)
				} else {
					fmt.Fprint(out, line)
				}
			}

			threads := opts.cfg.Jobs.Threads
			if threads == 0 {
				threads = jobs.ThreadCount(cores, table)
			}
			color.New(color.Bold).Fprintf(out, "workers: %d\n", threads)
			return nil
		},
	}
}
