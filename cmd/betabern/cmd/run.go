package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tomschang/betabern/bernoulli"
	"github.com/tomschang/betabern/experiment"
)

var runFlags struct {
	bias          float64
	trials        int64
	seed          int64
	snapshotEvery uint64
	output        string
	monitor       bool
	monitorPort   int
	openBrowser   bool
	verbose       bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Flip a biased coin and track the Beta posterior",
	RunE: func(cmd *cobra.Command, args []string) error {
		builder := experiment.MakeBuilder().
			WithBias(runFlags.bias).
			WithTrials(runFlags.trials).
			WithSnapshotEvery(runFlags.snapshotEvery)

		if cmd.Flags().Changed("seed") {
			builder = builder.WithSeed(runFlags.seed)
		}

		if runFlags.output != "" {
			builder = builder.WithOutputFileName(runFlags.output)
		}

		if runFlags.monitor {
			if runFlags.monitorPort > 0 {
				builder = builder.WithMonitorPort(runFlags.monitorPort)
			}
			if runFlags.openBrowser {
				builder = builder.WithBrowserOpen()
			}
		} else {
			builder = builder.WithoutMonitoring()
		}

		if runFlags.verbose {
			builder = builder.WithTrialLogging()
		}

		e, err := builder.Build()
		if err != nil {
			return err
		}
		defer e.Terminate()

		posterior, err := e.Run()
		if err != nil {
			return err
		}

		printPosterior(cmd, posterior)

		return nil
	},
}

func printPosterior(cmd *cobra.Command, p bernoulli.Posterior) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "posterior:      %s\n", p)
	fmt.Fprintf(out, "mean:           %.6f\n", p.Mean())
	fmt.Fprintf(out, "approx median:  %.6f\n", p.ApproxMedian())

	mode, err := p.MAP()
	if errors.Is(err, bernoulli.ErrModeUndefined) {
		fmt.Fprintf(out, "MAP:            undefined\n")
	} else {
		fmt.Fprintf(out, "MAP:            %.6f\n", mode)
	}

	lo, hi := p.CredibleInterval(0.95)
	fmt.Fprintf(out, "95%% credible:   [%.6f, %.6f]\n", lo, hi)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Float64Var(&runFlags.bias, "bias", 0.5,
		"hidden bias of the coin, in [0, 1]")
	runCmd.Flags().Int64Var(&runFlags.trials, "trials", 1000,
		"number of coin flips to perform")
	runCmd.Flags().Int64Var(&runFlags.seed, "seed", 0,
		"seed of the randomness source; seeded from the clock when unset")
	runCmd.Flags().Uint64Var(&runFlags.snapshotEvery, "snapshot-every", 1,
		"record only every k-th posterior snapshot")
	runCmd.Flags().StringVar(&runFlags.output, "output", "",
		"output database file name, without the .sqlite3 suffix")
	runCmd.Flags().BoolVar(&runFlags.monitor, "monitor", false,
		"serve a live monitoring dashboard while the run executes")
	runCmd.Flags().IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"port number of the monitoring server")
	runCmd.Flags().BoolVar(&runFlags.openBrowser, "open-browser", false,
		"open the monitoring dashboard in the default browser")
	runCmd.Flags().BoolVarP(&runFlags.verbose, "verbose", "v", false,
		"log every posterior snapshot to stderr")
}
