package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tomschang/betabern/datarecording"
	"github.com/tomschang/betabern/experiment"
)

var replayFlags struct {
	db     string
	limit  int
	offset int
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Print the convergence trace of a recorded run",
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := datarecording.NewReader(replayFlags.db)
		defer reader.Close()

		reader.MapTable("runs", experiment.RunSummary{})
		reader.MapTable("trials", experiment.TrialSample{})

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		runs, _, err := reader.Query(
			ctx, "runs", datarecording.QueryParams{})
		if err != nil {
			return err
		}

		for _, r := range runs {
			s := r.(*experiment.RunSummary)
			fmt.Fprintf(out,
				"run %s: bias %v, %d trials, seed %d, "+
					"final Beta(%v, %v), mean %.6f\n",
				s.RunID, s.Bias, s.Trials, s.Seed, s.Alpha, s.Beta, s.Mean)
		}

		samples, total, err := reader.Query(
			ctx, "trials", datarecording.QueryParams{
				OrderBy: "Step ASC",
				Limit:   replayFlags.limit,
				Offset:  replayFlags.offset,
			})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "Step\tFlip\tAlpha\tBeta\tMean\t")

		for _, row := range samples {
			s := row.(*experiment.TrialSample)

			outcome := "T"
			if s.Head {
				outcome = "H"
			}

			fmt.Fprintf(w, "%d\t%s\t%v\t%v\t%.6f\t\n",
				s.Step, outcome, s.Alpha, s.Beta, s.Mean)
		}

		err = w.Flush()
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%d of %d snapshots shown\n", len(samples), total)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVar(&replayFlags.db, "db", "",
		"SQLite file of a recorded run")
	replayCmd.Flags().IntVar(&replayFlags.limit, "limit", 20,
		"maximum number of snapshots to print")
	replayCmd.Flags().IntVar(&replayFlags.offset, "offset", 0,
		"number of snapshots to skip")

	_ = replayCmd.MarkFlagRequired("db")
}
