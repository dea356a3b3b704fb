// Command deferred-harness drives the randomized integrity harness of
// §8 against the deferred list: a seed-reproducible sequence of
// Insert/Set/Remove edits at random valid indices, checked against a
// naive reference: lengths after every edit, contents after every
// commit.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arborly/deferred/internal/harness"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var (
		seed        int64
		iterations  int
		commitEvery int
		initialLen  int
	)

	root := &cobra.Command{
		Use:           "deferred-harness",
		Short:         "Randomized integrity check for the deferred list against a naive reference",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			initial := make([]int, initialLen)
			for i := range initial {
				initial[i] = i
			}

			logger.Info("starting harness run",
				slog.Int64("seed", seed),
				slog.String("iterations", humanize.Comma(int64(iterations))),
				slog.Int("commit_every", commitEvery),
				slog.Int("initial_len", initialLen),
			)

			start := time.Now()
			report, err := harness.Run(harness.Config{
				Seed:        seed,
				Iterations:  iterations,
				CommitEvery: commitEvery,
				Initial:     initial,
			})
			elapsed := time.Since(start)

			if err != nil {
				color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "FAIL")
				logger.Error("harness found a mismatch", slog.String("error", err.Error()), slog.Duration("elapsed", elapsed))
				return err
			}

			color.New(color.FgGreen, color.Bold).Fprintln(os.Stdout, "PASS")
			logger.Info("harness run completed",
				slog.String("iterations", humanize.Comma(int64(report.Iterations))),
				slog.Int("commits", report.Commits),
				slog.Int("final_len", report.FinalLen),
				slog.Duration("elapsed", elapsed),
			)
			fmt.Printf("%s iterations, %d commits, final length %s, elapsed %s\n",
				humanize.Comma(int64(report.Iterations)), report.Commits, humanize.Comma(int64(report.FinalLen)), elapsed)
			return nil
		},
	}

	root.Flags().Int64Var(&seed, "seed", 1, "PRNG seed (reproducible across runs)")
	root.Flags().IntVar(&iterations, "iterations", 100_000, "number of randomized edits to apply")
	root.Flags().IntVar(&commitEvery, "commit-every", 997, "commit the list under test every N iterations (0 disables periodic commits)")
	root.Flags().IntVar(&initialLen, "initial-len", 1000, "length of the initial 0..n-1 array both sides start from")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
