package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arborly/deferred"
)

func newBenchCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark leading inserts, a commit, and sequential reads",
		RunE: func(cmd *cobra.Command, args []string) error {
			color.New(color.FgCyan, color.Bold).Printf("\nBenchmarking with n=%s\n", humanize.Comma(int64(n)))

			initial := make([]int, n)
			for i := range initial {
				initial[i] = i
			}
			l := deferred.FromSlice(initial)
			l.SetAutoCommitMultiplier(0)

			insertStart := time.Now()
			for i := 0; i < n; i++ {
				if err := l.Insert(i, i); err != nil {
					return err
				}
			}
			insertElapsed := time.Since(insertStart)

			commitStart := time.Now()
			l.Commit()
			commitElapsed := time.Since(commitStart)

			rng := rand.New(rand.NewSource(1))
			readStart := time.Now()
			for i := 0; i < n; i++ {
				if _, err := l.Get(rng.Intn(l.Len())); err != nil {
					return err
				}
			}
			readElapsed := time.Since(readStart)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"phase", "count", "elapsed", "per-op"})
			t.AppendRow(table.Row{"insert", humanize.Comma(int64(n)), insertElapsed, perOp(insertElapsed, n)})
			t.AppendRow(table.Row{"commit", "1", commitElapsed, commitElapsed})
			t.AppendRow(table.Row{"read", humanize.Comma(int64(n)), readElapsed, perOp(readElapsed, n)})
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 50_000, "number of elements to insert, commit, then read")
	return cmd
}

func perOp(d time.Duration, n int) time.Duration {
	if n == 0 {
		return 0
	}
	return d / time.Duration(n)
}
