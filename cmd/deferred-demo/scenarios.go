package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/arborly/deferred"
)

type scenario struct {
	name    string
	initial []any
	run     func(l *deferred.List[any])
	want    []any
}

var scenarios = []scenario{
	{
		name:    "interleaved leading inserts",
		initial: []any{},
		run: func(l *deferred.List[any]) {
			must(l.Insert(0, "a"))
			must(l.Insert(1, "b"))
			must(l.Insert(0, "c"))
		},
		want: []any{"c", "a", "b"},
	},
	{
		name:    "adjacent removes collapse into one node",
		initial: []any{10, 20, 30, 40, 50},
		run: func(l *deferred.List[any]) {
			must(l.Remove(1))
			must(l.Remove(1))
		},
		want: []any{10, 40, 50},
	},
	{
		name:    "insert then remove at the same key is a no-op",
		initial: []any{10, 20, 30},
		run: func(l *deferred.List[any]) {
			must(l.Insert(1, "x"))
			must(l.Remove(1))
		},
		want: []any{10, 20, 30},
	},
	{
		name:    "set, set, remove collapses to a lone remove",
		initial: []any{10, 20, 30},
		run: func(l *deferred.List[any]) {
			must(l.Set(1, "y"))
			must(l.Set(1, "z"))
			must(l.Remove(1))
		},
		want: []any{10, 30},
	},
	{
		name:    "remove then insert at the emerging index becomes a set",
		initial: []any{10, 20, 30},
		run: func(l *deferred.List[any]) {
			must(l.Remove(1))
			must(l.Insert(1, "q"))
		},
		want: []any{10, "q", 30},
	},
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func newScenariosCmd() *cobra.Command {
	var dotPath string

	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Walk through the deferred list's worked scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			header := color.New(color.FgCyan, color.Bold)
			ok := color.New(color.FgGreen, color.Bold)
			fail := color.New(color.FgRed, color.Bold)

			for i, sc := range scenarios {
				header.Printf("\nScenario %d: %s\n", i+1, sc.name)

				l := deferred.FromSlice(sc.initial)
				l.SetAutoCommitMultiplier(0)
				sc.run(l)

				if dotPath != "" && i == 0 {
					f, err := os.Create(dotPath)
					if err != nil {
						return err
					}
					l.WriteDot(f)
					f.Close()
					fmt.Printf("wrote pending-edit tree to %s\n", dotPath)
				}

				pending := l.PendingNodes()
				got := l.Slice()
				renderBeforeAfter(sc.initial, got)

				if equalAny(got, sc.want) {
					ok.Printf("PASS (%d pending node(s) resolved on commit)\n", pending)
				} else {
					fail.Printf("FAIL: want %v, got %v\n", sc.want, got)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dotPath, "dot", "", "write the first scenario's pending-edit tree to this .dot file before it commits")
	return cmd
}

func renderBeforeAfter(before, after []any) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"stage", "array"})
	t.AppendRow(table.Row{"before", fmt.Sprint(before)})
	t.AppendRow(table.Row{"after", fmt.Sprint(after)})
	t.Render()
}

func equalAny(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if fmt.Sprint(a[i]) != fmt.Sprint(b[i]) {
			return false
		}
	}
	return true
}
