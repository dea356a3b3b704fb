// Command deferred-demo walks through five of the concrete §8
// scenarios and a small throughput benchmark against the deferred list.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "deferred-demo",
		Short:         "Walkthroughs and benchmarks for the deferred list",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newScenariosCmd())
	root.AddCommand(newBenchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
