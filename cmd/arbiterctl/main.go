// Command arbiterctl runs the arbiter against the toy world and inspects
// configuration.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "arbiterctl",
		Short:         "Drive and inspect the tick arbiter",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("config", "", "path to a TOML config file")
	root.AddCommand(newSimulateCmd(), newConfigCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
