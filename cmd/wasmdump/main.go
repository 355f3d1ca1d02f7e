package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-decode/trace"
)

var version = "<unknown>"

func configureCLI() *cobra.Command {
	var verbose bool

	rootCommand := &cobra.Command{
		Use:           "wasmdump",
		Short:         "wasmdump WebAssembly module inspector",
		Long:          "wasmdump - inspect WebAssembly binaries without executing them",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				trace.SetLogger(log)
			}
			return nil
		},
	}

	rootCommand.AddCommand(dumpCommand())
	rootCommand.AddCommand(inspectCommand())

	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every decode event to stderr")

	return rootCommand
}

func main() {
	rootCommand := configureCLI()

	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
