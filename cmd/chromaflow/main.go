// Command chromaflow configures chromatography process models, submits them
// to an external simulation engine, and renders elution curves. Model
// definition is plain configuration; nothing is simulated or plotted unless
// a run or sweep command asks for it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "chromaflow",
		Short: "Chromatography process modeling and Peclet sweeps",
		Long: `chromaflow assembles chromatography process models (component system,
binding model, unit operations, flow sheet, events), validates them, and
drives an external simulation engine over them.

The engine owns all transport physics; chromaflow owns configuration,
orchestration, and post-processing.`,
	}

	rootCmd.PersistentFlags().String("config", "", "Process configuration file (YAML); empty uses the built-in pulse benchmark")
	rootCmd.PersistentFlags().String("engine-url", "http://localhost:8841", "Base URL of the simulation engine service")
	rootCmd.PersistentFlags().String("metrics-addr", "", "Address to serve Prometheus metrics on (empty disables)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newValidateCmd(),
		newRunCmd(),
		newSweepCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chromaflow version %s\n", version)
		},
	}
}
