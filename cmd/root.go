package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "crewsched",
	Short: "Maintenance crew scheduling service",
	Long: `crewsched assigns a backlog of maintenance work orders to crew-day
slots, minimizing lateness penalties and balancing workload across trades.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
