package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maintops/crewsched/config"
	"github.com/maintops/crewsched/infra/store"
)

var shiftsCmd = &cobra.Command{
	Use:   "shifts",
	Short: "Manage the shift table",
}

var shiftsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List configured shifts",
	RunE:  runShiftsLs,
}

var shiftsFile string

var shiftsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add shift definitions from a JSON or YAML file",
	RunE:  runShiftsAdd,
}

var shiftsRmCmd = &cobra.Command{
	Use:   "rm <trade>",
	Short: "Remove the shift definition of a trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runShiftsRm,
}

func init() {
	shiftsAddCmd.Flags().StringVarP(&shiftsFile, "file", "f", "", "shift definitions file (required)")
	_ = shiftsAddCmd.MarkFlagRequired("file")
	shiftsCmd.AddCommand(shiftsLsCmd, shiftsAddCmd, shiftsRmCmd)
	rootCmd.AddCommand(shiftsCmd)
}

func openStore() (*store.ShiftStore, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return store.NewShiftStore(cfg.Shifts.Path), nil
}

func runShiftsLs(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	shifts, err := st.Load()
	if err != nil {
		return err
	}
	for _, s := range shifts {
		days := make([]string, 0, 7)
		for _, d := range s.ActiveWeekdays() {
			days = append(days, d.String()[:3])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.1fh x %d\t%s\n",
			s.Trade, s.ShiftDurationHours, s.TechniciansPerCrew, strings.Join(days, ","))
	}
	return nil
}

func runShiftsAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	f, err := os.Open(shiftsFile)
	if err != nil {
		return err
	}
	defer f.Close()
	format := strings.TrimPrefix(filepath.Ext(shiftsFile), ".")
	shifts, err := store.DecodeShifts(f, format)
	if err != nil {
		return fmt.Errorf("decode shifts: %w", err)
	}
	for _, s := range shifts {
		if err := st.Add(s); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %d shift(s)\n", len(shifts))
	return nil
}

func runShiftsRm(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if err := st.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed shift for trade %s\n", args[0])
	return nil
}
