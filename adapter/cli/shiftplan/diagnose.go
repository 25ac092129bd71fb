package shiftplan

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/queries"
	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <date>",
	Short: "Check necessary feasibility conditions without solving",
	Long: `Diagnose runs the independent, non-optimizing feasibility check for
a day: per-slot availability, key-person coverage, and newbie cap headroom.
It does not invoke the optimizer.

Examples:
  orbita shiftplan diagnose 2026-03-05`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ShiftPlan == nil || app.ShiftPlan.DiagnoseDay == nil {
			fmt.Println("Shift plan commands require database connection.")
			return nil
		}

		date, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date (use YYYY-MM-DD): %w", err)
		}

		entries, err := app.ShiftPlan.DiagnoseDay.Handle(cmd.Context(), queries.DiagnoseDayQuery{Date: date})
		if err != nil {
			return fmt.Errorf("failed to diagnose day: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No necessary-condition violations found.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("slot %s: %s (required=%d available=%d cap=%d)\n",
				e.SlotLabel, e.Cause, e.Required, e.Available, e.Cap)
		}
		return nil
	},
}
