package shiftplan

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/commands"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
	"github.com/spf13/cobra"
)

var solveCmd = &cobra.Command{
	Use:   "solve <date>",
	Short: "Solve the shift schedule for an operating day",
	Long: `Solve builds the day's staff/availability/demand instance and runs
the CP-SAT optimizer against it.

Examples:
  orbita shiftplan solve 2026-03-05`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ShiftPlan == nil || app.ShiftPlan.SolveDay == nil {
			fmt.Println("Shift plan commands require database connection.")
			fmt.Println("Start services with: docker-compose up -d")
			return nil
		}

		date, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date (use YYYY-MM-DD): %w", err)
		}

		result, err := app.ShiftPlan.SolveDay.Handle(cmd.Context(), commands.SolveDayCommand{Date: date})
		if err != nil {
			return fmt.Errorf("failed to solve day: %w", err)
		}

		fmt.Printf("Status: %s\n", result.Outcome.Status)
		switch result.Outcome.Status {
		case domain.StatusInfeasible:
			fmt.Println("Reason: no feasible assignment satisfies all constraints")
			for _, d := range result.Outcome.Diagnosis {
				fmt.Printf("  slot %s: %s (required=%d available=%d cap=%d)\n",
					d.SlotLabel, d.Cause, d.Required, d.Available, d.Cap)
			}
		case domain.StatusNoStaff, domain.StatusUnknown:
			fmt.Printf("Reason: %s\n", result.Outcome.Reason)
		default:
			for _, iv := range result.Intervals {
				fmt.Printf("  %s (%s): %s - %s\n", iv.Name, iv.Role, iv.StartLabel, iv.EndLabel)
			}
		}

		return nil
	},
}
