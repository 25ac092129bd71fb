package shiftplan

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/queries"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
	"github.com/spf13/cobra"
)

var demandCmd = &cobra.Command{
	Use:   "demand <date>",
	Short: "Show the effective per-slot demand for a day",
	Long: `Demand resolves the per-slot (min, target, max) headcount bounds for a
date, overlaying date overrides on top of the weekday template on top of the
hardcoded default, and reports which tier supplied each result.

Examples:
  orbita shiftplan demand 2026-03-05`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ShiftPlan == nil || app.ShiftPlan.EffectiveDemand == nil {
			fmt.Println("Shift plan commands require database connection.")
			return nil
		}

		date, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date (use YYYY-MM-DD): %w", err)
		}

		result, err := app.ShiftPlan.EffectiveDemand.Handle(cmd.Context(), queries.EffectiveDemandQuery{Date: date})
		if err != nil {
			return fmt.Errorf("failed to resolve demand: %w", err)
		}

		fmt.Printf("Source: %s\n", result.Source)
		for slot, d := range result.Demand {
			label, err := domain.SlotToLabel(slot)
			if err != nil {
				return err
			}
			fmt.Printf("  %s  min=%d target=%d max=%d\n", label, d.Min, d.Target, d.Max)
		}
		return nil
	},
}
