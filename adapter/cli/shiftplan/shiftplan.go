package shiftplan

import (
	"github.com/spf13/cobra"
)

// Cmd is the shift plan command group.
var Cmd = &cobra.Command{
	Use:   "shiftplan",
	Short: "Solve and inspect staff shift schedules",
	Long:  `Build, solve, and diagnose per-day staff shift schedules.`,
}

func init() {
	Cmd.AddCommand(solveCmd)
	Cmd.AddCommand(diagnoseCmd)
	Cmd.AddCommand(demandCmd)
}
