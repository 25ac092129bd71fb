package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/commands"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/queries"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

type shiftplanDateInput struct {
	Date string `json:"date" jsonschema:"required"`
}

func registerShiftPlanTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("shiftplan.solve").
		Description("Solve the shift schedule for an operating day").
		Handler(func(ctx context.Context, input shiftplanDateInput) (*commands.SolveDayResult, error) {
			if app == nil || app.ShiftPlan == nil || app.ShiftPlan.SolveDay == nil {
				return nil, errors.New("shift plan requires database connection")
			}
			date, err := parseDate(input.Date, time.Now())
			if err != nil {
				return nil, err
			}
			return app.ShiftPlan.SolveDay.Handle(ctx, commands.SolveDayCommand{Date: date})
		})

	srv.Tool("shiftplan.diagnose").
		Description("Check necessary feasibility conditions for a day without solving").
		Handler(func(ctx context.Context, input shiftplanDateInput) ([]domain.DiagnosisEntry, error) {
			if app == nil || app.ShiftPlan == nil || app.ShiftPlan.DiagnoseDay == nil {
				return nil, errors.New("shift plan requires database connection")
			}
			date, err := parseDate(input.Date, time.Now())
			if err != nil {
				return nil, err
			}
			return app.ShiftPlan.DiagnoseDay.Handle(ctx, queries.DiagnoseDayQuery{Date: date})
		})

	srv.Tool("shiftplan.effective_demand").
		Description("Get the resolved per-slot demand for a day").
		Handler(func(ctx context.Context, input shiftplanDateInput) (queries.EffectiveDemandResult, error) {
			if app == nil || app.ShiftPlan == nil || app.ShiftPlan.EffectiveDemand == nil {
				return queries.EffectiveDemandResult{}, errors.New("shift plan requires database connection")
			}
			date, err := parseDate(input.Date, time.Now())
			if err != nil {
				return queries.EffectiveDemandResult{}, err
			}
			return app.ShiftPlan.EffectiveDemand.Handle(ctx, queries.EffectiveDemandQuery{Date: date})
		})

	return nil
}
