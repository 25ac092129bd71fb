package app

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/orbita/adapter/cli"
	sharedApplication "github.com/felixgeelhaar/orbita/internal/shared/application"
	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/orbita/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/commands"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/queries"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/application/services"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/infrastructure/cache"
	"github.com/felixgeelhaar/orbita/internal/shiftplan/infrastructure/persistence"
	"github.com/felixgeelhaar/orbita/pkg/config"
	"github.com/redis/go-redis/v9"
)

// initShiftPlan wires the shift-scheduling module on its own
// database.Connection rather than reusing the pgxpool-based wiring the
// rest of the container uses: the module's repositories are written
// against the driver-agnostic seam so they can run against either backend
// SQLite supports in local mode, while the rest of Container predates that
// seam and still talks to pgxpool directly. A connection failure here is
// non-fatal: it leaves Container.ShiftPlan nil and the CLI/MCP surfaces
// degrade to "requires database connection" rather than aborting startup.
func initShiftPlan(ctx context.Context, cfg *config.Config, uow sharedApplication.UnitOfWork, outboxRepo outbox.Repository, redisClient *redis.Client, logger *slog.Logger) (*cli.ShiftPlanHandlers, error) {
	conn, err := database.NewConnection(ctx, database.Config{
		Driver: database.Driver(cfg.DatabaseDriver),
		URL:    cfg.DatabaseURL,
	})
	if err != nil {
		return nil, err
	}

	staffRepo := persistence.NewPostgresStaffRepository(conn)
	availRepo := persistence.NewPostgresAvailabilityRepository(conn)
	demandRepo := persistence.NewPostgresDemandRepository(conn)

	defaults := domain.DemandTriple{
		Min:    cfg.ShiftPlanDemandMin,
		Target: cfg.ShiftPlanDemandTarget,
		Max:    cfg.ShiftPlanDemandMax,
	}
	resolver := services.NewDemandResolver(demandRepo, defaults)
	instanceBuilder := services.NewInstanceBuilder(staffRepo, availRepo, resolver)

	opts := services.SolverOptions{
		MinWorkHours:     cfg.ShiftPlanMinWorkHours,
		NewbieMaxPerSlot: cfg.ShiftPlanNewbieMaxPerSlot,
		DefaultDemandMin: cfg.ShiftPlanDemandMin,
		DefaultDemandTgt: cfg.ShiftPlanDemandTarget,
		DefaultDemandMax: cfg.ShiftPlanDemandMax,
		SolverTimeLimit:  cfg.ShiftPlanSolverTimeLimit,
	}
	diagnoser := services.NewDiagnoser(opts)
	solver := services.NewSolver(diagnoser, logger, opts)

	var demandCache queries.DemandCache
	if redisClient != nil {
		demandCache = cache.NewRedisDemandCache(redisClient, cfg.ShiftPlanDemandCacheTTL)
	}

	return &cli.ShiftPlanHandlers{
		SolveDay:        commands.NewSolveDayHandler(instanceBuilder, solver, outboxRepo, uow),
		EffectiveDemand: queries.NewEffectiveDemandHandler(resolver, demandCache),
		DiagnoseDay:     queries.NewDiagnoseDayHandler(instanceBuilder, diagnoser),
		GetDayInstance:  queries.NewGetDayInstanceHandler(instanceBuilder),
	}, nil
}
