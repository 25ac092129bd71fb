package services

import (
	"fmt"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// solveCpModel instantiates the proto model from the builder and runs the
// CP-SAT solver with a wall-clock budget. The concrete SatParameters wiring
// below is the one piece of this package not directly demonstrated by any
// retrieved Go sample; see DESIGN.md for the reasoning.
func solveCpModel(m *cpsatModel, timeLimit time.Duration) (*cpmodel.CpSolverResponse, error) {
	built, err := m.builder.Model()
	if err != nil {
		return nil, fmt.Errorf("instantiate cp model: %w", err)
	}

	params := &sppb.SatParameters{
		MaxTimeInSeconds: proto.Float64(timeLimit.Seconds()),
	}
	response, err := cpmodel.SolveCpModelWithParameters(built, params)
	if err != nil {
		return nil, fmt.Errorf("solve cp model: %w", err)
	}
	return response, nil
}

// statusOf maps a CP-SAT solver status to the domain's solve vocabulary.
// Comparing against response.GetStatus().String() rather than against the
// proto enum constants keeps this package decoupled from the exact proto
// import path for the status enum, which no retrieved sample exercises.
func statusOf(response *cpmodel.CpSolverResponse) domain.SolveStatus {
	switch response.GetStatus().String() {
	case "OPTIMAL":
		return domain.StatusOptimal
	case "FEASIBLE":
		return domain.StatusFeasible
	case "INFEASIBLE":
		return domain.StatusInfeasible
	default:
		return domain.StatusUnknown
	}
}

// extractAssignment reads the boolean assignment matrix out of a solved
// response. Callers must only call this for OPTIMAL or FEASIBLE responses.
func extractAssignment(m *cpsatModel, response *cpmodel.CpSolverResponse, numStaff int) domain.Assignment {
	out := make(domain.Assignment, numStaff)
	for i := 0; i < numStaff; i++ {
		for s := 0; s < domain.NumSlots; s++ {
			out[i][s] = cpmodel.SolutionBooleanValue(response, m.assign[cellKey{i, s}])
		}
	}
	return out
}
