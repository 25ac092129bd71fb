package services

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/felixgeelhaar/orbita/internal/shiftplan/domain"
)

// cellKey addresses a single (staff index, slot index) decision variable.
type cellKey struct {
	staff int
	slot  int
}

// cpsatModel holds the CP-SAT builder together with every decision variable
// the solver needs to read back once a solve completes. Only this file and
// cpsat_backend.go know about the cpmodel package; everything upstream deals
// in domain types.
type cpsatModel struct {
	builder *cpmodel.CpModelBuilder
	assign  map[cellKey]cpmodel.BoolVar
	work    map[int]cpmodel.BoolVar
	numDays int
}

func sumAssign(model *cpsatModel, staffIdx int) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for s := 0; s < domain.NumSlots; s++ {
		expr.Add(model.assign[cellKey{staffIdx, s}])
	}
	return expr
}

func sumVars(vars []cpmodel.BoolVar) *cpmodel.LinearExpr {
	expr := cpmodel.NewLinearExpr()
	for _, v := range vars {
		expr.Add(v)
	}
	return expr
}

// buildModel translates a domain.DayInstance into a CP-SAT model per
// spec.md §4.4: decision variables, per-staff minimum-length + single-block
// contiguity, per-slot demand bounds, key-person coverage, newbie caps, and
// the weighted deviation/fairness objective.
func buildModel(instance domain.DayInstance, opts SolverOptions) (*cpsatModel, error) {
	n := len(instance.Staff)
	builder := cpmodel.NewCpModelBuilder()
	m := &cpsatModel{
		builder: builder,
		assign:  make(map[cellKey]cpmodel.BoolVar, n*domain.NumSlots),
		work:    make(map[int]cpmodel.BoolVar, n),
	}

	for i := range instance.Staff {
		for s := 0; s < domain.NumSlots; s++ {
			v := builder.NewBoolVar().WithName(fmt.Sprintf("assign_s%d_t%d", i, s))
			m.assign[cellKey{i, s}] = v
			if !instance.Avail[i][s] {
				builder.AddEquality(v, cpmodel.NewConstant(0))
			}
		}
		m.work[i] = builder.NewBoolVar().WithName(fmt.Sprintf("work_%d", i))
	}

	minSlotsVal := int64(minSlots(opts.MinWorkHours))

	for i := range instance.Staff {
		total := sumAssign(m, i)

		upper := cpmodel.NewLinearExpr()
		upper.AddTerm(m.work[i], int64(domain.NumSlots))
		builder.AddLessOrEqual(total, upper)

		builder.AddLessOrEqual(m.work[i], total)

		lower := cpmodel.NewLinearExpr()
		lower.AddTerm(m.work[i], minSlotsVal)
		builder.AddLessOrEqual(lower, total)
	}

	for i := range instance.Staff {
		starts := make([]cpmodel.BoolVar, 0, domain.NumSlots)
		ends := make([]cpmodel.BoolVar, 0, domain.NumSlots)

		for s := 0; s < domain.NumSlots; s++ {
			cur := m.assign[cellKey{i, s}]

			start := builder.NewBoolVar().WithName(fmt.Sprintf("start_s%d_t%d", i, s))
			builder.AddLessOrEqual(start, cur)
			if s == 0 {
				diff := cpmodel.NewLinearExpr()
				diff.Add(cur)
				builder.AddLessOrEqual(diff, start)
			} else {
				prev := m.assign[cellKey{i, s - 1}]
				onePair := cpmodel.NewLinearExpr()
				onePair.Add(start)
				onePair.Add(prev)
				builder.AddLessOrEqual(onePair, cpmodel.NewConstant(1))

				diff := cpmodel.NewLinearExpr()
				diff.Add(cur)
				diff.AddTerm(prev, -1)
				builder.AddLessOrEqual(diff, start)
			}
			starts = append(starts, start)

			end := builder.NewBoolVar().WithName(fmt.Sprintf("end_s%d_t%d", i, s))
			builder.AddLessOrEqual(end, cur)
			if s == domain.NumSlots-1 {
				diff := cpmodel.NewLinearExpr()
				diff.Add(cur)
				builder.AddLessOrEqual(diff, end)
			} else {
				next := m.assign[cellKey{i, s + 1}]
				onePair := cpmodel.NewLinearExpr()
				onePair.Add(end)
				onePair.Add(next)
				builder.AddLessOrEqual(onePair, cpmodel.NewConstant(1))

				diff := cpmodel.NewLinearExpr()
				diff.Add(cur)
				diff.AddTerm(next, -1)
				builder.AddLessOrEqual(diff, end)
			}
			ends = append(ends, end)
		}

		builder.AddLessOrEqual(sumVars(starts), cpmodel.NewConstant(1))
		builder.AddLessOrEqual(sumVars(ends), cpmodel.NewConstant(1))
	}

	for s := 0; s < domain.NumSlots; s++ {
		total := cpmodel.NewLinearExpr()
		keyTotal := cpmodel.NewLinearExpr()
		newbieTotal := cpmodel.NewLinearExpr()
		for i, st := range instance.Staff {
			v := m.assign[cellKey{i, s}]
			total.Add(v)
			if st.IsKeyPerson {
				keyTotal.Add(v)
			}
			if st.IsNewbie {
				newbieTotal.Add(v)
			}
		}

		d := instance.Demand[s]
		builder.AddLessOrEqual(cpmodel.NewConstant(int64(d.Min)), total)
		builder.AddLessOrEqual(total, cpmodel.NewConstant(int64(d.Max)))

		if instance.KeyPersonAvailableCount(s) > 0 {
			builder.AddLessOrEqual(cpmodel.NewConstant(1), keyTotal)
		}
		builder.AddLessOrEqual(newbieTotal, cpmodel.NewConstant(int64(opts.NewbieMaxPerSlot)))
	}

	objective := cpmodel.NewLinearExpr()
	for s := 0; s < domain.NumSlots; s++ {
		total := cpmodel.NewLinearExpr()
		for i := range instance.Staff {
			total.Add(m.assign[cellKey{i, s}])
		}

		dev := builder.NewIntVar(int64(-n), int64(n)).WithName(fmt.Sprintf("dev_%d", s))
		lhs := cpmodel.NewLinearExpr()
		lhs.Add(dev)
		lhs.AddConstant(int64(instance.Demand[s].Target))
		builder.AddEquality(lhs, total)

		absDev := builder.NewIntVar(0, int64(n)).WithName(fmt.Sprintf("absdev_%d", s))
		builder.AddAbsEquality(absDev, dev)
		objective.AddTerm(absDev, 10)
	}

	totals := make([]cpmodel.LinearArgument, n)
	for i := range instance.Staff {
		totals[i] = sumAssign(m, i)
	}
	if n > 0 {
		maxTotal := builder.NewIntVar(0, int64(domain.NumSlots)).WithName("max_total")
		minTotal := builder.NewIntVar(0, int64(domain.NumSlots)).WithName("min_total")
		builder.AddMaxEquality(maxTotal, totals)
		builder.AddMinEquality(minTotal, totals)

		fairness := builder.NewIntVar(0, int64(domain.NumSlots)).WithName("fairness_gap")
		gap := cpmodel.NewLinearExpr()
		gap.Add(fairness)
		gap.Add(minTotal)
		builder.AddEquality(gap, maxTotal)
		objective.Add(fairness)
	}

	builder.Minimize(objective)
	return m, nil
}
