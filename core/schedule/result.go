package schedule

import (
	"sort"

	"github.com/maintops/crewsched/core/model"
)

// assemble maps the solver outcome back into the caller-facing Schedule.
// Every work order without an assignment is classified: orders filtered out
// before the solve keep NO_COMPATIBLE_SLOT, orders the solver left out get
// CAPACITY_EXHAUSTED.
func assemble(m *assignModel, f feasibility, issues []string, res searchResult, bound float64, solveID string) *model.Schedule {
	assignments := append([]model.Assignment(nil), m.lockedAsn...)
	loads := append([]float64(nil), m.baseLoad...)
	unassigned := append([]model.UnassignedWorkOrder(nil), f.unassignable...)

	for i, si := range res.assignment {
		if si < 0 {
			unassigned = append(unassigned, model.UnassignedWorkOrder{
				WorkOrderID: m.orders[i].ID,
				Reason:      model.ReasonCapacityExhausted,
			})
			continue
		}
		w := m.orders[i]
		assignments = append(assignments, model.Assignment{
			WorkOrderID:         w.ID,
			Slot:                m.slots[si].ID,
			ConsumedPersonHours: m.demand[i],
			LatenessDays:        w.LatenessDays(m.slots[si].ID.Date),
		})
		loads[m.tradeOf[i]] += m.demand[i]
	}

	sort.Slice(assignments, func(i, j int) bool {
		a, b := assignments[i], assignments[j]
		if !a.Slot.Date.Equal(b.Slot.Date) {
			return a.Slot.Date.Before(b.Slot.Date)
		}
		if a.Slot.Trade != b.Slot.Trade {
			return a.Slot.Trade < b.Slot.Trade
		}
		return a.WorkOrderID < b.WorkOrderID
	})
	sort.Slice(unassigned, func(i, j int) bool {
		return unassigned[i].WorkOrderID < unassigned[j].WorkOrderID
	})

	workloads := make([]model.TradeWorkload, len(m.trades))
	for ti, trade := range m.trades {
		workloads[ti] = model.TradeWorkload{Trade: trade, PersonHours: loads[ti]}
	}

	status := solveStatus(m, res)
	gap := 0.0
	if status != model.StatusOptimal && res.objective > bound {
		denom := res.objective
		if denom < 1 {
			denom = 1
		}
		gap = (res.objective - bound) / denom
	}

	return &model.Schedule{
		SolveID:     solveID,
		Assignments: assignments,
		Workloads:   workloads,
		Diagnostics: model.Diagnostics{
			Status:              status,
			ObjectiveValue:      res.objective,
			OptimalityGap:       gap,
			Unassigned:          unassigned,
			LockConflicts:       m.conflicts,
			ConfigurationIssues: issues,
			NodesExplored:       res.nodes,
		},
	}
}

// solveStatus derives the reported status. Lock conflicts are the only true
// infeasibility: the empty assignment is always feasible otherwise.
func solveStatus(m *assignModel, res searchResult) model.SolveStatus {
	switch {
	case len(m.conflicts) > 0:
		return model.StatusInfeasible
	case res.timedOut:
		return model.StatusTimeout
	case !res.completed:
		return model.StatusFeasible
	default:
		return model.StatusOptimal
	}
}
