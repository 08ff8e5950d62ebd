package schedule

import (
	"fmt"

	"github.com/maintops/crewsched/core/model"
)

// feasibility holds the candidate slot indexes per work order together with
// the orders that can never be placed. Unassignable orders are excluded from
// the model entirely so the solver spends no variables on them.
type feasibility struct {
	candidates   map[string][]int
	unassignable []model.UnassignedWorkOrder
	issues       []string
}

// buildCandidates computes, for every work order, the slots it could legally
// occupy: every expanded slot of the same trade. Due dates never restrict the
// candidate set; lateness is priced by the objective instead. Locked orders
// bypass filtering: their candidate set is exactly the locked slot.
func buildCandidates(orders []model.WorkOrder, slots []model.Slot) feasibility {
	byTrade := make(map[string][]int)
	byID := make(map[model.SlotID]int, len(slots))
	for i, s := range slots {
		byTrade[s.ID.Trade] = append(byTrade[s.ID.Trade], i)
		byID[s.ID] = i
	}

	f := feasibility{candidates: make(map[string][]int, len(orders))}
	for _, w := range orders {
		if w.Locked() {
			id := model.SlotID{Trade: w.LockedSlot.Trade, Date: model.DateOnly(w.LockedSlot.Date)}
			idx, ok := byID[id]
			if !ok {
				f.issues = append(f.issues, fmt.Sprintf("work order %s is locked to nonexistent slot %s", w.ID, id.Key()))
				f.unassignable = append(f.unassignable, model.UnassignedWorkOrder{
					WorkOrderID: w.ID, Reason: model.ReasonNoCompatibleSlot,
				})
				continue
			}
			f.candidates[w.ID] = []int{idx}
			continue
		}
		cands := byTrade[w.Trade]
		if len(cands) == 0 {
			f.unassignable = append(f.unassignable, model.UnassignedWorkOrder{
				WorkOrderID: w.ID, Reason: model.ReasonNoCompatibleSlot,
			})
			continue
		}
		// Slots arrive trade-sorted then date-sorted from the expander, so
		// the candidate list is already in earliest-first order.
		f.candidates[w.ID] = cands
	}
	return f
}
