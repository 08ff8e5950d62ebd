package schedule

import (
	"sort"

	"github.com/maintops/crewsched/core/model"
)

// capacityEps absorbs float rounding when comparing person-hour sums.
const capacityEps = 1e-9

// assignModel is the decision structure the solver searches: one binary
// choice per (work order, candidate slot) pair plus the implicit "leave
// unassigned" branch. Locked orders are folded in up front: they consume
// capacity unconditionally and contribute a constant cost.
type assignModel struct {
	slots     []model.Slot
	remaining []float64 // slot capacity left after locked consumption

	// Non-locked, schedulable orders in solver order: effective priority
	// descending, due date ascending (none last), id ascending. The order
	// doubles as the deterministic tie-break: among equal-cost solutions the
	// search keeps the one placing higher-priority orders on earlier slots.
	orders    []model.WorkOrder
	demand    []float64   // consumed person-hours per order
	cands     [][]int     // candidate slot indexes per order, earliest first
	costs     [][]float64 // lateness cost per order and candidate
	unassignedCost float64

	balanceWeight float64

	trades     []string
	tradeOf    []int     // trade index per solver order
	slotTrade  []int     // trade index per slot
	baseLoad   []float64 // locked person-hours per trade

	lockedAsn  []model.Assignment
	lockedCost float64
	conflicts  []model.LockConflict
}

func buildModel(req SolveRequest, slots []model.Slot, f feasibility) *assignModel {
	m := &assignModel{
		slots:          slots,
		remaining:      make([]float64, len(slots)),
		unassignedCost: req.Rules.UnassignedPenalty,
		balanceWeight:  req.Rules.BalanceWeight,
	}

	tradeIdx := make(map[string]int)
	m.slotTrade = make([]int, len(slots))
	for i, s := range slots {
		ti, ok := tradeIdx[s.ID.Trade]
		if !ok {
			ti = len(m.trades)
			tradeIdx[s.ID.Trade] = ti
			m.trades = append(m.trades, s.ID.Trade)
		}
		m.slotTrade[i] = ti
		m.remaining[i] = s.CapacityPersonHours
	}
	m.baseLoad = make([]float64, len(m.trades))

	// Locked orders consume capacity first, even past the slot limit. A slot
	// overflowing from locks alone is a conflict to report, never a reason to
	// abort the solve.
	lockedBySlot := make(map[int][]string)
	for _, w := range req.WorkOrders {
		if !w.Locked() {
			continue
		}
		cand, ok := f.candidates[w.ID]
		if !ok {
			continue // dangling lock, already diagnosed by the filter
		}
		si := cand[0]
		slot := slots[si]
		m.remaining[si] -= w.ConsumedPersonHours()
		m.baseLoad[m.slotTrade[si]] += w.ConsumedPersonHours()
		m.lockedCost += req.Rules.EffectivePriority(w) * float64(w.LatenessDays(slot.ID.Date))
		m.lockedAsn = append(m.lockedAsn, model.Assignment{
			WorkOrderID:         w.ID,
			Slot:                slot.ID,
			ConsumedPersonHours: w.ConsumedPersonHours(),
			LatenessDays:        w.LatenessDays(slot.ID.Date),
			Locked:              true,
		})
		lockedBySlot[si] = append(lockedBySlot[si], w.ID)
	}
	for si := range m.remaining {
		if m.remaining[si] < -capacityEps {
			ids := lockedBySlot[si]
			sort.Strings(ids)
			m.conflicts = append(m.conflicts, model.LockConflict{
				Slot:                slots[si].ID,
				WorkOrderIDs:        ids,
				OverflowPersonHours: -m.remaining[si],
			})
		}
		if m.remaining[si] < 0 {
			m.remaining[si] = 0
		}
	}
	sort.Slice(m.conflicts, func(i, j int) bool {
		return m.conflicts[i].Slot.Key() < m.conflicts[j].Slot.Key()
	})

	for _, w := range req.WorkOrders {
		if w.Locked() {
			continue
		}
		if _, ok := f.candidates[w.ID]; ok {
			m.orders = append(m.orders, w)
		}
	}
	rules := req.Rules
	sort.SliceStable(m.orders, func(i, j int) bool {
		a, b := m.orders[i], m.orders[j]
		pa, pb := rules.EffectivePriority(a), rules.EffectivePriority(b)
		if pa != pb {
			return pa > pb
		}
		switch {
		case a.DueDate != nil && b.DueDate == nil:
			return true
		case a.DueDate == nil && b.DueDate != nil:
			return false
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.ID < b.ID
	})

	m.demand = make([]float64, len(m.orders))
	m.cands = make([][]int, len(m.orders))
	m.costs = make([][]float64, len(m.orders))
	m.tradeOf = make([]int, len(m.orders))
	for i, w := range m.orders {
		m.demand[i] = w.ConsumedPersonHours()
		m.cands[i] = f.candidates[w.ID]
		m.tradeOf[i] = tradeIdx[w.Trade]
		costs := make([]float64, len(m.cands[i]))
		for ci, si := range m.cands[i] {
			costs[ci] = rules.EffectivePriority(w) * float64(w.LatenessDays(slots[si].ID.Date))
		}
		m.costs[i] = costs
	}
	return m
}

// spread is the workload-imbalance measure: max minus min assigned
// person-hours across the trades that have slots in the horizon.
func (m *assignModel) spread(loads []float64) float64 {
	if len(loads) == 0 {
		return 0
	}
	lo, hi := loads[0], loads[0]
	for _, l := range loads[1:] {
		if l < lo {
			lo = l
		}
		if l > hi {
			hi = l
		}
	}
	return hi - lo
}
