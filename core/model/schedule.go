package model

// SolveStatus reports the outcome of an optimization run.
type SolveStatus int

const (
	StatusOptimal SolveStatus = iota
	StatusFeasible
	StatusInfeasible
	StatusTimeout
)

// String returns a human-readable representation of the status.
func (s SolveStatus) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusTimeout:
		return "TIMEOUT"
	default:
		return "unknown"
	}
}

// UnassignedReason explains why a work order received no slot.
type UnassignedReason string

const (
	// ReasonNoCompatibleSlot marks orders with an empty candidate set: no
	// slot of their trade exists within the horizon.
	ReasonNoCompatibleSlot UnassignedReason = "NO_COMPATIBLE_SLOT"
	// ReasonCapacityExhausted marks orders that had candidate slots but lost
	// the capacity competition.
	ReasonCapacityExhausted UnassignedReason = "CAPACITY_EXHAUSTED"
)

// Assignment places one work order entirely on one slot. Created only by the
// result assembler, never mutated afterwards.
type Assignment struct {
	WorkOrderID         string  `json:"work_order_id"`
	Slot                SlotID  `json:"slot"`
	ConsumedPersonHours float64 `json:"consumed_person_hours"`
	LatenessDays        int     `json:"lateness_days"`
	Locked              bool    `json:"locked"`
}

// UnassignedWorkOrder pairs an order id with the reason it was left out.
type UnassignedWorkOrder struct {
	WorkOrderID string           `json:"work_order_id"`
	Reason      UnassignedReason `json:"reason"`
}

// LockConflict reports a slot whose locked work orders jointly exceed its
// capacity. Reported, not fatal: the rest of the schedule still solves.
type LockConflict struct {
	Slot                SlotID   `json:"slot"`
	WorkOrderIDs        []string `json:"work_order_ids"`
	OverflowPersonHours float64  `json:"overflow_person_hours"`
}

// TradeWorkload totals the assigned person-hours of one trade over the horizon.
type TradeWorkload struct {
	Trade       string  `json:"trade"`
	PersonHours float64 `json:"person_hours"`
}

// Diagnostics bundles solver status and structural findings. Structural
// issues detected before the search (empty slot sets, lock conflicts) land
// here instead of aborting the solve.
type Diagnostics struct {
	Status              SolveStatus           `json:"status"`
	ObjectiveValue      float64               `json:"objective_value"`
	OptimalityGap       float64               `json:"optimality_gap"`
	Unassigned          []UnassignedWorkOrder `json:"unassigned"`
	LockConflicts       []LockConflict        `json:"lock_conflicts,omitempty"`
	ConfigurationIssues []string              `json:"configuration_issues,omitempty"`
	NodesExplored       int64                 `json:"nodes_explored"`
}

// Schedule is the immutable result of one optimization call.
type Schedule struct {
	SolveID     string          `json:"solve_id"`
	Assignments []Assignment    `json:"assignments"`
	Workloads   []TradeWorkload `json:"workloads"`
	Diagnostics Diagnostics     `json:"diagnostics"`
}

// AssignmentFor returns the assignment of the given work order, if any.
func (s Schedule) AssignmentFor(workOrderID string) (Assignment, bool) {
	for _, a := range s.Assignments {
		if a.WorkOrderID == workOrderID {
			return a, true
		}
	}
	return Assignment{}, false
}
