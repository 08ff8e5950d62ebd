package model

// PrioritizationRules tune the objective function. They are read-only inputs
// to model construction; the numeric tier-to-weight mapping itself belongs to
// the backlog collaborator, which already delivers PriorityWeight per order.
type PrioritizationRules struct {
	// UnassignedPenalty is the fixed cost of leaving a schedulable, non-locked
	// work order out. It must dominate any achievable lateness cost so the
	// solver never strands an order to shave lateness elsewhere.
	UnassignedPenalty float64 `json:"unassigned_penalty"`

	// BalanceWeight scales the workload-imbalance term, measured as the
	// max-minus-min spread of assigned person-hours across trades.
	BalanceWeight float64 `json:"balance_weight"`

	// SafetyCriticalBoost multiplies the priority weight of safety-critical
	// work orders. 1 leaves them untouched.
	SafetyCriticalBoost float64 `json:"safety_critical_boost"`
}

// DefaultRules returns the engine defaults. UnassignedPenalty is sized to
// exceed the lateness cost of any realistic backlog over a weekly horizon.
func DefaultRules() PrioritizationRules {
	return PrioritizationRules{
		UnassignedPenalty:   1e6,
		BalanceWeight:       1.0,
		SafetyCriticalBoost: 2.0,
	}
}

// SetDefaults fills unset values with the engine defaults.
func (r *PrioritizationRules) SetDefaults() {
	d := DefaultRules()
	if r.UnassignedPenalty <= 0 {
		r.UnassignedPenalty = d.UnassignedPenalty
	}
	if r.BalanceWeight <= 0 {
		r.BalanceWeight = d.BalanceWeight
	}
	if r.SafetyCriticalBoost <= 0 {
		r.SafetyCriticalBoost = d.SafetyCriticalBoost
	}
}

// EffectivePriority returns the priority weight after applying the safety
// boost.
func (r PrioritizationRules) EffectivePriority(w WorkOrder) float64 {
	p := w.PriorityWeight
	if w.SafetyCritical {
		p *= r.SafetyCriticalBoost
	}
	return p
}
