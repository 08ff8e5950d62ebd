package schedule

import (
	"fmt"
	"time"

	"github.com/maintops/crewsched/core/model"
)

// SolveRequest is the fully materialized snapshot one optimization call works
// on. The engine never reads shared state during a solve, so the surrounding
// system may edit shift or rule tables while a long solve is running.
type SolveRequest struct {
	WorkOrders []model.WorkOrder
	Shifts     []model.ShiftDefinition
	Rules      model.PrioritizationRules
	Horizon    model.Horizon

	// TimeBudget caps the wall-clock search time. Zero means DefaultTimeBudget.
	TimeBudget time.Duration

	// NodeBudget optionally caps the number of explored search nodes.
	// Zero means unlimited.
	NodeBudget int64
}

// DefaultTimeBudget applies when a request leaves TimeBudget unset.
const DefaultTimeBudget = 10 * time.Second

// Validate rejects malformed input before any model is built. Structural
// issues (empty slot sets, lock conflicts) are not errors; they become
// diagnostics on the result.
func (r SolveRequest) Validate() error {
	if err := r.Horizon.Validate(); err != nil {
		return err
	}
	trades := make(map[string]bool, len(r.Shifts))
	for _, s := range r.Shifts {
		if err := s.Validate(); err != nil {
			return err
		}
		trades[s.Trade] = true
	}
	seen := make(map[string]bool, len(r.WorkOrders))
	for _, w := range r.WorkOrders {
		if err := w.Validate(); err != nil {
			return err
		}
		if seen[w.ID] {
			return fmt.Errorf("duplicate work order id %s", w.ID)
		}
		seen[w.ID] = true
		if !trades[w.Trade] {
			return fmt.Errorf("work order %s references unknown trade %s", w.ID, w.Trade)
		}
	}
	return nil
}
