package schedule

import (
	"fmt"
	"sort"

	"github.com/maintops/crewsched/core/model"
)

// ExpandSlots turns shift definitions and a planning horizon into the
// concrete slot set: one slot per (trade, active weekday date) pair within
// the horizon. It is a pure function; trades that can never generate a slot
// are reported as configuration issues, not failures.
func ExpandSlots(horizon model.Horizon, shifts []model.ShiftDefinition) ([]model.Slot, []string) {
	var issues []string

	defs := make([]model.ShiftDefinition, 0, len(shifts))
	byTrade := make(map[string]bool, len(shifts))
	for _, s := range shifts {
		if byTrade[s.Trade] {
			issues = append(issues, fmt.Sprintf("duplicate shift definition for trade %s ignored", s.Trade))
			continue
		}
		byTrade[s.Trade] = true
		defs = append(defs, s)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Trade < defs[j].Trade })

	var slots []model.Slot
	for _, def := range defs {
		if len(def.ActiveWeekdays()) == 0 {
			issues = append(issues, fmt.Sprintf("trade %s has no active weekdays; no slots can be generated", def.Trade))
			continue
		}
		for d := horizon.Start; !d.After(horizon.End); d = d.AddDate(0, 0, 1) {
			if def.IsActiveOn(d.Weekday()) {
				slots = append(slots, model.NewSlot(def, d))
			}
		}
	}
	return slots, issues
}
