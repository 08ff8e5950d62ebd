package model

import (
	"fmt"
	"time"
)

// WorkOrder is a single backlog item to be placed on a crew slot.
// All fields are normalized upstream: the engine never parses priority text
// or spreadsheet columns.
type WorkOrder struct {
	ID              string     `json:"id" validate:"required"`
	Description     string     `json:"description"`
	Trade           string     `json:"trade" validate:"required"`
	DurationHours   float64    `json:"duration_hours" validate:"gt=0"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	PriorityWeight  float64    `json:"priority_weight" validate:"gt=0"`
	PersonsRequired int        `json:"persons_required" validate:"gte=1"`
	SafetyCritical  bool       `json:"safety_critical"`

	// LockedSlot pins the work order to a specific slot. The solver must
	// honor it unconditionally, even when the slot is already full.
	LockedSlot *SlotID `json:"locked_slot,omitempty"`
}

// Locked reports whether the work order carries a pre-fixed assignment.
func (w WorkOrder) Locked() bool { return w.LockedSlot != nil }

// ConsumedPersonHours is the capacity the work order occupies in a slot.
func (w WorkOrder) ConsumedPersonHours() float64 {
	return w.DurationHours * float64(w.PersonsRequired)
}

// LatenessDays returns the lateness in whole days were the work order
// executed on the given date. Orders without a due date are never late.
func (w WorkOrder) LatenessDays(on time.Time) int {
	if w.DueDate == nil {
		return 0
	}
	days := int(DateOnly(on).Sub(DateOnly(*w.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Validate checks the per-order invariants the engine rejects outright.
func (w WorkOrder) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("work order id is required")
	}
	if w.Trade == "" {
		return fmt.Errorf("work order %s: trade is required", w.ID)
	}
	if w.DurationHours <= 0 {
		return fmt.Errorf("work order %s: duration must be positive", w.ID)
	}
	if w.PersonsRequired < 1 {
		return fmt.Errorf("work order %s: persons_required must be at least 1", w.ID)
	}
	if w.PriorityWeight <= 0 {
		return fmt.Errorf("work order %s: priority_weight must be positive", w.ID)
	}
	return nil
}
