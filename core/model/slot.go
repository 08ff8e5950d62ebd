package model

import (
	"fmt"
	"time"
)

// SlotID identifies a schedulable slot: one crew-day of one trade.
type SlotID struct {
	Trade string    `json:"trade"`
	Date  time.Time `json:"date"`
}

// Key returns a stable string form usable as a map key or log field.
func (id SlotID) Key() string {
	return fmt.Sprintf("%s@%s", id.Trade, id.Date.Format("2006-01-02"))
}

// Slot is a unit of schedulable crew capacity derived from a shift
// definition. Slots are generated per solve and immutable afterwards.
type Slot struct {
	ID                  SlotID  `json:"id"`
	ShiftDurationHours  float64 `json:"shift_duration_hours"`
	TechniciansPerCrew  int     `json:"technicians_per_crew"`
	CapacityPersonHours float64 `json:"capacity_person_hours"`
}

// NewSlot derives a slot for the given trade and date from a shift definition.
func NewSlot(def ShiftDefinition, date time.Time) Slot {
	return Slot{
		ID:                  SlotID{Trade: def.Trade, Date: DateOnly(date)},
		ShiftDurationHours:  def.ShiftDurationHours,
		TechniciansPerCrew:  def.TechniciansPerCrew,
		CapacityPersonHours: def.DailyCapacityPersonHours(),
	}
}
