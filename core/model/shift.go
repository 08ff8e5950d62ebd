package model

import (
	"fmt"
	"time"
)

// ShiftDefinition describes the recurring crew capacity of one trade.
// A crew works ShiftDurationHours on every active weekday with
// TechniciansPerCrew technicians.
type ShiftDefinition struct {
	Trade              string  `json:"trade" yaml:"trade" validate:"required"`
	ShiftDurationHours float64 `json:"shift_duration_hours" yaml:"shift_duration_hours" validate:"gt=0"`
	Monday             bool    `json:"monday" yaml:"monday"`
	Tuesday            bool    `json:"tuesday" yaml:"tuesday"`
	Wednesday          bool    `json:"wednesday" yaml:"wednesday"`
	Thursday           bool    `json:"thursday" yaml:"thursday"`
	Friday             bool    `json:"friday" yaml:"friday"`
	Saturday           bool    `json:"saturday" yaml:"saturday"`
	Sunday             bool    `json:"sunday" yaml:"sunday"`
	TechniciansPerCrew int     `json:"technicians_per_crew" yaml:"technicians_per_crew" validate:"gte=1"`
}

// IsActiveOn reports whether the crew works on the given weekday.
func (s ShiftDefinition) IsActiveOn(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	}
	return false
}

// ActiveWeekdays returns the active weekdays in Monday-first order.
func (s ShiftDefinition) ActiveWeekdays() []time.Weekday {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday, time.Sunday,
	}
	var days []time.Weekday
	for _, d := range order {
		if s.IsActiveOn(d) {
			days = append(days, d)
		}
	}
	return days
}

// DailyCapacityPersonHours is the person-hour capacity of one active day.
func (s ShiftDefinition) DailyCapacityPersonHours() float64 {
	return s.ShiftDurationHours * float64(s.TechniciansPerCrew)
}

// Validate checks the shift configuration invariants.
func (s ShiftDefinition) Validate() error {
	if s.Trade == "" {
		return fmt.Errorf("shift definition: trade is required")
	}
	if s.ShiftDurationHours <= 0 {
		return fmt.Errorf("shift %s: duration must be positive", s.Trade)
	}
	if s.TechniciansPerCrew < 1 {
		return fmt.Errorf("shift %s: technicians_per_crew must be at least 1", s.Trade)
	}
	return nil
}
