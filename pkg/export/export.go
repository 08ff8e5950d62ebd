package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/maintops/crewsched/core/model"
)

// WriteJSON writes the full schedule to w in JSON format.
func WriteJSON(w io.Writer, s *model.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteCSV writes the assignment list to w in CSV format.
func WriteCSV(w io.Writer, s *model.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"work_order_id", "trade", "date", "person_hours", "lateness_days", "locked"}); err != nil {
		return err
	}
	for _, a := range s.Assignments {
		rec := []string{
			a.WorkOrderID,
			a.Slot.Trade,
			a.Slot.Date.Format("2006-01-02"),
			strconv.FormatFloat(a.ConsumedPersonHours, 'f', -1, 64),
			strconv.Itoa(a.LatenessDays),
			strconv.FormatBool(a.Locked),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CalendarEvent is the shape calendar front-ends consume: one all-day event
// per assignment, grouped per trade resource. Unassigned work orders are a
// distinct, visible state and appear with an empty date.
type CalendarEvent struct {
	Title      string `json:"title"`
	ResourceID string `json:"resourceId"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Unassigned bool   `json:"unassigned,omitempty"`
}

// CalendarEvents flattens a schedule into renderable events, assignments
// first, unassigned work orders after.
func CalendarEvents(s *model.Schedule) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(s.Assignments)+len(s.Diagnostics.Unassigned))
	for _, a := range s.Assignments {
		d := a.Slot.Date.Format("2006-01-02")
		events = append(events, CalendarEvent{
			Title:      a.WorkOrderID,
			ResourceID: a.Slot.Trade,
			Start:      d,
			End:        d,
		})
	}
	for _, u := range s.Diagnostics.Unassigned {
		events = append(events, CalendarEvent{
			Title:      u.WorkOrderID,
			Unassigned: true,
		})
	}
	return events
}

// WriteEvents writes the calendar events to w in JSON format.
func WriteEvents(w io.Writer, s *model.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(CalendarEvents(s))
}
