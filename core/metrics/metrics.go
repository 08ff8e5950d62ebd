package metrics

import (
	"time"

	"github.com/maintops/crewsched/core/model"
)

// SolveRecord captures the observable outcome of one optimization call.
type SolveRecord struct {
	SolveID    string
	Status     model.SolveStatus
	Objective  float64
	Gap        float64
	Duration   time.Duration
	WorkOrders int
	Assigned   int
	Unassigned int
	Nodes      int64
	Time       time.Time
}

// SolveSink records solve outcomes for observability purposes.
type SolveSink interface {
	RecordSolve(rec SolveRecord) error
}

// NopSink discards all records.
type NopSink struct{}

// RecordSolve implements SolveSink.
func (NopSink) RecordSolve(SolveRecord) error { return nil }
