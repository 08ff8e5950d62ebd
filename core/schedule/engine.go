package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/maintops/crewsched/core/logger"
	"github.com/maintops/crewsched/core/metrics"
	"github.com/maintops/crewsched/core/model"
)

// Engine converts a backlog snapshot into a crew schedule. It is stateless
// across invocations and safe to call from parallel workers, one request per
// call.
type Engine struct {
	log  logger.Logger
	sink metrics.SolveSink
}

// New returns an engine logging through log and recording solve outcomes to
// sink. Both may be nil.
func New(log logger.Logger, sink metrics.SolveSink) *Engine {
	if log == nil {
		log = nopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{log: log, sink: sink}
}

// Solve runs one optimization over the request snapshot. Malformed input is
// the only error path; every structural problem (unschedulable trades, lock
// conflicts, exhausted capacity) is reported through the result diagnostics
// so a single bad work order never aborts the schedule.
func (e *Engine) Solve(req SolveRequest) (*model.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid solve request: %w", err)
	}
	req.Rules.SetDefaults()
	if req.TimeBudget <= 0 {
		req.TimeBudget = DefaultTimeBudget
	}

	solveID := uuid.NewString()
	start := time.Now()

	slots, issues := ExpandSlots(req.Horizon, req.Shifts)
	f := buildCandidates(req.WorkOrders, slots)
	issues = append(issues, f.issues...)

	m := buildModel(req, slots, f)
	e.log.Debugw("model built", map[string]any{
		"solve_id":    solveID,
		"slots":       len(slots),
		"searchable":  len(m.orders),
		"locked":      len(m.lockedAsn),
		"prefiltered": len(f.unassignable),
	})

	res := m.search(start.Add(req.TimeBudget), req.NodeBudget)

	bound := res.objective
	if !res.completed {
		bound = m.lowerBound()
	}

	sched := assemble(m, f, issues, res, bound, solveID)
	elapsed := time.Since(start)
	e.log.Infow("solve finished", map[string]any{
		"solve_id":   solveID,
		"status":     sched.Diagnostics.Status.String(),
		"objective":  sched.Diagnostics.ObjectiveValue,
		"assigned":   len(sched.Assignments),
		"unassigned": len(sched.Diagnostics.Unassigned),
		"nodes":      res.nodes,
		"elapsed":    elapsed.String(),
	})

	if err := e.sink.RecordSolve(metrics.SolveRecord{
		SolveID:    solveID,
		Status:     sched.Diagnostics.Status,
		Objective:  sched.Diagnostics.ObjectiveValue,
		Gap:        sched.Diagnostics.OptimalityGap,
		Duration:   elapsed,
		WorkOrders: len(req.WorkOrders),
		Assigned:   len(sched.Assignments),
		Unassigned: len(sched.Diagnostics.Unassigned),
		Nodes:      res.nodes,
		Time:       start,
	}); err != nil {
		e.log.Warnf("solve metrics: %v", err)
	}
	return sched, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
