package schedule

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/maintops/crewsched/core/model"
)

func newTestEngine() *Engine { return New(nil, nil) }

func weekHorizon() model.Horizon { return model.HorizonFrom(dateOf(2025, 1, 6), 7) }

func checkCapacityInvariant(t *testing.T, req SolveRequest, sched *model.Schedule) {
	t.Helper()
	slots, _ := ExpandSlots(req.Horizon, req.Shifts)
	capacity := make(map[model.SlotID]float64, len(slots))
	for _, s := range slots {
		capacity[s.ID] = s.CapacityPersonHours
	}
	conflicted := make(map[model.SlotID]bool)
	for _, c := range sched.Diagnostics.LockConflicts {
		conflicted[c.Slot] = true
	}
	usage := make(map[model.SlotID]float64)
	for _, a := range sched.Assignments {
		usage[a.Slot] += a.ConsumedPersonHours
	}
	for id, used := range usage {
		if conflicted[id] {
			continue // overflow is reported, locked orders stay in place
		}
		if used > capacity[id]+capacityEps {
			t.Fatalf("slot %s over capacity: %v > %v", id.Key(), used, capacity[id])
		}
	}
}

func TestSolveScenarioTwoOrdersOneSlot(t *testing.T) {
	due := dateOf(2025, 1, 6)
	req := SolveRequest{
		WorkOrders: []model.WorkOrder{
			{ID: "wo-1", Trade: "mech", DurationHours: 8, PersonsRequired: 1, PriorityWeight: 1, DueDate: &due},
			{ID: "wo-2", Trade: "mech", DurationHours: 8, PersonsRequired: 1, PriorityWeight: 1, DueDate: &due},
		},
		Shifts:  []model.ShiftDefinition{weekdayShift("mech", 8, 2)},
		Horizon: model.HorizonFrom(dateOf(2025, 1, 6), 1),
	}
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sched.Diagnostics.Status != model.StatusOptimal {
		t.Fatalf("expected OPTIMAL got %s", sched.Diagnostics.Status)
	}
	if len(sched.Assignments) != 2 {
		t.Fatalf("expected both orders assigned, got %d", len(sched.Assignments))
	}
	for _, a := range sched.Assignments {
		if !a.Slot.Date.Equal(dateOf(2025, 1, 6)) {
			t.Fatalf("expected assignment on 2025-01-06 got %s", a.Slot.Date)
		}
		if a.LatenessDays != 0 {
			t.Fatalf("expected zero lateness got %d", a.LatenessDays)
		}
	}
	if sched.Diagnostics.ObjectiveValue != 0 {
		t.Fatalf("expected objective 0 got %v", sched.Diagnostics.ObjectiveValue)
	}
	checkCapacityInvariant(t, req, sched)
}

func TestSolveScenarioCapacityExhausted(t *testing.T) {
	due := dateOf(2025, 1, 6)
	var orders []model.WorkOrder
	for i := 1; i <= 3; i++ {
		orders = append(orders, model.WorkOrder{
			ID: fmt.Sprintf("wo-%d", i), Trade: "mech",
			DurationHours: 8, PersonsRequired: 1, PriorityWeight: float64(i), DueDate: &due,
		})
	}
	req := SolveRequest{
		WorkOrders: orders,
		Shifts:     []model.ShiftDefinition{weekdayShift("mech", 8, 2)},
		Horizon:    model.HorizonFrom(dateOf(2025, 1, 6), 1),
	}
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(sched.Assignments) != 2 {
		t.Fatalf("expected exactly 2 assigned got %d", len(sched.Assignments))
	}
	if len(sched.Diagnostics.Unassigned) != 1 {
		t.Fatalf("expected 1 unassigned got %d", len(sched.Diagnostics.Unassigned))
	}
	u := sched.Diagnostics.Unassigned[0]
	if u.Reason != model.ReasonCapacityExhausted {
		t.Fatalf("expected CAPACITY_EXHAUSTED got %s", u.Reason)
	}
	// The lowest-priority order loses the capacity competition.
	if u.WorkOrderID != "wo-1" {
		t.Fatalf("expected wo-1 unassigned got %s", u.WorkOrderID)
	}
	checkCapacityInvariant(t, req, sched)
}

func TestSolveScenarioLockConflict(t *testing.T) {
	lock := model.SlotID{Trade: "mech", Date: dateOf(2025, 1, 6)}
	var orders []model.WorkOrder
	for i := 1; i <= 3; i++ {
		orders = append(orders, model.WorkOrder{
			ID: fmt.Sprintf("wo-l%d", i), Trade: "mech",
			DurationHours: 8, PersonsRequired: 1, PriorityWeight: 1, LockedSlot: &lock,
		})
	}
	orders = append(orders, model.WorkOrder{
		ID: "wo-free", Trade: "mech", DurationHours: 8, PersonsRequired: 1, PriorityWeight: 1,
	})
	req := SolveRequest{
		WorkOrders: orders,
		Shifts:     []model.ShiftDefinition{weekdayShift("mech", 8, 2)},
		Horizon:    model.HorizonFrom(dateOf(2025, 1, 6), 2),
	}
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sched.Diagnostics.Status != model.StatusInfeasible {
		t.Fatalf("expected INFEASIBLE got %s", sched.Diagnostics.Status)
	}
	if len(sched.Diagnostics.LockConflicts) != 1 {
		t.Fatalf("expected one lock conflict got %d", len(sched.Diagnostics.LockConflicts))
	}
	c := sched.Diagnostics.LockConflicts[0]
	if c.Slot != lock || c.OverflowPersonHours != 8 {
		t.Fatalf("unexpected conflict %+v", c)
	}
	// Locked orders stay exactly at their locked slot.
	for i := 1; i <= 3; i++ {
		a, ok := sched.AssignmentFor(fmt.Sprintf("wo-l%d", i))
		if !ok || a.Slot != lock || !a.Locked {
			t.Fatalf("locked order wo-l%d misplaced: %+v", i, a)
		}
	}
	// The rest of the schedule still solves: the free order lands on Tuesday.
	a, ok := sched.AssignmentFor("wo-free")
	if !ok || !a.Slot.Date.Equal(dateOf(2025, 1, 7)) {
		t.Fatalf("free order should be assigned to the next day, got %+v", a)
	}
}

func TestSolveNoCompatibleSlotBoundary(t *testing.T) {
	dead := model.ShiftDefinition{Trade: "paint", ShiftDurationHours: 8, TechniciansPerCrew: 1}
	req := SolveRequest{
		WorkOrders: []model.WorkOrder{
			{ID: "wo-1", Trade: "paint", DurationHours: 4, PersonsRequired: 1, PriorityWeight: 1},
		},
		Shifts:  []model.ShiftDefinition{dead, weekdayShift("mech", 8, 2)},
		Horizon: weekHorizon(),
	}
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if len(sched.Diagnostics.Unassigned) != 1 {
		t.Fatalf("expected one unassigned order")
	}
	if got := sched.Diagnostics.Unassigned[0].Reason; got != model.ReasonNoCompatibleSlot {
		t.Fatalf("expected NO_COMPATIBLE_SLOT got %s", got)
	}
	if len(sched.Diagnostics.ConfigurationIssues) == 0 {
		t.Fatalf("expected a configuration issue for the slotless trade")
	}
}

func TestSolveRejectsMalformedInput(t *testing.T) {
	base := SolveRequest{
		Shifts:  []model.ShiftDefinition{weekdayShift("mech", 8, 2)},
		Horizon: weekHorizon(),
	}
	cases := []model.WorkOrder{
		{ID: "wo-1", Trade: "mech", DurationHours: -2, PersonsRequired: 1, PriorityWeight: 1},
		{ID: "wo-1", Trade: "mech", DurationHours: 4, PersonsRequired: 0, PriorityWeight: 1},
		{ID: "wo-1", Trade: "welding", DurationHours: 4, PersonsRequired: 1, PriorityWeight: 1},
	}
	for i, w := range cases {
		req := base
		req.WorkOrders = []model.WorkOrder{w}
		if _, err := newTestEngine().Solve(req); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}

	req := base
	req.WorkOrders = []model.WorkOrder{
		{ID: "wo-1", Trade: "mech", DurationHours: 4, PersonsRequired: 1, PriorityWeight: 1},
		{ID: "wo-1", Trade: "mech", DurationHours: 4, PersonsRequired: 1, PriorityWeight: 1},
	}
	if _, err := newTestEngine().Solve(req); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestSolveEmptyBacklog(t *testing.T) {
	req := SolveRequest{
		Shifts:  []model.ShiftDefinition{weekdayShift("mech", 8, 2)},
		Horizon: weekHorizon(),
	}
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sched.Diagnostics.Status != model.StatusOptimal {
		t.Fatalf("expected OPTIMAL got %s", sched.Diagnostics.Status)
	}
	if len(sched.Assignments) != 0 || sched.Diagnostics.ObjectiveValue != 0 {
		t.Fatalf("empty backlog should yield an empty optimal schedule")
	}
}

func TestSolveDeterminism(t *testing.T) {
	due := dateOf(2025, 1, 8)
	var orders []model.WorkOrder
	for i := 0; i < 8; i++ {
		orders = append(orders, model.WorkOrder{
			ID: fmt.Sprintf("wo-%d", i), Trade: "mech",
			DurationHours: 8, PersonsRequired: 1,
			PriorityWeight: float64(1 + i%3), DueDate: &due,
		})
	}
	req := SolveRequest{
		WorkOrders: orders,
		Shifts:     []model.ShiftDefinition{weekdayShift("mech", 8, 2)},
		Horizon:    weekHorizon(),
	}
	eng := newTestEngine()
	first, err := eng.Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	second, err := eng.Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !reflect.DeepEqual(first.Assignments, second.Assignments) {
		t.Fatalf("assignments differ between identical runs")
	}
	if first.Diagnostics.ObjectiveValue != second.Diagnostics.ObjectiveValue {
		t.Fatalf("objective differs between identical runs")
	}
	if !reflect.DeepEqual(first.Diagnostics.Unassigned, second.Diagnostics.Unassigned) {
		t.Fatalf("unassigned sets differ between identical runs")
	}
}

func TestSolvePriorityMonotonicity(t *testing.T) {
	due := dateOf(2025, 1, 6)
	mkReq := func(prioA float64) SolveRequest {
		return SolveRequest{
			WorkOrders: []model.WorkOrder{
				{ID: "wo-a", Trade: "mech", DurationHours: 8, PersonsRequired: 1, PriorityWeight: prioA, DueDate: &due},
				{ID: "wo-b", Trade: "mech", DurationHours: 8, PersonsRequired: 1, PriorityWeight: 2, DueDate: &due},
			},
			Shifts:  []model.ShiftDefinition{weekdayShift("mech", 8, 1)},
			Horizon: model.HorizonFrom(dateOf(2025, 1, 6), 2),
		}
	}
	eng := newTestEngine()

	low, err := eng.Solve(mkReq(1))
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	aLow, ok := low.AssignmentFor("wo-a")
	if !ok {
		t.Fatalf("wo-a unassigned")
	}

	high, err := eng.Solve(mkReq(3))
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	aHigh, ok := high.AssignmentFor("wo-a")
	if !ok {
		t.Fatalf("wo-a unassigned")
	}
	if aHigh.LatenessDays > aLow.LatenessDays {
		t.Fatalf("raising priority increased own lateness: %d > %d", aHigh.LatenessDays, aLow.LatenessDays)
	}
	if aHigh.LatenessDays != 0 {
		t.Fatalf("highest-priority order should take the on-time slot")
	}
}

func TestSolveSafetyCriticalBoost(t *testing.T) {
	due := dateOf(2025, 1, 6)
	req := SolveRequest{
		WorkOrders: []model.WorkOrder{
			{ID: "wo-normal", Trade: "mech", DurationHours: 8, PersonsRequired: 1, PriorityWeight: 2, DueDate: &due},
			{ID: "wo-safety", Trade: "mech", DurationHours: 8, PersonsRequired: 1, PriorityWeight: 1.5, SafetyCritical: true, DueDate: &due},
		},
		Shifts:  []model.ShiftDefinition{weekdayShift("mech", 8, 1)},
		Horizon: model.HorizonFrom(dateOf(2025, 1, 6), 2),
		Rules:   model.PrioritizationRules{SafetyCriticalBoost: 2},
	}
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	a, ok := sched.AssignmentFor("wo-safety")
	if !ok || a.LatenessDays != 0 {
		t.Fatalf("boosted safety-critical order should take the on-time slot, got %+v", a)
	}
}

func bigRequest() SolveRequest {
	var orders []model.WorkOrder
	for i := 0; i < 30; i++ {
		due := dateOf(2025, 1, 6+(i%5))
		orders = append(orders, model.WorkOrder{
			ID: fmt.Sprintf("wo-%02d", i), Trade: "mech",
			DurationHours: 8, PersonsRequired: 1,
			PriorityWeight: float64(1 + i%5), DueDate: &due,
		})
	}
	return SolveRequest{
		WorkOrders: orders,
		Shifts:     []model.ShiftDefinition{weekdayShift("mech", 8, 2)},
		Horizon:    model.HorizonFrom(dateOf(2025, 1, 6), 12),
	}
}

func TestSolveTimeoutReturnsIncumbent(t *testing.T) {
	req := bigRequest()
	req.TimeBudget = time.Nanosecond
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sched.Diagnostics.Status != model.StatusTimeout {
		t.Fatalf("expected TIMEOUT got %s", sched.Diagnostics.Status)
	}
	if len(sched.Assignments) == 0 {
		t.Fatalf("anytime search must still return its incumbent")
	}
	checkCapacityInvariant(t, req, sched)
}

func TestSolveNodeBudgetReportsGap(t *testing.T) {
	req := bigRequest()
	req.TimeBudget = time.Minute
	req.NodeBudget = 400
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sched.Diagnostics.Status != model.StatusFeasible {
		t.Fatalf("expected FEASIBLE got %s", sched.Diagnostics.Status)
	}
	if sched.Diagnostics.OptimalityGap < 0 {
		t.Fatalf("gap must not be negative, got %v", sched.Diagnostics.OptimalityGap)
	}
	checkCapacityInvariant(t, req, sched)
}

func TestLowerBoundFallback(t *testing.T) {
	old := relaxSolve
	relaxSolve = func(*assignModel) (float64, error) { return 0, errors.New("fail") }
	defer func() { relaxSolve = old }()

	due := dateOf(2025, 1, 6)
	req := SolveRequest{
		WorkOrders: []model.WorkOrder{
			{ID: "wo-1", Trade: "mech", DurationHours: 8, PersonsRequired: 1, PriorityWeight: 1, DueDate: &due},
		},
		Shifts:  []model.ShiftDefinition{weekdayShift("mech", 8, 2)},
		Horizon: model.HorizonFrom(dateOf(2025, 1, 6), 1),
	}
	req.Rules.SetDefaults()
	slots, _ := ExpandSlots(req.Horizon, req.Shifts)
	f := buildCandidates(req.WorkOrders, slots)
	m := buildModel(req, slots, f)
	if got := m.lowerBound(); got != 0 {
		t.Fatalf("fallback bound should be 0, got %v", got)
	}
}

func TestSolveWorkloadTotals(t *testing.T) {
	req := SolveRequest{
		WorkOrders: []model.WorkOrder{
			{ID: "wo-1", Trade: "mech", DurationHours: 6, PersonsRequired: 2, PriorityWeight: 1},
			{ID: "wo-2", Trade: "elec", DurationHours: 4, PersonsRequired: 1, PriorityWeight: 1},
		},
		Shifts: []model.ShiftDefinition{
			weekdayShift("mech", 8, 2),
			weekdayShift("elec", 8, 1),
		},
		Horizon: weekHorizon(),
	}
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	loads := make(map[string]float64)
	for _, wl := range sched.Workloads {
		loads[wl.Trade] = wl.PersonHours
	}
	if loads["mech"] != 12 || loads["elec"] != 4 {
		t.Fatalf("unexpected workloads %v", loads)
	}
	// Nothing is late, so the objective is exactly the weighted imbalance:
	// 1.0 * (12 - 4) person-hours.
	if got := sched.Diagnostics.ObjectiveValue; got != 8 {
		t.Fatalf("expected imbalance objective 8, got %v", got)
	}
}

func TestSolveBalancePrefersEvenWorkload(t *testing.T) {
	// The mech slot fits either the 8h or the 4h order, never both, and the
	// unassigned penalty is identical either way. Only the imbalance term
	// distinguishes the two schedules: keeping the 4h order levels mech with
	// elec at 4 person-hours each.
	req := SolveRequest{
		WorkOrders: []model.WorkOrder{
			{ID: "wo-a1", Trade: "mech", DurationHours: 8, PersonsRequired: 1, PriorityWeight: 1},
			{ID: "wo-a2", Trade: "mech", DurationHours: 4, PersonsRequired: 1, PriorityWeight: 1},
			{ID: "wo-b1", Trade: "elec", DurationHours: 4, PersonsRequired: 1, PriorityWeight: 1},
		},
		Shifts: []model.ShiftDefinition{
			weekdayShift("mech", 8, 1),
			weekdayShift("elec", 8, 1),
		},
		Horizon: model.HorizonFrom(dateOf(2025, 1, 6), 1),
	}
	sched, err := newTestEngine().Solve(req)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if sched.Diagnostics.Status != model.StatusOptimal {
		t.Fatalf("expected OPTIMAL got %s", sched.Diagnostics.Status)
	}
	if _, ok := sched.AssignmentFor("wo-a2"); !ok {
		t.Fatalf("balance term should keep the workload-levelling order")
	}
	if len(sched.Diagnostics.Unassigned) != 1 || sched.Diagnostics.Unassigned[0].WorkOrderID != "wo-a1" {
		t.Fatalf("expected wo-a1 unassigned, got %v", sched.Diagnostics.Unassigned)
	}
	// Penalty for the dropped order plus a zero spread.
	if got := sched.Diagnostics.ObjectiveValue; got != 1e6 {
		t.Fatalf("expected objective 1e6, got %v", got)
	}
	checkCapacityInvariant(t, req, sched)
}
