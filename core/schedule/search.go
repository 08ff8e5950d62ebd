package schedule

import (
	"time"
)

// checkInterval bounds how many nodes may be explored between deadline
// checks, keeping cancellation prompt without a syscall per node.
const checkInterval = 256

// searchResult is the raw outcome of one branch-and-bound run.
type searchResult struct {
	assignment []int // slot index per solver order, -1 for unassigned
	objective  float64
	nodes      int64
	completed  bool // state space fully explored or pruned away
	timedOut   bool
}

type searcher struct {
	m          *assignModel
	deadline   time.Time
	nodeBudget int64

	remaining  []float64
	loads      []float64
	current    []int
	optimistic []float64 // suffix sums of per-order best-case cost

	best      []int
	bestValue float64
	haveBest  bool

	nodes    int64
	stopped  bool
	timedOut bool
}

// search runs a depth-first branch and bound over the assignment variables.
// Orders are visited in solver order and slots earliest-first, so among
// equally good solutions the first one found, and therefore the one kept,
// places higher-priority work on earlier slots. The incumbent is valid at
// every point in time: the search can be cut off by the deadline or node
// budget and still return its best solution so far.
func (m *assignModel) search(deadline time.Time, nodeBudget int64) searchResult {
	s := &searcher{
		m:          m,
		deadline:   deadline,
		nodeBudget: nodeBudget,
		remaining:  append([]float64(nil), m.remaining...),
		loads:      append([]float64(nil), m.baseLoad...),
		current:    make([]int, len(m.orders)),
		best:       make([]int, len(m.orders)),
	}

	s.optimistic = make([]float64, len(m.orders)+1)
	for i := len(m.orders) - 1; i >= 0; i-- {
		best := m.unassignedCost
		for _, c := range m.costs[i] {
			if c < best {
				best = c
			}
		}
		s.optimistic[i] = s.optimistic[i+1] + best
	}

	s.descend(0, m.lockedCost)

	return searchResult{
		assignment: s.best,
		objective:  s.bestValue,
		nodes:      s.nodes,
		completed:  !s.stopped,
		timedOut:   s.timedOut,
	}
}

// shouldStop checks the budgets. The search never aborts before the first
// incumbent exists: the initial depth-first descent is the greedy baseline
// every anytime result builds on.
func (s *searcher) shouldStop() bool {
	if s.stopped {
		return true
	}
	if !s.haveBest {
		return false
	}
	if s.nodeBudget > 0 && s.nodes >= s.nodeBudget {
		s.stopped = true
		return true
	}
	if s.nodes%checkInterval == 0 && time.Now().After(s.deadline) {
		s.stopped = true
		s.timedOut = true
		return true
	}
	return false
}

func (s *searcher) descend(depth int, acc float64) {
	if depth == len(s.m.orders) {
		total := acc + s.m.balanceWeight*s.m.spread(s.loads)
		if !s.haveBest || total < s.bestValue {
			s.bestValue = total
			s.haveBest = true
			copy(s.best, s.current)
		}
		return
	}

	// Assign to each feasible candidate slot, earliest first.
	for ci, si := range s.m.cands[depth] {
		if s.remaining[si]+capacityEps < s.m.demand[depth] {
			continue
		}
		child := acc + s.m.costs[depth][ci]
		if s.haveBest && child+s.optimistic[depth+1] >= s.bestValue {
			continue
		}
		s.nodes++
		if s.shouldStop() {
			return
		}
		s.remaining[si] -= s.m.demand[depth]
		s.loads[s.m.tradeOf[depth]] += s.m.demand[depth]
		s.current[depth] = si
		s.descend(depth+1, child)
		s.remaining[si] += s.m.demand[depth]
		s.loads[s.m.tradeOf[depth]] -= s.m.demand[depth]
		if s.stopped {
			return
		}
	}

	// Leave the order unassigned at the penalty cost.
	child := acc + s.m.unassignedCost
	if s.haveBest && child+s.optimistic[depth+1] >= s.bestValue {
		return
	}
	s.nodes++
	if s.shouldStop() {
		return
	}
	s.current[depth] = -1
	s.descend(depth+1, child)
}
