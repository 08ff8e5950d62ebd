package schedule

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// solveRelaxation computes the optimal value of the LP relaxation of the
// assignment model: x in [0,1], at most one slot per order, person-hour
// capacity per slot. The result is a valid lower bound on the integer
// objective (the balance term is nonnegative and relaxed to zero), used to
// report the optimality gap of incumbent solutions.
func solveRelaxation(m *assignModel) (float64, error) {
	type pair struct{ order, cand int }
	var pairs []pair
	for i := range m.orders {
		for ci := range m.cands[i] {
			pairs = append(pairs, pair{i, ci})
		}
	}
	if len(pairs) == 0 {
		return m.lockedCost + m.unassignedCost*float64(len(m.orders)), nil
	}

	// Leaving order w fully unassigned costs the penalty, so in x terms the
	// objective is penalty*|orders| + sum (cost - penalty) * x.
	c := make([]float64, len(pairs))
	for k, p := range pairs {
		c[k] = m.costs[p.order][p.cand] - m.unassignedCost
	}

	nRows := len(m.orders) + len(m.slots)
	g := mat.NewDense(nRows, len(pairs), nil)
	h := make([]float64, nRows)
	for i := range m.orders {
		h[i] = 1
	}
	for si := range m.slots {
		h[len(m.orders)+si] = m.remaining[si]
	}
	for k, p := range pairs {
		g.Set(p.order, k, 1)
		g.Set(len(m.orders)+m.cands[p.order][p.cand], k, m.demand[p.order])
	}

	cStd, aStd, bStd := lp.Convert(c, g, h, nil, nil)
	opt, _, err := lp.Simplex(cStd, aStd, bStd, 1e-7, nil)
	if err != nil {
		return 0, err
	}
	return opt + m.unassignedCost*float64(len(m.orders)) + m.lockedCost, nil
}

// relaxSolve points to the LP solver so tests can simulate failures.
var relaxSolve = solveRelaxation

// lowerBound returns the best available bound on the objective. When the LP
// fails it falls back to the capacity-blind per-order minimum, which is still
// valid.
func (m *assignModel) lowerBound() float64 {
	if b, err := relaxSolve(m); err == nil {
		return b
	}
	bound := m.lockedCost
	for i := range m.orders {
		best := m.unassignedCost
		for _, c := range m.costs[i] {
			if c < best {
				best = c
			}
		}
		bound += best
	}
	return bound
}
