package opt

import "time"

// edge is an unordered node pair used as the penalty key.
type edge struct{ a, b int }

func makeEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

// SearchOptions control one run of the guided local search.
type SearchOptions struct {
	TimeBudget time.Duration
	MaxStall   int
	Alpha      float64
}

// Improve runs guided local search from initial for at most budget and
// returns the best tour found. It never returns a tour costlier than initial,
// and a zero budget returns initial unchanged.
func Improve(initial Tour, m *CostMatrix, budget time.Duration) Tour {
	t, _ := Search(initial, m, SearchOptions{TimeBudget: budget})
	return t
}

// Search is Improve with explicit options and run metrics.
//
// Each iteration applies the best move under raw distance. When none
// improves, the tour is a raw local optimum: the edges of maximum utility
// d(e)/(1+p(e)) get their penalty incremented and the best move under the
// augmented cost d(e) + lambda*p(e) is applied, even if it costs raw
// distance. Penalties live only for this call. The best raw-cost tour seen
// is what gets returned. The deadline is also checked inside each
// neighbourhood scan, so a run overshoots its budget by at most a few
// thousand move evaluations.
func Search(initial Tour, m *CostMatrix, o SearchOptions) (Tour, SearchMetrics) {
	started := time.Now()
	cur := initial.clone()
	best := initial.clone()
	met := SearchMetrics{InitialCost: TourCost(m, cur)}
	met.BestCost = met.InitialCost

	n := m.Size()
	switch {
	case o.TimeBudget <= 0:
		met.Stop = StopZeroBudget
		return best, met
	case n <= 3:
		met.Stop = StopTrivial
		return best, met
	}
	if o.MaxStall <= 0 {
		o.MaxStall = DefaultMaxStall
	}
	if o.Alpha <= 0 {
		o.Alpha = DefaultAlpha
	}

	penalties := make(map[edge]int)
	lambda := 0.0
	raw := m.At
	augmented := func(a, b int) float64 {
		if p := penalties[makeEdge(a, b)]; p > 0 {
			return m.At(a, b) + lambda*float64(p)
		}
		return m.At(a, b)
	}

	curCost := met.InitialCost
	stall := 0
	deadline := started.Add(o.TimeBudget)
	met.Stop = StopDeadline
	for time.Now().Before(deadline) {
		met.Iterations++
		mv, ok := bestMove(cur, raw, deadline)
		if !ok {
			break
		}
		if mv.improves() {
			mv.apply(cur)
			curCost += mv.delta
			met.Improvements++
		} else {
			if curCost <= tieEps {
				met.Stop = StopStalled
				break
			}
			if lambda == 0 {
				lambda = o.Alpha * curCost / float64(n)
			}
			penalize(cur, m, penalties)
			met.PenaltyUpdates++

			gm, ok := bestMove(cur, augmented, deadline)
			if !ok {
				break
			}
			if gm.improves() {
				curCost += gm.deltaWith(cur, raw)
				gm.apply(cur)
				met.GuidedMoves++
			}
		}

		if curCost < met.BestCost-tieEps {
			copy(best, cur)
			curCost = TourCost(m, cur)
			met.BestCost = curCost
			stall = 0
			continue
		}
		stall++
		if stall >= o.MaxStall {
			met.Stop = StopStalled
			break
		}
	}
	met.Elapsed = time.Since(started)
	return best, met
}

// penalize increments the penalty of every tour edge whose utility ties the maximum.
func penalize(t Tour, m *CostMatrix, penalties map[edge]int) {
	maxUtil := -1.0
	for i := 0; i+1 < len(t); i++ {
		e := makeEdge(t[i], t[i+1])
		if u := m.At(e.a, e.b) / float64(1+penalties[e]); u > maxUtil {
			maxUtil = u
		}
	}
	var hit []edge
	for i := 0; i+1 < len(t); i++ {
		e := makeEdge(t[i], t[i+1])
		if u := m.At(e.a, e.b) / float64(1+penalties[e]); u >= maxUtil-tieEps {
			hit = append(hit, e)
		}
	}
	for _, e := range hit {
		penalties[e]++
	}
}
