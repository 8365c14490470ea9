package opt

import "fmt"

// tieEps is the margin a candidate must beat the incumbent by to replace it.
const tieEps = 1e-9

// BuildInitialTour builds a closed tour by cheapest insertion starting from
// [start, start]. At each step the unrouted node and position with the
// smallest marginal cost win; ties go to the lowest node index, then the
// earliest position.
//
// Each unrouted node caches its cheapest insertion edge, named by the edge's
// first node. An insertion only replaces one edge with two, so a cached
// entry is rescanned only when its edge was the one split.
func BuildInitialTour(m *CostMatrix, start int) (Tour, error) {
	n := m.Size()
	if start < 0 || start >= n {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrStartOutOfRange, start, n)
	}
	tour := make(Tour, 0, n+1)
	tour = append(tour, start, start)
	routed := make([]bool, n)
	routed[start] = true
	// pos[v] is the index of v's outgoing edge; the start's is 0.
	pos := make([]int, n)

	insertCost := func(a, u, b int) float64 {
		return m.At(a, u) + m.At(u, b) - m.At(a, b)
	}
	bestDelta := make([]float64, n)
	bestPred := make([]int, n)
	rescan := func(u int) {
		bestPred[u] = -1
		for p := 0; p+1 < len(tour); p++ {
			d := insertCost(tour[p], u, tour[p+1])
			if bestPred[u] < 0 || d < bestDelta[u]-tieEps {
				bestPred[u], bestDelta[u] = tour[p], d
			}
		}
	}
	offer := func(u, a, b int) {
		d := insertCost(a, u, b)
		if d < bestDelta[u]-tieEps || (d <= bestDelta[u]+tieEps && pos[a] < pos[bestPred[u]]) {
			bestPred[u], bestDelta[u] = a, d
		}
	}
	for u := 0; u < n; u++ {
		if !routed[u] {
			rescan(u)
		}
	}

	for added := 1; added < n; added++ {
		w := -1
		for u := 0; u < n; u++ {
			if routed[u] {
				continue
			}
			if w < 0 || bestDelta[u] < bestDelta[w]-tieEps {
				w = u
			}
		}
		a := bestPred[w]
		at := pos[a] + 1
		b := tour[at]
		tour = append(tour, 0)
		copy(tour[at+1:], tour[at:])
		tour[at] = w
		routed[w] = true
		for i := at; i < len(tour)-1; i++ {
			pos[tour[i]] = i
		}

		for u := 0; u < n; u++ {
			if routed[u] {
				continue
			}
			if bestPred[u] == a {
				rescan(u)
				continue
			}
			offer(u, a, w)
			offer(u, w, b)
		}
	}
	return tour, nil
}
