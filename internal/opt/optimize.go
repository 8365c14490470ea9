package opt

import "fmt"

// Optimize computes a closed route over locs that starts and ends at
// locs[start]. Input problems are reported with an input Reason and no search
// is run. Optimize holds no state between calls and is safe for concurrent use.
func Optimize(locs []Location, start int, o Options) RouteResult {
	if len(locs) == 0 {
		return failure(ReasonNoInput, ErrNoLocations)
	}
	points := make([]Point, len(locs))
	seen := make(map[string]int, len(locs))
	for i, l := range locs {
		if j, dup := seen[l.ID]; dup {
			return failure(ReasonDuplicateID, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateID, l.ID, j, i))
		}
		seen[l.ID] = i
		if !finite(l.X) || !finite(l.Y) {
			return failure(ReasonInvalidCoordinates, fmt.Errorf("%w: location %q (%v, %v)", ErrNonFiniteCoordinate, l.ID, l.X, l.Y))
		}
		points[i] = l.Point
	}
	if start < 0 || start >= len(locs) {
		return failure(ReasonStartOutOfRange, fmt.Errorf("%w: %d not in [0,%d)", ErrStartOutOfRange, start, len(locs)))
	}
	if o.TimeBudget < 0 {
		return failure(ReasonInvalidBudget, fmt.Errorf("%w: %s", ErrNegativeBudget, o.TimeBudget))
	}

	m, err := BuildCostMatrix(points)
	if err != nil {
		return failure(ReasonNoSolution, err)
	}

	initial, err := BuildInitialTour(m, start)
	if err != nil {
		return failure(ReasonNoSolution, err)
	}
	if err := ValidateTour(initial, len(locs), start); err != nil {
		return failure(ReasonNoSolution, fmt.Errorf("%w: construction: %v", ErrNoSolution, err))
	}

	final, sm := Search(initial, m, SearchOptions{TimeBudget: o.TimeBudget, MaxStall: o.MaxStall, Alpha: o.Alpha})
	if err := ValidateTour(final, len(locs), start); err != nil {
		return failure(ReasonNoSolution, fmt.Errorf("%w: search: %v", ErrNoSolution, err))
	}

	route := make([]string, len(final))
	for i, idx := range final {
		route[i] = locs[idx].ID
	}
	return RouteResult{
		Success:   true,
		Route:     route,
		Tour:      final,
		TotalCost: TourCost(m, final),
		Visited:   len(locs) - 1,
		Search:    sm,
	}
}

func failure(r Reason, err error) RouteResult {
	return RouteResult{Reason: r, Err: err}
}
