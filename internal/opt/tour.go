package opt

import "fmt"

// TourCost sums the edge costs of a closed tour.
func TourCost(m *CostMatrix, t Tour) float64 {
	total := 0.0
	for i := 0; i+1 < len(t); i++ {
		total += m.At(t[i], t[i+1])
	}
	return total
}

// ValidateTour checks that t is a closed tour over n nodes anchored at start.
func ValidateTour(t Tour, n, start int) error {
	if len(t) != n+1 {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidTour, len(t), n+1)
	}
	if t[0] != start || t[n] != start {
		return fmt.Errorf("%w: must start and end at %d", ErrInvalidTour, start)
	}
	seen := make([]bool, n)
	for _, v := range t[:n] {
		if v < 0 || v >= n {
			return fmt.Errorf("%w: node %d out of range", ErrInvalidTour, v)
		}
		if seen[v] {
			return fmt.Errorf("%w: node %d visited twice", ErrInvalidTour, v)
		}
		seen[v] = true
	}
	return nil
}

func (t Tour) clone() Tour { return append(Tour(nil), t...) }
