package opt

import (
	"fmt"
	"math"
)

// CostMatrix holds pairwise Euclidean distances. It is read-only once built.
type CostMatrix struct {
	n int
	d []float64
}

// BuildCostMatrix computes the symmetric distance matrix for points.
func BuildCostMatrix(points []Point) (*CostMatrix, error) {
	n := len(points)
	if n == 0 {
		return nil, ErrNoLocations
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return nil, fmt.Errorf("%w: index %d (%v, %v)", ErrNonFiniteCoordinate, i, p.X, p.Y)
		}
	}
	cm := &CostMatrix{n: n, d: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := math.Hypot(points[i].X-points[j].X, points[i].Y-points[j].Y)
			cm.d[i*n+j] = v
			cm.d[j*n+i] = v
		}
	}
	return cm, nil
}

func (m *CostMatrix) Size() int { return m.n }

func (m *CostMatrix) At(i, j int) float64 { return m.d[i*m.n+j] }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
