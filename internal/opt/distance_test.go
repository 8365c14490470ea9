package opt

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoints(rng *rand.Rand, n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: rng.Float64() * 1000, Y: rng.Float64() * 1000}
	}
	return pts
}

func TestBuildCostMatrix_Triangle(t *testing.T) {
	m, err := BuildCostMatrix([]Point{{0, 0}, {3, 0}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Size())
	assert.InDelta(t, 3.0, m.At(0, 1), 1e-12)
	assert.InDelta(t, 4.0, m.At(1, 2), 1e-12)
	assert.InDelta(t, 5.0, m.At(0, 2), 1e-12)
}

func TestBuildCostMatrix_SymmetricNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pts := randomPoints(rng, 40)
	m, err := BuildCostMatrix(pts)
	require.NoError(t, err)
	for i := 0; i < m.Size(); i++ {
		assert.Zero(t, m.At(i, i))
		for j := 0; j < m.Size(); j++ {
			assert.GreaterOrEqual(t, m.At(i, j), 0.0)
			assert.Equal(t, m.At(i, j), m.At(j, i))
		}
	}
}

func TestBuildCostMatrix_Errors(t *testing.T) {
	_, err := BuildCostMatrix(nil)
	assert.ErrorIs(t, err, ErrNoLocations)

	for _, bad := range []Point{{math.NaN(), 0}, {0, math.Inf(1)}, {math.Inf(-1), 1}} {
		_, err := BuildCostMatrix([]Point{{0, 0}, bad})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNonFiniteCoordinate), "got %v", err)
	}
}

func TestBuildCostMatrix_CoincidentPoints(t *testing.T) {
	m, err := BuildCostMatrix([]Point{{2, 2}, {2, 2}})
	require.NoError(t, err)
	assert.Zero(t, m.At(0, 1))
}
