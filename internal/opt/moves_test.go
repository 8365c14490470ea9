package opt

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every move's predicted delta must match the cost change after applying it.
func TestMoves_DeltaMatchesApply(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := mustMatrix(t, randomPoints(rng, 9))
	base, err := BuildInitialTour(m, 0)
	require.NoError(t, err)
	n := m.Size()

	var moves []move
	for i := 1; i < n-1; i++ {
		for k := i + 1; k < n; k++ {
			moves = append(moves, move{kind: move2Opt, i: i, k: k})
		}
	}
	for seg := 1; seg <= maxSegment; seg++ {
		for i := 1; i+seg-1 <= n-1; i++ {
			for j := 0; j < n; j++ {
				if j >= i-1 && j <= i+seg-1 {
					continue
				}
				moves = append(moves, move{kind: moveOrOpt, i: i, j: j, seg: seg}, move{kind: moveOrOpt, i: i, j: j, seg: seg, rev: true})
			}
		}
	}

	before := TourCost(m, base)
	for _, mv := range moves {
		tour := base.clone()
		d := mv.deltaWith(tour, m.At)
		mv.apply(tour)
		require.NoError(t, ValidateTour(tour, n, 0), "%+v", mv)
		assert.InDelta(t, before+d, TourCost(m, tour), 1e-6, "%+v", mv)
	}
}

func TestBestMove_UncrossesSquare(t *testing.T) {
	m := mustMatrix(t, []Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}})
	crossed := Tour{0, 1, 2, 3, 0}
	mv, ok := bestMove(crossed, m.At, time.Time{})
	require.True(t, ok)
	require.True(t, mv.improves())
	mv.apply(crossed)
	assert.InDelta(t, 4.0, TourCost(m, crossed), 1e-9)
}

func TestBestMove_AbandonsScanPastDeadline(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := mustMatrix(t, randomPoints(rng, 200))
	tour, err := BuildInitialTour(m, 0)
	require.NoError(t, err)

	mv, ok := bestMove(tour, m.At, time.Now().Add(-time.Second))
	assert.False(t, ok)
	assert.False(t, mv.improves())

	_, ok = bestMove(tour, m.At, time.Now().Add(time.Minute))
	assert.True(t, ok)
}
