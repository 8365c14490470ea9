package opt

import (
	"errors"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions() Options {
	return Options{TimeBudget: 200 * time.Millisecond, MaxStall: 500}
}

func TestOptimize_Triangle(t *testing.T) {
	locs := []Location{{"A", Point{0, 0}}, {"B", Point{3, 0}}, {"C", Point{3, 4}}}
	res := Optimize(locs, 0, fastOptions())
	require.True(t, res.Success, "%v", res.Err)
	assert.InDelta(t, 12.0, res.TotalCost, 1e-9)
	assert.Equal(t, "A", res.Route[0])
	assert.Equal(t, "A", res.Route[len(res.Route)-1])
	assert.ElementsMatch(t, []string{"A", "B", "C"}, res.Route[:3])
	assert.Equal(t, 2, res.Visited)
}

func TestOptimize_Collinear(t *testing.T) {
	var locs []Location
	for i := 0; i < 4; i++ {
		locs = append(locs, Location{strconv.Itoa(i), Point{float64(i), 0}})
	}
	res := Optimize(locs, 0, fastOptions())
	require.True(t, res.Success)
	assert.InDelta(t, 6.0, res.TotalCost, 1e-9)
}

func TestOptimize_StartNotFirst(t *testing.T) {
	locs := []Location{{"A", Point{0, 0}}, {"B", Point{3, 0}}, {"C", Point{3, 4}}, {"D", Point{0, 4}}}
	res := Optimize(locs, 2, fastOptions())
	require.True(t, res.Success)
	assert.Equal(t, "C", res.Route[0])
	assert.Equal(t, "C", res.Route[len(res.Route)-1])
	assert.InDelta(t, 14.0, res.TotalCost, 1e-9)
}

func TestOptimize_Single(t *testing.T) {
	res := Optimize([]Location{{"A", Point{7, 7}}}, 0, fastOptions())
	require.True(t, res.Success)
	assert.Equal(t, []string{"A", "A"}, res.Route)
	assert.Zero(t, res.TotalCost)
	assert.Zero(t, res.Visited)
}

func TestOptimize_InputErrors(t *testing.T) {
	ok := []Location{{"A", Point{0, 0}}, {"B", Point{1, 0}}}
	cases := []struct {
		name   string
		locs   []Location
		start  int
		opts   Options
		reason Reason
		err    error
	}{
		{"empty", nil, 0, fastOptions(), ReasonNoInput, ErrNoLocations},
		{"duplicate", []Location{{"A", Point{0, 0}}, {"A", Point{1, 1}}}, 0, fastOptions(), ReasonDuplicateID, ErrDuplicateID},
		{"nan", []Location{{"A", Point{0, 0}}, {"B", Point{math.NaN(), 1}}}, 0, fastOptions(), ReasonInvalidCoordinates, ErrNonFiniteCoordinate},
		{"inf", []Location{{"A", Point{math.Inf(1), 0}}}, 0, fastOptions(), ReasonInvalidCoordinates, ErrNonFiniteCoordinate},
		{"start high", ok, 2, fastOptions(), ReasonStartOutOfRange, ErrStartOutOfRange},
		{"start negative", ok, -1, fastOptions(), ReasonStartOutOfRange, ErrStartOutOfRange},
		{"negative budget", ok, 0, Options{TimeBudget: -time.Second}, ReasonInvalidBudget, ErrNegativeBudget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Optimize(tc.locs, tc.start, tc.opts)
			assert.False(t, res.Success)
			assert.Equal(t, tc.reason, res.Reason)
			assert.True(t, res.Reason.InputError())
			assert.True(t, errors.Is(res.Err, tc.err), "got %v", res.Err)
			assert.Nil(t, res.Route)
		})
	}
}

func TestOptimize_ZeroBudgetMatchesConstruction(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	pts := randomPoints(rng, 15)
	locs := make([]Location, len(pts))
	for i, p := range pts {
		locs[i] = Location{ID: strconv.Itoa(i), Point: p}
	}
	res := Optimize(locs, 0, Options{})
	require.True(t, res.Success)

	m := mustMatrix(t, pts)
	initial, err := BuildInitialTour(m, 0)
	require.NoError(t, err)
	assert.Equal(t, initial, res.Tour)
	assert.Equal(t, StopZeroBudget, res.Search.Stop)
}

func TestOptimize_RouteVisitsEachOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	pts := randomPoints(rng, 24)
	locs := make([]Location, len(pts))
	for i, p := range pts {
		locs[i] = Location{ID: string(rune('A' + i)), Point: p}
	}
	res := Optimize(locs, 5, fastOptions())
	require.True(t, res.Success)
	require.Len(t, res.Route, len(locs)+1)
	assert.Equal(t, "F", res.Route[0])
	assert.Equal(t, "F", res.Route[len(locs)])
	seen := map[string]bool{}
	for _, id := range res.Route[:len(locs)] {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, len(locs))
	assert.LessOrEqual(t, res.Search.BestCost, res.Search.InitialCost+1e-9)
}

func TestOptimize_Concurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pts := randomPoints(rng, 12)
	locs := make([]Location, len(pts))
	for i, p := range pts {
		locs[i] = Location{ID: strconv.Itoa(i), Point: p}
	}
	opts := Options{TimeBudget: 5 * time.Second, MaxStall: 200}
	want := Optimize(locs, 0, opts)
	require.True(t, want.Success)

	var wg sync.WaitGroup
	results := make([]RouteResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Optimize(locs, 0, opts)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, want.Route, r.Route)
	}
}
