package opt

import (
	"errors"
	"time"
)

// Point is a planar coordinate in arbitrary consistent units.
type Point struct{ X, Y float64 }

// Location is a named point to visit. IDs must be unique within a request.
type Location struct {
	ID string
	Point
}

// Tour is a closed visiting sequence over node indices: len == N+1 and the
// first and last entries are the start node.
type Tour []int

// Reason classifies why an optimization did not produce a route.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNoInput            Reason = "no_input"
	ReasonInvalidCoordinates Reason = "invalid_coordinates"
	ReasonDuplicateID        Reason = "duplicate_id"
	ReasonStartOutOfRange    Reason = "start_out_of_range"
	ReasonInvalidBudget      Reason = "invalid_budget"
	ReasonNoSolution         Reason = "no_solution"
)

// InputError reports whether r was caused by the caller's data rather than the search.
func (r Reason) InputError() bool {
	switch r {
	case ReasonNoInput, ReasonInvalidCoordinates, ReasonDuplicateID, ReasonStartOutOfRange, ReasonInvalidBudget:
		return true
	}
	return false
}

var (
	ErrNoLocations         = errors.New("opt: no locations")
	ErrNonFiniteCoordinate = errors.New("opt: non-finite coordinate")
	ErrDuplicateID         = errors.New("opt: duplicate location id")
	ErrStartOutOfRange     = errors.New("opt: start index out of range")
	ErrNegativeBudget      = errors.New("opt: negative time budget")
	ErrNoSolution          = errors.New("opt: no feasible tour")
	ErrInvalidTour         = errors.New("opt: invalid tour")
)

// Options tune a single Optimize call. The zero value performs no search;
// use DefaultOptions for the production settings.
type Options struct {
	TimeBudget time.Duration
	// MaxStall caps iterations without a new best tour; <= 0 uses DefaultMaxStall.
	MaxStall int
	// Alpha scales the penalty weight relative to the mean edge cost; <= 0 uses DefaultAlpha.
	Alpha float64
}

const (
	DefaultTimeBudget = 5 * time.Second
	DefaultMaxStall   = 5000
	DefaultAlpha      = 0.3
)

func DefaultOptions() Options {
	return Options{TimeBudget: DefaultTimeBudget, MaxStall: DefaultMaxStall, Alpha: DefaultAlpha}
}

// RouteResult is the outcome of Optimize. On success Route holds the location
// IDs in visiting order with the start repeated at the end.
type RouteResult struct {
	Success   bool
	Route     []string
	Tour      Tour
	TotalCost float64
	// Visited counts distinct locations on the route, excluding the start.
	Visited int
	Reason  Reason
	Err     error
	Search  SearchMetrics
}

// StopReason records why the local search returned.
type StopReason string

const (
	StopDeadline   StopReason = "deadline"
	StopStalled    StopReason = "stalled"
	StopTrivial    StopReason = "trivial"
	StopZeroBudget StopReason = "zero_budget"
)

type SearchMetrics struct {
	Iterations     int
	Improvements   int
	GuidedMoves    int
	PenaltyUpdates int
	InitialCost    float64
	BestCost       float64
	Elapsed        time.Duration
	Stop           StopReason
}
