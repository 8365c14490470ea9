// Package planner turns optimize-route requests into opt.Optimize calls and
// shapes the result for callers.
package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/opt"
)

const Method = "cheapest-insertion+gls"

// MsgNoCorrals is the error text for an empty request.
const MsgNoCorrals = "No corrals provided"

// ErrMissingCoordinate marks a corral sent without x or y.
var ErrMissingCoordinate = errors.New("planner: missing coordinate")

// Plan resolves the depot, runs the optimizer and builds the response. The
// returned RouteResult carries the search metrics and failure reason.
func Plan(req model.OptimizeRouteRequest, defaults opt.Options) (model.OptimizeRouteResponse, opt.RouteResult) {
	if req.Corrals.Len() == 0 {
		res := opt.RouteResult{Reason: opt.ReasonNoInput, Err: opt.ErrNoLocations}
		return failed(res, MsgNoCorrals), res
	}

	locs := make([]opt.Location, 0, req.Corrals.Len())
	demand := map[string]int{}
	start := -1
	for i, id := range req.Corrals.IDs {
		c := req.Corrals.ByID[id]
		if c.X == nil || c.Y == nil {
			res := opt.RouteResult{
				Reason: opt.ReasonInvalidCoordinates,
				Err:    fmt.Errorf("%w: corral %q needs both x and y", ErrMissingCoordinate, id),
			}
			return failed(res, res.Err.Error()), res
		}
		locs = append(locs, opt.Location{ID: id, Point: opt.Point{X: *c.X, Y: *c.Y}})
		if c.Count != nil {
			demand[id] = *c.Count
		}
		if id == req.Depot {
			start = i
		}
	}
	switch {
	case req.Depot == "":
		start = 0
	case start < 0:
		res := opt.RouteResult{
			Reason: opt.ReasonStartOutOfRange,
			Err:    fmt.Errorf("%w: depot %q is not among the corrals", opt.ErrStartOutOfRange, req.Depot),
		}
		return failed(res, res.Err.Error()), res
	}

	o := defaults
	switch {
	case req.TimeBudgetMs > 0:
		o.TimeBudget = time.Duration(req.TimeBudgetMs) * time.Millisecond
	case req.TimeBudgetMs < 0:
		o.TimeBudget = -1
	}

	res := opt.Optimize(locs, start, o)
	if !res.Success {
		return failed(res, res.Err.Error()), res
	}
	resp := model.OptimizeRouteResponse{
		Success:        true,
		OptimizedRoute: res.Route,
		TotalDistance:  res.TotalCost,
		CorralsCovered: res.Visited,
		Method:         Method,
	}
	if len(demand) > 0 {
		resp.Demand = demand
	}
	return resp, res
}

func failed(res opt.RouteResult, msg string) model.OptimizeRouteResponse {
	return model.OptimizeRouteResponse{Success: false, Reason: string(res.Reason), Error: msg}
}
