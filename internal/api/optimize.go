package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/metrics"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/planner"
)

// OptimizeRouteHandler handles POST /v1/optimize-route. Failures keep the
// response shape so clients can always read success and error.
func (s *Server) OptimizeRouteHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.OptimizeRouteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.OptimizeRouteResponse{Reason: "invalid_json", Error: err.Error()})
		return
	}
	if err := validateOptimizeRouteRequest(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.OptimizeRouteResponse{Reason: "invalid_request", Error: err.Error()})
		return
	}

	started := time.Now()
	resp, res := planner.Plan(req, s.optOptions())
	elapsed := time.Since(started)

	outcome := "ok"
	if !res.Success {
		outcome = string(res.Reason)
	}
	metrics.RouteOptimizations.WithLabelValues(outcome).Inc()
	metrics.RouteOptimizeDuration.Observe(elapsed.Seconds())
	if res.Success {
		metrics.SearchIterations.Observe(float64(res.Search.Iterations))
		if res.Search.InitialCost > 0 {
			metrics.RouteImprovement.Observe(1 - res.Search.BestCost/res.Search.InitialCost)
		}
	}

	depot := req.Depot
	if depot == "" && req.Corrals.Len() > 0 {
		depot = req.Corrals.IDs[0]
	}
	run := model.RouteRun{
		ID:              uuid.NewString(),
		CreatedAt:       s.now().UTC(),
		Depot:           depot,
		Corrals:         req.Corrals.Len(),
		Success:         res.Success,
		Reason:          string(res.Reason),
		InitialDistance: res.Search.InitialCost,
		TotalDistance:   res.TotalCost,
		Iterations:      res.Search.Iterations,
		Improvements:    res.Search.Improvements,
		GuidedMoves:     res.Search.GuidedMoves,
		StopReason:      string(res.Search.Stop),
		ElapsedMs:       elapsed.Milliseconds(),
	}
	if err := s.Store.SaveRouteRun(r.Context(), run); err != nil {
		s.Log.Warn("save route run failed", zap.String("run", run.ID), zap.Error(err))
	} else {
		resp.RunID = run.ID
	}

	s.Log.Info("route optimized",
		zap.String("run", run.ID),
		zap.Bool("success", res.Success),
		zap.String("reason", run.Reason),
		zap.Int("corrals", run.Corrals),
		zap.Float64("distance", res.TotalCost),
		zap.Int("iterations", res.Search.Iterations),
		zap.String("stop", run.StopReason),
		zap.Duration("elapsed", elapsed),
	)

	status := http.StatusOK
	switch {
	case res.Success:
		s.Broker.Publish(corralTopic, model.Event{Type: model.EventRouteOptimized, Data: map[string]any{
			"runId":          run.ID,
			"optimizedRoute": resp.OptimizedRoute,
			"totalDistance":  resp.TotalDistance,
			"corralsCovered": resp.CorralsCovered,
		}})
	case res.Reason.InputError():
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, resp)
}
