package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/metrics"
)

// Routes registers every endpoint on a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Routing
	mux.HandleFunc("/v1/optimize-route", s.OptimizeRouteHandler)

	// Corrals and live updates
	mux.HandleFunc("/v1/corrals", s.CorralsHandler)
	mux.HandleFunc("/v1/corrals/stream", s.CorralStreamHandler)
	mux.HandleFunc("/v1/corrals/ws", s.CorralWSHandler)

	mux.HandleFunc("/v1/shifts", s.ShiftsHandler)
	mux.HandleFunc("/v1/predictions", s.PredictionsHandler)

	// Admin
	mux.HandleFunc("/v1/admin/demand/train", s.RequireAdmin(s.TrainDemandHandler))
	mux.HandleFunc("/v1/admin/route-runs", s.RequireAdmin(s.RouteRunsHandler))

	// Health
	mux.HandleFunc("/healthz", s.HealthHandler)
	mux.HandleFunc("/readyz", s.ReadyHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/info", s.DebugJSON)
	return mux
}

// Handler is the full middleware chain around Routes.
func (s *Server) Handler() http.Handler {
	mux := s.Routes()
	return Instrument(mux, s.Log, RateLimit(s.Cfg.RateLimit.RPS, s.Cfg.RateLimit.Burst, mux))
}
