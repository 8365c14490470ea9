package api

import (
	"net/http"
	"time"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/buildinfo"
)

func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	c := s.Cfg
	info := map[string]any{
		"build": buildinfo.Info(),
		"time":  s.now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"PORT":                c.Server.Port,
			"RATE_RPS":            c.RateLimit.RPS,
			"RATE_BURST":          c.RateLimit.Burst,
			"OPT_TIME_BUDGET_MS":  c.Optimizer.TimeBudget.Milliseconds(),
			"OPT_MAX_STALL":       c.Optimizer.MaxStall,
			"DEMAND_MODEL_PATH":   c.Demand.ModelPath,
			"DEMAND_HISTORY_DAYS": c.Demand.HistoryDays,
			"HAS_DATABASE_URL":    c.Database.URL != "",
			"HAS_REDIS_URL":       c.Redis.URL != "",
		},
		"demandModelLoaded": s.Predictor.Model() != nil,
	}
	writeJSON(w, http.StatusOK, info)
}
