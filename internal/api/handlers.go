package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/demand"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/metrics"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/store"
)

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity when using Postgres store
	type pinger interface{ Ping(ctx context.Context) error }
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready", "demandModel": s.Predictor.Model() != nil})
}

type corralView struct {
	model.Corral
	Severity string `json:"severity"`
}

// CorralsHandler handles GET/POST /v1/corrals
func (s *Server) CorralsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		corrals, err := s.Store.ListCorrals(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List corrals failed", err.Error(), r.URL.Path)
			return
		}
		items := make([]corralView, 0, len(corrals))
		for _, c := range corrals {
			items = append(items, corralView{Corral: c, Severity: model.Severity(c.Count)})
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		var upd model.CorralUpdate
		if err := decodeJSON(w, r, &upd); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateStruct(upd); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid corral update", err.Error(), r.URL.Path)
			return
		}
		c, err := s.Store.UpsertCorral(r.Context(), upd, s.now().UTC())
		switch {
		case errors.Is(err, store.ErrMissingPosition):
			writeProblem(w, http.StatusBadRequest, "Invalid corral update", err.Error(), r.URL.Path)
			return
		case err != nil:
			writeProblem(w, http.StatusInternalServerError, "Update corral failed", err.Error(), r.URL.Path)
			return
		}
		sev := model.Severity(c.Count)
		s.Broker.Publish(corralTopic, model.Event{Type: model.EventCorralUpdated, Data: map[string]any{
			"corralId":  c.ID,
			"count":     c.Count,
			"severity":  sev,
			"updatedAt": c.UpdatedAt.Format(time.RFC3339),
		}})
		s.Log.Info("corral updated", zap.String("corral", c.ID), zap.Int("count", c.Count))
		writeJSON(w, http.StatusOK, corralView{Corral: c, Severity: sev})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ShiftsHandler handles GET/POST /v1/shifts
func (s *Server) ShiftsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, err := s.Store.ListShifts(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List shifts failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		var in model.Shift
		if err := decodeJSON(w, r, &in); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if err := validateStruct(in); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid shift", err.Error(), r.URL.Path)
			return
		}
		sh, err := s.Store.CreateShift(r.Context(), in)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create shift failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, sh)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// PredictionsHandler handles GET /v1/predictions?corralId=A[&dayOfWeek=0][&hour=17].
// Without hour it returns the whole day.
func (s *Server) PredictionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	corral := q.Get("corralId")
	if corral == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid prediction request", "corralId required", r.URL.Path)
		return
	}
	now := s.now()
	dow := model.MondayIndex(now.Weekday())
	if v := q.Get("dayOfWeek"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid prediction request", "dayOfWeek must be an integer", r.URL.Path)
			return
		}
		dow = n
	}

	var (
		items []model.Prediction
		err   error
	)
	if v := q.Get("hour"); v != "" {
		hour, perr := strconv.Atoi(v)
		if perr != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid prediction request", "hour must be an integer", r.URL.Path)
			return
		}
		var val float64
		if val, err = s.Predictor.Predict(corral, hour, dow); err == nil {
			items = []model.Prediction{{CorralID: corral, DayOfWeek: dow, Hour: hour, ExpectedCarts: val}}
		}
	} else {
		items, err = s.Predictor.PredictDay(corral, dow)
	}

	switch {
	case err == nil:
		metrics.DemandPredictions.WithLabelValues("ok").Inc()
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case errors.Is(err, demand.ErrNotTrained):
		metrics.DemandPredictions.WithLabelValues("not_trained").Inc()
		writeProblem(w, http.StatusServiceUnavailable, "Demand model not trained", err.Error(), r.URL.Path)
	case errors.Is(err, demand.ErrUnknownCorral):
		metrics.DemandPredictions.WithLabelValues("unknown_corral").Inc()
		writeProblem(w, http.StatusNotFound, "Unknown corral", err.Error(), r.URL.Path)
	case errors.Is(err, demand.ErrInvalidHour), errors.Is(err, demand.ErrInvalidDay):
		metrics.DemandPredictions.WithLabelValues("invalid").Inc()
		writeProblem(w, http.StatusBadRequest, "Invalid prediction request", err.Error(), r.URL.Path)
	default:
		metrics.DemandPredictions.WithLabelValues("error").Inc()
		writeProblem(w, http.StatusInternalServerError, "Prediction failed", err.Error(), r.URL.Path)
	}
}

// RouteRunsHandler handles GET /v1/admin/route-runs?cursor=&limit=
func (s *Server) RouteRunsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", err.Error(), r.URL.Path)
			return
		}
		limit = n
	}
	items, next, err := s.Store.ListRouteRuns(r.Context(), r.URL.Query().Get("cursor"), limit)
	switch {
	case errors.Is(err, store.ErrBadCursor):
		writeProblem(w, http.StatusBadRequest, "Invalid cursor", err.Error(), r.URL.Path)
		return
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "List route runs failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// TrainDemandHandler handles POST /v1/admin/demand/train. It retrains on the
// configured history window, persists the model and swaps it in.
func (s *Server) TrainDemandHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	now := s.now().UTC()
	since := now.AddDate(0, 0, -s.Cfg.Demand.HistoryDays)
	snaps, err := s.Store.ListSnapshots(r.Context(), since)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List snapshots failed", err.Error(), r.URL.Path)
		return
	}
	aggs := demand.AggregateSnapshots(snaps, s.Cfg.Demand.MinObservations)
	m, err := demand.Train(aggs, demand.DefaultTrainOptions(), now)
	switch {
	case errors.Is(err, demand.ErrNoData):
		writeProblem(w, http.StatusConflict, "Not enough history", err.Error(), r.URL.Path)
		return
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "Training failed", err.Error(), r.URL.Path)
		return
	}
	if err := demand.Save(m, s.Cfg.Demand.ModelPath); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save model failed", err.Error(), r.URL.Path)
		return
	}
	s.Predictor.SetModel(m)
	s.Log.Info("demand model trained",
		zap.Int("snapshots", len(snaps)),
		zap.Int("corrals", m.Report.Corrals),
		zap.Float64("mae", m.Report.MAE),
		zap.Float64("r2", m.Report.R2),
	)
	writeJSON(w, http.StatusOK, map[string]any{"trainedAt": m.TrainedAt, "report": m.Report})
}
