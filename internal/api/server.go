package api

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/auth"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/config"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/demand"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/ingest"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/opt"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/store"
)

// Topic all corral and route events are published on.
const corralTopic = "corrals"

type Server struct {
	Store     store.Store
	Broker    EventBroker
	Predictor *demand.Predictor
	Cfg       *config.Config
	Log       *zap.Logger
	Auth      *auth.Verifier

	now func() time.Time
}

// NewServer wires the store, broker and predictor selected by cfg. Without a
// DATABASE_URL it uses the in-memory store; without a REDIS_URL it uses the
// in-process broker.
func NewServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	st, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if cfg.Server.SeedLayout {
		n, err := st.SeedCorrals(ctx, ingest.DefaultLayout())
		if err != nil {
			return nil, err
		}
		log.Info("corral layout seeded", zap.Int("added", n))
	}

	var broker EventBroker = NewBroker()
	if cfg.Redis.URL != "" {
		rb, err := NewRedisBroker(cfg.Redis.URL, log)
		if err != nil {
			log.Warn("redis broker unavailable, using in-process broker", zap.Error(err))
		} else {
			broker = rb
		}
	}

	m, err := demand.Load(cfg.Demand.ModelPath)
	switch {
	case errors.Is(err, demand.ErrModelNotFound):
		log.Warn("demand model not found; predictions disabled until trained", zap.String("path", cfg.Demand.ModelPath))
	case err != nil:
		log.Error("demand model failed to load", zap.Error(err))
	default:
		log.Info("demand model loaded", zap.Int("corrals", len(m.Corrals)), zap.Time("trained_at", m.TrainedAt))
	}

	return &Server{
		Store:     st,
		Broker:    broker,
		Predictor: demand.NewPredictor(m),
		Cfg:       cfg,
		Log:       log,
		Auth:      auth.NewVerifier(cfg.Auth.Mode, cfg.Auth.HMACSecret),
		now:       time.Now,
	}, nil
}

func (s *Server) optOptions() opt.Options {
	return opt.Options{
		TimeBudget: s.Cfg.Optimizer.TimeBudget,
		MaxStall:   s.Cfg.Optimizer.MaxStall,
		Alpha:      s.Cfg.Optimizer.Alpha,
	}
}

// Close releases the store and broker connections.
func (s *Server) Close() error {
	var errs []error
	if c, ok := s.Broker.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := s.Store.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
