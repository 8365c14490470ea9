// Command demand manages corral history and the demand model offline.
//
//	demand import -csv snapshots.csv
//	demand seed -days 90
//	demand train [-out models/demand.yaml] [-synthetic 0]
//	demand predict -corral A -day 5 [-hour 17]
//	demand token -sub ops -ttl 24h
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/auth"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/config"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/demand"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/ingest"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/logger"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/store"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: demand <import|seed|train|predict|token> [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.NewCLI(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	ctx := context.Background()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "import":
		err = runImport(ctx, cfg, log, args)
	case "seed":
		err = runSeed(ctx, cfg, log, args)
	case "train":
		err = runTrain(ctx, cfg, log, args)
	case "predict":
		err = runPredict(cfg, args)
	case "token":
		err = runToken(cfg, args)
	default:
		usage()
	}
	if err != nil {
		log.Error(cmd+" failed", zap.Error(err))
		os.Exit(1)
	}
}

func runImport(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	path := fs.String("csv", "", "CSV file of corral_id,cart_count,timestamp[,is_holiday]")
	batch := fs.Int("batch", 500, "insert batch size")
	_ = fs.Parse(args)
	if *path == "" {
		return fmt.Errorf("-csv is required")
	}
	return copyInto(ctx, cfg, log, ingest.CSVSource{Path: *path}, *batch)
}

func runSeed(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	days := fs.Int("days", 90, "days of hourly history to generate")
	seed := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	_ = fs.Parse(args)
	return copyInto(ctx, cfg, log, synthetic(*days, *seed), 1000)
}

func synthetic(days int, seed int64) ingest.Synthetic {
	layout := ingest.DefaultLayout()
	ids := make([]string, len(layout))
	for i, c := range layout {
		ids[i] = c.ID
	}
	return ingest.Synthetic{Corrals: ids, Days: days, End: time.Now(), Rand: rand.New(rand.NewSource(seed))}
}

func copyInto(ctx context.Context, cfg *config.Config, log *zap.Logger, src ingest.Source, batch int) error {
	st, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore(st)
	if _, err := st.SeedCorrals(ctx, ingest.DefaultLayout()); err != nil {
		return err
	}
	n, err := ingest.Copy(ctx, src, st, time.Time{}, batch)
	log.Info("snapshots imported", zap.String("source", src.Name()), zap.Int("rows", n))
	return err
}

func runTrain(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	out := fs.String("out", cfg.Demand.ModelPath, "model output path")
	synth := fs.Int("synthetic", 0, "generate this many days of synthetic history first")
	_ = fs.Parse(args)

	st, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore(st)
	if *synth > 0 {
		if _, err := ingest.Copy(ctx, synthetic(*synth, 42), st, time.Time{}, 1000); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	snaps, err := st.ListSnapshots(ctx, now.AddDate(0, 0, -cfg.Demand.HistoryDays))
	if err != nil {
		return err
	}
	m, err := demand.Train(demand.AggregateSnapshots(snaps, cfg.Demand.MinObservations), demand.DefaultTrainOptions(), now)
	if err != nil {
		return err
	}
	if err := demand.Save(m, *out); err != nil {
		return err
	}
	log.Info("demand model saved",
		zap.String("path", *out),
		zap.Int("snapshots", len(snaps)),
		zap.Int("train", m.Report.TrainSamples),
		zap.Int("test", m.Report.TestSamples),
		zap.Int("unscored", m.Report.Unscored),
		zap.Float64("mae", m.Report.MAE),
		zap.Float64("rmse", m.Report.RMSE),
		zap.Float64("r2", m.Report.R2),
	)
	return nil
}

func runPredict(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	path := fs.String("model", cfg.Demand.ModelPath, "model path")
	corral := fs.String("corral", "", "corral id")
	day := fs.Int("day", 0, "day of week, 0=Monday")
	hour := fs.Int("hour", -1, "hour of day; omit for the whole day")
	_ = fs.Parse(args)

	m, err := demand.Load(*path)
	if err != nil {
		return err
	}
	p := demand.NewPredictor(m)
	enc := json.NewEncoder(os.Stdout)
	if *hour < 0 {
		preds, err := p.PredictDay(*corral, *day)
		if err != nil {
			return err
		}
		return enc.Encode(preds)
	}
	v, err := p.Predict(*corral, *hour, *day)
	if err != nil {
		return err
	}
	return enc.Encode(map[string]any{"corralId": *corral, "dayOfWeek": *day, "hour": *hour, "expectedCarts": v})
}

// runToken prints an admin bearer token for the /v1/admin endpoints.
func runToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	sub := fs.String("sub", "ops", "token subject")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	_ = fs.Parse(args)
	if cfg.Auth.HMACSecret == "" {
		return fmt.Errorf("AUTH_HMAC_SECRET is not set")
	}
	tok, err := auth.Sign([]byte(cfg.Auth.HMACSecret), map[string]any{
		"sub":  *sub,
		"role": "admin",
		"exp":  time.Now().Add(*ttl).Unix(),
	})
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

func closeStore(st store.Store) {
	if c, ok := st.(interface{ Close() error }); ok {
		_ = c.Close()
	}
}
