// Command routeopt reads an optimize-route request as JSON on stdin and
// writes the response to stdout. It exits 1 when no route could be built,
// including when the request is not valid JSON.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/config"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/logger"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/opt"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/planner"
)

const reasonInvalidJSON = "invalid_json"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log, err := logger.NewCLI(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}

	code := run(os.Stdin, os.Stdout, opt.Options{
		TimeBudget: cfg.Optimizer.TimeBudget,
		MaxStall:   cfg.Optimizer.MaxStall,
		Alpha:      cfg.Optimizer.Alpha,
	}, log)
	_ = log.Sync()
	os.Exit(code)
}

// run decodes one request from in, writes the response to out and returns
// the exit code: 0 on success, 1 when no route was built, 2 when the
// response could not be written.
func run(in io.Reader, out io.Writer, o opt.Options, log *zap.Logger) int {
	var resp model.OptimizeRouteResponse
	var req model.OptimizeRouteRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		log.Error("decode request", zap.Error(err))
		resp = model.OptimizeRouteResponse{Reason: reasonInvalidJSON, Error: err.Error()}
	} else {
		var res opt.RouteResult
		resp, res = planner.Plan(req, o)
		log.Info("route optimized",
			zap.Bool("success", res.Success),
			zap.Float64("initial", res.Search.InitialCost),
			zap.Float64("distance", res.TotalCost),
			zap.Int("iterations", res.Search.Iterations),
			zap.String("stop", string(res.Search.Stop)),
			zap.Duration("elapsed", res.Search.Elapsed),
		)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		log.Error("encode response", zap.Error(err))
		return 2
	}
	if !resp.Success {
		return 1
	}
	return 0
}
