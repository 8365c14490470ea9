package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

// CSVSource reads corral_id,cart_count,timestamp[,is_holiday] rows with
// RFC3339 timestamps. A header row is skipped when present.
type CSVSource struct {
	Path string
}

func (s CSVSource) Name() string { return "csv" }

func (s CSVSource) Fetch(ctx context.Context, since time.Time) ([]model.Snapshot, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(ctx, f, since)
}

// ReadCSV parses snapshots from r, dropping rows before since.
func ReadCSV(ctx context.Context, r io.Reader, since time.Time) ([]model.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []model.Snapshot
	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(rec[0], "corral_id") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("ingest: line %d: want at least 3 fields, got %d", line, len(rec))
		}
		count, err := strconv.Atoi(rec[1])
		if err != nil || count < 0 {
			return nil, fmt.Errorf("ingest: line %d: bad cart_count %q", line, rec[1])
		}
		ts, err := time.Parse(time.RFC3339, rec[2])
		if err != nil {
			return nil, fmt.Errorf("ingest: line %d: %w", line, err)
		}
		if ts.Before(since) {
			continue
		}
		snap := model.NewSnapshot(strings.TrimSpace(rec[0]), count, ts)
		if len(rec) > 3 && rec[3] != "" {
			if snap.IsHoliday, err = strconv.ParseBool(rec[3]); err != nil {
				return nil, fmt.Errorf("ingest: line %d: bad is_holiday %q", line, rec[3])
			}
		}
		out = append(out, snap)
	}
}
