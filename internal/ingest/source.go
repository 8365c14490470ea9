// Package ingest loads corral snapshots from external sources.
package ingest

import (
	"context"
	"time"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

// Source yields snapshots observed at or after since.
type Source interface {
	Name() string
	Fetch(ctx context.Context, since time.Time) ([]model.Snapshot, error)
}

// Sink accepts snapshots; store.Store satisfies it.
type Sink interface {
	InsertSnapshots(ctx context.Context, snaps []model.Snapshot) (int, error)
}

// Copy fetches from src and writes to dst in batches of batchSize.
func Copy(ctx context.Context, src Source, dst Sink, since time.Time, batchSize int) (int, error) {
	snaps, err := src.Fetch(ctx, since)
	if err != nil {
		return 0, err
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	total := 0
	for len(snaps) > 0 {
		n := min(batchSize, len(snaps))
		k, err := dst.InsertSnapshots(ctx, snaps[:n])
		total += k
		if err != nil {
			return total, err
		}
		snaps = snaps[n:]
	}
	return total, nil
}
