package store

import (
	"context"
	"errors"
	"time"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

// Store is the persistence interface used by the API server and tooling.
type Store interface {
	// Corrals
	ListCorrals(ctx context.Context) ([]model.Corral, error)
	GetCorral(ctx context.Context, id string) (model.Corral, error)
	// UpsertCorral applies upd and records a snapshot of the new count at at.
	UpsertCorral(ctx context.Context, upd model.CorralUpdate, at time.Time) (model.Corral, error)
	// SeedCorrals inserts corrals that do not exist yet and leaves the rest alone.
	SeedCorrals(ctx context.Context, corrals []model.Corral) (int, error)

	// Snapshots
	InsertSnapshots(ctx context.Context, snaps []model.Snapshot) (int, error)
	ListSnapshots(ctx context.Context, since time.Time) ([]model.Snapshot, error)

	// Shifts
	ListShifts(ctx context.Context) ([]model.Shift, error)
	CreateShift(ctx context.Context, s model.Shift) (model.Shift, error)

	// Route runs, newest first.
	SaveRouteRun(ctx context.Context, run model.RouteRun) error
	ListRouteRuns(ctx context.Context, cursor string, limit int) ([]model.RouteRun, string, error)
}

var (
	ErrNotFound = errors.New("not found")
	// ErrMissingPosition is returned when a new corral is created without coordinates.
	ErrMissingPosition = errors.New("new corral needs x and y")
	ErrBadCursor       = errors.New("invalid cursor")
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func pageSize(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return defaultPageSize
	}
	return limit
}
