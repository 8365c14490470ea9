package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu      sync.Mutex
	corrals map[string]model.Corral
	snaps   []model.Snapshot
	shifts  map[string]model.Shift
	runs    []model.RouteRun
}

func NewMemory() *Memory {
	return &Memory{
		corrals: map[string]model.Corral{},
		shifts:  map[string]model.Shift{},
	}
}

func (m *Memory) ListCorrals(_ context.Context) ([]model.Corral, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Corral, 0, len(m.corrals))
	for _, c := range m.corrals {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetCorral(_ context.Context, id string) (model.Corral, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.corrals[id]
	if !ok {
		return model.Corral{}, ErrNotFound
	}
	return c, nil
}

func (m *Memory) UpsertCorral(_ context.Context, upd model.CorralUpdate, at time.Time) (model.Corral, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.corrals[upd.CorralID]
	if !ok {
		if upd.X == nil || upd.Y == nil {
			return model.Corral{}, fmt.Errorf("%w: %s", ErrMissingPosition, upd.CorralID)
		}
		c.ID = upd.CorralID
	}
	if upd.X != nil {
		c.X = *upd.X
	}
	if upd.Y != nil {
		c.Y = *upd.Y
	}
	if upd.Count != nil {
		c.Count = *upd.Count
		m.snaps = append(m.snaps, model.NewSnapshot(c.ID, c.Count, at))
	}
	c.UpdatedAt = at
	m.corrals[c.ID] = c
	return c, nil
}

func (m *Memory) SeedCorrals(_ context.Context, corrals []model.Corral) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	added := 0
	for _, c := range corrals {
		if _, ok := m.corrals[c.ID]; ok {
			continue
		}
		m.corrals[c.ID] = c
		added++
	}
	return added, nil
}

func (m *Memory) InsertSnapshots(_ context.Context, snaps []model.Snapshot) (int, error) {
	m.mu.Lock()
	m.snaps = append(m.snaps, snaps...)
	m.mu.Unlock()
	return len(snaps), nil
}

func (m *Memory) ListSnapshots(_ context.Context, since time.Time) ([]model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Snapshot{}
	for _, s := range m.snaps {
		if !s.Timestamp.Before(since) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (m *Memory) ListShifts(_ context.Context) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Shift, 0, len(m.shifts))
	for _, s := range m.shifts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Worker != out[j].Worker {
			return out[i].Worker < out[j].Worker
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) CreateShift(_ context.Context, s model.Shift) (model.Shift, error) {
	s.ID = uuid.NewString()
	m.mu.Lock()
	m.shifts[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Memory) SaveRouteRun(_ context.Context, run model.RouteRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	sort.SliceStable(m.runs, func(i, j int) bool {
		return runBefore(m.runs[i].CreatedAt, m.runs[i].ID, m.runs[j].CreatedAt, m.runs[j].ID)
	})
	return nil
}

func (m *Memory) ListRouteRuns(_ context.Context, cursor string, limit int) ([]model.RouteRun, string, error) {
	limit = pageSize(limit)
	var afterAt time.Time
	var afterID string
	if cursor != "" {
		var err error
		if afterAt, afterID, err = decodeCursor(cursor); err != nil {
			return nil, "", err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.RouteRun{}
	for _, r := range m.runs {
		if cursor != "" && !runBefore(afterAt, afterID, r.CreatedAt, r.ID) {
			continue
		}
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	var next string
	if len(out) == limit {
		last := out[len(out)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	return out, next, nil
}
