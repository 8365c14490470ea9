package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/config"
	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestMemory_UpsertCorralRecordsSnapshot(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	at := time.Date(2024, 1, 6, 17, 0, 0, 0, time.UTC)

	_, err := m.UpsertCorral(ctx, model.CorralUpdate{CorralID: "A", Count: intp(3)}, at)
	assert.ErrorIs(t, err, ErrMissingPosition)

	c, err := m.UpsertCorral(ctx, model.CorralUpdate{CorralID: "A", Count: intp(3), X: floatp(1), Y: floatp(2)}, at)
	require.NoError(t, err)
	assert.Equal(t, model.Corral{ID: "A", X: 1, Y: 2, Count: 3, UpdatedAt: at}, c)

	c, err = m.UpsertCorral(ctx, model.CorralUpdate{CorralID: "A", Count: intp(9)}, at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 9, c.Count)
	assert.Equal(t, 1.0, c.X)

	snaps, err := m.ListSnapshots(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, 5, snaps[0].DayOfWeek)
	assert.Equal(t, 18, snaps[1].Hour)

	later, err := m.ListSnapshots(ctx, at.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Len(t, later, 1)
}

func TestMemory_CorralsSortedAndSeeded(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	n, err := m.SeedCorrals(ctx, []model.Corral{{ID: "B"}, {ID: "A"}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = m.UpsertCorral(ctx, model.CorralUpdate{CorralID: "A", Count: intp(4)}, time.Now())
	require.NoError(t, err)
	n, err = m.SeedCorrals(ctx, []model.Corral{{ID: "A"}, {ID: "C"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := m.ListCorrals(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "A", list[0].ID)
	assert.Equal(t, 4, list[0].Count)

	_, err = m.GetCorral(ctx, "Z")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Shifts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a, err := m.CreateShift(ctx, model.Shift{Worker: "Sam", Shift: "9-5"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	_, err = m.CreateShift(ctx, model.Shift{Worker: "Alex", Shift: "12-8"})
	require.NoError(t, err)
	list, err := m.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alex", list[0].Worker)
}

func TestMemory_RouteRunPagination(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		require.NoError(t, m.SaveRouteRun(ctx, model.RouteRun{ID: fmt.Sprintf("run-%d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	var got []string
	cursor := ""
	for pages := 0; ; pages++ {
		require.Less(t, pages, 10)
		runs, next, err := m.ListRouteRuns(ctx, cursor, 3)
		require.NoError(t, err)
		for _, r := range runs {
			got = append(got, r.ID)
		}
		if next == "" {
			break
		}
		cursor = next
	}
	assert.Equal(t, []string{"run-6", "run-5", "run-4", "run-3", "run-2", "run-1", "run-0"}, got)

	_, _, err := m.ListRouteRuns(ctx, "!!not-a-cursor", 3)
	assert.ErrorIs(t, err, ErrBadCursor)
}

func TestOpen_MemoryWithoutURL(t *testing.T) {
	st, err := Open(context.Background(), config.DatabaseConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, st)
}
