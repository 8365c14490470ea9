//go:build postgres_integration

package store

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

func TestPostgres_CorralsSnapshotsAndRuns(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	ctx := t.Context()
	p, err := NewPostgres(dsn, PostgresOptions{MaxOpenConns: 4}, nil)
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.Ping(ctx))
	require.NoError(t, p.MigrateDir(ctx, "../../db/migrations"))

	id := "it-" + time.Now().Format("150405.000000")
	at := time.Now().UTC().Truncate(time.Microsecond)
	_, err = p.UpsertCorral(ctx, model.CorralUpdate{CorralID: id, Count: intp(1)}, at)
	assert.ErrorIs(t, err, ErrMissingPosition)

	c, err := p.UpsertCorral(ctx, model.CorralUpdate{CorralID: id, Count: intp(7), X: floatp(1), Y: floatp(2)}, at)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Count)
	got, err := p.GetCorral(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Y)

	snaps, err := p.ListSnapshots(ctx, at)
	require.NoError(t, err)
	found := false
	for _, s := range snaps {
		found = found || s.CorralID == id
	}
	assert.True(t, found)

	require.NoError(t, p.SaveRouteRun(ctx, model.RouteRun{ID: uuid.NewString(), CreatedAt: at, Corrals: 3, Success: true}))
	runs, _, err := p.ListRouteRuns(ctx, "", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, runs)
}
