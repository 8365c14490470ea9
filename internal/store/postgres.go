package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

type PostgresOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type Postgres struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewPostgres(dsn string, o PostgresOptions, logger *zap.Logger) (*Postgres, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if o.MaxOpenConns > 0 {
		db.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		db.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(o.ConnMaxLifetime)
	}
	logger.Info("postgres connected", zap.Int("max_open_conns", o.MaxOpenConns))
	return &Postgres{db: db, logger: logger}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *Postgres) Close() error { return p.db.Close() }

// MigrateDir applies every *.up.sql file in dir in lexical order. Migrations
// must be idempotent.
func (p *Postgres) MigrateDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	for _, f := range files {
		body, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", f, err)
		}
		if _, err := p.db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("apply migration %s: %w", f, err)
		}
		p.logger.Info("migration applied", zap.String("file", f))
	}
	return nil
}

const corralCols = `id, x, y, cart_count, updated_at`

func (p *Postgres) ListCorrals(ctx context.Context) ([]model.Corral, error) {
	out := []model.Corral{}
	if err := p.db.SelectContext(ctx, &out, `SELECT `+corralCols+` FROM corrals ORDER BY id`); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Postgres) GetCorral(ctx context.Context, id string) (model.Corral, error) {
	var c model.Corral
	err := p.db.GetContext(ctx, &c, `SELECT `+corralCols+` FROM corrals WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Corral{}, ErrNotFound
	}
	return c, err
}

func (p *Postgres) UpsertCorral(ctx context.Context, upd model.CorralUpdate, at time.Time) (model.Corral, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Corral{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var c model.Corral
	err = tx.GetContext(ctx, &c, `SELECT `+corralCols+` FROM corrals WHERE id=$1 FOR UPDATE`, upd.CorralID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if upd.X == nil || upd.Y == nil {
			return model.Corral{}, fmt.Errorf("%w: %s", ErrMissingPosition, upd.CorralID)
		}
		c.ID = upd.CorralID
	case err != nil:
		return model.Corral{}, err
	}
	if upd.X != nil {
		c.X = *upd.X
	}
	if upd.Y != nil {
		c.Y = *upd.Y
	}
	if upd.Count != nil {
		c.Count = *upd.Count
	}
	c.UpdatedAt = at.UTC()
	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO corrals (id, x, y, cart_count, updated_at)
		VALUES (:id, :x, :y, :cart_count, :updated_at)
		ON CONFLICT (id) DO UPDATE SET x=EXCLUDED.x, y=EXCLUDED.y, cart_count=EXCLUDED.cart_count, updated_at=EXCLUDED.updated_at`, c); err != nil {
		return model.Corral{}, err
	}
	if upd.Count != nil {
		if _, err := tx.NamedExecContext(ctx, insertSnapshotSQL, model.NewSnapshot(c.ID, c.Count, c.UpdatedAt)); err != nil {
			return model.Corral{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Corral{}, err
	}
	return c, nil
}

func (p *Postgres) SeedCorrals(ctx context.Context, corrals []model.Corral) (int, error) {
	if len(corrals) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	rows := make([]model.Corral, len(corrals))
	for i, c := range corrals {
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = now
		}
		rows[i] = c
	}
	res, err := p.db.NamedExecContext(ctx, `
		INSERT INTO corrals (id, x, y, cart_count, updated_at)
		VALUES (:id, :x, :y, :cart_count, :updated_at)
		ON CONFLICT (id) DO NOTHING`, rows)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

const insertSnapshotSQL = `
	INSERT INTO corral_snapshots (corral_id, cart_count, ts, hour, day_of_week, is_holiday)
	VALUES (:corral_id, :cart_count, :ts, :hour, :day_of_week, :is_holiday)`

// snapshotBatch keeps multi-row inserts under the Postgres parameter limit.
const snapshotBatch = 1000

func (p *Postgres) InsertSnapshots(ctx context.Context, snaps []model.Snapshot) (int, error) {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()
	for start := 0; start < len(snaps); start += snapshotBatch {
		end := min(start+snapshotBatch, len(snaps))
		if _, err := tx.NamedExecContext(ctx, insertSnapshotSQL, snaps[start:end]); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(snaps), nil
}

func (p *Postgres) ListSnapshots(ctx context.Context, since time.Time) ([]model.Snapshot, error) {
	out := []model.Snapshot{}
	err := p.db.SelectContext(ctx, &out, `
		SELECT corral_id, cart_count, ts, hour, day_of_week, is_holiday
		FROM corral_snapshots WHERE ts >= $1 ORDER BY ts`, since.UTC())
	return out, err
}

func (p *Postgres) ListShifts(ctx context.Context) ([]model.Shift, error) {
	out := []model.Shift{}
	err := p.db.SelectContext(ctx, &out, `SELECT id::text AS id, worker, shift FROM shifts ORDER BY worker, id`)
	return out, err
}

func (p *Postgres) CreateShift(ctx context.Context, s model.Shift) (model.Shift, error) {
	s.ID = uuid.NewString()
	_, err := p.db.NamedExecContext(ctx, `INSERT INTO shifts (id, worker, shift) VALUES (:id, :worker, :shift)`, s)
	return s, err
}

func (p *Postgres) SaveRouteRun(ctx context.Context, run model.RouteRun) error {
	run.CreatedAt = run.CreatedAt.UTC()
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO route_runs (id, created_at, depot, corrals, success, reason, initial_distance,
			total_distance, iterations, improvements, guided_moves, stop_reason, elapsed_ms)
		VALUES (:id, :created_at, :depot, :corrals, :success, :reason, :initial_distance,
			:total_distance, :iterations, :improvements, :guided_moves, :stop_reason, :elapsed_ms)`, run)
	return err
}

const runCols = `id::text AS id, created_at, depot, corrals, success, reason, initial_distance,
	total_distance, iterations, improvements, guided_moves, stop_reason, elapsed_ms`

func (p *Postgres) ListRouteRuns(ctx context.Context, cursor string, limit int) ([]model.RouteRun, string, error) {
	limit = pageSize(limit)
	out := []model.RouteRun{}
	var err error
	if cursor != "" {
		at, id, cerr := decodeCursor(cursor)
		if cerr != nil {
			return nil, "", cerr
		}
		err = p.db.SelectContext(ctx, &out, `SELECT `+runCols+` FROM route_runs
			WHERE (created_at, id::text) < ($1, $2)
			ORDER BY created_at DESC, id::text DESC LIMIT $3`, at, id, limit)
	} else {
		err = p.db.SelectContext(ctx, &out, `SELECT `+runCols+` FROM route_runs
			ORDER BY created_at DESC, id::text DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, "", err
	}
	var next string
	if len(out) == limit {
		last := out[len(out)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	return out, next, nil
}
