// Package store persists a warehouse run to SQL: the initial product, location and pallet
// tables plus the stream of movement snapshots. Both sqlite and postgres share one schema.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/inference-sim/warehouse-sim/sim"
)

// Compile-time assertion that Store can be attached to a Simulator.
var _ sim.SnapshotSink = (*Store)(nil)

// Dialect selects the SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ValidDialects is the set of recognized dialect names.
var ValidDialects = map[string]bool{string(DialectSQLite): true, string(DialectPostgres): true}

const defaultSQLitePath = "warehouse.db"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed BIGINT NOT NULL,
		pallets INTEGER NOT NULL,
		started_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		run_id TEXT NOT NULL REFERENCES runs(id),
		id INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		units_per_pallet INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		run_id TEXT NOT NULL REFERENCES runs(id),
		id INTEGER NOT NULL,
		label VARCHAR(255) NOT NULL,
		area VARCHAR(255) NOT NULL CHECK (area IN ('Floor', 'LoadingDock', 'Buffer', 'Storage')),
		product_id INTEGER,
		max_pallets INTEGER NOT NULL,
		PRIMARY KEY (run_id, id),
		CHECK ((area = 'Floor' AND product_id IS NOT NULL) OR (area IN ('LoadingDock', 'Buffer', 'Storage') AND product_id IS NULL))
	)`,
	`CREATE TABLE IF NOT EXISTS pallets (
		run_id TEXT NOT NULL REFERENCES runs(id),
		id INTEGER NOT NULL,
		product_id INTEGER,
		location_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		PRIMARY KEY (run_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS movements (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		day INTEGER NOT NULL,
		step INTEGER NOT NULL,
		event VARCHAR(50) NOT NULL,
		storage INTEGER NOT NULL,
		loadingdock INTEGER NOT NULL,
		floor INTEGER NOT NULL,
		buffer INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
}

// Store writes one run per Begin call, keyed by a fresh run ID.
type Store struct {
	db      *sql.DB
	dialect Dialect
	runID   uuid.UUID
}

// Open connects to the database and creates the schema if missing.
// An empty sqlite dsn uses warehouse.db in the working directory.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	var driver string
	switch dialect {
	case DialectSQLite:
		driver = "sqlite"
		if dsn == "" {
			dsn = defaultSQLitePath
		}
	case DialectPostgres:
		driver = "pgx"
		if dsn == "" {
			return nil, fmt.Errorf("postgres store requires a DSN")
		}
	default:
		return nil, fmt.Errorf("unknown store dialect %q", dialect)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// one connection keeps :memory: databases shared and writes serialized
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db, dialect: dialect}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// RunID returns the ID of the run started by the last Begin, or uuid.Nil.
func (s *Store) RunID() uuid.UUID { return s.runID }

// Begin records a new run and its initial product, location and pallet tables in one transaction.
func (s *Store) Begin(ctx context.Context, layout sim.Layout) (retErr error) {
	runID := uuid.New()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO runs (id, seed, pallets, started_at) VALUES (?, ?, ?, ?)`),
		runID.String(), layout.Seed, len(layout.Pallets), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for _, p := range layout.Products {
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO products (run_id, id, name, units_per_pallet) VALUES (?, ?, ?, ?)`),
			runID.String(), int(p.ID), p.Name, p.UnitsPerPallet); err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
	}
	for _, l := range layout.Locations {
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO locations (run_id, id, label, area, product_id, max_pallets) VALUES (?, ?, ?, ?, ?, ?)`),
			runID.String(), int(l.ID), l.Label, string(l.Area), nullableProduct(l.BoundProduct), l.MaxPallets); err != nil {
			return fmt.Errorf("insert location %s: %w", l.Label, err)
		}
	}
	for _, p := range layout.Pallets {
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO pallets (run_id, id, product_id, location_id, quantity) VALUES (?, ?, ?, ?, ?)`),
			runID.String(), int(p.ID), nullableProduct(p.Product), int(p.Location), p.Quantity); err != nil {
			return fmt.Errorf("insert pallet %d: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit layout: %w", err)
	}
	s.runID = runID
	return nil
}

// Record appends one movement snapshot to the current run.
func (s *Store) Record(ctx context.Context, snap sim.MovementSnapshot) error {
	if s.runID == uuid.Nil {
		return fmt.Errorf("record snapshot %d: no run started", snap.Seq)
	}
	c := snap.Counts
	if _, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO movements (run_id, seq, day, step, event, storage, loadingdock, floor, buffer) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		s.runID.String(), snap.Seq, snap.Day, snap.Step, snap.Event, c.Storage, c.LoadingDock, c.Floor, c.Buffer); err != nil {
		return fmt.Errorf("insert movement %d: %w", snap.Seq, err)
	}
	return nil
}

// Movements reads back the snapshots of a run in capture order.
func (s *Store) Movements(ctx context.Context, runID uuid.UUID) ([]sim.MovementSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT seq, day, step, event, storage, loadingdock, floor, buffer FROM movements WHERE run_id = ? ORDER BY seq`),
		runID.String())
	if err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []sim.MovementSnapshot
	for rows.Next() {
		var m sim.MovementSnapshot
		if err := rows.Scan(&m.Seq, &m.Day, &m.Step, &m.Event,
			&m.Counts.Storage, &m.Counts.LoadingDock, &m.Counts.Floor, &m.Counts.Buffer); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Runs lists every stored run ID, oldest first.
func (s *Store) Runs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("run id %q: %w", raw, err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// PalletsByArea counts the initial pallets of a run per area, as written by Begin.
func (s *Store) PalletsByArea(ctx context.Context, runID uuid.UUID) (map[sim.Area]int, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT l.area, COUNT(*) FROM pallets p
		JOIN locations l ON l.run_id = p.run_id AND l.id = p.location_id
		WHERE p.run_id = ?
		GROUP BY l.area`), runID.String())
	if err != nil {
		return nil, fmt.Errorf("select pallets: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make(map[sim.Area]int)
	for rows.Next() {
		var area string
		var n int
		if err := rows.Scan(&area, &n); err != nil {
			return nil, fmt.Errorf("scan pallets: %w", err)
		}
		out[sim.Area(area)] = n
	}
	return out, rows.Err()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nullableProduct(id sim.ProductID) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != sim.NoProduct}
}
