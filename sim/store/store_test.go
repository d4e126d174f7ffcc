package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/warehouse-sim/sim"
)

func smallConfig() *sim.Config {
	return &sim.Config{
		Seed:            7,
		Products:        []sim.ProductSpec{{Name: "Cola", UnitsPerPallet: 100}},
		Floor:           []sim.LocationSpec{{Label: "F-1", Product: "Cola", MaxPallets: 2}},
		LoadingDock:     sim.LocationSpec{Label: "DOCK", MaxPallets: 5},
		Buffer:          []sim.LocationSpec{{Label: "B-1", MaxPallets: 1}},
		Storage:         sim.LocationSpec{Label: "STORAGE", MaxPallets: 3},
		ArrivalRatio:    1.0,
		MinSaleFraction: 1.0,
	}
}

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), DialectSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func runWithStore(t *testing.T, s *Store, days int) *sim.Simulator {
	t.Helper()
	simulator, err := sim.NewSimulator(smallConfig(), sim.WithSinks(s))
	require.NoError(t, err)
	require.NoError(t, simulator.Run(context.Background(), days))
	return simulator
}

func TestStore_RecordsEverySnapshotInOrder(t *testing.T) {
	// GIVEN an in-memory sqlite store attached to a simulator
	s := openMemory(t)

	// WHEN two days are simulated
	simulator := runWithStore(t, s, 2)

	// THEN the stored movements equal the engine's snapshot stream
	got, err := s.Movements(context.Background(), s.RunID())
	require.NoError(t, err)
	assert.Equal(t, simulator.Snapshots(), got)
	assert.Len(t, got, 10)
}

func TestStore_Begin_WritesInitialLayout(t *testing.T) {
	// GIVEN a store attached to a simulator that has not simulated any day
	s := openMemory(t)
	runWithStore(t, s, 0)

	// WHEN the initial pallet table is read back
	byArea, err := s.PalletsByArea(context.Background(), s.RunID())
	require.NoError(t, err)

	// THEN the run exists and every pallet starts in Storage
	assert.NotEqual(t, uuid.Nil, s.RunID())
	assert.Equal(t, map[sim.Area]int{sim.AreaStorage: 3}, byArea)
}

func TestStore_SeparateRunsDoNotMix(t *testing.T) {
	// GIVEN one store used by two consecutive simulations
	s := openMemory(t)
	runWithStore(t, s, 1)
	first := s.RunID()
	runWithStore(t, s, 2)
	second := s.RunID()

	// THEN each run keeps its own movement rows
	require.NotEqual(t, first, second)
	a, err := s.Movements(context.Background(), first)
	require.NoError(t, err)
	b, err := s.Movements(context.Background(), second)
	require.NoError(t, err)
	assert.Len(t, a, 5)
	assert.Len(t, b, 10)

	// AND both runs are listed
	runs, err := s.Runs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, runs)
}

func TestStore_RecordWithoutBegin_Fails(t *testing.T) {
	s := openMemory(t)
	err := s.Record(context.Background(), sim.MovementSnapshot{Seq: 1})
	assert.Error(t, err)
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := Open(context.Background(), Dialect("oracle"), "")
	assert.Error(t, err)
}

func TestRebind_Postgres(t *testing.T) {
	s := &Store{dialect: DialectPostgres}
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", s.rebind("INSERT INTO t (a, b) VALUES (?, ?)"))
	s.dialect = DialectSQLite
	assert.Equal(t, "SELECT ? ", s.rebind("SELECT ? "))
}

// TestStore_Postgres runs against a real server only when WAREHOUSE_TEST_POSTGRES_DSN is set.
func TestStore_Postgres(t *testing.T) {
	dsn := os.Getenv("WAREHOUSE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("WAREHOUSE_TEST_POSTGRES_DSN not set, skipping postgres integration test")
	}
	s, err := Open(context.Background(), DialectPostgres, dsn)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	simulator := runWithStore(t, s, 1)
	got, err := s.Movements(context.Background(), s.RunID())
	require.NoError(t, err)
	assert.Equal(t, simulator.Snapshots(), got)
}
