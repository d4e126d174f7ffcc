package sim

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn and returns everything it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

// TestMetrics_Print_ReportsRunTotals verifies the end-of-run summary.
//
// Given: one simulated day of the single-product warehouse
// When: Print is called
// Then: arrivals, placements and sales appear with their values
func TestMetrics_Print_ReportsRunTotals(t *testing.T) {
	// GIVEN one simulated day
	s := mustSimulator(t, singleProductConfig())
	runDays(t, s, 1)

	// WHEN the metrics are printed
	out := captureStdout(t, s.Metrics.Print)

	// THEN the totals are shown
	assert.Contains(t, out, "=== Warehouse Metrics ===")
	assert.Contains(t, out, "Pallets Arrived      : 1")
	assert.Contains(t, out, "Dock -> Floor        : 1")
	assert.Contains(t, out, "Units Sold           : 100")
	assert.Contains(t, out, "Average Units/Day    : 100.00")
}

// TestMetrics_Print_NoDays omits the per-day average.
func TestMetrics_Print_NoDays(t *testing.T) {
	out := captureStdout(t, NewMetrics().Print)

	assert.Contains(t, out, "Days Simulated       : 0")
	assert.NotContains(t, out, "Average")
}

func TestMetrics_PeakLoadingDock(t *testing.T) {
	m := NewMetrics()
	for _, n := range []int{2, 5, 1} {
		m.observe(MovementSnapshot{Counts: AreaCounts{LoadingDock: n}})
	}
	assert.Equal(t, 5, m.PeakLoadingDock)
}

func TestAreaCounts_GetAndTotal(t *testing.T) {
	c := AreaCounts{Storage: 4, LoadingDock: 3, Floor: 2, Buffer: 1}

	assert.Equal(t, 10, c.Total())
	for i, a := range Areas {
		assert.Equal(t, 4-i, c.Get(a), "area %s", a)
	}
	assert.Zero(t, c.Get(Area("Roof")))
}

func TestSnapshotReporter_SnapshotsIsACopy(t *testing.T) {
	w := mustWarehouse(t, singleProductConfig())
	r := &SnapshotReporter{}
	r.Capture(w, 1, 1, EventArrival)

	got := r.Snapshots()
	got[0].Event = "tampered"

	assert.Equal(t, EventArrival, r.Snapshots()[0].Event)
	assert.Equal(t, 1, r.Snapshots()[0].Seq)
}
