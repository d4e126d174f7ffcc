// Package testutil provides shared test infrastructure for the warehouse simulator.
// It holds the golden scenario types and the loaders used by sim/ and cmd/ tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/golden_scenarios.json.
type GoldenDataset struct {
	Scenarios []GoldenScenario `json:"scenarios"`
}

// GoldenScenario is one configuration with its expected snapshot sequence.
// The sequence must match for every seed listed in Seeds.
type GoldenScenario struct {
	Name       string           `json:"name"`
	ConfigFile string           `json:"config_file"`
	Days       int              `json:"days"`
	Seeds      []int64          `json:"seeds"`
	Snapshots  []GoldenSnapshot `json:"snapshots"`
	Metrics    GoldenMetrics    `json:"metrics"`
}

// GoldenSnapshot mirrors one movement snapshot row.
type GoldenSnapshot struct {
	Event       string `json:"event"`
	Storage     int    `json:"storage"`
	LoadingDock int    `json:"loadingdock"`
	Floor       int    `json:"floor"`
	Buffer      int    `json:"buffer"`
}

// GoldenMetrics are the run counters expected at the end of a scenario.
type GoldenMetrics struct {
	PalletsArrived   int `json:"pallets_arrived"`
	ArrivalShortages int `json:"arrival_shortages"`
	DockNoSpace      int `json:"dock_no_space"`
	PalletsEmptied   int `json:"pallets_emptied"`
}

// TestdataPath resolves a path under the repo root testdata/ directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, elem ...string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	parts := append([]string{filepath.Dir(thisFile), "..", "..", "..", "testdata"}, elem...)
	return filepath.Join(parts...)
}

// LoadGoldenDataset loads the golden scenarios from the testdata directory.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()
	data, err := os.ReadFile(TestdataPath(t, "golden_scenarios.json"))
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	return &dataset
}
