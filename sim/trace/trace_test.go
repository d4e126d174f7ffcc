package trace

import (
	"testing"
)

func TestSimulationTrace_RecordPlacement_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN a placement record is recorded
	st.RecordPlacement(PlacementRecord{
		Day:        1,
		Event:      "DockDrain",
		PalletID:   7,
		ProductID:  3,
		FromArea:   "LoadingDock",
		ToArea:     "Floor",
		ToLocation: "AM-D-025-01-1",
		Moved:      true,
		Reason:     "floor",
	})

	// THEN the trace contains one placement record with correct data
	if len(st.Placements) != 1 {
		t.Fatalf("expected 1 placement, got %d", len(st.Placements))
	}
	if st.Placements[0].PalletID != 7 {
		t.Errorf("expected pallet 7, got %d", st.Placements[0].PalletID)
	}
	if !st.Placements[0].Moved {
		t.Error("expected moved=true")
	}
}

func TestSimulationTrace_RecordShortage_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN a shortage record is recorded
	st.RecordShortage(ShortageRecord{Day: 4, ProductID: 2, Reason: "storage empty"})

	// THEN the trace contains one shortage record with correct data
	if len(st.Shortages) != 1 {
		t.Fatalf("expected 1 shortage, got %d", len(st.Shortages))
	}
	if st.Shortages[0].Reason != "storage empty" {
		t.Errorf("expected reason storage empty, got %s", st.Shortages[0].Reason)
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN multiple records are added
	st.RecordPlacement(PlacementRecord{Day: 1, PalletID: 1, Moved: true})
	st.RecordPlacement(PlacementRecord{Day: 1, PalletID: 2, Moved: false, Reason: "no space"})
	st.RecordShortage(ShortageRecord{Day: 2, ProductID: 5})

	// THEN order is preserved
	if len(st.Placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(st.Placements))
	}
	if st.Placements[0].PalletID != 1 || st.Placements[1].PalletID != 2 {
		t.Error("placement order not preserved")
	}
	if len(st.Shortages) != 1 || st.Shortages[0].ProductID != 5 {
		t.Error("shortage record mismatch")
	}
}

func TestTraceConfig_Enabled(t *testing.T) {
	if (TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("none must not be enabled")
	}
	if (TraceConfig{}).Enabled() {
		t.Error("empty level must not be enabled")
	}
	if !(TraceConfig{Level: TraceLevelDecisions}).Enabled() {
		t.Error("decisions must be enabled")
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"decisions", true},
		{"", true}, // empty defaults to none
		{"detailed", false},
		{"foobar", false},
		{"NONE", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}
