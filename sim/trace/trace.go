package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every placement attempt and arrival shortage.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// SimulationTrace collects decision records during a warehouse simulation.
type SimulationTrace struct {
	Config     TraceConfig
	Placements []PlacementRecord
	Shortages  []ShortageRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		Placements: make([]PlacementRecord, 0),
		Shortages:  make([]ShortageRecord, 0),
	}
}

// RecordPlacement appends a placement decision record.
func (st *SimulationTrace) RecordPlacement(record PlacementRecord) {
	st.Placements = append(st.Placements, record)
}

// RecordShortage appends an arrival shortage record.
func (st *SimulationTrace) RecordShortage(record ShortageRecord) {
	st.Shortages = append(st.Shortages, record)
}
