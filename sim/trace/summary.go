package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions     int
	MovedCount         int
	NoSpaceCount       int
	MovesByDestination map[string]int // destination area → count of moves
	TotalShortages     int
	ShortagesByReason  map[string]int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		MovesByDestination: make(map[string]int),
		ShortagesByReason:  make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Placements)
	for _, p := range st.Placements {
		if p.Moved {
			summary.MovedCount++
			summary.MovesByDestination[p.ToArea]++
		} else {
			summary.NoSpaceCount++
		}
	}

	summary.TotalShortages = len(st.Shortages)
	for _, s := range st.Shortages {
		summary.ShortagesByReason[s.Reason]++
	}

	return summary
}
