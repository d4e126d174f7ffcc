// Tracks run-wide counters such as arrivals, shortages, placements and sales.

package sim

import "fmt"

// Metrics aggregates counters about a run for final reporting.
type Metrics struct {
	DaysSimulated    int
	PalletsArrived   int // pallets moved Storage -> LoadingDock
	ArrivalShortages int // draws not fulfilled (storage empty or dock full)
	DockToFloor      int
	DockToBuffer     int
	DockNoSpace      int // dock pallets left in place by a drain pass
	BufferToFloor    int
	UnitsSold        int
	PalletsEmptied   int
	PeakLoadingDock  int // max dock occupancy seen at any snapshot
}

// NewMetrics creates a zeroed Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// observe updates snapshot-derived peaks.
func (m *Metrics) observe(s MovementSnapshot) {
	m.PeakLoadingDock = max(m.PeakLoadingDock, s.Counts.LoadingDock)
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Warehouse Metrics ===")
	fmt.Printf("Days Simulated       : %d\n", m.DaysSimulated)
	fmt.Printf("Pallets Arrived      : %d\n", m.PalletsArrived)
	fmt.Printf("Arrival Shortages    : %d\n", m.ArrivalShortages)
	fmt.Printf("Dock -> Floor        : %d\n", m.DockToFloor)
	fmt.Printf("Dock -> Buffer       : %d\n", m.DockToBuffer)
	fmt.Printf("Dock No Space        : %d\n", m.DockNoSpace)
	fmt.Printf("Buffer -> Floor      : %d\n", m.BufferToFloor)
	fmt.Printf("Units Sold           : %d\n", m.UnitsSold)
	fmt.Printf("Pallets Emptied      : %d\n", m.PalletsEmptied)
	fmt.Printf("Peak Loading Dock    : %d pallets\n", m.PeakLoadingDock)
	if m.DaysSimulated > 0 {
		fmt.Printf("Average Units/Day    : %.2f\n", float64(m.UnitsSold)/float64(m.DaysSimulated))
	}
}
