// Package telemetry exposes a warehouse run as Prometheus gauges and counters and writes
// them in the text exposition format, for node_exporter's textfile collector or ad hoc scraping.
package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/warehouse-sim/sim"
)

var _ sim.SnapshotSink = (*Exporter)(nil)

// Exporter is a SnapshotSink backed by its own registry.
type Exporter struct {
	registry     *prometheus.Registry
	areaPallets  *prometheus.GaugeVec
	areaCapacity *prometheus.GaugeVec
	snapshots    *prometheus.CounterVec
	day          prometheus.Gauge
	totals       *prometheus.GaugeVec
}

// NewExporter registers every warehouse collector on a fresh registry.
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		areaPallets: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "warehouse",
			Name:      "area_pallets",
			Help:      "Pallets per area at the latest snapshot.",
		}, []string{"area"}),
		areaCapacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "warehouse",
			Name:      "area_capacity",
			Help:      "Configured pallet capacity per area.",
		}, []string{"area"}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "warehouse",
			Name:      "snapshots_total",
			Help:      "Snapshots captured, by event label.",
		}, []string{"event"}),
		day: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "warehouse",
			Name:      "day",
			Help:      "Day of the latest snapshot.",
		}),
		totals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "warehouse",
			Name:      "run_total",
			Help:      "Run-wide counters at the end of the simulation.",
		}, []string{"metric"}),
	}
	e.registry.MustRegister(e.areaPallets, e.areaCapacity, e.snapshots, e.day, e.totals)
	return e
}

// Registry returns the registry holding every exporter collector.
func (e *Exporter) Registry() *prometheus.Registry { return e.registry }

// Begin sets capacities and the initial per-area counts from the layout.
func (e *Exporter) Begin(_ context.Context, layout sim.Layout) error {
	capacity := make(map[sim.Area]int, len(sim.Areas))
	for _, l := range layout.Locations {
		capacity[l.Area] += l.MaxPallets
	}
	area := make(map[sim.LocationID]sim.Area, len(layout.Locations))
	for _, l := range layout.Locations {
		area[l.ID] = l.Area
	}
	pallets := make(map[sim.Area]int, len(sim.Areas))
	for _, p := range layout.Pallets {
		pallets[area[p.Location]]++
	}
	for _, a := range sim.Areas {
		e.areaCapacity.WithLabelValues(string(a)).Set(float64(capacity[a]))
		e.areaPallets.WithLabelValues(string(a)).Set(float64(pallets[a]))
	}
	return nil
}

// Record updates the area gauges from a snapshot.
func (e *Exporter) Record(_ context.Context, s sim.MovementSnapshot) error {
	for _, a := range sim.Areas {
		e.areaPallets.WithLabelValues(string(a)).Set(float64(s.Counts.Get(a)))
	}
	e.snapshots.WithLabelValues(s.Event).Inc()
	e.day.Set(float64(s.Day))
	return nil
}

// Observe copies the run counters into the run_total gauge.
func (e *Exporter) Observe(m *sim.Metrics) {
	for name, v := range map[string]int{
		"days_simulated":    m.DaysSimulated,
		"pallets_arrived":   m.PalletsArrived,
		"arrival_shortages": m.ArrivalShortages,
		"dock_to_floor":     m.DockToFloor,
		"dock_to_buffer":    m.DockToBuffer,
		"dock_no_space":     m.DockNoSpace,
		"buffer_to_floor":   m.BufferToFloor,
		"units_sold":        m.UnitsSold,
		"pallets_emptied":   m.PalletsEmptied,
	} {
		e.totals.WithLabelValues(name).Set(float64(v))
	}
}

// WriteTextfile writes every collected metric to path in the text exposition format.
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
