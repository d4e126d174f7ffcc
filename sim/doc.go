// Package sim provides the core day-by-day simulation engine for a single warehouse.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - warehouse.go: the Pallet Pool and Location Registry, and the only code that mutates them
//   - allocation.go: where pallets go when they leave the loading dock or the buffer
//   - event.go: the five ordered steps that make up one simulated day
//   - simulator.go: the day loop, snapshot capture and sink fan-out
//
// # Architecture
//
// The sim package owns all mutable state through *Warehouse. Policies, generators and events
// receive the warehouse explicitly; there is no package-level state. Collaborators that only
// observe the run live in sub-packages:
//   - sim/trace/: placement decision and shortage recording
//   - sim/store/: SQL persistence sink (sqlite, postgres)
//   - sim/report/: xlsx workbook with the movement chart
//   - sim/telemetry/: Prometheus gauges and counters
//
// # Key Interfaces
//
//   - AllocationPolicy: place dock pallets, drain the buffer, return emptied pallets
//   - SnapshotSink: receives the initial layout and every MovementSnapshot as the run progresses
//
// Randomness flows through PartitionedRNG so that a fixed seed reproduces a run exactly.
package sim
