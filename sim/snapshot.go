package sim

import "context"

// AreaCounts is the number of pallets per area at one instant.
type AreaCounts struct {
	Storage     int `json:"storage"`
	LoadingDock int `json:"loadingdock"`
	Floor       int `json:"floor"`
	Buffer      int `json:"buffer"`
}

// Total returns the sum over all areas.
func (c AreaCounts) Total() int { return c.Storage + c.LoadingDock + c.Floor + c.Buffer }

// Get returns the count for one area.
func (c AreaCounts) Get(area Area) int {
	switch area {
	case AreaStorage:
		return c.Storage
	case AreaLoadingDock:
		return c.LoadingDock
	case AreaFloor:
		return c.Floor
	case AreaBuffer:
		return c.Buffer
	}
	return 0
}

func (c *AreaCounts) add(area Area, n int) {
	switch area {
	case AreaStorage:
		c.Storage += n
	case AreaLoadingDock:
		c.LoadingDock += n
	case AreaFloor:
		c.Floor += n
	case AreaBuffer:
		c.Buffer += n
	}
}

// MovementSnapshot records the area counts right after one daily step.
// Seq is the global 1-based capture order, Day is 1-based and Step runs 1..5 within a day.
type MovementSnapshot struct {
	Seq    int        `json:"seq"`
	Day    int        `json:"day"`
	Step   int        `json:"step"`
	Event  string     `json:"event"`
	Counts AreaCounts `json:"counts"`
}

// SnapshotReporter keeps the append-only, ordered stream of snapshots for a run.
type SnapshotReporter struct {
	snapshots []MovementSnapshot
}

// Capture appends a snapshot of the current warehouse state and returns it.
func (r *SnapshotReporter) Capture(w *Warehouse, day, step int, event string) MovementSnapshot {
	s := MovementSnapshot{
		Seq:    len(r.snapshots) + 1,
		Day:    day,
		Step:   step,
		Event:  event,
		Counts: w.Counts(),
	}
	r.snapshots = append(r.snapshots, s)
	return s
}

// Snapshots returns a copy of every snapshot captured so far, in capture order.
func (r *SnapshotReporter) Snapshots() []MovementSnapshot {
	out := make([]MovementSnapshot, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

// Layout is the full product, location and pallet table at initialization.
type Layout struct {
	Seed      int64
	Products  []Product
	Locations []Location
	Pallets   []Pallet
}

// SnapshotSink receives the layout once before the first day and every snapshot as it is
// captured. Sinks never feed back into engine decisions.
type SnapshotSink interface {
	Begin(ctx context.Context, layout Layout) error
	Record(ctx context.Context, snapshot MovementSnapshot) error
}
