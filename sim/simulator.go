package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/warehouse-sim/sim/trace"
)

// Simulator advances the warehouse one day at a time through DailyEvents.
// It holds no state of its own beyond the day counter; pallets and locations live in Warehouse.
type Simulator struct {
	Config    *Config
	Warehouse *Warehouse
	Policy    AllocationPolicy
	RNG       *PartitionedRNG
	Arrivals  *ArrivalGenerator
	Sales     *SaleGenerator
	Reporter  *SnapshotReporter
	Metrics   *Metrics
	// Trace is nil unless tracing was enabled with WithTrace.
	Trace *trace.SimulationTrace
	// Day is the 1-based day in progress, or the last completed day between runs.
	Day int

	events []Event
	sinks  []SnapshotSink
	begun  bool
}

// Option customizes a Simulator at construction.
type Option func(*Simulator)

// WithRNG injects the random source used by the arrival and sale generators.
// A nil rng keeps the one seeded from Config.Seed.
func WithRNG(rng *PartitionedRNG) Option {
	return func(s *Simulator) {
		if rng != nil {
			s.RNG = rng
		}
	}
}

// WithPolicy replaces the configured allocation policy.
func WithPolicy(p AllocationPolicy) Option {
	return func(s *Simulator) { s.Policy = p }
}

// WithSinks registers snapshot sinks, called in order after every step.
func WithSinks(sinks ...SnapshotSink) Option {
	return func(s *Simulator) { s.sinks = append(s.sinks, sinks...) }
}

// WithTrace enables decision tracing at the given level.
func WithTrace(cfg trace.TraceConfig) Option {
	return func(s *Simulator) {
		if cfg.Enabled() {
			s.Trace = trace.NewSimulationTrace(cfg)
		}
	}
}

// NewSimulator validates cfg and builds the initial warehouse with every pallet in Storage.
// Configuration errors wrap ErrConfig and are returned before any day runs.
func NewSimulator(cfg *Config, opts ...Option) (*Simulator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, err := NewWarehouse(cfg)
	if err != nil {
		return nil, err
	}
	policy, err := NewAllocationPolicy(cfg.AllocationPolicy)
	if err != nil {
		return nil, err
	}
	s := &Simulator{
		Config:    cfg,
		Warehouse: w,
		Policy:    policy,
		RNG:       NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		Reporter:  &SnapshotReporter{},
		Metrics:   NewMetrics(),
		events:    DailyEvents(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Arrivals = NewArrivalGenerator(s.RNG.ForSubsystem(SubsystemArrivals), cfg.ArrivalRatio, cfg.VariationRatio)
	s.Sales = NewSaleGenerator(s.RNG.ForSubsystem(SubsystemSales), cfg.MinSaleFraction)
	return s, nil
}

// Layout returns the current product, location and pallet tables.
func (s *Simulator) Layout() Layout {
	return Layout{
		Seed:      int64(s.RNG.Key()),
		Products:  s.Warehouse.catalog.Products(),
		Locations: s.Warehouse.registry.Locations(),
		Pallets:   s.Warehouse.Pallets(),
	}
}

// Snapshots returns every snapshot captured so far, in order.
func (s *Simulator) Snapshots() []MovementSnapshot {
	return s.Reporter.Snapshots()
}

// Run simulates the given number of days. It may be called again to continue the run.
func (s *Simulator) Run(ctx context.Context, days int) error {
	if days < 0 {
		return fmt.Errorf("%w: negative day count %d", ErrConfig, days)
	}
	if err := s.begin(ctx); err != nil {
		return err
	}
	logrus.Infof("Starting simulation: %d days, %d pallets, %d products, seed=%d",
		days, s.Warehouse.TotalPallets(), s.Warehouse.catalog.Len(), s.RNG.Key())
	for i := 0; i < days; i++ {
		if err := s.RunDay(ctx); err != nil {
			return err
		}
	}
	logrus.Infof("[day %03d] Simulation ended", s.Day)
	return nil
}

// RunDay executes the five daily steps in order, capturing a snapshot after each one.
func (s *Simulator) RunDay(ctx context.Context) error {
	if err := s.begin(ctx); err != nil {
		return err
	}
	s.Day++
	logrus.Infof("[day %03d] Simulation starts", s.Day)
	for i, ev := range s.events {
		if err := ev.Execute(s); err != nil {
			return fmt.Errorf("day %d %s: %w", s.Day, ev.Label(), err)
		}
		if err := s.Warehouse.CheckInvariants(); err != nil {
			return fmt.Errorf("day %d %s: %w", s.Day, ev.Label(), err)
		}
		snap := s.Reporter.Capture(s.Warehouse, s.Day, i+1, ev.Label())
		s.Metrics.observe(snap)
		logrus.Debugf("[day %03d] Logged movement: %s %+v", s.Day, snap.Event, snap.Counts)
		for _, sink := range s.sinks {
			if err := sink.Record(ctx, snap); err != nil {
				return fmt.Errorf("recording snapshot %d: %w", snap.Seq, err)
			}
		}
	}
	s.Metrics.DaysSimulated++
	logrus.Infof("[day %03d] Simulation ends", s.Day)
	return nil
}

// begin hands the initial layout to every sink exactly once.
func (s *Simulator) begin(ctx context.Context) error {
	if s.begun {
		return nil
	}
	layout := s.Layout()
	for _, sink := range s.sinks {
		if err := sink.Begin(ctx, layout); err != nil {
			return fmt.Errorf("initializing sink: %w", err)
		}
	}
	s.begun = true
	return nil
}

func (s *Simulator) recordPlacement(event string, pl Placement) {
	if s.Trace == nil {
		return
	}
	p, _ := s.Warehouse.Pallet(pl.Pallet)
	from, _ := s.Warehouse.registry.Location(pl.From)
	to, _ := s.Warehouse.registry.Location(pl.To)
	s.Trace.RecordPlacement(trace.PlacementRecord{
		Day:        s.Day,
		Event:      event,
		PalletID:   int(pl.Pallet),
		ProductID:  int(p.Product),
		FromArea:   string(from.Area),
		ToArea:     string(to.Area),
		ToLocation: to.Label,
		Moved:      pl.Moved,
		Reason:     pl.Reason,
	})
}

func (s *Simulator) recordShortage(product ProductID, reason string) {
	if s.Trace == nil {
		return
	}
	s.Trace.RecordShortage(trace.ShortageRecord{Day: s.Day, ProductID: int(product), Reason: reason})
}
