package sim

import "github.com/sirupsen/logrus"

// Event labels, in the order they run each day. DockDrain runs twice.
const (
	EventArrival     = "Arrival"
	EventDockDrain   = "DockDrain"
	EventSales       = "Sales"
	EventBufferDrain = "BufferDrain"
)

// Event is one step of a simulated day. Execute fully commits its pallet moves before
// returning; the next step only ever sees committed state.
type Event interface {
	Label() string
	Execute(*Simulator) error
}

// DailyEvents returns the fixed five-step sequence of one day.
func DailyEvents() []Event {
	return []Event{
		&ArrivalEvent{},
		&DockDrainEvent{Pass: 1},
		&SalesEvent{},
		&BufferDrainEvent{},
		&DockDrainEvent{Pass: 2},
	}
}

// ArrivalEvent represents a truck delivering freshly filled pallets to the loading dock.
type ArrivalEvent struct{}

// Label returns EventArrival.
func (e *ArrivalEvent) Label() string { return EventArrival }

// Execute draws the arriving products and pops one idle Storage pallet per product onto the dock.
// When Storage runs dry or the dock fills up, the remaining draws become shortages.
func (e *ArrivalEvent) Execute(sim *Simulator) error {
	w := sim.Warehouse
	indices, err := sim.Arrivals.Draw(w.catalog.Len())
	if err != nil {
		return err
	}
	dock := w.registry.LoadingDock()
	for i, idx := range indices {
		product := w.catalog.At(idx)
		id, ok := w.First(AreaStorage, Pallet.Empty)
		reason := ""
		switch {
		case !ok:
			reason = "storage empty"
		case !w.HasSpace(dock):
			reason = "dock full"
		}
		if reason != "" {
			for _, missed := range indices[i:] {
				p := w.catalog.At(missed)
				logrus.Warnf("[day %03d] No pallet for %s: %s", sim.Day, p.Name, reason)
				sim.recordShortage(p.ID, reason)
			}
			sim.Metrics.ArrivalShortages += len(indices) - i
			break
		}
		if err := w.load(id, product, dock); err != nil {
			return err
		}
		sim.Metrics.PalletsArrived++
		logrus.Debugf("[day %03d] Moved pallet %d with %s to LoadingDock", sim.Day, id, product.Name)
	}
	return nil
}

// DockDrainEvent tries to place every pallet currently on the loading dock.
type DockDrainEvent struct {
	Pass int // 1 before sales, 2 after the buffer drain
}

// Label returns EventDockDrain.
func (e *DockDrainEvent) Label() string { return EventDockDrain }

// Execute calls PlaceFromDock for each dock pallet, lowest ID first.
func (e *DockDrainEvent) Execute(sim *Simulator) error {
	w := sim.Warehouse
	for _, id := range w.PalletsIn(AreaLoadingDock) {
		pl, err := sim.Policy.PlaceFromDock(w, id)
		if err != nil {
			return err
		}
		sim.recordPlacement(e.Label(), pl)
		if !pl.Moved {
			sim.Metrics.DockNoSpace++
			p, _ := w.Pallet(id)
			logrus.Warnf("[day %03d] No available space for pallet %d with product %d (dock pass %d)",
				sim.Day, id, p.Product, e.Pass)
			continue
		}
		to, _ := w.registry.Location(pl.To)
		switch to.Area {
		case AreaFloor:
			sim.Metrics.DockToFloor++
		case AreaBuffer:
			sim.Metrics.DockToBuffer++
		}
		logrus.Debugf("[day %03d] Moved pallet %d to %s", sim.Day, id, to)
	}
	return nil
}

// SalesEvent sells stock from every loaded floor pallet.
type SalesEvent struct{}

// Label returns EventSales.
func (e *SalesEvent) Label() string { return EventSales }

// Execute draws a sale per floor pallet; pallets sold down to zero or below go back to Storage.
func (e *SalesEvent) Execute(sim *Simulator) error {
	w := sim.Warehouse
	for _, id := range w.PalletsIn(AreaFloor) {
		p, _ := w.Pallet(id)
		if p.Empty() {
			continue
		}
		product, _ := w.catalog.Product(p.Product)
		sold := sim.Sales.Draw(product.UnitsPerPallet)
		remaining := p.Quantity - sold
		if remaining > 0 {
			if err := w.setQuantity(id, remaining); err != nil {
				return err
			}
			sim.Metrics.UnitsSold += sold
			logrus.Debugf("[day %03d] Sold %d units from pallet %d, new quantity is %d", sim.Day, sold, id, remaining)
			continue
		}
		pl, err := sim.Policy.ReturnEmptyToStorage(w, id)
		if err != nil {
			return err
		}
		sim.recordPlacement(e.Label(), pl)
		sim.Metrics.UnitsSold += p.Quantity
		sim.Metrics.PalletsEmptied++
		logrus.Debugf("[day %03d] Pallet %d is empty and moved to Storage", sim.Day, id)
	}
	return nil
}

// BufferDrainEvent tops up floor locations from the buffer.
type BufferDrainEvent struct{}

// Label returns EventBufferDrain.
func (e *BufferDrainEvent) Label() string { return EventBufferDrain }

// Execute runs one DrainBuffer pass.
func (e *BufferDrainEvent) Execute(sim *Simulator) error {
	moves, err := sim.Policy.DrainBuffer(sim.Warehouse)
	for _, pl := range moves {
		sim.recordPlacement(e.Label(), pl)
		logrus.Debugf("[day %03d] Moved pallet %d from Buffer to Floor location %d", sim.Day, pl.Pallet, pl.To)
	}
	sim.Metrics.BufferToFloor += len(moves)
	return err
}
