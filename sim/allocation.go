package sim

import "fmt"

// Placement describes the outcome of one allocation decision.
// Moved is false when no destination qualified; the pallet then stays where it was.
type Placement struct {
	Pallet PalletID
	From   LocationID
	To     LocationID
	Moved  bool
	Reason string
}

// AllocationPolicy decides where pallets go when they need a new home.
// "No space" is a normal outcome reported through Placement, never an error;
// errors are reserved for rejected mutations (ErrInvariant).
type AllocationPolicy interface {
	// PlaceFromDock moves a LoadingDock pallet to its product's floor location, or to an
	// empty buffer location, or leaves it on the dock.
	PlaceFromDock(w *Warehouse, id PalletID) (Placement, error)
	// DrainBuffer tops up each floor location with spare capacity by at most one
	// matching buffer pallet.
	DrainBuffer(w *Warehouse) ([]Placement, error)
	// ReturnEmptyToStorage clears a pallet and moves it back to Storage.
	ReturnEmptyToStorage(w *Warehouse, id PalletID) (Placement, error)
}

// ValidAllocationPolicies is the set of recognized allocation policy names.
var ValidAllocationPolicies = map[string]bool{"": true, "lowest-id": true}

// NewAllocationPolicy creates an allocation policy by name. Empty means "lowest-id".
func NewAllocationPolicy(name string) (AllocationPolicy, error) {
	switch name {
	case "", "lowest-id":
		return &LowestIDFirst{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown allocation policy %q", ErrConfig, name)
	}
}

// LowestIDFirst breaks every tie between candidate locations and pallets by lowest ID.
type LowestIDFirst struct{}

// PlaceFromDock implements AllocationPolicy for LowestIDFirst.
func (LowestIDFirst) PlaceFromDock(w *Warehouse, id PalletID) (Placement, error) {
	p, ok := w.Pallet(id)
	if !ok {
		return Placement{}, fmt.Errorf("%w: unknown pallet %d", ErrInvariant, id)
	}
	if p.Location != w.registry.LoadingDock() {
		return Placement{}, fmt.Errorf("%w: pallet %d is not at the loading dock", ErrInvariant, id)
	}
	pl := Placement{Pallet: id, From: p.Location, To: p.Location}

	for _, locID := range w.registry.InArea(AreaFloor) {
		loc, _ := w.registry.Location(locID)
		if loc.BoundProduct == p.Product && w.HasSpace(locID) {
			if err := w.moveTo(id, locID); err != nil {
				return pl, err
			}
			pl.To, pl.Moved, pl.Reason = locID, true, "floor"
			return pl, nil
		}
	}
	for _, locID := range w.registry.InArea(AreaBuffer) {
		if w.Occupancy(locID) == 0 {
			if err := w.moveTo(id, locID); err != nil {
				return pl, err
			}
			pl.To, pl.Moved, pl.Reason = locID, true, "buffer"
			return pl, nil
		}
	}
	pl.Reason = "no space"
	return pl, nil
}

// DrainBuffer implements AllocationPolicy for LowestIDFirst.
func (LowestIDFirst) DrainBuffer(w *Warehouse) ([]Placement, error) {
	var moves []Placement
	for _, locID := range w.registry.InArea(AreaFloor) {
		if !w.HasSpace(locID) {
			continue
		}
		loc, _ := w.registry.Location(locID)
		id, ok := w.First(AreaBuffer, func(p Pallet) bool { return p.Product == loc.BoundProduct })
		if !ok {
			continue
		}
		from := w.pallets[id-1].Location
		if err := w.moveTo(id, locID); err != nil {
			return moves, err
		}
		moves = append(moves, Placement{Pallet: id, From: from, To: locID, Moved: true, Reason: "buffer drain"})
	}
	return moves, nil
}

// ReturnEmptyToStorage implements AllocationPolicy for LowestIDFirst.
func (LowestIDFirst) ReturnEmptyToStorage(w *Warehouse, id PalletID) (Placement, error) {
	p, ok := w.Pallet(id)
	if !ok {
		return Placement{}, fmt.Errorf("%w: unknown pallet %d", ErrInvariant, id)
	}
	if err := w.unload(id); err != nil {
		return Placement{Pallet: id, From: p.Location, To: p.Location}, err
	}
	return Placement{Pallet: id, From: p.Location, To: w.registry.Storage(), Moved: true, Reason: "emptied"}, nil
}
