package sim

import (
	"fmt"
)

// Warehouse owns the Pallet Pool and the Location Registry exclusively.
// Every pallet mutation goes through commit, which rejects changes that would break
// capacity, floor binding, empty-pallet placement or conservation.
//
// Thread-safety: NOT thread-safe. The simulation advances from a single goroutine.
type Warehouse struct {
	catalog   *Catalog
	registry  *LocationRegistry
	pallets   []Pallet
	occupancy []int // indexed by LocationID-1
	total     int
}

// NewWarehouse builds the catalog, the registry and the pallet pool from a validated
// configuration. The pool holds exactly Storage.MaxPallets empty pallets, all in Storage.
func NewWarehouse(cfg *Config) (*Warehouse, error) {
	catalog := NewCatalog(cfg.Products)
	registry, err := NewLocationRegistry(cfg, catalog)
	if err != nil {
		return nil, err
	}
	n := cfg.Storage.MaxPallets
	w := &Warehouse{
		catalog:   catalog,
		registry:  registry,
		pallets:   make([]Pallet, n),
		occupancy: make([]int, len(registry.locations)),
		total:     n,
	}
	storage := registry.Storage()
	for i := range w.pallets {
		w.pallets[i] = Pallet{ID: PalletID(i + 1), Location: storage}
	}
	w.occupancy[storage-1] = n
	return w, nil
}

// Catalog returns the product catalog.
func (w *Warehouse) Catalog() *Catalog { return w.catalog }

// Registry returns the location registry.
func (w *Warehouse) Registry() *LocationRegistry { return w.registry }

// TotalPallets is the fixed pool size, equal to the configured Storage capacity.
func (w *Warehouse) TotalPallets() int { return w.total }

// Pallet returns a copy of the pallet with the given ID.
func (w *Warehouse) Pallet(id PalletID) (Pallet, bool) {
	if id <= 0 || int(id) > len(w.pallets) {
		return Pallet{}, false
	}
	return w.pallets[id-1], true
}

// Pallets returns a copy of the pool in ID order.
func (w *Warehouse) Pallets() []Pallet {
	out := make([]Pallet, len(w.pallets))
	copy(out, w.pallets)
	return out
}

// Occupancy returns the number of pallets currently at a location.
func (w *Warehouse) Occupancy(id LocationID) int {
	if id <= 0 || int(id) > len(w.occupancy) {
		return 0
	}
	return w.occupancy[id-1]
}

// HasSpace reports whether a location can take one more pallet.
func (w *Warehouse) HasSpace(id LocationID) bool {
	loc, ok := w.registry.Location(id)
	return ok && w.Occupancy(id) < loc.MaxPallets
}

// AreaOf returns the area of the location a pallet sits in.
func (w *Warehouse) AreaOf(p Pallet) Area {
	loc, _ := w.registry.Location(p.Location)
	return loc.Area
}

// PalletsIn returns the IDs of every pallet in an area, lowest ID first.
func (w *Warehouse) PalletsIn(area Area) []PalletID {
	var ids []PalletID
	for _, p := range w.pallets {
		if w.AreaOf(p) == area {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// First returns the lowest-ID pallet in an area that satisfies match (nil matches any).
func (w *Warehouse) First(area Area, match func(Pallet) bool) (PalletID, bool) {
	for _, p := range w.pallets {
		if w.AreaOf(p) != area {
			continue
		}
		if match == nil || match(p) {
			return p.ID, true
		}
	}
	return 0, false
}

// Counts returns the number of pallets per area.
func (w *Warehouse) Counts() AreaCounts {
	var c AreaCounts
	for _, loc := range w.registry.locations {
		c.add(loc.Area, w.occupancy[loc.ID-1])
	}
	return c
}

// moveTo relocates a pallet without touching its contents.
func (w *Warehouse) moveTo(id PalletID, dst LocationID) error {
	p, ok := w.Pallet(id)
	if !ok {
		return fmt.Errorf("%w: unknown pallet %d", ErrInvariant, id)
	}
	p.Location = dst
	return w.commit(p)
}

// load fills an empty Storage pallet with a full pallet of product and sends it to dst.
func (w *Warehouse) load(id PalletID, product Product, dst LocationID) error {
	p, ok := w.Pallet(id)
	if !ok {
		return fmt.Errorf("%w: unknown pallet %d", ErrInvariant, id)
	}
	if !p.Empty() || p.Location != w.registry.Storage() {
		return fmt.Errorf("%w: pallet %d is not an idle storage pallet", ErrInvariant, id)
	}
	p.Product = product.ID
	p.Quantity = product.UnitsPerPallet
	p.Location = dst
	return w.commit(p)
}

// setQuantity updates the remaining stock of a loaded pallet in place.
func (w *Warehouse) setQuantity(id PalletID, qty int) error {
	p, ok := w.Pallet(id)
	if !ok {
		return fmt.Errorf("%w: unknown pallet %d", ErrInvariant, id)
	}
	p.Quantity = qty
	return w.commit(p)
}

// unload clears a pallet and returns it to Storage.
func (w *Warehouse) unload(id PalletID) error {
	p, ok := w.Pallet(id)
	if !ok {
		return fmt.Errorf("%w: unknown pallet %d", ErrInvariant, id)
	}
	p.Product = NoProduct
	p.Quantity = 0
	p.Location = w.registry.Storage()
	return w.commit(p)
}

// commit validates the next state of one pallet against the current state and applies it.
// Nothing changes when an error is returned.
func (w *Warehouse) commit(next Pallet) error {
	cur := w.pallets[next.ID-1]
	dst, ok := w.registry.Location(next.Location)
	if !ok {
		return fmt.Errorf("%w: pallet %d sent to unknown location %d", ErrInvariant, next.ID, next.Location)
	}
	if next.Location != cur.Location && w.occupancy[dst.ID-1] >= dst.MaxPallets {
		return fmt.Errorf("%w: location %s is full (%d/%d)", ErrInvariant, dst, w.occupancy[dst.ID-1], dst.MaxPallets)
	}
	if err := w.checkPallet(next, dst); err != nil {
		return err
	}
	w.occupancy[cur.Location-1]--
	w.occupancy[dst.ID-1]++
	w.pallets[next.ID-1] = next
	return nil
}

// checkPallet verifies the per-pallet invariants for a pallet placed at loc.
func (w *Warehouse) checkPallet(p Pallet, loc Location) error {
	if p.Empty() {
		if p.Quantity != 0 {
			return fmt.Errorf("%w: empty pallet %d has quantity %d", ErrInvariant, p.ID, p.Quantity)
		}
		if loc.Area != AreaStorage {
			return fmt.Errorf("%w: empty pallet %d outside storage at %s", ErrInvariant, p.ID, loc)
		}
		return nil
	}
	if _, ok := w.catalog.Product(p.Product); !ok {
		return fmt.Errorf("%w: pallet %d holds unknown product %d", ErrInvariant, p.ID, p.Product)
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("%w: loaded pallet %d has quantity %d", ErrInvariant, p.ID, p.Quantity)
	}
	if loc.Area == AreaFloor && p.Product != loc.BoundProduct {
		return fmt.Errorf("%w: pallet %d with product %d on floor %s bound to %d",
			ErrInvariant, p.ID, p.Product, loc, loc.BoundProduct)
	}
	return nil
}

// CheckInvariants recomputes occupancy from scratch and verifies every warehouse invariant.
func (w *Warehouse) CheckInvariants() error {
	counted := make([]int, len(w.occupancy))
	for _, p := range w.pallets {
		loc, ok := w.registry.Location(p.Location)
		if !ok {
			return fmt.Errorf("%w: pallet %d at unknown location %d", ErrInvariant, p.ID, p.Location)
		}
		if err := w.checkPallet(p, loc); err != nil {
			return err
		}
		counted[loc.ID-1]++
	}
	for _, loc := range w.registry.locations {
		n := counted[loc.ID-1]
		if n != w.occupancy[loc.ID-1] {
			return fmt.Errorf("%w: occupancy of %s is %d, tracked %d", ErrInvariant, loc, n, w.occupancy[loc.ID-1])
		}
		if n > loc.MaxPallets {
			return fmt.Errorf("%w: %s holds %d pallets, capacity %d", ErrInvariant, loc, n, loc.MaxPallets)
		}
	}
	if got := w.Counts().Total(); got != w.total {
		return fmt.Errorf("%w: %d pallets present, expected %d", ErrInvariant, got, w.total)
	}
	return nil
}
