package sim

import "fmt"

// Area is one of the four storage areas of the warehouse.
type Area string

const (
	AreaFloor       Area = "Floor"
	AreaLoadingDock Area = "LoadingDock"
	AreaBuffer      Area = "Buffer"
	AreaStorage     Area = "Storage"
)

// Areas lists every area in snapshot column order.
var Areas = []Area{AreaStorage, AreaLoadingDock, AreaFloor, AreaBuffer}

// LocationID identifies a location. IDs are 1-based in registry order.
type LocationID int

// Location is a fixed storage slot with a pallet capacity.
// BoundProduct is set iff Area is AreaFloor.
type Location struct {
	ID           LocationID
	Label        string
	Area         Area
	MaxPallets   int
	BoundProduct ProductID
}

func (l Location) String() string {
	return fmt.Sprintf("%s(%d,%s)", l.Label, l.ID, l.Area)
}

// LocationRegistry holds the immutable set of locations.
// IDs are assigned floor first, then loading dock, storage and buffers, in configuration order.
type LocationRegistry struct {
	locations []Location
	byArea    map[Area][]LocationID
	dock      LocationID
	storage   LocationID
}

// NewLocationRegistry builds the registry from a validated configuration.
func NewLocationRegistry(cfg *Config, catalog *Catalog) (*LocationRegistry, error) {
	r := &LocationRegistry{byArea: make(map[Area][]LocationID, len(Areas))}
	for _, spec := range cfg.Floor {
		p, ok := catalog.Lookup(spec.Product)
		if !ok {
			return nil, fmt.Errorf("%w: floor location %q bound to unknown product %q", ErrConfig, spec.Label, spec.Product)
		}
		r.add(spec, AreaFloor, p.ID)
	}
	r.dock = r.add(cfg.LoadingDock, AreaLoadingDock, NoProduct)
	r.storage = r.add(cfg.Storage, AreaStorage, NoProduct)
	for _, spec := range cfg.Buffer {
		r.add(spec, AreaBuffer, NoProduct)
	}
	for _, loc := range r.locations {
		if (loc.Area == AreaFloor) != (loc.BoundProduct != NoProduct) {
			return nil, fmt.Errorf("%w: location %s has inconsistent product binding", ErrConfig, loc)
		}
	}
	return r, nil
}

func (r *LocationRegistry) add(spec LocationSpec, area Area, bound ProductID) LocationID {
	id := LocationID(len(r.locations) + 1)
	r.locations = append(r.locations, Location{
		ID:           id,
		Label:        spec.Label,
		Area:         area,
		MaxPallets:   spec.MaxPallets,
		BoundProduct: bound,
	})
	r.byArea[area] = append(r.byArea[area], id)
	return id
}

// Location returns the location with the given ID.
func (r *LocationRegistry) Location(id LocationID) (Location, bool) {
	if id <= 0 || int(id) > len(r.locations) {
		return Location{}, false
	}
	return r.locations[id-1], true
}

// InArea returns the IDs of all locations in an area, lowest ID first.
func (r *LocationRegistry) InArea(area Area) []LocationID { return r.byArea[area] }

// LoadingDock returns the single loading dock location.
func (r *LocationRegistry) LoadingDock() LocationID { return r.dock }

// Storage returns the single storage location.
func (r *LocationRegistry) Storage() LocationID { return r.storage }

// Locations returns a copy of every location in ID order.
func (r *LocationRegistry) Locations() []Location {
	out := make([]Location, len(r.locations))
	copy(out, r.locations)
	return out
}
