package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// singleProductConfig is the smallest useful warehouse: one product whose floor pallet
// sells out every day, one dock, one buffer slot and three pallets.
func singleProductConfig() *Config {
	return &Config{
		Seed:            7,
		Days:            1,
		Products:        []ProductSpec{{Name: "Cola", UnitsPerPallet: 100}},
		Floor:           []LocationSpec{{Label: "F-COLA", Product: "Cola", MaxPallets: 2}},
		LoadingDock:     LocationSpec{Label: "DOCK", MaxPallets: 5},
		Buffer:          []LocationSpec{{Label: "B-1", MaxPallets: 1}},
		Storage:         LocationSpec{Label: "STORAGE", MaxPallets: 3},
		ArrivalRatio:    1.0,
		MinSaleFraction: 1.0,
	}
}

// twoProductConfig adds a second product and a second buffer slot, with room on the
// floor for two pallets of each product.
func twoProductConfig() *Config {
	return &Config{
		Seed: 7,
		Products: []ProductSpec{
			{Name: "Cola", UnitsPerPallet: 100},
			{Name: "Juice", UnitsPerPallet: 50},
		},
		Floor: []LocationSpec{
			{Label: "F-COLA", Product: "Cola", MaxPallets: 2},
			{Label: "F-JUICE", Product: "Juice", MaxPallets: 2},
		},
		LoadingDock:     LocationSpec{Label: "DOCK", MaxPallets: 5},
		Buffer:          []LocationSpec{{Label: "B-1", MaxPallets: 1}, {Label: "B-2", MaxPallets: 1}},
		Storage:         LocationSpec{Label: "STORAGE", MaxPallets: 10},
		ArrivalRatio:    1.0,
		MinSaleFraction: 0.5,
	}
}

func mustWarehouse(t *testing.T, cfg *Config) *Warehouse {
	t.Helper()
	require.NoError(t, cfg.Validate())
	w, err := NewWarehouse(cfg)
	require.NoError(t, err)
	return w
}

func mustSimulator(t *testing.T, cfg *Config, opts ...Option) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg, opts...)
	require.NoError(t, err)
	return s
}

// locationID returns the ID of the location with the given label.
func locationID(t *testing.T, w *Warehouse, label string) LocationID {
	t.Helper()
	for _, loc := range w.Registry().Locations() {
		if loc.Label == label {
			return loc.ID
		}
	}
	t.Fatalf("no location labeled %q", label)
	return 0
}

// product returns the catalog entry named name.
func product(t *testing.T, w *Warehouse, name string) Product {
	t.Helper()
	p, ok := w.Catalog().Lookup(name)
	require.True(t, ok, "unknown product %q", name)
	return p
}

// loadToDock fills the next idle Storage pallet with name and puts it on the dock.
func loadToDock(t *testing.T, w *Warehouse, name string) PalletID {
	t.Helper()
	id, ok := w.First(AreaStorage, Pallet.Empty)
	require.True(t, ok, "storage is empty")
	require.NoError(t, w.load(id, product(t, w, name), w.Registry().LoadingDock()))
	return id
}

func runDays(t *testing.T, s *Simulator, days int) {
	t.Helper()
	require.NoError(t, s.Run(context.Background(), days))
}
