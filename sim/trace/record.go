// Package trace provides decision-trace recording for warehouse allocation analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// PlacementRecord captures a single allocation decision for one pallet.
// ToArea equals FromArea and Moved is false when no destination qualified.
type PlacementRecord struct {
	Day        int
	Event      string
	PalletID   int
	ProductID  int
	FromArea   string
	ToArea     string
	ToLocation string
	Moved      bool
	Reason     string
}

// ShortageRecord captures an arrival draw that could not be fulfilled.
type ShortageRecord struct {
	Day       int
	ProductID int
	Reason    string
}
