package sim

// PalletID identifies a pallet. IDs are 1-based and fixed for the whole run.
type PalletID int

// Pallet is the unit of inventory movement. Quantity is 0 whenever Product is NoProduct.
type Pallet struct {
	ID       PalletID
	Product  ProductID
	Location LocationID
	Quantity int
}

// Empty reports whether the pallet holds no product.
func (p Pallet) Empty() bool { return p.Product == NoProduct }
