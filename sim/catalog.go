package sim

// ProductID identifies a product in the Catalog. IDs are 1-based in catalog order.
type ProductID int

// NoProduct marks an empty pallet or a location without a bound product.
const NoProduct ProductID = 0

// Product is immutable for the lifetime of a run.
type Product struct {
	ID             ProductID
	Name           string
	UnitsPerPallet int
}

// Catalog is the static product list.
type Catalog struct {
	products []Product
	byName   map[string]ProductID
}

// NewCatalog assigns IDs in the order products are given.
func NewCatalog(specs []ProductSpec) *Catalog {
	c := &Catalog{
		products: make([]Product, 0, len(specs)),
		byName:   make(map[string]ProductID, len(specs)),
	}
	for i, spec := range specs {
		id := ProductID(i + 1)
		c.products = append(c.products, Product{ID: id, Name: spec.Name, UnitsPerPallet: spec.UnitsPerPallet})
		c.byName[spec.Name] = id
	}
	return c
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Product returns the product with the given ID. ok is false for NoProduct or unknown IDs.
func (c *Catalog) Product(id ProductID) (Product, bool) {
	if id <= NoProduct || int(id) > len(c.products) {
		return Product{}, false
	}
	return c.products[id-1], true
}

// At returns the product at a 0-based catalog index.
func (c *Catalog) At(index int) Product { return c.products[index] }

// Lookup finds a product by name.
func (c *Catalog) Lookup(name string) (Product, bool) {
	id, ok := c.byName[name]
	if !ok {
		return Product{}, false
	}
	return c.products[id-1], true
}

// Products returns a copy of all products in ID order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}
