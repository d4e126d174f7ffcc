package sim

import (
	"fmt"
	"math/rand"
)

// ArrivalBounds returns the base arrival count and its symmetric spread:
// base = floor(arrivalRatio * numProducts), spread = floor(base * variationRatio).
func ArrivalBounds(numProducts int, arrivalRatio, variationRatio float64) (base, spread int) {
	base = int(arrivalRatio * float64(numProducts))
	spread = int(float64(base) * variationRatio)
	return base, spread
}

// ArrivalGenerator decides which products arrive on a given day.
type ArrivalGenerator struct {
	rng            *rand.Rand
	ArrivalRatio   float64
	VariationRatio float64
}

// NewArrivalGenerator creates an ArrivalGenerator drawing from rng.
func NewArrivalGenerator(rng *rand.Rand, arrivalRatio, variationRatio float64) *ArrivalGenerator {
	return &ArrivalGenerator{rng: rng, ArrivalRatio: arrivalRatio, VariationRatio: variationRatio}
}

// Draw picks n = base + U{-spread..spread} distinct product indices from [0, numProducts),
// uniformly without replacement. n larger than numProducts is a configuration error.
func (g *ArrivalGenerator) Draw(numProducts int) ([]int, error) {
	base, spread := ArrivalBounds(numProducts, g.ArrivalRatio, g.VariationRatio)
	n := base + g.rng.Intn(2*spread+1) - spread
	if n > numProducts {
		return nil, fmt.Errorf("%w: arrival draw of %d exceeds %d products", ErrConfig, n, numProducts)
	}
	if n <= 0 {
		return nil, nil
	}
	return g.rng.Perm(numProducts)[:n], nil
}

// SaleGenerator draws the number of units sold from one floor pallet in one day.
type SaleGenerator struct {
	rng             *rand.Rand
	MinSaleFraction float64
}

// NewSaleGenerator creates a SaleGenerator drawing from rng.
func NewSaleGenerator(rng *rand.Rand, minSaleFraction float64) *SaleGenerator {
	return &SaleGenerator{rng: rng, MinSaleFraction: minSaleFraction}
}

// Draw returns floor(U[minSaleFraction, 1) * unitsPerPallet). The sale is sized against the
// nominal pallet, not the remaining stock, and may be 0 for small pallets.
func (g *SaleGenerator) Draw(unitsPerPallet int) int {
	fraction := g.MinSaleFraction + g.rng.Float64()*(1-g.MinSaleFraction)
	return int(fraction * float64(unitsPerPallet))
}
