package sim

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ProductSpec configures one catalog product.
type ProductSpec struct {
	Name           string `yaml:"name" validate:"required"`
	UnitsPerPallet int    `yaml:"units_per_pallet" validate:"gt=0"`
}

// LocationSpec configures one location. Product names the bound product and must be set
// for floor locations only.
type LocationSpec struct {
	Label      string `yaml:"label" validate:"required"`
	Product    string `yaml:"product,omitempty"`
	MaxPallets int    `yaml:"max_pallets" validate:"gt=0"`
}

// Config is the full warehouse configuration consumed by NewSimulator.
// Loaded from YAML via LoadConfig(path) or built with DefaultConfig().
type Config struct {
	Seed             int64          `yaml:"seed"`
	Days             int            `yaml:"days" validate:"gte=0"`
	Products         []ProductSpec  `yaml:"products" validate:"required,min=1,dive"`
	Floor            []LocationSpec `yaml:"floor" validate:"dive"`
	LoadingDock      LocationSpec   `yaml:"loading_dock"`
	Buffer           []LocationSpec `yaml:"buffer" validate:"dive"`
	Storage          LocationSpec   `yaml:"storage"`
	ArrivalRatio     float64        `yaml:"arrival_ratio" validate:"gte=0"`
	VariationRatio   float64        `yaml:"variation_ratio" validate:"gte=0,lte=1"`
	MinSaleFraction  float64        `yaml:"min_sale_fraction" validate:"gte=0,lte=1"`
	AllocationPolicy string         `yaml:"allocation_policy,omitempty"`
}

var configValidator = newConfigValidator()

// newConfigValidator reports field paths using YAML keys.
func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// LoadConfig reads a YAML configuration with strict field checking: unknown keys are errors.
// The result is not validated; NewSimulator validates before any day runs.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading warehouse config: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrConfig, path, err)
	}
	return &cfg, nil
}

// Validate checks ranges, product bindings and the arrival precondition.
// Every returned error wraps ErrConfig.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			return fmt.Errorf("%w: %s must satisfy %s (got %v)", ErrConfig, fe.Namespace(), rule, fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	products := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if products[p.Name] {
			return fmt.Errorf("%w: duplicate product %q", ErrConfig, p.Name)
		}
		products[p.Name] = true
	}

	labels := make(map[string]bool)
	checkLabel := func(spec LocationSpec) error {
		if labels[spec.Label] {
			return fmt.Errorf("%w: duplicate location label %q", ErrConfig, spec.Label)
		}
		labels[spec.Label] = true
		return nil
	}
	for _, spec := range c.Floor {
		if err := checkLabel(spec); err != nil {
			return err
		}
		if spec.Product == "" {
			return fmt.Errorf("%w: floor location %q has no bound product", ErrConfig, spec.Label)
		}
		if !products[spec.Product] {
			return fmt.Errorf("%w: floor location %q bound to unknown product %q", ErrConfig, spec.Label, spec.Product)
		}
	}
	unbound := []struct {
		area  Area
		specs []LocationSpec
	}{
		{AreaLoadingDock, []LocationSpec{c.LoadingDock}},
		{AreaStorage, []LocationSpec{c.Storage}},
		{AreaBuffer, c.Buffer},
	}
	for _, group := range unbound {
		for _, spec := range group.specs {
			if err := checkLabel(spec); err != nil {
				return err
			}
			if spec.Product != "" {
				return fmt.Errorf("%w: %s location %q must not bind a product (got %q)",
					ErrConfig, group.area, spec.Label, spec.Product)
			}
		}
	}

	base, spread := ArrivalBounds(len(c.Products), c.ArrivalRatio, c.VariationRatio)
	if base+spread > len(c.Products) {
		return fmt.Errorf("%w: arrival draws up to %d pallets but only %d products exist",
			ErrConfig, base+spread, len(c.Products))
	}
	if !ValidAllocationPolicies[c.AllocationPolicy] {
		return fmt.Errorf("%w: unknown allocation policy %q", ErrConfig, c.AllocationPolicy)
	}
	return nil
}

// DefaultConfig returns the reference warehouse: 20 products with one floor location each,
// a 30-pallet loading dock, 30 single-pallet buffer locations and 100 pallets in storage.
func DefaultConfig() *Config {
	names := []string{"Coca-Cola 1.5L", "Sprite 1.5L", "Fanta 1.5L",
		"Spa 1.5L", "Lipton Tea 1L", "Heinz Ketchup 750ml",
		"Calve Mayonnaise 250ml", "Italian Pasta 500g",
		"Penne Pasta 350g", "Witte Rijst 1kg", "Bruine Rijst 600g",
		"Salted Nuts 200g", "Bloemenhoning 300g", "Hero Jam 600g",
		"Robijn Wasmiddel 1L", "Ariel 4in1 30pods", "Parodontax Tandpasta 75ml",
		"Colgate 80ml", "Oral-B 80ml", "Listerine 500ml"}
	units := []int{350, 350, 350, 350, 400, 500, 500, 200, 250,
		600, 550, 800, 400, 550, 350, 500, 800, 800, 800, 450}

	cfg := &Config{
		Seed:            42,
		Days:            10,
		LoadingDock:     LocationSpec{Label: "L-PALLET", MaxPallets: 30},
		Storage:         LocationSpec{Label: "STORAGE", MaxPallets: 100},
		ArrivalRatio:    0.7,
		VariationRatio:  0.2,
		MinSaleFraction: 0,
	}
	for i, name := range names {
		cfg.Products = append(cfg.Products, ProductSpec{Name: name, UnitsPerPallet: units[i]})
		cfg.Floor = append(cfg.Floor, LocationSpec{
			Label:      fmt.Sprintf("AM-D-0%d-01-1", 21+2*i),
			Product:    name,
			MaxPallets: 2,
		})
	}
	for i := 0; i < 30; i++ {
		cfg.Buffer = append(cfg.Buffer, LocationSpec{Label: fmt.Sprintf("AM-PALLET-%d-01", 20+i), MaxPallets: 1})
	}
	return cfg
}
