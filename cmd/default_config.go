package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/warehouse-sim/sim"
)

const envPrefix = "WAREHOUSE"

// envKeyReplacer maps flag names to env var suffixes: min-sale-fraction -> MIN_SALE_FRACTION.
var envKeyReplacer = strings.NewReplacer("-", "_")

// envName returns the env var that may supply the named flag.
func envName(flag string) string {
	return envPrefix + "_" + strings.ToUpper(envKeyReplacer.Replace(flag))
}

// flagSet reports whether a flag was given explicitly or through its env var.
// Flag defaults never override values from the configuration file.
func flagSet(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	_, ok := os.LookupEnv(envName(name))
	return ok
}

// resolveConfig loads the warehouse configuration (file or built-in defaults), applies
// explicitly set flags on top and validates the result.
func resolveConfig(cmd *cobra.Command, v *viper.Viper) (*sim.Config, error) {
	var cfg *sim.Config
	if path := v.GetString("config"); path != "" {
		loaded, err := sim.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = sim.DefaultConfig()
	}

	if flagSet(cmd, "days") {
		cfg.Days = v.GetInt("days")
	}
	if flagSet(cmd, "seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	if flagSet(cmd, "arrival-ratio") {
		cfg.ArrivalRatio = v.GetFloat64("arrival-ratio")
	}
	if flagSet(cmd, "variation-ratio") {
		cfg.VariationRatio = v.GetFloat64("variation-ratio")
	}
	if flagSet(cmd, "min-sale-fraction") {
		cfg.MinSaleFraction = v.GetFloat64("min-sale-fraction")
	}
	if flagSet(cmd, "policy") {
		cfg.AllocationPolicy = v.GetString("policy")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeDefaults encodes the built-in configuration in the same YAML layout LoadConfig reads.
func writeDefaults(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(sim.DefaultConfig()); err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	return enc.Close()
}
