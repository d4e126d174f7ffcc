package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/warehouse-sim/sim"
)

// newTestRunCmd builds a throwaway command carrying the run flags, so tests never
// touch the package-level runCmd state.
func newTestRunCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "run"}
	c.Flags().String("config", "", "")
	c.Flags().Int("days", 10, "")
	c.Flags().Int64("seed", 42, "")
	c.Flags().Float64("arrival-ratio", 0.7, "")
	c.Flags().Float64("variation-ratio", 0.2, "")
	c.Flags().Float64("min-sale-fraction", 0, "")
	c.Flags().String("policy", "lowest-id", "")
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warehouse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const smallWarehouse = `seed: 3
days: 4
products:
  - name: Cola
    units_per_pallet: 100
floor:
  - label: F-COLA
    product: Cola
    max_pallets: 2
loading_dock:
  label: DOCK
  max_pallets: 5
storage:
  label: STORAGE
  max_pallets: 3
arrival_ratio: 1.0
variation_ratio: 0
min_sale_fraction: 0.5
`

func TestResolveConfig_DefaultsWithoutFile(t *testing.T) {
	c := newTestRunCmd(t)

	cfg, err := resolveConfig(c, newFlagViper(c))

	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
}

func TestResolveConfig_FlagDefaultsDoNotOverrideFile(t *testing.T) {
	// GIVEN a config file with its own seed, days and ratios
	c := newTestRunCmd(t, "--config", writeYAML(t, smallWarehouse))

	// WHEN no other flag is given
	cfg, err := resolveConfig(c, newFlagViper(c))

	// THEN the file values survive the flag defaults
	require.NoError(t, err)
	assert.Equal(t, int64(3), cfg.Seed)
	assert.Equal(t, 4, cfg.Days)
	assert.Equal(t, 1.0, cfg.ArrivalRatio)
	assert.Equal(t, 0.5, cfg.MinSaleFraction)
}

func TestResolveConfig_ExplicitFlagsOverrideFile(t *testing.T) {
	c := newTestRunCmd(t, "--config", writeYAML(t, smallWarehouse), "--days", "9", "--seed", "11")

	cfg, err := resolveConfig(c, newFlagViper(c))

	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Days)
	assert.Equal(t, int64(11), cfg.Seed)
	assert.Equal(t, 0.5, cfg.MinSaleFraction)
}

func TestResolveConfig_EnvOverridesFile(t *testing.T) {
	// GIVEN WAREHOUSE_MIN_SALE_FRACTION in the environment
	t.Setenv("WAREHOUSE_MIN_SALE_FRACTION", "0.9")
	c := newTestRunCmd(t, "--config", writeYAML(t, smallWarehouse))

	// WHEN resolved
	cfg, err := resolveConfig(c, newFlagViper(c))

	// THEN the env value wins over the file
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.MinSaleFraction)
	assert.Equal(t, 4, cfg.Days)
}

func TestResolveConfig_InvalidOverrideRejected(t *testing.T) {
	c := newTestRunCmd(t, "--config", writeYAML(t, smallWarehouse), "--variation-ratio", "1")

	_, err := resolveConfig(c, newFlagViper(c))

	assert.ErrorIs(t, err, sim.ErrConfig)
}

func TestResolveConfig_UnknownKeyInFile(t *testing.T) {
	c := newTestRunCmd(t, "--config", writeYAML(t, smallWarehouse+"trucks: 3\n"))

	_, err := resolveConfig(c, newFlagViper(c))

	assert.ErrorIs(t, err, sim.ErrConfig)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "WAREHOUSE_MIN_SALE_FRACTION", envName("min-sale-fraction"))
	assert.Equal(t, "WAREHOUSE_DAYS", envName("days"))
}

func TestWriteDefaults_RoundTrips(t *testing.T) {
	// GIVEN the YAML printed by `defaults`
	var buf bytes.Buffer
	require.NoError(t, writeDefaults(&buf))
	path := writeYAML(t, buf.String())

	// WHEN it is loaded back
	cfg, err := sim.LoadConfig(path)

	// THEN it is the built-in configuration
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultConfig(), cfg)
}
