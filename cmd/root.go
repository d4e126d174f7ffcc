package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inference-sim/warehouse-sim/sim"
	"github.com/inference-sim/warehouse-sim/sim/report"
	"github.com/inference-sim/warehouse-sim/sim/store"
	"github.com/inference-sim/warehouse-sim/sim/telemetry"
	"github.com/inference-sim/warehouse-sim/sim/trace"
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "warehouse-sim",
	Short: "Day-by-day pallet flow simulator for a retail warehouse",
}

// runCmd executes the simulation using the configuration file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the warehouse simulation",
	Run: func(cmd *cobra.Command, args []string) {
		v := newFlagViper(cmd)

		// Set up logging
		level, err := logrus.ParseLevel(v.GetString("log"))
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", v.GetString("log"))
		}
		logrus.SetLevel(level)
		if path := v.GetString("log-file"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				logrus.Fatalf("Failed to open log file: %v", err)
			}
			defer f.Close()
			logrus.SetOutput(io.MultiWriter(os.Stderr, f))
		}

		cfg, err := resolveConfig(cmd, v)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		tl := v.GetString("trace-level")
		if !trace.IsValidTraceLevel(tl) {
			logrus.Fatalf("Invalid trace level: %s (valid: none, decisions)", tl)
		}
		opts := []sim.Option{sim.WithTrace(trace.TraceConfig{Level: trace.TraceLevel(tl)})}

		ctx := context.Background()
		var st *store.Store
		if driver := v.GetString("db-driver"); driver != "" {
			st, err = store.Open(ctx, store.Dialect(driver), v.GetString("db-dsn"))
			if err != nil {
				logrus.Fatalf("Failed to open store: %v", err)
			}
			defer st.Close()
			opts = append(opts, sim.WithSinks(st))
		}
		var exporter *telemetry.Exporter
		if v.GetString("metrics-file") != "" {
			exporter = telemetry.NewExporter()
			opts = append(opts, sim.WithSinks(exporter))
		}

		s, err := sim.NewSimulator(cfg, opts...)
		if err != nil {
			logrus.Fatalf("Failed to build simulator: %v", err)
		}
		if err := s.Run(ctx, cfg.Days); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		s.Metrics.Print()
		if s.Trace != nil {
			printTraceSummary(trace.Summarize(s.Trace))
		}

		if st != nil {
			logrus.Infof("Stored run %s", st.RunID())
		}
		if path := v.GetString("xlsx"); path != "" {
			if err := report.WriteWorkbook(path, s.Snapshots()); err != nil {
				logrus.Fatalf("Failed to write report: %v", err)
			}
			logrus.Infof("Wrote movement report to %s", path)
		}
		if exporter != nil {
			exporter.Observe(s.Metrics)
			if err := exporter.WriteTextfile(v.GetString("metrics-file")); err != nil {
				logrus.Fatalf("Failed to write metrics: %v", err)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

// defaultsCmd prints the built-in warehouse configuration
var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the built-in warehouse configuration as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeDefaults(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("Failed to write defaults: %v", err)
		}
	},
}

func printTraceSummary(ts *trace.TraceSummary) {
	fmt.Println("=== Decision Trace ===")
	fmt.Printf("Placement Decisions  : %d\n", ts.TotalDecisions)
	fmt.Printf("Moved                : %d\n", ts.MovedCount)
	fmt.Printf("No Space             : %d\n", ts.NoSpaceCount)
	for _, a := range sim.Areas {
		if n := ts.MovesByDestination[string(a)]; n > 0 {
			fmt.Printf("  -> %-17s: %d\n", a, n)
		}
	}
	fmt.Printf("Arrival Shortages    : %d\n", ts.TotalShortages)
	for reason, n := range ts.ShortagesByReason {
		fmt.Printf("  %-19s: %d\n", reason, n)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newFlagViper binds the command's flags and their WAREHOUSE_* env vars.
// Explicit flags win over env vars, which win over flag defaults.
func newFlagViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		logrus.Fatalf("Failed to bind flags: %v", err)
	}
	return v
}

// init sets up CLI flags and subcommands
func init() {
	// Values are read through newFlagViper so WAREHOUSE_* env vars apply too.
	runCmd.Flags().String("config", "", "Warehouse configuration YAML (built-in defaults when empty)")
	runCmd.Flags().Int("days", 10, "Number of days to simulate")
	runCmd.Flags().Int64("seed", 42, "Seed for arrival and sale draws")
	runCmd.Flags().Float64("arrival-ratio", 0.7, "Fraction of the catalog arriving per day")
	runCmd.Flags().Float64("variation-ratio", 0.2, "Relative spread around the daily arrival count")
	runCmd.Flags().Float64("min-sale-fraction", 0, "Minimum fraction of a pallet sold per day")
	runCmd.Flags().String("policy", "lowest-id", "Allocation policy (lowest-id)")
	runCmd.Flags().String("log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().String("log-file", "", "Also write every log line to this file")
	runCmd.Flags().String("trace-level", "none", "Decision trace level (none, decisions)")

	// Outer surfaces
	runCmd.Flags().String("db-driver", "", "Persist the run to SQL (sqlite, postgres)")
	runCmd.Flags().String("db-dsn", "", "SQL DSN (sqlite file path or postgres URL)")
	runCmd.Flags().String("xlsx", "", "Write the movement table and chart to this workbook")
	runCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(defaultsCmd)
}
