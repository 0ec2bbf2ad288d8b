package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSpice/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "ots",
	Short: "OpenTraceSpice - KiCad schematic to SPICE netlist tools",
	Long: `OpenTraceSpice (ots) resolves the electrical nodes of a KiCad schematic
and turns them into an ngspice circuit:
  - netlist resolution with label, power and no-connect naming
  - SPICE model lookup in library directories
  - netlist export as SPICE, JSON, KiCad or Graphviz
  - batch simulation through ngspice

Examples:
  ots netlist filter.kicad_sch                 # Print the SPICE netlist
  ots nodes filter.kicad_sch --json            # Dump the resolved nodes
  ots graph filter.kicad_sch -f svg -o f.svg   # Render the connectivity graph
  ots sim filter.kicad_sch -c "tran 1u 1m"     # Simulate with ngspice
  ots sch info filter.kicad_sch                # Show schematic info

Settings are read from ots.toml in the working directory, or --config.`,
	Version:      "0.1.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger := newLogger(os.Stderr, level)

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logger.Debug("loaded config", "library_paths", cfg.Spice.LibraryPaths, "ngspice", cfg.Sim.Ngspice)

		ctx := withLogger(cmd.Context(), logger)
		ctx = withConfig(ctx, cfg)
		cmd.SetContext(ctx)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./ots.toml)")
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() when the
// pre-run hook did not run
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}
