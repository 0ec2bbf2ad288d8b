package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/spice"
)

// loadNetlist parses a schematic and resolves its nodes with the
// configured library prefixes
func loadNetlist(cmd *cobra.Command, filename string, lenient bool) (*netlist.Netlist, error) {
	cfg := configFromContext(cmd.Context())
	logger := loggerFromContext(cmd.Context())

	sch, err := schematic.ParseFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error parsing schematic: %w", err)
	}

	opts := []netlist.Option{
		netlist.WithLogger(logger),
		netlist.WithPowerPrefix(cfg.Netlist.PowerPrefix),
		netlist.WithMechanicalPrefix(cfg.Netlist.MechanicalPrefix),
	}
	if lenient || cfg.Spice.LenientModels {
		opts = append(opts, netlist.WithLenientModels())
	}

	nl, err := netlist.New(sch, opts...)
	if err != nil {
		return nil, fmt.Errorf("error resolving netlist: %w", err)
	}
	return nl, nil
}

// buildCircuit assembles the SPICE circuit of a netlist. Models are looked
// up in the configured library paths followed by libs. Components left out
// are reported on stderr.
func buildCircuit(cmd *cobra.Command, nl *netlist.Netlist, title string, libs []string) (*spice.Circuit, error) {
	cfg := configFromContext(cmd.Context())
	logger := loggerFromContext(cmd.Context())

	if title == "" {
		title = cfg.Spice.Title
	}
	if title == "" {
		title = nl.Schematic().TitleBlock.Title
	}

	paths := append(append([]string(nil), cfg.Spice.LibraryPaths...), libs...)
	resolver := spice.NewResolver(paths, spice.WithResolverLogger(logger))

	c := spice.New(title)
	report, err := nl.Circuit(c, resolver)
	if err != nil {
		return nil, err
	}
	for _, d := range report.Diagnostics {
		printWarning(cmd.ErrOrStderr(), "%s", d)
	}

	return c, nil
}
