package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	netlistOutput   string
	netlistTitle    string
	netlistLibs     []string
	netlistLenient  bool
	netlistOptions  []string
	netlistControls []string
)

var netlistCmd = &cobra.Command{
	Use:   "netlist <schematic_file>",
	Short: "Generate a SPICE netlist",
	Long: `Resolve the nodes of a KiCad schematic and print the ngspice netlist.

Components are recognised from their Spice_Primitive and Spice_Model
properties, or from an R/C reference with a Value. Models are looked up in
the configured library paths and any --lib directories.`,
	Args: cobra.ExactArgs(1),
	RunE: runNetlist,
}

func init() {
	rootCmd.AddCommand(netlistCmd)
	netlistCmd.Flags().StringVarP(&netlistOutput, "output", "o", "", "write the netlist to a file")
	netlistCmd.Flags().StringVar(&netlistTitle, "title", "", "circuit title (default from config or title block)")
	netlistCmd.Flags().StringSliceVarP(&netlistLibs, "lib", "L", nil, "extra SPICE library directory")
	netlistCmd.Flags().BoolVar(&netlistLenient, "lenient", false, "drop components whose model is not found")
	netlistCmd.Flags().StringArrayVar(&netlistOptions, "option", nil, "dot option as name=value, e.g. temp=27")
	netlistCmd.Flags().StringArrayVarP(&netlistControls, "control", "c", nil, "control command for the .control block")
}

func runNetlist(cmd *cobra.Command, args []string) error {
	nl, err := loadNetlist(cmd, args[0], netlistLenient)
	if err != nil {
		return err
	}

	c, err := buildCircuit(cmd, nl, netlistTitle, netlistLibs)
	if err != nil {
		return err
	}

	for _, opt := range netlistOptions {
		name, value, ok := strings.Cut(opt, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid option %q, expected name=value", opt)
		}
		c.Option(name, value)
	}
	c.Control(netlistControls...)

	if netlistOutput != "" {
		if err := c.Save(netlistOutput); err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), "Wrote %s (%d components, %d nodes)", netlistOutput, len(c.Items), nl.NodeCount())
		return nil
	}

	_, err = c.WriteTo(cmd.OutOrStdout())
	return err
}
