package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

var (
	graphFormat string
	graphOutput string
)

var graphCmd = &cobra.Command{
	Use:   "graph <schematic_file>",
	Short: "Export the connectivity graph",
	Long: `Export the resolved netlist as a Graphviz graph. Components are boxes,
nodes are ellipses and every pin is an edge labelled with its number.`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVarP(&graphFormat, "format", "f", "dot", "output format: dot or svg")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "output file (default stdout)")
}

func runGraph(cmd *cobra.Command, args []string) error {
	nl, err := loadNetlist(cmd, args[0], false)
	if err != nil {
		return err
	}

	dot := nl.ToDOT()
	var data []byte
	switch graphFormat {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = netlist.RenderSVG(cmd.Context(), dot)
		if err != nil {
			return fmt.Errorf("error rendering SVG: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (use dot or svg)", graphFormat)
	}

	if graphOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(graphOutput, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", graphOutput, err)
	}
	printSuccess(cmd.ErrOrStderr(), "Wrote %s", graphOutput)
	return nil
}
