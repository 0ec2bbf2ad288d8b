package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	nodesJSON  bool
	nodesKiCad bool
)

var nodesCmd = &cobra.Command{
	Use:   "nodes <schematic_file>",
	Short: "List the resolved nodes",
	Long: `List every electrical node of a schematic with the pins it connects.

Nodes are listed in creation order. Use --json or --kicad to export the
node list for other tools.`,
	Args: cobra.ExactArgs(1),
	RunE: runNodes,
}

func init() {
	rootCmd.AddCommand(nodesCmd)
	nodesCmd.Flags().BoolVar(&nodesJSON, "json", false, "output JSON")
	nodesCmd.Flags().BoolVar(&nodesKiCad, "kicad", false, "output a KiCad s-expression netlist")
	nodesCmd.MarkFlagsMutuallyExclusive("json", "kicad")
}

func runNodes(cmd *cobra.Command, args []string) error {
	nl, err := loadNetlist(cmd, args[0], false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case nodesJSON:
		data, err := nl.ExportJSON()
		if err != nil {
			return fmt.Errorf("error exporting JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	case nodesKiCad:
		fmt.Fprint(out, nl.ExportKiCad())
		return nil
	}

	var rows [][]string
	for _, net := range nl.Nets() {
		pins := make([]string, 0, len(net.Pins))
		for _, p := range net.Pins {
			pins = append(pins, p.Reference+"."+p.Pin)
		}
		rows = append(rows, []string{fmt.Sprint(net.ID), net.Name, fmt.Sprint(len(net.Points)), strings.Join(pins, " ")})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleDim).
		Headers("#", "Node", "Points", "Pins").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col == 1 {
				return styleTitle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Fprintln(out, t)
	fmt.Fprintln(out, styleDim.Render(fmt.Sprintf("%d nodes, %d references", nl.NodeCount(), nl.Symbols().Len())))
	return nil
}
