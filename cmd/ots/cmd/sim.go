package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/spice"
)

var (
	simControls []string
	simLibs     []string
	simVectors  []string
)

var simCmd = &cobra.Command{
	Use:   "sim <schematic_file>",
	Short: "Simulate a schematic with ngspice",
	Long: `Build the SPICE netlist of a schematic and run it through ngspice in
batch mode. Every --control command is run in order and the vectors it
produces are summarised per plot.

Examples:
  ots sim filter.kicad_sch -c "tran 1u 1m"
  ots sim filter.kicad_sch -c "ac dec 10 1 100k" --vector "v(out)"`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().StringArrayVarP(&simControls, "control", "c", nil, "analysis command, e.g. \"tran 1u 1m\"")
	simCmd.Flags().StringSliceVarP(&simLibs, "lib", "L", nil, "extra SPICE library directory")
	simCmd.Flags().StringSliceVar(&simVectors, "vector", nil, "only show these vectors")
	simCmd.MarkFlagRequired("control")
}

func runSim(cmd *cobra.Command, args []string) error {
	cfg := configFromContext(cmd.Context())
	logger := loggerFromContext(cmd.Context())

	nl, err := loadNetlist(cmd, args[0], false)
	if err != nil {
		return err
	}
	c, err := buildCircuit(cmd, nl, "", simLibs)
	if err != nil {
		return err
	}

	sim := &spice.NgspiceBatch{
		Binary:  cfg.Sim.Ngspice,
		WorkDir: cfg.Sim.WorkDir,
		Logger:  logger,
	}
	results, err := sim.Run(cmd.Context(), c, simControls)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range sortedKeys(results) {
		plot := results[name]
		fmt.Fprintln(out, styleTitle.Render(name))

		var rows [][]string
		for _, vec := range sortedKeys(plot) {
			if len(simVectors) > 0 && !containsString(simVectors, vec) {
				continue
			}
			v := plot[vec]
			row := []string{vec, strconv.Itoa(len(v)), "", ""}
			if len(v) > 0 {
				row[2] = formatValue(v[0])
				row[3] = formatValue(v[len(v)-1])
			}
			rows = append(rows, row)
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(styleDim).
			Headers("Vector", "Points", "First", "Last").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return styleHeader.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
		fmt.Fprintln(out, t)
	}

	return nil
}

func formatValue(v complex128) string {
	if imag(v) == 0 {
		return strconv.FormatFloat(real(v), 'g', 6, 64)
	}
	return strconv.FormatComplex(v, 'g', 6, 128)
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
