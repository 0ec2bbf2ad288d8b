package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

var schCmd = &cobra.Command{
	Use:   "sch",
	Short: "KiCad schematic file operations",
	Long:  `Commands for working with KiCad schematic files (.kicad_sch)`,
}

var schInfoCmd = &cobra.Command{
	Use:   "info <schematic_file> [component]",
	Short: "Show schematic information",
	Long: `Display information about a KiCad schematic file.

Without component argument: shows schematic summary
With component argument: shows details for that specific component,
including its SPICE properties and the node of every pin. Properties
hidden on the sheet are listed only with --all`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSchInfo,
}

var schInfoAll bool

func init() {
	rootCmd.AddCommand(schCmd)
	schCmd.AddCommand(schInfoCmd)

	schInfoCmd.Flags().BoolVarP(&schInfoAll, "all", "a", false, "include hidden properties")
}

func runSchInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]
	out := cmd.OutOrStdout()

	if len(args) >= 2 {
		nl, err := loadNetlist(cmd, filename, false)
		if err != nil {
			return err
		}
		return showComponentDetails(out, nl, args[1], schInfoAll)
	}

	sch, err := schematic.ParseFile(filename)
	if err != nil {
		return fmt.Errorf("error parsing schematic: %w", err)
	}
	showSchemSummary(out, sch, filename)
	return nil
}

func showSchemSummary(w io.Writer, sch *schematic.Schematic, filename string) {
	fmt.Fprintf(w, "Schematic: %s\n", filename)
	fmt.Fprintf(w, "Version: %d\n", sch.Version)
	fmt.Fprintf(w, "Generator: %s", sch.Generator)
	if sch.GeneratorVer != "" {
		fmt.Fprintf(w, " v%s", sch.GeneratorVer)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Paper: %s\n", sch.Paper)
	fmt.Fprintln(w)

	// Title block
	if sch.TitleBlock.Title != "" || sch.TitleBlock.Revision != "" {
		fmt.Fprintln(w, "Title Block:")
		if sch.TitleBlock.Title != "" {
			fmt.Fprintf(w, "  Title: %s\n", sch.TitleBlock.Title)
		}
		if sch.TitleBlock.Date != "" {
			fmt.Fprintf(w, "  Date: %s\n", sch.TitleBlock.Date)
		}
		if sch.TitleBlock.Revision != "" {
			fmt.Fprintf(w, "  Revision: %s\n", sch.TitleBlock.Revision)
		}
		if sch.TitleBlock.Company != "" {
			fmt.Fprintf(w, "  Company: %s\n", sch.TitleBlock.Company)
		}
		fmt.Fprintln(w)
	}

	// Statistics
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "  Symbols: %d\n", len(sch.Symbols))
	fmt.Fprintf(w, "  Library symbols: %d\n", len(sch.LibSymbols))
	fmt.Fprintf(w, "  Wires: %d\n", len(sch.Wires))
	fmt.Fprintf(w, "  Buses: %d\n", len(sch.Buses))
	fmt.Fprintf(w, "  Junctions: %d\n", len(sch.Junctions))
	fmt.Fprintf(w, "  Labels: %d\n", len(sch.Labels))
	fmt.Fprintf(w, "  Global labels: %d\n", len(sch.GlobalLabels))
	fmt.Fprintf(w, "  Hierarchical labels: %d\n", len(sch.HierLabels))
	fmt.Fprintf(w, "  Sheets: %d\n", len(sch.Sheets))
	fmt.Fprintf(w, "  No-connects: %d\n", len(sch.NoConnects))
	fmt.Fprintln(w)

	// Component list, grouped by reference prefix
	refs := sch.GetAllReferences()
	if len(refs) > 0 {
		fmt.Fprintln(w, "Components:")

		byPrefix := make(map[string][]string)
		for _, ref := range refs {
			prefix := getRefPrefix(ref)
			byPrefix[prefix] = append(byPrefix[prefix], ref)
		}

		var prefixes []string
		for p := range byPrefix {
			prefixes = append(prefixes, p)
		}
		sort.Strings(prefixes)

		for _, prefix := range prefixes {
			refs := byPrefix[prefix]
			sort.Strings(refs)
			fmt.Fprintf(w, "  %s: %s\n", prefix, strings.Join(refs, ", "))
		}
		fmt.Fprintln(w)
	}

	// Labels
	labels := sch.GetLabels()
	if len(labels) > 0 {
		fmt.Fprintln(w, "Net Labels:")
		sort.Strings(labels)
		for _, l := range labels {
			fmt.Fprintf(w, "  %s\n", l)
		}
		fmt.Fprintln(w)
	}

	// Hierarchical sheets
	if len(sch.Sheets) > 0 {
		fmt.Fprintln(w, "Hierarchical Sheets:")
		for _, sheet := range sch.Sheets {
			fmt.Fprintf(w, "  %s (%s)\n", sheet.Name, sheet.FileName)
		}
	}
}

func showComponentDetails(w io.Writer, nl *netlist.Netlist, ref string, all bool) error {
	sch := nl.Schematic()
	group, ok := nl.Symbols().Get(ref)
	if !ok {
		return fmt.Errorf("component '%s' not found", ref)
	}
	sym := &sch.Symbols[group.Units[0]]

	fmt.Fprintf(w, "Component: %s\n", ref)
	fmt.Fprintf(w, "Library: %s\n", sym.LibID)
	for _, i := range group.Units {
		unit := &sch.Symbols[i]
		fmt.Fprintf(w, "Unit %d: (%.2f, %.2f)", unit.Unit, unit.Position.X, unit.Position.Y)
		if unit.Angle != 0 {
			fmt.Fprintf(w, " rotated %.0f°", float64(unit.Angle))
		}
		if unit.Mirror != "" {
			fmt.Fprintf(w, " mirror %s", unit.Mirror)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	var shown []schematic.Property
	for _, prop := range sym.Properties {
		if all || !prop.Effects.Hide {
			shown = append(shown, prop)
		}
	}
	if len(shown) > 0 {
		fmt.Fprintln(w, "Properties:")
		for _, prop := range shown {
			fmt.Fprintf(w, "  %s: %s\n", prop.Key, prop.Value)
		}
		fmt.Fprintln(w)
	}

	props := netlist.ReadSpiceProps(sym)
	if props.Primitive != nil || props.Model != nil || props.NodeSequence != nil || props.Disabled() {
		fmt.Fprintln(w, "SPICE:")
		if props.Disabled() {
			fmt.Fprintln(w, "  netlisting disabled")
		}
		if props.Primitive != nil {
			fmt.Fprintf(w, "  Primitive: %s\n", *props.Primitive)
		}
		if props.Model != nil {
			fmt.Fprintf(w, "  Model: %s\n", *props.Model)
		}
		if props.NodeSequence != nil {
			fmt.Fprintf(w, "  Node sequence: %s\n", strings.Join(props.NodeSequence, " "))
		}
		fmt.Fprintln(w)
	}

	// Pins with the node at their placed position
	lib := sch.LibSymbol(sym.LibID)
	if lib == nil {
		return nil
	}
	pins := lib.PinMap()
	fmt.Fprintln(w, "Pins:")
	for _, number := range lib.PinNumbers() {
		pin := pins[number]
		node := styleDim.Render("unplaced")
		for _, i := range group.Units {
			unit := &sch.Symbols[i]
			if pin.Unit != 0 && unit.Unit != pin.Unit {
				continue
			}
			pos := schematic.Transform(unit, pin.Position)
			if name, ok := nl.NodeName(netlist.Point{X: pos.X, Y: pos.Y}); ok {
				node = name
			} else {
				node = netlist.NotFoundName
			}
			break
		}
		fmt.Fprintf(w, "  %s (%s): %s %s -> %s\n", pin.Number, pin.Name, pin.Type, pin.Style, node)
	}

	return nil
}

func getRefPrefix(ref string) string {
	// Extract prefix (letters before numbers)
	for i, c := range ref {
		if c >= '0' && c <= '9' {
			return ref[:i]
		}
	}
	return ref
}
