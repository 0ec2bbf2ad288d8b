package netlist

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Net is the exported form of a named node
type Net struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Points []Point  `json:"points"`
	Pins   []PinRef `json:"pins"`
}

// Nets returns the nodes in exported form, in creation order
func (nl *Netlist) Nets() []Net {
	nets := make([]Net, 0, len(nl.nodes))
	for i, node := range nl.nodes {
		nets = append(nets, Net{
			ID:     i + 1,
			Name:   node.Name,
			Points: node.Points,
			Pins:   nl.Pins(node),
		})
	}
	return nets
}

// ExportJSON exports the netlist as indented JSON
func (nl *Netlist) ExportJSON() ([]byte, error) {
	output := struct {
		Version     string `json:"version"`
		NetCount    int    `json:"net_count"`
		Nets        []Net  `json:"nets"`
		GeneratedBy string `json:"generated_by"`
	}{
		Version:     "1.0",
		NetCount:    len(nl.nodes),
		Nets:        nl.Nets(),
		GeneratedBy: "ots netlist resolution",
	}

	return json.MarshalIndent(output, "", "  ")
}

// ExportKiCad exports the nets in KiCad's s-expression netlist format.
// Power symbol pins are left out of the node lists.
func (nl *Netlist) ExportKiCad() string {
	var b strings.Builder

	b.WriteString("(export (version \"E\")\n")
	b.WriteString("  (design\n")
	fmt.Fprintf(&b, "    (source %q)\n", nl.sch.TitleBlock.Title)
	b.WriteString("    (tool \"ots\")\n")
	b.WriteString("  )\n")

	b.WriteString("  (components\n")
	for _, group := range nl.symbols.All() {
		if nl.allPower(group) {
			continue
		}
		sym := &nl.sch.Symbols[group.Units[0]]
		value, _ := sym.Value()
		fmt.Fprintf(&b, "    (comp (ref %q) (value %q) (libsource (lib %q)))\n", group.Reference, value, sym.LibID)
	}
	b.WriteString("  )\n")

	b.WriteString("  (nets\n")
	for _, net := range nl.Nets() {
		fmt.Fprintf(&b, "    (net (code \"%d\") (name %q)\n", net.ID, net.Name)
		for _, pin := range net.Pins {
			if group, ok := nl.symbols.Get(pin.Reference); ok && nl.allPower(group) {
				continue
			}
			fmt.Fprintf(&b, "      (node (ref %q) (pin %q))\n", pin.Reference, pin.Pin)
		}
		b.WriteString("    )\n")
	}
	b.WriteString("  )\n")
	b.WriteString(")\n")

	return b.String()
}
