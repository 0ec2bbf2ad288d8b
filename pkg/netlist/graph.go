package netlist

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts the netlist to a Graphviz DOT graph: components are
// boxes, nets are ellipses and every pin is an edge labelled with its
// number. Power symbols are folded into the nets they name.
func (nl *Netlist) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("graph netlist {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("\n")

	for _, group := range nl.symbols.All() {
		if nl.allPower(group) {
			continue
		}
		label := group.Reference
		if value, ok := nl.sch.Symbols[group.Units[0]].Value(); ok && value != "" {
			label += "\n" + value
		}
		fmt.Fprintf(&buf, "  %q [shape=box, style=\"rounded,filled\", fillcolor=white, label=%q];\n", "comp:"+group.Reference, label)
	}

	buf.WriteString("\n")
	for i, net := range nl.Nets() {
		id := fmt.Sprintf("net:%d", i+1)
		fmt.Fprintf(&buf, "  %q [shape=ellipse, style=filled, fillcolor=lightgrey, label=%q];\n", id, net.Name)
		for _, pin := range net.Pins {
			if group, ok := nl.symbols.Get(pin.Reference); ok && nl.allPower(group) {
				continue
			}
			fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", "comp:"+pin.Reference, id, pin.Pin)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
