package netlist

import (
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
)

// NoConnectName names nodes holding a no-connect marker
const NoConnectName = "NC"

// Name assigns every node its identifier. The first match wins:
//
//  1. the text of an absorbed label or global label
//  2. the Value of an absorbed pin of a power symbol
//  3. "NC" when a no-connect marker was absorbed
//
// Nodes matching none of these are numbered "1", "2", ... in the order
// the nodes were created.
func Name(sch *schematic.Schematic, positions []Position, nodes []*Node, opts ...Option) {
	o := newOptions(opts)

	next := 1
	for _, node := range nodes {
		node.Name = ""
		if name, ok := explicitName(sch, positions, node, o.powerPrefix); ok {
			node.Name = name
		}
	}
	for _, node := range nodes {
		if node.Name == "" {
			node.Name = strconv.Itoa(next)
			next++
		}
	}
}

func explicitName(sch *schematic.Schematic, positions []Position, node *Node, powerPrefix string) (string, bool) {
	for _, i := range node.Members {
		p := &positions[i]
		if (p.Kind == LabelPosition || p.Kind == GlobalLabelPosition) && p.Text != "" {
			return p.Text, true
		}
	}

	if powerPrefix != "" {
		for _, i := range node.Members {
			p := &positions[i]
			if p.Kind != PinPosition || p.Symbol < 0 {
				continue
			}
			sym := &sch.Symbols[p.Symbol]
			if !strings.HasPrefix(sym.LibID, powerPrefix) {
				continue
			}
			if value, ok := sym.Value(); ok && value != "" {
				return value, true
			}
		}
	}

	for _, i := range node.Members {
		if positions[i].Kind == NoConnectPosition {
			return NoConnectName, true
		}
	}

	return "", false
}
