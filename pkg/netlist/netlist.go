package netlist

import (
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
)

// Netlist is the result of one resolution pass over a schematic
type Netlist struct {
	sch       *schematic.Schematic
	positions []Position
	nodes     []*Node
	names     map[Point]string
	symbols   *SymbolRefs
	opts      options
}

// New runs a resolution pass: symbols are grouped by reference, the
// schematic is indexed, resolved into nodes and the nodes are named.
func New(sch *schematic.Schematic, opts ...Option) (*Netlist, error) {
	o := newOptions(opts)

	symbols, err := GroupSymbols(sch)
	if err != nil {
		return nil, err
	}

	positions, err := Index(sch, opts...)
	if err != nil {
		return nil, err
	}

	nodes := Resolve(positions)
	Name(sch, positions, nodes, opts...)

	nl := &Netlist{
		sch:       sch,
		positions: positions,
		nodes:     nodes,
		names:     make(map[Point]string),
		symbols:   symbols,
		opts:      o,
	}

	// The first node to claim a point names it
	for _, node := range nodes {
		for _, pt := range node.Points {
			if _, exists := nl.names[pt]; !exists {
				nl.names[pt] = node.Name
			}
		}
	}

	o.logger.Debug("resolved netlist", "nodes", len(nodes), "references", symbols.Len())
	return nl, nil
}

// Schematic returns the schematic the netlist was built from
func (nl *Netlist) Schematic() *schematic.Schematic {
	return nl.sch
}

// Nodes returns the nodes in creation order
func (nl *Netlist) Nodes() []*Node {
	return nl.nodes
}

// Positions returns the indexed positions
func (nl *Netlist) Positions() []Position {
	return nl.positions
}

// Symbols returns the reference grouping
func (nl *Netlist) Symbols() *SymbolRefs {
	return nl.symbols
}

// NodeName returns the name of the node covering pt
func (nl *Netlist) NodeName(pt Point) (string, bool) {
	name, ok := nl.names[pt]
	return name, ok
}

// NodeCount returns the number of nodes
func (nl *Netlist) NodeCount() int {
	return len(nl.nodes)
}

// PinRef is one symbol pin absorbed into a node
type PinRef struct {
	Reference string `json:"ref"`
	Pin       string `json:"pin"`
}

// Pins returns the symbol pins of a node, power symbols included
func (nl *Netlist) Pins(node *Node) []PinRef {
	var pins []PinRef
	for _, i := range node.Members {
		p := &nl.positions[i]
		if p.Kind != PinPosition {
			continue
		}
		ref, _ := nl.sch.Symbols[p.Symbol].Reference()
		pins = append(pins, PinRef{Reference: ref, Pin: p.Pin})
	}
	return pins
}
