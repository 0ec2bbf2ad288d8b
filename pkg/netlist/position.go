package netlist

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/errors"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
)

// Point is an absolute sheet coordinate. Points are comparable and are
// equal only when both coordinates are bit-identical, so they serve as map
// keys directly.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("%g:%g", p.X, p.Y)
}

func pointOf(p schematic.Position) Point {
	return Point{X: p.X, Y: p.Y}
}

// PositionKind is the type of element a Position was made from
type PositionKind int

const (
	PinPosition PositionKind = iota
	WirePosition
	LabelPosition
	GlobalLabelPosition
	JunctionPosition
	NoConnectPosition
)

func (k PositionKind) String() string {
	switch k {
	case PinPosition:
		return "pin"
	case WirePosition:
		return "wire"
	case LabelPosition:
		return "label"
	case GlobalLabelPosition:
		return "global_label"
	case JunctionPosition:
		return "junction"
	case NoConnectPosition:
		return "no_connect"
	}
	return "unknown"
}

// Position is one connectable element at absolute coordinates
type Position struct {
	Kind   PositionKind
	Point  Point  // Location; first endpoint of a wire
	End    Point  // Second endpoint of a wire
	Text   string // Label text
	Pin    string // Pin number
	Symbol int    // Index of the owning symbol in Schematic.Symbols, -1 if none
}

// At reports whether the element touches p. Wires touch at either endpoint.
func (p *Position) At(pt Point) bool {
	return p.Point == pt || (p.Kind == WirePosition && p.End == pt)
}

// Index walks the schematic elements in document order and returns their
// positions. Each symbol contributes the pins of its unit plus the shared
// pins, transformed into sheet coordinates; mechanical symbols contribute
// nothing. A symbol whose library definition is missing aborts the pass
// with ErrLibraryNotFound.
func Index(sch *schematic.Schematic, opts ...Option) ([]Position, error) {
	o := newOptions(opts)
	positions := make([]Position, 0, len(sch.Elements))

	for _, el := range sch.Elements {
		switch el.Kind {
		case schematic.ElementSymbol:
			sym := &sch.Symbols[el.Index]
			if o.mechanicalPrefix != "" && strings.HasPrefix(sym.LibID, o.mechanicalPrefix) {
				continue
			}
			lib := sch.LibSymbol(sym.LibID)
			if lib == nil {
				return nil, errors.New(errors.ErrLibraryNotFound, sym.LibID)
			}
			for _, pin := range lib.PinsForUnit(sym.Unit) {
				positions = append(positions, Position{
					Kind:   PinPosition,
					Point:  pointOf(schematic.Transform(sym, pin.Position)),
					Pin:    pin.Number,
					Symbol: el.Index,
				})
			}

		case schematic.ElementWire:
			w := sch.Wires[el.Index]
			positions = append(positions, Position{
				Kind:   WirePosition,
				Point:  pointOf(w.Points[0]),
				End:    pointOf(w.Points[len(w.Points)-1]),
				Symbol: -1,
			})

		case schematic.ElementLabel:
			l := sch.Labels[el.Index]
			positions = append(positions, Position{Kind: LabelPosition, Point: pointOf(l.Position), Text: l.Text, Symbol: -1})

		case schematic.ElementGlobalLabel:
			l := sch.GlobalLabels[el.Index]
			positions = append(positions, Position{Kind: GlobalLabelPosition, Point: pointOf(l.Position), Text: l.Text, Symbol: -1})

		case schematic.ElementJunction:
			positions = append(positions, Position{Kind: JunctionPosition, Point: pointOf(sch.Junctions[el.Index].Position), Symbol: -1})

		case schematic.ElementNoConnect:
			positions = append(positions, Position{Kind: NoConnectPosition, Point: pointOf(sch.NoConnects[el.Index].Position), Symbol: -1})
		}
	}

	o.logger.Debug("indexed schematic", "positions", len(positions), "elements", len(sch.Elements))
	return positions, nil
}
