package netlist

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
)

// Symbol properties read for SPICE netlisting
const (
	PropNetlistEnabled = "Spice_Netlist_Enabled"
	PropNodeSequence   = "Spice_Node_Sequence"
	PropPrimitive      = "Spice_Primitive"
	PropModel          = "Spice_Model"
	PropValue          = "Value"
)

// Primitive is an explicit SPICE element type
type Primitive string

const (
	PrimitiveSubcircuit Primitive = "X"
	PrimitiveBJT        Primitive = "Q"
	PrimitiveJFET       Primitive = "J"
	PrimitiveDiode      Primitive = "D"
)

// Known reports whether the primitive is one the assembler can emit
func (p Primitive) Known() bool {
	switch p {
	case PrimitiveSubcircuit, PrimitiveBJT, PrimitiveJFET, PrimitiveDiode:
		return true
	}
	return false
}

// SpiceProps is the typed view of a symbol's SPICE properties. A nil field
// means the property is absent, which is distinct from an explicit empty
// or false value.
type SpiceProps struct {
	Enabled      *bool
	NodeSequence []string // nil when absent
	Primitive    *Primitive
	Model        *string
	Value        *string
}

// ReadSpiceProps reads the SPICE properties of a placed symbol
func ReadSpiceProps(sym *schematic.Symbol) SpiceProps {
	var props SpiceProps

	if v, ok := sym.Property(PropNetlistEnabled); ok {
		enabled := strings.TrimSpace(v) != "N"
		props.Enabled = &enabled
	}
	if v, ok := sym.Property(PropNodeSequence); ok {
		props.NodeSequence = strings.Fields(v)
		if props.NodeSequence == nil {
			props.NodeSequence = []string{}
		}
	}
	if v, ok := sym.Property(PropPrimitive); ok {
		p := Primitive(strings.ToUpper(strings.TrimSpace(v)))
		props.Primitive = &p
	}
	if v, ok := sym.Property(PropModel); ok {
		props.Model = &v
	}
	if v, ok := sym.Property(PropValue); ok {
		props.Value = &v
	}

	return props
}

// Disabled reports whether netlisting was explicitly switched off
func (p SpiceProps) Disabled() bool {
	return p.Enabled != nil && !*p.Enabled
}
