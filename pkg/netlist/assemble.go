package netlist

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/errors"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/spice"
)

// NotFoundName stands in for a pin whose point no node covers
const NotFoundName = "NF"

// Diagnostic is a non-fatal problem found while assembling the circuit
type Diagnostic struct {
	Reference string
	Message   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Reference, d.Message)
}

// Report collects what the assembler left out of the circuit
type Report struct {
	Unrecognized  []string     // References with no known component kind
	MissingModels []string     // References dropped for an unresolved model
	Diagnostics   []Diagnostic // All problems, in discovery order
}

// OK reports whether nothing was left out
func (r *Report) OK() bool {
	return len(r.Diagnostics) == 0
}

func (r *Report) add(ref, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Reference: ref, Message: fmt.Sprintf(format, args...)})
}

// Circuit adds one item per reference to c. Power symbols, mechanical
// symbols and symbols with Spice_Netlist_Enabled=N are skipped. Pins are
// ordered by Spice_Node_Sequence when present, else ascending by number,
// and each pin takes the name of the node at its transformed position.
//
// The element type comes from Spice_Primitive (X, Q, J, D with
// Spice_Model) or else from the reference prefix (R, C with Value).
// Anything else is reported and left out. Models are looked up with
// resolver and their files added as includes; a nil resolver has no
// search paths. An unknown model fails with ErrSpiceModelNotFound unless
// WithLenientModels was given, in which case the component is reported
// and left out.
func (nl *Netlist) Circuit(c *spice.Circuit, resolver *spice.Resolver) (Report, error) {
	var report Report
	if resolver == nil {
		resolver = spice.NewResolver(nil, spice.WithResolverLogger(nl.opts.logger))
	}
	logger := nl.opts.logger
	resolved := make(map[string]bool)

	for _, group := range nl.symbols.All() {
		first := &nl.sch.Symbols[group.Units[0]]
		ref := group.Reference

		if nl.allPower(group) {
			continue
		}
		if nl.opts.mechanicalPrefix != "" && strings.HasPrefix(first.LibID, nl.opts.mechanicalPrefix) {
			continue
		}

		props := ReadSpiceProps(first)
		if props.Disabled() {
			logger.Debug("netlisting disabled", "ref", ref)
			continue
		}

		lib := nl.sch.LibSymbol(first.LibID)
		if lib == nil {
			return report, errors.New(errors.ErrLibraryNotFound, first.LibID)
		}

		nodes := nl.pinNodes(group, lib, props, &report)

		switch {
		case props.Primitive != nil:
			prim := *props.Primitive
			if !prim.Known() {
				report.Unrecognized = append(report.Unrecognized, ref)
				report.add(ref, "unsupported Spice_Primitive %q", string(prim))
				logger.Warn("unsupported primitive", "ref", ref, "primitive", string(prim))
				continue
			}
			if props.Model == nil || *props.Model == "" {
				report.add(ref, "Spice_Primitive %s without Spice_Model", string(prim))
				logger.Warn("missing model", "ref", ref)
				continue
			}
			model := *props.Model
			if !needNodes(&report, ref, nodes, primitiveArity(prim)) {
				continue
			}

			if !resolved[model] && !c.HasSubcircuit(model) {
				paths, err := resolver.Resolve(model)
				if err != nil {
					if nl.opts.lenientModels && errors.Is(err, errors.ErrSpiceModelNotFound) {
						report.MissingModels = append(report.MissingModels, ref)
						report.add(ref, "model %s not found", model)
						logger.Warn("model not found", "ref", ref, "model", model)
						continue
					}
					return report, err
				}
				resolved[model] = true
				c.Include(paths...)
			}

			switch prim {
			case PrimitiveSubcircuit:
				c.Subcircuit(ref, nodes, model)
			case PrimitiveBJT:
				c.BJT(ref, nodes[0], nodes[1], nodes[2], model)
			case PrimitiveJFET:
				c.JFET(ref, nodes[0], nodes[1], nodes[2], model)
			case PrimitiveDiode:
				c.Diode(ref, nodes[0], nodes[1], model)
			}

		case strings.HasPrefix(ref, "R"), strings.HasPrefix(ref, "C"):
			if props.Value == nil {
				report.add(ref, "missing Value")
				logger.Warn("missing value", "ref", ref)
				continue
			}
			if !needNodes(&report, ref, nodes, 2) {
				continue
			}
			if strings.HasPrefix(ref, "R") {
				c.Resistor(ref, nodes[0], nodes[1], *props.Value)
			} else {
				c.Capacitor(ref, nodes[0], nodes[1], *props.Value)
			}

		default:
			report.Unrecognized = append(report.Unrecognized, ref)
			report.add(ref, "unrecognized component %s", first.LibID)
			logger.Warn("unrecognized component", "ref", ref, "lib_id", first.LibID)
		}
	}

	return report, nil
}

func (nl *Netlist) allPower(group SymbolRef) bool {
	if nl.opts.powerPrefix == "" {
		return false
	}
	for _, i := range group.Units {
		if !strings.HasPrefix(nl.sch.Symbols[i].LibID, nl.opts.powerPrefix) {
			return false
		}
	}
	return true
}

// pinNodes resolves the node name of every pin in netlist order
func (nl *Netlist) pinNodes(group SymbolRef, lib *schematic.LibSymbol, props SpiceProps, report *Report) []string {
	pins := lib.PinMap()

	sequence := lib.PinNumbers()
	if props.NodeSequence != nil {
		if len(props.NodeSequence) == 0 {
			report.add(group.Reference, "empty %s, using pin order", PropNodeSequence)
		} else {
			sequence = props.NodeSequence
		}
	}

	nodes := make([]string, 0, len(sequence))
	for _, key := range sequence {
		spec, ok := pins[key]
		if !ok {
			spec, ok = pinByName(pins, key)
		}
		if !ok {
			report.add(group.Reference, "no pin %q in %s", key, lib.Name)
			nodes = append(nodes, NotFoundName)
			continue
		}

		owner := nl.unitOwning(group, spec.Unit)
		if owner == nil {
			report.add(group.Reference, "unit %d of pin %s is not placed", spec.Unit, spec.Number)
			nodes = append(nodes, NotFoundName)
			continue
		}

		name, ok := nl.NodeName(pointOf(schematic.Transform(owner, spec.Position)))
		if !ok {
			name = NotFoundName
		}
		nodes = append(nodes, name)
	}

	return nodes
}

// unitOwning returns the placed unit that carries pins of the given
// library unit. Shared pins (unit 0) belong to the first placed unit.
func (nl *Netlist) unitOwning(group SymbolRef, unit int) *schematic.Symbol {
	for _, i := range group.Units {
		sym := &nl.sch.Symbols[i]
		if unit == 0 || sym.Unit == unit {
			return sym
		}
	}
	return nil
}

func pinByName(pins map[string]schematic.PinSpec, name string) (schematic.PinSpec, bool) {
	var found schematic.PinSpec
	count := 0
	for _, spec := range pins {
		if spec.Name == name {
			found = spec
			count++
		}
	}
	return found, count == 1
}

func primitiveArity(p Primitive) int {
	switch p {
	case PrimitiveBJT, PrimitiveJFET:
		return 3
	case PrimitiveDiode:
		return 2
	}
	return 0
}

func needNodes(report *Report, ref string, nodes []string, n int) bool {
	if len(nodes) < n {
		report.add(ref, "expected %d pins, got %d", n, len(nodes))
		return false
	}
	return true
}
