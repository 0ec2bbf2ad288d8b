// Package spice models an ngspice circuit description: component items,
// nested subcircuit definitions, include directives, options and control
// commands. It also resolves device models from SPICE library files and
// drives ngspice in batch mode.
package spice

import (
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/errors"
)

// Kind is the type of a circuit item
type Kind int

const (
	Resistor Kind = iota
	Capacitor
	Diode
	BJT
	JFET
	Voltage
	Subcircuit
)

// Prefix returns the SPICE element letter of the kind
func (k Kind) Prefix() string {
	switch k {
	case Resistor:
		return "R"
	case Capacitor:
		return "C"
	case Diode:
		return "D"
	case BJT:
		return "Q"
	case JFET:
		return "J"
	case Voltage:
		return "V"
	case Subcircuit:
		return "X"
	}
	return "?"
}

func (k Kind) String() string {
	switch k {
	case Resistor:
		return "resistor"
	case Capacitor:
		return "capacitor"
	case Diode:
		return "diode"
	case BJT:
		return "bjt"
	case JFET:
		return "jfet"
	case Voltage:
		return "voltage"
	case Subcircuit:
		return "subcircuit"
	}
	return "unknown"
}

// HasModel reports whether the item's Value names a device model or
// subcircuit rather than a literal value
func (k Kind) HasModel() bool {
	switch k {
	case Diode, BJT, JFET, Subcircuit:
		return true
	}
	return false
}

// Item is one component line of a circuit
type Item struct {
	Kind      Kind
	Reference string   // Reference designator, e.g. "R1"
	Nodes     []string // Connected node names in pin order
	Value     string   // Value, or model name when Kind.HasModel
}

// Option is a dot option such as ".temp 25"
type Option struct {
	Name  string
	Value string
}

// Subckt is a nested subcircuit definition
type Subckt struct {
	Name    string
	Ports   []string
	Circuit *Circuit
}

// Circuit is an ordered circuit description. The zero value is an empty
// circuit without title.
type Circuit struct {
	Title       string
	Items       []Item
	includes    []string
	subcircuits []Subckt
	options     []Option
	controls    []string
}

// New creates an empty circuit with the given title
func New(title string) *Circuit {
	return &Circuit{Title: title}
}

func (c *Circuit) add(kind Kind, reference string, nodes []string, value string) {
	c.Items = append(c.Items, Item{Kind: kind, Reference: reference, Nodes: nodes, Value: value})
}

// Resistor adds a resistor between n0 and n1
func (c *Circuit) Resistor(reference, n0, n1, value string) {
	c.add(Resistor, reference, []string{n0, n1}, value)
}

// Capacitor adds a capacitor between n0 and n1
func (c *Circuit) Capacitor(reference, n0, n1, value string) {
	c.add(Capacitor, reference, []string{n0, n1}, value)
}

// Diode adds a diode from anode to cathode
func (c *Circuit) Diode(reference, anode, cathode, model string) {
	c.add(Diode, reference, []string{anode, cathode}, model)
}

// BJT adds a bipolar transistor
func (c *Circuit) BJT(reference, collector, base, emitter, model string) {
	c.add(BJT, reference, []string{collector, base, emitter}, model)
}

// JFET adds a junction field effect transistor
func (c *Circuit) JFET(reference, drain, gate, source, model string) {
	c.add(JFET, reference, []string{drain, gate, source}, model)
}

// Voltage adds an independent voltage source
func (c *Circuit) Voltage(reference, n0, n1, value string) {
	c.add(Voltage, reference, []string{n0, n1}, value)
}

// Subcircuit adds an instance of the subcircuit model
func (c *Circuit) Subcircuit(reference string, nodes []string, model string) {
	c.add(Subcircuit, reference, append([]string(nil), nodes...), model)
}

// AddSubcircuit defines a nested subcircuit. Redefining a name replaces the
// body in place.
func (c *Circuit) AddSubcircuit(name string, ports []string, body *Circuit) {
	for i := range c.subcircuits {
		if c.subcircuits[i].Name == name {
			c.subcircuits[i].Ports = ports
			c.subcircuits[i].Circuit = body
			return
		}
	}
	c.subcircuits = append(c.subcircuits, Subckt{Name: name, Ports: ports, Circuit: body})
}

// Subcircuits returns the nested subcircuit definitions in insertion order
func (c *Circuit) Subcircuits() []Subckt {
	return c.subcircuits
}

// HasSubcircuit reports whether name is defined locally
func (c *Circuit) HasSubcircuit(name string) bool {
	for _, s := range c.subcircuits {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Include adds library files. Paths already present are skipped, so the
// first discovery order is kept.
func (c *Circuit) Include(paths ...string) {
	for _, p := range paths {
		if !contains(c.includes, p) {
			c.includes = append(c.includes, p)
		}
	}
}

// Includes returns the library files in accumulation order
func (c *Circuit) Includes() []string {
	return c.includes
}

// Option sets a dot option. Setting an existing option updates its value
// and keeps its position.
func (c *Circuit) Option(name, value string) {
	for i := range c.options {
		if c.options[i].Name == name {
			c.options[i].Value = value
			return
		}
	}
	c.options = append(c.options, Option{Name: name, Value: value})
}

// Options returns the options in insertion order
func (c *Circuit) Options() []Option {
	return c.options
}

// Control appends control commands. Multi-line input is split and blank
// lines are dropped.
func (c *Circuit) Control(commands ...string) {
	for _, cmd := range commands {
		for _, line := range splitLines(cmd) {
			c.controls = append(c.controls, line)
		}
	}
}

// Controls returns the control commands
func (c *Circuit) Controls() []string {
	return c.controls
}

// Item returns the item with the given reference
func (c *Circuit) Item(reference string) (*Item, bool) {
	for i := range c.Items {
		if c.Items[i].Reference == reference {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// SetValue changes the value of a resistor, capacitor, diode or voltage
// source. Transistors and subcircuit instances cannot be changed.
func (c *Circuit) SetValue(reference, value string) error {
	for i := range c.Items {
		item := &c.Items[i]
		if item.Reference != reference {
			continue
		}
		switch item.Kind {
		case Resistor, Capacitor, Diode, Voltage:
			item.Value = value
			return nil
		}
	}
	return errors.New(errors.ErrUnknownCircuitElement, reference)
}

// ResolveIncludes looks up every model used by the circuit that is not
// defined as a local subcircuit and adds the defining files as includes.
func (c *Circuit) ResolveIncludes(r *Resolver) error {
	resolved := make(map[string]bool)
	for _, item := range c.Items {
		if !item.Kind.HasModel() || resolved[item.Value] || c.HasSubcircuit(item.Value) {
			continue
		}
		paths, err := r.Resolve(item.Value)
		if err != nil {
			return err
		}
		resolved[item.Value] = true
		c.Include(paths...)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
