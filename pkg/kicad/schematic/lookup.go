package schematic

import (
	"sort"
	"strconv"
	"strings"
)

// LibSymbol returns the embedded library definition with the given id, or nil
func (s *Schematic) LibSymbol(id string) *LibSymbol {
	for i := range s.LibSymbols {
		if s.LibSymbols[i].Name == id {
			return &s.LibSymbols[i]
		}
	}
	return nil
}

// GetSymbol returns the first unit placed with the given reference designator
func (s *Schematic) GetSymbol(ref string) *Symbol {
	for i := range s.Symbols {
		if r, ok := s.Symbols[i].Reference(); ok && r == ref {
			return &s.Symbols[i]
		}
	}
	return nil
}

// GetAllReferences returns all reference designators in first-seen order
func (s *Schematic) GetAllReferences() []string {
	seen := make(map[string]bool)
	var refs []string
	for _, sym := range s.Symbols {
		ref, ok := sym.Reference()
		if !ok || ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

// GetLabels returns all label names (local + global + hierarchical)
func (s *Schematic) GetLabels() []string {
	seen := make(map[string]bool)
	var labels []string

	add := func(text string) {
		if !seen[text] {
			seen[text] = true
			labels = append(labels, text)
		}
	}
	for _, l := range s.Labels {
		add(l.Text)
	}
	for _, l := range s.GlobalLabels {
		add(l.Text)
	}
	for _, l := range s.HierLabels {
		add(l.Text)
	}

	return labels
}

// Property returns the value of the instance property with the given key
func (s *Symbol) Property(key string) (string, bool) {
	for _, prop := range s.Properties {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return "", false
}

// Reference returns the "Reference" property
func (s *Symbol) Reference() (string, bool) {
	return s.Property("Reference")
}

// Value returns the "Value" property
func (s *Symbol) Value() (string, bool) {
	return s.Property("Value")
}

// IsPower reports whether the symbol comes from the power library
func (s *Symbol) IsPower() bool {
	return strings.HasPrefix(s.LibID, PowerPrefix)
}

// IsMechanical reports whether the symbol is mechanical only (mounting
// holes, fiducials) and carries no electrical meaning
func (s *Symbol) IsMechanical() bool {
	return strings.HasPrefix(s.LibID, MechanicalPrefix)
}

// Property returns the value of the library property with the given key
func (l *LibSymbol) Property(key string) (string, bool) {
	for _, prop := range l.Properties {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return "", false
}

// PinsForUnit returns the pins of the given unit plus the shared unit 0
// pins. Unit 0 selects every pin of the symbol.
func (l *LibSymbol) PinsForUnit(unit int) []Pin {
	var pins []Pin
	for _, u := range l.Units {
		if unit == 0 || u.Number == 0 || u.Number == unit {
			pins = append(pins, u.Pins...)
		}
	}
	return pins
}

// PinMap returns every pin keyed by pin number. When a number appears in
// more than one body style the first definition wins.
func (l *LibSymbol) PinMap() map[string]PinSpec {
	pins := make(map[string]PinSpec)
	for _, u := range l.Units {
		for _, p := range u.Pins {
			if _, ok := pins[p.Number]; !ok {
				pins[p.Number] = PinSpec{Pin: p, Unit: u.Number}
			}
		}
	}
	return pins
}

// PinNumbers returns the pin numbers of the symbol in ascending order.
// Numeric pins sort numerically and come before alphanumeric ones
// (BGA style "A1"), which sort lexically.
func (l *LibSymbol) PinNumbers() []string {
	pins := l.PinMap()
	numbers := make([]string, 0, len(pins))
	for n := range pins {
		numbers = append(numbers, n)
	}
	sort.Slice(numbers, func(i, j int) bool {
		a, errA := strconv.Atoi(numbers[i])
		b, errB := strconv.Atoi(numbers[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return numbers[i] < numbers[j]
	})
	return numbers
}
