package netlist

import (
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/errors"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
)

// SymbolRef is a reference designator with the placed units that carry
// it, in document order
type SymbolRef struct {
	Reference string
	Units     []int // Indices into Schematic.Symbols
}

// SymbolRefs groups symbols by reference designator, keeping the order in
// which references were first seen
type SymbolRefs struct {
	refs  []SymbolRef
	index map[string]int
}

// GroupSymbols groups the schematic's symbols by reference. A symbol
// without a Reference property fails with ErrPropertyNotFound naming its
// library id.
func GroupSymbols(sch *schematic.Schematic) (*SymbolRefs, error) {
	s := &SymbolRefs{index: make(map[string]int)}

	for i := range sch.Symbols {
		ref, ok := sch.Symbols[i].Reference()
		if !ok {
			return nil, errors.New(errors.ErrPropertyNotFound, sch.Symbols[i].LibID)
		}

		if at, exists := s.index[ref]; exists {
			s.refs[at].Units = append(s.refs[at].Units, i)
			continue
		}
		s.index[ref] = len(s.refs)
		s.refs = append(s.refs, SymbolRef{Reference: ref, Units: []int{i}})
	}

	return s, nil
}

// All returns the groups in first-seen order
func (s *SymbolRefs) All() []SymbolRef {
	return s.refs
}

// Get returns the group for a reference
func (s *SymbolRefs) Get(ref string) (SymbolRef, bool) {
	at, ok := s.index[ref]
	if !ok {
		return SymbolRef{}, false
	}
	return s.refs[at], true
}

// Len returns the number of distinct references
func (s *SymbolRefs) Len() int {
	return len(s.refs)
}
