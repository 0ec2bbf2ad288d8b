// Package schematic provides parsing for KiCad schematic files (.kicad_sch)
package schematic

import (
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/sexp"
)

// Re-export shared types from sexp package for convenience
type Position = sexp.Position
type Angle = sexp.Angle
type PositionAngle = sexp.PositionAngle
type Size = sexp.Size
type UUID = sexp.UUID
type Effects = sexp.Effects
type Property = sexp.Property

// Library id prefixes with special meaning for netlisting
const (
	PowerPrefix      = "power:"
	MechanicalPrefix = "Mechanical:"
)

// Schematic represents a complete KiCad schematic file
type Schematic struct {
	Version        int             // File format version
	Generator      string          // Generator info (e.g., "eeschema")
	GeneratorVer   string          // Generator version
	UUID           UUID            // Schematic UUID
	Paper          string          // Paper size (e.g., "A4")
	TitleBlock     TitleBlock      // Title block information
	LibSymbols     []LibSymbol     // Embedded library symbols
	Symbols        []Symbol        // Symbol instances on the schematic
	Wires          []Wire          // Wire connections
	Buses          []Bus           // Bus connections
	Junctions      []Junction      // Wire junctions
	NoConnects     []NoConnect     // No-connect markers
	Labels         []Label         // Local labels
	GlobalLabels   []GlobalLabel   // Global labels
	HierLabels     []HierLabel     // Hierarchical labels
	Sheets         []Sheet         // Hierarchical sheet references
	SheetInstances []SheetInstance // Sheet instance paths

	// Elements lists the electrical elements in document order. Each entry
	// indexes into the per-kind slice named by its Kind.
	Elements []ElementRef
}

// ElementKind identifies the per-kind slice an ElementRef points into
type ElementKind int

const (
	ElementSymbol ElementKind = iota
	ElementWire
	ElementJunction
	ElementNoConnect
	ElementLabel
	ElementGlobalLabel
)

func (k ElementKind) String() string {
	switch k {
	case ElementSymbol:
		return "symbol"
	case ElementWire:
		return "wire"
	case ElementJunction:
		return "junction"
	case ElementNoConnect:
		return "no_connect"
	case ElementLabel:
		return "label"
	case ElementGlobalLabel:
		return "global_label"
	}
	return "unknown"
}

// ElementRef points at one electrical element of the schematic
type ElementRef struct {
	Kind  ElementKind
	Index int
}

// TitleBlock contains schematic title block information
type TitleBlock struct {
	Title    string
	Date     string
	Revision string
	Company  string
	Comments [4]string
}

// LibSymbol represents an embedded library symbol definition
type LibSymbol struct {
	Name       string       // Symbol name (e.g., "Device:R")
	Power      bool         // Declared with (power)
	InBom      bool         // Include in BOM
	OnBoard    bool         // Place on board
	Properties []Property   // Symbol properties
	Units      []SymbolUnit // Symbol units, pins live here
}

// SymbolUnit represents a unit of a multi-unit symbol. The name has the
// form NAME_<unit>_<style>; unit 0 holds items shared by all units.
type SymbolUnit struct {
	Name   string
	Number int
	Style  int
	Pins   []Pin
}

// Pin represents a symbol pin
type Pin struct {
	Type     string   // Pin type (input, output, bidirectional, etc.)
	Style    string   // Pin style (line, inverted, clock, etc.)
	Position Position // Pin position, local to the symbol
	Angle    Angle    // Pin angle (0, 90, 180, 270)
	Length   float64  // Pin length
	Name     string   // Pin name
	Number   string   // Pin number
	Hide     bool     // Hidden pin
}

// PinSpec is a library pin together with the unit that owns it
type PinSpec struct {
	Pin
	Unit int
}

// Symbol represents a symbol instance placed on the schematic
type Symbol struct {
	LibID      string     // Library identifier (e.g., "Device:R")
	Position   Position   // Position on schematic
	Angle      Angle      // Rotation angle in degrees
	Mirror     string     // Mirror mode (x, y, or empty)
	Unit       int        // Unit number (for multi-unit symbols)
	InBom      bool       // Include in BOM
	OnBoard    bool       // Place on board
	UUID       UUID       // Instance UUID
	Properties []Property // Instance properties (Reference, Value, etc.)
}

// Wire represents a wire connection
type Wire struct {
	Points []Position // Wire points (at least 2)
	UUID   UUID       // Wire UUID
}

// Bus represents a bus connection
type Bus struct {
	Points []Position
	UUID   UUID
}

// Junction represents a wire junction
type Junction struct {
	Position Position // Junction position
	Diameter float64  // Junction diameter
	UUID     UUID     // Junction UUID
}

// NoConnect represents a no-connect marker
type NoConnect struct {
	Position Position // Marker position
	UUID     UUID     // Marker UUID
}

// Label represents a local wire label
type Label struct {
	Text     string   // Label text
	Position Position // Label position
	Angle    Angle    // Label rotation
	UUID     UUID     // Label UUID
}

// GlobalLabel represents a global label (visible across sheets)
type GlobalLabel struct {
	Text       string     // Label text
	Shape      string     // Label shape (input, output, bidirectional, etc.)
	Position   Position   // Label position
	Angle      Angle      // Label rotation
	UUID       UUID       // Label UUID
	Properties []Property // Label properties
}

// HierLabel represents a hierarchical label (connects to sheet pins)
type HierLabel struct {
	Text     string
	Shape    string
	Position Position
	Angle    Angle
	UUID     UUID
}

// Sheet represents a hierarchical sheet reference
type Sheet struct {
	Position Position
	Size     Size
	UUID     UUID
	Name     string // Sheetname property
	FileName string // Sheetfile property
}

// SheetInstance represents a sheet instance path
type SheetInstance struct {
	Path string // Instance path
	Page string // Page number
}

// unitNumbers decodes NAME_<unit>_<style>. Names that do not follow the
// pattern belong to unit 0.
func unitNumbers(name string) (unit, style int) {
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return 0, 0
	}
	u, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return 0, 0
	}
	s, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, 0
	}
	return u, s
}
