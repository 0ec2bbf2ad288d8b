package schematic

import (
	"strings"
	"testing"
)

func TestParseMinimalSchematic(t *testing.T) {
	input := `(kicad_sch
		(version 20250114)
		(generator "eeschema")
		(generator_version "9.0")
		(uuid 862335ee-c981-4fe1-9eb9-84db19301dd4)
		(paper "A4")
		(lib_symbols)
		(sheet_instances
			(path "/"
				(page "1")
			)
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if sch.Version != 20250114 {
		t.Errorf("Expected version 20250114, got %d", sch.Version)
	}

	if sch.Generator != "eeschema" {
		t.Errorf("Expected generator 'eeschema', got '%s'", sch.Generator)
	}

	if sch.GeneratorVer != "9.0" {
		t.Errorf("Expected generator version '9.0', got '%s'", sch.GeneratorVer)
	}

	if sch.Paper != "A4" {
		t.Errorf("Expected paper 'A4', got '%s'", sch.Paper)
	}

	if len(sch.SheetInstances) != 1 {
		t.Errorf("Expected 1 sheet instance, got %d", len(sch.SheetInstances))
	}
}

func TestParseSchematicWithSymbol(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols
			(symbol "Device:R"
				(property "Reference" "R" (at 0 0 0))
				(property "Value" "R" (at 0 0 0))
				(symbol "R_0_1"
					(rectangle (start -1.016 -2.286) (end 1.016 2.286))
				)
				(symbol "R_1_1"
					(pin passive line (at 0 3.81 270) (length 1.27)
						(name "~" (effects (font (size 1.27 1.27))))
						(number "1" (effects (font (size 1.27 1.27))))
					)
					(pin passive line (at 0 -3.81 90) (length 1.27)
						(name "~" (effects (font (size 1.27 1.27))))
						(number "2" (effects (font (size 1.27 1.27))))
					)
				)
			)
		)
		(symbol (lib_id "Device:R")
			(at 100 50 0)
			(unit 1)
			(uuid sym-uuid-1)
			(property "Reference" "R1" (at 100 45 0))
			(property "Value" "10k" (at 100 55 0))
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if len(sch.LibSymbols) != 1 {
		t.Errorf("Expected 1 lib symbol, got %d", len(sch.LibSymbols))
	}

	if len(sch.Symbols) != 1 {
		t.Errorf("Expected 1 symbol instance, got %d", len(sch.Symbols))
	}

	if sch.Symbols[0].LibID != "Device:R" {
		t.Errorf("Expected lib_id 'Device:R', got '%s'", sch.Symbols[0].LibID)
	}

	lib := sch.LibSymbol("Device:R")
	if lib == nil {
		t.Fatal("LibSymbol('Device:R') returned nil")
	}
	if len(lib.Units) != 2 {
		t.Fatalf("Expected 2 units, got %d", len(lib.Units))
	}
	if lib.Units[1].Number != 1 || lib.Units[1].Style != 1 {
		t.Errorf("Expected unit 1 style 1, got unit %d style %d", lib.Units[1].Number, lib.Units[1].Style)
	}
	if got := lib.Units[1].Pins[0].Angle; got != 270 {
		t.Errorf("Expected pin angle 270, got %v", got)
	}

	// Test GetSymbol helper
	r1 := sch.GetSymbol("R1")
	if r1 == nil {
		t.Error("GetSymbol('R1') returned nil")
	}

	// Test GetAllReferences
	refs := sch.GetAllReferences()
	if len(refs) != 1 || refs[0] != "R1" {
		t.Errorf("Expected refs ['R1'], got %v", refs)
	}
}

func TestParseSchematicWithWires(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols)
		(wire (pts (xy 100 50) (xy 150 50))
			(stroke (width 0) (type default))
			(uuid wire-1)
		)
		(wire (pts (xy 150 50) (xy 150 100))
			(stroke (width 0) (type default))
			(uuid wire-2)
		)
		(junction (at 150 50) (diameter 0) (color 0 0 0 0)
			(uuid junc-1)
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if len(sch.Wires) != 2 {
		t.Errorf("Expected 2 wires, got %d", len(sch.Wires))
	}

	if len(sch.Junctions) != 1 {
		t.Errorf("Expected 1 junction, got %d", len(sch.Junctions))
	}

	want := []ElementRef{{ElementWire, 0}, {ElementWire, 1}, {ElementJunction, 0}}
	if len(sch.Elements) != len(want) {
		t.Fatalf("Expected %d elements, got %d", len(want), len(sch.Elements))
	}
	for i, e := range want {
		if sch.Elements[i] != e {
			t.Errorf("Element %d: expected %v, got %v", i, e, sch.Elements[i])
		}
	}
}

func TestParseSchematicWithLabels(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(uuid test-uuid)
		(paper "A4")
		(lib_symbols)
		(label "VCC" (at 100 50 0)
			(effects (font (size 1.27 1.27)))
			(uuid label-1)
		)
		(global_label "GND" (shape input) (at 100 100 0)
			(effects (font (size 1.27 1.27)))
			(uuid glabel-1)
		)
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	if len(sch.Labels) != 1 {
		t.Errorf("Expected 1 label, got %d", len(sch.Labels))
	}

	if sch.Labels[0].Text != "VCC" {
		t.Errorf("Expected label text 'VCC', got '%s'", sch.Labels[0].Text)
	}

	if len(sch.GlobalLabels) != 1 {
		t.Errorf("Expected 1 global label, got %d", len(sch.GlobalLabels))
	}

	if sch.GlobalLabels[0].Text != "GND" {
		t.Errorf("Expected global label text 'GND', got '%s'", sch.GlobalLabels[0].Text)
	}

	// Test GetLabels helper
	labels := sch.GetLabels()
	if len(labels) != 2 {
		t.Errorf("Expected 2 total labels, got %d", len(labels))
	}
}

func TestParseInvalidRoot(t *testing.T) {
	input := `(kicad_pcb (version 20231120))`

	_, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Error("Expected error for wrong root node type")
	}
}

func TestParseElementOrder(t *testing.T) {
	input := `(kicad_sch
		(version 20231120)
		(generator "eeschema")
		(lib_symbols)
		(label "IN" (at 10 10 0))
		(symbol (lib_id "Device:R") (at 20 10 90) (unit 1)
			(property "Reference" "R1" (at 0 0 0)))
		(no_connect (at 30 30))
		(global_label "VCC" (shape input) (at 40 40 180))
		(wire (pts (xy 10 10) (xy 20 10)))
		(junction (at 20 10))
	)`

	sch, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to parse schematic: %v", err)
	}

	want := []ElementKind{ElementLabel, ElementSymbol, ElementNoConnect, ElementGlobalLabel, ElementWire, ElementJunction}
	if len(sch.Elements) != len(want) {
		t.Fatalf("Expected %d elements, got %d", len(want), len(sch.Elements))
	}
	for i, kind := range want {
		if sch.Elements[i].Kind != kind || sch.Elements[i].Index != 0 {
			t.Errorf("Element %d: expected %s[0], got %s[%d]", i, kind, sch.Elements[i].Kind, sch.Elements[i].Index)
		}
	}

	if sch.Symbols[0].Angle != 90 {
		t.Errorf("Expected symbol angle 90, got %v", sch.Symbols[0].Angle)
	}
	if sch.GlobalLabels[0].Angle != 180 {
		t.Errorf("Expected global label angle 180, got %v", sch.GlobalLabels[0].Angle)
	}
}

func TestParseMissingPosition(t *testing.T) {
	input := `(kicad_sch (version 20231120) (junction (diameter 0)))`

	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Error("Expected error for junction without position")
	}
}

func TestParseShortWire(t *testing.T) {
	input := `(kicad_sch (version 20231120) (wire (pts (xy 1 1))))`

	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Error("Expected error for wire with a single point")
	}
}

func TestParseUnsupportedVersion(t *testing.T) {
	input := `(kicad_sch (version 20200101))`

	if _, err := Parse(strings.NewReader(input)); err == nil {
		t.Error("Expected error for KiCad 5 schematic")
	}
}
