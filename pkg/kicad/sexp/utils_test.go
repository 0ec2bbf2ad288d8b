package sexp

import (
	"testing"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/sexp/kicadsexp"
)

func mustParse(t *testing.T, input string) kicadsexp.Sexp {
	t.Helper()
	sexps, err := kicadsexp.ParseString(input)
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	if len(sexps) != 1 {
		t.Fatalf("expected 1 expression, got %d", len(sexps))
	}
	return sexps[0]
}

func TestGetPosition(t *testing.T) {
	tests := []struct {
		input string
		want  PositionAngle
	}{
		{"(at 100.33 50.8)", PositionAngle{Position: Position{X: 100.33, Y: 50.8}}},
		{"(at 1 2 90)", PositionAngle{Position: Position{X: 1, Y: 2}, Angle: 90}},
		{"(at -2.54 0 180)", PositionAngle{Position: Position{X: -2.54, Y: 0}, Angle: 180}},
	}

	for _, tt := range tests {
		got, err := GetPosition(mustParse(t, tt.input))
		if err != nil {
			t.Errorf("GetPosition(%s): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("GetPosition(%s) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestGetPositionErrors(t *testing.T) {
	for _, input := range []string{"(xy 1 2)", "(at 1)", "(at x 2)"} {
		if _, err := GetPosition(mustParse(t, input)); err == nil {
			t.Errorf("GetPosition(%s): expected error", input)
		}
	}
}

func TestFindNodes(t *testing.T) {
	node := mustParse(t, `(symbol (lib_id "Device:R") (property "Reference" "R1") (property "Value" "10k") hide)`)

	lib, ok := FindNode(node, "lib_id")
	if !ok {
		t.Fatal("lib_id not found")
	}
	if id, _ := GetQuotedString(lib, 1); id != "Device:R" {
		t.Errorf("lib_id = %q", id)
	}

	props := FindAllNodes(node, "property")
	if len(props) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(props))
	}

	prop, err := GetProperty(props[1])
	if err != nil {
		t.Fatal(err)
	}
	if prop.Key != "Value" || prop.Value != "10k" {
		t.Errorf("property = %q=%q", prop.Key, prop.Value)
	}

	if !HasSymbol(node, "hide") {
		t.Error("expected bare hide symbol")
	}
	if _, ok := FindNode(node, "mirror"); ok {
		t.Error("mirror should not be found")
	}
}

func TestGetEffectsHide(t *testing.T) {
	tests := []struct {
		input string
		hide  bool
	}{
		{"(effects (font (size 1.27 1.27)))", false},
		{"(effects (font (size 1.27 1.27)) hide)", true},
		{"(effects (font (size 1.27 1.27)) (hide yes))", true},
		{"(effects (font (size 1.27 1.27)) (hide no))", false},
		{"(effects (justify left) (hide))", true},
	}

	for _, tt := range tests {
		effects, err := GetEffects(mustParse(t, tt.input))
		if err != nil {
			t.Fatalf("GetEffects(%s): %v", tt.input, err)
		}
		if effects.Hide != tt.hide {
			t.Errorf("GetEffects(%s).Hide = %v, want %v", tt.input, effects.Hide, tt.hide)
		}
	}
}
