package schematic

import (
	"math"
	"testing"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		name   string
		angle  Angle
		mirror string
		local  Position
		want   Position
	}{
		{"unrotated pin above", 0, "", Position{X: 0, Y: 3.81}, Position{X: 100, Y: 46.19}},
		{"unrotated pin below", 0, "", Position{X: 0, Y: -3.81}, Position{X: 100, Y: 53.81}},
		{"rotated 90", 90, "", Position{X: 0, Y: 3.81}, Position{X: 96.19, Y: 50}},
		{"rotated 180", 180, "", Position{X: 0, Y: 3.81}, Position{X: 100, Y: 53.81}},
		{"rotated 270", 270, "", Position{X: 0, Y: 3.81}, Position{X: 103.81, Y: 50}},
		{"mirror x", 0, "x", Position{X: 0, Y: 3.81}, Position{X: 100, Y: 53.81}},
		{"mirror y", 0, "y", Position{X: 2.54, Y: 0}, Position{X: 97.46, Y: 50}},
		{"mirror y flips both axes", 0, "y", Position{X: 0, Y: 3.81}, Position{X: 100, Y: 46.19}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym := &Symbol{Position: Position{X: 100, Y: 50}, Angle: tt.angle, Mirror: tt.mirror}
			got := Transform(sym, tt.local)
			if got != tt.want {
				t.Errorf("Transform() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTransformNoNegativeZero(t *testing.T) {
	sym := &Symbol{Angle: 90}
	got := Transform(sym, Position{X: 0, Y: 0})
	if math.Signbit(got.X) || math.Signbit(got.Y) {
		t.Errorf("Transform() = %+v, expected positive zero", got)
	}
}

func TestTransformDeterministic(t *testing.T) {
	// Same point reached through different placements must be bit-identical
	a := Transform(&Symbol{Position: Position{X: 96.52, Y: 60.96}}, Position{X: 0, Y: -3.81})
	b := Transform(&Symbol{Position: Position{X: 96.52, Y: 68.58}, Angle: 180}, Position{X: 0, Y: -3.81})
	if a != b {
		t.Errorf("expected identical points, got %+v and %+v", a, b)
	}
}
