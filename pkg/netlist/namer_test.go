package netlist

import (
	"reflect"
	"testing"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
)

func TestNamePrecedence(t *testing.T) {
	sch := &schematic.Schematic{
		Symbols: []schematic.Symbol{
			{LibID: "Device:R", Properties: []schematic.Property{{Key: "Reference", Value: "R1"}}},
			{LibID: "power:VCC", Properties: []schematic.Property{{Key: "Reference", Value: "#PWR01"}, {Key: "Value", Value: "VCC"}}},
		},
	}

	tests := []struct {
		name      string
		positions []Position
		want      []string
	}{
		{
			name: "label beats power symbol",
			positions: []Position{
				pin(0, 0, "1", 0),
				pin(0, 0, "1", 1),
				label(LabelPosition, 0, 0, "RAIL"),
			},
			want: []string{"RAIL"},
		},
		{
			name: "label beats power symbol across wires",
			positions: []Position{
				pin(0, 0, "1", 1),
				wire(0, 0, 10, 0),
				label(LabelPosition, 10, 0, "RAIL"),
				wire(10, 0, 20, 0),
				pin(20, 0, "1", 0),
			},
			want: []string{"RAIL"},
		},
		{
			name: "power symbol names node",
			positions: []Position{
				pin(0, 0, "1", 0),
				pin(0, 0, "1", 1),
			},
			want: []string{"VCC"},
		},
		{
			name: "power symbol beats no-connect",
			positions: []Position{
				pin(0, 0, "1", 1),
				marker(NoConnectPosition, 0, 0),
			},
			want: []string{"VCC"},
		},
		{
			name: "no-connect",
			positions: []Position{
				pin(0, 0, "1", 0),
				marker(NoConnectPosition, 0, 0),
			},
			want: []string{NoConnectName},
		},
		{
			name: "empty label text is ignored",
			positions: []Position{
				pin(0, 0, "1", 0),
				label(LabelPosition, 0, 0, ""),
			},
			want: []string{"1"},
		},
		{
			name: "numbering skips named nodes",
			positions: []Position{
				pin(0, 0, "1", 0),
				pin(5, 0, "2", 0),
				label(GlobalLabelPosition, 5, 0, "OUT"),
				pin(9, 0, "1", 0),
			},
			want: []string{"1", "OUT", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := Resolve(tt.positions)
			Name(sch, tt.positions, nodes)

			if len(nodes) != len(tt.want) {
				t.Fatalf("expected %d nodes, got %d", len(tt.want), len(nodes))
			}
			for i, want := range tt.want {
				if nodes[i].Name != want {
					t.Errorf("node %d: name = %q, want %q", i, nodes[i].Name, want)
				}
			}
		})
	}
}

func TestNameLabelAwayFromPowerPin(t *testing.T) {
	sch := &schematic.Schematic{
		Symbols: []schematic.Symbol{
			{LibID: "Device:R", Properties: []schematic.Property{{Key: "Reference", Value: "R1"}}},
			{LibID: "power:VCC", Properties: []schematic.Property{{Key: "Reference", Value: "#PWR01"}, {Key: "Value", Value: "VCC"}}},
		},
	}
	positions := []Position{
		pin(0, 0, "1", 1),
		wire(0, 0, 10, 0),
		label(LabelPosition, 10, 0, "RAIL"),
		wire(10, 0, 20, 0),
		pin(20, 0, "1", 0),
	}

	nodes := Resolve(positions)
	Name(sch, positions, nodes)

	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if want := []int{0, 1, 2, 3, 4}; !reflect.DeepEqual(nodes[0].Members, want) {
		t.Errorf("members = %v, want %v", nodes[0].Members, want)
	}
	if nodes[0].Name != "RAIL" {
		t.Errorf("name = %q, want RAIL", nodes[0].Name)
	}
}

func TestNameWithoutPowerPrefix(t *testing.T) {
	sch := &schematic.Schematic{
		Symbols: []schematic.Symbol{
			{LibID: "power:VCC", Properties: []schematic.Property{{Key: "Value", Value: "VCC"}}},
		},
	}
	positions := []Position{pin(0, 0, "1", 0)}

	nodes := Resolve(positions)
	Name(sch, positions, nodes, WithPowerPrefix(""))

	if nodes[0].Name != "1" {
		t.Errorf("name = %q, want 1", nodes[0].Name)
	}
}

func TestNameIdempotent(t *testing.T) {
	positions := []Position{pin(0, 0, "1", -1), pin(5, 0, "2", -1)}
	nodes := Resolve(positions)

	sch := &schematic.Schematic{}
	Name(sch, positions, nodes)
	Name(sch, positions, nodes)

	if nodes[0].Name != "1" || nodes[1].Name != "2" {
		t.Errorf("names = %q, %q; want 1, 2", nodes[0].Name, nodes[1].Name)
	}
}
