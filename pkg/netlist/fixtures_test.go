package netlist

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/spice"
)

const libSymbols = `(lib_symbols
	(symbol "Device:R" (pin_numbers hide) (pin_names (offset 0)) (in_bom yes) (on_board yes)
		(property "Reference" "R" (at 2.032 0 90) (effects (font (size 1.27 1.27))))
		(property "Value" "R" (at 0 0 90) (effects (font (size 1.27 1.27))))
		(symbol "R_0_1"
			(rectangle (start -1.016 -2.54) (end 1.016 2.54)
				(stroke (width 0.254) (type default)) (fill (type none))))
		(symbol "R_1_1"
			(pin passive line (at 0 3.81 270) (length 1.27)
				(name "~" (effects (font (size 1.27 1.27))))
				(number "1" (effects (font (size 1.27 1.27)))))
			(pin passive line (at 0 -3.81 90) (length 1.27)
				(name "~" (effects (font (size 1.27 1.27))))
				(number "2" (effects (font (size 1.27 1.27)))))))
	(symbol "Device:C" (pin_numbers hide) (pin_names (offset 0.254)) (in_bom yes) (on_board yes)
		(property "Reference" "C" (at 0.635 2.54 0) (effects (font (size 1.27 1.27))))
		(property "Value" "C" (at 0.635 -2.54 0) (effects (font (size 1.27 1.27))))
		(symbol "C_1_1"
			(pin passive line (at 0 3.81 270) (length 2.794)
				(name "~" (effects (font (size 1.27 1.27))))
				(number "1" (effects (font (size 1.27 1.27)))))
			(pin passive line (at 0 -3.81 90) (length 2.794)
				(name "~" (effects (font (size 1.27 1.27))))
				(number "2" (effects (font (size 1.27 1.27)))))))
	(symbol "power:GND" (power) (pin_names (offset 0)) (in_bom yes) (on_board yes)
		(property "Reference" "#PWR" (at 0 -6.35 0) (effects (font (size 1.27 1.27)) hide))
		(property "Value" "GND" (at 0 -3.81 0) (effects (font (size 1.27 1.27))))
		(symbol "GND_1_1"
			(pin power_in line (at 0 0 270) (length 0) hide
				(name "GND" (effects (font (size 1.27 1.27))))
				(number "1" (effects (font (size 1.27 1.27)))))))
	(symbol "Custom:DUAL" (in_bom yes) (on_board yes)
		(property "Reference" "U" (at 0 5.08 0) (effects (font (size 1.27 1.27))))
		(property "Value" "DUAL" (at 0 -5.08 0) (effects (font (size 1.27 1.27))))
		(symbol "DUAL_1_1"
			(pin output line (at 5.08 0 180) (length 2.54) (name "OUT" (effects (font (size 1.27 1.27)))) (number "1" (effects (font (size 1.27 1.27)))))
			(pin input line (at -5.08 2.54 0) (length 2.54) (name "-" (effects (font (size 1.27 1.27)))) (number "2" (effects (font (size 1.27 1.27)))))
			(pin input line (at -5.08 -2.54 0) (length 2.54) (name "+" (effects (font (size 1.27 1.27)))) (number "3" (effects (font (size 1.27 1.27))))))
		(symbol "DUAL_2_1"
			(pin output line (at 5.08 0 180) (length 2.54) (name "OUT" (effects (font (size 1.27 1.27)))) (number "7" (effects (font (size 1.27 1.27)))))
			(pin input line (at -5.08 2.54 0) (length 2.54) (name "-" (effects (font (size 1.27 1.27)))) (number "6" (effects (font (size 1.27 1.27)))))
			(pin input line (at -5.08 -2.54 0) (length 2.54) (name "+" (effects (font (size 1.27 1.27)))) (number "5" (effects (font (size 1.27 1.27))))))
		(symbol "DUAL_3_1"
			(pin power_in line (at 0 7.62 270) (length 2.54) (name "V+" (effects (font (size 1.27 1.27)))) (number "8" (effects (font (size 1.27 1.27)))))
			(pin power_in line (at 0 -7.62 90) (length 2.54) (name "V-" (effects (font (size 1.27 1.27)))) (number "4" (effects (font (size 1.27 1.27)))))))
	(symbol "Mechanical:MountingHole_Pad" (in_bom yes) (on_board yes)
		(property "Reference" "H" (at 0 5.08 0) (effects (font (size 1.27 1.27))))
		(symbol "MountingHole_Pad_0_1"
			(pin input line (at 0 -5.08 90) (length 2.54) (name "1" (effects (font (size 1.27 1.27)))) (number "1" (effects (font (size 1.27 1.27))))))))`

// sheet wraps elements into a schematic with the shared library symbols
func sheet(body string) string {
	return `(kicad_sch (version 20231120) (generator "eeschema")
	(uuid 2b7c5a1e-0000-4000-8000-000000000001)
	(paper "A4")
	(title_block (title "fixture"))
	` + libSymbols + `
	` + body + `
)`
}

func parseSheet(t *testing.T, body string) *schematic.Schematic {
	t.Helper()
	sch, err := schematic.Parse(strings.NewReader(sheet(body)))
	if err != nil {
		t.Fatalf("Failed to parse fixture: %v", err)
	}
	return sch
}

func symbol(libID string, x, y, angle float64, unit int, props ...string) string {
	var b strings.Builder
	b.WriteString(`(symbol (lib_id "` + libID + `") (at ` + ftoa(x) + ` ` + ftoa(y) + ` ` + ftoa(angle) + `) (unit ` + itoa(unit) + `)`)
	for i := 0; i+1 < len(props); i += 2 {
		b.WriteString(` (property "` + props[i] + `" "` + props[i+1] + `" (at 0 0 0))`)
	}
	b.WriteString(")\n")
	return b.String()
}

// lowPass is an RC low pass: IN -> R1 -> OUT -> C1 -> GND
var lowPass = symbol("Device:R", 100, 50, 90, 1, "Reference", "R1", "Value", "4.7k") +
	symbol("power:GND", 110, 58.81, 0, 1, "Reference", "#PWR01", "Value", "GND") +
	symbol("Device:C", 110, 55, 0, 1, "Reference", "C1", "Value", "47n") + `
	(wire (pts (xy 90.17 50) (xy 96.19 50)))
	(wire (pts (xy 103.81 50) (xy 110 50)))
	(wire (pts (xy 110 50) (xy 110 51.19)))
	(label "IN" (at 90.17 50 0))
	(label "OUT" (at 110 50 0))`

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// opampResolver searches a directory declaring the OPAMP subcircuit
func opampResolver(t *testing.T) *spice.Resolver {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "opamp.lib", ".subckt OPAMP inm out inp\n.ends\n")
	return spice.NewResolver([]string{dir})
}
