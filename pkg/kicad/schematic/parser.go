package schematic

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version for schematics (6.0 = 20211014)
const MinSupportedVersion = 20211014

// ParseFile reads and parses a KiCad schematic file
func ParseFile(filename string) (*Schematic, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad schematic from an io.Reader
func Parse(r io.Reader) (*Schematic, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root := sexps[0]

	rootName, err := sexp.GetNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get root node name: %w", err)
	}
	if rootName != "kicad_sch" {
		return nil, fmt.Errorf("not a KiCad schematic file: expected 'kicad_sch', got '%s'", rootName)
	}

	sch := &Schematic{}
	if err := parseHeader(root, sch); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	// Walk the top level once so Elements keeps document order
	for _, node := range sexp.GetListItems(root) {
		if node.IsLeaf() {
			continue
		}
		name, err := sexp.GetNodeName(node)
		if err != nil {
			continue
		}

		switch name {
		case "uuid":
			sch.UUID, _ = sexp.GetUUID(node)
		case "paper":
			sch.Paper, _ = sexp.GetQuotedString(node, 1)
		case "title_block":
			sch.TitleBlock = parseTitleBlock(node)
		case "lib_symbols":
			sch.LibSymbols = parseLibSymbols(node)
		case "symbol":
			sym, err := parseSymbol(node)
			if err != nil {
				return nil, err
			}
			sch.add(ElementSymbol, len(sch.Symbols))
			sch.Symbols = append(sch.Symbols, sym)
		case "wire":
			wire, err := parseWire(node)
			if err != nil {
				return nil, err
			}
			sch.add(ElementWire, len(sch.Wires))
			sch.Wires = append(sch.Wires, wire)
		case "bus":
			sch.Buses = append(sch.Buses, Bus{Points: parsePoints(node), UUID: nodeUUID(node)})
		case "junction":
			pos, err := requirePosition(node)
			if err != nil {
				return nil, err
			}
			junc := Junction{Position: pos.Position, UUID: nodeUUID(node)}
			if diamNode, found := sexp.FindNode(node, "diameter"); found {
				junc.Diameter, _ = sexp.GetFloat(diamNode, 1)
			}
			sch.add(ElementJunction, len(sch.Junctions))
			sch.Junctions = append(sch.Junctions, junc)
		case "no_connect":
			pos, err := requirePosition(node)
			if err != nil {
				return nil, err
			}
			sch.add(ElementNoConnect, len(sch.NoConnects))
			sch.NoConnects = append(sch.NoConnects, NoConnect{Position: pos.Position, UUID: nodeUUID(node)})
		case "label":
			label, err := parseLabel(node)
			if err != nil {
				return nil, err
			}
			sch.add(ElementLabel, len(sch.Labels))
			sch.Labels = append(sch.Labels, label)
		case "global_label":
			label, err := parseGlobalLabel(node)
			if err != nil {
				return nil, err
			}
			sch.add(ElementGlobalLabel, len(sch.GlobalLabels))
			sch.GlobalLabels = append(sch.GlobalLabels, label)
		case "hierarchical_label":
			sch.HierLabels = append(sch.HierLabels, parseHierLabel(node))
		case "sheet":
			sch.Sheets = append(sch.Sheets, parseSheet(node))
		case "sheet_instances":
			sch.SheetInstances = parseSheetInstances(node)
		}
	}

	return sch, nil
}

func (s *Schematic) add(kind ElementKind, index int) {
	s.Elements = append(s.Elements, ElementRef{Kind: kind, Index: index})
}

// parseHeader extracts version and generator information
func parseHeader(root kicadsexp.Sexp, sch *Schematic) error {
	versionNode, found := sexp.FindNode(root, "version")
	if !found {
		return fmt.Errorf("missing required 'version' field")
	}

	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return fmt.Errorf("failed to parse version: %w", err)
	}
	if ver < MinSupportedVersion {
		return fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}
	sch.Version = ver

	if genNode, found := sexp.FindNode(root, "generator"); found {
		sch.Generator, _ = sexp.GetQuotedString(genNode, 1)
	}
	if genVerNode, found := sexp.FindNode(root, "generator_version"); found {
		sch.GeneratorVer, _ = sexp.GetQuotedString(genVerNode, 1)
	}

	return nil
}

// parseTitleBlock extracts title block information
func parseTitleBlock(node kicadsexp.Sexp) TitleBlock {
	tb := TitleBlock{}

	if titleNode, found := sexp.FindNode(node, "title"); found {
		tb.Title, _ = sexp.GetQuotedString(titleNode, 1)
	}
	if dateNode, found := sexp.FindNode(node, "date"); found {
		tb.Date, _ = sexp.GetQuotedString(dateNode, 1)
	}
	if revNode, found := sexp.FindNode(node, "rev"); found {
		tb.Revision, _ = sexp.GetQuotedString(revNode, 1)
	}
	if companyNode, found := sexp.FindNode(node, "company"); found {
		tb.Company, _ = sexp.GetQuotedString(companyNode, 1)
	}
	for _, cn := range sexp.FindAllNodes(node, "comment") {
		num, _ := sexp.GetInt(cn, 1)
		if num >= 1 && num <= len(tb.Comments) {
			tb.Comments[num-1], _ = sexp.GetQuotedString(cn, 2)
		}
	}

	return tb
}

// parseLibSymbols parses embedded library symbols
func parseLibSymbols(node kicadsexp.Sexp) []LibSymbol {
	symbolNodes := sexp.FindAllNodes(node, "symbol")
	symbols := make([]LibSymbol, 0, len(symbolNodes))

	for _, symNode := range symbolNodes {
		symbols = append(symbols, parseLibSymbol(symNode))
	}

	return symbols
}

// parseLibSymbol parses a single library symbol definition
func parseLibSymbol(node kicadsexp.Sexp) LibSymbol {
	sym := LibSymbol{
		InBom:   true,
		OnBoard: true,
	}

	sym.Name, _ = sexp.GetQuotedString(node, 1)
	_, sym.Power = sexp.FindNode(node, "power")

	for _, pn := range sexp.FindAllNodes(node, "property") {
		if prop, err := sexp.GetProperty(pn); err == nil {
			sym.Properties = append(sym.Properties, prop)
		}
	}

	if ibNode, found := sexp.FindNode(node, "in_bom"); found {
		val, _ := sexp.GetString(ibNode, 1)
		sym.InBom = val == "yes"
	}
	if obNode, found := sexp.FindNode(node, "on_board"); found {
		val, _ := sexp.GetString(obNode, 1)
		sym.OnBoard = val == "yes"
	}

	// Pins written directly under the symbol are shared by every unit
	if pins := parsePins(node); len(pins) > 0 {
		sym.Units = append(sym.Units, SymbolUnit{Name: sym.Name, Pins: pins})
	}

	for _, unitNode := range sexp.FindAllNodes(node, "symbol") {
		unit := SymbolUnit{}
		unit.Name, _ = sexp.GetQuotedString(unitNode, 1)
		unit.Number, unit.Style = unitNumbers(unit.Name)
		unit.Pins = parsePins(unitNode)
		sym.Units = append(sym.Units, unit)
	}

	return sym
}

func parsePins(node kicadsexp.Sexp) []Pin {
	var pins []Pin
	for _, pn := range sexp.FindAllNodes(node, "pin") {
		pins = append(pins, parsePin(pn))
	}
	return pins
}

// parsePin parses a pin definition
func parsePin(node kicadsexp.Sexp) Pin {
	pin := Pin{}

	pin.Type, _ = sexp.GetString(node, 1)
	pin.Style, _ = sexp.GetString(node, 2)

	if atNode, found := sexp.FindNode(node, "at"); found {
		pos, _ := sexp.GetPosition(atNode)
		pin.Position = pos.Position
		pin.Angle = pos.Angle
	}
	if lenNode, found := sexp.FindNode(node, "length"); found {
		pin.Length, _ = sexp.GetFloat(lenNode, 1)
	}
	if nameNode, found := sexp.FindNode(node, "name"); found {
		pin.Name, _ = sexp.GetQuotedString(nameNode, 1)
	}
	if numNode, found := sexp.FindNode(node, "number"); found {
		pin.Number, _ = sexp.GetQuotedString(numNode, 1)
	}
	if hideNode, found := sexp.FindNode(node, "hide"); found {
		val, err := sexp.GetString(hideNode, 1)
		pin.Hide = hideNode.IsLeaf() || err != nil || val != "no"
	}

	return pin
}

// parseSymbol parses a single symbol instance
func parseSymbol(node kicadsexp.Sexp) (Symbol, error) {
	sym := Symbol{
		InBom:   true,
		OnBoard: true,
		Unit:    1,
	}

	if libNode, found := sexp.FindNode(node, "lib_id"); found {
		sym.LibID, _ = sexp.GetQuotedString(libNode, 1)
	}

	pos, err := requirePosition(node)
	if err != nil {
		return sym, fmt.Errorf("symbol %q: %w", sym.LibID, err)
	}
	sym.Position = pos.Position
	sym.Angle = pos.Angle

	if mirrorNode, found := sexp.FindNode(node, "mirror"); found {
		sym.Mirror, _ = sexp.GetString(mirrorNode, 1)
	}
	if unitNode, found := sexp.FindNode(node, "unit"); found {
		if sym.Unit, err = sexp.GetInt(unitNode, 1); err != nil {
			return sym, fmt.Errorf("symbol %q: %w", sym.LibID, err)
		}
	}
	if ibNode, found := sexp.FindNode(node, "in_bom"); found {
		val, _ := sexp.GetString(ibNode, 1)
		sym.InBom = val == "yes"
	}
	if obNode, found := sexp.FindNode(node, "on_board"); found {
		val, _ := sexp.GetString(obNode, 1)
		sym.OnBoard = val == "yes"
	}
	sym.UUID = nodeUUID(node)

	for _, pn := range sexp.FindAllNodes(node, "property") {
		if prop, err := sexp.GetProperty(pn); err == nil {
			sym.Properties = append(sym.Properties, prop)
		}
	}

	return sym, nil
}

// parseWire parses a wire; only the first and last point carry connectivity
func parseWire(node kicadsexp.Sexp) (Wire, error) {
	wire := Wire{Points: parsePoints(node), UUID: nodeUUID(node)}
	if len(wire.Points) < 2 {
		return wire, fmt.Errorf("wire %s: expected at least 2 points, got %d", wire.UUID, len(wire.Points))
	}
	return wire, nil
}

func parseLabel(node kicadsexp.Sexp) (Label, error) {
	label := Label{UUID: nodeUUID(node)}
	label.Text, _ = sexp.GetQuotedString(node, 1)

	pos, err := requirePosition(node)
	if err != nil {
		return label, fmt.Errorf("label %q: %w", label.Text, err)
	}
	label.Position = pos.Position
	label.Angle = pos.Angle

	return label, nil
}

func parseGlobalLabel(node kicadsexp.Sexp) (GlobalLabel, error) {
	label := GlobalLabel{UUID: nodeUUID(node)}
	label.Text, _ = sexp.GetQuotedString(node, 1)

	if shapeNode, found := sexp.FindNode(node, "shape"); found {
		label.Shape, _ = sexp.GetString(shapeNode, 1)
	}

	pos, err := requirePosition(node)
	if err != nil {
		return label, fmt.Errorf("global label %q: %w", label.Text, err)
	}
	label.Position = pos.Position
	label.Angle = pos.Angle

	for _, pn := range sexp.FindAllNodes(node, "property") {
		if prop, err := sexp.GetProperty(pn); err == nil {
			label.Properties = append(label.Properties, prop)
		}
	}

	return label, nil
}

func parseHierLabel(node kicadsexp.Sexp) HierLabel {
	label := HierLabel{UUID: nodeUUID(node)}
	label.Text, _ = sexp.GetQuotedString(node, 1)

	if shapeNode, found := sexp.FindNode(node, "shape"); found {
		label.Shape, _ = sexp.GetString(shapeNode, 1)
	}
	if atNode, found := sexp.FindNode(node, "at"); found {
		pos, _ := sexp.GetPosition(atNode)
		label.Position = pos.Position
		label.Angle = pos.Angle
	}

	return label
}

// parseSheet parses a hierarchical sheet reference
func parseSheet(node kicadsexp.Sexp) Sheet {
	sheet := Sheet{UUID: nodeUUID(node)}

	if atNode, found := sexp.FindNode(node, "at"); found {
		pos, _ := sexp.GetPosition(atNode)
		sheet.Position = pos.Position
	}
	if sizeNode, found := sexp.FindNode(node, "size"); found {
		w, _ := sexp.GetFloat(sizeNode, 1)
		h, _ := sexp.GetFloat(sizeNode, 2)
		sheet.Size = Size{Width: w, Height: h}
	}

	for _, pn := range sexp.FindAllNodes(node, "property") {
		prop, err := sexp.GetProperty(pn)
		if err != nil {
			continue
		}
		switch prop.Key {
		case "Sheetname", "Sheet name":
			sheet.Name = prop.Value
		case "Sheetfile", "Sheet file":
			sheet.FileName = prop.Value
		}
	}

	return sheet
}

// parseSheetInstances parses sheet instance paths
func parseSheetInstances(node kicadsexp.Sexp) []SheetInstance {
	pathNodes := sexp.FindAllNodes(node, "path")
	instances := make([]SheetInstance, 0, len(pathNodes))

	for _, pn := range pathNodes {
		inst := SheetInstance{}
		inst.Path, _ = sexp.GetQuotedString(pn, 1)
		if pageNode, found := sexp.FindNode(pn, "page"); found {
			inst.Page, _ = sexp.GetQuotedString(pageNode, 1)
		}
		instances = append(instances, inst)
	}

	return instances
}

// parsePoints returns the (pts (xy X Y) ...) of a node
func parsePoints(node kicadsexp.Sexp) []Position {
	ptsNode, found := sexp.FindNode(node, "pts")
	if !found {
		return nil
	}

	var points []Position
	for _, xy := range sexp.FindAllNodes(ptsNode, "xy") {
		if pos, err := sexp.GetPositionXY(xy); err == nil {
			points = append(points, pos)
		}
	}
	return points
}

// requirePosition returns the (at ...) of an electrical element. Connectivity
// is derived from coordinates, so a missing or malformed one is fatal.
func requirePosition(node kicadsexp.Sexp) (PositionAngle, error) {
	atNode, found := sexp.FindNode(node, "at")
	if !found {
		return PositionAngle{}, fmt.Errorf("missing (at ...)")
	}
	return sexp.GetPosition(atNode)
}

func nodeUUID(node kicadsexp.Sexp) UUID {
	if uuidNode, found := sexp.FindNode(node, "uuid"); found {
		id, _ := sexp.GetUUID(uuidNode)
		return id
	}
	return ""
}
