package sexp

import (
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/kicad/sexp/kicadsexp"
)

// S-expression navigation helpers

// FindNode searches for a child node with the given key (first symbol)
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	if s == nil || s.IsLeaf() {
		return nil, false
	}

	for _, item := range s.Items() {
		if item == nil {
			continue
		}

		if item.IsLeaf() {
			if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == key {
				return item, true
			}
			continue
		}

		if sym, ok := item.Head().(kicadsexp.Symbol); ok && string(sym) == key {
			return item, true
		}
	}

	return nil, false
}

// FindAllNodes finds all child lists with the given key, in document order
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp

	if s == nil || s.IsLeaf() {
		return results
	}

	for _, item := range s.Items() {
		if item == nil || item.IsLeaf() {
			continue
		}
		if sym, ok := item.Head().(kicadsexp.Symbol); ok && string(sym) == key {
			results = append(results, item)
		}
	}

	return results
}

// GetListItems returns all items in a list (excluding the first symbol/key)
// Example: GetListItems((mirror x)) returns ["x"]
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	items := SexpToSlice(s)
	if len(items) <= 1 {
		return []kicadsexp.Sexp{}
	}
	return items[1:]
}

// SexpToSlice converts an s-expression list to a Go slice
func SexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}
	return s.Items()
}

// Typed value extraction helpers

// GetString extracts a string value at the given index in a list
// Index 0 is the key, 1 is first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}

	items := s.Items()
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	if sym, ok := items[index].(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at index %d, got %T", index, items[index])
}

// GetQuotedString extracts a string value. The lexer already strips the
// quotes, so this is GetString under a name that documents intent.
func GetQuotedString(s kicadsexp.Sexp, index int) (string, error) {
	return GetString(s, index)
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s kicadsexp.Sexp, index int) (float64, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s kicadsexp.Sexp, index int) (int, error) {
	str, err := GetString(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// Domain-specific extraction helpers

// GetPosition extracts a Position from an (at X Y [angle]) node.
// The angle is optional and defaults to 0.
func GetPosition(s kicadsexp.Sexp) (PositionAngle, error) {
	if s == nil || s.IsLeaf() {
		return PositionAngle{}, fmt.Errorf("expected (at X Y [angle]) list")
	}

	key, err := GetString(s, 0)
	if err != nil {
		return PositionAngle{}, err
	}
	if key != "at" {
		return PositionAngle{}, fmt.Errorf("expected 'at', got %q", key)
	}

	pos, err := GetPositionXY(s)
	if err != nil {
		return PositionAngle{}, err
	}

	result := PositionAngle{Position: pos}
	if s.LeafCount() > 3 {
		angle, err := GetFloat(s, 3)
		if err != nil {
			return PositionAngle{}, fmt.Errorf("failed to parse angle: %w", err)
		}
		result.Angle = Angle(angle)
	}

	return result, nil
}

// GetPositionXY extracts just X,Y coordinates (no angle)
// Used for (xy X Y), (start X Y), (end X Y), etc.
func GetPositionXY(s kicadsexp.Sexp) (Position, error) {
	if s == nil || s.IsLeaf() {
		return Position{}, fmt.Errorf("expected position list")
	}

	x, err := GetFloat(s, 1)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse X coordinate: %w", err)
	}

	y, err := GetFloat(s, 2)
	if err != nil {
		return Position{}, fmt.Errorf("failed to parse Y coordinate: %w", err)
	}

	return Position{X: x, Y: y}, nil
}

// HasSymbol checks if a list contains a specific symbol
func HasSymbol(s kicadsexp.Sexp, symbol string) bool {
	for _, item := range SexpToSlice(s) {
		if sym, ok := item.(kicadsexp.Symbol); ok && string(sym) == symbol {
			return true
		}
	}
	return false
}

// GetNodeName returns the first symbol of a list (the node type/name)
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil node")
	}

	if s.IsLeaf() {
		if sym, ok := s.(kicadsexp.Symbol); ok {
			return string(sym), nil
		}
		return "", fmt.Errorf("expected symbol leaf")
	}

	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at head of list")
}

// GetUUID extracts a UUID from a (uuid "...") node
func GetUUID(s kicadsexp.Sexp) (UUID, error) {
	key, err := GetString(s, 0)
	if err != nil || key != "uuid" {
		return "", fmt.Errorf("expected 'uuid' node")
	}

	id, err := GetString(s, 1)
	if err != nil {
		return "", err
	}

	return UUID(id), nil
}

// GetEffects extracts text effects from an (effects ...) node. KiCad 6/7
// write a bare hide, KiCad 8+ write (hide yes).
func GetEffects(s kicadsexp.Sexp) (Effects, error) {
	effects := Effects{}

	if s == nil || s.IsLeaf() {
		return effects, fmt.Errorf("expected (effects ...) list")
	}

	if HasSymbol(s, "hide") {
		effects.Hide = true
	} else if hideNode, ok := FindNode(s, "hide"); ok {
		val, _ := GetString(hideNode, 1)
		effects.Hide = val != "no"
	}

	return effects, nil
}

// GetProperty extracts a property from a (property ...) node
func GetProperty(s kicadsexp.Sexp) (Property, error) {
	prop := Property{}

	if s == nil || s.IsLeaf() {
		return prop, fmt.Errorf("expected (property ...) list")
	}

	// Format: (property "key" "value" (at X Y angle) (effects ...))
	key, err := GetString(s, 1)
	if err != nil {
		return prop, fmt.Errorf("failed to parse property key: %w", err)
	}
	prop.Key = key

	// A missing value is an empty value
	prop.Value, _ = GetString(s, 2)

	if idNode, ok := FindNode(s, "id"); ok {
		prop.ID, _ = GetInt(idNode, 1)
	}

	if atNode, ok := FindNode(s, "at"); ok {
		if pos, err := GetPosition(atNode); err == nil {
			prop.Position = pos
		}
	}

	if effectsNode, ok := FindNode(s, "effects"); ok {
		if effects, err := GetEffects(effectsNode); err == nil {
			prop.Effects = effects
		}
	}

	return prop, nil
}
