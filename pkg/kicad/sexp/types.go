// Package sexp provides shared S-expression extraction helpers for KiCad
// schematic files. Schematic coordinates are millimetres and angles are
// degrees, so values are returned as stored.
package sexp

// Position represents a 2D coordinate in the KiCad coordinate system (mm)
type Position struct {
	X float64
	Y float64
}

// Angle represents rotation in degrees
type Angle float64

// PositionAngle combines position with rotation
type PositionAngle struct {
	Position
	Angle Angle
}

// Size represents dimensions
type Size struct {
	Width  float64 // Width in mm
	Height float64 // Height in mm
}

// UUID represents a unique identifier (used in KiCad v6+ files)
type UUID string

// Effects holds text visibility
type Effects struct {
	Hide bool
}

// Property represents a key-value property (used in symbols and labels)
type Property struct {
	Key      string
	Value    string
	ID       int
	Position PositionAngle
	Effects  Effects
}
