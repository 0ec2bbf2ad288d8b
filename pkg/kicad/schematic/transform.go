package schematic

import (
	"math"
	"strconv"
)

// Transform maps a pin position local to a library symbol into absolute
// sheet coordinates for the placed instance.
//
// KiCad library coordinates are Y-up while the sheet is Y-down, so the
// default (unmirrored) matrix flips Y. A "x" mirror cancels that flip and
// a "y" mirror flips both axes. The result is rounded to three decimals
// so coincident points compare equal bit for bit regardless of the
// rotation path that produced them.
func Transform(sym *Symbol, local Position) Position {
	theta := -float64(sym.Angle) * math.Pi / 180
	sin, cos := math.Sincos(theta)

	x := local.X*cos + local.Y*sin
	y := -local.X*sin + local.Y*cos

	switch sym.Mirror {
	case "x":
	case "y":
		x, y = -x, -y
	default:
		y = -y
	}

	return Position{
		X: round3(sym.Position.X + x),
		Y: round3(sym.Position.Y + y),
	}
}

// round3 rounds through the decimal text form so the same value always
// produces the same bits, and folds -0 into 0.
func round3(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 3, 64), 64)
	if r == 0 {
		return 0
	}
	return r
}
