package svgink

import (
	"math"
	"strings"
)

// Matrix2D is an affine transform in the column convention used by
// SVG: the matrix maps (x, y) to (A*x + C*y + E, B*x + D*y + F).
type Matrix2D struct {
	A, B, C, D, E, F float64
}

// Identity is the no-op transform.
var Identity = Matrix2D{1, 0, 0, 1, 0, 0}

// Mult composes the transforms: the result applies b first, then a.
func (a Matrix2D) Mult(b Matrix2D) Matrix2D {
	return Matrix2D{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

// Apply maps a point through the transform.
func (a Matrix2D) Apply(p Point) Point {
	return Point{
		X: a.A*p.X + a.C*p.Y + a.E,
		Y: a.B*p.X + a.D*p.Y + a.F,
	}
}

func (a Matrix2D) Translate(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, 0, 1, x, y})
}

func (a Matrix2D) Scale(x, y float64) Matrix2D {
	return a.Mult(Matrix2D{x, 0, 0, y, 0, 0})
}

// Rotate rotates by rad around the origin.
func (a Matrix2D) Rotate(rad float64) Matrix2D {
	sin, cos := math.Sin(rad), math.Cos(rad)
	return a.Mult(Matrix2D{cos, sin, -sin, cos, 0, 0})
}

func (a Matrix2D) SkewX(rad float64) Matrix2D {
	return a.Mult(Matrix2D{1, 0, math.Tan(rad), 1, 0, 0})
}

func (a Matrix2D) SkewY(rad float64) Matrix2D {
	return a.Mult(Matrix2D{1, math.Tan(rad), 0, 1, 0, 0})
}

// parseTransform reads a transform attribute value, a list of
// operations such as "translate(10 20) rotate(45 5 5)", composed left
// to right. Unknown operation names and operations with the wrong
// number of parameters are skipped.
func parseTransform(v string) Matrix2D {
	m := Identity
	for _, op := range strings.Split(v, ")") {
		op = strings.TrimSpace(op)
		if op == "" {
			continue
		}
		parts := strings.Split(op, "(")
		if len(parts) != 2 {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(parts[0]))
		// leading commas between operations end up on the name
		name = strings.TrimSpace(strings.TrimPrefix(name, ","))
		args := parseFloats(parts[1])
		switch name {
		case "translate":
			switch len(args) {
			case 1:
				m = m.Translate(args[0], 0)
			case 2:
				m = m.Translate(args[0], args[1])
			}
		case "scale":
			switch len(args) {
			case 1:
				m = m.Scale(args[0], args[0])
			case 2:
				m = m.Scale(args[0], args[1])
			}
		case "rotate":
			switch len(args) {
			case 1:
				m = m.Rotate(args[0] * math.Pi / 180)
			case 3:
				m = m.Translate(args[1], args[2]).
					Rotate(args[0] * math.Pi / 180).
					Translate(-args[1], -args[2])
			}
		case "skewx":
			if len(args) == 1 {
				m = m.SkewX(args[0] * math.Pi / 180)
			}
		case "skewy":
			if len(args) == 1 {
				m = m.SkewY(args[0] * math.Pi / 180)
			}
		case "matrix":
			if len(args) == 6 {
				m = m.Mult(Matrix2D{args[0], args[1], args[2], args[3], args[4], args[5]})
			}
		}
	}
	return m
}
