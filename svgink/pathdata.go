package svgink

import (
	"math"
	"strings"
)

// Interprets tokenized path data, expanding curves and arcs into
// sampled point lists, one per subpath.

const (
	// curveSamples is the fixed number of sub-samples used to flatten
	// one Bézier segment. A fixed count trades fidelity for simplicity.
	curveSamples = 8

	// arcStepDegrees is the maximum angle spanned by one arc sample.
	arcStepDegrees = 15.0

	// minArcSamples is the floor on arc sampling, whatever the sweep.
	minArcSamples = 8
)

// subpath is one continuous run of segments between a move and the
// next move or close.
type subpath struct {
	pts    []Point
	closed bool
}

type pathCursor struct {
	toks []token
	pos  int

	at      Point // current point
	start   Point // subpath start
	ctrl    Point // last control point
	hasCtrl bool
	lastCmd byte // last command family, for reflection and repeats

	pts []Point
	out []subpath
}

// parsePathData interprets a path d attribute. Malformed fragments stop
// point production for the current subpath; subpaths with fewer than
// two points are dropped by the caller.
func parsePathData(data string) []subpath {
	c := &pathCursor{toks: tokenize(data)}
	for c.pos < len(c.toks) {
		t := c.toks[c.pos]
		var cmd byte
		if t.kind == tokCommand {
			cmd = t.cmd
			c.pos++
		} else {
			// bare numbers reuse the last command, with M demoted to L
			switch c.lastCmd {
			case 'M':
				cmd = 'L'
			case 'm':
				cmd = 'l'
			case 0:
				c.pos++ // numbers before any command: dropped
				continue
			default:
				cmd = c.lastCmd
			}
		}
		if !c.exec(cmd) {
			break
		}
		c.lastCmd = cmd
	}
	c.flush()
	return c.out
}

// number consumes the next number token.
func (c *pathCursor) number() (float64, bool) {
	if c.pos >= len(c.toks) || c.toks[c.pos].kind != tokNumber {
		return 0, false
	}
	n := c.toks[c.pos].num
	c.pos++
	return n, true
}

// numbers consumes exactly n number tokens.
func (c *pathCursor) numbers(n int) ([]float64, bool) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := c.number()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// flush commits the pending subpath when it holds at least two points.
func (c *pathCursor) flush() {
	if len(c.pts) >= 2 {
		c.out = append(c.out, subpath{pts: c.pts})
	}
	c.pts = nil
}

// started seeds the pending subpath with the current point, so that
// drawing commands issued after a close continue from there.
func (c *pathCursor) started() {
	if len(c.pts) == 0 {
		c.pts = append(c.pts, c.at)
	}
}

func (c *pathCursor) lineTo(p Point) {
	c.started()
	c.pts = append(c.pts, p)
	c.at = p
}

// exec runs one command, consuming its parameters. It reports false
// when the parameter list is exhausted or malformed.
func (c *pathCursor) exec(cmd byte) bool {
	rel := cmd >= 'a' && cmd <= 'z'
	switch cmd {
	case 'M', 'm':
		v, ok := c.numbers(2)
		if !ok {
			return false
		}
		c.flush()
		p := Point{X: v[0], Y: v[1]}
		if rel {
			p.X += c.at.X
			p.Y += c.at.Y
		}
		c.at, c.start = p, p
		c.pts = []Point{p}
		c.hasCtrl = false
	case 'L', 'l':
		v, ok := c.numbers(2)
		if !ok {
			return false
		}
		p := Point{X: v[0], Y: v[1]}
		if rel {
			p.X += c.at.X
			p.Y += c.at.Y
		}
		c.lineTo(p)
		c.hasCtrl = false
	case 'H', 'h':
		v, ok := c.number()
		if !ok {
			return false
		}
		p := Point{X: v, Y: c.at.Y}
		if rel {
			p.X = c.at.X + v
		}
		c.lineTo(p)
		c.hasCtrl = false
	case 'V', 'v':
		v, ok := c.number()
		if !ok {
			return false
		}
		p := Point{X: c.at.X, Y: v}
		if rel {
			p.Y = c.at.Y + v
		}
		c.lineTo(p)
		c.hasCtrl = false
	case 'C', 'c':
		v, ok := c.numbers(6)
		if !ok {
			return false
		}
		c1 := Point{X: v[0], Y: v[1]}
		c2 := Point{X: v[2], Y: v[3]}
		end := Point{X: v[4], Y: v[5]}
		if rel {
			c1.X += c.at.X
			c1.Y += c.at.Y
			c2.X += c.at.X
			c2.Y += c.at.Y
			end.X += c.at.X
			end.Y += c.at.Y
		}
		c.cubicTo(c1, c2, end)
	case 'S', 's':
		v, ok := c.numbers(4)
		if !ok {
			return false
		}
		c2 := Point{X: v[0], Y: v[1]}
		end := Point{X: v[2], Y: v[3]}
		if rel {
			c2.X += c.at.X
			c2.Y += c.at.Y
			end.X += c.at.X
			end.Y += c.at.Y
		}
		c1 := c.reflectedControl("CcSs")
		c.cubicTo(c1, c2, end)
	case 'Q', 'q':
		v, ok := c.numbers(4)
		if !ok {
			return false
		}
		ctrl := Point{X: v[0], Y: v[1]}
		end := Point{X: v[2], Y: v[3]}
		if rel {
			ctrl.X += c.at.X
			ctrl.Y += c.at.Y
			end.X += c.at.X
			end.Y += c.at.Y
		}
		c.quadTo(ctrl, end)
	case 'T', 't':
		v, ok := c.numbers(2)
		if !ok {
			return false
		}
		end := Point{X: v[0], Y: v[1]}
		if rel {
			end.X += c.at.X
			end.Y += c.at.Y
		}
		ctrl := c.reflectedControl("QqTt")
		c.quadTo(ctrl, end)
	case 'A', 'a':
		v, ok := c.numbers(7)
		if !ok {
			return false
		}
		end := Point{X: v[5], Y: v[6]}
		if rel {
			end.X += c.at.X
			end.Y += c.at.Y
		}
		c.arcTo(v[0], v[1], v[2], v[3] != 0, v[4] != 0, end)
		c.hasCtrl = false
	case 'Z', 'z':
		if len(c.pts) > 0 {
			c.pts = append(c.pts, c.start)
			if len(c.pts) >= 2 {
				c.out = append(c.out, subpath{pts: c.pts, closed: true})
			}
			c.pts = nil
		}
		c.at = c.start
		c.hasCtrl = false
	default:
		return false
	}
	return true
}

// reflectedControl mirrors the previous control point about the current
// point when the previous command was of the same family, else returns
// the current point.
func (c *pathCursor) reflectedControl(family string) Point {
	if c.hasCtrl && strings.IndexByte(family, c.lastCmd) >= 0 {
		return Point{X: 2*c.at.X - c.ctrl.X, Y: 2*c.at.Y - c.ctrl.Y}
	}
	return c.at
}

func (c *pathCursor) cubicTo(c1, c2, end Point) {
	c.started()
	p0 := c.at
	for i := 1; i <= curveSamples; i++ {
		t := float64(i) / curveSamples
		c.pts = append(c.pts, cubicAt(p0, c1, c2, end, t))
	}
	c.at = end
	c.ctrl, c.hasCtrl = c2, true
}

func (c *pathCursor) quadTo(ctrl, end Point) {
	c.started()
	p0 := c.at
	for i := 1; i <= curveSamples; i++ {
		t := float64(i) / curveSamples
		c.pts = append(c.pts, quadAt(p0, ctrl, end, t))
	}
	c.at = end
	c.ctrl, c.hasCtrl = ctrl, true
}

func cubicAt(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a, b, cc, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return Point{
		X: a*p0.X + b*p1.X + cc*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + cc*p2.Y + d*p3.Y,
	}
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	a, b, cc := u*u, 2*u*t, t*t
	return Point{
		X: a*p0.X + b*p1.X + cc*p2.X,
		Y: a*p0.Y + b*p1.Y + cc*p2.Y,
	}
}

// arcTo samples an elliptical arc using the endpoint-to-center
// parameterization of the SVG implementation notes. Radii too small for
// the endpoints are scaled up; the sweep flag forces the sign of the
// angle delta.
func (c *pathCursor) arcTo(rx, ry, rotDeg float64, largeArc, sweep bool, end Point) {
	start := c.at
	if start == end {
		return // degenerate: no-op
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		c.lineTo(end) // degenerate: straight segment
		return
	}
	phi := rotDeg * math.Pi / 180
	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)

	dx2 := (start.X - end.X) / 2
	dy2 := (start.Y - end.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	// scale up radii when the requested ellipse cannot reach both
	// endpoints
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	if num < 0 {
		num = 0 // roundoff
	}
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	co := math.Sqrt(num / den)
	if largeArc == sweep {
		co = -co
	}
	cxp := co * rx * y1p / ry
	cyp := -co * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (start.X+end.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (start.Y+end.Y)/2

	theta1 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	delta := theta2 - theta1
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	steps := int(math.Abs(delta) / (arcStepDegrees * math.Pi / 180))
	if steps < minArcSamples {
		steps = minArcSamples
	}
	c.started()
	for i := 1; i <= steps; i++ {
		if i == steps {
			// make the end point exact, avoiding roundoff drift
			c.pts = append(c.pts, end)
			break
		}
		theta := theta1 + delta*float64(i)/float64(steps)
		ex := rx * math.Cos(theta)
		ey := ry * math.Sin(theta)
		c.pts = append(c.pts, Point{
			X: cx + cosPhi*ex - sinPhi*ey,
			Y: cy + sinPhi*ex + cosPhi*ey,
		})
	}
	c.at = end
}
