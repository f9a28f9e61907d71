package svgink

import (
	"errors"
	"log"
)

// drawContext is the immutable state threaded through the recursive
// descent: the inherited group style and the composed ancestor transform.
type drawContext struct {
	style     styleAttrs
	transform Matrix2D
}

// scoped returns the context extended by the element's own style
// attributes and transform, applied parent-before-local.
func (ctx drawContext) scoped(el *element) drawContext {
	return drawContext{
		style:     ctx.style.merged(el),
		transform: ctx.transform.Mult(parseTransform(el.attr("transform"))),
	}
}

// docCursor accumulates strokes while walking the element tree.
type docCursor struct {
	errorMode  ErrorMode
	res        *ParseResult
	viewBoxSet bool
}

func (c *docCursor) handleError(errStr string) error {
	if c.errorMode == StrictErrorMode {
		return errors.New(errStr)
	} else if c.errorMode == WarnErrorMode {
		log.Println(errStr)
	}
	return nil
}

// shapeFunc reduces one element to subpaths in its local coordinates.
type shapeFunc func(c *docCursor, el *element) []subpath

var shapeFuncs = map[string]shapeFunc{
	"path":     pathF,
	"rect":     rectF,
	"line":     lineF,
	"polyline": polylineF,
	"polygon":  polygonF,
	"circle":   circleF,
	"ellipse":  circleF, // circleF handles ellipse also
}

func (c *docCursor) walk(el *element, ctx drawContext) error {
	switch el.name {
	case "svg":
		if err := c.readSVG(el); err != nil {
			return err
		}
		scoped := ctx.scoped(el)
		for _, child := range el.children {
			if err := c.walk(child, scoped); err != nil {
				return err
			}
		}
	case "g":
		scoped := ctx.scoped(el)
		for _, child := range el.children {
			if err := c.walk(child, scoped); err != nil {
				return err
			}
		}
	case "text":
		c.readText(el, ctx)
	default:
		df, ok := shapeFuncs[el.name]
		if !ok {
			return c.handleError("cannot process svg element " + el.name)
		}
		c.emit(df(c, el), el, ctx)
	}
	return nil
}

// emit resolves the element paint, applies the composed transform and
// appends the resulting strokes. Subpaths with fewer than two points
// are dropped silently.
func (c *docCursor) emit(subs []subpath, el *element, ctx drawContext) {
	if len(subs) == 0 {
		return
	}
	pt := resolvePaint(el, ctx.style)
	if pt.stroke == nil && pt.fill == nil {
		return // contributes nothing
	}
	m := ctx.transform.Mult(parseTransform(el.attr("transform")))
	outline := pt.stroke
	if outline == nil {
		// the ink medium has no filled-region primitive for outlines:
		// substitute the fill color as a stroke-equivalent
		outline = pt.fill
	}
	for _, sub := range subs {
		if len(sub.pts) < 2 {
			continue
		}
		pts := make([]Point, len(sub.pts))
		for i, q := range sub.pts {
			pts[i] = m.Apply(q)
		}
		c.res.Strokes = append(c.res.Strokes, Stroke{
			Points: pts,
			Color:  outline,
			Width:  pt.width,
			Source: SourceVector,
		})
		if pt.fill != nil && sub.closed {
			c.res.Strokes = append(c.res.Strokes, fillSpans(pts, pt.fill)...)
		}
	}
}

func (c *docCursor) readSVG(el *element) error {
	if v := el.attr("viewBox"); v != "" {
		points := parseFloats(v)
		if len(points) != 4 {
			return errParamMismatch
		}
		c.res.ViewBox = Rect{X: points[0], Y: points[1], W: points[2], H: points[3]}
		c.viewBoxSet = true
		return nil
	}
	width := attrFloat(el, "width")
	height := attrFloat(el, "height")
	if width > 0 && height > 0 {
		c.res.ViewBox = Rect{W: width, H: height}
		c.viewBoxSet = true
	}
	return nil
}

const defaultFontSize = 16.0

func (c *docCursor) readText(el *element, ctx drawContext) {
	content := el.trimmedText()
	if content == "" {
		return
	}
	pt := resolvePaint(el, ctx.style)
	col := pt.fill
	if col == nil {
		col = pt.stroke
	}
	if col == nil {
		return
	}
	m := ctx.transform.Mult(parseTransform(el.attr("transform")))
	size := styleFloat(el, "font-size")
	if size <= 0 {
		size = defaultFontSize
	}
	c.res.TextRuns = append(c.res.TextRuns, TextRun{
		Text:       content,
		Anchor:     m.Apply(Point{X: attrFloat(el, "x"), Y: attrFloat(el, "y")}),
		FontSize:   size,
		FontFamily: styleValue(el, "font-family"),
		Color:      col,
	})
}

func pathF(c *docCursor, el *element) []subpath {
	return parsePathData(el.attr("d"))
}

func rectF(c *docCursor, el *element) []subpath {
	x, y := attrFloat(el, "x"), attrFloat(el, "y")
	w, h := attrFloat(el, "width"), attrFloat(el, "height")
	if w <= 0 || h <= 0 {
		return nil // not drawn, but not an error
	}
	var rx, ry float64
	hasRx, hasRy := el.attr("rx") != "", el.attr("ry") != ""
	if hasRx {
		rx = attrFloat(el, "rx")
	}
	if hasRy {
		ry = attrFloat(el, "ry")
	}
	// mirror a lone radius to the other axis
	if hasRx && !hasRy {
		ry = rx
	}
	if hasRy && !hasRx {
		rx = ry
	}
	return []subpath{rectSubpath(x, y, w, h, rx, ry)}
}

func circleF(c *docCursor, el *element) []subpath {
	cx, cy := attrFloat(el, "cx"), attrFloat(el, "cy")
	var rx, ry float64
	if r := attrFloat(el, "r"); r > 0 {
		rx, ry = r, r
	} else {
		rx, ry = attrFloat(el, "rx"), attrFloat(el, "ry")
	}
	if rx <= 0 || ry <= 0 { // not drawn, but not an error
		return nil
	}
	return []subpath{ellipseSubpath(cx, cy, rx, ry)}
}

func lineF(c *docCursor, el *element) []subpath {
	p1 := Point{X: attrFloat(el, "x1"), Y: attrFloat(el, "y1")}
	p2 := Point{X: attrFloat(el, "x2"), Y: attrFloat(el, "y2")}
	return []subpath{{pts: []Point{p1, p2}}}
}

func polylineF(c *docCursor, el *element) []subpath {
	pts := parsePointPairs(el.attr("points"))
	if len(pts) < 2 {
		return nil
	}
	return []subpath{{pts: pts}}
}

func polygonF(c *docCursor, el *element) []subpath {
	pts := parsePointPairs(el.attr("points"))
	if len(pts) < 2 {
		return nil
	}
	// polygons auto-close
	if pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	return []subpath{{pts: pts, closed: true}}
}

// parsePointPairs reads a points attribute; a dangling odd value is
// dropped rather than treated as fatal.
func parsePointPairs(v string) []Point {
	nums := parseFloats(v)
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, Point{X: nums[i], Y: nums[i+1]})
	}
	return pts
}
