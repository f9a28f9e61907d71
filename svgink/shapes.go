package svgink

import (
	"image/color"
	"math"
	"sort"
)

// Reduction of primitive shapes to point lists, and scanline
// decomposition of filled interiors.

const (
	// ellipseSamples is the number of equally spaced angles used to
	// sample circles and ellipses.
	ellipseSamples = 24

	// cornerSamples is the number of arc samples per rounded-rect corner.
	cornerSamples = 6

	// fillScanStep is the vertical spacing between fill scanlines.
	// fillStrokeWidth makes the spans overlap enough that round,
	// anti-aliased line caps produce solid coverage. Both are tuned
	// for the default ink renderer; a different medium may need other
	// values, or a native filled-polygon primitive.
	fillScanStep    = 3.0
	fillStrokeWidth = fillScanStep * 3
)

// rectSubpath builds a closed rectangle outline. A zero corner radius
// yields the plain 5-point closed rectangle; otherwise the four corners
// are sampled quarter arcs.
func rectSubpath(x, y, w, h, rx, ry float64) subpath {
	if rx <= 0 || ry <= 0 {
		return subpath{
			pts: []Point{
				{X: x, Y: y},
				{X: x + w, Y: y},
				{X: x + w, Y: y + h},
				{X: x, Y: y + h},
				{X: x, Y: y},
			},
			closed: true,
		}
	}
	// clamp the radii to half the corresponding extent
	if rx > w/2 {
		rx = w / 2
	}
	if ry > h/2 {
		ry = h / 2
	}
	var pts []Point
	corner := func(cx, cy, fromDeg float64) {
		for i := 0; i <= cornerSamples; i++ {
			theta := (fromDeg + 90*float64(i)/cornerSamples) * math.Pi / 180
			pts = append(pts, Point{
				X: cx + rx*math.Cos(theta),
				Y: cy + ry*math.Sin(theta),
			})
		}
	}
	// four straight edges joined by sampled corner arcs, clockwise
	// from the top-left corner
	pts = append(pts, Point{X: x + rx, Y: y}, Point{X: x + w - rx, Y: y})
	corner(x+w-rx, y+ry, 270)
	pts = append(pts, Point{X: x + w, Y: y + h - ry})
	corner(x+w-rx, y+h-ry, 0)
	pts = append(pts, Point{X: x + rx, Y: y + h})
	corner(x+rx, y+h-ry, 90)
	pts = append(pts, Point{X: x, Y: y + ry})
	corner(x+rx, y+ry, 180)
	pts = append(pts, pts[0])
	return subpath{pts: pts, closed: true}
}

// ellipseSubpath samples the ellipse outline, closed by repeating the
// first point.
func ellipseSubpath(cx, cy, rx, ry float64) subpath {
	pts := make([]Point, 0, ellipseSamples+1)
	for i := 0; i < ellipseSamples; i++ {
		theta := 2 * math.Pi * float64(i) / ellipseSamples
		pts = append(pts, Point{
			X: cx + rx*math.Cos(theta),
			Y: cy + ry*math.Sin(theta),
		})
	}
	pts = append(pts, pts[0])
	return subpath{pts: pts, closed: true}
}

// fillSpans approximates the interior of a closed polygon with
// horizontal fill strokes: each scanline is intersected with every
// polygon edge and the sorted intersections are paired into spans.
func fillSpans(poly []Point, col color.Color) []Stroke {
	if len(poly) < 3 {
		return nil
	}
	minY, maxY := poly[0].Y, poly[0].Y
	for _, p := range poly[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	var out []Stroke
	for y := minY + fillScanStep/2; y < maxY; y += fillScanStep {
		xs := scanlineCrossings(poly, y)
		for i := 0; i+1 < len(xs); i += 2 {
			if xs[i+1]-xs[i] <= 0 {
				continue
			}
			out = append(out, Stroke{
				Points: []Point{{X: xs[i], Y: y}, {X: xs[i+1], Y: y}},
				Color:  col,
				Width:  fillStrokeWidth,
				IsFill: true,
				Source: SourceVector,
			})
		}
	}
	return out
}

// scanlineCrossings returns the sorted x coordinates where the
// horizontal line at y crosses polygon edges. Edges are treated as
// half-open in y so shared vertices are not counted twice.
func scanlineCrossings(poly []Point, y float64) []float64 {
	var xs []float64
	for i := 0; i < len(poly)-1; i++ {
		p1, p2 := poly[i], poly[i+1]
		if (p1.Y <= y && p2.Y > y) || (p2.Y <= y && p1.Y > y) {
			t := (y - p1.Y) / (p2.Y - p1.Y)
			xs = append(xs, p1.X+t*(p2.X-p1.X))
		}
	}
	sort.Float64s(xs)
	return xs
}
