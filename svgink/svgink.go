// Provides parsing of a constrained SVG subset into drawable
// stroke primitives.
// Paths, basic shapes, nested groups and their styling are reduced
// to flat point lists, ready to be inked progressively on a
// drawing surface. See the `Parse` functions to use it.
package svgink

import (
	"errors"
	"image/color"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"encoding/xml"
)

// ErrorMode determines how the parser treats unsupported elements.
type ErrorMode uint8

const (
	// IgnoreErrorMode skips unsupported elements silently.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode logs a warning for unsupported elements.
	WarnErrorMode
	// StrictErrorMode aborts parsing on unsupported elements.
	StrictErrorMode
)

var (
	errParamMismatch = errors.New("param mismatch")
	errInvalidXML    = errors.New("invalid svg xml document")
)

// Point is a position in 2D space.
type Point struct {
	X, Y float64
}

// Rect defines a bounding box, such as a viewBox
// or a stroke extent.
type Rect struct{ X, Y, W, H float64 }

// StrokeSource tags the origin of a stroke.
type StrokeSource uint8

const (
	// SourceVector marks geometry coming from paths and shapes.
	SourceVector StrokeSource = iota
	// SourceText marks geometry coming from rendered text blocks.
	SourceText
)

// Stroke is an ordered run of points to be inked as one
// continuous pointer trace. A nil Color means "no explicit paint":
// the consumer applies its default ink.
type Stroke struct {
	Points []Point
	Color  color.Color
	Width  float64
	IsFill bool
	Source StrokeSource
}

// Bounds returns the axis-aligned extent of the stroke points.
func (s Stroke) Bounds() Rect {
	if len(s.Points) == 0 {
		return Rect{}
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// TextRun is a literal piece of text anchored on the surface.
// It is animated with a typing effect rather than ink tracing.
type TextRun struct {
	Text       string
	Anchor     Point
	FontSize   float64
	FontFamily string
	Color      color.Color
}

// ParseResult holds the drawable content of a parsed document.
// It is normalized so that ViewBox.X == ViewBox.Y == 0, and is
// not mutated after being returned.
type ParseResult struct {
	Strokes  []Stroke
	TextRuns []TextRun
	ViewBox  Rect
}

// Parse reads an SVG document from a string.
// Only the subset svg|g|path|rect|line|polyline|polygon|circle|ellipse|text
// is supported; errMode determines if the parser ignores, errors out, or
// logs a warning when it encounters other elements.
func Parse(svg string, errMode ErrorMode) (*ParseResult, error) {
	return ParseReader(strings.NewReader(svg), errMode)
}

// ParseReader reads an SVG document from the given io.Reader.
// See Parse.
func ParseReader(stream io.Reader, errMode ErrorMode) (*ParseResult, error) {
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	root, err := buildTree(decoder)
	if err != nil {
		return nil, err
	}

	cursor := &docCursor{errorMode: errMode, res: &ParseResult{}}
	ctx := drawContext{transform: Identity}
	if err := cursor.walk(root, ctx); err != nil {
		return nil, err
	}
	if !cursor.viewBoxSet {
		cursor.res.ViewBox = contentBounds(cursor.res)
	}
	normalize(cursor.res)
	return cursor.res, nil
}

// normalize shifts every point once so the viewBox origin is (0,0).
// Calling it on an already normalized result is a no-op.
func normalize(res *ParseResult) {
	dx, dy := -res.ViewBox.X, -res.ViewBox.Y
	if dx == 0 && dy == 0 {
		return
	}
	for i := range res.Strokes {
		pts := res.Strokes[i].Points
		for j := range pts {
			pts[j].X += dx
			pts[j].Y += dy
		}
	}
	for i := range res.TextRuns {
		res.TextRuns[i].Anchor.X += dx
		res.TextRuns[i].Anchor.Y += dy
	}
	res.ViewBox.X, res.ViewBox.Y = 0, 0
}

// contentBounds computes a viewBox from the parsed geometry, used
// when the document carries no viewBox attribute.
func contentBounds(res *ParseResult) Rect {
	first := true
	var minX, minY, maxX, maxY float64
	grow := func(p Point) {
		if first {
			minX, minY, maxX, maxY = p.X, p.Y, p.X, p.Y
			first = false
			return
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	for _, s := range res.Strokes {
		for _, p := range s.Points {
			grow(p)
		}
	}
	for _, t := range res.TextRuns {
		grow(t.Anchor)
	}
	if first {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
