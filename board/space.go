package board

import (
	"fmt"

	"github.com/benoitkugler/inkwell/svgink"
)

// Space names one of the coordinate frames a point may be expressed
// in. Placement requests accept every frame except the device-pixel
// screen frame, which is output only.
type Space string

const (
	// CanvasAbsolute is the raw internal frame of the canvas, origin
	// at its top-left corner.
	CanvasAbsolute Space = "canvas_absolute"
	// DocumentAxis is the signed offset from the fixed canvas center.
	DocumentAxis Space = "document_axis"
	// ViewportCenterOffset is the signed offset from the center of
	// the currently visible viewport. This is the default frame for
	// placement requests.
	ViewportCenterOffset Space = "viewport_center_offset"
	// ViewportLocal is the offset from the viewport's top-left corner.
	ViewportLocal Space = "viewport_local"
	// Screen is the device-pixel frame, scaled by the zoom factor.
	// It converts both ways but is never accepted as request input.
	Screen Space = "screen"
)

// InputSpaces lists the frames accepted in placement requests.
func InputSpaces() []Space {
	return []Space{CanvasAbsolute, DocumentAxis, ViewportCenterOffset, ViewportLocal}
}

// ValidInput reports whether the space may appear in a request.
func ValidInput(s Space) bool {
	switch s {
	case CanvasAbsolute, DocumentAxis, ViewportCenterOffset, ViewportLocal:
		return true
	}
	return false
}

// Snapshot is the read-only coordinate state of the surface at the
// time a request is resolved: the fixed document axis origin, the
// visible viewport, the zoom factor, and the extent of the most
// recently committed stroke when one exists.
type Snapshot struct {
	DocumentAxisOrigin svgink.Point
	Viewport           svgink.Rect
	Zoom               float64
	LastStrokeBounds   *svgink.Rect
}

func (s Snapshot) viewportCenter() svgink.Point {
	return svgink.Point{X: s.Viewport.X + s.Viewport.W/2, Y: s.Viewport.Y + s.Viewport.H/2}
}

// ToCanvas converts a point expressed in the given space into
// canvas-absolute units. It is the exact inverse of FromCanvas.
func ToCanvas(p svgink.Point, space Space, snap Snapshot) (svgink.Point, error) {
	switch space {
	case CanvasAbsolute:
		return p, nil
	case DocumentAxis:
		return svgink.Point{
			X: p.X + snap.DocumentAxisOrigin.X,
			Y: p.Y + snap.DocumentAxisOrigin.Y,
		}, nil
	case ViewportCenterOffset:
		c := snap.viewportCenter()
		return svgink.Point{X: p.X + c.X, Y: p.Y + c.Y}, nil
	case ViewportLocal:
		return svgink.Point{X: p.X + snap.Viewport.X, Y: p.Y + snap.Viewport.Y}, nil
	case Screen:
		return svgink.Point{
			X: p.X/snap.Zoom + snap.Viewport.X,
			Y: p.Y/snap.Zoom + snap.Viewport.Y,
		}, nil
	}
	return svgink.Point{}, fmt.Errorf("unknown coordinate space %q", space)
}

// FromCanvas converts a canvas-absolute point into the given space.
func FromCanvas(p svgink.Point, space Space, snap Snapshot) (svgink.Point, error) {
	switch space {
	case CanvasAbsolute:
		return p, nil
	case DocumentAxis:
		return svgink.Point{
			X: p.X - snap.DocumentAxisOrigin.X,
			Y: p.Y - snap.DocumentAxisOrigin.Y,
		}, nil
	case ViewportCenterOffset:
		c := snap.viewportCenter()
		return svgink.Point{X: p.X - c.X, Y: p.Y - c.Y}, nil
	case ViewportLocal:
		return svgink.Point{X: p.X - snap.Viewport.X, Y: p.Y - snap.Viewport.Y}, nil
	case Screen:
		return svgink.Point{
			X: (p.X - snap.Viewport.X) * snap.Zoom,
			Y: (p.Y - snap.Viewport.Y) * snap.Zoom,
		}, nil
	}
	return svgink.Point{}, fmt.Errorf("unknown coordinate space %q", space)
}
