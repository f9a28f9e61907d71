// Implements the persistent ink medium: a large fixed-size canvas
// accumulating committed strokes and text blocks, with the coordinate
// frames used to address it and a raster viewport renderer.
package board

import (
	"context"
	"image/color"
	"log/slog"
	"sync"

	"github.com/benoitkugler/inkwell/svgink"
)

// DefaultExtent is the side length of the square canvas, in canvas
// units. The canvas is large enough to feel unbounded; its center is
// the document axis origin.
const DefaultExtent = 16384.0

// DefaultInk is the stroke color used when neither the request nor
// the document specifies one.
var DefaultInk = color.NRGBA{R: 0x1D, G: 0x1D, B: 0x1F, A: 0xFF}

// Board is the shared drawing surface. Committed geometry is stored
// in canvas-absolute coordinates. All phases of an animation mutate
// the same surface, so writers must be serialized: the animator's
// single worker is the only expected writer.
type Board struct {
	extent float64
	log    *slog.Logger

	// cancelled when the surface is torn down, aborting in-flight
	// animations
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	strokes  []svgink.Stroke
	texts    []svgink.TextRun
	viewport svgink.Rect
	zoom     float64
}

// New returns an empty board. A non positive extent falls back to
// DefaultExtent; the initial viewport is centered on the canvas.
func New(extent float64, logger *slog.Logger) *Board {
	if extent <= 0 {
		extent = DefaultExtent
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b := &Board{
		extent: extent,
		log:    logger,
		ctx:    ctx,
		cancel: cancel,
		zoom:   1,
	}
	b.viewport = svgink.Rect{
		X: extent/2 - defaultViewportW/2,
		Y: extent/2 - defaultViewportH/2,
		W: defaultViewportW,
		H: defaultViewportH,
	}
	return b
}

const (
	defaultViewportW = 1280.0
	defaultViewportH = 800.0
)

// Context is cancelled when the board is closed. Animations select on
// it so teardown abandons pending frames.
func (b *Board) Context() context.Context { return b.ctx }

// Close tears the surface down, cancelling in-flight animations.
// Committed geometry stays readable.
func (b *Board) Close() {
	b.cancel()
	b.log.Info("board closed")
}

// CommitStroke appends one finished stroke to the surface.
func (b *Board) CommitStroke(s svgink.Stroke) {
	b.mu.Lock()
	b.strokes = append(b.strokes, s)
	b.mu.Unlock()
}

// CommitStrokes appends a batch of finished strokes at once.
func (b *Board) CommitStrokes(strokes []svgink.Stroke) {
	b.mu.Lock()
	b.strokes = append(b.strokes, strokes...)
	b.mu.Unlock()
}

// CommitText appends one finished text block to the surface.
func (b *Board) CommitText(t svgink.TextRun) {
	b.mu.Lock()
	b.texts = append(b.texts, t)
	b.mu.Unlock()
}

func (b *Board) StrokeCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.strokes)
}

func (b *Board) TextCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.texts)
}

// Strokes returns a copy of the committed strokes.
func (b *Board) Strokes() []svgink.Stroke {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]svgink.Stroke, len(b.strokes))
	copy(out, b.strokes)
	return out
}

// Texts returns a copy of the committed text blocks.
func (b *Board) Texts() []svgink.TextRun {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]svgink.TextRun, len(b.texts))
	copy(out, b.texts)
	return out
}

// SetViewport moves the visible window. Zero or negative dimensions
// are rejected, keeping the previous viewport.
func (b *Board) SetViewport(r svgink.Rect) {
	if r.W <= 0 || r.H <= 0 {
		b.log.Warn("rejected degenerate viewport", "viewport", r)
		return
	}
	b.mu.Lock()
	b.viewport = r
	b.mu.Unlock()
}

// SetZoom sets the canvas-to-screen scale factor. Non positive values
// are rejected.
func (b *Board) SetZoom(z float64) {
	if z <= 0 {
		b.log.Warn("rejected non positive zoom", "zoom", z)
		return
	}
	b.mu.Lock()
	b.zoom = z
	b.mu.Unlock()
}

// Snapshot captures the read-only coordinate state used to resolve a
// request's placement. It is never mutated afterwards.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snap := Snapshot{
		DocumentAxisOrigin: svgink.Point{X: b.extent / 2, Y: b.extent / 2},
		Viewport:           b.viewport,
		Zoom:               b.zoom,
	}
	if n := len(b.strokes); n > 0 {
		bounds := b.strokes[n-1].Bounds()
		snap.LastStrokeBounds = &bounds
	}
	return snap
}
