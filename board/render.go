package board

import (
	"image"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/benoitkugler/inkwell/svgink"
)

// Renderer rasterizes the visible viewport into an RGBA image:
// committed board geometry first, then the animation overlay (the
// partially traced stroke and the typing caret). The ink look comes
// from round caps and joins on every stroke.
type Renderer struct {
	width, height int
	img           *image.RGBA
	scanner       *rasterx.ScannerGV
	dasher        *rasterx.Dasher
}

// NewRenderer returns a renderer producing width x height frames.
func NewRenderer(width, height int) *Renderer {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	return &Renderer{
		width:   width,
		height:  height,
		img:     img,
		scanner: scanner,
		dasher:  rasterx.NewDasher(width, height, scanner),
	}
}

// TypedText is the transient typing overlay: the run being typed, the
// number of characters already revealed, and the caret blink state.
type TypedText struct {
	Run     svgink.TextRun
	Visible int
	CaretOn bool
}

// Frame renders one frame of the viewport described by snap: the
// committed strokes and texts, then the overlay strokes of the
// animation in flight and the text being typed, if any. The returned
// image is reused by the next Frame call.
func (r *Renderer) Frame(snap Snapshot, strokes []svgink.Stroke, texts []svgink.TextRun, overlay []svgink.Stroke, typing *TypedText) *image.RGBA {
	draw.Draw(r.img, r.img.Bounds(), image.White, image.Point{}, draw.Src)
	for _, s := range strokes {
		r.drawStroke(s, snap)
	}
	for _, t := range texts {
		r.drawText(t, len(t.Text), snap)
	}
	for _, s := range overlay {
		r.drawStroke(s, snap)
	}
	if typing != nil {
		r.drawTyping(*typing, snap)
	}
	return r.img
}

func toFixedPoint(p svgink.Point) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.Int26_6(p.X * 64), Y: fixed.Int26_6(p.Y * 64)}
}

func (r *Renderer) drawStroke(s svgink.Stroke, snap Snapshot) {
	if len(s.Points) < 2 {
		return
	}
	col := s.Color
	if col == nil {
		col = DefaultInk
	}
	width := s.Width
	if width <= 0 {
		width = 1
	}
	r.scanner.SetColor(col)
	r.dasher.SetStroke(
		fixed.Int26_6(width*snap.Zoom*64), 4<<6,
		rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap,
		rasterx.Round, nil, 0,
	)
	first, _ := FromCanvas(s.Points[0], Screen, snap)
	r.dasher.Start(toFixedPoint(first))
	for _, p := range s.Points[1:] {
		q, _ := FromCanvas(p, Screen, snap)
		r.dasher.Line(toFixedPoint(q))
	}
	r.dasher.Stop(false)
	r.dasher.Draw()
	r.dasher.Clear()
}

// drawText renders the first n characters of the run.
// The bitmap face ignores the requested font size and family; they
// are kept on the run for a future scalable-font renderer.
func (r *Renderer) drawText(t svgink.TextRun, n int, snap Snapshot) font.Drawer {
	if n > len(t.Text) {
		n = len(t.Text)
	}
	col := t.Color
	if col == nil {
		col = DefaultInk
	}
	anchor, _ := FromCanvas(t.Anchor, Screen, snap)
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  toFixedPoint(anchor),
	}
	d.DrawString(t.Text[:n])
	return d
}

// drawTyping renders the partially revealed run and, on blink-on
// frames, a caret bar right after the last visible character.
func (r *Renderer) drawTyping(tt TypedText, snap Snapshot) {
	d := r.drawText(tt.Run, tt.Visible, snap)
	if !tt.CaretOn {
		return
	}
	h := float64(basicfont.Face7x13.Height)
	top := svgink.Point{
		X: float64(d.Dot.X) / 64,
		Y: float64(d.Dot.Y)/64 - h,
	}
	r.scanner.SetColor(DefaultInk)
	r.dasher.SetStroke(
		1<<6, 4<<6,
		rasterx.ButtCap, rasterx.ButtCap, rasterx.RoundGap,
		rasterx.Round, nil, 0,
	)
	r.dasher.Start(toFixedPoint(top))
	r.dasher.Line(toFixedPoint(svgink.Point{X: top.X, Y: top.Y + h}))
	r.dasher.Stop(false)
	r.dasher.Draw()
	r.dasher.Clear()
}
