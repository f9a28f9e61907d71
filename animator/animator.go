// Implements the frame-paced state machine turning a parse result
// into progressively committed ink on a board. One worker goroutine
// owns the board writes; requests are queued and animated one at a
// time, never concurrently.
package animator

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/benoitkugler/inkwell/board"
	"github.com/benoitkugler/inkwell/svgink"
)

const (
	// frameRate is the logical animation frame rate; speed is
	// expressed in traced points per frame.
	frameRate   = 30
	framePeriod = time.Second / frameRate

	// densifyStep is the maximum spacing, in canvas units, between
	// consecutive samples after densification, so a fixed
	// points-per-frame rate reads as uniform pointer speed.
	densifyStep = 4.0

	// phasePause separates the pointer approach and consecutive
	// stroke traces. The duration estimate assumes it per stroke.
	phasePause = 150 * time.Millisecond

	// minSpeed is the floor applied to the requested speed.
	minSpeed = 0.1

	// caretBlinkFrames toggles the typing caret every half second.
	caretBlinkFrames = frameRate / 2

	queueSize = 8
)

// ErrBusy is returned when the request queue is full.
var ErrBusy = errors.New("animator: queue full")

// Phase is the current state of the animation state machine.
type Phase int32

const (
	Idle Phase = iota
	PointerApproach
	TracingStroke
	InterStrokeTravel
	FillCommit
	TextTyping
	Settled
)

var phaseNames = [...]string{
	Idle:              "idle",
	PointerApproach:   "pointer_approach",
	TracingStroke:     "tracing_stroke",
	InterStrokeTravel: "inter_stroke_travel",
	FillCommit:        "fill_commit",
	TextTyping:        "text_typing",
	Settled:           "settled",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Request is a validated, placed drawing order: the parse result and
// how to put it on the canvas.
type Request struct {
	Result *svgink.ParseResult
	// Origin is the canvas-absolute point the drawing's viewBox
	// center is placed at.
	Origin svgink.Point
	Scale  float64
	// Speed is in points per frame, floor-clamped to minSpeed.
	Speed float64
	// StrokeWidth, when positive, overrides the width of every
	// outline stroke.
	StrokeWidth float64
	// Color, when set, overrides every stroke and text color.
	Color color.Color
}

// Ack is the synchronous acceptance answer: the animation itself is
// fire and forget.
type Ack struct {
	StrokeCount      int
	EstimatedSeconds float64
}

// job is a request after placement, ready for the worker.
type job struct {
	outlines []svgink.Stroke
	fills    []svgink.Stroke
	texts    []svgink.TextRun
	speed    float64
}

// Animator owns the single writer loop of one board.
type Animator struct {
	board *board.Board
	clock Clock
	log   *slog.Logger

	queue chan job
	phase atomic.Int32

	renderer *board.Renderer
	// frameSink, when set, receives every rendered frame.
	frameSink func(image.Image)
}

// New starts the worker goroutine. It exits when the board is closed.
func New(b *board.Board, clock Clock, logger *slog.Logger) *Animator {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &Animator{
		board: b,
		clock: clock,
		log:   logger,
		queue: make(chan job, queueSize),
	}
	go a.loop()
	return a
}

// SetFrameSink registers a consumer for rendered frames. Call it
// before the first request; frames are dropped when no sink is set.
func (a *Animator) SetFrameSink(sink func(image.Image)) { a.frameSink = sink }

// Phase returns the current state machine phase.
func (a *Animator) Phase() Phase { return Phase(a.phase.Load()) }

func (a *Animator) setPhase(p Phase) {
	a.phase.Store(int32(p))
	a.log.Debug("animation phase", "phase", p.String())
}

// Enqueue validates and places the request, queues it for the worker
// and returns the acceptance answer. A full queue answers ErrBusy;
// the caller never learns about failures past this point.
func (a *Animator) Enqueue(req Request) (Ack, error) {
	if req.Result == nil || (len(req.Result.Strokes) == 0 && len(req.Result.TextRuns) == 0) {
		return Ack{}, errors.New("animator: nothing to draw")
	}
	j := place(req)
	ack := Ack{
		StrokeCount:      len(j.outlines) + len(j.fills),
		EstimatedSeconds: estimate(j),
	}
	select {
	case a.queue <- j:
		return ack, nil
	default:
		return Ack{}, ErrBusy
	}
}

// place maps the normalized parse result onto the canvas: the viewBox
// center lands on the request origin, scaled, with the width and
// color overrides applied, and outline geometry densified for even
// tracing speed.
func place(req Request) job {
	scale := req.Scale
	if scale <= 0 {
		scale = 1
	}
	speed := req.Speed
	if speed < minSpeed {
		speed = minSpeed
	}
	vb := req.Result.ViewBox
	m := svgink.Identity.
		Translate(req.Origin.X, req.Origin.Y).
		Scale(scale, scale).
		Translate(-vb.W/2, -vb.H/2)

	var j job
	j.speed = speed
	for _, s := range req.Result.Strokes {
		placed := svgink.Stroke{
			Color:  s.Color,
			Width:  s.Width * scale,
			IsFill: s.IsFill,
			Source: s.Source,
		}
		if req.Color != nil {
			placed.Color = req.Color
		}
		pts := make([]svgink.Point, len(s.Points))
		for i, p := range s.Points {
			pts[i] = m.Apply(p)
		}
		if s.IsFill {
			placed.Points = pts
			j.fills = append(j.fills, placed)
		} else {
			if req.StrokeWidth > 0 {
				placed.Width = req.StrokeWidth
			}
			placed.Points = densify(pts, densifyStep)
			j.outlines = append(j.outlines, placed)
		}
	}
	for _, t := range req.Result.TextRuns {
		t.Anchor = m.Apply(t.Anchor)
		t.FontSize *= scale
		if req.Color != nil {
			t.Color = req.Color
		}
		j.texts = append(j.texts, t)
	}
	return j
}

// estimate approximates the animation duration in seconds, rounded to
// one decimal: tracing time at the clamped speed plus a fixed pause
// per stroke.
func estimate(j job) float64 {
	var points int
	for _, s := range j.outlines {
		points += len(s.Points)
	}
	for _, s := range j.fills {
		points += len(s.Points)
	}
	strokes := len(j.outlines) + len(j.fills)
	secs := float64(points)/(frameRate*math.Max(j.speed, minSpeed)) +
		float64(strokes)*phasePause.Seconds()
	return math.Round(secs*10) / 10
}

// densify inserts intermediate points so consecutive spacing never
// exceeds step.
func densify(pts []svgink.Point, step float64) []svgink.Point {
	if len(pts) < 2 {
		return pts
	}
	out := make([]svgink.Point, 0, len(pts))
	out = append(out, pts[0])
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dist := math.Hypot(b.X-a.X, b.Y-a.Y)
		n := int(math.Ceil(dist / step))
		for k := 1; k < n; k++ {
			t := float64(k) / float64(n)
			out = append(out, svgink.Point{
				X: a.X + t*(b.X-a.X),
				Y: a.Y + t*(b.Y-a.Y),
			})
		}
		out = append(out, b)
	}
	return out
}

func (a *Animator) loop() {
	ctx := a.board.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-a.queue:
			a.run(j)
		}
	}
}

// run drives one animation to completion. Any pacing error means the
// board was torn down: the remaining work is abandoned with only the
// fully traced strokes committed.
func (a *Animator) run(j job) {
	defer a.setPhase(Idle)
	ctx := a.board.Context()

	a.setPhase(PointerApproach)
	if a.clock.Sleep(ctx, phasePause) != nil {
		return
	}

	for i, stroke := range j.outlines {
		if i > 0 {
			a.setPhase(InterStrokeTravel)
			if a.clock.Sleep(ctx, phasePause) != nil {
				return
			}
		}
		a.setPhase(TracingStroke)
		if !a.trace(ctx, stroke, j.speed) {
			return
		}
		// only strokes traced to the end reach the board
		a.board.CommitStroke(stroke)
	}

	if len(j.fills) > 0 {
		a.setPhase(FillCommit)
		a.board.CommitStrokes(j.fills)
		a.renderFrame(nil, nil)
	}

	for _, t := range j.texts {
		a.setPhase(TextTyping)
		if !a.typeText(ctx, t) {
			return
		}
		a.board.CommitText(t)
	}

	a.setPhase(Settled)
	a.renderFrame(nil, nil)
	a.log.Info("animation settled",
		"strokes", len(j.outlines)+len(j.fills), "texts", len(j.texts))
}

// trace reveals one stroke point by point at the job speed, rendering
// a frame per step. It reports false when the animation was aborted;
// the partially traced overlay is discarded then.
func (a *Animator) trace(ctx context.Context, stroke svgink.Stroke, speed float64) bool {
	pts := stroke.Points
	progress := 0.0
	traced := 1
	for traced < len(pts) {
		progress += speed
		next := traced + int(progress)
		progress -= math.Trunc(progress)
		if next > len(pts) {
			next = len(pts)
		}
		if next > traced {
			traced = next
		}
		partial := stroke
		partial.Points = pts[:traced]
		a.renderFrame([]svgink.Stroke{partial}, nil)
		if a.clock.Sleep(ctx, framePeriod) != nil {
			return false
		}
	}
	return true
}

// typeText reveals a run character by character with a blinking
// caret overlay, then reports whether it completed.
func (a *Animator) typeText(ctx context.Context, t svgink.TextRun) bool {
	for frame := 1; frame <= len(t.Text); frame++ {
		a.renderFrame(nil, &board.TypedText{
			Run:     t,
			Visible: frame,
			CaretOn: (frame/caretBlinkFrames)%2 == 0,
		})
		if a.clock.Sleep(ctx, framePeriod) != nil {
			return false
		}
	}
	return true
}

// renderFrame re-renders the viewport with the committed state plus
// the given overlay, feeding the frame sink when one is registered.
func (a *Animator) renderFrame(overlay []svgink.Stroke, typing *board.TypedText) {
	if a.frameSink == nil {
		return
	}
	snap := a.board.Snapshot()
	w := int(snap.Viewport.W * snap.Zoom)
	h := int(snap.Viewport.H * snap.Zoom)
	if a.renderer == nil {
		a.renderer = board.NewRenderer(w, h)
	}
	img := a.renderer.Frame(snap, a.board.Strokes(), a.board.Texts(), overlay, typing)
	a.frameSink(img)
}
