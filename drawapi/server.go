// Implements the agent-facing HTTP ingress: draw requests are
// validated, acknowledged synchronously and animated asynchronously,
// fire and forget.
package drawapi

import (
	"encoding/json"
	"errors"
	"image/color"
	"log/slog"
	"net/http"

	"github.com/benoitkugler/inkwell/animator"
	"github.com/benoitkugler/inkwell/board"
	"github.com/benoitkugler/inkwell/svgink"
)

// Server exposes the two endpoints of the drawing API.
type Server struct {
	board *board.Board
	anim  *animator.Animator
	log   *slog.Logger
}

func New(b *board.Board, a *animator.Animator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{board: b, anim: a, log: logger}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/draw", s.handleDraw)
	mux.HandleFunc("/api/canvas", s.handleCanvas)
	return mux
}

// drawRequest is the boundary contract of POST /api/draw.
type drawRequest struct {
	SVG             string  `json:"svg"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	CoordinateSpace string  `json:"coordinate_space"`
	Scale           float64 `json:"scale"`
	Speed           float64 `json:"speed"`
	StrokeWidth     float64 `json:"stroke_width"`
	Color           string  `json:"color"`
}

type drawResponse struct {
	Status                   string  `json:"status"`
	StrokeCount              int     `json:"stroke_count"`
	EstimatedDurationSeconds float64 `json:"estimated_duration_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{"method not allowed"})
		return
	}
	var req drawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid json body: " + err.Error()})
		return
	}
	if req.SVG == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{"missing required field: svg"})
		return
	}
	if req.CoordinateSpace == "" {
		req.CoordinateSpace = string(board.ViewportCenterOffset)
	}
	space := board.Space(req.CoordinateSpace)
	if !board.ValidInput(space) {
		writeJSON(w, http.StatusBadRequest,
			errorResponse{"unsupported coordinate space: " + req.CoordinateSpace})
		return
	}
	if req.Scale <= 0 {
		req.Scale = 1
	}
	if req.Speed <= 0 {
		req.Speed = 1
	}

	var override color.Color
	if req.Color != "" {
		col, err := svgink.ParseColor(req.Color)
		if err != nil || col == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{"invalid color: " + req.Color})
			return
		}
		override = col
	}

	res, err := svgink.Parse(req.SVG, svgink.IgnoreErrorMode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{"invalid svg: " + err.Error()})
		return
	}
	if len(res.Strokes) == 0 && len(res.TextRuns) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{"no drawable strokes in svg"})
		return
	}

	snap := s.board.Snapshot()
	origin, err := board.ToCanvas(svgink.Point{X: req.X, Y: req.Y}, space, snap)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}

	ack, err := s.anim.Enqueue(animator.Request{
		Result:      res,
		Origin:      origin,
		Scale:       req.Scale,
		Speed:       req.Speed,
		StrokeWidth: req.StrokeWidth,
		Color:       override,
	})
	if errors.Is(err, animator.ErrBusy) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{"drawing in progress, try again later"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{err.Error()})
		return
	}

	s.log.Info("draw accepted",
		"strokes", ack.StrokeCount,
		"estimated_seconds", ack.EstimatedSeconds,
		"space", space)
	writeJSON(w, http.StatusAccepted, drawResponse{
		Status:                   "drawing",
		StrokeCount:              ack.StrokeCount,
		EstimatedDurationSeconds: ack.EstimatedSeconds,
	})
}

// canvasResponse reports the accepted coordinate spaces and the
// viewport expressed in document axis terms, so callers can compute
// placements without duplicating viewport math.
type canvasResponse struct {
	CoordinateSpaces []board.Space `json:"coordinate_spaces"`
	Viewport         viewportInfo  `json:"viewport"`
	Zoom             float64       `json:"zoom"`
}

type viewportInfo struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{"method not allowed"})
		return
	}
	snap := s.board.Snapshot()
	topLeft, _ := board.FromCanvas(
		svgink.Point{X: snap.Viewport.X, Y: snap.Viewport.Y}, board.DocumentAxis, snap)
	writeJSON(w, http.StatusOK, canvasResponse{
		CoordinateSpaces: board.InputSpaces(),
		Viewport: viewportInfo{
			X:      topLeft.X,
			Y:      topLeft.Y,
			Width:  snap.Viewport.W,
			Height: snap.Viewport.H,
		},
		Zoom: snap.Zoom,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
