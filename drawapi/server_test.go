package drawapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/inkwell/animator"
	"github.com/benoitkugler/inkwell/board"
	"github.com/benoitkugler/inkwell/svgink"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// instantClock never blocks, so animations settle immediately.
type instantClock struct{}

func (instantClock) Now() time.Time { return time.Time{} }

func (instantClock) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// gateClock stalls the worker until the board closes.
type gateClock struct {
	started chan struct{}
	once    sync.Once
}

func (c *gateClock) Now() time.Time { return time.Time{} }

func (c *gateClock) Sleep(ctx context.Context, d time.Duration) error {
	c.once.Do(func() { close(c.started) })
	<-ctx.Done()
	return ctx.Err()
}

func newTestServer(t *testing.T, clock animator.Clock) (*httptest.Server, *board.Board) {
	t.Helper()
	b := board.New(2000, testLogger())
	t.Cleanup(b.Close)
	a := animator.New(b, clock, testLogger())
	srv := httptest.NewServer(New(b, a, testLogger()).Handler())
	t.Cleanup(srv.Close)
	return srv, b
}

func postDraw(t *testing.T, url string, body map[string]interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url+"/api/draw", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

const testDoc = `<svg viewBox="0 0 100 100">
	<path d="M10 10 L90 10" stroke="black"/>
	<rect x="20" y="20" width="40" height="40" fill="black"/>
</svg>`

func TestDrawAccepted(t *testing.T) {
	srv, b := newTestServer(t, instantClock{})

	resp := postDraw(t, srv.URL, map[string]interface{}{
		"svg": testDoc, "x": 0, "y": 0, "speed": 50,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out struct {
		Status                   string  `json:"status"`
		StrokeCount              int     `json:"stroke_count"`
		EstimatedDurationSeconds float64 `json:"estimated_duration_seconds"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "drawing", out.Status)
	assert.GreaterOrEqual(t, out.StrokeCount, 2)
	assert.Greater(t, out.EstimatedDurationSeconds, 0.0)

	// fire and forget: the commit happens after the response
	require.Eventually(t, func() bool {
		return b.StrokeCount() == out.StrokeCount
	}, 5*time.Second, time.Millisecond)
}

func TestDrawValidation(t *testing.T) {
	srv, _ := newTestServer(t, instantClock{})

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing svg", map[string]interface{}{"x": 1}},
		{"zero strokes", map[string]interface{}{"svg": `<svg viewBox="0 0 10 10"></svg>`}},
		{"invisible only", map[string]interface{}{"svg": `<svg viewBox="0 0 10 10"><path d="M0 0 L5 5" stroke="none"/></svg>`}},
		{"screen space", map[string]interface{}{"svg": testDoc, "coordinate_space": "screen"}},
		{"unknown space", map[string]interface{}{"svg": testDoc, "coordinate_space": "polar"}},
		{"bad color", map[string]interface{}{"svg": testDoc, "color": "#zzz"}},
		{"malformed svg", map[string]interface{}{"svg": "<svg><g>"}},
	}
	for _, c := range cases {
		resp := postDraw(t, srv.URL, c.body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, c.name)
		var out struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out), c.name)
		assert.NotEmpty(t, out.Error, c.name)
		resp.Body.Close()
	}
}

func TestDrawBusy(t *testing.T) {
	clock := &gateClock{started: make(chan struct{})}
	srv, _ := newTestServer(t, clock)

	body := map[string]interface{}{"svg": testDoc}

	resp := postDraw(t, srv.URL, body)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	<-clock.started

	// fill the queue behind the stalled animation
	busy := false
	for i := 0; i < 20; i++ {
		resp := postDraw(t, srv.URL, body)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			busy = true
			break
		}
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
	}
	assert.True(t, busy, "queue never reported busy")
}

func TestDrawMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, instantClock{})
	resp, err := http.Get(srv.URL + "/api/draw")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCanvasInfo(t *testing.T) {
	srv, b := newTestServer(t, instantClock{})
	b.SetViewport(svgink.Rect{X: 900, Y: 950, W: 200, H: 100})

	resp, err := http.Get(srv.URL + "/api/canvas")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		CoordinateSpaces []string `json:"coordinate_spaces"`
		Viewport         struct {
			X, Y, Width, Height float64
		} `json:"viewport"`
		Zoom float64 `json:"zoom"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.CoordinateSpaces, 4)
	assert.NotContains(t, out.CoordinateSpaces, "screen")
	// the viewport is reported in document axis terms: the canvas
	// center (1000, 1000) is the origin
	assert.Equal(t, -100.0, out.Viewport.X)
	assert.Equal(t, -50.0, out.Viewport.Y)
	assert.Equal(t, 200.0, out.Viewport.Width)
	assert.Equal(t, 1.0, out.Zoom)
}
