package svgink

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathDataLines(t *testing.T) {
	cases := []struct {
		data string
		pts  []Point
	}{
		{"M0 0 L10 0", []Point{{0, 0}, {10, 0}}},
		{"M0 0 l10 0 l0 10", []Point{{0, 0}, {10, 0}, {10, 10}}},
		{"M0 0 H10 v5", []Point{{0, 0}, {10, 0}, {10, 5}}},
		{"M5 5 h-5 V0", []Point{{5, 5}, {0, 5}, {0, 0}}},
		// bare numbers after a move repeat the command, demoted to line
		{"M0 0 10 10 20 20", []Point{{0, 0}, {10, 10}, {20, 20}}},
		{"m1 1 2 2", []Point{{1, 1}, {3, 3}}},
	}
	for _, c := range cases {
		subs := parsePathData(c.data)
		require.Len(t, subs, 1, "parsePathData(%q)", c.data)
		assert.Equal(t, c.pts, subs[0].pts, "parsePathData(%q)", c.data)
		assert.False(t, subs[0].closed)
	}
}

func TestParsePathDataClose(t *testing.T) {
	subs := parsePathData("M0 0 L10 0 L10 10 Z")
	require.Len(t, subs, 1)
	sub := subs[0]
	assert.True(t, sub.closed)
	require.Len(t, sub.pts, 4)
	assert.Equal(t, sub.pts[0], sub.pts[3])
}

func TestParsePathDataMultipleSubpaths(t *testing.T) {
	subs := parsePathData("M0 0 L10 0 M20 0 L30 0 L30 10")
	require.Len(t, subs, 2)
	assert.Len(t, subs[0].pts, 2)
	assert.Len(t, subs[1].pts, 3)
}

func TestParsePathDataShortSubpathsDropped(t *testing.T) {
	assert.Empty(t, parsePathData("M5 5"))
	assert.Empty(t, parsePathData("M5 5 M6 6"))
	// the malformed trailing fragment ends the path quietly
	subs := parsePathData("M0 0 L10 0 L10")
	require.Len(t, subs, 1)
	assert.Len(t, subs[0].pts, 2)
}

func TestParsePathDataCubic(t *testing.T) {
	subs := parsePathData("M0 0 C0 10 10 10 10 0")
	require.Len(t, subs, 1)
	pts := subs[0].pts
	require.Len(t, pts, 1+curveSamples)
	assert.Equal(t, Point{0, 0}, pts[0])
	assert.Equal(t, Point{10, 0}, pts[len(pts)-1])
	// a symmetric control polygon peaks midway
	mid := pts[curveSamples/2]
	assert.InDelta(t, 5, mid.X, 1e-9)
	assert.InDelta(t, 7.5, mid.Y, 1e-9)
}

func TestParsePathDataSmoothQuad(t *testing.T) {
	subs := parsePathData("M0 0 Q5 10 10 0 T20 0")
	require.Len(t, subs, 1)
	pts := subs[0].pts
	require.Len(t, pts, 1+2*curveSamples)
	assert.Equal(t, Point{20, 0}, pts[len(pts)-1])
	// the reflected control (15, -10) mirrors the first arch below
	// the axis
	mid := pts[curveSamples+curveSamples/2]
	assert.InDelta(t, 15, mid.X, 1e-9)
	assert.InDelta(t, -5, mid.Y, 1e-9)
}

func TestParsePathDataSmoothCubicWithoutPredecessor(t *testing.T) {
	// with no previous curve the first control collapses onto the
	// current point
	subs := parsePathData("M0 0 S10 10 10 0")
	require.Len(t, subs, 1)
	assert.Equal(t, Point{10, 0}, subs[0].pts[len(subs[0].pts)-1])
}

func TestParsePathDataArcCircle(t *testing.T) {
	// half circle of radius 5 centered on (5, 0)
	subs := parsePathData("M0 0 A5 5 0 0 1 10 0")
	require.Len(t, subs, 1)
	pts := subs[0].pts
	require.GreaterOrEqual(t, len(pts), 1+minArcSamples)
	assert.Equal(t, Point{10, 0}, pts[len(pts)-1])
	for _, p := range pts {
		r := math.Hypot(p.X-5, p.Y)
		assert.InDelta(t, 5, r, 1e-3)
	}
}

func TestParsePathDataArcDegenerate(t *testing.T) {
	// coincident endpoints: the arc is a no-op
	subs := parsePathData("M0 0 A5 5 0 0 1 0 0 L10 0")
	require.Len(t, subs, 1)
	assert.Equal(t, []Point{{0, 0}, {10, 0}}, subs[0].pts)

	// a zero radius degrades to a straight segment
	subs = parsePathData("M0 0 A0 5 0 0 1 10 0")
	require.Len(t, subs, 1)
	assert.Equal(t, []Point{{0, 0}, {10, 0}}, subs[0].pts)
}

func TestParsePathDataArcScalesSmallRadii(t *testing.T) {
	// radius 1 cannot span endpoints 10 apart: scaled up to reach
	subs := parsePathData("M0 0 A1 1 0 0 1 10 0")
	require.Len(t, subs, 1)
	pts := subs[0].pts
	assert.Equal(t, Point{10, 0}, pts[len(pts)-1])
	for _, p := range pts {
		assert.InDelta(t, 5, math.Hypot(p.X-5, p.Y), 1e-3)
	}
}

func TestParsePathDataDrawAfterClose(t *testing.T) {
	// segments after a close start from the subpath origin
	subs := parsePathData("M0 0 L10 0 L10 10 Z L5 5")
	require.Len(t, subs, 2)
	assert.True(t, subs[0].closed)
	assert.Equal(t, []Point{{0, 0}, {5, 5}}, subs[1].pts)
}
