package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/inkwell/svgink"
)

func testSnapshot() Snapshot {
	return Snapshot{
		DocumentAxisOrigin: svgink.Point{X: 8192, Y: 8192},
		Viewport:           svgink.Rect{X: 8000, Y: 8100, W: 1280, H: 800},
		Zoom:               1.5,
	}
}

func TestSpaceRoundTrip(t *testing.T) {
	snap := testSnapshot()
	spaces := append(InputSpaces(), Screen)
	points := []svgink.Point{
		{X: 0, Y: 0},
		{X: 12.5, Y: -77},
		{X: 8192, Y: 8192},
		{X: -3.25, Y: 4.75},
	}
	for _, space := range spaces {
		for _, p := range points {
			c, err := ToCanvas(p, space, snap)
			require.NoError(t, err)
			back, err := FromCanvas(c, space, snap)
			require.NoError(t, err)
			assert.InDelta(t, p.X, back.X, 1e-9, "space %s", space)
			assert.InDelta(t, p.Y, back.Y, 1e-9, "space %s", space)
		}
	}
}

func TestSpaceConversions(t *testing.T) {
	snap := testSnapshot()

	c, err := ToCanvas(svgink.Point{X: 0, Y: 0}, ViewportCenterOffset, snap)
	require.NoError(t, err)
	assert.Equal(t, svgink.Point{X: 8640, Y: 8500}, c)

	c, err = ToCanvas(svgink.Point{X: 10, Y: 20}, DocumentAxis, snap)
	require.NoError(t, err)
	assert.Equal(t, svgink.Point{X: 8202, Y: 8212}, c)

	c, err = ToCanvas(svgink.Point{X: 5, Y: 5}, ViewportLocal, snap)
	require.NoError(t, err)
	assert.Equal(t, svgink.Point{X: 8005, Y: 8105}, c)

	// screen pixels shrink by the zoom factor on the way in
	c, err = ToCanvas(svgink.Point{X: 150, Y: 0}, Screen, snap)
	require.NoError(t, err)
	assert.Equal(t, svgink.Point{X: 8100, Y: 8100}, c)
}

func TestSpaceUnknown(t *testing.T) {
	_, err := ToCanvas(svgink.Point{}, "bogus", testSnapshot())
	assert.Error(t, err)
	_, err = FromCanvas(svgink.Point{}, "bogus", testSnapshot())
	assert.Error(t, err)
}

func TestValidInput(t *testing.T) {
	for _, s := range InputSpaces() {
		assert.True(t, ValidInput(s))
	}
	assert.False(t, ValidInput(Screen))
	assert.False(t, ValidInput("bogus"))
}
