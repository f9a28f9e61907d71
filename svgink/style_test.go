package svgink

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.Color
	}{
		{"red", color.NRGBA{0xFF, 0x00, 0x00, 0xFF}},
		{"Maroon", color.NRGBA{0x80, 0x00, 0x00, 0xFF}},
		{"#0f0", color.NRGBA{0x00, 0xFF, 0x00, 0xFF}},
		{"#102030", color.NRGBA{0x10, 0x20, 0x30, 0xFF}},
		{"rgb(1, 2, 3)", color.NRGBA{1, 2, 3, 0xFF}},
		{"rgb(100%, 0%, 50%)", color.NRGBA{0xFF, 0x00, 0x7F, 0xFF}},
		{"none", nil},
		{"transparent", nil},
		{"", nil},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		require.NoError(t, err, "ParseColor(%q)", c.in)
		assert.Equal(t, c.want, got, "ParseColor(%q)", c.in)
	}

	for _, bad := range []string{"bogus", "#12345", "rgb(1,2)"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, "ParseColor(%q)", bad)
	}
}

func TestStyleValuePrecedence(t *testing.T) {
	el := &element{attrs: map[string]string{
		"stroke": "red",
		"style":  "stroke: blue; fill : green ; stroke-width: 2.5",
	}}
	// the explicit attribute beats the inline style property
	assert.Equal(t, "red", styleValue(el, "stroke"))
	assert.Equal(t, "green", styleValue(el, "fill"))
	assert.Equal(t, 2.5, styleFloat(el, "stroke-width"))
	assert.Equal(t, "", styleValue(el, "opacity"))
}

func TestAttrFloat(t *testing.T) {
	el := &element{attrs: map[string]string{
		"width": "12px", "height": " 7.5 ", "x": "oops",
	}}
	assert.Equal(t, 12.0, attrFloat(el, "width"))
	assert.Equal(t, 7.5, attrFloat(el, "height"))
	assert.Equal(t, 0.0, attrFloat(el, "x"))
	assert.Equal(t, 0.0, attrFloat(el, "missing"))
}

func TestResolvePaintInheritance(t *testing.T) {
	inherited := styleAttrs{stroke: "blue", width: 2}

	// the element overrides stroke, inherits the width
	el := &element{attrs: map[string]string{"stroke": "red"}}
	p := resolvePaint(el, inherited)
	assert.Equal(t, color.NRGBA{0xFF, 0x00, 0x00, 0xFF}, p.stroke)
	assert.Nil(t, p.fill)
	assert.Equal(t, 2.0, p.width)

	// "none" hides the inherited stroke
	el = &element{attrs: map[string]string{"stroke": "none", "fill": "lime"}}
	p = resolvePaint(el, inherited)
	assert.Nil(t, p.stroke)
	assert.Equal(t, color.NRGBA{0x00, 0xFF, 0x00, 0xFF}, p.fill)

	// no width anywhere: the default applies
	p = resolvePaint(&element{attrs: map[string]string{"stroke": "black"}}, styleAttrs{})
	assert.Equal(t, defaultStrokeWidth, p.width)
}

func TestVisiblePaint(t *testing.T) {
	assert.False(t, visiblePaint(""))
	assert.False(t, visiblePaint("none"))
	assert.False(t, visiblePaint(" Transparent "))
	assert.False(t, visiblePaint("url(#grad)"))
	assert.True(t, visiblePaint("red"))
	assert.True(t, visiblePaint("#abc"))
}

func TestParseFloats(t *testing.T) {
	assert.Equal(t, []float64{1, 2.5, -3}, parseFloats("1, 2.5 -3"))
	assert.Equal(t, []float64{4, 5}, parseFloats("4 oops 5"))
	assert.Empty(t, parseFloats(""))
}
