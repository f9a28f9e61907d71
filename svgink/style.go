package svgink

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Resolution of the effective stroke color and width per element:
// explicit attribute, then inline style property, then nearest
// enclosing group, innermost first.

// defaultStrokeWidth applies when neither the element nor any
// enclosing group sets one.
const defaultStrokeWidth = 1.0

// styleAttrs carries the raw inheritable paint values of the
// enclosing groups. Empty string and zero width mean "unset".
type styleAttrs struct {
	stroke string
	fill   string
	width  float64
}

// merged returns a copy of s overridden by the element's own
// stroke/fill/width, read with the attribute-then-style precedence.
func (s styleAttrs) merged(el *element) styleAttrs {
	if v := styleValue(el, "stroke"); v != "" {
		s.stroke = v
	}
	if v := styleValue(el, "fill"); v != "" {
		s.fill = v
	}
	if w := styleFloat(el, "stroke-width"); w > 0 {
		s.width = w
	}
	return s
}

// paint is the resolved per-element paint: nil colors mean the
// corresponding operation is off.
type paint struct {
	stroke color.Color
	fill   color.Color
	width  float64
}

func resolvePaint(el *element, inherited styleAttrs) paint {
	eff := inherited.merged(el)
	var p paint
	if visiblePaint(eff.stroke) {
		p.stroke, _ = ParseColor(eff.stroke)
	}
	if visiblePaint(eff.fill) {
		p.fill, _ = ParseColor(eff.fill)
	}
	p.width = eff.width
	if p.width <= 0 {
		p.width = defaultStrokeWidth
	}
	return p
}

// visiblePaint reports whether a raw paint value draws anything.
// Gradient and pattern references are not supported and count as
// invisible.
func visiblePaint(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "", "none", "transparent":
		return false
	}
	return !strings.HasPrefix(v, "url(")
}

// styleValue reads a presentation value for the element: the explicit
// attribute wins over the inline style property.
func styleValue(el *element, key string) string {
	if v := el.attr(key); v != "" {
		return strings.TrimSpace(v)
	}
	for _, pair := range strings.Split(el.attr("style"), ";") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 && strings.TrimSpace(strings.ToLower(kv[0])) == key {
			return strings.TrimSpace(kv[1])
		}
	}
	return ""
}

func styleFloat(el *element, key string) float64 {
	v := styleValue(el, key)
	if v == "" {
		return 0
	}
	f, err := parseUnitFloat(v)
	if err != nil {
		return 0
	}
	return f
}

// attrFloat parses a numeric attribute, tolerating a px suffix.
// Malformed values read as zero rather than failing the element.
func attrFloat(el *element, name string) float64 {
	v := el.attr(name)
	if v == "" {
		return 0
	}
	f, err := parseUnitFloat(v)
	if err != nil {
		return 0
	}
	return f
}

func parseUnitFloat(v string) (float64, error) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	return strconv.ParseFloat(v, 64)
}

// parseFloats reads a list of comma or space separated numbers,
// dropping malformed entries.
func parseFloats(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// ParseColor parses an SVG color value: #rgb and #rrggbb hex forms,
// rgb(...) with numeric or percent components, and the SVG 1.1 color
// names from the colornames package. The nil color with a nil error
// means "no paint".
func ParseColor(colorStr string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(colorStr))
	switch v {
	case "", "none", "transparent":
		// not the same as black: the paint is off
		return nil, nil
	}
	if cn, ok := colornames.Map[v]; ok {
		return color.NRGBA{R: cn.R, G: cn.G, B: cn.B, A: cn.A}, nil
	}
	if strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")") {
		vals := strings.Split(v[4:len(v)-1], ",")
		if len(vals) != 3 {
			return nil, errParamMismatch
		}
		var cvals [3]uint8
		for i := range cvals {
			c, err := parseColorValue(vals[i])
			if err != nil {
				return nil, err
			}
			cvals[i] = c
		}
		return color.NRGBA{R: cvals[0], G: cvals[1], B: cvals[2], A: 0xFF}, nil
	}
	if strings.HasPrefix(v, "#") {
		r, g, b, err := parseColorNum(v)
		if err != nil {
			return nil, err
		}
		return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, nil
	}
	return nil, errParamMismatch
}

// parseColorNum reads the hex color form, e.g. #FBD9BD, duplicating
// characters for the 3 digit form per the SVG specs.
func parseColorNum(colorStr string) (r, g, b uint8, err error) {
	colorStr = strings.TrimPrefix(colorStr, "#")
	if len(colorStr) == 3 {
		colorStr = string([]byte{
			colorStr[0], colorStr[0],
			colorStr[1], colorStr[1],
			colorStr[2], colorStr[2],
		})
	}
	if len(colorStr) != 6 {
		return 0, 0, 0, errParamMismatch
	}
	var t uint64
	for _, v := range []struct {
		c *uint8
		s string
	}{
		{&r, colorStr[0:2]},
		{&g, colorStr[2:4]},
		{&b, colorStr[4:6]},
	} {
		t, err = strconv.ParseUint(v.s, 16, 8)
		if err != nil {
			return
		}
		*v.c = uint8(t)
	}
	return
}

func parseColorValue(v string) (uint8, error) {
	v = strings.TrimSpace(v)
	if strings.HasSuffix(v, "%") {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(v, "%")))
		if err != nil {
			return 0, err
		}
		return uint8(n * 0xFF / 100), nil
	}
	n, err := strconv.Atoi(v)
	if n > 255 {
		n = 255
	}
	return uint8(n), err
}
