package svgink

import (
	"encoding/xml"
	"io"
	"strings"
)

// The XML stream is first decoded into a small element tree which the
// parser then walks by recursive descent, threading an immutable
// (style, transform) context down the call chain instead of keeping a
// mutable style stack.

type element struct {
	name     string
	attrs    map[string]string
	children []*element
	text     string
}

// attr returns the raw attribute value, or "" when absent.
func (el *element) attr(name string) string {
	return el.attrs[name]
}

// buildTree consumes the whole decoder stream and returns the root
// element. Comments, directives and processing instructions are skipped.
func buildTree(decoder *xml.Decoder) (*element, error) {
	var root *element
	var stack []*element
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			el := &element{name: se.Name.Local, attrs: make(map[string]string, len(se.Attr))}
			for _, a := range se.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errInvalidXML
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errInvalidXML
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(se)
			}
		}
	}
	if root == nil || len(stack) != 0 {
		return nil, errInvalidXML
	}
	return root, nil
}

// trimmedText returns the element character data without surrounding
// whitespace, used for text elements.
func (el *element) trimmedText() string {
	return strings.TrimSpace(el.text)
}
