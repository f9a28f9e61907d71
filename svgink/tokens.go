package svgink

import (
	"strconv"
	"strings"
)

// Lexing of path-data strings into command and number tokens.
//
// A numeric buffer accumulates until terminated by a command letter, a
// separator, a second sign (unless it follows an exponent marker) or a
// second decimal point, which starts a new number instead of erroring.
// Malformed trailing fragments are dropped, never fatal.

const pathCommands = "MmLlHhVvCcSsQqTtAaZz"

type tokenKind uint8

const (
	tokCommand tokenKind = iota
	tokNumber
)

type token struct {
	kind tokenKind
	cmd  byte
	num  float64
}

func isPathCommand(c byte) bool {
	return strings.IndexByte(pathCommands, c) >= 0
}

func isSeparator(c byte) bool {
	return c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r'
}

func tokenize(data string) []token {
	var toks []token
	var buf []byte
	flush := func() {
		if len(buf) == 0 {
			return
		}
		n, err := strconv.ParseFloat(string(buf), 64)
		buf = buf[:0]
		if err != nil {
			return // malformed fragment: dropped
		}
		toks = append(toks, token{kind: tokNumber, num: n})
	}
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case isPathCommand(c):
			flush()
			toks = append(toks, token{kind: tokCommand, cmd: c})
		case isSeparator(c):
			flush()
		case c == '-' || c == '+':
			// a sign terminates the current number unless it
			// belongs to an exponent
			if len(buf) > 0 {
				last := buf[len(buf)-1]
				if last != 'e' && last != 'E' {
					flush()
				}
			}
			buf = append(buf, c)
		case c == '.':
			// a second decimal point starts a new number
			if strings.IndexByte(string(buf), '.') >= 0 {
				flush()
			}
			buf = append(buf, c)
		case (c >= '0' && c <= '9') || c == 'e' || c == 'E':
			buf = append(buf, c)
		default:
			// unknown byte: drop the accumulated fragment
			buf = buf[:0]
		}
	}
	flush()
	return toks
}
