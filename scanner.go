// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jedit

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... <LF>
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",

	BlockComment: "block comment",
	LineComment:  "line comment",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from an in-memory input.  Each call to Next
// advances the scanner to the next token, or reports an error.
//
// Unlike a stream reader, the scanner never copies its input: the text of
// each token is a view of the source, and token offsets index the source
// directly.
type Scanner struct {
	src      mem.RO
	comments bool // allow comments
	tok      Token
	err      error

	pos, end int // start and end offsets of current token

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from src.
func NewScanner(src mem.RO) *Scanner { return &Scanner{src: src} }

// AllowComments configures the scanner to report (true) or reject (false)
// comment tokens. Comments are a non-standard exension of the JSON spec.  If
// enabled, C++ style block comments (/* ... */) and line comments (// ...)
// are recognized and emitted as tokens.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.err = nil
	s.tok = Invalid

	// Discard whitespace.
	for s.end < s.src.Len() && isSpace(s.src.At(s.end)) {
		s.step(1)
	}
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
	if s.end >= s.src.Len() {
		return s.setErr(io.EOF)
	}

	ch := s.src.At(s.end)

	// Handle punctuation.
	if t, ok := selfDelim(ch); ok {
		s.step(1)
		s.tok = t
		return nil
	}

	switch {
	case isNumStart(ch):
		return s.scanNumber()
	case ch == '"':
		return s.scanString()
	case ch == '/' && s.comments:
		return s.scanComment()
	}

	// Handle constants: true, false, null
	var want string
	switch ch {
	case 't':
		s.tok, want = True, "true"
	case 'f':
		s.tok, want = False, "false"
	case 'n':
		s.tok, want = Null, "null"
	default:
		s.tok = Invalid
		return s.failf("unexpected %q", ch)
	}
	n := s.span(s.end, isNameByte)
	if got := s.src.Slice(s.end, s.end+n); !got.EqualString(want) {
		s.tok = Invalid
		return s.failf("unknown constant %q", got.StringCopy())
	}
	s.step(n)
	return nil
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns a view of the undecoded text of the current token.
func (s *Scanner) Text() mem.RO { return s.src.Slice(s.pos, s.end) }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// step advances the end of the current token by n bytes, updating the line
// and column counters for any newlines consumed.
func (s *Scanner) step(n int) {
	for i := 0; i < n; i++ {
		if s.src.At(s.end) == '\n' {
			s.eline++
			s.ecol = 0
		} else {
			s.ecol++
		}
		s.end++
	}
}

// span reports the number of consecutive bytes starting at offset i that
// satisfy f.
func (s *Scanner) span(i int, f func(byte) bool) int {
	j := i
	for j < s.src.Len() && f(s.src.At(j)) {
		j++
	}
	return j - i
}

func (s *Scanner) scanString() error {
	i := s.end + 1 // skip the open quote
	for i < s.src.Len() {
		ch := s.src.At(i)
		switch {
		case ch == '"':
			s.step(i + 1 - s.end)
			s.tok = String
			return nil

		case ch == '\\':
			if i+1 >= s.src.Len() {
				return s.failAt(i, "incomplete escape sequence")
			}
			switch esc := s.src.At(i + 1); esc {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i += 2
			case 'u':
				if s.span(i+2, isHexDigit) < 4 {
					return s.failAt(i, "invalid Unicode escape")
				}
				i += 6
			default:
				return s.failAt(i, "invalid %q after escape", esc)
			}

		case ch < ' ':
			return s.failAt(i, "unescaped control %q", ch)

		case ch < utf8.RuneSelf:
			i++

		default:
			r, n := mem.DecodeRune(s.src.SliceFrom(i))
			if r == utf8.RuneError && n <= 1 {
				return s.failAt(i, "invalid UTF-8 encoding")
			}
			i += n
		}
	}
	return s.failAt(i, "unterminated string")
}

// scanNumber consumes a number matching the JSON grammar
//
//	-? (0 | [1-9][0-9]*) (. [0-9]+)? ([eE] [+-]? [0-9]+)?
//
// and sets the token to Integer or Number accordingly.
func (s *Scanner) scanNumber() error {
	i := s.end
	if s.src.At(i) == '-' {
		i++
	}

	// Integer part. A leading zero is OK only if it is the only digit.
	nd := s.span(i, isDigit)
	if nd == 0 {
		return s.failAt(i, "want digit")
	} else if nd > 1 && s.src.At(i) == '0' {
		return s.failAt(i, "extra leading zeroes")
	}
	i += nd
	tok := Integer

	// Fractional part.
	if i < s.src.Len() && s.src.At(i) == '.' {
		nf := s.span(i+1, isDigit)
		if nf == 0 {
			return s.failAt(i+1, "no digits after decimal point")
		}
		i += 1 + nf
		tok = Number
	}

	// Exponent.
	if i < s.src.Len() && (s.src.At(i) == 'e' || s.src.At(i) == 'E') {
		i++
		if i < s.src.Len() && (s.src.At(i) == '+' || s.src.At(i) == '-') {
			i++
		}
		ne := s.span(i, isDigit)
		if ne == 0 {
			return s.failAt(i, "missing exponent digits")
		}
		i += ne
		tok = Number
	}

	s.step(i - s.end)
	s.tok = tok
	return nil
}

func (s *Scanner) scanComment() error {
	if s.end+1 >= s.src.Len() {
		return s.failAt(s.end+1, "incomplete comment")
	}
	switch ch := s.src.At(s.end + 1); ch {
	case '/': // line comment to LF, inclusive
		rest := s.src.SliceFrom(s.end)
		n := mem.IndexByte(rest, '\n')
		if n < 0 {
			n = rest.Len()
		} else {
			n++
		}
		s.step(n)
		s.tok = LineComment
		return nil

	case '*': // block comment
		rest := s.src.SliceFrom(s.end + 2)
		n := mem.Index(rest, mem.S("*/"))
		if n < 0 {
			return s.failAt(s.src.Len(), "unterminated block comment")
		}
		s.step(n + 4)
		s.tok = BlockComment
		return nil

	default:
		return s.failAt(s.end+1, "invalid %q in comment", ch)
	}
}

type posError struct {
	pos int
	err error
}

func (p posError) Error() string {
	return fmt.Sprintf("%s (offset %d)", p.err.Error(), p.pos)
}

func (p posError) Unwrap() error { return p.err }

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

func (s *Scanner) failf(msg string, args ...any) error { return s.failAt(s.end, msg, args...) }

func (s *Scanner) failAt(pos int, msg string, args ...any) error {
	s.tok = Invalid
	return s.setErr(posError{pos, fmt.Errorf(msg, args...)})
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Token, bool) {
	i := strings.IndexByte("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
