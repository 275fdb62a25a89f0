// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jedit

import "fmt"

// A Span describes a contiguous span of a source input.
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// Len reports the length of s in bytes.
func (s Span) Len() int { return s.End - s.Pos }

// IsValid reports whether s is a well-formed span within an input of length n.
func (s Span) IsValid(n int) bool { return 0 <= s.Pos && s.Pos <= s.End && s.End <= n }

// Contains reports whether s encloses o.
func (s Span) Contains(o Span) bool { return s.Pos <= o.Pos && o.End <= s.End }

// Text returns the substring of src covered by s.
// It panics if s is not valid for src.
func (s Span) Text(src string) string { return src[s.Pos:s.End] }

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Pos, s.End) }

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of source text,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

func (l Location) String() string {
	if l.First.Line == l.Last.Line {
		return fmt.Sprintf("%d:%d-%d", l.First.Line, l.First.Column, l.Last.Column)
	}
	return l.First.String() + "-" + l.Last.String()
}
