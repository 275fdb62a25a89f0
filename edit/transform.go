// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package edit

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/creachadair/jedit"
	"github.com/creachadair/jedit/ast"
	"go4.org/mem"
)

var (
	// ErrUnsupportedAction is matched by every *UnsupportedActionError.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrSpanRange is reported when an edit span does not fit its content.
	ErrSpanRange = errors.New("span out of range")

	// ErrRemoveRoot is reported for an attempt to remove the document root.
	ErrRemoveRoot = errors.New("cannot remove the document root")
)

// An Action is the kind of change an edit makes to its destination.
type Action byte

const (
	ActionReplace Action = iota // replace the destination value (the default)
	ActionRemove                // remove the destination and its separator
)

func (a Action) String() string {
	switch a {
	case ActionReplace:
		return "replace"
	case ActionRemove:
		return "remove"
	default:
		return fmt.Sprintf("Action(%d)", byte(a))
	}
}

// ParseAction returns the Action named by s. The empty string denotes the
// default action, ActionReplace.
func ParseAction(s string) (Action, error) {
	switch s {
	case "", "replace":
		return ActionReplace, nil
	case "remove":
		return ActionRemove, nil
	default:
		return 0, &UnsupportedActionError{Action: s}
	}
}

// UnsupportedActionError is reported for an edit whose action is neither
// replace nor remove.
type UnsupportedActionError struct {
	Action string
}

func (u *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported edit action %q", u.Action)
}

func (u *UnsupportedActionError) Unwrap() error { return ErrUnsupportedAction }

// A Request describes a single edit.
type Request struct {
	Action Action
	Value  Value // the replacement; ignored by ActionRemove
}

// Apply applies the edit described by req to content, at the destination m.
// The subject is passed to a computed value, and is normally m.Subject.
//
// For ActionReplace, the value of req is resolved and replaces the value of
// the destination; for a member this keeps the key and replaces its value. For
// ActionRemove, the value of req is not resolved, and the destination is deleted
// (see Remove). Apply does not modify content.
func Apply(content, subject string, m *Match, req Request) (string, error) {
	if m == nil {
		return "", errors.New("no destination for edit")
	}
	switch req.Action {
	case ActionRemove:
		return Remove(content, m)
	case ActionReplace:
		lit, err := ResolveValue(req.Value, subject, m)
		if err != nil {
			return "", err
		}
		return Replace(content, m.Value().Span(), lit)
	default:
		return "", &UnsupportedActionError{Action: req.Action.String()}
	}
}

// Replace returns a copy of content in which the text covered by span is
// replaced by literal, rendered as a quoted JSON string. All the text outside
// span is copied unchanged.
func Replace(content string, span jedit.Span, literal string) (string, error) {
	if !span.IsValid(len(content)) {
		return "", fmt.Errorf("%w: %v in %d bytes", ErrSpanRange, span, len(content))
	}
	var sb strings.Builder
	sb.Grow(len(content) - span.Len() + len(literal) + 2)
	sb.WriteString(content[:span.Pos])
	sb.Write(jedit.AppendQuote(nil, literal))
	sb.WriteString(content[span.End:])
	return sb.String(), nil
}

// Remove returns a copy of content from which the destination of m is
// deleted. For an array element, the element is removed; for an object
// member, both its key and its value are removed.
//
// To keep the result well-formed, the separator adjoining the removed text is
// removed too: if the destination has a following sibling, the comma after it
// and the whitespace following that comma; otherwise, if it has a preceding
// sibling, the comma before it and the whitespace preceding that comma.
//
// In JWCC text, comments between siblings are retained, and a trailing comma
// after the last element is removed along with the element and the whitespace
// before it.
func Remove(content string, m *Match) (string, error) {
	if m == nil || m.Parent == nil {
		return "", ErrRemoveRoot
	}
	cont := m.Container()
	sibs := ast.Children(cont)
	idx := slices.Index(sibs, m.Node)
	if idx < 0 {
		return "", fmt.Errorf("%s: node not found in its %v", m.Subject, cont.Kind())
	}

	sp := m.Node.Span()
	cs := cont.Span()
	if !sp.IsValid(len(content)) || !cs.IsValid(len(content)) || !cs.Contains(sp) {
		return "", fmt.Errorf("%w: %v in %d bytes", ErrSpanRange, sp, len(content))
	}

	// The lower bound for whitespace preceding the destination.
	lo := cs.Pos + 1
	if idx > 0 {
		lo = sibs[idx-1].Span().End
	}

	last := idx+1 == len(sibs)
	trail := -1 // a trailing comma after the last element (JWCC)
	if last {
		trail = separators(content, sp.End, cs.End-1).first()
	}

	cuts := []jedit.Span{sp}
	switch {
	case !last:
		// Not last: consume the following comma and the space after it.
		next := sibs[idx+1].Span()
		gap := separators(content, sp.End, next.Pos)
		if c := gap.first(); c >= 0 {
			end := c + 1
			for end < next.Pos && isSpace(content[end]) {
				end++
			}
			if gap.hasComment(sp.End, c) {
				cuts = append(cuts, jedit.Span{Pos: c, End: end})
			} else {
				cuts[0].End = end
			}
		}

	case trail >= 0:
		// Last, with a trailing comma: consume the comma and the space
		// before the destination.
		pos := skipSpaceBack(content, lo, sp.Pos)
		if separators(content, sp.End, trail).hasComment(sp.End, trail) {
			cuts = []jedit.Span{{Pos: pos, End: sp.End}, {Pos: trail, End: trail + 1}}
		} else {
			cuts[0] = jedit.Span{Pos: pos, End: trail + 1}
		}

	case idx > 0:
		// Last: consume the preceding comma and the space before it.
		gap := separators(content, lo, sp.Pos)
		if c := gap.last(); c >= 0 {
			pos := skipSpaceBack(content, lo, c)
			if e := gap.commentEnd(c); e >= 0 {
				cuts = []jedit.Span{{Pos: pos, End: c + 1}, {Pos: e, End: sp.End}}
			} else {
				cuts[0].Pos = pos
			}
		}
	}
	return splice(content, cuts), nil
}

// splice returns a copy of content without the text covered by cuts, which
// must be ordered and disjoint.
func splice(content string, cuts []jedit.Span) string {
	var sb strings.Builder
	n := len(content)
	for _, c := range cuts {
		n -= c.Len()
	}
	sb.Grow(n)
	pos := 0
	for _, c := range cuts {
		sb.WriteString(content[pos:c.Pos])
		pos = c.End
	}
	sb.WriteString(content[pos:])
	return sb.String()
}

// A sepList records the comma and comment tokens between two values.
type sepList []sepToken

type sepToken struct {
	tok  jedit.Token
	span jedit.Span
}

// separators scans content[lo:hi] for comma and comment tokens. Offsets in
// the result are relative to content.
func separators(content string, lo, hi int) sepList {
	if lo >= hi {
		return nil
	}
	s := jedit.NewScanner(mem.S(content[lo:hi]))
	s.AllowComments(true)
	var out sepList
	for s.Next() == nil {
		sp := s.Span()
		out = append(out, sepToken{
			tok:  s.Token(),
			span: jedit.Span{Pos: lo + sp.Pos, End: lo + sp.End},
		})
	}
	return out
}

// first returns the offset of the first comma in s, or -1.
func (s sepList) first() int {
	for _, t := range s {
		if t.tok == jedit.Comma {
			return t.span.Pos
		}
	}
	return -1
}

// last returns the offset of the last comma in s, or -1.
func (s sepList) last() int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].tok == jedit.Comma {
			return s[i].span.Pos
		}
	}
	return -1
}

// hasComment reports whether s has a comment within [lo, hi).
func (s sepList) hasComment(lo, hi int) bool {
	for _, t := range s {
		if t.tok != jedit.Comma && t.span.Pos >= lo && t.span.End <= hi {
			return true
		}
	}
	return false
}

// commentEnd returns the end offset of the last comment after pos in s, or -1.
func (s sepList) commentEnd(pos int) int {
	end := -1
	for _, t := range s {
		if t.tok != jedit.Comma && t.span.Pos > pos {
			end = t.span.End
		}
	}
	return end
}

// skipSpaceBack returns the offset of the start of the run of whitespace
// ending at pos, not earlier than lo. A line comment owns its newline, so the
// run also stops at the end of any comment in content[lo:pos].
func skipSpaceBack(content string, lo, pos int) int {
	if gap := separators(content, lo, pos); len(gap) != 0 {
		lo = gap[len(gap)-1].span.End
	}
	for pos > lo && isSpace(content[pos-1]) {
		pos--
	}
	return pos
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }
