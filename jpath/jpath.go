// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package jpath implements a parser for singular JSONPath selectors.
//
// A selector addresses exactly one node of a JSON document by a sequence of
// object member names and array indices:
//
//	$                  the root
//	$.name             member "name" of the root object
//	$["name"]          the same, in bracket notation ('name' also works)
//	$.list[2]          element 2 (0-based) of the array in member "list"
//
// Selectors are parsed according to RFC 9535, so the usual quoting and
// escaping rules apply to bracketed names. Constructs that may select more
// than one node (wildcards, slices, filters, descendant segments, unions) and
// negative indices are rejected with ErrUnsupported.
package jpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jedit"
	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/spec"
)

var (
	// ErrSyntax is reported for a selector that is not valid JSONPath.
	ErrSyntax = errors.New("invalid selector")

	// ErrUnsupported is reported for a valid JSONPath expression that does not
	// designate a single node by names and indices.
	ErrUnsupported = errors.New("unsupported selector")
)

// An Expr is a parsed selector: the sequence of steps leading from the root
// of a document to the selected node. An empty Expr selects the root.
type Expr []Step

// Parse parses s as a singular JSONPath selector.
func Parse(s string) (Expr, error) {
	p, err := jsonpath.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	var out Expr
	for i, seg := range p.Query().Segments() {
		if seg.IsDescendant() {
			return nil, fmt.Errorf("%w: descendant segment at step %d", ErrUnsupported, i+1)
		}
		sels := seg.Selectors()
		if len(sels) != 1 {
			return nil, fmt.Errorf("%w: %d selectors at step %d", ErrUnsupported, len(sels), i+1)
		}
		switch t := sels[0].(type) {
		case spec.Name:
			out = append(out, MemberStep(string(t)))
		case spec.Index:
			if t < 0 {
				return nil, fmt.Errorf("%w: negative index %d at step %d", ErrUnsupported, t, i+1)
			}
			out = append(out, IndexStep(int(t)))
		default:
			return nil, fmt.Errorf("%w: selector %v at step %d", ErrUnsupported, t, i+1)
		}
	}
	return out, nil
}

// MustParse is as Parse, but panics if s is not a valid selector.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("jpath.MustParse %q: %v", s, err))
	}
	return e
}

// String renders e in canonical form: "$" followed by each step in
// normalized bracket notation, e.g., $["list"][2].
func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// An Op is a path operator.
type Op byte

const (
	Invalid Op = iota // invalid operator
	Member            // object member lookup by name
	Index             // array element lookup by offset
)

var opText = [...]string{
	Invalid: "invalid",
	Member:  "member",
	Index:   "index",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a selector.
type Step struct {
	Op    Op
	Name  string // for Member, the decoded member name
	Index int    // for Index, the array offset (>= 0)
}

// MemberStep returns a Step that selects the object member named key.
func MemberStep(key string) Step { return Step{Op: Member, Name: key} }

// IndexStep returns a Step that selects the array element at offset i.
func IndexStep(i int) Step { return Step{Op: Index, Index: i} }

// String renders s in normalized bracket notation: ["name"] for members and
// [n] for indices.
func (s Step) String() string {
	switch s.Op {
	case Member:
		return "[" + jedit.Quote(s.Name) + "]"
	case Index:
		return "[" + strconv.Itoa(s.Index) + "]"
	default:
		return "[?]"
	}
}
