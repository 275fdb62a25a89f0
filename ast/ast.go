// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a position-annotated syntax tree for JSON text, and a
// parser that constructs syntax trees from JSON source.
//
// Every node of the tree records the span of source text it was parsed from,
// so that the text of any node can be recovered (or replaced) by slicing the
// original input. Scalar nodes also keep their raw source spelling alongside
// the decoded value.
//
// The set of node types is closed: a Node is one of *Document, *Object,
// *Member, *Array, *String, *Number, *Bool, or *Null.
package ast

import (
	"fmt"

	"github.com/creachadair/jedit"
	"go4.org/mem"
)

// A Kind identifies the syntactic category of a Node.
type Kind byte

// Constants defining the valid Kind values.
const (
	KindInvalid Kind = iota
	KindDocument
	KindObject
	KindArray
	KindMember
	KindString
	KindNumber
	KindBool
	KindNull
)

var kindStr = [...]string{
	KindInvalid:  "invalid",
	KindDocument: "document",
	KindObject:   "object",
	KindArray:    "array",
	KindMember:   "member",
	KindString:   "string",
	KindNumber:   "number",
	KindBool:     "boolean",
	KindNull:     "null",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[KindInvalid]
	}
	return kindStr[k]
}

// A Node is a node of a JSON syntax tree.
type Node interface {
	// Span reports the span of source text covered by the node.
	Span() jedit.Span

	// Kind reports the syntactic category of the node.
	Kind() Kind

	isNode()
}

type base struct{ span jedit.Span }

// Span satisfies part of the Node interface.
func (b base) Span() jedit.Span { return b.span }

func (base) isNode() {}

func newBase(pos, end int) base { return base{span: jedit.Span{Pos: pos, End: end}} }

// A Document is the complete value parsed from an input. Its span is the span
// of its value, excluding any surrounding whitespace and comments.
type Document struct {
	base
	Value Node
}

func (*Document) Kind() Kind { return KindDocument }

func (d *Document) String() string { return fmt.Sprintf("Document(%v)", d.Value.Kind()) }

// An Object is a collection of key-value members, in source order.
type Object struct {
	base
	Members []*Member
}

func (*Object) Kind() Kind { return KindObject }

func (o *Object) String() string { return fmt.Sprintf("Object(len=%d)", len(o.Members)) }

// Len reports the number of members in o.
func (o *Object) Len() int { return len(o.Members) }

// Find returns the first member of o with the given key, or nil.
func (o *Object) Find(key string) *Member {
	if i := o.IndexKey(key); i >= 0 {
		return o.Members[i]
	}
	return nil
}

// IndexKey returns the index of the first member of o with the given key, or
// -1 if there is no such member.
func (o *Object) IndexKey(key string) int {
	for i, m := range o.Members {
		if m.Key == key {
			return i
		}
	}
	return -1
}

// A Member is a single key-value pair belonging to an Object. Its span covers
// the quoted key, the colon, and the value.
type Member struct {
	base

	Key    string // the decoded key
	RawKey string // the key as written in the source, including quotes
	Value  Node
}

func (*Member) Kind() Kind { return KindMember }

func (m *Member) String() string { return fmt.Sprintf("Member(key=%q)", m.Key) }

// An Array is a sequence of values, in source order.
type Array struct {
	base
	Values []Node
}

func (*Array) Kind() Kind { return KindArray }

func (a *Array) String() string { return fmt.Sprintf("Array(len=%d)", len(a.Values)) }

// Len reports the number of elements in a.
func (a *Array) Len() int { return len(a.Values) }

// A String is a string value.
type String struct {
	base
	Raw     string // source text, including quotes and escapes
	Decoded string
}

func (*String) Kind() Kind { return KindString }

func (s *String) String() string { return s.Raw }

// A Number is a numeric value.
type Number struct {
	base
	Raw     string // source text, e.g. "3.141" or "1e6"
	Decoded float64
}

func (*Number) Kind() Kind { return KindNumber }

func (n *Number) String() string { return n.Raw }

// IsInteger reports whether n is written without a fraction or exponent.
func (n *Number) IsInteger() bool {
	raw := mem.S(n.Raw)
	return mem.IndexByte(raw, '.') < 0 && mem.IndexByte(raw, 'e') < 0 && mem.IndexByte(raw, 'E') < 0
}

// Int64 decodes n as a 64-bit signed integer.
func (n *Number) Int64() (int64, error) { return mem.ParseInt(mem.S(n.Raw), 10, 64) }

// A Bool is a Boolean constant, true or false.
type Bool struct {
	base
	Raw     string
	Decoded bool
}

func (*Bool) Kind() Kind { return KindBool }

func (b *Bool) String() string { return b.Raw }

// Null represents the null constant.
type Null struct {
	base
	Raw string
}

func (*Null) Kind() Kind { return KindNull }

func (*Null) String() string { return "null" }

// Children returns the ordered children of n: the members of an object or the
// elements of an array. It returns nil for any other node.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *Object:
		out := make([]Node, len(t.Members))
		for i, m := range t.Members {
			out[i] = m
		}
		return out
	case *Array:
		return t.Values
	}
	return nil
}

// Deref returns the value designated by n. For a document or an object member
// this is the value it contains; any other node is returned unchanged.
func Deref(n Node) Node {
	for {
		switch t := n.(type) {
		case *Document:
			n = t.Value
		case *Member:
			n = t.Value
		default:
			return n
		}
	}
}

// Text returns the source text of n, given the source it was parsed from.
func Text(src string, n Node) string { return n.Span().Text(src) }
