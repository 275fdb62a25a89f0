// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/jedit"
	"github.com/creachadair/mds/mapset"
	"go4.org/mem"
)

var (
	// ErrExtraInput is reported when the input contains data after the first
	// complete value.
	ErrExtraInput = errors.New("extra data after value")

	// ErrNoInput is reported when the input contains no value.
	ErrNoInput = errors.New("no value in input")
)

// DuplicateKeyError is reported by a parse that rejects duplicate keys, when
// an object contains more than one member with the same key.
type DuplicateKeyError struct {
	Key  string     // the decoded key
	Span jedit.Span // the span of the repeated key
}

func (d *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q at offset %d", d.Key, d.Span.Pos)
}

// ParseOptions control the behavior of the parser.
// The zero value parses standard JSON and keeps duplicate keys.
type ParseOptions struct {
	// Accept JSON With Commas and Comments: line and block comments, and
	// trailing commas in objects and arrays.
	AllowComments bool

	// Report an error for objects with duplicate keys. By default duplicate
	// members are retained in source order, and lookups find the first.
	RejectDuplicateKeys bool
}

// Parse reads all of r and parses it as a single JSON value.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseOptions{}.Parse(string(data))
}

// ParseString parses src as a single JSON value with default options.
func ParseString(src string) (*Document, error) { return ParseOptions{}.Parse(src) }

// Parse parses src as a single JSON value. Spans in the resulting tree are
// byte offsets into src. If src contains anything other than whitespace (or
// comments, if enabled) after the value, Parse reports ErrExtraInput.
func (o ParseOptions) Parse(src string) (*Document, error) {
	st := jedit.NewStream(mem.S(src))
	st.AllowComments(o.AllowComments)
	st.AllowTrailingCommas(o.AllowComments)

	h := &parseHandler{src: src, dups: o.RejectDuplicateKeys}
	if err := st.ParseOne(h); err == io.EOF {
		return nil, ErrNoInput
	} else if err != nil {
		return nil, err
	} else if h.root == nil || len(h.stk) != 0 {
		return nil, errors.New("incomplete value")
	}
	if err := st.ParseOne(nopHandler{}); err != io.EOF {
		if err == nil {
			return nil, ErrExtraInput
		}
		return nil, errors.Join(ErrExtraInput, err)
	}
	return &Document{base: base{span: h.root.Span()}, Value: h.root}, nil
}

// A parseHandler implements the jedit.Handler interface to construct syntax
// trees for JSON values.
type parseHandler struct {
	src  string
	stk  []Node // incomplete objects, arrays, and members
	root Node   // the completed top-level value

	dups bool                 // reject duplicate keys
	keys []mapset.Set[string] // keys seen in each open object
}

func (h *parseHandler) top() Node { return h.stk[len(h.stk)-1] }

func (h *parseHandler) pop() Node {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(v Node) { h.stk = append(h.stk, v) }

// reduce attaches a completed value v to the incomplete node atop the stack,
// or records it as the root if the stack is empty.
func (h *parseHandler) reduce(v Node) error {
	if len(h.stk) == 0 {
		h.root = v
		return nil
	}
	switch t := h.top().(type) {
	case *Member:
		t.Value = v
	case *Array:
		t.Values = append(t.Values, v)
	default:
		return fmt.Errorf("unexpected %v value in %v", v.Kind(), t.Kind())
	}
	return nil
}

func (h *parseHandler) BeginObject(loc jedit.Anchor) error {
	h.push(&Object{base: newBase(loc.Span().Pos, -1)})
	if h.dups {
		h.keys = append(h.keys, mapset.New[string]())
	}
	return nil
}

func (h *parseHandler) EndObject(loc jedit.Anchor) error {
	obj, ok := h.pop().(*Object)
	if !ok {
		return errors.New("unbalanced end of object")
	}
	obj.span.End = loc.Span().End
	if h.dups {
		h.keys = h.keys[:len(h.keys)-1]
	}
	return h.reduce(obj)
}

func (h *parseHandler) BeginArray(loc jedit.Anchor) error {
	h.push(&Array{base: newBase(loc.Span().Pos, -1)})
	return nil
}

func (h *parseHandler) EndArray(loc jedit.Anchor) error {
	arr, ok := h.pop().(*Array)
	if !ok {
		return errors.New("unbalanced end of array")
	}
	arr.span.End = loc.Span().End
	return h.reduce(arr)
}

func (h *parseHandler) BeginMember(loc jedit.Anchor) error {
	key, err := jedit.Unquote(loc.Text())
	if err != nil {
		return fmt.Errorf("invalid key at offset %d: %w", loc.Span().Pos, err)
	}
	sp := loc.Span()
	if h.dups {
		seen := h.keys[len(h.keys)-1]
		if seen.Has(key) {
			return &DuplicateKeyError{Key: key, Span: sp}
		}
		seen.Add(key)
	}

	// Add the member to its object eagerly, so that when the value is
	// complete only the member needs to be reduced.
	m := &Member{base: newBase(sp.Pos, -1), Key: key, RawKey: sp.Text(h.src)}
	obj := h.top().(*Object)
	obj.Members = append(obj.Members, m)
	h.push(m)
	return nil
}

func (h *parseHandler) EndMember(loc jedit.Anchor) error {
	m, ok := h.pop().(*Member)
	if !ok || m.Value == nil {
		return errors.New("incomplete object member")
	}
	m.span.End = m.Value.Span().End
	return nil
}

func (h *parseHandler) Value(loc jedit.Anchor) error {
	sp := loc.Span()
	b := base{span: sp}
	raw := sp.Text(h.src)

	switch loc.Token() {
	case jedit.String:
		dec, err := jedit.Unquote(loc.Text())
		if err != nil {
			return fmt.Errorf("invalid string at offset %d: %w", sp.Pos, err)
		}
		return h.reduce(&String{base: b, Raw: raw, Decoded: dec})

	case jedit.Integer, jedit.Number:
		f, err := mem.ParseFloat(loc.Text(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return fmt.Errorf("invalid number at offset %d: %w", sp.Pos, err)
		}
		return h.reduce(&Number{base: b, Raw: raw, Decoded: f})

	case jedit.True, jedit.False:
		return h.reduce(&Bool{base: b, Raw: raw, Decoded: loc.Token() == jedit.True})

	case jedit.Null:
		return h.reduce(&Null{base: b, Raw: raw})

	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
}

func (h *parseHandler) EndOfInput(loc jedit.Anchor) {}

// nopHandler discards all parse events. It is used to probe for trailing
// input after a complete value.
type nopHandler struct{}

func (nopHandler) BeginObject(jedit.Anchor) error { return nil }
func (nopHandler) EndObject(jedit.Anchor) error   { return nil }
func (nopHandler) BeginArray(jedit.Anchor) error  { return nil }
func (nopHandler) EndArray(jedit.Anchor) error    { return nil }
func (nopHandler) BeginMember(jedit.Anchor) error { return nil }
func (nopHandler) EndMember(jedit.Anchor) error   { return nil }
func (nopHandler) Value(jedit.Anchor) error       { return nil }
func (nopHandler) EndOfInput(jedit.Anchor)        {}
