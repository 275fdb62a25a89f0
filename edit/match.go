// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package edit

import (
	"errors"
	"fmt"

	"github.com/creachadair/jedit/ast"
	"github.com/creachadair/jedit/jpath"
)

var (
	// ErrPathResolution is the common root of all selector resolution
	// failures. Every *PathError matches it with errors.Is.
	ErrPathResolution = errors.New("path resolution failed")

	// ErrNoSuchMember indicates a member step applied to an object without a
	// member of that name, or to a value that is not an object.
	ErrNoSuchMember = errors.New("no such member")

	// ErrIndexRange indicates an index step outside the bounds of an array.
	ErrIndexRange = errors.New("index out of range")

	// ErrNotIndexable indicates an index step applied to a value that is not
	// an array.
	ErrNotIndexable = errors.New("not indexable")
)

// A Match is one link of the chain produced by resolving a selector. The
// match for the destination of the selector is at the head of the chain, and
// each Parent link leads one step toward the root of the document.
//
// Matches are immutable once constructed, and share their ancestors: two
// chains resolved from the same prefix of steps are independent values.
type Match struct {
	// Node is the syntax node reached at this step. For a member step this is
	// the *ast.Member, so that the key as well as the value is available; the
	// following step (if any) applies to the member's value.
	Node ast.Node

	// Subject is the canonical selector for Node, in normalized bracket form
	// regardless of how the original selector was spelled, e.g. $["a"][1].
	Subject string

	// Step is the selector step that produced this match.
	// It is the zero Step for the root.
	Step jpath.Step

	// Parent is the match one step closer to the root, or nil at the root.
	Parent *Match
}

// Root returns the root match of the chain containing m.
func (m *Match) Root() *Match {
	for m.Parent != nil {
		m = m.Parent
	}
	return m
}

// Depth reports the number of steps from the root to m. The root has depth 0.
func (m *Match) Depth() int {
	var n int
	for p := m.Parent; p != nil; p = p.Parent {
		n++
	}
	return n
}

// Chain returns the matches from m to the root, in that order.
func (m *Match) Chain() []*Match {
	out := make([]*Match, 0, m.Depth()+1)
	for p := m; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// Value returns the value designated by m: the value of a member or
// document, otherwise the node itself.
func (m *Match) Value() ast.Node { return ast.Deref(m.Node) }

// Container returns the object or array containing m's node, or nil if m is
// the root.
func (m *Match) Container() ast.Node {
	if m.Parent == nil {
		return nil
	}
	return m.Parent.Value()
}

func (m *Match) String() string {
	return fmt.Sprintf("Match(%s: %v %v)", m.Subject, m.Node.Kind(), m.Node.Span())
}

// Resolve parses selector and resolves it against the document rooted at
// root. The root is usually an *ast.Document, but any node may serve.
//
// On success, Resolve returns the match for the destination of the selector.
// If any step of the selector cannot be satisfied, Resolve reports a
// *PathError describing the first failing step.
func Resolve(root ast.Node, selector string) (*Match, error) {
	e, err := jpath.Parse(selector)
	if err != nil {
		return nil, &PathError{Subject: "$", Selector: selector, Err: err}
	}
	return ResolveExpr(root, e)
}

// ResolveExpr resolves a parsed selector against the document rooted at root.
// See Resolve.
func ResolveExpr(root ast.Node, e jpath.Expr) (*Match, error) {
	m := &Match{Node: root, Subject: "$"}
	for _, step := range e {
		next, err := m.next(step)
		if err != nil {
			return nil, err
		}
		m = next
	}
	return m, nil
}

// next applies a single step to the value of m.
func (m *Match) next(s jpath.Step) (*Match, error) {
	cur := m.Value()
	switch s.Op {
	case jpath.Member:
		obj, ok := cur.(*ast.Object)
		if !ok {
			return nil, m.fail(s, cur, ErrNoSuchMember)
		}
		mem := obj.Find(s.Name)
		if mem == nil {
			return nil, m.fail(s, cur, ErrNoSuchMember)
		}
		return m.extend(s, mem), nil

	case jpath.Index:
		arr, ok := cur.(*ast.Array)
		if !ok {
			return nil, m.fail(s, cur, ErrNotIndexable)
		} else if s.Index < 0 || s.Index >= len(arr.Values) {
			return nil, m.fail(s, cur, ErrIndexRange)
		}
		return m.extend(s, arr.Values[s.Index]), nil

	default:
		return nil, m.fail(s, cur, fmt.Errorf("invalid step operator %v", s.Op))
	}
}

func (m *Match) extend(s jpath.Step, n ast.Node) *Match {
	return &Match{Node: n, Subject: m.Subject + s.String(), Step: s, Parent: m}
}

func (m *Match) fail(s jpath.Step, cur ast.Node, err error) *PathError {
	return &PathError{Subject: m.Subject, Step: s, Found: cur.Kind(), Err: err}
}

// PathError is the concrete type of errors reported when a selector cannot
// be resolved.
type PathError struct {
	Subject  string     // the subject resolved before the failure
	Selector string     // the selector text, if it could not be parsed
	Step     jpath.Step // the step that failed
	Found    ast.Kind   // the kind of value the step was applied to
	Err      error      // the reason for the failure
}

// Error satisfies the error interface.
func (p *PathError) Error() string {
	if p.Step.Op == jpath.Invalid {
		return fmt.Sprintf("selector %q: %v", p.Selector, p.Err)
	}
	return fmt.Sprintf("at %s: step %s: %v (found %v)", p.Subject, p.Step, p.Err, p.Found)
}

// Unwrap supports errors.Is and errors.As for both ErrPathResolution and the
// specific reason for the failure.
func (p *PathError) Unwrap() []error { return []error{ErrPathResolution, p.Err} }
