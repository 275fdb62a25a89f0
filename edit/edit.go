// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package edit implements surgical edits of JSON text.
//
// An edit locates a single node of a JSON document by a selector (see package
// jpath), and either replaces its value or removes it, by splicing the
// original source text at the offsets recorded in its syntax tree (see package
// ast). Only the edited region of the text changes; all other bytes of the
// input, including whitespace, comments, key order, and the spelling of
// numbers, are preserved.
//
// The steps of an edit are available separately:
//
//	doc, err := ast.ParseString(text)      // parse with source offsets
//	m, err := edit.Resolve(doc, "$.a[1]")  // find the destination
//	out, err := edit.Apply(text, m.Subject, m, edit.Request{
//	   Value: edit.Literal("new value"),
//	})
//
// or combined by Edit:
//
//	out, err := edit.Edit(text, "$.a[1]", edit.Request{Action: edit.ActionRemove}, nil)
//
// Edits do not compose: each edit must be applied to the output of the
// previous one, and ApplyAll does this for a sequence of edits.
//
// All the functions in this package are pure: they do not modify their
// arguments, and are safe for concurrent use.
package edit

import (
	"errors"
	"fmt"

	"github.com/creachadair/jedit/ast"
	"github.com/tailscale/hujson"
)

// ErrInvalidOutput is reported when verification of an edited document fails.
var ErrInvalidOutput = errors.New("edited document is not valid")

// Options control the parsing and verification of documents by Edit and
// ApplyAll. A nil *Options is ready for use and provides default values.
type Options struct {
	// Accept JSON With Commas and Comments (JWCC) input.
	AllowComments bool

	// Reject documents with duplicate object keys instead of resolving
	// member steps to the first matching key.
	RejectDuplicateKeys bool

	// Check that the edited text is still well-formed (standard JSON, or JWCC
	// if AllowComments is set).
	Verify bool

	// If set, ApplyAll calls this after each op succeeds, with the offset of
	// the op and the text before and after it was applied.
	Applied func(i int, op Op, before, after string)
}

func (o *Options) parseOptions() ast.ParseOptions {
	if o == nil {
		return ast.ParseOptions{}
	}
	return ast.ParseOptions{
		AllowComments:       o.AllowComments,
		RejectDuplicateKeys: o.RejectDuplicateKeys,
	}
}

func (o *Options) verify(out string) error {
	if o == nil || !o.Verify {
		return nil
	}
	src := []byte(out)
	if o.AllowComments {
		// A line comment may end the input without a newline.
		src = append(src, '\n')
	}
	v, err := hujson.Parse(src)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	if !o.AllowComments && !v.IsStandard() {
		return fmt.Errorf("%w: output is not standard JSON", ErrInvalidOutput)
	}
	return nil
}

// Edit parses content, resolves selector against it, and applies req to the
// destination. If any step fails, Edit returns "" and the error; content is
// never partially edited.
func Edit(content, selector string, req Request, opts *Options) (string, error) {
	doc, err := opts.parseOptions().Parse(content)
	if err != nil {
		return "", err
	}
	m, err := Resolve(doc, selector)
	if err != nil {
		return "", err
	}
	out, err := Apply(content, m.Subject, m, req)
	if err != nil {
		return "", err
	}
	if err := opts.verify(out); err != nil {
		return "", err
	}
	return out, nil
}

// An Op is a single edit in a sequence: a request applied at a selector.
type Op struct {
	Selector string
	Request
}

// ApplyAll applies ops to content in order, each to the output of the one
// before it, and returns the final text. If an op fails, ApplyAll stops and
// reports an *OpError; no partial result is returned.
func ApplyAll(content string, ops []Op, opts *Options) (string, error) {
	cur := content
	for i, op := range ops {
		next, err := Edit(cur, op.Selector, op.Request, opts)
		if err != nil {
			return "", &OpError{Index: i, Selector: op.Selector, Action: op.Action, Err: err}
		}
		if opts != nil && opts.Applied != nil {
			opts.Applied(i, op, cur, next)
		}
		cur = next
	}
	return cur, nil
}

// OpError reports the failure of an edit in a sequence.
type OpError struct {
	Index    int // the offset of the failed op, 0-based
	Selector string
	Action   Action
	Err      error
}

func (o *OpError) Error() string {
	return fmt.Sprintf("edit %d (%v %s): %v", o.Index+1, o.Action, o.Selector, o.Err)
}

func (o *OpError) Unwrap() error { return o.Err }
