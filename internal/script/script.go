// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package script loads edit scripts: YAML documents listing a sequence of
// edits to apply to a JSON document.
//
// A script has the form:
//
//	edits:
//	  - path: $.one.c
//	    action: remove
//	  - path: $.name
//	    value: new name
//
// The action defaults to replace. A value must be a scalar; non-string
// scalars are replaced by their YAML spelling, so 'value: 3' sets the string
// "3".
package script

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/creachadair/jedit/edit"
	"github.com/goccy/go-yaml"
)

// ErrScript is matched by all errors reported when loading a script.
var ErrScript = errors.New("invalid edit script")

// File is the top-level structure of a script.
type File struct {
	Edits []Entry `yaml:"edits"`
}

// Entry is a single edit of a script.
type Entry struct {
	Path   string `yaml:"path"`
	Action string `yaml:"action,omitempty"`
	Value  any    `yaml:"value,omitempty"`
}

// Op converts e to an edit operation.
func (e Entry) Op() (edit.Op, error) {
	if e.Path == "" {
		return edit.Op{}, errors.New("missing path")
	}
	act, err := edit.ParseAction(e.Action)
	if err != nil {
		return edit.Op{}, err
	}
	op := edit.Op{Selector: e.Path, Request: edit.Request{Action: act}}
	switch act {
	case edit.ActionRemove:
		if e.Value != nil {
			return edit.Op{}, errors.New("remove does not take a value")
		}
	case edit.ActionReplace:
		text, err := scalarText(e.Value)
		if err != nil {
			return edit.Op{}, err
		}
		op.Value = edit.Literal(text)
	}
	return op, nil
}

func scalarText(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int, int64, uint64:
		return fmt.Sprint(t), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("value must be a scalar, not %T", v)
	}
}

// EntryError reports a problem with one entry of a script.
type EntryError struct {
	Index int // 0-based
	Path  string
	Err   error
}

func (e *EntryError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("edit %d: %v", e.Index+1, e.Err)
	}
	return fmt.Sprintf("edit %d (%s): %v", e.Index+1, e.Path, e.Err)
}

// Unwrap supports errors.Is for ErrScript and the underlying error.
func (e *EntryError) Unwrap() []error { return []error{ErrScript, e.Err} }

// Parse decodes a script from data and returns its edits in order.
// Unknown fields are rejected.
func Parse(data []byte) ([]edit.Op, error) {
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}
	if len(f.Edits) == 0 {
		return nil, fmt.Errorf("%w: no edits", ErrScript)
	}
	ops := make([]edit.Op, len(f.Edits))
	for i, e := range f.Edits {
		op, err := e.Op()
		if err != nil {
			return nil, &EntryError{Index: i, Path: e.Path, Err: err}
		}
		ops[i] = op
	}
	return ops, nil
}

// Load reads all of r and parses it as a script. See Parse.
func Load(r io.Reader) ([]edit.Op, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
