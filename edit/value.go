// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package edit

import "fmt"

// A Value is the replacement text for an edit. It is either a Literal, which
// is used as given, or a Computed value, which is produced on demand from the
// context of the edit.
type Value interface{ isValue() }

type literal string

func (literal) isValue() {}

// Literal returns a Value whose text is s.
func Literal(s string) Value { return literal(s) }

type computed func(subject string, m *Match) (string, error)

func (computed) isValue() {}

// Computed returns a Value whose text is computed by calling f with the
// subject and match of the edit destination. The function is invoked at most
// once per edit, and only for edits that replace a value.
//
// Computed panics if f == nil.
func Computed(f func(subject string, m *Match) (string, error)) Value {
	if f == nil {
		panic("edit: nil value computation")
	}
	return computed(f)
}

// ResolveValue returns the text of v for an edit of the destination m with
// the given subject. A nil Value resolves to the empty string.
func ResolveValue(v Value, subject string, m *Match) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case literal:
		return string(t), nil
	case computed:
		s, err := t(subject, m)
		if err != nil {
			return "", fmt.Errorf("compute value for %s: %w", subject, err)
		}
		return s, nil
	default:
		panic(fmt.Sprintf("edit: unknown value type %T", v))
	}
}
