// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jedit implements the lexical layer for surgical, in-place editing
// of JSON text.
//
// The packages in this module cooperate to edit a JSON document without
// re-encoding it: the source text is parsed into a syntax tree whose nodes
// record their exact byte offsets (package ast), a selector is resolved to a
// node of that tree (packages jpath and edit), and the edit is applied by
// splicing the original text at the node's offsets (package edit). All the
// bytes outside the edited region, including whitespace, comments, and the
// spelling of numbers, are preserved.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON held in memory.
// Construct a scanner from a mem.RO view of the input and call its Next
// method to iterate over the tokens. Next advances to the next input token
// and returns nil, or reports an error:
//
//	s := jedit.NewScanner(mem.S(input))
//	for s.Next() == nil {
//	   log.Printf("Next token: %v at %v", s.Token(), s.Span())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// indicates a lexical error in the input.
//
// Token offsets are byte offsets into the input, suitable for slicing the
// original text directly.
//
// # Streaming
//
// The Stream type implements an event-driven stream parser for JSON.  The
// parser works by calling methods on a Handler value to report the structure
// of the input. In case of error, parsing is terminated and an error of
// concrete type *jedit.SyntaxError is returned.
//
//	s := jedit.NewStream(mem.S(input))
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// To parse a single value from the front of the input, call ParseOne. This
// method returns io.EOF if no further values are available.
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The methods of
// a handler correspond to the syntax of JSON values:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Each method is passed an Anchor value that can be used to retrieve location
// and type information. The parser ensures that corresponding Begin and End
// methods are correctly paired, or that a SyntaxError is reported.
package jedit
