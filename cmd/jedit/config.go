// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"errors"
	"flag"
	"io"

	"github.com/creachadair/jedit/edit"
)

var (
	errNoEdit      = errors.New("one of -path or -script is required")
	errPathScript  = errors.New("-path and -script are mutually exclusive")
	errSetRemove   = errors.New("-path requires exactly one of -set or -remove")
	errNoPath      = errors.New("-set and -remove require -path")
	errInPlace     = errors.New("-i requires an input file")
	errManyInputs  = errors.New("at most one input file may be given")
	errStdinScript = errors.New("the script and the input cannot both be standard input")
)

// usageError reports a problem with the command line.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

// config is the complete configuration for a run of the tool.
type config struct {
	Path   string // selector for a single edit
	Set    string // replacement value, if HasSet
	HasSet bool
	Remove bool
	Script string // path of an edit script ("-" for stdin)

	Input   string // input file ("" for stdin)
	InPlace bool

	Comments bool // accept JWCC input
	Strict   bool // reject duplicate keys
	Verify   bool // verify the edited output
	Verbose  bool
}

// options returns the edit options selected by c.
func (c *config) options() *edit.Options {
	return &edit.Options{
		AllowComments:       c.Comments,
		RejectDuplicateKeys: c.Strict,
		Verify:              c.Verify,
	}
}

// validate checks that the settings of c are consistent.
func (c *config) validate() error {
	switch {
	case c.Path != "" && c.Script != "":
		return errPathScript
	case c.Path == "" && c.Script == "":
		if c.HasSet || c.Remove {
			return errNoPath
		}
		return errNoEdit
	case c.Path != "" && c.HasSet == c.Remove:
		return errSetRemove
	case c.Script != "" && (c.HasSet || c.Remove):
		return errNoPath
	case c.InPlace && c.Input == "":
		return errInPlace
	case c.Script == "-" && c.Input == "":
		return errStdinScript
	}
	return nil
}

// parseConfig parses command-line arguments, not including the program
// name. It returns flag.ErrHelp if help was requested, and a usageError for
// invalid arguments.
func parseConfig(args []string) (*config, error) {
	fs := flag.NewFlagSet("jedit", flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var cfg config
	fs.StringVar(&cfg.Path, "path", "", "Selector for the value to edit")
	fs.Func("set", "Replace the selected value with this string", func(s string) error {
		cfg.Set, cfg.HasSet = s, true
		return nil
	})
	fs.BoolVar(&cfg.Remove, "remove", false, "Remove the selected value")
	fs.StringVar(&cfg.Script, "script", "", "Apply the edits listed in this YAML file")
	fs.BoolVar(&cfg.InPlace, "i", false, "Rewrite the input file in place")
	fs.BoolVar(&cfg.Comments, "comments", false, "Accept JSON with comments and trailing commas")
	fs.BoolVar(&cfg.Strict, "strict", false, "Reject objects with duplicate keys")
	fs.BoolVar(&cfg.Verify, "verify", true, "Check that the edited output is well-formed")
	fs.BoolVar(&cfg.Verbose, "v", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, usageError{err}
	}
	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		if rest[0] != "-" {
			cfg.Input = rest[0]
		}
	default:
		return nil, usageError{errManyInputs}
	}
	if err := cfg.validate(); err != nil {
		return nil, usageError{err}
	}
	return &cfg, nil
}

const usageText = `jedit - edit JSON text in place

Usage:
  jedit [options] -path SELECTOR (-set TEXT | -remove) [FILE]
  jedit [options] -script EDITS.yaml [FILE]

Edit the JSON document in FILE (or standard input) and write the result to
standard output. Only the edited values change; all other text, including
formatting and comments, is preserved.

Selectors are JSONPath expressions naming a single value, e.g. $.name,
$.list[2], or $["odd key"][0]. Replacement values are written as JSON
strings.

An edit script is a YAML file of the form:

  edits:
    - path: $.one.c
      action: remove
    - path: $.name
      value: new name

Options:
  -path SELECTOR   select the value to edit
  -set TEXT        replace the selected value with the string TEXT
  -remove          remove the selected value
  -script FILE     apply the edits listed in FILE ("-" for stdin)
  -i               rewrite FILE in place
  -comments        accept JSON with comments and trailing commas (JWCC)
  -strict          reject objects with duplicate keys
  -verify          check that the output is well-formed (default true)
  -v               enable debug logging
`
