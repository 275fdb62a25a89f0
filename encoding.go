// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jedit

import (
	"errors"

	"github.com/creachadair/jedit/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.AppendQuote(nil, mem.S(src))) }

// AppendQuote appends the JSON string encoding of src to dst, including the
// enclosing double quotation marks, and returns the extended slice.
func AppendQuote(dst []byte, src string) []byte { return escape.AppendQuote(dst, mem.S(src)) }

// Unquote decodes a JSON string value.  Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
//
// Invalid escapes are replaced by the Unicode replacement rune. Unquote
// reports an error for an incomplete escape sequence.
func Unquote(src mem.RO) (string, error) {
	n := src.Len()
	if n < 2 || src.At(0) != '"' || src.At(n-1) != '"' {
		return "", errors.New("missing quotations")
	}
	dec, err := escape.AppendUnquote(nil, src.Slice(1, n-1))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
