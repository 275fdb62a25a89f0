// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// AppendQuote appends src to dst as a JSON string, escaping characters as
// needed and adding the enclosing double quotation marks.
//
// Runs of bytes that need no escaping are copied in bulk.
func AppendQuote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	start := 0 // beginning of the pending unescaped run
	for i := 0; i < src.Len(); {
		b := src.At(i)
		if b >= utf8.RuneSelf {
			r, n := mem.DecodeRune(src.SliceFrom(i))
			var esc string
			switch {
			case r == utf8.RuneError:
				esc = `\ufffd` // replacement rune or invalid encoding
			case r == '\u2028': // line separator
				esc = `\u2028`
			case r == '\u2029': // paragraph separator
				esc = `\u2029`
			}
			if esc != "" {
				dst = mem.Append(dst, src.Slice(start, i))
				dst = append(dst, esc...)
				start = i + n
			}
			i += n
			continue
		}

		if b >= ' ' && b != '\\' && b != '"' {
			i++
			continue
		}
		dst = mem.Append(dst, src.Slice(start, i))
		if b == '\\' || b == '"' {
			dst = append(dst, '\\', b)
		} else if c := controlEsc[b]; c != 0 {
			dst = append(dst, '\\', c)
		} else {
			dst = append(dst, '\\', 'u', '0', '0', hexDigit[b>>4], hexDigit[b&15])
		}
		i++
		start = i
	}
	dst = mem.Append(dst, src.SliceFrom(start))
	return append(dst, '"')
}
