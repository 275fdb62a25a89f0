// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jedit_test

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jedit"
	"github.com/google/go-cmp/cmp"
	"go4.org/mem"
)

func TestScanner(t *testing.T) {
	tests := []struct {
		input string
		want  []jedit.Token
	}{
		// Empty inputs
		{"", nil},
		{"  ", nil},
		{"\n\n  \n", nil},
		{"\t  \r\n \t  \r\n", nil},

		// Constants
		{"true false null", []jedit.Token{jedit.True, jedit.False, jedit.Null}},

		// Punctuation
		{"{ [ ] } , :", []jedit.Token{
			jedit.LBrace, jedit.LSquare, jedit.RSquare, jedit.RBrace, jedit.Comma, jedit.Colon,
		}},

		// Strings
		{`"" "a b c" "a\nb\tc"`, []jedit.Token{jedit.String, jedit.String, jedit.String}},
		{`"\"\\\/\b\f\n\r\t"`, []jedit.Token{jedit.String}},
		{`"\u0000\u01fc\uAA9c"`, []jedit.Token{jedit.String}},

		// Numbers
		{`0 -1 5139 2.3 5e+9 3.6E+4 -0.001E-100`, []jedit.Token{
			jedit.Integer, jedit.Integer, jedit.Integer,
			jedit.Number, jedit.Number, jedit.Number, jedit.Number,
		}},

		// Mixed types
		{`{true,"false":-15 null[]}`, []jedit.Token{
			jedit.LBrace, jedit.True, jedit.Comma, jedit.String, jedit.Colon,
			jedit.Integer, jedit.Null, jedit.LSquare, jedit.RSquare, jedit.RBrace,
		}},
		{`{"a": true, "b":[null, 1, 0.5]}`, []jedit.Token{
			jedit.LBrace,
			jedit.String, jedit.Colon, jedit.True, jedit.Comma,
			jedit.String, jedit.Colon,
			jedit.LSquare,
			jedit.Null, jedit.Comma, jedit.Integer, jedit.Comma, jedit.Number,
			jedit.RSquare,
			jedit.RBrace,
		}},
		{`"a",1,true
       false["b"]
       `, []jedit.Token{
			jedit.String, jedit.Comma, jedit.Integer, jedit.Comma, jedit.True,
			jedit.False, jedit.LSquare, jedit.String, jedit.RSquare,
		}},
	}

	for _, test := range tests {
		var got []jedit.Token
		s := jedit.NewScanner(mem.S(test.input))
		for s.Next() == nil {
			got = append(got, s.Token())
		}
		if err := s.Err(); err != io.EOF {
			t.Errorf("Next failed: %v", err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScanner_withComments(t *testing.T) {
	tests := []struct {
		input string
		want  []jedit.Token
		coms  []string
	}{
		{"/* block comment */\n\n\n", []jedit.Token{jedit.BlockComment},
			[]string{"/* block comment */"}},
		{"// line 1\n\n// line 2\n", []jedit.Token{jedit.LineComment, jedit.LineComment},
			[]string{"// line 1\n", "// line 2\n"}}, // N.B. includes terminating newline, if present
		{"// line at EOF", []jedit.Token{jedit.LineComment},
			[]string{"// line at EOF"}},
		{`{
 "x": 1, // howdy do
 "y" /* hide me */ : 2.0 }`, []jedit.Token{
			jedit.LBrace, jedit.String, jedit.Colon, jedit.Integer, jedit.Comma, jedit.LineComment,
			jedit.String, jedit.BlockComment, jedit.Colon, jedit.Number, jedit.RBrace,
		}, []string{
			"// howdy do\n", "/* hide me */",
		}},

		{`"a" // line
false /*
  this is a comment
*/ 1 null [ {} ]`, []jedit.Token{
			jedit.String, jedit.LineComment, jedit.False, jedit.BlockComment,
			jedit.Integer, jedit.Null, jedit.LSquare, jedit.LBrace, jedit.RBrace, jedit.RSquare,
		}, []string{
			"// line\n", "/*\n  this is a comment\n*/",
		}},

		{"/* x */\n{\n}//foo", []jedit.Token{
			jedit.BlockComment, jedit.LBrace, jedit.RBrace, jedit.LineComment,
		}, []string{
			"/* x */", "//foo",
		}},

		{"/**\n*/", []jedit.Token{jedit.BlockComment}, []string{"/**\n*/"}},

		{`/**/"foo"/***/"bar"/****/"baz"/*****/false/*x*/null`, []jedit.Token{
			jedit.BlockComment, jedit.String,
			jedit.BlockComment, jedit.String,
			jedit.BlockComment, jedit.String,
			jedit.BlockComment, jedit.False,
			jedit.BlockComment, jedit.Null,
		}, []string{
			"/**/", "/***/", "/****/", "/*****/", "/*x*/",
		}},
	}

	for _, test := range tests {
		var got []jedit.Token
		var coms []string
		s := jedit.NewScanner(mem.S(test.input))
		s.AllowComments(true)
		for s.Next() == nil {
			got = append(got, s.Token())
			if tok := s.Token(); tok == jedit.LineComment || tok == jedit.BlockComment {
				coms = append(coms, s.Text().StringCopy())
			}
		}
		if err := s.Err(); err != io.EOF {
			t.Errorf("Next failed: %v", err)
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", test.input, diff)
		}
		if diff := cmp.Diff(test.coms, coms); diff != "" {
			t.Errorf("Input: %#q\nComments: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestScanner_decodeAs(t *testing.T) {
	mustScan := func(t *testing.T, input string, want jedit.Token) *jedit.Scanner {
		t.Helper()
		s := jedit.NewScanner(mem.S(input))
		if s.Next() != nil {
			t.Fatalf("Next failed: %v", s.Err())
		} else if s.Token() != want {
			t.Fatalf("Next token: got %v, want %v", s.Token(), want)
		}
		return s
	}

	t.Run("Integer", func(t *testing.T) {
		mustScan(t, `-15`, jedit.Integer)
	})
	t.Run("Number", func(t *testing.T) {
		mustScan(t, `3.25e-5`, jedit.Number)
	})
	t.Run("Constants", func(t *testing.T) {
		mustScan(t, `true`, jedit.True)
		mustScan(t, `false`, jedit.False)
		mustScan(t, `null`, jedit.Null)
	})
	t.Run("String", func(t *testing.T) {
		const wantText = `"a\tb\u0020c\n"` // as written, without quotes
		const wantDec = "a\tb c\n"         // with escapes undone
		s := mustScan(t, `"a\tb\u0020c\n"`, jedit.String)
		text := s.Text()
		if got := text.StringCopy(); got != wantText {
			t.Errorf("Text: got %#q, want %#q", got, wantText)
		}
		if u, err := jedit.Unquote(text); err != nil {
			t.Errorf("Unquote failed: %v", err)
		} else if got := u; got != wantDec {
			t.Errorf("Unquote: got %#q, want %#q", got, wantDec)
		}
	})
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{" ", `" "`},
		{"a\t\nb", `"a\t\nb"`},
		{"\x00\x01\x02", `"\u0000\u0001\u0002"`},
		{`a "b c\" d"`, `"a \"b c\\\" d\""`},
		{`\ufffd`, `"\\ufffd"`},
		{"\u2028 \u2029 \ufffd", `"\u2028 \u2029 \ufffd"`},
		{"This is the end\v", `"This is the end\u000b"`},
		{"<\x1e>", `"<\u001e>"`},
	}
	for _, test := range tests {
		got := jedit.Quote(test.input)
		if got != test.want {
			t.Errorf("Input: %#q\nGot:  %#q\nWant: %#q", test.input, got, test.want)
		}
	}
}

func TestScannerLoc(t *testing.T) {
	type tokPos struct {
		Tok jedit.Token
		Pos string
	}
	tests := []struct {
		input string
		want  []tokPos
	}{
		{"", nil},
		{"{ }", []tokPos{{jedit.LBrace, "1:0-1"}, {jedit.RBrace, "1:2-3"}}},
		{`"foo" // bar`, []tokPos{{jedit.String, "1:0-5"}, {jedit.LineComment, "1:6-12"}}},
		{"/* ok */\ntrue\n false\n", []tokPos{{jedit.BlockComment, "1:0-8"}, {jedit.True, "2:0-4"}, {jedit.False, "3:1-6"}}},
		{"/* abc */", []tokPos{{jedit.BlockComment, "1:0-9"}}},
		{"/* ok\n*/\n null", []tokPos{{jedit.BlockComment, "1:0-2:2"}, {jedit.Null, "3:1-5"}}},
		{"// first\n[1, /*x*/, 2\n]", []tokPos{
			{jedit.LineComment, "1:0-2:0"}, {jedit.LSquare, "2:0-1"}, {jedit.Integer, "2:1-2"},
			{jedit.Comma, "2:2-3"}, {jedit.BlockComment, "2:4-9"}, {jedit.Comma, "2:9-10"},
			{jedit.Integer, "2:11-12"}, {jedit.RSquare, "3:0-1"},
		}},
	}
	for _, tc := range tests {
		var got []tokPos
		s := jedit.NewScanner(mem.S(tc.input))
		s.AllowComments(true)
		for s.Next() == nil {
			got = append(got, tokPos{s.Token(), s.Location().String()})
		}
		if err := s.Err(); err != io.EOF {
			t.Errorf("Next failed: %v", err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Input: %#q\nTokens: (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
		fail  bool
	}{
		{``, ``, true},                        // missing quotes
		{`"missing quote`, ``, true},          // missing quotes
		{`missing quote"`, ``, true},          // missing quotes
		{`""`, ``, false},                     // ok
		{`"ok go"`, "ok go", false},           // ok
		{`"abc\ndef"`, "abc\ndef", false},     // C escapes
		{`"\tabc\n"`, "\tabc\n", false},       // C escapes
		{`"\b\f\n\r\t"`, "\b\f\n\r\t", false}, // C escapes
		{`"a \u0026 b"`, "a & b", false},      // short Unicode escape
		{`"\u"`, ``, true},                    // incomplete Unicode escape
		{`"\u00"`, ``, true},                  // incomplete Unicode escape
		{`"\u00x9"`, "\ufffd", false},         // invalid Unicode escape
		{`"\u019 "`, "\ufffd", false},         // invalid Unicode escape
		{`"a\"b"`, `a"b`, false},              // ok
		{`"a\\b\\cd"`, `a\b\cd`, false},       // ok
	}

	for _, test := range tests {
		got, err := jedit.Unquote(mem.S(test.input))
		if err != nil {
			if !test.fail {
				t.Errorf("Unquote(%#q): got %v, want no error", test.input, err)
			} else {
				t.Logf("Unquote(%#q): got expected error: %v", test.input, err)
			}
		} else if err == nil && test.fail {
			t.Errorf("Unquote(%#q): got nil, want error", test.input)
		}
		if cmp := got; cmp != test.want {
			t.Errorf("Unquote(%#q): got %#q, want %#q", test.input, cmp, test.want)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int // expected error offset
	}{
		{`01`, 0},
		{`-`, 1},
		{`-x`, 1},
		{`1.`, 2},
		{`1.5e`, 4},
		{`1e+`, 3},
		{`"abc`, 4},
		{`"a\qb"`, 2},
		{`"\u12"`, 1},
		{"\"a\x01b\"", 2},
		{"\"a\xffb\"", 2},
		{`trux`, 0},
		{`nul`, 0},
		{`@`, 0},
		{`/* no comments */`, 0},
	}
	for _, test := range tests {
		s := jedit.NewScanner(mem.S(test.input))
		err := s.Next()
		if err == nil || err == io.EOF {
			t.Errorf("Next(%#q): got %v, want error", test.input, err)
			continue
		}
		t.Logf("Next(%#q): got expected error: %v", test.input, err)
		if s.Token() != jedit.Invalid {
			t.Errorf("Next(%#q): token is %v, want invalid", test.input, s.Token())
		}
		if want := fmt.Sprintf("(offset %d)", test.pos); !strings.HasSuffix(err.Error(), want) {
			t.Errorf("Next(%#q): error %q, want offset %d", test.input, err, test.pos)
		}
	}
}

func TestScannerSpan(t *testing.T) {
	const input = `{ "chris": ["one", "two", "three"] }`
	var got []string
	s := jedit.NewScanner(mem.S(input))
	for s.Next() == nil {
		sp := s.Span()
		if text := s.Text().StringCopy(); text != sp.Text(input) {
			t.Errorf("Token %v: text %q does not match span %v (%q)", s.Token(), text, sp, sp.Text(input))
		}
		got = append(got, sp.String())
	}
	want := []string{
		"[0,1)", "[2,9)", "[9,10)", "[11,12)", "[12,17)", "[17,18)",
		"[19,24)", "[24,25)", "[26,33)", "[33,34)", "[35,36)",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("Spans (-got, +want):\n%s", diff)
	}
}
