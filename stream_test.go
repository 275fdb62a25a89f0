// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jedit_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jedit"
	"github.com/google/go-cmp/cmp"
	"go4.org/mem"
)

func TestStream(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "."},
		{"   ", "."},

		{"true false null", `
Value true <true> [0,4)
Value false <false> [5,10)
Value null <null> [11,15)
.`},

		{`0 5 -6.32 0.1e-2`, `
Value integer <0> [0,1)
Value integer <5> [2,3)
Value number <-6.32> [4,9)
Value number <0.1e-2> [10,16)
.`},

		{`"" "a b c" "a\tb" "a\u0020b"`, `
Value string <""> [0,2)
Value string <"a b c"> [3,10)
Value string <"a\tb"> [11,17)
Value string <"a\u0020b"> [18,28)
.`},

		{`{}`, "BeginObject [0,1)\nEndObject [1,2)\n."},

		{`{"a":15}`, `
BeginObject [0,1)
BeginMember <"a"> [1,4)
Value integer <15> [5,7)
EndMember "}"
EndObject [7,8)
.`},

		{`{"x":null, "y":[true]}`, `
BeginObject [0,1)
BeginMember <"x"> [1,4)
Value null <null> [5,9)
EndMember ","
BeginMember <"y"> [11,14)
BeginArray [15,16)
Value true <true> [16,20)
EndArray [20,21)
EndMember "}"
EndObject [21,22)
.`},

		{`[]`, "BeginArray [0,1)\nEndArray [1,2)\n."},
	}

	for _, test := range tests {
		st := jedit.NewStream(mem.S(test.input))
		th := new(testHandler)
		if err := st.Parse(th); err != nil {
			t.Errorf("Parse failed: %v", err)
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		estr   string
		offset int
	}{
		// Various kinds of unbalanced object bits.
		{`{`, `BeginObject [0,1)`,
			`at 1:1: expected "}" or string, got end of input`, 1},
		{`}`, ``, `at 1:0: unexpected "}"`, 0},
		{`{false:1}`, `BeginObject [0,1)`,
			`at 1:1: expected "}" or string, got false`, 1},
		{`{"true":}`, `
BeginObject [0,1)
BeginMember <"true"> [1,7)`,
			`at 1:8: unexpected "}"`, 8},
		{`{"true":1,`, `
BeginObject [0,1)
BeginMember <"true"> [1,7)
Value integer <1> [8,9)
EndMember ","`,
			`at 1:10: expected string, got end of input`, 10},
		{`{"a":1,}`, `
BeginObject [0,1)
BeginMember <"a"> [1,4)
Value integer <1> [5,6)
EndMember ","`,
			`at 1:7: expected string, got "}"`, 7},

		// Unbalanced array bits.
		{`[`, `BeginArray [0,1)`,
			`at 1:1: expected value, got end of input`, 1},
		{`]`, ``, `at 1:0: unexpected "]"`, 0},
		{`[15,`, `
BeginArray [0,1)
Value integer <15> [1,3)`,
			`at 1:4: expected value, got end of input`, 4},
		{`[15,]`, `
BeginArray [0,1)
Value integer <15> [1,3)`,
			`at 1:4: unexpected "]"`, 4},

		// Invalid values.
		{`1 2.0 forthright`, `
Value integer <1> [0,1)
Value number <2.0> [2,5)`,
			`at 1:6: unknown constant "forthright" (offset 6)`, 6},
		{`"what did you`, ``,
			`at 1:0: unterminated string (offset 13)`, 13},
		{"[1,\n  01]", `
BeginArray [0,1)
Value integer <1> [1,2)`,
			`at 2:2: extra leading zeroes (offset 6)`, 6},
	}

	for _, test := range tests {
		st := jedit.NewStream(mem.S(test.input))
		th := new(testHandler)
		err := st.Parse(th)
		if err == nil {
			t.Error("Parse did not report an error")
			continue
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
		if diff := diffStrings(test.estr, err.Error()); diff != "" {
			t.Errorf("Input: %#q\nError: (-want, +got)\n%s", test.input, diff)
		}
		var serr *jedit.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q: got error %T, want *SyntaxError", test.input, err)
		} else if serr.Offset != test.offset {
			t.Errorf("Input: %#q: error offset is %d, want %d", test.input, serr.Offset, test.offset)
		}
	}
}

func TestStreamComments(t *testing.T) {
	const input = `// head
{
  "a": 1, /* one */
  "b": [2, 3,],
}
`
	const want = `
Comment <// head\n>
BeginObject [8,9)
BeginMember <"a"> [12,15)
Value integer <1> [17,18)
EndMember ","
Comment </* one */>
BeginMember <"b"> [32,35)
BeginArray [37,38)
Value integer <2> [38,39)
Value integer <3> [41,42)
EndArray [43,44)
EndMember ","
EndObject [46,47)
.`

	t.Run("Reject", func(t *testing.T) {
		st := jedit.NewStream(mem.S(input))
		if err := st.Parse(new(testHandler)); err == nil {
			t.Error("Parse: got nil, want error")
		} else {
			t.Logf("Parse: got expected error: %v", err)
		}
	})
	t.Run("Allow", func(t *testing.T) {
		st := jedit.NewStream(mem.S(input))
		st.AllowComments(true)
		st.AllowTrailingCommas(true)
		th := &commentHandler{new(testHandler)}
		if err := st.Parse(th); err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if diff := diffStrings(want, th.output()); diff != "" {
			t.Errorf("Output: (-want, +got)\n%s", diff)
		}
	})
}

func TestStreamHandlerError(t *testing.T) {
	errStop := errors.New("stop")
	st := jedit.NewStream(mem.S(`[1, 2, 3]`))
	th := &stopHandler{testHandler: new(testHandler), stopAt: "2", err: errStop}
	err := st.Parse(th)
	if !errors.Is(err, errStop) {
		t.Errorf("Parse: got %v, want %v", err, errStop)
	}
	var serr *jedit.SyntaxError
	if errors.As(err, &serr) {
		t.Errorf("Parse: handler error reported as syntax error: %v", serr)
	}
}

func TestParseOne(t *testing.T) {
	const input = `{ "love": true } [] "ok"`
	const want = `
BeginObject [0,1)
BeginMember <"love"> [2,8)
Value true <true> [10,14)
EndMember "}"
EndObject [15,16)
---
BeginArray [17,18)
EndArray [18,19)
---
Value string <"ok"> [20,24)
---
.`
	th := new(testHandler)

	st := jedit.NewStream(mem.S(input))
	for {
		err := st.ParseOne(th)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("ParseOne failed: %v", err)
		}
		th.pr("---")
	}

	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", input, diff)
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

type testHandler struct {
	buf bytes.Buffer
}

func (t *testHandler) pr(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(&t.buf, msg, args...)
}

func (t *testHandler) output() string { return t.buf.String() }

func (t *testHandler) BeginObject(loc jedit.Anchor) error {
	t.pr("BeginObject %v", loc.Span())
	return nil
}

func (t *testHandler) EndObject(loc jedit.Anchor) error {
	t.pr("EndObject %v", loc.Span())
	return nil
}

func (t *testHandler) BeginArray(loc jedit.Anchor) error {
	t.pr("BeginArray %v", loc.Span())
	return nil
}

func (t *testHandler) EndArray(loc jedit.Anchor) error {
	t.pr("EndArray %v", loc.Span())
	return nil
}

func (t *testHandler) EndOfInput(loc jedit.Anchor) { t.pr(".") }

func (t *testHandler) BeginMember(loc jedit.Anchor) error {
	t.pr("BeginMember <%s> %v", loc.Text().StringCopy(), loc.Span())
	return nil
}

func (t *testHandler) EndMember(loc jedit.Anchor) error {
	t.pr("EndMember %s", loc.Token())
	return nil
}

func (t *testHandler) Value(loc jedit.Anchor) error {
	t.pr(`Value %s <%s> %v`, loc.Token(), loc.Text().StringCopy(), loc.Span())
	return nil
}

type commentHandler struct{ *testHandler }

func (c commentHandler) Comment(loc jedit.Anchor) {
	c.pr("Comment <%s>", strings.ReplaceAll(loc.Text().StringCopy(), "\n", `\n`))
}

type stopHandler struct {
	*testHandler
	stopAt string
	err    error
}

func (s *stopHandler) Value(loc jedit.Anchor) error {
	if loc.Text().EqualString(s.stopAt) {
		return s.err
	}
	return s.testHandler.Value(loc)
}
