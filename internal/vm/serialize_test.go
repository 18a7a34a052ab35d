package vm

import (
	"errors"
	"strings"
	"testing"
)

// TestSerializeRoundTrip checks that marshaling and parsing a program back
// produces an identical op sequence, for S1's print-constant program.
func TestSerializeRoundTrip(tt *testing.T) {
	tt.Parallel()

	want := StandardProgram{Ops: []Op{Set(65), Put(0), Set(10), Put(0)}}

	text, err := want.MarshalText()
	if err != nil {
		tt.Fatalf("MarshalText: %v", err)
	}

	var got StandardProgram
	if err := got.UnmarshalText(text); err != nil {
		tt.Fatalf("UnmarshalText: %v", err)
	}

	if len(got.Ops) != len(want.Ops) {
		tt.Fatalf("len(Ops) = %d, want %d", len(got.Ops), len(want.Ops))
	}

	for i := range want.Ops {
		if got.Ops[i] != want.Ops[i] {
			tt.Errorf("Ops[%d] = %v, want %v", i, got.Ops[i], want.Ops[i])
		}
	}
}

func TestMarshalTextFlat(tt *testing.T) {
	tt.Parallel()

	p := StandardProgram{Ops: []Op{Set(65), Put(0)}}

	text, err := p.MarshalText()
	if err != nil {
		tt.Fatalf("MarshalText: %v", err)
	}

	want := "Set 65\nPut 0\n"
	if string(text) != want {
		tt.Errorf("MarshalText() = %q, want %q", text, want)
	}
}

func TestUnmarshalTextUnknownOp(tt *testing.T) {
	tt.Parallel()

	var p StandardProgram

	err := p.UnmarshalText([]byte("Frobnicate 1\n"))
	if !errors.Is(err, ErrParse) {
		tt.Errorf("err = %v, want ErrParse", err)
	}
}

func TestUnmarshalTextMissingOperand(tt *testing.T) {
	tt.Parallel()

	var p StandardProgram

	err := p.UnmarshalText([]byte("Set\n"))
	if !errors.Is(err, ErrParse) {
		tt.Errorf("err = %v, want ErrParse", err)
	}
}

func TestCoreProgramUnmarshalRejectsStandardOp(tt *testing.T) {
	tt.Parallel()

	var p CoreProgram

	err := p.UnmarshalText([]byte("Set 1\nToFloat\n"))
	if !errors.Is(err, ErrStandardOnly) {
		tt.Errorf("err = %v, want ErrStandardOnly", err)
	}
}

func TestCommentRoundTrip(tt *testing.T) {
	tt.Parallel()

	p := StandardProgram{Ops: []Op{Comment("hello world")}}

	text, err := p.MarshalText()
	if err != nil {
		tt.Fatalf("MarshalText: %v", err)
	}

	var got StandardProgram
	if err := got.UnmarshalText(text); err != nil {
		tt.Fatalf("UnmarshalText: %v", err)
	}

	if got.Ops[0].Text != "hello world" {
		tt.Errorf("Text = %q, want %q", got.Ops[0].Text, "hello world")
	}
}

func TestDebugIndentation(tt *testing.T) {
	tt.Parallel()

	p := StandardProgram{Ops: []Op{
		{Code: OpIf},
		Put(0),
		{Code: OpElse},
		Put(1),
		{Code: OpEnd},
	}}

	out, err := p.Debug()
	if err != nil {
		tt.Fatalf("Debug: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	wantIndent := []int{0, 1, 0, 1, 0}
	for i, want := range wantIndent {
		got := (len(lines[i]) - len(strings.TrimLeft(lines[i], " "))) / len(debugIndent)
		if got != want {
			tt.Errorf("line %d indent = %d, want %d (%q)", i, got, want, lines[i])
		}
	}
}
