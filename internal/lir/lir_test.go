package lir

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorCaret(tt *testing.T) {
	tt.Parallel()

	src := "one\ntwo three\nfour"
	err := &Error{
		Location: SourceLocation{Filename: "prog.kiwi", Line: 2, Column: 5, Length: 3},
		Msg:      "undefined symbol",
	}

	got := err.Caret(src)
	want := "two three\n    ^^^"

	if got != want {
		tt.Errorf("Caret() =\n%q\nwant\n%q", got, want)
	}
}

func TestErrorCaretOutOfRange(tt *testing.T) {
	tt.Parallel()

	err := &Error{Location: SourceLocation{Filename: "prog.kiwi", Line: 99, Column: 1}}

	if got := err.Caret("one line"); got != "" {
		tt.Errorf("Caret() = %q, want empty string for an out-of-range line", got)
	}
}

func TestErrorUnwrap(tt *testing.T) {
	tt.Parallel()

	cause := errors.New("boom")
	err := &Error{Location: SourceLocation{Filename: "prog.kiwi", Line: 1, Column: 1}, Msg: "lowering failed", Err: cause}

	if !errors.Is(err, cause) {
		tt.Errorf("errors.Is(err, cause) = false, want true")
	}

	if !strings.Contains(err.Error(), "boom") {
		tt.Errorf("Error() = %q, want it to mention the wrapped cause", err.Error())
	}
}
