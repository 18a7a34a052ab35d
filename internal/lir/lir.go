/*
Package lir is the seam between this toolchain and its external
collaborators: a frontend that parses surface syntax and a lowering pass
that produces assembly-layer ops. Neither lives in this repository; this
package defines only the shapes the collaborator boundary needs -- a
source location for error reporting, and the error type the CLI renders
with a caret span -- so the boundary is concrete without this repo
implementing a parser or a lowering pass of its own.
*/
package lir

import (
	"fmt"
	"strings"
)

// SourceLocation pinpoints a span of surface source code: where a
// diagnostic should point, not where the assembly-layer op it lowered to
// lives.
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
	Offset   int
	Length   int
}

func (loc SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", loc.Filename, loc.Line, loc.Column)
}

// Error reports a failure attributable to a span of surface source code.
// The CLI's top-level error formatter renders it with a caret span when
// Location is non-zero; collaborators that have no source text to point at
// should return a plain error instead of constructing one of these.
type Error struct {
	Location SourceLocation
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Location, e.Msg, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Location, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Caret renders the line of src that Location points into, with a caret
// span underneath marking Length columns starting at Location.Column.
// It returns "" if src has fewer lines than Location.Line.
func (e *Error) Caret(src string) string {
	lines := strings.Split(src, "\n")
	if e.Location.Line < 1 || e.Location.Line > len(lines) {
		return ""
	}

	line := lines[e.Location.Line-1]

	col := e.Location.Column
	if col < 1 {
		col = 1
	}

	length := e.Location.Length
	if length < 1 {
		length = 1
	}

	pad := strings.Repeat(" ", col-1)
	marks := strings.Repeat("^", length)

	return fmt.Sprintf("%s\n%s%s", line, pad, marks)
}

// Lowering is the boundary a frontend collaborator implements: given
// whatever intermediate representation it produces from surface syntax, it
// hands back a sequence of assembly-layer ops (by this repo's own asm
// package) or a *Error pinned to the source span that failed to lower.
// This repository provides no implementation -- frontends are an external
// collaborator -- but defines the interface so cmd/kiwi has a concrete
// seam to wire a future one into.
type Lowering interface {
	Lower(source string, filename string) (LoweredProgram, error)
}

// LoweredProgram is whatever a Lowering implementation produces: this
// repository does not define a concrete assembly-builder result shape
// beyond "some ops, in program order", since that shape is the frontend's
// to choose as long as it can render into asm.Program.
type LoweredProgram struct {
	Ops []Op
}

// Op is a placeholder instruction a frontend collaborator emits before this
// repository's asm package ever sees it; a real frontend would produce
// asm.Location-addressed composite ops directly instead of this
// intermediate shape. It exists so LoweredProgram has a concrete field
// type without importing internal/asm from a package that is meant to
// model an external, not-yet-built collaborator.
type Op struct {
	Mnemonic string
	Operand  int64
	Location SourceLocation
}
