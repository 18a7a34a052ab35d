package cmd

import "fmt"

// SourceKind is the `-s` flag: what language the input file is written in.
// LIR and the surface frontend are external collaborators this repository
// does not implement (see internal/lir); their enum values are kept so the
// flag surface has a seam for them, but selecting one fails with a clear
// error instead of silently falling back to something else.
type SourceKind string

const (
	SourceCoreASM  SourceKind = "core-asm"
	SourceStdASM   SourceKind = "std-asm"
	SourceCoreVM   SourceKind = "core-vm"
	SourceStdVM    SourceKind = "std-vm"
	SourceLIR      SourceKind = "lir"
	SourceFrontend SourceKind = "source"
)

func parseSourceKind(s string) (SourceKind, error) {
	switch SourceKind(s) {
	case SourceCoreASM, SourceStdASM, SourceCoreVM, SourceStdVM, SourceLIR, SourceFrontend:
		return SourceKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown source kind %q", ErrInvalidSource, s)
	}
}

// TargetKind is the `-t` flag: what the compiler should produce.
type TargetKind string

const (
	TargetRun     TargetKind = "run"
	TargetCoreASM TargetKind = "core-asm"
	TargetStdASM  TargetKind = "std-asm"
	TargetCoreVM  TargetKind = "core-vm"
	TargetStdVM   TargetKind = "std-vm"
	TargetC       TargetKind = "c"
	TargetX86     TargetKind = "x86"
)

func parseTargetKind(s string) (TargetKind, error) {
	switch TargetKind(s) {
	case TargetRun, TargetCoreASM, TargetStdASM, TargetCoreVM, TargetStdVM, TargetC, TargetX86:
		return TargetKind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown target kind %q", ErrInvalidSource, s)
	}
}
