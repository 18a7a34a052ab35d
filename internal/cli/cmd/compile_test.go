package cmd

import (
	"errors"
	"testing"

	"github.com/kiwi-lang/kiwi/internal/vm"
)

func TestParseSourceKind(tt *testing.T) {
	tt.Parallel()

	if _, err := parseSourceKind("std-asm"); err != nil {
		tt.Errorf("parseSourceKind(std-asm): %v", err)
	}

	if _, err := parseSourceKind("nonsense"); !errors.Is(err, ErrInvalidSource) {
		tt.Errorf("err = %v, want ErrInvalidSource", err)
	}
}

func TestParseTargetKind(tt *testing.T) {
	tt.Parallel()

	if _, err := parseTargetKind("x86"); err != nil {
		tt.Errorf("parseTargetKind(x86): %v", err)
	}

	if _, err := parseTargetKind("nonsense"); !errors.Is(err, ErrInvalidSource) {
		tt.Errorf("err = %v, want ErrInvalidSource", err)
	}
}

// TestCompileToVMStdASM assembles a small std-asm program (Set 65; Put 0)
// and checks the resulting ops survive the asm.Program.Assemble pass.
func TestCompileToVMStdASM(tt *testing.T) {
	tt.Parallel()

	src := "Set 65\nPut 0\n"

	core, std, err := compileToVM(SourceStdASM, []byte(src), 0)
	if err != nil {
		tt.Fatalf("compileToVM: %v", err)
	}

	if len(core.Ops) != 0 {
		tt.Errorf("expected the core return to be empty for a std-asm source")
	}

	// Assembled output is prefixed with SP/FP initialization; the original
	// two ops should still be present, in order, after that prefix.
	found := false

	for i := 0; i+1 < len(std.Ops); i++ {
		if std.Ops[i].Code == vm.OpSet && std.Ops[i].N == 65 && std.Ops[i+1].Code == vm.OpPut {
			found = true
			break
		}
	}

	if !found {
		tt.Errorf("assembled ops do not contain Set(65); Put(0): %v", std.Ops)
	}
}

func TestCompileToVMCoreVMRejectsStandardOnlyOps(tt *testing.T) {
	tt.Parallel()

	src := "Sin\n"

	_, _, err := compileToVM(SourceCoreVM, []byte(src), 0)
	if err == nil {
		tt.Errorf("expected an error parsing a Standard-only op as core-vm source")
	}
}

func TestCompileToVMRejectsExternalCollaboratorSources(tt *testing.T) {
	tt.Parallel()

	for _, kind := range []SourceKind{SourceLIR, SourceFrontend} {
		if _, _, err := compileToVM(kind, []byte(""), 0); !errors.Is(err, ErrInvalidSource) {
			tt.Errorf("compileToVM(%s) err = %v, want ErrInvalidSource", kind, err)
		}
	}
}

// TestCompileToASMPreservesUnassembledOps checks that, unlike compileToVM,
// compileToASM returns the ops exactly as written, with no SP/FP prologue.
func TestCompileToASMPreservesUnassembledOps(tt *testing.T) {
	tt.Parallel()

	src := "Set 65\nPut 0\n"

	core, std, err := compileToASM(SourceStdASM, []byte(src))
	if err != nil {
		tt.Fatalf("compileToASM: %v", err)
	}

	if len(core.Ops) != 0 {
		tt.Errorf("expected the core return to be empty for a std-asm source")
	}

	want := []vm.Op{{Code: vm.OpSet, N: 65}, {Code: vm.OpPut, N: 0}}
	if len(std.Ops) != len(want) {
		tt.Fatalf("ops = %v, want %v", std.Ops, want)
	}

	for i := range want {
		if std.Ops[i] != want[i] {
			tt.Errorf("ops[%d] = %v, want %v", i, std.Ops[i], want[i])
		}
	}
}

func TestCompileToASMRejectsVMSources(tt *testing.T) {
	tt.Parallel()

	for _, kind := range []SourceKind{SourceCoreVM, SourceStdVM} {
		if _, _, err := compileToASM(kind, []byte("Set 1\n")); !errors.Is(err, ErrInvalidSource) {
			tt.Errorf("compileToASM(%s) err = %v, want ErrInvalidSource", kind, err)
		}
	}
}

func TestCoalescePrefersStandard(tt *testing.T) {
	tt.Parallel()

	std := vm.StandardProgram{Ops: []vm.Op{{Code: vm.OpSin}}}

	got := coalesce(vm.CoreProgram{}, std)
	if len(got.Ops) != 1 {
		tt.Errorf("coalesce did not prefer the populated StandardProgram")
	}
}

func TestCoalesceWidensCore(tt *testing.T) {
	tt.Parallel()

	core := vm.CoreProgram{Ops: []vm.Op{vm.Set(1)}}

	got := coalesce(core, vm.StandardProgram{})
	if len(got.Ops) != 1 {
		tt.Errorf("coalesce did not widen the populated CoreProgram")
	}
}
