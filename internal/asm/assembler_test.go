package asm

import (
	"errors"
	"testing"

	"github.com/kiwi-lang/kiwi/internal/interp"
	"github.com/kiwi-lang/kiwi/internal/vm"
)

// TestCallReturn is S3: function 0 reads cell A, increments it, writes it
// back, and returns. With A=7, calling it, adding '0' to A and restoring A
// leaves '8' in the register.
func TestCallReturn(tt *testing.T) {
	tt.Parallel()

	var b Builder

	b.BeginFunction()
	A.RestoreFrom(&b)
	A.Inc(&b)
	b.Return()
	b.End()

	A.Set(7, &b)
	b.CallFunction(0)
	TMP.Set('0', &b)
	A.Add(TMP, &b)
	A.RestoreFrom(&b)

	prog := Program{Ops: b.Ops}

	std, err := prog.Assemble(64)
	if err != nil {
		tt.Fatalf("Assemble: %v", err)
	}

	state, err := interp.RunStandard(std, vm.NewState(4096), vm.NewDevices())
	if err != nil {
		tt.Fatalf("RunStandard: %v", err)
	}

	if state.Reg.Int() != '8' {
		tt.Errorf("Reg = %d, want %d ('8')", state.Reg.Int(), '8')
	}
}

func TestAssembleRejectsUnmatchedBlock(tt *testing.T) {
	tt.Parallel()

	prog := Program{Ops: []vm.Op{{Code: vm.OpIf}}}

	if _, err := prog.Assemble(0); !errors.Is(err, ErrBlockMismatch) {
		tt.Errorf("err = %v, want ErrBlockMismatch", err)
	}
}

func TestAssembleRejectsUndefinedFunction(tt *testing.T) {
	tt.Parallel()

	var b Builder
	b.CallFunction(3)

	prog := Program{Ops: b.Ops}

	_, err := prog.Assemble(0)

	var asmErr *AsmError
	if !errors.As(err, &asmErr) || !errors.Is(err, ErrUndefinedFunction) {
		tt.Errorf("err = %v, want AsmError wrapping ErrUndefinedFunction", err)
	}
}

// TestDowngradeAfterAssemble exercises invariant 6 end to end: a Standard
// program assembled from ops that never use a Standard-only op downgrades
// to Core cleanly.
func TestDowngradeAfterAssemble(tt *testing.T) {
	tt.Parallel()

	var b Builder
	A.Set(1, &b)

	prog := Program{Ops: b.Ops}

	std, err := prog.Assemble(0)
	if err != nil {
		tt.Fatalf("Assemble: %v", err)
	}

	if _, err := std.ToCore(); err != nil {
		tt.Errorf("ToCore: %v", err)
	}
}
