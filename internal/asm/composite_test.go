package asm

import (
	"testing"

	"github.com/kiwi-lang/kiwi/internal/interp"
	"github.com/kiwi-lang/kiwi/internal/vm"
)

// runCore assembles b's ops directly as a flat core program (no calling
// convention injected -- these tests exercise Location/composite ops in
// isolation, outside any Function body) and runs it to completion.
func runCore(tt *testing.T, b *Builder) *vm.State {
	tt.Helper()

	core := vm.CoreProgram{Ops: b.Ops}

	state, err := interp.RunCore(core, vm.NewState(256), vm.NewDevices())
	if err != nil {
		tt.Fatalf("RunCore: %v", err)
	}

	return state
}

func TestSetSaveToRestoreFrom(tt *testing.T) {
	tt.Parallel()

	var b Builder
	A.Set(42, &b)
	A.RestoreFrom(&b)

	state := runCore(tt, &b)
	if state.Reg.Int() != 42 {
		tt.Errorf("Reg = %d, want 42", state.Reg.Int())
	}
}

func TestPushPop(tt *testing.T) {
	tt.Parallel()

	var b Builder
	BottomOfStack.CopyAddressTo(SP, &b)
	A.Set(7, &b)
	A.Push(&b)
	B.Set(0, &b)
	B.Pop(&b)
	B.RestoreFrom(&b)

	state := runCore(tt, &b)
	if state.Reg.Int() != 7 {
		tt.Errorf("Reg = %d, want 7", state.Reg.Int())
	}
}

// TestComparisons exercises S5: for a=5, b=3, is_greater_than(A,B) is 1 and
// is_less_or_equal_to(A,B) is 0; the symmetric swap holds too.
func TestComparisons(tt *testing.T) {
	tt.Parallel()

	tt.Run("5 > 3", func(tt *testing.T) {
		var b Builder
		A.Set(5, &b)
		B.Set(3, &b)
		A.IsGreaterThan(B, &b)
		A.RestoreFrom(&b)

		if state := runCore(tt, &b); state.Reg.Int() != 1 {
			tt.Errorf("Reg = %d, want 1", state.Reg.Int())
		}
	})

	tt.Run("5 <= 3 is false", func(tt *testing.T) {
		var b Builder
		A.Set(5, &b)
		B.Set(3, &b)
		A.IsLessOrEqualTo(B, &b)
		A.RestoreFrom(&b)

		if state := runCore(tt, &b); state.Reg.Int() != 0 {
			tt.Errorf("Reg = %d, want 0", state.Reg.Int())
		}
	})

	tt.Run("3 > 5 is false", func(tt *testing.T) {
		var b Builder
		A.Set(3, &b)
		B.Set(5, &b)
		A.IsGreaterThan(B, &b)
		A.RestoreFrom(&b)

		if state := runCore(tt, &b); state.Reg.Int() != 0 {
			tt.Errorf("Reg = %d, want 0", state.Reg.Int())
		}
	})

	tt.Run("3 <= 5", func(tt *testing.T) {
		var b Builder
		A.Set(3, &b)
		B.Set(5, &b)
		A.IsLessOrEqualTo(B, &b)
		A.RestoreFrom(&b)

		if state := runCore(tt, &b); state.Reg.Int() != 1 {
			tt.Errorf("Reg = %d, want 1", state.Reg.Int())
		}
	})
}

// TestPointerWalk exercises S4: store the address of cell 100 into D, then
// next(D, 1) should make D point at cell 101.
func TestPointerWalk(tt *testing.T) {
	tt.Parallel()

	var b Builder
	Addr(100).CopyAddressTo(D, &b)
	D.Next(1, &b)
	Indirect(D).Set(42, &b)

	state := runCore(tt, &b)

	if got := state.Tape[101]; got.Int() != 42 {
		tt.Errorf("tape[101] = %d, want 42", got.Int())
	}
}
