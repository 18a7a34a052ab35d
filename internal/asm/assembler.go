package asm

// assembler.go resolves an unassembled sequence of assembly ops into a flat,
// callable vm.StandardProgram: it validates structured blocks and call
// targets, wraps every function body with the prologue/epilogue that
// implements the calling convention, and lays out the initial stack.

import (
	"errors"
	"fmt"

	"github.com/kiwi-lang/kiwi/internal/vm"
)

// DefaultCallStackSize matches the CLI's -c default.
const DefaultCallStackSize = 8192

var (
	// ErrUndefinedFunction is returned when a CallFunction op targets an
	// index with no corresponding Function definition in the program.
	ErrUndefinedFunction = errors.New("asm: call references an undefined function")

	// ErrBlockMismatch wraps vm.ErrUnmatchedBlock for the AsmError kind.
	ErrBlockMismatch = errors.New("asm: mismatched structured block")

	// ErrCallStackSize is returned when the requested call stack size is
	// not usable.
	ErrCallStackSize = errors.New("asm: invalid call stack size")
)

// AsmError reports an assembler failure at a specific op position in the
// unassembled input.
type AsmError struct {
	Pos int
	Err error
}

func (e *AsmError) Error() string {
	return fmt.Sprintf("asm: at op %d: %v", e.Pos, e.Err)
}

func (e *AsmError) Unwrap() error { return e.Err }

// Program is an unassembled sequence of assembly-level ops, typically
// collected by running Location/Builder methods: Function/While/If/Else/End
// blocks are present, but the calling convention has not yet been woven in
// and there is no initial stack pointer.
type Program struct {
	Ops []vm.Op
}

// CallFunction emits the canonical call sequence: stage index in the
// register, then Call. Assemble can statically verify calls built this way
// against the functions actually defined in the program; calls built by
// computing the register value some other way are not checked.
func (b *Builder) CallFunction(index int64) {
	b.SetRegister(index)
	b.Call()
}

// Assemble validates p and lowers it to a flat vm.StandardProgram: every
// Function body is wrapped with the prologue/epilogue pair that implements
// the calling convention, and the program is prefixed with the ops that
// park SP and FP at vm.BottomOfStack. Pass callStackSize 0 for
// [DefaultCallStackSize]; a negative size fails with [ErrCallStackSize]. The
// size is not otherwise checked against the tape or the program.
func (p Program) Assemble(callStackSize int64) (vm.StandardProgram, error) {
	if callStackSize < 0 {
		return vm.StandardProgram{}, fmt.Errorf("%w: %d", ErrCallStackSize, callStackSize)
	}

	if callStackSize == 0 {
		callStackSize = DefaultCallStackSize
	}

	table, err := vm.MatchBlocks(p.Ops)
	if err != nil {
		return vm.StandardProgram{}, fmt.Errorf("%w: %w", ErrBlockMismatch, err)
	}

	if err := validateCallTargets(p.Ops, len(table.FuncEntry)); err != nil {
		return vm.StandardProgram{}, err
	}

	var init Builder
	BottomOfStack.CopyAddressTo(SP, &init)
	BottomOfStack.CopyAddressTo(FP, &init)

	out := make([]vm.Op, 0, len(init.Ops)+len(p.Ops)+4*len(table.FuncEntry))
	out = append(out, init.Ops...)
	out = append(out, wrapFunctions(p.Ops)...)

	return vm.StandardProgram{Ops: out}, nil
}

// AssembleCore is Assemble narrowed to a vm.CoreProgram; it fails with
// [vm.ErrStandardOnly] if p uses any Standard-tier op.
func (p Program) AssembleCore(callStackSize int64) (vm.CoreProgram, error) {
	std, err := p.Assemble(callStackSize)
	if err != nil {
		return vm.CoreProgram{}, err
	}

	return std.ToCore()
}

// validateCallTargets checks every CallFunction-built call (a Set(n)
// immediately followed by Call) against the number of functions the program
// actually defines.
func validateCallTargets(ops []vm.Op, numFuncs int) error {
	for i := 0; i+1 < len(ops); i++ {
		if ops[i].Code != vm.OpSet || ops[i+1].Code != vm.OpCall {
			continue
		}

		index := ops[i].N
		if index < 0 || int(index) >= numFuncs {
			return &AsmError{Pos: i + 1, Err: fmt.Errorf("%w: %d", ErrUndefinedFunction, index)}
		}
	}

	return nil
}

// wrapFunctions injects the calling convention's prologue after every
// Function opener and its epilogue before every Return.
func wrapFunctions(ops []vm.Op) []vm.Op {
	out := make([]vm.Op, 0, len(ops))

	for _, op := range ops {
		switch op.Code {
		case vm.OpFunction:
			out = append(out, op)
			out = append(out, prologue()...)
		case vm.OpReturn:
			out = append(out, epilogue()...)
			out = append(out, op)
		default:
			out = append(out, op)
		}
	}

	return out
}

// prologue saves the caller's frame pointer on the stack, then makes the new
// frame's FP equal to the current SP.
func prologue() []vm.Op {
	var b Builder
	FP.Push(&b)
	SP.CopyTo(FP, &b)

	return b.Ops
}

// epilogue discards the callee's locals by resetting SP to FP, then restores
// the caller's frame pointer.
func epilogue() []vm.Op {
	var b Builder
	FP.CopyTo(SP, &b)
	FP.Pop(&b)

	return b.Ops
}
