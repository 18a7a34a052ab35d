/*
Package interp implements the reference interpreter: given a flat Core or
Standard VM program and a device set, it walks the instruction sequence
sequentially, maintaining the machine state vm.State describes. It is the
`run` mode of the CLI and the test oracle for target-equivalence tests.

Structured control ops use the precomputed skip table from
vm.MatchBlocks so that branches and loops are O(1) per decision: entering a
Function during normal sequential flow skips straight past its body (only
Call jumps in), If/Else/End and While/End behave as ordinary structured
control.
*/
package interp

import (
	"errors"
	"fmt"
	"math"

	"github.com/kiwi-lang/kiwi/internal/vm"
)

// ErrDivideByZero is returned by Div/Rem (and their float counterparts) when
// the divisor cell is zero.
var ErrDivideByZero = errors.New("interp: division by zero")

// ErrCallStack is returned when Return is executed with no matching Call, or
// when Call targets an index with no defined function.
var ErrCallStack = errors.New("interp: call stack")

// RuntimeError reports a fault during Run: the failing op, its position in
// the flat program, and the underlying cause.
type RuntimeError struct {
	Pos int
	Op  vm.Op
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("interp: op %d (%s): %v", e.Pos, e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// DefaultHeapStart is where Alloc begins handing out cells when no
// WithHeapStart option is given: just past the reserved register file, the
// same convention the assembler uses for BottomOfStack, plus the default
// call stack size, so a program that didn't run through the assembler still
// gets a heap that doesn't collide with it.
const DefaultHeapStart = vm.Address(vm.NumReserved) + 8192

// Option configures an Interpreter at construction.
type Option func(*Interpreter)

// WithHeapStart overrides where Alloc begins handing out cells.
func WithHeapStart(addr vm.Address) Option {
	return func(ip *Interpreter) { ip.heapNext = addr }
}

// Interpreter executes a flat VM program against a [vm.State] and a
// [vm.Devices] set.
type Interpreter struct {
	Ops     []vm.Op
	State   *vm.State
	Devices *vm.Devices

	blocks   *vm.BlockTable
	pc       int
	calls    []int
	heapNext vm.Address
}

// New builds an Interpreter over ops, validating its structured blocks up
// front so that every Call/branch/loop decision during Run is a table
// lookup.
func New(ops []vm.Op, state *vm.State, devices *vm.Devices, opts ...Option) (*Interpreter, error) {
	blocks, err := vm.MatchBlocks(ops)
	if err != nil {
		return nil, err
	}

	ip := &Interpreter{
		Ops:      ops,
		State:    state,
		Devices:  devices,
		blocks:   blocks,
		heapNext: DefaultHeapStart,
	}

	for _, opt := range opts {
		opt(ip)
	}

	return ip, nil
}

// RunCore interprets a CoreProgram to completion and returns the resulting
// state.
func RunCore(p vm.CoreProgram, state *vm.State, devices *vm.Devices, opts ...Option) (*vm.State, error) {
	ip, err := New(p.Ops, state, devices, opts...)
	if err != nil {
		return nil, err
	}

	return state, ip.Run()
}

// RunStandard interprets a StandardProgram to completion and returns the
// resulting state.
func RunStandard(p vm.StandardProgram, state *vm.State, devices *vm.Devices, opts ...Option) (*vm.State, error) {
	ip, err := New(p.Ops, state, devices, opts...)
	if err != nil {
		return nil, err
	}

	return state, ip.Run()
}

// Run executes ops from the beginning until the program counter runs off
// the end of the sequence.
func (ip *Interpreter) Run() error {
	for ip.pc < len(ip.Ops) {
		if err := ip.step(); err != nil {
			return err
		}
	}

	return nil
}

func (ip *Interpreter) fault(op vm.Op, err error) error {
	return &RuntimeError{Pos: ip.pc, Op: op, Err: err}
}

// step executes exactly the op at the current program counter. Every branch
// is responsible for leaving pc pointing at the next op to execute; nothing
// after the switch assumes a uniform pc++.
func (ip *Interpreter) step() error { //nolint:gocyclo
	op := ip.Ops[ip.pc]
	s := ip.State

	switch op.Code {
	case vm.OpSet:
		s.Reg = vm.IntCell(op.N)
		ip.pc++

	case vm.OpSave:
		if err := s.Save(); err != nil {
			return ip.fault(op, err)
		}

		ip.pc++

	case vm.OpRestore:
		if err := s.Restore(); err != nil {
			return ip.fault(op, err)
		}

		ip.pc++

	case vm.OpMove:
		s.Move(op.N)
		ip.pc++

	case vm.OpWhere:
		s.Reg = vm.AddrCell(s.Ptr)
		ip.pc++

	case vm.OpDeref:
		if err := s.PushRef(); err != nil {
			return ip.fault(op, err)
		}

		ip.pc++

	case vm.OpRefer:
		if err := s.PopRef(); err != nil {
			return ip.fault(op, err)
		}

		ip.pc++

	case vm.OpIndex:
		cell, err := s.Cell()
		if err != nil {
			return ip.fault(op, err)
		}

		s.Reg = vm.AddrCell(vm.Address(s.Reg.Int() + cell.Int()))
		ip.pc++

	case vm.OpBitwiseNand:
		cell, err := s.Cell()
		if err != nil {
			return ip.fault(op, err)
		}

		s.Reg = vm.IntCell(^(s.Reg.Int() & cell.Int()))
		ip.pc++

	case vm.OpAdd, vm.OpSub, vm.OpMul, vm.OpDiv, vm.OpRem:
		if err := ip.intArith(op.Code); err != nil {
			return ip.fault(op, err)
		}

		ip.pc++

	case vm.OpIsNonNegative:
		if s.Reg.Int() >= 0 {
			s.Reg = vm.IntCell(1)
		} else {
			s.Reg = vm.IntCell(0)
		}

		ip.pc++

	case vm.OpGet:
		cell, err := ip.Devices.Get(op.N)
		if err != nil {
			return ip.fault(op, err)
		}

		s.Reg = cell
		ip.pc++

	case vm.OpPut:
		if err := ip.Devices.Put(op.N, s.Reg); err != nil {
			return ip.fault(op, err)
		}

		ip.pc++

	case vm.OpFunction:
		// Normal sequential flow never enters a function body; only Call
		// does. Skip straight past it.
		ip.pc = ip.blocks.End[ip.pc] + 1

	case vm.OpCall:
		idx := s.Reg.Int()
		if idx < 0 || int(idx) >= len(ip.blocks.FuncEntry) {
			return ip.fault(op, fmt.Errorf("%w: undefined function %d", ErrCallStack, idx))
		}

		ip.calls = append(ip.calls, ip.pc+1)
		ip.pc = ip.blocks.FuncEntry[idx]

	case vm.OpReturn:
		if len(ip.calls) == 0 {
			return ip.fault(op, fmt.Errorf("%w: return with no call", ErrCallStack))
		}

		last := len(ip.calls) - 1
		ip.pc = ip.calls[last]
		ip.calls = ip.calls[:last]

	case vm.OpWhile:
		if s.Reg.Int() == 0 {
			ip.pc = ip.blocks.End[ip.pc] + 1
		} else {
			ip.pc++
		}

	case vm.OpIf:
		if s.Reg.Int() != 0 {
			ip.pc++
		} else if elsePos, ok := ip.blocks.Else[ip.pc]; ok {
			ip.pc = elsePos + 1
		} else {
			ip.pc = ip.blocks.End[ip.pc] + 1
		}

	case vm.OpElse:
		// Only reached by falling through the end of the true branch; skip
		// the false branch entirely.
		ip.pc = ip.blocks.End[ip.blocks.Opener[ip.pc]] + 1

	case vm.OpEnd:
		if ip.blocks.OpenerKind[ip.pc] == vm.OpWhile {
			ip.pc = ip.blocks.Opener[ip.pc]
		} else {
			ip.pc++
		}

	case vm.OpComment:
		ip.pc++

	case vm.OpAddF, vm.OpSubF, vm.OpMulF, vm.OpDivF, vm.OpRemF, vm.OpPow:
		if err := ip.floatArith(op.Code); err != nil {
			return ip.fault(op, err)
		}

		ip.pc++

	case vm.OpSin, vm.OpCos, vm.OpTan, vm.OpASin, vm.OpACos, vm.OpATan:
		ip.transcendental(op.Code)
		ip.pc++

	case vm.OpToInt:
		s.Reg = vm.IntCell(int64(s.Reg.Float()))
		ip.pc++

	case vm.OpToFloat:
		s.Reg = vm.FloatCell(float64(s.Reg.Int()))
		ip.pc++

	case vm.OpPeek:
		cell, err := ip.Devices.Peek(op.N)
		if err != nil {
			return ip.fault(op, err)
		}

		s.Reg = cell
		ip.pc++

	case vm.OpPoke:
		if err := ip.Devices.Poke(op.N, s.Reg); err != nil {
			return ip.fault(op, err)
		}

		ip.pc++

	case vm.OpAlloc:
		s.Reg = vm.AddrCell(ip.heapNext)
		ip.heapNext += vm.Address(op.N)
		ip.pc++

	case vm.OpFree:
		// Alloc bumps heapNext through the tape, so Free has nothing to
		// reclaim: it is accepted and ignored, and leaks are not reported.
		ip.pc++

	default:
		return ip.fault(op, fmt.Errorf("interp: unknown opcode %s", op.Code))
	}

	return nil
}

func (ip *Interpreter) intArith(code vm.Opcode) error {
	s := ip.State

	cell, err := s.Cell()
	if err != nil {
		return err
	}

	rhs := cell.Int()

	switch code {
	case vm.OpAdd:
		s.Reg = vm.IntCell(s.Reg.Int() + rhs)
	case vm.OpSub:
		s.Reg = vm.IntCell(s.Reg.Int() - rhs)
	case vm.OpMul:
		s.Reg = vm.IntCell(s.Reg.Int() * rhs)
	case vm.OpDiv:
		if rhs == 0 {
			return ErrDivideByZero
		}

		s.Reg = vm.IntCell(s.Reg.Int() / rhs)
	case vm.OpRem:
		if rhs == 0 {
			return ErrDivideByZero
		}

		s.Reg = vm.IntCell(s.Reg.Int() % rhs)
	}

	return nil
}

func (ip *Interpreter) floatArith(code vm.Opcode) error {
	s := ip.State

	cell, err := s.Cell()
	if err != nil {
		return err
	}

	rhs := cell.Float()

	switch code {
	case vm.OpAddF:
		s.Reg = vm.FloatCell(s.Reg.Float() + rhs)
	case vm.OpSubF:
		s.Reg = vm.FloatCell(s.Reg.Float() - rhs)
	case vm.OpMulF:
		s.Reg = vm.FloatCell(s.Reg.Float() * rhs)
	case vm.OpDivF:
		if rhs == 0 {
			return ErrDivideByZero
		}

		s.Reg = vm.FloatCell(s.Reg.Float() / rhs)
	case vm.OpRemF:
		if rhs == 0 {
			return ErrDivideByZero
		}

		s.Reg = vm.FloatCell(math.Mod(s.Reg.Float(), rhs))
	case vm.OpPow:
		s.Reg = vm.FloatCell(math.Pow(s.Reg.Float(), rhs))
	}

	return nil
}

func (ip *Interpreter) transcendental(code vm.Opcode) {
	s := ip.State
	v := s.Reg.Float()

	switch code {
	case vm.OpSin:
		s.Reg = vm.FloatCell(math.Sin(v))
	case vm.OpCos:
		s.Reg = vm.FloatCell(math.Cos(v))
	case vm.OpTan:
		s.Reg = vm.FloatCell(math.Tan(v))
	case vm.OpASin:
		s.Reg = vm.FloatCell(math.Asin(v))
	case vm.OpACos:
		s.Reg = vm.FloatCell(math.Acos(v))
	case vm.OpATan:
		s.Reg = vm.FloatCell(math.Atan(v))
	}
}
