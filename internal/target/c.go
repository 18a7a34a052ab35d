package target

// c.go emits one self-contained C source file per program: the VM state as
// file-scope statics (tape, register, pointer, reference stack, function
// table), with each op lowered to one C statement and Function..End lowered
// to a nested function whose address is recorded in the function table at
// its End. This relies on a compiler that supports nested function
// definitions with known addresses at compile time (GCC; portability to
// other compiler families is explicitly out of scope).

import (
	"fmt"
	"strings"

	"github.com/kiwi-lang/kiwi/internal/vm"
)

// C is the portable-C backend.
type C struct{}

const cCorePreamble = `#include <stdio.h>

union cell {
	long long i;
	double f;
	union cell *p;
};

static union cell tape[%d];
static union cell *refs[%d];
static union cell *ptr = tape;
static union cell **ref = refs;
static union cell reg;
static void (*funs[4096])(void);

`

const cMainOpen = `int main(void) {
	reg.i = 0;
`

const cStandardExtra = `#include <math.h>
#include <stdlib.h>

static union cell peek_channel(long long channel) {
	union cell z;
	z.i = 0;
	return z;
}

static void poke_channel(long long channel, union cell val) {}

`

// BuildCore emits a translation unit for a Core-tier program.
func (C) BuildCore(p vm.CoreProgram) (string, error) {
	return buildC(p.Ops, false)
}

// BuildStandard emits a translation unit for a Standard-tier program.
func (C) BuildStandard(p vm.StandardProgram) (string, error) {
	return buildC(p.Ops, true)
}

func buildC(ops []vm.Op, standard bool) (string, error) {
	table, err := vm.MatchBlocks(ops)
	if err != nil {
		return "", &BuildError{Err: err}
	}

	var out strings.Builder

	fmt.Fprintf(&out, cCorePreamble, vm.DefaultTapeSize, vm.DefaultRefStackSize)

	if standard {
		out.WriteString(cStandardExtra)
	}

	out.WriteString(cMainOpen)

	funcNumber := make(map[int]int)
	nextFunc := 0
	indent := 1

	tab := func() string { return strings.Repeat("\t", indent) }

	for i, op := range ops {
		switch op.Code {
		case vm.OpComment:
			for _, line := range strings.Split(op.Text, "\n") {
				fmt.Fprintf(&out, "%s// %s\n", tab(), strings.TrimSpace(line))
			}

			continue

		case vm.OpFunction:
			funcNumber[i] = nextFunc
			fmt.Fprintf(&out, "%svoid f%d(void) {\n", tab(), nextFunc)
			nextFunc++
			indent++

			continue

		case vm.OpWhile:
			fmt.Fprintf(&out, "%swhile (reg.i) {\n", tab())
			indent++

			continue

		case vm.OpIf:
			fmt.Fprintf(&out, "%sif (reg.i) {\n", tab())
			indent++

			continue

		case vm.OpElse:
			indent--
			fmt.Fprintf(&out, "%s} else {\n", tab())
			indent++

			continue

		case vm.OpEnd:
			indent--

			switch table.OpenerKind[i] {
			case vm.OpFunction:
				fn := funcNumber[table.Opener[i]]
				fmt.Fprintf(&out, "%s}\n%sfuns[%d] = f%d;\n", tab(), tab(), fn, fn)
			default:
				fmt.Fprintf(&out, "%s}\n", tab())
			}

			continue
		}

		line, err := cStatement(op)
		if err != nil {
			return "", &BuildError{Pos: i, Err: err}
		}

		fmt.Fprintf(&out, "%s%s\n", tab(), line)
	}

	out.WriteString("\treturn 0;\n}\n")

	return out.String(), nil
}

func cStatement(op vm.Op) (string, error) {
	switch op.Code {
	case vm.OpSet:
		return fmt.Sprintf("reg.i = %d;", op.N), nil
	case vm.OpSave:
		return "*ptr = reg;", nil
	case vm.OpRestore:
		return "reg = *ptr;", nil
	case vm.OpMove:
		return fmt.Sprintf("ptr += %d;", op.N), nil
	case vm.OpWhere:
		return "reg.p = ptr;", nil
	case vm.OpDeref:
		return "*ref++ = ptr; ptr = ptr->p;", nil
	case vm.OpRefer:
		return "ptr = *--ref;", nil
	case vm.OpIndex:
		return "reg.p += ptr->i;", nil
	case vm.OpBitwiseNand:
		return "reg.i = ~(reg.i & ptr->i);", nil
	case vm.OpAdd:
		return "reg.i += ptr->i;", nil
	case vm.OpSub:
		return "reg.i -= ptr->i;", nil
	case vm.OpMul:
		return "reg.i *= ptr->i;", nil
	case vm.OpDiv:
		return "reg.i /= ptr->i;", nil
	case vm.OpRem:
		return "reg.i %= ptr->i;", nil
	case vm.OpIsNonNegative:
		return "reg.i = reg.i >= 0;", nil
	case vm.OpGet:
		return fmt.Sprintf("{ int c = getchar(); reg.i = (c == EOF) ? -1 : c; } /* channel %d */", op.N), nil
	case vm.OpPut:
		if op.N == 1 {
			return "fputc((int) reg.i, stderr);", nil
		}

		return fmt.Sprintf("putchar((int) reg.i); /* channel %d */", op.N), nil
	case vm.OpCall:
		return "funs[reg.i]();", nil
	case vm.OpReturn:
		return "return;", nil
	case vm.OpAddF:
		return "reg.f += ptr->f;", nil
	case vm.OpSubF:
		return "reg.f -= ptr->f;", nil
	case vm.OpMulF:
		return "reg.f *= ptr->f;", nil
	case vm.OpDivF:
		return "reg.f /= ptr->f;", nil
	case vm.OpRemF:
		return "reg.f = fmod(reg.f, ptr->f);", nil
	case vm.OpPow:
		return "reg.f = pow(reg.f, ptr->f);", nil
	case vm.OpSin:
		return "reg.f = sin(reg.f);", nil
	case vm.OpCos:
		return "reg.f = cos(reg.f);", nil
	case vm.OpTan:
		return "reg.f = tan(reg.f);", nil
	case vm.OpASin:
		return "reg.f = asin(reg.f);", nil
	case vm.OpACos:
		return "reg.f = acos(reg.f);", nil
	case vm.OpATan:
		return "reg.f = atan(reg.f);", nil
	case vm.OpToInt:
		return "reg.i = (long long) reg.f;", nil
	case vm.OpToFloat:
		return "reg.f = (double) reg.i;", nil
	case vm.OpPeek:
		return fmt.Sprintf("reg = peek_channel(%d);", op.N), nil
	case vm.OpPoke:
		return fmt.Sprintf("poke_channel(%d, reg);", op.N), nil
	case vm.OpAlloc:
		return fmt.Sprintf("reg.p = malloc(%d * sizeof(union cell));", op.N), nil
	case vm.OpFree:
		return "free(reg.p);", nil
	default:
		return "", fmt.Errorf("target: no C lowering for %s", op.Code)
	}
}
