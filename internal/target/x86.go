package target

// x86.go is the label-based counterpart to c.go: the same flat op stream,
// the same shared vm.BlockTable, but structured blocks lower to labels and
// conditional jumps instead of nested C blocks, and a Function's body is
// jumped over in sequential flow and only entered through Call, exactly as
// the interpreter treats it. Output is Intel-syntax GAS assembly for
// x86-64 Linux, one cell per 8 bytes in a static .bss tape.
import (
	"fmt"
	"strings"

	"github.com/kiwi-lang/kiwi/internal/vm"
)

// X86 is the x86-64 GAS backend.
type X86 struct{}

const x86Preamble = `.intel_syntax noprefix
.section .bss
.lcomm tape, %d
.lcomm refs, %d
.lcomm refsp, 8
.lcomm reg, 8
.lcomm ptr, 8

.section .text
.global _start
_start:
	lea rax, [rip+tape]
	mov [rip+ptr], rax
	lea rax, [rip+refs]
	mov [rip+refsp], rax
	mov qword ptr [rip+reg], 0
`

const x86Exit = `	mov rax, 60
	xor rdi, rdi
	syscall
`

// BuildCore emits a GAS translation unit for a Core-tier program.
func (X86) BuildCore(p vm.CoreProgram) (string, error) {
	return buildX86(p.Ops, false)
}

// BuildStandard emits a GAS translation unit for a Standard-tier program.
func (X86) BuildStandard(p vm.StandardProgram) (string, error) {
	return buildX86(p.Ops, true)
}

func buildX86(ops []vm.Op, standard bool) (string, error) {
	table, err := vm.MatchBlocks(ops)
	if err != nil {
		return "", &BuildError{Err: err}
	}

	labels := newX86Labels(ops)

	var out strings.Builder

	fmt.Fprintf(&out, x86Preamble, vm.DefaultTapeSize*8, vm.DefaultRefStackSize*8)

	if standard {
		out.WriteString("\t# standard tier: links against __kiwi_sin/__kiwi_cos/... and __kiwi_alloc/__kiwi_free\n")
	}

	for i, op := range ops {
		switch op.Code {
		case vm.OpComment:
			for _, line := range strings.Split(op.Text, "\n") {
				fmt.Fprintf(&out, "\t# %s\n", strings.TrimSpace(line))
			}

		case vm.OpFunction:
			fmt.Fprintf(&out, "\tjmp %s\n%s:\n", labels.skip[i], labels.entry[i])

		case vm.OpWhile:
			fmt.Fprintf(&out, "%s:\n\tmov rax, [rip+reg]\n\ttest rax, rax\n\tjz %s\n", labels.entry[i], labels.end[i])

		case vm.OpIf:
			target := labels.end[i]
			if elsePos, ok := table.Else[i]; ok {
				target = labels.entry[elsePos]
			}

			fmt.Fprintf(&out, "\tmov rax, [rip+reg]\n\ttest rax, rax\n\tjz %s\n", target)

		case vm.OpElse:
			opener := table.Opener[i]
			fmt.Fprintf(&out, "\tjmp %s\n%s:\n", labels.end[opener], labels.entry[i])

		case vm.OpEnd:
			opener := table.Opener[i]

			switch table.OpenerKind[i] {
			case vm.OpFunction:
				fmt.Fprintf(&out, "\tret\n%s:\n", labels.skip[opener])
			case vm.OpWhile:
				fmt.Fprintf(&out, "\tjmp %s\n%s:\n", labels.entry[opener], labels.end[opener])
			case vm.OpIf:
				fmt.Fprintf(&out, "%s:\n", labels.end[opener])
			}

		default:
			line, err := x86Statement(op)
			if err != nil {
				return "", &BuildError{Pos: i, Err: err}
			}

			out.WriteString(line)
		}
	}

	out.WriteString(x86Exit)

	if len(table.FuncEntry) > 0 {
		out.WriteString("\n.section .data\nfuntab:\n")

		for i := range ops {
			if ops[i].Code == vm.OpFunction {
				fmt.Fprintf(&out, "\t.quad %s\n", labels.entry[i])
			}
		}
	}

	return out.String(), nil
}

// x86Labels assigns one entry label per structured-block opener up front, so
// both forward jumps (If, Function's skip-over) and backward jumps (End of
// a While) resolve with a single map lookup regardless of emission order.
type x86Labels struct {
	entry map[int]string
	end   map[int]string
	skip  map[int]string
}

func newX86Labels(ops []vm.Op) x86Labels {
	labels := x86Labels{entry: map[int]string{}, end: map[int]string{}, skip: map[int]string{}}
	n := 0

	for i, op := range ops {
		switch op.Code {
		case vm.OpFunction:
			n++
			labels.entry[i] = fmt.Sprintf(".Lfunc%d", n)
			labels.skip[i] = fmt.Sprintf(".Lfunc%dskip", n)
			labels.end[i] = labels.skip[i]
		case vm.OpWhile:
			n++
			labels.entry[i] = fmt.Sprintf(".Lwhile%d", n)
			labels.end[i] = fmt.Sprintf(".Lwhile%dend", n)
		case vm.OpIf:
			n++
			labels.entry[i] = fmt.Sprintf(".Lif%d", n)
			labels.end[i] = fmt.Sprintf(".Lif%dend", n)
		case vm.OpElse:
			n++
			labels.entry[i] = fmt.Sprintf(".Lelse%d", n)
		}
	}

	return labels
}

func x86Statement(op vm.Op) (string, error) {
	switch op.Code {
	case vm.OpSet:
		return fmt.Sprintf("\tmov qword ptr [rip+reg], %d\n", op.N), nil
	case vm.OpSave:
		return "\tmov rax, [rip+ptr]\n\tmov rbx, [rip+reg]\n\tmov [rax], rbx\n", nil
	case vm.OpRestore:
		return "\tmov rax, [rip+ptr]\n\tmov rbx, [rax]\n\tmov [rip+reg], rbx\n", nil
	case vm.OpMove:
		return fmt.Sprintf("\tadd qword ptr [rip+ptr], %d\n", op.N*8), nil
	case vm.OpWhere:
		return "\tmov rax, [rip+ptr]\n\tmov [rip+reg], rax\n", nil
	case vm.OpDeref:
		return "\tmov rax, [rip+refsp]\n\tmov rbx, [rip+ptr]\n\tmov [rax], rbx\n\tadd rax, 8\n\tmov [rip+refsp], rax\n" +
			"\tmov rax, [rbx]\n\tmov [rip+ptr], rax\n", nil
	case vm.OpRefer:
		return "\tmov rax, [rip+refsp]\n\tsub rax, 8\n\tmov [rip+refsp], rax\n\tmov rbx, [rax]\n\tmov [rip+ptr], rbx\n", nil
	case vm.OpIndex:
		return "\tmov rax, [rip+ptr]\n\tmov rax, [rax]\n\tshl rax, 3\n\tadd [rip+reg], rax\n", nil
	case vm.OpBitwiseNand:
		return "\tmov rax, [rip+ptr]\n\tmov rax, [rax]\n\tand rax, [rip+reg]\n\tnot rax\n\tmov [rip+reg], rax\n", nil
	case vm.OpAdd:
		return "\tmov rax, [rip+ptr]\n\tmov rax, [rax]\n\tadd [rip+reg], rax\n", nil
	case vm.OpSub:
		return "\tmov rax, [rip+ptr]\n\tmov rax, [rax]\n\tsub [rip+reg], rax\n", nil
	case vm.OpMul:
		return "\tmov rax, [rip+reg]\n\tmov rbx, [rip+ptr]\n\timul rax, [rbx]\n\tmov [rip+reg], rax\n", nil
	case vm.OpDiv:
		return "\tmov rax, [rip+reg]\n\tcqo\n\tmov rbx, [rip+ptr]\n\tidiv qword ptr [rbx]\n\tmov [rip+reg], rax\n", nil
	case vm.OpRem:
		return "\tmov rax, [rip+reg]\n\tcqo\n\tmov rbx, [rip+ptr]\n\tidiv qword ptr [rbx]\n\tmov [rip+reg], rdx\n", nil
	case vm.OpIsNonNegative:
		return "\tmov rax, [rip+reg]\n\txor rbx, rbx\n\ttest rax, rax\n\tsetns bl\n\tmov [rip+reg], rbx\n", nil
	case vm.OpGet:
		return fmt.Sprintf("\t# Get channel %d: read one byte into reg (-1 on EOF)\n"+
			"\tmov qword ptr [rip+reg], 0\n\txor eax, eax\n\txor edi, edi\n\tlea rsi, [rip+reg]\n\tmov rdx, 1\n\tsyscall\n"+
			"\ttest rax, rax\n\tjg 1f\n\tmov qword ptr [rip+reg], -1\n1:\n", op.N), nil
	case vm.OpPut:
		fd := 1
		if op.N == 1 {
			fd = 2
		}

		return fmt.Sprintf("\t# Put channel %d: write reg's low byte\n"+
			"\tmov rax, 1\n\tmov rdi, %d\n\tlea rsi, [rip+reg]\n\tmov rdx, 1\n\tsyscall\n", op.N, fd), nil
	case vm.OpCall:
		return "\tmov rax, [rip+reg]\n\tlea rbx, [rip+funtab]\n\tcall qword ptr [rbx+rax*8]\n", nil
	case vm.OpReturn:
		return "\tret\n", nil
	case vm.OpAddF:
		return "\tmovsd xmm0, [rip+reg]\n\tmov rax, [rip+ptr]\n\taddsd xmm0, [rax]\n\tmovsd [rip+reg], xmm0\n", nil
	case vm.OpSubF:
		return "\tmovsd xmm0, [rip+reg]\n\tmov rax, [rip+ptr]\n\tsubsd xmm0, [rax]\n\tmovsd [rip+reg], xmm0\n", nil
	case vm.OpMulF:
		return "\tmovsd xmm0, [rip+reg]\n\tmov rax, [rip+ptr]\n\tmulsd xmm0, [rax]\n\tmovsd [rip+reg], xmm0\n", nil
	case vm.OpDivF:
		return "\tmovsd xmm0, [rip+reg]\n\tmov rax, [rip+ptr]\n\tdivsd xmm0, [rax]\n\tmovsd [rip+reg], xmm0\n", nil
	case vm.OpRemF, vm.OpPow, vm.OpSin, vm.OpCos, vm.OpTan, vm.OpASin, vm.OpACos, vm.OpATan:
		name := strings.ToLower(op.Code.String())
		return fmt.Sprintf("\t# %s: delegated to the runtime support library\n\tcall __kiwi_%s\n", op.Code, name), nil
	case vm.OpToInt:
		return "\tcvttsd2si rax, [rip+reg]\n\tmov [rip+reg], rax\n", nil
	case vm.OpToFloat:
		return "\tcvtsi2sd xmm0, [rip+reg]\n\tmovsd [rip+reg], xmm0\n", nil
	case vm.OpPeek:
		return fmt.Sprintf("\t# Peek channel %d: leaves reg at zero if unattached\n\tmov qword ptr [rip+reg], 0\n", op.N), nil
	case vm.OpPoke:
		return fmt.Sprintf("\t# Poke channel %d: no-op if unattached\n", op.N), nil
	case vm.OpAlloc:
		return fmt.Sprintf("\tmov rdi, %d\n\tcall __kiwi_alloc\n\tmov [rip+reg], rax\n", op.N), nil
	case vm.OpFree:
		return "\tmov rdi, [rip+reg]\n\tcall __kiwi_free\n", nil
	default:
		return "", fmt.Errorf("target: no x86 lowering for %s", op.Code)
	}
}
