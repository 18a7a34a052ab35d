package asm

import "github.com/kiwi-lang/kiwi/internal/vm"

// netMovement sums every Move op's operand, for asserting pointer
// restoration in tests: a balanced To(L)/From(L) pair always nets to zero.
func netMovement(ops []vm.Op) int64 {
	var total int64

	for _, op := range ops {
		if op.Code == vm.OpMove {
			total += op.N
		}
	}

	return total
}

// netRefDepth counts Deref as +1 and Refer as -1, for asserting that every
// indirection opened by To is closed by the matching From.
func netRefDepth(ops []vm.Op) int {
	depth := 0

	for _, op := range ops {
		switch op.Code {
		case vm.OpDeref:
			depth++
		case vm.OpRefer:
			depth--
		}
	}

	return depth
}
