package vm

// block.go implements the one structured-block matcher shared by the
// assembler, the interpreter's pre-pass, and both target emitters, per
// SPEC_FULL.md's design notes. It walks a flat op sequence once and resolves
// every Function/While/If/Else/End into an index-to-index table.

import (
	"errors"
	"fmt"
)

// ErrUnmatchedBlock is returned when an Else or End appears without a
// matching opener, or when a Function/While/If is never closed.
var ErrUnmatchedBlock = errors.New("vm: unmatched structured block")

// BlockTable is the result of matching a flat op sequence's structured
// control blocks. All indices are positions into the ops slice that was
// matched.
type BlockTable struct {
	// End maps the index of a Function, While, or If opener to the index
	// of its matching End.
	End map[int]int

	// Else maps the index of an If to the index of its Else, for Ifs that
	// have one.
	Else map[int]int

	// FuncEntry is the ordered list of function entry points: FuncEntry[i]
	// is the index of the first op inside the body of the i-th Function to
	// appear in the program, matching the numbering Call uses.
	FuncEntry []int

	// OpenerKind maps the index of an End to the opcode of its opener
	// (Function, While, or If), so the interpreter can tell at an End
	// whether falling off the end of a loop body should jump back.
	OpenerKind map[int]Opcode

	// Opener maps the index of an End or an Else to the index of its
	// opener.
	Opener map[int]int
}

type blockFrame struct {
	kind Opcode
	pos  int
}

// MatchBlocks walks ops once, validating and resolving every structured
// control block. It returns [ErrUnmatchedBlock] (wrapped with position
// detail) on any mismatch: an Else or End with no opener, or an opener left
// open at the end of the sequence.
func MatchBlocks(ops []Op) (*BlockTable, error) {
	table := &BlockTable{
		End:        make(map[int]int),
		Else:       make(map[int]int),
		OpenerKind: make(map[int]Opcode),
		Opener:     make(map[int]int),
	}

	var stack []blockFrame

	for i, op := range ops {
		switch op.Code {
		case OpFunction, OpWhile, OpIf:
			stack = append(stack, blockFrame{kind: op.Code, pos: i})
			if op.Code == OpFunction {
				table.FuncEntry = append(table.FuncEntry, i+1)
			}

		case OpElse:
			if len(stack) == 0 || stack[len(stack)-1].kind != OpIf {
				return nil, fmt.Errorf("%w: Else at %d has no matching If", ErrUnmatchedBlock, i)
			}

			table.Else[stack[len(stack)-1].pos] = i
			table.Opener[i] = stack[len(stack)-1].pos

		case OpEnd:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: End at %d has no matching opener", ErrUnmatchedBlock, i)
			}

			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			table.End[top.pos] = i
			table.Opener[i] = top.pos
			table.OpenerKind[i] = top.kind
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, fmt.Errorf("%w: %s opened at %d is never closed", ErrUnmatchedBlock, top.kind, top.pos)
	}

	return table, nil
}
