package vm

// program.go defines the two program types that every other package
// exchanges: CoreProgram, which may use only Core-tier ops, and
// StandardProgram, its superset. Both are flat op sequences validated by
// [MatchBlocks].

import (
	"errors"
	"fmt"
)

// ErrStandardOnly is returned when a StandardProgram using a Standard-tier op
// is asked to downgrade to Core -- the InvalidSource error kind at the CLI
// boundary.
var ErrStandardOnly = errors.New("vm: standard-tier op not valid in a core program")

// CoreProgram is a flat sequence of Core-tier ops.
type CoreProgram struct {
	Ops []Op
}

// StandardProgram is a flat sequence of ops drawn from the full Core+Standard
// instruction set.
type StandardProgram struct {
	Ops []Op
}

// Validate checks that every op is Core-tier and that structured blocks are
// well formed, returning the resolved [BlockTable].
func (p CoreProgram) Validate() (*BlockTable, error) {
	for i, op := range p.Ops {
		if !op.IsCore() {
			return nil, fmt.Errorf("%w: %s at %d", ErrStandardOnly, op, i)
		}
	}

	return MatchBlocks(p.Ops)
}

// Validate checks that structured blocks in p are well formed, returning the
// resolved [BlockTable].
func (p StandardProgram) Validate() (*BlockTable, error) {
	return MatchBlocks(p.Ops)
}

// AsStandard widens a CoreProgram to a StandardProgram. Every Core program is
// trivially a valid Standard program.
func (p CoreProgram) AsStandard() StandardProgram {
	ops := make([]Op, len(p.Ops))
	copy(ops, p.Ops)

	return StandardProgram{Ops: ops}
}

// ToCore narrows a StandardProgram to a CoreProgram, failing with
// [ErrStandardOnly] if it contains any Standard-tier op. This is the
// "downgrade rejection" invariant: a downgrade either succeeds exactly, or
// fails naming the offending op.
func (p StandardProgram) ToCore() (CoreProgram, error) {
	ops := make([]Op, len(p.Ops))
	copy(ops, p.Ops)

	core := CoreProgram{Ops: ops}
	if _, err := core.Validate(); err != nil {
		return CoreProgram{}, err
	}

	return core, nil
}
