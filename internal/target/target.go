/*
Package target implements the two concrete backends: emitters that consume a
flat Core or Standard VM program and produce a single self-contained native
source file reproducing the VM's semantics. Indentation in emitted source is
for readability only; the shared structured-block table from vm.MatchBlocks
is what every emitter actually relies on for correctness.
*/
package target

import (
	"fmt"

	"github.com/kiwi-lang/kiwi/internal/vm"
)

// BuildError reports an emitter failure: malformed structured blocks in the
// input program, or an op the backend has no lowering for.
type BuildError struct {
	Pos int
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("target: at op %d: %v", e.Pos, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// CompiledTarget is a native code backend.
type CompiledTarget interface {
	// BuildCore emits a self-contained translation unit for a Core-tier
	// program.
	BuildCore(vm.CoreProgram) (string, error)

	// BuildStandard emits a self-contained translation unit for a
	// Standard-tier program.
	BuildStandard(vm.StandardProgram) (string, error)
}
