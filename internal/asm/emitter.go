package asm

import "github.com/kiwi-lang/kiwi/internal/vm"

// Builder accumulates a flat sequence of VM ops as Location methods and
// composite operations are evaluated against it. It is the assembly-level
// analogue of vm.Op: every method appends exactly the ops its name
// describes.
type Builder struct {
	Ops []vm.Op

	funcDepth int
}

func (b *Builder) emit(op vm.Op) { b.Ops = append(b.Ops, op) }

// MovePointer emits Move(n).
func (b *Builder) MovePointer(n int64) { b.emit(vm.MoveBy(n)) }

// Deref emits Deref.
func (b *Builder) Deref() { b.emit(vm.Op{Code: vm.OpDeref}) }

// Refer emits Refer.
func (b *Builder) Refer() { b.emit(vm.Op{Code: vm.OpRefer}) }

// Where emits Where.
func (b *Builder) Where() { b.emit(vm.Op{Code: vm.OpWhere}) }

// Save emits Save.
func (b *Builder) Save() { b.emit(vm.Op{Code: vm.OpSave}) }

// Restore emits Restore.
func (b *Builder) Restore() { b.emit(vm.Op{Code: vm.OpRestore}) }

// SetRegister emits Set(n).
func (b *Builder) SetRegister(n int64) { b.emit(vm.Set(n)) }

// Index emits Index.
func (b *Builder) Index() { b.emit(vm.Op{Code: vm.OpIndex}) }

// BitwiseNand emits BitwiseNand.
func (b *Builder) BitwiseNand() { b.emit(vm.Op{Code: vm.OpBitwiseNand}) }

// IsNonNegative emits IsNonNegative.
func (b *Builder) IsNonNegative() { b.emit(vm.Op{Code: vm.OpIsNonNegative}) }

// AppendOp emits op verbatim. It is the primitive [Location.binop] and the
// float composite ops build on.
func (b *Builder) AppendOp(op vm.Op) { b.emit(op) }

// Get emits Get(src).
func (b *Builder) Get(src int64) { b.emit(vm.Get(src)) }

// Put emits Put(dst).
func (b *Builder) Put(dst int64) { b.emit(vm.Put(dst)) }

// Peek emits Peek(src).
func (b *Builder) Peek(src int64) { b.emit(vm.Peek(src)) }

// Poke emits Poke(dst).
func (b *Builder) Poke(dst int64) { b.emit(vm.Poke(dst)) }

// Alloc emits Alloc(n).
func (b *Builder) Alloc(n int64) { b.emit(vm.Alloc(n)) }

// Free emits Free.
func (b *Builder) Free() { b.emit(vm.Op{Code: vm.OpFree}) }

// Comment emits Comment(text).
func (b *Builder) Comment(text string) { b.emit(vm.Comment(text)) }

// BeginFunction emits Function, opening a new function body.
func (b *Builder) BeginFunction() {
	b.emit(vm.Op{Code: vm.OpFunction})
	b.funcDepth++
}

// Call emits Call.
func (b *Builder) Call() { b.emit(vm.Op{Code: vm.OpCall}) }

// Return emits Return.
func (b *Builder) Return() { b.emit(vm.Op{Code: vm.OpReturn}) }

// BeginWhile emits While, opening a loop body.
func (b *Builder) BeginWhile() { b.emit(vm.Op{Code: vm.OpWhile}) }

// BeginIf emits If, opening a conditional.
func (b *Builder) BeginIf() { b.emit(vm.Op{Code: vm.OpIf}) }

// BeginElse emits Else.
func (b *Builder) BeginElse() { b.emit(vm.Op{Code: vm.OpElse}) }

// End emits End, closing the innermost open Function, While, or If.
func (b *Builder) End() {
	b.emit(vm.Op{Code: vm.OpEnd})

	if b.funcDepth > 0 {
		b.funcDepth--
	}
}
