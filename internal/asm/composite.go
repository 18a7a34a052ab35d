package asm

import "github.com/kiwi-lang/kiwi/internal/vm"

// composite.go macro-expands each Location composite operation into VM ops,
// every one bracketed by To(l)/From(l) so the data pointer always returns to
// its starting cell. This is the load-bearing idiom of the whole package:
// see Location.To/From.

// Set assigns the constant n to l.
func (l Location) Set(n int64, b *Builder) {
	b.SetRegister(n)
	l.SaveTo(b)
}

// SaveTo writes the builder's register to l.
func (l Location) SaveTo(b *Builder) {
	l.To(b)
	b.Save()
	l.From(b)
}

// RestoreFrom reads l into the builder's register.
func (l Location) RestoreFrom(b *Builder) {
	l.To(b)
	b.Restore()
	l.From(b)
}

// CopyTo copies l's value into other.
func (l Location) CopyTo(other Location, b *Builder) {
	l.RestoreFrom(b)
	other.SaveTo(b)
}

// CopyAddressTo records l's absolute address into dst. Because Where reads
// the pointer while it is parked on l, this is the primitive pointer
// arithmetic is built from.
func (l Location) CopyAddressTo(dst Location, b *Builder) {
	l.To(b)
	b.Where()
	l.From(b)
	dst.SaveTo(b)
}

// Push pushes l's value onto the stack addressed by SP.
func (l Location) Push(b *Builder) {
	Offset(Indirect(SP), 1).CopyAddressTo(SP, b)
	l.CopyTo(Indirect(SP), b)
}

// Pop pops the top of the stack addressed by SP into l.
func (l Location) Pop(b *Builder) {
	Indirect(SP).CopyTo(l, b)
	Offset(Indirect(SP), -1).CopyAddressTo(SP, b)
}

// Next advances l, a pointer cell, to point count cells past its current
// target. It is the portable way to walk a pointer; Inc/Dec on a pointer
// cell is forbidden because the VM cell's representation is unspecified.
func (l Location) Next(count int64, b *Builder) {
	Offset(Indirect(l), count).CopyAddressTo(l, b)
}

// Prev retreats l, a pointer cell, to point count cells before its current
// target.
func (l Location) Prev(count int64, b *Builder) {
	Offset(Indirect(l), -count).CopyAddressTo(l, b)
}

// WholeInt sets l to 1 if its value is non-negative, 0 otherwise.
func (l Location) WholeInt(b *Builder) {
	l.To(b)
	b.Restore()
	b.IsNonNegative()
	b.Save()
	l.From(b)
}

// Inc adds one to l. There is no dedicated VM opcode for it: the value is
// staged through TMP2 and added back, the same discipline the comparison
// operators use. TMP2, not TMP, is the staging cell because IsGreaterThan
// and IsLessThan call Dec with l == TMP; staging through TMP itself would
// have the constant overwrite the very value being decremented.
func (l Location) Inc(b *Builder) {
	TMP2.Set(1, b)
	l.binop(vm.OpAdd, TMP2, b)
}

// Dec subtracts one from l.
func (l Location) Dec(b *Builder) {
	TMP2.Set(1, b)
	l.binop(vm.OpSub, TMP2, b)
}

// binop performs op as an abstract binary operation: l is the destination,
// src the source, matching the shape of every Add/Sub/Mul/Div/Rem below.
func (l Location) binop(op vm.Opcode, src Location, b *Builder) {
	l.RestoreFrom(b)
	src.To(b)
	b.AppendOp(vm.Op{Code: op})
	src.From(b)
	l.SaveTo(b)
}

// Add sets l to l + src (integer view).
func (l Location) Add(src Location, b *Builder) { l.binop(vm.OpAdd, src, b) }

// Sub sets l to l - src (integer view).
func (l Location) Sub(src Location, b *Builder) { l.binop(vm.OpSub, src, b) }

// Mul sets l to l * src (integer view).
func (l Location) Mul(src Location, b *Builder) { l.binop(vm.OpMul, src, b) }

// Div sets l to l / src (integer view).
func (l Location) Div(src Location, b *Builder) { l.binop(vm.OpDiv, src, b) }

// Rem sets l to l % src (integer view).
func (l Location) Rem(src Location, b *Builder) { l.binop(vm.OpRem, src, b) }

// AddF sets l to l + src (float view, standard tier).
func (l Location) AddF(src Location, b *Builder) { l.binop(vm.OpAddF, src, b) }

// SubF sets l to l - src (float view, standard tier).
func (l Location) SubF(src Location, b *Builder) { l.binop(vm.OpSubF, src, b) }

// MulF sets l to l * src (float view, standard tier).
func (l Location) MulF(src Location, b *Builder) { l.binop(vm.OpMulF, src, b) }

// DivF sets l to l / src (float view, standard tier).
func (l Location) DivF(src Location, b *Builder) { l.binop(vm.OpDivF, src, b) }

// RemF sets l to l % src (float view, standard tier).
func (l Location) RemF(src Location, b *Builder) { l.binop(vm.OpRemF, src, b) }

// Pow sets l to l ** src (float view, standard tier).
func (l Location) Pow(src Location, b *Builder) { l.binop(vm.OpPow, src, b) }

// Not sets l to 0 if it is non-zero, 1 otherwise.
func (l Location) Not(b *Builder) {
	l.To(b)
	b.Restore()
	b.BeginIf()
	b.SetRegister(0)
	b.BeginElse()
	b.SetRegister(1)
	b.End()
	b.Save()
	l.From(b)
}

// And sets l to the boolean and of l and src, short-circuiting: src is only
// evaluated when l is truthy.
func (l Location) And(src Location, b *Builder) {
	l.To(b)
	b.Restore()
	b.BeginIf()
	l.From(b)
	src.RestoreFrom(b)
	l.To(b)
	b.BeginElse()
	b.SetRegister(0)
	b.End()
	b.Save()
	l.From(b)
}

// Or sets l to the boolean or of l and src, short-circuiting: src is only
// evaluated when l is falsy.
func (l Location) Or(src Location, b *Builder) {
	l.To(b)
	b.Restore()
	b.BeginIf()
	b.SetRegister(1)
	b.BeginElse()
	l.From(b)
	src.RestoreFrom(b)
	l.To(b)
	b.End()
	b.Save()
	l.From(b)
}

// IsGreaterThan sets l to 1 if l > src, 0 otherwise.
func (l Location) IsGreaterThan(src Location, b *Builder) {
	l.CopyTo(TMP, b)
	TMP.Sub(src, b)
	TMP.Dec(b)
	TMP.WholeInt(b)
	TMP.CopyTo(l, b)
}

// IsGreaterOrEqualTo sets l to 1 if l >= src, 0 otherwise.
func (l Location) IsGreaterOrEqualTo(src Location, b *Builder) {
	l.CopyTo(TMP, b)
	TMP.Sub(src, b)
	TMP.WholeInt(b)
	TMP.CopyTo(l, b)
}

// IsLessThan sets l to 1 if l < src, 0 otherwise.
func (l Location) IsLessThan(src Location, b *Builder) {
	src.CopyTo(TMP, b)
	TMP.Sub(l, b)
	TMP.Dec(b)
	TMP.WholeInt(b)
	TMP.CopyTo(l, b)
}

// IsLessOrEqualTo sets l to 1 if l <= src, 0 otherwise.
func (l Location) IsLessOrEqualTo(src Location, b *Builder) {
	src.CopyTo(TMP, b)
	TMP.Sub(l, b)
	TMP.WholeInt(b)
	TMP.CopyTo(l, b)
}
