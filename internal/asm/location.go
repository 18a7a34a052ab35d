// Package asm implements the assembly layer: the Location algebra that
// addresses the virtual machine's tape, the composite operations built on
// top of it, and the assembler that resolves a sequence of assembly ops into
// a flat, callable [vm.CoreProgram] or [vm.StandardProgram].
package asm

import (
	"fmt"

	"github.com/kiwi-lang/kiwi/internal/vm"
)

type locKind uint8

const (
	kindAddress locKind = iota
	kindIndirect
	kindOffset
)

// Location is a recursive value addressing a cell on the tape: an absolute
// address, an indirection through another location, or an offset from one.
// Locations are value types with no identity; use [Location.Equal] to
// compare them, since two structurally identical Locations are not
// guaranteed to be == (they may hold distinct pointers to equal subtrees).
type Location struct {
	kind  locKind
	addr  vm.Address
	of    *Location
	delta int64
}

// Addr is the Location naming the absolute cell at addr.
func Addr(addr vm.Address) Location {
	return Location{kind: kindAddress, addr: addr}
}

// Indirect is the Location naming the cell whose address is stored at of.
func Indirect(of Location) Location {
	return Location{kind: kindIndirect, of: &of}
}

// Offset is the Location delta cells past of.
func Offset(of Location, delta int64) Location {
	return Location{kind: kindOffset, of: &of, delta: delta}
}

// Equal reports whether l and other name the same location.
func (l Location) Equal(other Location) bool {
	l, other = l.canonical(), other.canonical()

	if l.kind != other.kind {
		return false
	}

	switch l.kind {
	case kindAddress:
		return l.addr == other.addr
	case kindIndirect:
		return l.of.Equal(*other.of)
	case kindOffset:
		return l.delta == other.delta && l.of.Equal(*other.of)
	default:
		return false
	}
}

// canonical folds nested offsets into one and an offset from an absolute
// address into that address, so Equal compares the cells two Locations name
// rather than how they were built.
func (l Location) canonical() Location {
	if l.kind != kindOffset {
		return l
	}

	base, delta := l.of.canonical(), l.delta
	if base.kind == kindOffset {
		base, delta = *base.of, base.delta+delta
	}

	switch {
	case base.kind == kindAddress:
		return Addr(base.addr + vm.Address(delta))
	case delta == 0:
		return base
	default:
		return Offset(base, delta)
	}
}

func (l Location) String() string {
	switch l.kind {
	case kindAddress:
		return l.addr.String()
	case kindIndirect:
		return fmt.Sprintf("*%s", l.of)
	case kindOffset:
		return fmt.Sprintf("%s%+d", l.of, l.delta)
	default:
		return "<invalid location>"
	}
}

// To moves the builder's data pointer onto l. Every composite operation
// brackets its body with To(l) ... From(l) so the pointer always returns to
// where it started.
func (l Location) To(b *Builder) {
	switch l.kind {
	case kindAddress:
		b.MovePointer(int64(l.addr))
	case kindIndirect:
		l.of.To(b)
		b.Deref()
	case kindOffset:
		l.of.To(b)
		b.MovePointer(l.delta)
	}
}

// From moves the builder's data pointer back from l to where it was before
// the matching To(l).
func (l Location) From(b *Builder) {
	switch l.kind {
	case kindAddress:
		b.MovePointer(-int64(l.addr))
	case kindIndirect:
		b.Refer()
		l.of.From(b)
	case kindOffset:
		b.MovePointer(-l.delta)
		l.of.From(b)
	}
}

// Reserved locations. These mirror the wire-level constants vm defines; every
// backend and the interpreter agree on their addresses.
var (
	SP            = Addr(vm.SP)
	TMP           = Addr(vm.TMP)
	TMP2          = Addr(vm.TMP2)
	FP            = Addr(vm.FP)
	A             = Addr(vm.A)
	B             = Addr(vm.B)
	C             = Addr(vm.C)
	D             = Addr(vm.D)
	E             = Addr(vm.E)
	F             = Addr(vm.F)
	BottomOfStack = F
)
