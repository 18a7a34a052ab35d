package vm

// reserved.go defines the fixed addresses that the assembler, the
// interpreter, and both target emitters all agree on. The vm package defines
// them because every layer of the system needs the same values, but it is
// package asm that actually owns the convention they encode -- see the
// package doc.

// Reserved tape addresses. SP and FP anchor the call stack; TMP and TMP2 are
// scratch space for composite assembly operations that need to stash a value
// mid-op -- two cells so an op like Dec that both reads and writes through a
// scratch cell never aliases the location it's staging a constant into; A
// through F are general-purpose registers available to generated code.
// BottomOfStack is where the call stack starts growing upward from, and
// doubles as the lowest address a well-formed program may use for the heap
// bump pointer passed to Alloc.
const (
	SP Address = iota
	TMP
	TMP2
	FP
	A
	B
	C
	D
	E
	F

	BottomOfStack = F
)

// NumReserved is the number of tape cells reserved before user-addressable
// space begins.
const NumReserved = int(BottomOfStack) + 1
