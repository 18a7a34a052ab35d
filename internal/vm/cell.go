package vm

// cell.go defines the tagged-by-discipline cell, the tape's only unit of storage.

import (
	"fmt"
	"math"
)

// Address is an index into a [Tape]. It is just a cell's integer view,
// reinterpreted; there is no pointer arithmetic beyond what [Cell] already
// provides.
type Address int64

func (a Address) String() string {
	return fmt.Sprintf("@%d", int64(a))
}

// Cell is the tape's unit of storage: 64 raw bits that are an integer, a
// float, or an address, depending entirely on which op reads them back. The
// VM never checks which interpretation applies -- that would require a
// runtime tag, and the assembly layer's composite operations are built on the
// assumption that reading and writing a cell costs nothing beyond the bits
// themselves. See the package doc and DESIGN.md for the rationale.
type Cell uint64

// Int returns the cell's integer view.
func (c Cell) Int() int64 { return int64(c) }

// IntCell creates a cell from its integer view.
func IntCell(n int64) Cell { return Cell(n) }

// Float returns the cell's IEEE-754 floating point view.
func (c Cell) Float() float64 { return math.Float64frombits(uint64(c)) }

// FloatCell creates a cell from its floating point view.
func FloatCell(f float64) Cell { return Cell(math.Float64bits(f)) }

// Addr returns the cell's address view.
func (c Cell) Addr() Address { return Address(int64(c)) }

// AddrCell creates a cell from its address view.
func AddrCell(a Address) Cell { return Cell(a) }

func (c Cell) String() string {
	return fmt.Sprintf("%#x", uint64(c))
}
