/*
Package vm implements the virtual machine model: the tape, the tagged cell,
the two-tier instruction set (core and standard), and the machine state that
every other layer of the compiler agrees on.

The machine is deliberately small. A [Tape] is a flat array of [Cell] values; a
[State] holds a data pointer into the tape, a scratch register, and a bounded
reference stack for [OpDeref]/[OpRefer]. Nothing above the cell line is typed:
a cell is an integer, a float, or an address purely by the discipline of the
program that reads it back, never by a runtime tag. See [Cell] for why.

This package owns only the microarchitecture. It has no opinion about where
registers, the call stack, or the heap live on the tape -- that convention
belongs to the assembly layer (package asm), which is the only consumer of
the reserved-location constants, even though this package happens to define
them for convenience since the interpreter and the target emitters also need
to agree on their values.

# Bugs

Division and remainder by zero are reported as errors by the interpreter
(package interp) but are not checked when emitted to a native target.
*/
package vm
