/*
Package asm implements the assembly layer: the Location algebra that
addresses cells on the virtual machine's tape, the composite operations
built from it, and the assembler that turns a sequence of those operations
into a flat, callable vm.StandardProgram.

A [Location] is either an absolute [Addr], an [Indirect] through another
Location, or an [Offset] from one. Every composite operation -- SaveTo,
CopyTo, Push, Add, IsGreaterThan, and the rest in composite.go -- is built by
bracketing a body with Location.To and Location.From, so the data pointer
always returns to where it started. See composite.go for the catalogue.

[Program.Assemble] resolves a sequence of those ops, built with a [Builder],
into the calling convention every function obeys: a prologue that saves the
caller's frame pointer and a matching epilogue that restores it, woven around
every Function body and every Return.
*/
package asm
