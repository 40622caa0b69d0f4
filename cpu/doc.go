// Package cpu implements the Simple Stack Machine.
//
// The machine is a word oriented stack machine with eight registers (PC, SP,
// MP, HP, RR and R5-R7) and an annotated, automatically growing memory. Each
// instruction is an opcode word followed by its inline operand words. The
// stack grows in the configured direction; every stack and frame offset is
// scaled by that direction, while the heap always grows upward.
//
// Every register and memory write is published on an event Feed, so that
// observers can follow the machine without polling it. Console and file
// input/output happen through the TRAP instruction, using a Messenger and a
// file system supplied by the caller.
//
// The package also reads the textual form of a program image, a flat list
// of words with named constants and compile-time expressions.
package cpu
