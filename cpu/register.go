package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Reg is a register number.
type Reg int

const (
	PC = Reg(0) // Program counter.
	SP = Reg(1) // Stack pointer.
	MP = Reg(2) // Mark (frame) pointer.
	HP = Reg(3) // Heap pointer.
	RR = Reg(4) // Return value register.
	R5 = Reg(5)
	R6 = Reg(6)
	R7 = Reg(7)

	NUM_REGS = 8
)

var regAlias = [...]string{"PC", "SP", "MP", "HP", "RR"}

// String returns the alias of the register if it has one, otherwise Rn.
func (r Reg) String() string {
	if r >= 0 && int(r) < len(regAlias) {
		return regAlias[r]
	}
	return fmt.Sprintf("R%d", int(r))
}

// Valid returns true for a register of the machine.
func (r Reg) Valid() bool {
	return r >= 0 && r < NUM_REGS
}

// RegByName finds a register by Rn name or alias, in any case.
func RegByName(name string) (r Reg, ok bool) {
	name = strings.ToUpper(name)
	for n := range Reg(NUM_REGS) {
		if name == n.String() || name == fmt.Sprintf("R%d", int(n)) {
			return n, true
		}
	}
	return
}

func registerDefines() iter.Seq2[string, Word] {
	return func(yield func(string, Word) bool) {
		for r := range Reg(NUM_REGS) {
			if r.String() != fmt.Sprintf("R%d", int(r)) {
				if !yield(r.String(), Word(r)) {
					return
				}
			}
			if !yield(fmt.Sprintf("R%d", int(r)), Word(r)) {
				return
			}
		}
	}
}

// Registers is the register file. Indirect and displaced accesses go to
// the memory the registers address; displacements are counted in units of
// the stack direction.
type Registers struct {
	Events Feed[RegisterEvent] // Register writes.

	value  [NUM_REGS]Word
	memory *Memory
	dir    int
}

// NewRegisters creates a register file addressing mem, with stride dir.
func NewRegisters(mem *Memory, dir int) *Registers {
	return &Registers{
		memory: mem,
		dir:    dir,
	}
}

// Dir returns the stride of displaced accesses, +1 or -1.
func (rf *Registers) Dir() int {
	return rf.dir
}

// Check returns an error if w does not name a register.
func (rf *Registers) Check(w Word) (r Reg, err error) {
	r = Reg(w)
	if !r.Valid() {
		err = ErrRegister(w)
	}
	return
}

// Get returns a register value.
func (rf *Registers) Get(r Reg) Word {
	return rf.value[r]
}

// Set writes a register and notifies subscribers.
func (rf *Registers) Set(r Reg, value Word) {
	old := rf.value[r]
	rf.value[r] = value
	rf.Events.Emit(RegisterEvent{Reg: r, Old: old, New: value})
}

// Values returns all register values.
func (rf *Registers) Values() [NUM_REGS]Word {
	return rf.value
}

// Load writes all registers, in register order.
func (rf *Registers) Load(values [NUM_REGS]Word) {
	for r, value := range values {
		rf.Set(Reg(r), value)
	}
}

// Adjust moves a register by k units of the stack direction.
func (rf *Registers) Adjust(r Reg, k int) {
	rf.Set(r, rf.value[r]+Word(k*rf.dir))
}

// Add adds delta to a register, regardless of the stack direction.
func (rf *Registers) Add(r Reg, delta Word) {
	rf.Set(r, rf.value[r]+delta)
}

// Displ returns the address k units of the stack direction from the
// register value.
func (rf *Registers) Displ(r Reg, k int) int {
	return int(rf.value[r]) + k*rf.dir
}

// GetInd reads the memory cell a register points at.
func (rf *Registers) GetInd(r Reg) (Word, error) {
	return rf.memory.Get(int(rf.value[r]))
}

// SetInd writes the memory cell a register points at.
func (rf *Registers) SetInd(r Reg, value Word) error {
	return rf.memory.Set(int(rf.value[r]), value)
}

// GetDisplInd reads the memory cell k units from the register value.
func (rf *Registers) GetDisplInd(r Reg, k int) (Word, error) {
	return rf.memory.Get(rf.Displ(r, k))
}

// SetDisplInd writes the memory cell k units from the register value.
func (rf *Registers) SetDisplInd(r Reg, k int, value Word) error {
	return rf.memory.Set(rf.Displ(r, k), value)
}

// restore writes all registers without notifying subscribers.
func (rf *Registers) restore(values [NUM_REGS]Word) {
	rf.value = values
}
