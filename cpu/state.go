package cpu

import (
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
)

// Mark is the decoded instruction state of the machine.
type Mark struct {
	Instr     *Instruction // Current instruction.
	Code      Word         // Opcode of the current instruction.
	Operands  []Word       // Inline operands of the current instruction.
	InstrAddr int          // Address of the current instruction.
	Halted    bool         // Set once the machine has halted.
}

// Snapshot is a full copy of the machine state, without open files.
type Snapshot struct {
	Registers   [NUM_REGS]Word
	Cells       []Word
	Annotations map[int]*Annotation
	Mark        Mark
}

// State is the complete state of a machine: memory, registers, the
// current instruction and the open files.
type State struct {
	Verbose bool // If set, logs resets and file operations.

	Memory    *Memory
	Registers *Registers
	FS        FS // File system of the file traps. If nil, no file can be opened.

	Mark

	config Config
	files  map[Word]*file
}

// NewState creates the state of a machine with the given layout.
func NewState(cfg Config) (st *State, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	mem := NewMemory(cfg.memorySize(0), cfg.AutoGrow)
	st = &State{
		Memory:    mem,
		Registers: NewRegisters(mem, cfg.Direction),
		config:    cfg,
		files:     make(map[Word]*file),
	}

	return
}

// Config returns the machine layout.
func (st *State) Config() Config {
	return st.config
}

// Dir returns the stack direction.
func (st *State) Dir() int {
	return st.config.Direction
}

// Reset loads an image and puts the machine in its initial state. Open
// files are closed; a failure to flush or close them is returned, after
// the reset is complete.
func (st *State) Reset(image []Word) (err error) {
	cfg := st.config
	if st.Verbose {
		log.Printf("cpu: reset, %v words at %v", len(image), cfg.Origin)
	}

	err = st.closeFiles()
	if err != nil && st.Verbose {
		log.Printf("cpu: reset: %v", err)
	}

	st.Memory.Load(cfg.Origin, image, cfg.memorySize(len(image)))

	dir := cfg.Direction
	frame := Word(cfg.StackBottom(len(image)) - dir + dir*cfg.InitialFrame)

	var regs [NUM_REGS]Word
	regs[PC] = Word(cfg.Origin)
	regs[SP] = frame
	regs[MP] = frame
	regs[HP] = Word(cfg.HeapBase)
	st.Registers.Load(regs)

	st.Mark = Mark{}

	return
}

// SetCurrentInstr records the instruction about to execute. Its operands
// are cleared, ready to be read.
func (st *State) SetCurrentInstr(addr int, code Word, instr *Instruction) {
	st.InstrAddr = addr
	st.Code = code
	st.Instr = instr
	st.Operands = make([]Word, instr.Operands)
}

// Describe returns the current instruction with its operands.
func (st *State) Describe() string {
	if st.Instr == nil {
		return ""
	}
	var text strings.Builder
	text.WriteString(st.Instr.Name)
	for _, op := range st.Operands {
		fmt.Fprintf(&text, " %d", op)
	}
	return text.String()
}

// String returns the register contents.
func (st *State) String() (text string) {
	for r, value := range st.Registers.Values() {
		text += fmt.Sprintf("% 3s: %v %d\n", Reg(r), AsHex(value), value)
	}
	return
}

// Snapshot returns a copy of the machine state.
func (st *State) Snapshot() *Snapshot {
	mark := st.Mark
	mark.Operands = slices.Clone(mark.Operands)
	return &Snapshot{
		Registers:   st.Registers.Values(),
		Cells:       st.Memory.Words(),
		Annotations: maps.Clone(st.Memory.annotation),
		Mark:        mark,
	}
}

// Restore puts the machine back in a snapshot state. No events are
// emitted, and open files are left alone.
func (st *State) Restore(snap *Snapshot) {
	st.Registers.restore(snap.Registers)
	st.Memory.restore(snap.Cells, snap.Annotations)
	st.Mark = snap.Mark
	st.Mark.Operands = slices.Clone(snap.Mark.Operands)
}
