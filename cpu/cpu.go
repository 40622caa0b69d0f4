package cpu

import (
	"fmt"
	"log"

	"github.com/ezrec/ssm/io"
)

// Messenger is the console of the TRAP instruction.
type Messenger io.Messenger

// Diagnostician is a Messenger that keeps diagnostics apart from program
// output.
type Diagnostician io.Diagnostician

// FS is the file system of the file traps.
type FS io.FS

// Cpu is the execution engine of the machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	*State

	Messenger Messenger // Console for TRAP and diagnostics.
	Ticks     int       // Executed instructions.
}

// NewCpu creates a machine with the given layout. If msg is nil, console
// output is discarded and console input reads as empty.
func NewCpu(cfg Config, msg Messenger) (cpu *Cpu, err error) {
	st, err := NewState(cfg)
	if err != nil {
		return
	}

	if msg == nil {
		msg = &io.Script{}
	}

	cpu = &Cpu{
		State:     st,
		Messenger: msg,
	}

	return
}

// Reset loads an image and restarts the machine. It returns the error of
// closing the files left open by the previous run.
func (cpu *Cpu) Reset(image []Word) (err error) {
	cpu.State.Verbose = cpu.Verbose
	err = cpu.State.Reset(image)
	cpu.Ticks = 0
	return
}

// diagnose reports a diagnostic line.
func (cpu *Cpu) diagnose(text string) {
	if cpu.Verbose {
		log.Printf("cpu: %v", text)
	}
	io.Diagnose(cpu.Messenger, text)
}

// halt stops the machine.
func (cpu *Cpu) halt() {
	cpu.Halted = true
	cpu.diagnose(f("machine halted"))
}

// Tick executes a single instruction. It does nothing once the machine
// has halted. A fault is reported, halts the machine, and is returned as
// an *ErrFault.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Halted {
		return
	}

	cpu.State.Verbose = cpu.Verbose

	defer func() {
		if err != nil {
			cpu.diagnose(err.Error())
			cpu.halt()
			err = &ErrFault{Address: cpu.InstrAddr, Instr: cpu.Instr, Err: err}
		}
	}()

	illegal, err := cpu.fetch()
	if err != nil {
		return
	}

	cpu.Ticks++

	if illegal {
		// The substituted halt is silent; the illegal code was reported.
		cpu.Halted = true
		return
	}

	err = cpu.execute()

	return
}

// fetch reads the instruction at PC and its operands, and moves PC past
// them. An unknown opcode is reported and replaced by halt.
func (cpu *Cpu) fetch() (illegal bool, err error) {
	rf := cpu.Registers

	pc := int(rf.Get(PC))
	cpu.InstrAddr = pc
	cpu.Instr = nil

	code, err := cpu.Memory.Get(pc)
	if err != nil {
		return
	}

	instr, ok := Lookup(code)
	if !ok {
		cpu.diagnose(f("illegal instruction code %v", AsHex(code)))
		illegal = true
		code = I_HALT
		instr, _ = Lookup(code)
	}

	cpu.SetCurrentInstr(pc, code, instr)
	if !illegal {
		for n := range cpu.Operands {
			cpu.Operands[n], err = cpu.Memory.Get(pc + 1 + n)
			if err != nil {
				return
			}
		}
	}

	rf.Set(PC, Word(pc+1+len(cpu.Operands)))

	return
}

// notImplemented reports an instruction the engine cannot execute.
func (cpu *Cpu) notImplemented() {
	cpu.diagnose(f("%v at %v not (yet) implemented", cpu.Instr.Name, AsHex(Word(cpu.InstrAddr))))
}

// annotation is the annotation of a cell written by the current
// instruction.
func (cpu *Cpu) annotation() *Annotation {
	return &Annotation{Text: cpu.Describe()}
}

// execute executes the current instruction.
func (cpu *Cpu) execute() (err error) {
	instr := cpu.Instr
	if cpu.Verbose {
		log.Printf("cpu: %v: %v", AsHex(Word(cpu.InstrAddr)), cpu.Describe())
	}

	switch instr.Category {
	case CTG_BINOP:
		var a, b, value Word
		b, err = cpu.pop()
		if err != nil {
			return
		}
		a, err = cpu.pop()
		if err != nil {
			return
		}
		value, err = binop(instr.Code, a, b)
		if err != nil {
			return
		}
		err = cpu.push(value, &Annotation{Text: fmt.Sprintf("%d %s %d", a, instr.Name, b)})
	case CTG_UNOP:
		var a Word
		a, err = cpu.pop()
		if err != nil {
			return
		}
		err = cpu.push(unop(instr.Code, a), cpu.annotation())
	case CTG_BRCC:
		var sr Word
		sr, err = cpu.pop()
		if err != nil {
			return
		}
		if instr.Cond.Matches(sr) {
			cpu.Registers.Add(PC, cpu.Operands[0])
		}
	case CTG_OP:
		err = cpu.op()
	default:
		cpu.notImplemented()
	}

	return
}
