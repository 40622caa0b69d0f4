// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"iter"
	"log"
	"maps"
	"strconv"

	"github.com/ezrec/ssm/cpu"
	"github.com/ezrec/ssm/io"
)

//go:generate go tool stringer -linecomment -type=Stop

// Stop is the reason Run returned.
type Stop int

const (
	STOP_HALTED     Stop = iota // halted
	STOP_BREAKPOINT             // breakpoint
	STOP_LIMIT                  // limit
)

// Emulator state. CPU + program + history.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	History     *History     // Step history.
	Watch       *StackWatch  // Stack watch.
	Breakpoints map[int]bool // Addresses Run stops at.

	config Config
}

// NewEmulator creates a new emulator. If msg is nil, console output is
// discarded.
func NewEmulator(cfg Config, msg cpu.Messenger) (emu *Emulator, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	c, err := cpu.NewCpu(cfg.Config, msg)
	if err != nil {
		return
	}

	if len(cfg.Files) != 0 {
		c.FS = io.DirFS(cfg.Files)
	}

	emu = &Emulator{
		Cpu:         c,
		Program:     &cpu.Program{Origin: cfg.Origin},
		History:     NewHistory(c, cfg.HistoryDepth, cfg.SnapshotInterval),
		Watch:       NewStackWatch(c),
		Breakpoints: make(map[int]bool),
		config:      cfg,
	}

	return
}

// Config returns the emulator configuration.
func (emu *Emulator) Config() Config {
	return emu.config
}

// Defines returns an iterator over the layout defines of the machine.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	cfg := emu.config
	return maps.All(map[string]string{
		"ORIGIN":    strconv.Itoa(cfg.Origin),
		"DIRECTION": strconv.Itoa(cfg.Direction),
		"HEAP_BASE": strconv.Itoa(cfg.HeapBase),
	})
}

// Close the emulator
func (emu *Emulator) Close() (err error) {
	emu.History.Close()
	emu.Watch.Close()

	return
}

// Reset loads the program and restarts the machine.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil {
		emu.Program = &cpu.Program{Origin: emu.config.Origin}
	}

	prog := emu.Program
	if prog.Origin != emu.config.Origin {
		err = ErrOrigin(prog.Origin)
		return
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %v words", len(prog.Words))
	}

	emu.Cpu.Verbose = emu.Verbose
	err = emu.Cpu.Reset(prog.Binary())
	emu.History.Reset()
	emu.Watch.Reset(emu.config.StackBottom(len(prog.Words)))

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(int(emu.Registers.Get(cpu.PC)))
}

// Tick performs a single tick of the emulator. done is set once the
// machine has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Halted {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	emu.History.Begin()
	err = emu.Cpu.Tick()
	done = emu.Halted

	return
}

// Run ticks until the machine halts, reaches a breakpoint, or has made
// limit steps. A limit of 0 or less is no limit. The breakpoint at the
// starting address is skipped, so Run can resume from a breakpoint.
func (emu *Emulator) Run(limit int) (stop Stop, steps int, err error) {
	for {
		if emu.Halted {
			stop = STOP_HALTED
			return
		}
		if limit > 0 && steps >= limit {
			stop = STOP_LIMIT
			return
		}
		if steps > 0 && emu.Breakpoints[int(emu.Registers.Get(cpu.PC))] {
			stop = STOP_BREAKPOINT
			return
		}

		_, err = emu.Tick()
		steps++
		if err != nil {
			stop = STOP_HALTED
			return
		}
	}
}

// StepBack undoes the last step. It returns false when no step is left.
func (emu *Emulator) StepBack() (ok bool) {
	ok = emu.History.StepBack()
	emu.Watch.Resync()
	return
}

// Rewind puts the machine back in its state at reset. Open files stay
// open, and console output stays printed.
func (emu *Emulator) Rewind() {
	emu.History.Rewind()
	emu.Watch.Reset(emu.Watch.Start())
}
