package emulator

import (
	"slices"

	"github.com/ezrec/ssm/cpu"
)

type deltaKind int

const (
	DELTA_REGISTER deltaKind = iota
	DELTA_MEMORY
	DELTA_ANNOTATION
)

// delta is a single state change, with what is needed to undo it.
type delta struct {
	kind    deltaKind
	reg     cpu.Reg
	address int
	old     cpu.Word
	oldAnn  *cpu.Annotation
}

// step is the record of one executed instruction.
type step struct {
	mark   cpu.Mark // Instruction state before the step.
	ticks  int      // Tick count before the step.
	deltas []delta
}

// History records the changes made by every step, so that steps can be
// undone. It only sees changes through the event feeds, so console and
// file effects are never undone.
type History struct {
	Depth    int // Maximum number of steps kept. 0 keeps none.
	Interval int // Steps between full snapshots.

	cpu       *cpu.Cpu
	steps     []*step
	count     int // Steps since reset.
	snapshots map[int]*cpu.Snapshot
	ticks     map[int]int
	current   *step
	muted     bool
	cancel    []func()
}

// NewHistory attaches a history to a machine.
func NewHistory(c *cpu.Cpu, depth, interval int) (hist *History) {
	hist = &History{
		Depth:     depth,
		Interval:  max(interval, 1),
		cpu:       c,
		snapshots: make(map[int]*cpu.Snapshot),
		ticks:     make(map[int]int),
	}

	hist.cancel = []func(){
		c.Registers.Events.Subscribe(func(ev cpu.RegisterEvent) {
			hist.record(delta{kind: DELTA_REGISTER, reg: ev.Reg, old: ev.Old})
		}),
		c.Memory.Events.Subscribe(func(ev cpu.MemoryEvent) {
			hist.record(delta{kind: DELTA_MEMORY, address: ev.Address, old: ev.Old})
		}),
		c.Memory.Annotations.Subscribe(func(ev cpu.AnnotationEvent) {
			hist.record(delta{kind: DELTA_ANNOTATION, address: ev.Address, oldAnn: ev.Old})
		}),
	}

	return
}

// Close detaches the history from its machine.
func (hist *History) Close() {
	for _, cancel := range hist.cancel {
		cancel()
	}
	hist.cancel = nil
}

func (hist *History) record(d delta) {
	if hist.muted || hist.current == nil {
		return
	}
	hist.current.deltas = append(hist.current.deltas, d)
}

func (hist *History) snapshot() {
	hist.snapshots[hist.count] = hist.cpu.Snapshot()
	hist.ticks[hist.count] = hist.cpu.Ticks
}

// Reset forgets all steps, and snapshots the machine as the rewind point.
func (hist *History) Reset() {
	hist.steps = nil
	hist.count = 0
	hist.current = nil
	clear(hist.snapshots)
	clear(hist.ticks)
	hist.snapshot()
}

// Steps returns the number of steps since reset.
func (hist *History) Steps() int {
	return hist.count
}

// Len returns the number of steps that can be undone.
func (hist *History) Len() int {
	return len(hist.steps)
}

// Begin starts recording a step. Changes until the next Begin belong to it.
func (hist *History) Begin() {
	if hist.count > 0 && hist.count%hist.Interval == 0 && hist.Depth > 0 {
		hist.snapshot()
	}

	hist.current = nil
	hist.count++

	if hist.Depth == 0 {
		return
	}

	mark := hist.cpu.Mark
	mark.Operands = slices.Clone(mark.Operands)
	hist.current = &step{
		mark:  mark,
		ticks: hist.cpu.Ticks,
	}
	hist.steps = append(hist.steps, hist.current)

	if len(hist.steps) > hist.Depth {
		hist.steps = slices.Delete(hist.steps, 0, 1)
		oldest := hist.count - len(hist.steps)
		for n := range hist.snapshots {
			if n != 0 && n < oldest {
				delete(hist.snapshots, n)
				delete(hist.ticks, n)
			}
		}
	}
}

// StepBack undoes the last step. It returns false when no step is left.
func (hist *History) StepBack() (ok bool) {
	if len(hist.steps) == 0 {
		return
	}

	last := hist.steps[len(hist.steps)-1]
	hist.steps = hist.steps[:len(hist.steps)-1]
	hist.current = nil

	delete(hist.snapshots, hist.count)
	delete(hist.ticks, hist.count)
	hist.count--

	if snap, found := hist.snapshots[hist.count]; found {
		hist.cpu.Restore(snap)
		hist.cpu.Ticks = hist.ticks[hist.count]
		ok = true
		return
	}

	hist.muted = true
	defer func() { hist.muted = false }()

	c := hist.cpu
	for _, d := range slices.Backward(last.deltas) {
		switch d.kind {
		case DELTA_REGISTER:
			c.Registers.Set(d.reg, d.old)
		case DELTA_MEMORY:
			// The cell was written, so it is in memory.
			_ = c.Memory.Set(d.address, d.old)
		case DELTA_ANNOTATION:
			c.Memory.SetAnnotation(d.address, d.oldAnn)
		}
	}

	c.Mark = last.mark
	c.Ticks = last.ticks
	ok = true

	return
}

// Rewind puts the machine back in its state at reset.
func (hist *History) Rewind() {
	snap, ok := hist.snapshots[0]
	if !ok {
		return
	}

	hist.cpu.Restore(snap)
	hist.cpu.Ticks = hist.ticks[0]
	hist.Reset()
}
