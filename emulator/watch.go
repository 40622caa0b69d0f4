package emulator

import (
	"fmt"
	"strings"

	"github.com/ezrec/ssm/cpu"
)

// Row is one stack cell, as shown by a StackWatch.
type Row struct {
	Address    int
	Value      cpu.Word
	Regs       []cpu.Reg       // Registers pointing at the cell.
	Annotation *cpu.Annotation // Cell annotation, or nil.
}

func (row Row) String() string {
	regs := make([]string, len(row.Regs))
	for n, r := range row.Regs {
		regs[n] = r.String()
	}

	text := fmt.Sprintf("%v: %v %11s %-8s", cpu.AsHex(cpu.Word(row.Address)), cpu.AsHex(row.Value), fmt.Sprint(row.Value), strings.Join(regs, ","))
	if row.Annotation != nil {
		text += " ; " + row.Annotation.String()
	}

	return strings.TrimRight(text, " ")
}

// StackWatch follows the stack of a machine through its register events.
// It shows the cells from the stack start up to the deepest stack pointer
// seen, in the stack direction.
type StackWatch struct {
	cpu    *cpu.Cpu
	start  int
	high   int
	cancel func()
}

// NewStackWatch attaches a stack watch to a machine.
func NewStackWatch(c *cpu.Cpu) (sw *StackWatch) {
	sw = &StackWatch{
		cpu: c,
	}

	sw.cancel = c.Registers.Events.Subscribe(func(ev cpu.RegisterEvent) {
		if ev.Reg == cpu.SP {
			sw.follow(int(ev.New))
		}
	})

	sw.Reset(c.Config().StackBottom(0))

	return
}

// Close detaches the watch from its machine.
func (sw *StackWatch) Close() {
	if sw.cancel != nil {
		sw.cancel()
		sw.cancel = nil
	}
}

func (sw *StackWatch) follow(sp int) {
	if (sp-sw.high)*sw.cpu.Dir() > 0 {
		sw.high = sp
	}
}

// Reset starts watching a stack that begins at start.
func (sw *StackWatch) Reset(start int) {
	sw.start = start
	sw.high = int(sw.cpu.Registers.Get(cpu.SP))
}

// Resync catches up with a stack pointer changed without events.
func (sw *StackWatch) Resync() {
	sw.follow(int(sw.cpu.Registers.Get(cpu.SP)))
}

// Start returns the address of the first stack cell.
func (sw *StackWatch) Start() int {
	return sw.start
}

// HighWater returns the deepest stack pointer seen.
func (sw *StackWatch) HighWater() int {
	return sw.high
}

// Rows returns the watched cells, from the stack start.
func (sw *StackWatch) Rows() (rows []Row) {
	c := sw.cpu
	dir := c.Dir()
	regs := c.Registers.Values()

	for addr := sw.start; (sw.high-addr)*dir >= 0; addr += dir {
		value, err := c.Memory.Get(addr)
		if err != nil {
			break
		}
		row := Row{
			Address:    addr,
			Value:      value,
			Annotation: c.Memory.Annotation(addr),
		}
		for r, reg := range regs {
			if int(reg) == addr {
				row.Regs = append(row.Regs, cpu.Reg(r))
			}
		}
		rows = append(rows, row)
	}

	return
}

func (sw *StackWatch) String() string {
	var text strings.Builder
	for _, row := range sw.Rows() {
		text.WriteString(row.String())
		text.WriteByte('\n')
	}
	return text.String()
}
