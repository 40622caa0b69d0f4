package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ssm/cpu"
)

func TestStackWatch(t *testing.T) {
	table := [](struct {
		direction int
		start     int
		second    int
	}){
		{1, 8, 9},
		{-1, 1999, 1998},
	}

	for _, entry := range table {
		assert := assert.New(t)

		cfg := DefaultConfig()
		cfg.Direction = entry.direction
		emu, _ := newTestEmulator(t, cfg, sumProgram)
		emu.Breakpoints[4] = true

		assert.Equal(entry.start, emu.Watch.Start())
		assert.Empty(emu.Watch.Rows())

		stop, _, err := emu.Run(0)
		assert.NoError(err)
		assert.Equal(STOP_BREAKPOINT, stop)

		rows := emu.Watch.Rows()
		if assert.Len(rows, 2, entry.direction) {
			assert.Equal(entry.start, rows[0].Address)
			assert.Equal(cpu.Word(3), rows[0].Value)
			assert.Nil(rows[0].Regs)
			assert.Equal("ldc 3", rows[0].Annotation.String())
			assert.Equal(entry.second, rows[1].Address)
			assert.Equal(cpu.Word(4), rows[1].Value)
			assert.Equal([]cpu.Reg{cpu.SP}, rows[1].Regs)
		}

		// add pops two and pushes one; the high water mark stays.
		_, err = emu.Tick()
		assert.NoError(err)
		assert.Equal(entry.second, emu.Watch.HighWater())
		rows = emu.Watch.Rows()
		if assert.Len(rows, 2, entry.direction) {
			assert.Equal(cpu.Word(7), rows[0].Value)
			assert.Equal([]cpu.Reg{cpu.SP}, rows[0].Regs)
			assert.Equal("3 add 4", rows[0].Annotation.String())
			assert.Nil(rows[1].Annotation)
		}
		assert.Contains(emu.Watch.String(), "00000007           7 SP       ; 3 add 4")

		assert.True(emu.StepBack())
		rows = emu.Watch.Rows()
		if assert.Len(rows, 2, entry.direction) {
			assert.Equal(cpu.Word(4), rows[1].Value)
			assert.Equal([]cpu.Reg{cpu.SP}, rows[1].Regs)
		}
	}
}

func TestStackWatch_Close(t *testing.T) {
	assert := assert.New(t)

	emu, _ := newTestEmulator(t, DefaultConfig(), sumProgram)
	feeds := emu.Registers.Events.Len()

	emu.Watch.Close()
	assert.Equal(feeds-1, emu.Registers.Events.Len())
	emu.Watch.Close()
	assert.Equal(feeds-1, emu.Registers.Events.Len())
}
