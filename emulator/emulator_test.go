package emulator

import (
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ssm/cpu"
	"github.com/ezrec/ssm/io"
)

var sumProgram = []string{
	"$(LDC) 3",
	"$(LDC) 4",
	"$(ADD)",
	"$(TRAP) $(PR_INT)",
	"$(HALT)",
}

func newTestEmulator(t *testing.T, cfg Config, program []string) (emu *Emulator, script *io.Script) {
	assert := assert.New(t)

	ip := &cpu.ImageParser{Origin: cfg.Origin}
	prog, err := ip.Parse(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		t.FailNow()
	}

	script = io.NewScript("")
	emu, err = NewEmulator(cfg, script)
	if !assert.NoError(err) {
		t.FailNow()
	}
	t.Cleanup(func() { emu.Close() })

	emu.Program = prog
	err = emu.Reset()
	if !assert.NoError(err) {
		t.FailNow()
	}

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(DefaultConfig(), nil)
	assert.NoError(err)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.History)
	assert.NotNil(emu.Watch)
	assert.Nil(emu.FS)

	defines := maps.Collect(emu.Defines())
	assert.Equal("0", defines["ORIGIN"])
	assert.Equal("1", defines["DIRECTION"])
	assert.Equal("2000", defines["HEAP_BASE"])

	_, err = NewEmulator(Config{Config: cpu.DefaultConfig()}, nil)
	assert.ErrorIs(err, ErrConfigHistory)
}

func TestEmulator_Files(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.Files = t.TempDir()

	emu, err := NewEmulator(cfg, nil)
	assert.NoError(err)
	assert.Equal(io.DirFS(cfg.Files), emu.FS)
}

func TestEmulator_Tick(t *testing.T) {
	assert := assert.New(t)

	emu, script := newTestEmulator(t, DefaultConfig(), sumProgram)

	for n := range len(sumProgram) {
		assert.Equal(n+1, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(n == len(sumProgram)-1, done)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(5, emu.Ticks)

	assert.Equal("7\n", script.Output.String())
	assert.Equal([]string{"machine halted"}, script.Diagnostics)
}

func TestEmulator_Run(t *testing.T) {
	assert := assert.New(t)

	emu, script := newTestEmulator(t, DefaultConfig(), sumProgram)

	stop, steps, err := emu.Run(1)
	assert.NoError(err)
	assert.Equal(STOP_LIMIT, stop)
	assert.Equal(1, steps)

	emu.Breakpoints[2] = true
	emu.Breakpoints[4] = true

	// The breakpoint at the start is skipped.
	stop, steps, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal(STOP_BREAKPOINT, stop)
	assert.Equal(1, steps)
	assert.Equal(cpu.Word(4), emu.Registers.Get(cpu.PC))

	stop, steps, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal(STOP_HALTED, stop)
	assert.Equal(3, steps)
	assert.Equal("halted", stop.String())

	stop, steps, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal(STOP_HALTED, stop)
	assert.Equal(0, steps)

	assert.Equal("7\n", script.Output.String())
}

func TestEmulator_Runtime(t *testing.T) {
	assert := assert.New(t)

	emu, script := newTestEmulator(t, DefaultConfig(), []string{
		"$(LDC) 1",
		"$(LDC) 0",
		"$(DIV)",
		"$(HALT)",
	})

	stop, steps, err := emu.Run(0)
	assert.Equal(STOP_HALTED, stop)
	assert.Equal(3, steps)
	assert.ErrorIs(err, cpu.ErrDivideByZero)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(3, runtime.LineNo)
	}

	assert.Equal([]string{"division by zero", "machine halted"}, script.Diagnostics)
}

func TestEmulator_Origin(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(DefaultConfig(), nil)
	assert.NoError(err)

	emu.Program = nil
	assert.NoError(emu.Reset())
	assert.NotNil(emu.Program)

	emu.Program = &cpu.Program{Origin: 5, Words: []cpu.Word{cpu.I_HALT}}
	assert.ErrorIs(emu.Reset(), ErrOrigin(5))

	cfg := DefaultConfig()
	cfg.Origin = 5
	emu, err = NewEmulator(cfg, nil)
	assert.NoError(err)

	emu.Program = &cpu.Program{Origin: 5, Words: []cpu.Word{cpu.I_HALT}, Lines: []int{1}}
	assert.NoError(emu.Reset())
	assert.Equal(1, emu.LineNo())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulator_StepBack(t *testing.T) {
	for _, interval := range []int{1, 2, 100} {
		assert := assert.New(t)

		cfg := DefaultConfig()
		cfg.SnapshotInterval = interval
		emu, script := newTestEmulator(t, cfg, sumProgram)

		var before []*cpu.Snapshot
		for {
			before = append(before, emu.Snapshot())
			done, err := emu.Tick()
			assert.NoError(err)
			if done {
				break
			}
		}
		assert.Equal(5, emu.History.Len())

		for n := len(before) - 1; n >= 0; n-- {
			assert.True(emu.StepBack(), "interval %v step %v", interval, n)
			snap := before[n]
			assert.Equal(snap.Registers, emu.Registers.Values(), "interval %v step %v", interval, n)
			assert.Equal(snap.Cells, emu.Memory.Words(), "interval %v step %v", interval, n)
			assert.Equal(snap.Mark, emu.Mark, "interval %v step %v", interval, n)
			assert.Equal(n, emu.Ticks)
			assert.Equal(n, emu.History.Steps())
			for addr := range 20 {
				assert.Equal(snap.Annotations[addr], emu.Memory.Annotation(addr), "interval %v step %v", interval, n)
			}
		}
		assert.False(emu.StepBack())

		// Console output is not undone.
		assert.Equal("7\n", script.Output.String())

		// Run again, from the restored state.
		stop, _, err := emu.Run(0)
		assert.NoError(err)
		assert.Equal(STOP_HALTED, stop)
		assert.Equal("7\n7\n", script.Output.String())
	}
}

func TestEmulator_StepBackDepth(t *testing.T) {
	assert := assert.New(t)

	cfg := DefaultConfig()
	cfg.HistoryDepth = 2
	cfg.SnapshotInterval = 1
	emu, _ := newTestEmulator(t, cfg, sumProgram)

	_, steps, err := emu.Run(0)
	assert.NoError(err)
	assert.Equal(5, steps)
	assert.Equal(2, emu.History.Len())

	assert.True(emu.StepBack())
	assert.True(emu.StepBack())
	assert.False(emu.StepBack())
	assert.Equal(3, emu.History.Steps())
	assert.Equal(cpu.Word(5), emu.Registers.Get(cpu.PC))

	cfg.HistoryDepth = 0
	emu, _ = newTestEmulator(t, cfg, sumProgram)
	_, _, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal(0, emu.History.Len())
	assert.False(emu.StepBack())
}

func TestEmulator_Rewind(t *testing.T) {
	assert := assert.New(t)

	emu, script := newTestEmulator(t, DefaultConfig(), sumProgram)
	reset := emu.Snapshot()

	_, _, err := emu.Run(0)
	assert.NoError(err)
	assert.True(emu.Halted)

	emu.Rewind()
	assert.False(emu.Halted)
	assert.Equal(0, emu.Ticks)
	assert.Equal(0, emu.History.Steps())
	assert.Equal(reset.Registers, emu.Registers.Values())
	assert.Equal(reset.Cells, emu.Memory.Words())
	assert.Equal(emu.Watch.Start()-1, emu.Watch.HighWater())

	_, _, err = emu.Run(0)
	assert.NoError(err)
	assert.Equal("7\n7\n", script.Output.String())
}
