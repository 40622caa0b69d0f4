package cpu

import (
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errDiskFull = errors.New("disk full")

// fullFS creates files that fail every write.
type fullFS struct{}

func (fullFS) Open(name string) (io.ReadCloser, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (fullFS) Create(name string) (io.WriteCloser, error) {
	return fullFile{}, nil
}

type fullFile struct{}

func (fullFile) Write(p []byte) (int, error) { return 0, errDiskFull }
func (fullFile) Close() error                { return nil }

func TestState_ResetFlushError(t *testing.T) {
	assert := assert.New(t)

	st, err := NewState(DefaultConfig())
	assert.NoError(err)
	st.FS = fullFS{}

	handle, err := st.OpenFile("out", false)
	assert.NoError(err)

	// Buffered, so the write itself succeeds.
	status, err := st.WriteToFile(handle, 'x')
	assert.NoError(err)
	assert.Equal(Word(1), status)

	err = st.Reset([]Word{I_NOP, I_HALT})
	assert.ErrorIs(err, ErrIO)
	assert.ErrorIs(err, errDiskFull)

	// The reset still completed.
	assert.Empty(st.Handles())
	assert.Equal(Word(0), st.Registers.Get(PC))
	assert.Equal(Word(1), st.Registers.Get(SP))
	v, _ := st.Memory.Get(1)
	assert.Equal(I_HALT, v)

	assert.NoError(st.Reset(nil))
}
