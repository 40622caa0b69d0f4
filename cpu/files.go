package cpu

import (
	"bufio"
	"errors"
	"io"
	"log"
	"maps"
	"slices"
)

// file is an open file of the file traps.
type file struct {
	name   string
	closer io.Closer
	reader *bufio.Reader
	writer *bufio.Writer
}

// OpenFile opens a file for reading, or creates it for writing, and
// returns the lowest free handle.
func (st *State) OpenFile(name string, readOnly bool) (handle Word, err error) {
	if st.FS == nil {
		err = ErrFileNotFound
		return
	}

	fh := &file{name: name}
	if readOnly {
		var rc io.ReadCloser
		rc, err = st.FS.Open(name)
		if err == nil {
			fh.closer = rc
			fh.reader = bufio.NewReader(rc)
		}
	} else {
		var wc io.WriteCloser
		wc, err = st.FS.Create(name)
		if err == nil {
			fh.closer = wc
			fh.writer = bufio.NewWriter(wc)
		}
	}
	if err != nil {
		err = errors.Join(ErrFileNotFound, err)
		return
	}

	if st.files == nil {
		st.files = make(map[Word]*file)
	}
	for st.files[handle] != nil {
		handle++
	}
	st.files[handle] = fh

	if st.Verbose {
		log.Printf("cpu: open %q as %v", name, handle)
	}

	return
}

func (st *State) file(handle Word) (fh *file, err error) {
	fh = st.files[handle]
	if fh == nil {
		err = ErrInvalidHandle
	}
	return
}

// ReadFromFile reads one byte from a file opened for reading. It returns -1
// at the end of the file.
func (st *State) ReadFromFile(handle Word) (value Word, err error) {
	fh, err := st.file(handle)
	if err != nil {
		return
	}
	if fh.reader == nil {
		err = ErrIO
		return
	}

	b, err := fh.reader.ReadByte()
	switch {
	case err == nil:
		value = Word(b)
	case errors.Is(err, io.EOF):
		value = -1
		err = nil
	default:
		err = errors.Join(ErrIO, err)
	}
	return
}

// WriteToFile writes the low byte of value to a file opened for writing.
// It returns the status word 1.
func (st *State) WriteToFile(handle Word, value Word) (status Word, err error) {
	fh, err := st.file(handle)
	if err != nil {
		return
	}
	if fh.writer == nil {
		err = ErrIO
		return
	}

	err = fh.writer.WriteByte(byte(value))
	if err != nil {
		err = errors.Join(ErrIO, err)
		return
	}

	status = 1
	return
}

// CloseFile closes an open file. The handle is free again afterwards.
func (st *State) CloseFile(handle Word) (err error) {
	fh, err := st.file(handle)
	if err != nil {
		return
	}
	delete(st.files, handle)

	if st.Verbose {
		log.Printf("cpu: close %v (%q)", handle, fh.name)
	}

	if fh.writer != nil {
		err = fh.writer.Flush()
	}
	err = errors.Join(err, fh.closer.Close())
	if err != nil {
		err = errors.Join(ErrIO, err)
	}
	return
}

// Handles returns the open file handles, in order.
func (st *State) Handles() []Word {
	return slices.Sorted(maps.Keys(st.files))
}

// closeFiles closes every open file.
func (st *State) closeFiles() (err error) {
	for _, handle := range st.Handles() {
		err = errors.Join(err, st.CloseFile(handle))
	}
	return
}
