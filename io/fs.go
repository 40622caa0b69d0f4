package io

import (
	"bytes"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FS is the file system the file traps open files in.
type FS interface {
	// Open opens an existing file for reading.
	Open(name string) (file io.ReadCloser, err error)
	// Create creates or truncates a file for writing.
	Create(name string) (file io.WriteCloser, err error)
}

// DirFS is an FS rooted at a host directory. Names may not escape the
// root.
type DirFS string

var _ FS = DirFS("")

func (dir DirFS) path(name string) (path string, err error) {
	if !filepath.IsLocal(name) {
		err = &fs.PathError{Op: "open", Path: name, Err: ErrFileInvalid}
		return
	}
	path = filepath.Join(string(dir), name)
	return
}

// Open opens the named file for reading.
func (dir DirFS) Open(name string) (file io.ReadCloser, err error) {
	path, err := dir.path(name)
	if err != nil {
		return
	}
	return os.Open(path)
}

// Create creates the named file for writing.
func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	path, err := dir.path(name)
	if err != nil {
		return
	}
	return os.Create(path)
}

// MemFS is an in-memory FS. A created file becomes visible when it is
// closed.
type MemFS struct {
	Files map[string][]byte
}

var _ FS = &MemFS{}

// Open opens the named file for reading.
func (mfs *MemFS) Open(name string) (file io.ReadCloser, err error) {
	data, ok := mfs.Files[name]
	if !ok {
		err = &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		return
	}
	file = io.NopCloser(bytes.NewReader(data))
	return
}

// Create creates the named file for writing.
func (mfs *MemFS) Create(name string) (file io.WriteCloser, err error) {
	if len(name) == 0 || strings.ContainsRune(name, 0) {
		err = &fs.PathError{Op: "create", Path: name, Err: ErrFileInvalid}
		return
	}
	if mfs.Files == nil {
		mfs.Files = make(map[string][]byte)
	}
	mfs.Files[name] = nil
	file = &memFile{fs: mfs, name: name}
	return
}

// Names returns the sorted file names.
func (mfs *MemFS) Names() []string {
	return slices.Sorted(maps.Keys(mfs.Files))
}

type memFile struct {
	fs     *MemFS
	name   string
	data   bytes.Buffer
	closed bool
}

func (mf *memFile) Write(p []byte) (n int, err error) {
	if mf.closed {
		err = ErrFileClosed
		return
	}
	return mf.data.Write(p)
}

func (mf *memFile) Close() (err error) {
	if mf.closed {
		err = ErrFileClosed
		return
	}
	mf.closed = true
	mf.fs.Files[mf.name] = bytes.Clone(mf.data.Bytes())
	return
}
