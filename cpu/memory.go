package cpu

import (
	"slices"
)

// Tag is the highlight class of an annotation.
type Tag int

//go:generate go tool stringer -linecomment -type=Tag
const (
	TAG_NONE   = Tag(0) // none
	TAG_COPY   = Tag(1) // copy
	TAG_RETURN = Tag(2) // return
	TAG_FRAME  = Tag(3) // frame
	TAG_HEAP   = Tag(4) // heap
)

// Annotation explains why a memory cell was last written.
type Annotation struct {
	Text string
	Tag  Tag
}

// String returns the annotation text.
func (ann *Annotation) String() string {
	if ann == nil {
		return ""
	}
	return ann.Text
}

// Memory is the word addressed, annotated memory of the machine.
//
// Writes just past the end of memory grow it, by at most AutoGrow words
// beyond the current length. Reads in that window return zero without
// growing.
type Memory struct {
	AutoGrow    int                   // Maximum growth past the end, per access.
	Events      Feed[MemoryEvent]     // Cell writes.
	Annotations Feed[AnnotationEvent] // Annotation changes.

	cell       []Word
	annotation map[int]*Annotation
}

// NewMemory creates a zeroed memory of size words.
func NewMemory(size int, autoGrow int) *Memory {
	return &Memory{
		AutoGrow:   autoGrow,
		cell:       make([]Word, size),
		annotation: make(map[int]*Annotation),
	}
}

// Len returns the current size of memory.
func (mem *Memory) Len() int {
	return len(mem.cell)
}

// Words returns a copy of the memory contents.
func (mem *Memory) Words() []Word {
	return slices.Clone(mem.cell)
}

func (mem *Memory) reachable(addr int) bool {
	return addr >= 0 && addr < len(mem.cell)+mem.AutoGrow
}

// Get reads a memory cell.
func (mem *Memory) Get(addr int) (value Word, err error) {
	switch {
	case addr >= 0 && addr < len(mem.cell):
		value = mem.cell[addr]
	case mem.reachable(addr):
		// Never written, so zero.
	default:
		err = ErrAddress(addr)
	}
	return
}

// Set writes a memory cell, growing memory if needed.
func (mem *Memory) Set(addr int, value Word) (err error) {
	if !mem.reachable(addr) {
		err = ErrAddress(addr)
		return
	}

	if addr >= len(mem.cell) {
		mem.cell = append(mem.cell, make([]Word, addr+1-len(mem.cell))...)
	}

	old := mem.cell[addr]
	mem.cell[addr] = value
	mem.Events.Emit(MemoryEvent{Address: addr, Old: old, New: value})

	return
}

// SetString writes a memory cell from text, read as hexadecimal unless
// it carries a base prefix.
func (mem *Memory) SetString(addr int, text string) (err error) {
	value, err := FromHex(text, true)
	if err != nil {
		return
	}
	return mem.Set(addr, value)
}

// Annotation returns the annotation of a memory cell, or nil.
func (mem *Memory) Annotation(addr int) *Annotation {
	return mem.annotation[addr]
}

// SetAnnotation changes the annotation of a memory cell. A nil annotation
// removes it.
func (mem *Memory) SetAnnotation(addr int, ann *Annotation) {
	old := mem.annotation[addr]
	if old == nil && ann == nil {
		return
	}

	if mem.annotation == nil {
		mem.annotation = make(map[int]*Annotation)
	}
	if ann == nil {
		delete(mem.annotation, addr)
	} else {
		mem.annotation[addr] = ann
	}
	mem.Annotations.Emit(AnnotationEvent{Address: addr, Old: old, New: ann})
}

// Load replaces the memory contents with image at origin, in a memory of
// at least size words. Annotations are cleared. No events are emitted.
func (mem *Memory) Load(origin int, image []Word, size int) {
	size = max(size, origin+len(image))
	mem.cell = make([]Word, size)
	copy(mem.cell[origin:], image)
	mem.annotation = make(map[int]*Annotation)
}

// restore replaces the memory contents without events.
func (mem *Memory) restore(cells []Word, annotation map[int]*Annotation) {
	mem.cell = slices.Clone(cells)
	mem.annotation = make(map[int]*Annotation, len(annotation))
	for addr, ann := range annotation {
		mem.annotation[addr] = ann
	}
}
