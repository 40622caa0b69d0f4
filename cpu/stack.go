package cpu

// push stores a value on top of the stack.
func (cpu *Cpu) push(value Word, ann *Annotation) (err error) {
	rf := cpu.Registers

	addr := rf.Displ(SP, 1)
	err = cpu.Memory.Set(addr, value)
	if err != nil {
		return
	}
	rf.Adjust(SP, 1)
	cpu.Memory.SetAnnotation(addr, ann)

	return
}

// pop removes the value on top of the stack.
func (cpu *Cpu) pop() (value Word, err error) {
	rf := cpu.Registers

	value, err = rf.GetInd(SP)
	if err != nil {
		return
	}
	cpu.Memory.SetAnnotation(int(rf.Get(SP)), nil)
	rf.Adjust(SP, -1)

	return
}

// copyMem copies size words from a block stepping by fromStep to a block
// stepping by toStep, and annotates the destination cells. Overlapping
// blocks that step the same way are copied in the order that keeps the
// source intact.
func (cpu *Cpu) copyMem(from, fromStep, to, toStep, size int, ann *Annotation) (err error) {
	if size < 0 {
		err = ErrSizeInvalid
		return
	}

	mem := cpu.Memory

	// The whole block is one access, bounded like any other.
	if size > 0 {
		for _, addr := range []int{to, to + (size-1)*toStep} {
			if !mem.reachable(addr) {
				err = ErrAddress(addr)
				return
			}
		}
	}

	backward := fromStep == toStep && from*fromStep < to*toStep
	for i := range size {
		n := i
		if backward {
			n = size - 1 - i
		}
		var value Word
		value, err = mem.Get(from + n*fromStep)
		if err != nil {
			return
		}
		err = mem.Set(to+n*toStep, value)
		if err != nil {
			return
		}
	}

	for n := range size {
		mem.SetAnnotation(to+n*toStep, ann)
	}

	return
}

// pushMultiple pushes size words, read from a block stepping by fromStep.
// The first word of the block ends up deepest in the stack.
func (cpu *Cpu) pushMultiple(from, fromStep, size int) (err error) {
	if size < 0 {
		err = ErrSizeInvalid
		return
	}

	rf := cpu.Registers
	to := rf.Displ(SP, 1)
	rf.Adjust(SP, size)

	return cpu.copyMem(from, fromStep, to, rf.Dir(), size, cpu.annotation())
}

// popMultiple pops size words into a block stepping by toStep. The
// deepest popped word goes to the start of the block. Popped cells outside
// the block lose their annotation.
func (cpu *Cpu) popMultiple(to, toStep, size int) (err error) {
	if size < 0 {
		err = ErrSizeInvalid
		return
	}

	rf := cpu.Registers
	dir := rf.Dir()
	rf.Adjust(SP, -size)
	from := rf.Displ(SP, 1)

	err = cpu.copyMem(from, dir, to, toStep, size, cpu.annotation())
	if err != nil {
		return
	}

	for n := range size {
		addr := from + n*dir
		if k := (addr - to) * toStep; k < 0 || k >= size {
			cpu.Memory.SetAnnotation(addr, nil)
		}
	}

	return
}
