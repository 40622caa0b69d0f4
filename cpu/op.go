package cpu

// Annotations of cells with a special role.
var (
	annReturn = &Annotation{Text: "return addr", Tag: TAG_RETURN}
	annFrame  = &Annotation{Text: "prev " + MP.String(), Tag: TAG_FRAME}
	annSingle = &Annotation{Text: "begin / end", Tag: TAG_HEAP}
	annBegin  = &Annotation{Text: "begin", Tag: TAG_HEAP}
	annEnd    = &Annotation{Text: "end", Tag: TAG_HEAP}
)

// register returns the register named by an operand.
func (cpu *Cpu) register(n int) (r Reg, err error) {
	return cpu.Registers.Check(cpu.Operands[n])
}

// op executes an instruction of the CTG_OP category.
//
// The inline offsets of lda, ldma, ldaa, sta and stma count in units of the
// stack direction, like stack and local offsets. Heap offsets (ldh, ldmh)
// are raw, since the heap always grows upward.
func (cpu *Cpu) op() (err error) {
	rf := cpu.Registers
	mem := cpu.Memory
	dir := rf.Dir()
	ann := cpu.annotation()

	opnd := func(n int) int {
		return int(cpu.Operands[n])
	}

	var a, b Word
	var ra, rb Reg

	switch cpu.Code {
	case I_NOP:
	case I_HALT:
		cpu.halt()

	case I_ADJS:
		rf.Adjust(SP, opnd(0))
	case I_BRA:
		rf.Add(PC, cpu.Operands[0])
	case I_BRF, I_BRT:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		if (a != 0) == (cpu.Code == I_BRT) {
			rf.Add(PC, cpu.Operands[0])
		}

	case I_BSR:
		err = cpu.push(rf.Get(PC), annReturn)
		if err != nil {
			return
		}
		rf.Add(PC, cpu.Operands[0])
	case I_JSR:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		err = cpu.push(rf.Get(PC), annReturn)
		if err != nil {
			return
		}
		rf.Set(PC, a)
	case I_RET:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		rf.Set(PC, a)

	case I_LDC:
		err = cpu.push(cpu.Operands[0], ann)
	case I_LDS:
		a, err = rf.GetDisplInd(SP, opnd(0))
		if err != nil {
			return
		}
		err = cpu.push(a, ann)
	case I_LDMS:
		err = cpu.pushMultiple(rf.Displ(SP, opnd(0)), dir, opnd(1))
	case I_LDL:
		a, err = rf.GetDisplInd(MP, opnd(0))
		if err != nil {
			return
		}
		err = cpu.push(a, ann)
	case I_LDML:
		err = cpu.pushMultiple(rf.Displ(MP, opnd(0)), dir, opnd(1))
	case I_LDA:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		b, err = mem.Get(int(a) + opnd(0)*dir)
		if err != nil {
			return
		}
		err = cpu.push(b, ann)
	case I_LDMA:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		err = cpu.pushMultiple(int(a)+opnd(0)*dir, dir, opnd(1))

	case I_LDAA:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		err = cpu.push(a+Word(opnd(0)*dir), ann)
	case I_LDSA:
		err = cpu.push(Word(rf.Displ(SP, opnd(0))), ann)
	case I_LDLA:
		err = cpu.push(Word(rf.Displ(MP, opnd(0))), ann)

	case I_LDR:
		ra, err = cpu.register(0)
		if err != nil {
			return
		}
		err = cpu.push(rf.Get(ra), &Annotation{Text: "copy of " + ra.String(), Tag: TAG_COPY})
	case I_LDRR:
		ra, err = cpu.register(0)
		if err != nil {
			return
		}
		rb, err = cpu.register(1)
		if err != nil {
			return
		}
		rf.Set(ra, rf.Get(rb))
	case I_STR:
		ra, err = cpu.register(0)
		if err != nil {
			return
		}
		a, err = cpu.pop()
		if err != nil {
			return
		}
		rf.Set(ra, a)

	case I_STS:
		addr := rf.Displ(SP, opnd(0))
		a, err = cpu.pop()
		if err != nil {
			return
		}
		err = mem.Set(addr, a)
	case I_STMS:
		err = cpu.popMultiple(rf.Displ(SP, opnd(0)), dir, opnd(1))
	case I_STL:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		err = rf.SetDisplInd(MP, opnd(0), a)
	case I_STML:
		err = cpu.popMultiple(rf.Displ(MP, opnd(0)), dir, opnd(1))
	case I_STA:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		b, err = cpu.pop()
		if err != nil {
			return
		}
		err = mem.Set(int(a)+opnd(0)*dir, b)
	case I_STMA:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		err = cpu.popMultiple(int(a)+opnd(0)*dir, dir, opnd(1))

	case I_SWP:
		a, err = rf.GetDisplInd(SP, -1)
		if err != nil {
			return
		}
		b, err = rf.GetInd(SP)
		if err != nil {
			return
		}
		err = rf.SetDisplInd(SP, -1, b)
		if err != nil {
			return
		}
		err = rf.SetInd(SP, a)
	case I_SWPR:
		ra, err = cpu.register(0)
		if err != nil {
			return
		}
		a, err = rf.GetInd(SP)
		if err != nil {
			return
		}
		err = rf.SetInd(SP, rf.Get(ra))
		if err != nil {
			return
		}
		rf.Set(ra, a)
	case I_SWPRR:
		ra, err = cpu.register(0)
		if err != nil {
			return
		}
		rb, err = cpu.register(1)
		if err != nil {
			return
		}
		a = rf.Get(ra)
		rf.Set(ra, rf.Get(rb))
		rf.Set(rb, a)

	case I_LINK:
		err = cpu.push(rf.Get(MP), annFrame)
		if err != nil {
			return
		}
		rf.Set(MP, rf.Get(SP))
		rf.Adjust(SP, opnd(0))
	case I_UNLINK:
		rf.Set(SP, rf.Get(MP))
		a, err = cpu.pop()
		if err != nil {
			return
		}
		rf.Set(MP, a)

	case I_LDH:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		b, err = mem.Get(int(a) + opnd(0))
		if err != nil {
			return
		}
		err = cpu.push(b, ann)
	case I_LDMH:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		size := opnd(1)
		err = cpu.pushMultiple(int(a)-opnd(0)-(size-1), 1, size)
	case I_STH:
		a, err = cpu.pop()
		if err != nil {
			return
		}
		addr := int(rf.Get(HP))
		err = mem.Set(addr, a)
		if err != nil {
			return
		}
		rf.Add(HP, 1)
		mem.SetAnnotation(addr, annSingle)
		err = cpu.push(Word(addr), ann)
	case I_STMH:
		size := opnd(0)
		if size < 0 {
			err = ErrSizeInvalid
			return
		}
		begin := int(rf.Get(HP))
		end := begin + size - 1
		err = cpu.popMultiple(begin, 1, size)
		if err != nil {
			return
		}
		rf.Add(HP, Word(size))
		switch {
		case size == 1:
			mem.SetAnnotation(begin, annSingle)
		case size > 1:
			mem.SetAnnotation(begin, annBegin)
			mem.SetAnnotation(end, annEnd)
		}
		err = cpu.push(Word(end), ann)

	case I_TRAP:
		err = cpu.trap(cpu.Operands[0])

	default:
		cpu.notImplemented()
	}

	return
}
