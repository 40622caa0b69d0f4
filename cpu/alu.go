package cpu

import (
	"math/bits"
)

// boolWord converts a comparison result to CONST_TRUE or CONST_FALSE.
func boolWord(cond bool) Word {
	if cond {
		return CONST_TRUE
	}
	return CONST_FALSE
}

// compare returns the condition codes of a-b.
func compare(a, b Word) (sr Word) {
	diff := a - b
	if diff == 0 {
		sr |= CC_Z
	}
	if diff < 0 {
		sr |= CC_N
	}
	if (a^b)&(a^diff) < 0 {
		sr |= CC_V
	}
	if uint32(a) < uint32(b) {
		sr |= CC_C
	}
	return
}

// binop applies a binary operator. Arithmetic wraps; shift and rotate
// amounts are taken modulo the word width.
func binop(code Word, a, b Word) (value Word, err error) {
	shift := uint32(b) & (WORD_BITS - 1)

	switch code {
	case BI_ADD:
		value = a + b
	case BI_SUB:
		value = a - b
	case BI_MUL:
		value = a * b
	case BI_DIV:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		value = a / b
	case BI_MOD:
		if b == 0 {
			err = ErrDivideByZero
			return
		}
		value = a % b
	case BI_AND:
		value = a & b
	case BI_OR:
		value = a | b
	case BI_XOR:
		value = a ^ b
	case BI_LSL:
		value = a << shift
	case BI_LSR:
		value = Word(uint32(a) >> shift)
	case BI_ROL:
		value = Word(bits.RotateLeft32(uint32(a), int(shift)))
	case BI_ROR:
		value = Word(bits.RotateLeft32(uint32(a), -int(shift)))
	case BI_EQ:
		value = boolWord(a == b)
	case BI_NE:
		value = boolWord(a != b)
	case BI_LT:
		value = boolWord(a < b)
	case BI_GT:
		value = boolWord(a > b)
	case BI_LE:
		value = boolWord(a <= b)
	case BI_GE:
		value = boolWord(a >= b)
	case BI_CMP:
		value = compare(a, b)
	default:
		panic("binop: unknown code")
	}

	return
}

// unop applies a unary operator.
func unop(code Word, a Word) (value Word) {
	switch code {
	case UI_NEG:
		value = -a
	case UI_NOT:
		value = ^a
	default:
		panic("unop: unknown code")
	}
	return
}
