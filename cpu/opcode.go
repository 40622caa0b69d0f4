package cpu

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/ssm/internal"
)

// Word is a machine word.
type Word int32

const (
	WORD_BITS   = 32       // Bits in a machine word.
	CONST_TRUE  = Word(-1) // Result of a true comparison.
	CONST_FALSE = Word(0)  // Result of a false comparison.
)

// Category is the instruction category, which selects how the engine
// dispatches it.
type Category int

//go:generate go tool stringer -linecomment -type=Category
const (
	CTG_BINOP = Category(0) // binop
	CTG_UNOP  = Category(1) // unop
	CTG_OP    = Category(2) // op
	CTG_BRCC  = Category(3) // brcc
)

// Binary operators. Both operands are popped, the result is pushed.
const (
	BI_ADD = Word(0x01)
	BI_AND = Word(0x02)
	BI_CMP = Word(0x03)
	BI_DIV = Word(0x04)
	BI_MOD = Word(0x07)
	BI_MUL = Word(0x08)
	BI_OR  = Word(0x09)
	BI_SUB = Word(0x0c)
	BI_XOR = Word(0x0d)
	BI_EQ  = Word(0x0e)
	BI_NE  = Word(0x0f)
	BI_LT  = Word(0x10)
	BI_GT  = Word(0x11)
	BI_LE  = Word(0x12)
	BI_GE  = Word(0x13)
	BI_LSL = Word(0x14)
	BI_LSR = Word(0x15)
	BI_ROL = Word(0x16)
	BI_ROR = Word(0x17)
)

// Unary operators.
const (
	UI_NEG = Word(0x20)
	UI_NOT = Word(0x21)
)

// Conditional branches on a popped condition code word.
const (
	BR_LE = Word(0x66)
	BR_GE = Word(0x67)
	BR_LT = Word(0x6a)
	BR_GT = Word(0x6b)
	BR_EQ = Word(0x6e)
	BR_NE = Word(0x6f)
)

// Other instructions.
const (
	I_ADJS   = Word(0x64)
	I_BRA    = Word(0x68)
	I_BRF    = Word(0x6c)
	I_BRT    = Word(0x6d)
	I_BSR    = Word(0x70)
	I_HALT   = Word(0x74)
	I_JSR    = Word(0x78)
	I_LDA    = Word(0x7c)
	I_LDMA   = Word(0x7e)
	I_LDAA   = Word(0x80)
	I_LDC    = Word(0x84)
	I_LDL    = Word(0x88)
	I_LDML   = Word(0x8a)
	I_LDLA   = Word(0x8c)
	I_LDR    = Word(0x90)
	I_LDRR   = Word(0x94)
	I_LDS    = Word(0x98)
	I_LDMS   = Word(0x9a)
	I_LDSA   = Word(0x9c)
	I_LINK   = Word(0xa0)
	I_NOP    = Word(0xa4)
	I_RET    = Word(0xa8)
	I_STA    = Word(0xac)
	I_STMA   = Word(0xae)
	I_STL    = Word(0xb0)
	I_STML   = Word(0xb2)
	I_STR    = Word(0xb4)
	I_STS    = Word(0xb8)
	I_STMS   = Word(0xba)
	I_SWP    = Word(0xbc)
	I_SWPR   = Word(0xc0)
	I_SWPRR  = Word(0xc4)
	I_TRAP   = Word(0xc8)
	I_UNLINK = Word(0xcc)
	I_LDH    = Word(0xd0)
	I_LDMH   = Word(0xd4)
	I_STH    = Word(0xd6)
	I_STMH   = Word(0xd8)
)

// TRAP sub-operations, selected by the inline operand.
const (
	TR_PR_INT          = Word(0)
	TR_PR_CHAR         = Word(1)
	TR_IN_INT          = Word(10)
	TR_IN_CHAR         = Word(11)
	TR_IN_CHAR_ARRAY   = Word(12)
	TR_FILE_OPEN_READ  = Word(20)
	TR_FILE_OPEN_WRITE = Word(21)
	TR_FILE_READ       = Word(22)
	TR_FILE_WRITE      = Word(23)
	TR_FILE_CLOSE      = Word(24)
)

var _trap_defines = map[string]Word{
	"PR_INT":          TR_PR_INT,
	"PR_CHAR":         TR_PR_CHAR,
	"IN_INT":          TR_IN_INT,
	"IN_CHAR":         TR_IN_CHAR,
	"IN_CHAR_ARRAY":   TR_IN_CHAR_ARRAY,
	"FILE_OPEN_READ":  TR_FILE_OPEN_READ,
	"FILE_OPEN_WRITE": TR_FILE_OPEN_WRITE,
	"FILE_READ":       TR_FILE_READ,
	"FILE_WRITE":      TR_FILE_WRITE,
	"FILE_CLOSE":      TR_FILE_CLOSE,
}

// Condition code bits of the status word pushed by cmp.
const (
	CC_C    = Word(1 << 0) // Unsigned borrow.
	CC_V    = Word(1 << 1) // Signed overflow.
	CC_Z    = Word(1 << 2) // Zero.
	CC_N    = Word(1 << 3) // Negative.
	CC_MASK = CC_C | CC_V | CC_Z | CC_N
)

// CondMask is the set of status nibbles a conditional branch accepts. Bit n
// is set when the status nibble n satisfies the condition.
type CondMask uint16

// makeCond builds a CondMask from a predicate over the status flags.
func makeCond(pred func(n, z, v, c bool) bool) (mask CondMask) {
	for sr := range Word(16) {
		if pred(sr&CC_N != 0, sr&CC_Z != 0, sr&CC_V != 0, sr&CC_C != 0) {
			mask |= 1 << sr
		}
	}
	return
}

// Matches returns true if the status word satisfies the condition.
func (cm CondMask) Matches(sr Word) bool {
	return cm&(1<<(sr&CC_MASK)) != 0
}

// Instruction describes one entry of the instruction set.
type Instruction struct {
	Code     Word     // Opcode.
	Name     string   // Mnemonic.
	Category Category // Dispatch category.
	Operands int      // Number of inline operand words.
	Cond     CondMask // Accepted status nibbles, for CTG_BRCC.
}

// String returns the mnemonic.
func (instr *Instruction) String() string {
	if instr == nil {
		return "?"
	}
	return instr.Name
}

var instructionSet = []Instruction{
	{Code: BI_ADD, Name: "add", Category: CTG_BINOP},
	{Code: BI_AND, Name: "and", Category: CTG_BINOP},
	{Code: BI_CMP, Name: "cmp", Category: CTG_BINOP},
	{Code: BI_DIV, Name: "div", Category: CTG_BINOP},
	{Code: BI_MOD, Name: "mod", Category: CTG_BINOP},
	{Code: BI_MUL, Name: "mul", Category: CTG_BINOP},
	{Code: BI_OR, Name: "or", Category: CTG_BINOP},
	{Code: BI_SUB, Name: "sub", Category: CTG_BINOP},
	{Code: BI_XOR, Name: "xor", Category: CTG_BINOP},
	{Code: BI_EQ, Name: "eq", Category: CTG_BINOP},
	{Code: BI_NE, Name: "ne", Category: CTG_BINOP},
	{Code: BI_LT, Name: "lt", Category: CTG_BINOP},
	{Code: BI_GT, Name: "gt", Category: CTG_BINOP},
	{Code: BI_LE, Name: "le", Category: CTG_BINOP},
	{Code: BI_GE, Name: "ge", Category: CTG_BINOP},
	{Code: BI_LSL, Name: "lsl", Category: CTG_BINOP},
	{Code: BI_LSR, Name: "lsr", Category: CTG_BINOP},
	{Code: BI_ROL, Name: "rol", Category: CTG_BINOP},
	{Code: BI_ROR, Name: "ror", Category: CTG_BINOP},

	{Code: UI_NEG, Name: "neg", Category: CTG_UNOP},
	{Code: UI_NOT, Name: "not", Category: CTG_UNOP},

	{Code: BR_EQ, Name: "beq", Category: CTG_BRCC, Operands: 1,
		Cond: makeCond(func(n, z, v, c bool) bool { return z })},
	{Code: BR_NE, Name: "bne", Category: CTG_BRCC, Operands: 1,
		Cond: makeCond(func(n, z, v, c bool) bool { return !z })},
	{Code: BR_LT, Name: "blt", Category: CTG_BRCC, Operands: 1,
		Cond: makeCond(func(n, z, v, c bool) bool { return n != v })},
	{Code: BR_GE, Name: "bge", Category: CTG_BRCC, Operands: 1,
		Cond: makeCond(func(n, z, v, c bool) bool { return n == v })},
	{Code: BR_GT, Name: "bgt", Category: CTG_BRCC, Operands: 1,
		Cond: makeCond(func(n, z, v, c bool) bool { return !z && n == v })},
	{Code: BR_LE, Name: "ble", Category: CTG_BRCC, Operands: 1,
		Cond: makeCond(func(n, z, v, c bool) bool { return z || n != v })},

	{Code: I_ADJS, Name: "ajs", Category: CTG_OP, Operands: 1},
	{Code: I_BRA, Name: "bra", Category: CTG_OP, Operands: 1},
	{Code: I_BRF, Name: "brf", Category: CTG_OP, Operands: 1},
	{Code: I_BRT, Name: "brt", Category: CTG_OP, Operands: 1},
	{Code: I_BSR, Name: "bsr", Category: CTG_OP, Operands: 1},
	{Code: I_HALT, Name: "halt", Category: CTG_OP},
	{Code: I_JSR, Name: "jsr", Category: CTG_OP},
	{Code: I_LDA, Name: "lda", Category: CTG_OP, Operands: 1},
	{Code: I_LDMA, Name: "ldma", Category: CTG_OP, Operands: 2},
	{Code: I_LDAA, Name: "ldaa", Category: CTG_OP, Operands: 1},
	{Code: I_LDC, Name: "ldc", Category: CTG_OP, Operands: 1},
	{Code: I_LDL, Name: "ldl", Category: CTG_OP, Operands: 1},
	{Code: I_LDML, Name: "ldml", Category: CTG_OP, Operands: 2},
	{Code: I_LDLA, Name: "ldla", Category: CTG_OP, Operands: 1},
	{Code: I_LDR, Name: "ldr", Category: CTG_OP, Operands: 1},
	{Code: I_LDRR, Name: "ldrr", Category: CTG_OP, Operands: 2},
	{Code: I_LDS, Name: "lds", Category: CTG_OP, Operands: 1},
	{Code: I_LDMS, Name: "ldms", Category: CTG_OP, Operands: 2},
	{Code: I_LDSA, Name: "ldsa", Category: CTG_OP, Operands: 1},
	{Code: I_LINK, Name: "link", Category: CTG_OP, Operands: 1},
	{Code: I_NOP, Name: "nop", Category: CTG_OP},
	{Code: I_RET, Name: "ret", Category: CTG_OP},
	{Code: I_STA, Name: "sta", Category: CTG_OP, Operands: 1},
	{Code: I_STMA, Name: "stma", Category: CTG_OP, Operands: 2},
	{Code: I_STL, Name: "stl", Category: CTG_OP, Operands: 1},
	{Code: I_STML, Name: "stml", Category: CTG_OP, Operands: 2},
	{Code: I_STR, Name: "str", Category: CTG_OP, Operands: 1},
	{Code: I_STS, Name: "sts", Category: CTG_OP, Operands: 1},
	{Code: I_STMS, Name: "stms", Category: CTG_OP, Operands: 2},
	{Code: I_SWP, Name: "swp", Category: CTG_OP},
	{Code: I_SWPR, Name: "swpr", Category: CTG_OP, Operands: 1},
	{Code: I_SWPRR, Name: "swprr", Category: CTG_OP, Operands: 2},
	{Code: I_TRAP, Name: "trap", Category: CTG_OP, Operands: 1},
	{Code: I_UNLINK, Name: "unlink", Category: CTG_OP},
	{Code: I_LDH, Name: "ldh", Category: CTG_OP, Operands: 1},
	{Code: I_LDMH, Name: "ldmh", Category: CTG_OP, Operands: 2},
	{Code: I_STH, Name: "sth", Category: CTG_OP},
	{Code: I_STMH, Name: "stmh", Category: CTG_OP, Operands: 1},
}

var instructionByCode map[Word]*Instruction

func init() {
	instructionByCode = make(map[Word]*Instruction, len(instructionSet))
	for n := range instructionSet {
		instr := &instructionSet[n]
		if _, dup := instructionByCode[instr.Code]; dup {
			panic("duplicate opcode " + instr.Name)
		}
		instructionByCode[instr.Code] = instr
	}
}

// Lookup returns the instruction for an opcode.
func Lookup(code Word) (instr *Instruction, ok bool) {
	instr, ok = instructionByCode[code]
	return
}

// LookupName returns the instruction for a mnemonic, in any case.
func LookupName(name string) (instr *Instruction, ok bool) {
	name = strings.ToLower(name)
	for n := range instructionSet {
		if instructionSet[n].Name == name {
			return &instructionSet[n], true
		}
	}
	return
}

// Instructions iterates over the instruction set in opcode order.
func Instructions() iter.Seq[*Instruction] {
	return slices.Values(slices.SortedFunc(maps.Values(instructionByCode), func(a, b *Instruction) int {
		return int(a.Code - b.Code)
	}))
}

// Defines iterates over the named constants of the machine: upper case
// mnemonics, TRAP sub-operations, register numbers and the boolean words.
func Defines() iter.Seq2[string, Word] {
	opcodes := func(yield func(string, Word) bool) {
		for instr := range Instructions() {
			if !yield(strings.ToUpper(instr.Name), instr.Code) {
				return
			}
		}
	}
	consts := maps.All(map[string]Word{
		"TRUE":  CONST_TRUE,
		"FALSE": CONST_FALSE,
	})
	return internal.IterSeq2Concat(opcodes, maps.All(_trap_defines), registerDefines(), consts)
}
